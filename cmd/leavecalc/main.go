package main

import (
	"os"

	"github.com/warp/leave-entitlement/cmd/leavecalc/command"
)

func main() {
	cl := command.Commandline{}
	if err := cl.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
