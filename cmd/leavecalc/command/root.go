/*
Package command implements the leavecalc command line.

PURPOSE:
  Runs entitlement calculations and holiday lookups from a terminal or a
  script, without the HTTP service. Output is the same plain-text summary
  the API stores; CSV and PDF copies can be written alongside.

COMMANDS:
  leavecalc calculate  Calculate one employee's entitlement
  leavecalc holidays   Count (and list) a region's bank holidays

CONFIGURATION:
  HOLIDAY_API_URL, HOLIDAY_TIMEOUT and POLICY_FILE are read from the
  environment (and .env). Flags take precedence over environment variables.

SEE ALSO:
  - config/config.go: Environment settings
  - api/handlers.go: The same flow behind POST /api/calculations
*/
package command

import (
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/warp/leave-entitlement/config"
	"github.com/warp/leave-entitlement/holidays"
)

// Commandline holds what the commands share. Zero values are usable.
type Commandline struct {
	config config.Config

	// NewProvider builds the calendar client. Defaults to holidays.NewClient.
	NewProvider func(url string, timeout time.Duration) holidays.Provider
}

// NewRootCmd builds the command tree.
func (cl *Commandline) NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "leavecalc",
		Short: "leavecalc - UK annual leave entitlement calculator",
		Long: `leavecalc - UK annual leave entitlement calculator.

Calculates prorated annual leave (basic entitlement, bank holidays and long
service award) rounded to the nearest 15 minutes.

Environment:
- HOLIDAY_API_URL: bank holiday feed (default GOV.UK)
- HOLIDAY_TIMEOUT: lookup timeout, e.g. 10s
- POLICY_FILE: entitlement policy JSON
  Note: flags take precedence over environment variables.
`,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cl.config = config.Load()
			return installLogger(cmd.ErrOrStderr(), verbose)
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log lookups and decisions to stderr")

	cmd.AddCommand(cl.newCalculateCmd(), cl.newHolidaysCmd())
	return cmd
}

func (cl *Commandline) provider(url string, timeout time.Duration) holidays.Provider {
	if cl.NewProvider != nil {
		return cl.NewProvider(url, timeout)
	}
	return holidays.NewClient(url, timeout)
}

// installLogger routes zap to stderr. Warnings only, unless verbose.
func installLogger(w io.Writer, verbose bool) error {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)
	zap.ReplaceGlobals(zap.New(core))
	return nil
}
