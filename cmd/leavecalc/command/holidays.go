package command

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/warp/leave-entitlement/generic"
	"github.com/warp/leave-entitlement/holidays"
)

type eventLister interface {
	Events(ctx context.Context, year int, region holidays.Region) ([]holidays.Event, error)
}

type holidaysOptions struct {
	year       int
	region     string
	list       bool
	holidayURL string
	timeout    time.Duration
}

func (cl *Commandline) newHolidaysCmd() *cobra.Command {
	var opts holidaysOptions

	cmd := &cobra.Command{
		Use:     "holidays",
		Short:   "Count a region's bank holidays in a year",
		Example: `  leavecalc holidays --year 2025 --region scotland --list`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cl.countHolidays(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.year, "year", generic.Today().Year(), "calendar year")
	f.StringVar(&opts.region, "region", "", "england-and-wales, scotland or northern-ireland")
	f.BoolVar(&opts.list, "list", false, "list each holiday")
	f.StringVar(&opts.holidayURL, "holiday-url", "", "bank holiday feed URL (default $HOLIDAY_API_URL)")
	f.DurationVar(&opts.timeout, "timeout", 0, "lookup timeout (default $HOLIDAY_TIMEOUT)")

	return cmd
}

func (cl *Commandline) countHolidays(ctx context.Context, out io.Writer, opts holidaysOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	region, err := holidays.ParseRegion(opts.region)
	if err != nil {
		return err
	}

	provider := cl.provider(firstNonEmpty(opts.holidayURL, cl.config.HolidayAPIURL), firstPositive(opts.timeout, cl.config.HolidayTimeout))

	lister, ok := provider.(eventLister)
	if !opts.list || !ok {
		count := provider.BankHolidays(ctx, opts.year, region)
		fmt.Fprintf(out, "Bank Holidays in %d (%s): %s\n", opts.year, region.DisplayName(), count)
		return nil
	}

	events, err := lister.Events(ctx, opts.year, region)
	if err != nil {
		fmt.Fprintf(out, "Bank Holidays in %d (%s): %s\n", opts.year, region.DisplayName(), holidays.Unavailable(opts.year, region))
		return fmt.Errorf("list bank holidays: %w", err)
	}
	fmt.Fprintf(out, "Bank Holidays in %d (%s): %d\n", opts.year, region.DisplayName(), len(events))
	for _, e := range events {
		fmt.Fprintf(out, "  %s  %s\n", e.Date.Long(), e.Title)
	}
	return nil
}
