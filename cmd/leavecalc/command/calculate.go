package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/leave-entitlement/entitlement"
	"github.com/warp/leave-entitlement/factory"
	"github.com/warp/leave-entitlement/generic"
	"github.com/warp/leave-entitlement/holidays"
	"github.com/warp/leave-entitlement/report"
)

type calculateOptions struct {
	employee     string
	start        string
	end          string
	hire         string
	termination  string
	hours        string
	region       string
	bankHolidays int
	csvPath      string
	csvSplit     bool
	pdfPath      string
	policyPath   string
	holidayURL   string
	timeout      time.Duration
}

func (cl *Commandline) newCalculateCmd() *cobra.Command {
	var opts calculateOptions

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate an employee's annual leave entitlement",
		Example: `  leavecalc calculate --employee E1001 --hire 2015-04-01 --hours 22.5
  leavecalc calculate --hire 2019-01-07 --start 2025-01-01 --end 2025-06-30 --termination 2025-06-30
  leavecalc calculate --hire 2010-09-01 --region scotland --pdf e1001.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cl.calculate(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.employee, "employee", "", "employee number")
	f.StringVar(&opts.start, "start", "", "leave period start, YYYY-MM-DD (default 1 January of the end year, or this year)")
	f.StringVar(&opts.end, "end", "", "leave period end, YYYY-MM-DD (default 31 December of the start year, or this year)")
	f.StringVar(&opts.hire, "hire", "", "hire date, YYYY-MM-DD")
	f.StringVar(&opts.termination, "termination", "", "termination date, YYYY-MM-DD (default leave period end)")
	f.StringVar(&opts.hours, "hours", "", "contracted weekly hours in 15-minute steps (default full time)")
	f.StringVar(&opts.region, "region", "", "england-and-wales, scotland or northern-ireland")
	f.IntVar(&opts.bankHolidays, "bank-holidays", -1, "use this many bank holidays instead of asking the calendar API")
	f.StringVar(&opts.csvPath, "csv", "", "also write the summary as CSV to this file")
	f.BoolVar(&opts.csvSplit, "csv-split", false, "split CSV lines on ':' into columns")
	f.StringVar(&opts.pdfPath, "pdf", "", "also write the summary as PDF to this file")
	f.StringVar(&opts.policyPath, "policy", "", "entitlement policy JSON (default $POLICY_FILE or UK standard)")
	f.StringVar(&opts.holidayURL, "holiday-url", "", "bank holiday feed URL (default $HOLIDAY_API_URL)")
	f.DurationVar(&opts.timeout, "timeout", 0, "bank holiday lookup timeout (default $HOLIDAY_TIMEOUT)")
	_ = cmd.MarkFlagRequired("hire")

	return cmd
}

func (cl *Commandline) calculate(ctx context.Context, out io.Writer, opts calculateOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	policy, err := cl.loadPolicy(opts.policyPath)
	if err != nil {
		return err
	}

	in, err := buildInput(policy.Config, opts)
	if err != nil {
		return err
	}

	var provider holidays.Provider = holidays.Fixed{Value: opts.bankHolidays}
	if opts.bankHolidays < 0 {
		provider = cl.provider(firstNonEmpty(opts.holidayURL, cl.config.HolidayAPIURL), firstPositive(opts.timeout, cl.config.HolidayTimeout))
	}
	count := provider.BankHolidays(ctx, in.LeaveYear(), in.Region)
	zap.L().Debug("bank holidays",
		zap.Int("year", count.Year),
		zap.String("region", string(count.Region)),
		zap.Stringer("count", count))

	result, err := entitlement.NewCalculator(policy.Config).Calculate(in, count)
	if err != nil {
		return err
	}

	summary, err := report.Summary(result)
	if err != nil {
		return err
	}
	fmt.Fprint(out, summary)

	if opts.csvPath != "" {
		if err := writeFile(opts.csvPath, func(w io.Writer) error {
			return report.WriteCSV(w, summary, opts.csvSplit)
		}); err != nil {
			return err
		}
		zap.L().Info("csv written", zap.String("file", opts.csvPath))
	}
	if opts.pdfPath != "" {
		if err := writeFile(opts.pdfPath, func(w io.Writer) error {
			return report.WritePDF(w, summary)
		}); err != nil {
			return err
		}
		zap.L().Info("pdf written", zap.String("file", opts.pdfPath))
	}
	return nil
}

func (cl *Commandline) loadPolicy(path string) (factory.Policy, error) {
	path = firstNonEmpty(path, cl.config.PolicyFile)
	if path == "" {
		return factory.UKStandard(), nil
	}
	policy, err := factory.NewPolicyFactory().LoadFile(path)
	if err != nil {
		return factory.Policy{}, err
	}
	zap.L().Debug("policy loaded", zap.String("file", path), zap.String("id", policy.ID))
	return *policy, nil
}

func buildInput(cfg entitlement.Config, opts calculateOptions) (entitlement.Input, error) {
	in := entitlement.Input{EmployeeNumber: opts.employee}
	var err error

	if in.LeavePeriod, err = leavePeriod(opts.start, opts.end); err != nil {
		return in, err
	}
	if in.Employment.HireDate, err = generic.ParseDateField("hire", opts.hire); err != nil {
		return in, err
	}
	if opts.termination != "" {
		term, err := generic.ParseDateField("termination", opts.termination)
		if err != nil {
			return in, err
		}
		in.Employment.TerminationDate = &term
	}
	if in.Region, err = holidays.ParseRegion(opts.region); err != nil {
		return in, err
	}
	if in.ContractedHours, err = cfg.ParseContractedHours(opts.hours); err != nil {
		return in, err
	}
	return in, nil
}

// leavePeriod fills a missing bound from the year of the one given: a lone
// start runs to 31 December, a lone end starts on 1 January. With neither,
// the period is the current calendar year.
func leavePeriod(start, end string) (generic.Period, error) {
	if start == "" && end == "" {
		return generic.CalendarYear(generic.Today().Year()), nil
	}

	var p generic.Period
	var err error
	if start != "" {
		if p.Start, err = generic.ParseDateField("start", start); err != nil {
			return p, err
		}
	}
	if end != "" {
		if p.End, err = generic.ParseDateField("end", end); err != nil {
			return p, err
		}
	}
	if start == "" {
		p.Start = generic.StartOfYear(p.End.Year())
	}
	if end == "" {
		p.End = generic.EndOfYear(p.Start.Year())
	}
	return p, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...time.Duration) time.Duration {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
