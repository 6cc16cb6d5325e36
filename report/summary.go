/*
Package report renders entitlement results for people and files.

PURPOSE:
  The calculation engine returns numbers; this package turns them into the
  plain-text summary HR pastes into the leave system, and writes that same
  summary out as CSV or PDF.

SUMMARY LAYOUT:
  Fixed section headers in a fixed order:
    employee, employment period, leave period, entitlement breakdown,
    contract periods (multi-contract only), the Optima upload block,
    bank holidays.
  The Optima block mirrors the fields of the HR system's leave upload form;
  carry forward, lieu and adjusted hours are always zero here.
  All hour values carry two decimal places.

SEE ALSO:
  - export.go: CSV and PDF writers
  - entitlement/types.go: Result
*/
package report

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/warp/leave-entitlement/entitlement"
)

const rule = "============================================================"

var summaryTemplate = template.Must(template.New("summary").Parse(`{{.Rule}}
                ANNUAL LEAVE CALCULATION SUMMARY
{{.Rule}}

Employee Number: {{.R.EmployeeNumber}}

Employment Period:
  Hire Date: {{.R.HireDate.Long}}
  Termination Date: {{.R.TerminationDate.Long}}
  Contracted Weekly Hours: {{.Contracted}} hours/week
  Total Days Employed: {{.R.DaysEmployed}} days ({{.Years}} years)

Leave Period:
  Start Date: {{.R.LeavePeriod.Start.Long}}
  End Date: {{.R.LeavePeriod.End.Long}}
  Total Days in Period: {{.R.LeaveDays}} days

Annual Leave Entitlement:
  Base Entitlement (incl. B/H): {{.R.Prorated}} hours
      Basic component: {{.R.Base}} hours
      Bank holiday component: {{.R.BankHoliday}} hours
  Long Service Award: {{.R.LongService.Award}} hours
      {{.R.LongService.Note}}
  Total Annual Entitlement: {{.R.Total}} hours
{{- if .R.Periods}}

Contract Periods:
{{- range .R.Periods}}
  {{.Period.Start}} to {{.Period.End}} ({{.Days}} days @ {{.WeeklyHours}} hrs/week): {{.Prorated}} hrs | Long Service: {{.LongService}} hrs
{{- end}}
{{- end}}

------------------ OPTIMA UPLOAD ------------------
Entitlement Basis : Annual Rate
Entitlement Type  : Annual Leave
Units             : Hours Only
Period Start      : {{.R.LeavePeriod.Start.Month}}

Base Hours        : {{.R.Prorated}}
Long Service Hrs  : {{.R.LongService.Award}}
Carry Forward     : 0.00
Lieu Hours        : 0.00
Adjusted Hours    : 0.00
Total Hours       : {{.R.Total}}

Bank Holidays in {{.R.LeaveYear}} ({{.Region}}): {{.R.BankHolidays}}

All values rounded to the nearest 15 minutes
{{.Rule}}
`))

type summaryView struct {
	Rule       string
	R          entitlement.Result
	Contracted string
	Years      string
	Region     string
}

// Summary renders r as the plain-text report.
func Summary(r entitlement.Result) (string, error) {
	view := summaryView{
		Rule:       rule,
		R:          r,
		Contracted: r.ContractedHours.String(),
		Years:      r.YearsEmployed.StringFixed(2),
		Region:     r.Region.DisplayName(),
	}

	var buf bytes.Buffer
	if err := summaryTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render summary: %w", err)
	}
	return buf.String(), nil
}
