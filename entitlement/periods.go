package entitlement

import (
	"fmt"
	"sort"

	"github.com/warp/leave-entitlement/generic"
)

// =============================================================================
// MULTI-CONTRACT LEAVE YEARS
// =============================================================================

// validatePeriods checks each segment and rejects overlaps.
func (c *Calculator) validatePeriods(periods []ContractPeriod) error {
	sorted := sortedPeriods(periods)
	for i, cp := range sorted {
		if err := cp.Period.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidContractPeriod, cp.Period, err)
		}
		if !c.Config.ContractedHoursValid(cp.WeeklyHours) {
			return &ContractedHoursError{Value: cp.WeeklyHours.String(), Max: c.Config.MaxContractedHours.String()}
		}
		if i > 0 && cp.Period.Start.BeforeOrEqual(sorted[i-1].Period.End) {
			return fmt.Errorf("%w: %s overlaps %s", ErrInvalidContractPeriod, cp.Period, sorted[i-1].Period)
		}
	}
	return nil
}

// calculatePeriods fills r from each contract period clipped to the leave
// period. Segments outside the leave period contribute nothing. Each
// segment is rounded on its own and the totals are plain sums.
func (c *Calculator) calculatePeriods(r *Result, periods []ContractPeriod, bankHolidays int) {
	r.Prorated = generic.ZeroHours()
	r.Base = generic.ZeroHours()
	r.BankHoliday = generic.ZeroHours()
	award := generic.ZeroHours()

	for _, cp := range sortedPeriods(periods) {
		clipped, ok := cp.Period.Intersect(r.LeavePeriod)
		if !ok {
			continue
		}
		days := clipped.Days()

		prorated, base, bh := c.CalculateEntitlements(cp.WeeklyHours, days, r.DaysInYear, bankHolidays)
		ls := c.CalculateLongService(cp.WeeklyHours, r.YearsEmployed, days, r.DaysInYear)

		r.Prorated = r.Prorated.Add(prorated)
		r.Base = r.Base.Add(base)
		r.BankHoliday = r.BankHoliday.Add(bh)
		award = award.Add(ls.Award)

		r.Periods = append(r.Periods, PeriodBreakdown{
			Period:      clipped,
			WeeklyHours: cp.WeeklyHours,
			Days:        days,
			Prorated:    prorated,
			LongService: ls.Award,
		})
		r.ContractedHours = cp.WeeklyHours
	}

	// Eligibility depends on service only, not on the segment.
	r.LongService = c.CalculateLongService(c.Config.FullTimeWeeklyHours, r.YearsEmployed, 0, r.DaysInYear)
	r.LongService.Award = award
}

func sortedPeriods(periods []ContractPeriod) []ContractPeriod {
	sorted := make([]ContractPeriod, len(periods))
	copy(sorted, periods)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Period.Start.Before(sorted[j].Period.Start)
	})
	return sorted
}
