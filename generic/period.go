package generic

// =============================================================================
// PERIOD - Inclusive date range
// =============================================================================

// Period is a closed date range [Start, End].
//
// Examples:
//   - Leave year 2025: Jan 1 - Dec 31 (365 days)
//   - Contract segment: Apr 1 - Sep 30 (183 days)
type Period struct {
	Start TimePoint
	End   TimePoint
}

// NewPeriod builds a period and checks Start <= End.
func NewPeriod(start, end TimePoint) (Period, error) {
	p := Period{Start: start, End: end}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// Validate returns ErrInvalidPeriod when End is before Start.
func (p Period) Validate() error {
	if p.End.Before(p.Start) {
		return ErrInvalidPeriod
	}
	return nil
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Days returns the inclusive day count (End - Start + 1).
func (p Period) Days() int {
	return DaysBetween(p.Start, p.End) + 1
}

// Intersect clips p to other. ok is false when they do not overlap.
func (p Period) Intersect(other Period) (Period, bool) {
	start := p.Start
	if other.Start.After(start) {
		start = other.Start
	}
	end := p.End
	if other.End.Before(end) {
		end = other.End
	}
	if end.Before(start) {
		return Period{}, false
	}
	return Period{Start: start, End: end}, true
}

// CalendarYear returns Jan 1 - Dec 31 of year.
func CalendarYear(year int) Period {
	return Period{Start: StartOfYear(year), End: EndOfYear(year)}
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
