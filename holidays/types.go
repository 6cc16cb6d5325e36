/*
Package holidays looks up UK bank holidays for the entitlement engine.

PURPOSE:
  The bank-holiday component of an entitlement depends on how many statutory
  holidays fall in the leave year for the employee's region. The count comes
  from the public GOV.UK calendar feed.

KEY CONCEPTS:
  - Region: england-and-wales, scotland or northern-ireland
  - Count: the number of holidays, or a marker that the lookup failed
  - Provider: anything that can produce a Count (HTTP client, fixed value)

FAILURE POLICY:
  A failed lookup is never an error to the caller. It yields a Count with
  Available=false. The engine calculates with zero holidays and the report
  labels the figure "Unavailable", so "no holidays" and "couldn't ask" stay
  distinguishable.

SEE ALSO:
  - client.go: GOV.UK HTTP client
  - entitlement/calculator.go: Consumes Count
*/
package holidays

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/warp/leave-entitlement/generic"
)

// =============================================================================
// REGION
// =============================================================================

type Region string

const (
	EnglandAndWales Region = "england-and-wales"
	Scotland        Region = "scotland"
	NorthernIreland Region = "northern-ireland"
)

// ErrUnknownRegion is returned by ParseRegion for unrecognised input.
var ErrUnknownRegion = errors.New("unknown region")

var displayNames = map[Region]string{
	EnglandAndWales: "England & Wales",
	Scotland:        "Scotland",
	NorthernIreland: "Northern Ireland",
}

// Regions lists the supported regions in display order.
func Regions() []Region {
	return []Region{EnglandAndWales, Scotland, NorthernIreland}
}

// DisplayName returns the human label, e.g. "England & Wales".
func (r Region) DisplayName() string {
	if name, ok := displayNames[r]; ok {
		return name
	}
	return string(r)
}

// ParseRegion accepts either the feed key or the display name. Blank input
// selects England & Wales.
func ParseRegion(s string) (Region, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return EnglandAndWales, nil
	}
	for _, r := range Regions() {
		if strings.EqualFold(s, string(r)) || strings.EqualFold(s, r.DisplayName()) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRegion, s)
}

// =============================================================================
// COUNT
// =============================================================================

// Count is the result of a holiday lookup.
type Count struct {
	Year      int
	Region    Region
	Value     int
	Available bool
}

// Known returns a successful count.
func Known(year int, region Region, n int) Count {
	return Count{Year: year, Region: region, Value: n, Available: true}
}

// Unavailable returns the failed-lookup marker.
func Unavailable(year int, region Region) Count {
	return Count{Year: year, Region: region}
}

// OrZero is the holiday count the engine calculates with.
func (c Count) OrZero() int {
	if !c.Available {
		return 0
	}
	return c.Value
}

func (c Count) String() string {
	if !c.Available {
		return "Unavailable"
	}
	return strconv.Itoa(c.Value)
}

// =============================================================================
// PROVIDER
// =============================================================================

// Event is one entry of the calendar feed.
type Event struct {
	Title   string
	Date    generic.TimePoint
	Notes   string
	Bunting bool
}

// Provider produces bank holiday counts. Implementations must not return
// errors for lookup failures; they return Unavailable instead.
type Provider interface {
	BankHolidays(ctx context.Context, year int, region Region) Count
}

// Fixed is a Provider that always answers with the same number. Used when the
// count is supplied by hand.
type Fixed struct {
	Value int
}

func (f Fixed) BankHolidays(_ context.Context, year int, region Region) Count {
	return Known(year, region, f.Value)
}

// Compile-time check that Fixed implements Provider
var _ Provider = Fixed{}
