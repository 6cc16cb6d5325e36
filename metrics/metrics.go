// Package metrics exposes Prometheus counters for holiday lookups and
// calculations.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOK          = "ok"
	OutcomeUnavailable = "unavailable"
	OutcomeInvalid     = "invalid"
	OutcomeError       = "error"
)

var (
	HolidayLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leave_holiday_lookups_total",
			Help: "Bank holiday lookups against the calendar API, by region and outcome.",
		},
		[]string{"region", "outcome"},
	)

	Calculations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leave_calculations_total",
			Help: "Entitlement calculations, by outcome.",
		},
		[]string{"outcome"},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
