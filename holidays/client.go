package holidays

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/warp/leave-entitlement/generic"
	"github.com/warp/leave-entitlement/metrics"
)

const (
	// DefaultURL is the public GOV.UK bank holiday feed.
	DefaultURL = "https://www.gov.uk/bank-holidays.json"

	// DefaultTimeout bounds the whole request, connect and read.
	DefaultTimeout = 10 * time.Second

	maxFeedBytes = 4 << 20
)

// Client reads the GOV.UK calendar feed. One request per lookup; no retries
// and no caching.
type Client struct {
	URL  string
	HTTP *http.Client
}

// NewClient returns a client for url with the given timeout. Zero values
// select DefaultURL and DefaultTimeout.
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{URL: url, HTTP: &http.Client{Timeout: timeout}}
}

// Compile-time check that Client implements Provider
var _ Provider = (*Client)(nil)

// feed mirrors the JSON document: {"england-and-wales": {"division": ..., "events": [...]}}
type feed map[string]struct {
	Division string      `json:"division"`
	Events   []feedEvent `json:"events"`
}

type feedEvent struct {
	Title   string `json:"title"`
	Date    string `json:"date"`
	Notes   string `json:"notes"`
	Bunting bool   `json:"bunting"`
}

// BankHolidays counts the region's holidays in year. Any failure is logged
// and reported as Unavailable.
func (c *Client) BankHolidays(ctx context.Context, year int, region Region) Count {
	events, err := c.Events(ctx, year, region)
	if err != nil {
		zap.L().Warn("bank holiday lookup failed",
			zap.Int("year", year),
			zap.String("region", string(region)),
			zap.Error(err))
		metrics.HolidayLookups.WithLabelValues(string(region), metrics.OutcomeUnavailable).Inc()
		return Unavailable(year, region)
	}

	metrics.HolidayLookups.WithLabelValues(string(region), metrics.OutcomeOK).Inc()
	return Known(year, region, len(events))
}

// Events returns the region's holidays falling in year, in feed order.
// A region missing from the feed has no events.
func (c *Client) Events(ctx context.Context, year int, region Region) ([]Event, error) {
	data, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	var events []Event
	for _, fe := range data[string(region)].Events {
		date, err := generic.ParseDate(fe.Date)
		if err != nil {
			return nil, fmt.Errorf("parse event date %q: %w", fe.Date, err)
		}
		if date.Year() != year {
			continue
		}
		events = append(events, Event{
			Title:   fe.Title,
			Date:    date,
			Notes:   fe.Notes,
			Bunting: fe.Bunting,
		})
	}
	return events, nil
}

func (c *Client) fetch(ctx context.Context) (feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request calendar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request calendar: unexpected status %d", resp.StatusCode)
	}

	var data feed
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxFeedBytes)).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode calendar: %w", err)
	}
	return data, nil
}
