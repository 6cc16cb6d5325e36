/*
Package factory provides JSON to Go entitlement policy conversion.

PURPOSE:
  Converts JSON policy documents into entitlement.Config values. This lets
  an organisation with different contract norms (a 40 hour week, six weeks'
  leave, long service every three years) run the same engine without code
  changes.

JSON SCHEMA:
  {
    "id": "uk-standard",
    "name": "UK Standard",
    "full_time_weekly_hours": 37.5,
    "weeks_entitlement": 5,
    "bank_holiday_hours": 7.5,
    "max_contracted_hours": 40,
    "long_service": {
      "block_years": 5,
      "hours_per_block": 7.5
    }
  }

  Every numeric field is optional; missing fields take the UK defaults.

USAGE:
  f := factory.NewPolicyFactory()

  policy, err := f.ParsePolicy(jsonString)
  calc := entitlement.NewCalculator(policy.Config)

  // Or straight from disk
  policy, err := f.LoadFile("policy.json")

SEE ALSO:
  - entitlement/config.go: Config type and defaults
*/
package factory

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/warp/leave-entitlement/entitlement"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// PolicyJSON is the JSON representation of an entitlement policy.
type PolicyJSON struct {
	ID                  string           `json:"id"`
	Name                string           `json:"name"`
	FullTimeWeeklyHours *decimal.Decimal `json:"full_time_weekly_hours,omitempty"`
	WeeksEntitlement    *decimal.Decimal `json:"weeks_entitlement,omitempty"`
	BankHolidayHours    *decimal.Decimal `json:"bank_holiday_hours,omitempty"`
	MaxContractedHours  *decimal.Decimal `json:"max_contracted_hours,omitempty"`
	LongService         *LongServiceJSON `json:"long_service,omitempty"`
}

// LongServiceJSON represents the long-service award rule.
type LongServiceJSON struct {
	BlockYears    *int             `json:"block_years,omitempty"`
	HoursPerBlock *decimal.Decimal `json:"hours_per_block,omitempty"`
}

// Policy is a named Config.
type Policy struct {
	ID     string
	Name   string
	Config entitlement.Config
}

// =============================================================================
// POLICY FACTORY
// =============================================================================

// PolicyFactory converts JSON policies to Go structs.
type PolicyFactory struct{}

// NewPolicyFactory creates a new policy factory.
func NewPolicyFactory() *PolicyFactory {
	return &PolicyFactory{}
}

// ParsePolicy parses a JSON string into a Policy.
func (f *PolicyFactory) ParsePolicy(jsonStr string) (*Policy, error) {
	var pj PolicyJSON
	if err := json.Unmarshal([]byte(jsonStr), &pj); err != nil {
		return nil, fmt.Errorf("failed to parse policy JSON: %w", err)
	}

	return f.FromJSON(pj)
}

// LoadFile reads and parses a policy document.
func (f *PolicyFactory) LoadFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	return f.ParsePolicy(string(data))
}

// FromJSON converts PolicyJSON to a Policy, filling gaps with UK defaults.
func (f *PolicyFactory) FromJSON(pj PolicyJSON) (*Policy, error) {
	cfg := entitlement.DefaultConfig()

	if pj.FullTimeWeeklyHours != nil {
		cfg.FullTimeWeeklyHours = *pj.FullTimeWeeklyHours
	}
	if pj.WeeksEntitlement != nil {
		cfg.WeeksEntitlement = *pj.WeeksEntitlement
	}
	if pj.BankHolidayHours != nil {
		cfg.BankHolidayHours = *pj.BankHolidayHours
	}
	if pj.MaxContractedHours != nil {
		cfg.MaxContractedHours = *pj.MaxContractedHours
	}
	if ls := pj.LongService; ls != nil {
		if ls.BlockYears != nil {
			cfg.LongServiceYears = *ls.BlockYears
		}
		if ls.HoursPerBlock != nil {
			cfg.LongServiceHours = *ls.HoursPerBlock
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("policy %q: %w", pj.ID, err)
	}

	policy := &Policy{ID: pj.ID, Name: pj.Name, Config: cfg}
	if policy.ID == "" {
		policy.ID = "custom"
	}
	if policy.Name == "" {
		policy.Name = policy.ID
	}
	return policy, nil
}

// ToJSON converts a Policy back to its JSON form with every field set.
func ToJSON(p Policy) PolicyJSON {
	c := p.Config
	blockYears := c.LongServiceYears
	return PolicyJSON{
		ID:                  p.ID,
		Name:                p.Name,
		FullTimeWeeklyHours: &c.FullTimeWeeklyHours,
		WeeksEntitlement:    &c.WeeksEntitlement,
		BankHolidayHours:    &c.BankHolidayHours,
		MaxContractedHours:  &c.MaxContractedHours,
		LongService: &LongServiceJSON{
			BlockYears:    &blockYears,
			HoursPerBlock: &c.LongServiceHours,
		},
	}
}

// =============================================================================
// PRESETS
// =============================================================================

// UKStandard is the built-in policy used when no policy file is configured.
func UKStandard() Policy {
	return Policy{ID: "uk-standard", Name: "UK Standard", Config: entitlement.DefaultConfig()}
}

// UKStandardJSON returns the UK defaults as a policy document.
func UKStandardJSON() string {
	return `{
		"id": "uk-standard",
		"name": "UK Standard",
		"full_time_weekly_hours": 37.5,
		"weeks_entitlement": 5,
		"bank_holiday_hours": 7.5,
		"max_contracted_hours": 40,
		"long_service": {"block_years": 5, "hours_per_block": 7.5}
	}`
}
