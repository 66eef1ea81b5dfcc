/*
Package factory provides JSON to Go configuration conversion for the
engine's tunable constants.

PURPOSE:
  Converts JSON definitions into engine.SeedDefaults and
  forecast.Thresholds. This enables tuning without code changes -
  operations can adjust seed assumptions and underperformance thresholds
  in JSON, and the factory creates the proper Go structs.

WHY JSON?
  - Non-developers can adjust assumptions
  - Easy integration with an admin UI
  - Version control for configuration
  - Database storage of tuning configs

JSON SCHEMA:
  {
    "seeds": {
      "productivity": 85,
      "productivity_bump": 1,
      "productivity_cap": 100,
      "service_sales_per_hour": 150,
      "retail_percentage": 20,
      "unit": {
        "hours": 160,
        "productivity": 85,
        "service_sales_per_hour": 180,
        "retail_percentage": 25
      }
    },
    "thresholds": {
      "productivity": 80,
      "retail": 10,
      "attendance": 90
    }
  }

  Omitted fields keep the source system's defaults.

SEE ALSO:
  - engine/projection.go: SeedDefaults consumer
  - forecast/underperformance.go: Thresholds consumer
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/chantela-crypto/MGMT-sub003/engine"
	"github.com/chantela-crypto/MGMT-sub003/forecast"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ConfigJSON is the JSON representation of the tunable constants.
type ConfigJSON struct {
	Seeds      *SeedsJSON      `json:"seeds,omitempty"`
	Thresholds *ThresholdsJSON `json:"thresholds,omitempty"`
}

// SeedsJSON configures projection auto-seeding.
type SeedsJSON struct {
	Productivity        *float64       `json:"productivity,omitempty"`
	ProductivityBump    *float64       `json:"productivity_bump,omitempty"`
	ProductivityCap     *float64       `json:"productivity_cap,omitempty"`
	ServiceSalesPerHour *float64       `json:"service_sales_per_hour,omitempty"`
	RetailPercentage    *float64       `json:"retail_percentage,omitempty"`
	Unit                *UnitSeedsJSON `json:"unit,omitempty"`
}

// UnitSeedsJSON configures fixed hormone-unit seeds.
type UnitSeedsJSON struct {
	Hours               *float64 `json:"hours,omitempty"`
	Productivity        *float64 `json:"productivity,omitempty"`
	ServiceSalesPerHour *float64 `json:"service_sales_per_hour,omitempty"`
	RetailPercentage    *float64 `json:"retail_percentage,omitempty"`
}

// ThresholdsJSON configures the underperformance limits.
type ThresholdsJSON struct {
	Productivity *float64 `json:"productivity,omitempty"`
	Retail       *float64 `json:"retail,omitempty"`
	Attendance   *float64 `json:"attendance,omitempty"`
}

// =============================================================================
// FACTORY
// =============================================================================

// ParseConfig converts a JSON document into seed defaults and thresholds.
// Missing fields keep the source system's values.
func ParseConfig(data []byte) (engine.SeedDefaults, forecast.Thresholds, error) {
	seeds := engine.DefaultSeeds()
	thresholds := forecast.DefaultThresholds()

	if len(data) == 0 {
		return seeds, thresholds, nil
	}

	var cfg ConfigJSON
	if err := json.Unmarshal(data, &cfg); err != nil {
		return seeds, thresholds, fmt.Errorf("invalid config json: %w", err)
	}

	if s := cfg.Seeds; s != nil {
		override(&seeds.Productivity, s.Productivity)
		override(&seeds.ProductivityBump, s.ProductivityBump)
		override(&seeds.ProductivityCap, s.ProductivityCap)
		override(&seeds.ServiceSalesPerHour, s.ServiceSalesPerHour)
		override(&seeds.RetailPercentage, s.RetailPercentage)
		if u := s.Unit; u != nil {
			override(&seeds.UnitHours, u.Hours)
			override(&seeds.UnitProductivity, u.Productivity)
			override(&seeds.UnitServiceSalesPerHour, u.ServiceSalesPerHour)
			override(&seeds.UnitRetailPercentage, u.RetailPercentage)
		}
	}

	if t := cfg.Thresholds; t != nil {
		override(&thresholds.Productivity, t.Productivity)
		override(&thresholds.Retail, t.Retail)
		override(&thresholds.Attendance, t.Attendance)
	}

	return seeds, thresholds, nil
}

func override(dst *decimal.Decimal, src *float64) {
	if src != nil {
		*dst = decimal.NewFromFloat(*src)
	}
}
