package factory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chantela-crypto/MGMT-sub003/engine"
	"github.com/chantela-crypto/MGMT-sub003/factory"
	"github.com/chantela-crypto/MGMT-sub003/forecast"
)

func TestParseConfig_EmptyKeepsDefaults(t *testing.T) {
	seeds, thresholds, err := factory.ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultSeeds(), seeds)
	assert.Equal(t, forecast.DefaultThresholds(), thresholds)
}

func TestParseConfig_PartialOverride(t *testing.T) {
	// GIVEN: a config that only tunes two values
	// WHEN: parsing
	// THEN: those two change and everything else keeps its default

	data := []byte(`{
		"seeds": {"service_sales_per_hour": 175},
		"thresholds": {"retail": 12}
	}`)

	seeds, thresholds, err := factory.ParseConfig(data)
	require.NoError(t, err)

	assert.True(t, seeds.ServiceSalesPerHour.Equal(decimal.NewFromInt(175)))
	assert.True(t, seeds.Productivity.Equal(decimal.NewFromInt(85)), "untouched seed keeps default")
	assert.True(t, seeds.UnitHours.Equal(decimal.NewFromInt(160)))

	assert.True(t, thresholds.Retail.Equal(decimal.NewFromInt(12)))
	assert.True(t, thresholds.Productivity.Equal(decimal.NewFromInt(80)))
}

func TestParseConfig_UnitSeeds(t *testing.T) {
	data := []byte(`{
		"seeds": {
			"unit": {
				"hours": 176,
				"service_sales_per_hour": 200
			}
		}
	}`)

	seeds, _, err := factory.ParseConfig(data)
	require.NoError(t, err)
	assert.True(t, seeds.UnitHours.Equal(decimal.NewFromInt(176)))
	assert.True(t, seeds.UnitServiceSalesPerHour.Equal(decimal.NewFromInt(200)))
	assert.True(t, seeds.UnitProductivity.Equal(decimal.NewFromInt(85)), "untouched unit seed keeps default")
}

func TestParseConfig_InvalidJSON(t *testing.T) {
	_, _, err := factory.ParseConfig([]byte(`{"seeds": `))
	assert.Error(t, err)
}

func TestParseConfig_FeedsSeeding(t *testing.T) {
	// Tuned seeds flow through SeedInputs the same way defaults do.
	data := []byte(`{"seeds": {"productivity": 90, "retail_percentage": 25}}`)
	seeds, _, err := factory.ParseConfig(data)
	require.NoError(t, err)

	in := engine.SeedInputs(engine.KindEmployee, decimal.NewFromInt(100), nil, seeds)
	assert.True(t, in.EstimatedProductivity.Equal(decimal.NewFromInt(90)))
	assert.True(t, in.RetailPercentage.Equal(decimal.NewFromInt(25)))
}
