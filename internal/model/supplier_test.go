package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const overviewJSON = `{
  "suppliers": [
    {"supplier_id": 1, "supplier_name": "Tata Steel", "country": "India", "reliability_score": 88,
     "country_factors": {"country": "India", "avg_shipping_days": 21, "corporate_tax_pct": 25.2},
     "country_risk_score": 5.5, "country_risk_headline": null},
    {"supplier_id": 2, "supplier_name": "Mahindra", "country": "India", "reliability_score": 80,
     "country_factors": {"country": "India", "avg_shipping_days": 21, "corporate_tax_pct": 25.2},
     "country_risk_score": 5.5},
    {"supplier_id": 3, "supplier_name": "Bosch", "country": "Germany", "reliability_score": 95,
     "country_factors": null, "country_risk_score": null}
  ]
}`

func TestSupplierOverview_LinkSharesFactors(t *testing.T) {
	t.Parallel()

	var o SupplierOverview
	require.NoError(t, json.Unmarshal([]byte(overviewJSON), &o))
	require.Len(t, o.Suppliers, 3)

	// Decoding gives each card its own copy.
	assert.NotSame(t, o.Suppliers[0].CountryFactors, o.Suppliers[1].CountryFactors)

	shared := o.Link()

	assert.Same(t, o.Suppliers[0].CountryFactors, o.Suppliers[1].CountryFactors)
	assert.Same(t, shared["India"], o.Suppliers[0].CountryFactors)
	assert.Nil(t, o.Suppliers[2].CountryFactors)
	_, ok := shared["Germany"]
	assert.False(t, ok)

	// Grouping rebuilt from the flat list.
	require.Len(t, o.GroupedByCountry, 2)
	assert.Len(t, o.GroupedByCountry["India"], 2)
	assert.Same(t, shared["India"], o.GroupedByCountry["India"][1].CountryFactors)
	assert.Nil(t, o.Suppliers[2].CountryRiskScore)
	if assert.NotNil(t, o.Suppliers[0].CountryRiskScore) {
		assert.InDelta(t, 5.5, *o.Suppliers[0].CountryRiskScore, 1e-9)
	}
}

func TestSupplierOverview_CardByID(t *testing.T) {
	t.Parallel()

	var o SupplierOverview
	require.NoError(t, json.Unmarshal([]byte(overviewJSON), &o))

	c, ok := o.CardByID(3)
	assert.True(t, ok)
	assert.Equal(t, "Bosch", c.Name)

	_, ok = o.CardByID(42)
	assert.False(t, ok)

	var nilOverview *SupplierOverview
	_, ok = nilOverview.CardByID(1)
	assert.False(t, ok)
}
