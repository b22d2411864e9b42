package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sourcing-cli/internal/model"
	"github.com/sells-group/sourcing-cli/internal/risk"
)

func ptr(v float64) *float64 { return &v }

func cand(name string, match, reliability float64) Candidate {
	return Candidate{
		Card:       model.SupplierCard{Name: name, ReliabilityScore: reliability},
		MatchScore: match,
	}
}

func TestRecommend_RanksDense(t *testing.T) {
	cands := []Candidate{
		cand("Gamma", 0.60, 80),
		cand("Alpha", 0.90, 70),
		cand("Delta", 0.60, 95),
		cand("Beta", 0.60, 80),
	}

	res := Recommend(cands, "top picks", 0)

	require.Equal(t, StateReady, res.State)
	assert.Equal(t, "top picks", res.Summary)
	require.Len(t, res.Entries, 4)

	var got []string
	for i, e := range res.Entries {
		assert.Equal(t, i+1, e.Rank)
		got = append(got, e.SupplierName)
	}
	// Score desc, reliability desc, name asc.
	assert.Equal(t, []string{"Alpha", "Delta", "Beta", "Gamma"}, got)
}

func TestRecommend_Limit(t *testing.T) {
	var cands []Candidate
	for _, n := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		cands = append(cands, cand(n, 0.5, 50))
	}

	res := Recommend(cands, "", DefaultLimit)
	require.Len(t, res.Entries, DefaultLimit)
	assert.Equal(t, "E", res.Entries[4].SupplierName)
	assert.Equal(t, 5, res.Entries[4].Rank)
}

func TestRecommend_EmptyIsExplicit(t *testing.T) {
	res := Recommend(nil, "", 5)
	assert.Equal(t, StateEmpty, res.State)
	assert.NotNil(t, res.Entries)
	assert.Empty(t, res.Entries)

	nc := NotComputed()
	assert.Equal(t, StateNotComputed, nc.State)
	assert.NotEqual(t, res.State, nc.State)
}

func TestRecommend_SummaryOmittedWhenAbsent(t *testing.T) {
	res := Recommend([]Candidate{cand("A", 0.5, 50)}, "", 5)
	assert.Empty(t, res.Summary)
}

func TestRecommend_DoesNotMutateInput(t *testing.T) {
	cands := []Candidate{cand("B", 0.1, 10), cand("A", 0.9, 10)}
	Recommend(cands, "", 0)
	assert.Equal(t, "B", cands[0].Card.Name)
}

func TestRiskLevel(t *testing.T) {
	tests := []struct {
		name     string
		c        Candidate
		expected risk.Level
	}{
		{"score beats label", Candidate{Card: model.SupplierCard{CountryRiskScore: ptr(7.5)}, RiskLabel: "low"}, risk.High},
		{"medium score", Candidate{Card: model.SupplierCard{CountryRiskScore: ptr(4)}}, risk.Medium},
		{"label fallback", Candidate{RiskLabel: "Medium"}, risk.Medium},
		{"bad label", Candidate{RiskLabel: "extreme"}, risk.Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RiskLevel(tt.c))
		})
	}
}

func TestRecommend_ShippingFromCountryFactors(t *testing.T) {
	cf := &model.CountryFactors{Country: "Germany", AvgShippingDays: 12, ShippingCostUSDPerKg: 3.4}
	c := Candidate{
		Card:       model.SupplierCard{Name: "Bosch", Country: "Germany", CountryFactors: cf, CountryRiskScore: ptr(2)},
		MatchScore: 0.8,
	}

	e := Recommend([]Candidate{c}, "", 5).Entries[0]
	require.NotNil(t, e.AvgShippingDays)
	require.NotNil(t, e.ShippingCostUSDPerKg)
	assert.InDelta(t, 12, *e.AvgShippingDays, 1e-9)
	assert.InDelta(t, 3.4, *e.ShippingCostUSDPerKg, 1e-9)
	assert.Equal(t, "low", e.RiskLevel)
}

func TestFromResponse(t *testing.T) {
	overview := &model.SupplierOverview{Suppliers: []model.SupplierCard{
		{SupplierID: 1, Name: "Tata Steel", Country: "India", ReliabilityScore: 88, CountryRiskScore: ptr(5.2)},
	}}
	resp := &model.RecommendationResponse{
		Summary: "s",
		Recommendations: []model.RecommendationEntry{
			{Rank: 1, SupplierID: 1, SupplierName: "Tata Steel", Country: "India", MatchScore: 0.8, RiskLevel: "low", MatchReasons: []string{"x"}},
			{Rank: 2, SupplierID: 9, SupplierName: "Orphan", Country: "Peru", MatchScore: 0.4, RiskLevel: "high", ReliabilityScore: 60},
		},
	}

	cands := FromResponse(resp, overview)
	require.Len(t, cands, 2)
	assert.Equal(t, risk.Medium, RiskLevel(cands[0]))
	assert.Equal(t, "Orphan", cands[1].Card.Name)
	assert.InDelta(t, 60, cands[1].Card.ReliabilityScore, 1e-9)
	assert.Equal(t, risk.High, RiskLevel(cands[1]))

	assert.Nil(t, FromResponse(nil, overview))
	assert.Len(t, FromResponse(resp, nil), 2)
}
