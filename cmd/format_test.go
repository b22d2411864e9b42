package main

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sourcing-cli/internal/compare"
	"github.com/sells-group/sourcing-cli/internal/material"
	"github.com/sells-group/sourcing-cli/internal/model"
	"github.com/sells-group/sourcing-cli/internal/recommend"
	"github.com/sells-group/sourcing-cli/internal/risk"
)

func fptr(v float64) *float64 { return &v }

func TestFormatSuppliers(t *testing.T) {
	var buf bytes.Buffer
	formatSuppliers(&buf, []model.Supplier{
		{ID: 7, Name: "Hanoi Wire & Cable Manufacturing Joint Stock Co", Country: "Vietnam", Industry: "Electronics",
			ReliabilityScore: 87.4, AverageDeliveryTime: 21, CostCompetitiveness: model.CostLow},
	})

	out := buf.String()
	assert.Contains(t, out, "SUPPLIER")
	assert.Contains(t, out, "Hanoi Wire & Cable Manufact...")
	assert.Contains(t, out, "87%")
	assert.Contains(t, out, "21d")
	assert.Contains(t, out, "low")
}

func TestTruncate_Runes(t *testing.T) {
	name := "Công ty Cổ phần Dây Cáp Điện Việt Nam"
	got := truncate(name, 20)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 20, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, "Überseehandel", truncate("Überseehandel", 20))
}

func TestFormatOverview(t *testing.T) {
	var buf bytes.Buffer
	formatOverview(&buf, nil)
	assert.Contains(t, buf.String(), "No suppliers in the overview.")

	buf.Reset()
	formatOverview(&buf, []risk.CountryGroup{
		{Country: "Germany", GeoLevel: risk.Unknown, Suppliers: []risk.CardView{
			{SupplierID: 1, Name: "Berlin Metals", Industry: "Steel", ReliabilityScore: 90, CompositeScore: 0.65, CompositeLevel: risk.High},
		}},
		{Country: "Vietnam", GeoScore: fptr(7.5), GeoLevel: risk.High, GeoHeadline: "Port strike"},
	})
	out := buf.String()
	assert.Contains(t, out, "Germany  (1 suppliers, geo risk - unknown)")
	assert.Contains(t, out, "Berlin Metals")
	assert.Contains(t, out, "0.65")
	assert.Contains(t, out, "Vietnam  (0 suppliers, geo risk 7.5/10 high)")
	assert.Contains(t, out, "Port strike")
}

func TestFormatRecommendations(t *testing.T) {
	var buf bytes.Buffer
	formatRecommendations(&buf, recommend.NotComputed())
	assert.Contains(t, buf.String(), "not been computed")

	buf.Reset()
	formatRecommendations(&buf, recommend.Result{State: recommend.StateEmpty})
	assert.Contains(t, buf.String(), "No suppliers matched")

	buf.Reset()
	formatRecommendations(&buf, recommend.Result{
		State:   recommend.StateReady,
		Summary: "Top pick: Berlin Metals",
		Entries: []model.RecommendationEntry{
			{Rank: 1, SupplierName: "Berlin Metals", Country: "Germany", MatchScore: 0.91, ReliabilityScore: 95,
				AvgShippingDays: fptr(12), MatchReasons: []string{"High reliability (95%)", "Has FTA"}, RiskLevel: "low"},
		},
	})
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Top pick: Berlin Metals"))
	assert.Contains(t, out, "0.91")
	assert.Contains(t, out, "High reliability (95%); Has FTA")
	// Unknown shipping cost renders as a dash.
	assert.Contains(t, out, "-")
}

func TestFormatComparison(t *testing.T) {
	grouped := map[string][]model.SupplierCard{
		"Germany": {{Country: "Germany", ReliabilityScore: 90}},
		"Vietnam": {{Country: "Vietnam", ReliabilityScore: 80}},
	}
	rows := compare.Compare([]string{"Germany", "Vietnam"}, grouped, nil)

	var buf bytes.Buffer
	formatComparison(&buf, rows)
	out := buf.String()
	assert.Contains(t, out, "Avg Reliability %")
	assert.Contains(t, out, "90.0 *")
	assert.Contains(t, out, "best value")
}

func TestFormatAnalysis(t *testing.T) {
	view := risk.ClassifyAnalysis(model.AnalyzeResponse{
		SupplierID:   3,
		SupplierName: "Oslo Parts",
		Country:      "Norway",
		Schedule:     model.ScheduleMetrics{SPI: 0.82, DelayPercent: 30, AvgDelayDays: 4, RiskLevel: "medium"},
		Ensemble:     model.EnsembleResult{FinalScore: 0.75, Confidence: "low", HighUncertainty: true, CoefficientOfVariation: 0.41},
		AgentScores:  []model.AgentResult{{Agent: "schedule", Score: 0.8, Reasoning: "Repeated slippage"}},
		CostImpact:   model.CostImpact{Currency: "USD", EstimatedCost: 1234.5},
		Alternatives: []model.Alternative{{Name: "Berlin Metals", Country: "Germany", Score: 0.9, SameIndustry: true}},
		GeoRisk:      &model.GeoRisk{Headline: "Port strike", RiskScoreRaw: 7.5},
		Summary:      "Consider dual sourcing.",
	})

	var buf bytes.Buffer
	formatAnalysis(&buf, view)
	out := buf.String()
	assert.Contains(t, out, "Oslo Parts (#3, Norway)")
	assert.Contains(t, out, "0.75 (high)")
	assert.Contains(t, out, "Uncertainty:")
	assert.Contains(t, out, "7.5/10 (high)")
	assert.Contains(t, out, "Port strike")
	assert.Contains(t, out, "1,234")
	assert.Contains(t, out, "schedule")
	assert.Contains(t, out, "Berlin Metals")
	assert.Contains(t, out, "Consider dual sourcing.")
}

func TestFormatHistory(t *testing.T) {
	var buf bytes.Buffer
	formatHistory(&buf, nil)
	assert.Contains(t, buf.String(), "No analyses recorded.")

	buf.Reset()
	formatHistory(&buf, []model.HistoryEntry{{
		ID:            "abc12345-6789-0000-0000-000000000000",
		SupplierName:  "Berlin Metals",
		Country:       "Germany",
		EnsembleScore: 0.42,
		RiskLevel:     "medium",
		Timestamp:     time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
	}})
	out := buf.String()
	assert.Contains(t, out, "abc12345")
	assert.NotContains(t, out, "abc12345-")
	assert.Contains(t, out, "2025-06-15 10:30")
	assert.Contains(t, out, "medium")
}

func TestFormatMoney(t *testing.T) {
	assert.Contains(t, formatMoney("USD", 1234.5), "1,234")
	assert.Contains(t, formatMoney("usd", 99), "99")
	assert.Equal(t, "12,000.00 XYZ1", formatMoney("XYZ1", 12000))
	assert.Contains(t, formatMoney("EUR", 10), "10.00")
}

func TestFormatMaterials(t *testing.T) {
	var buf bytes.Buffer
	formatMaterials(&buf, material.Default(), []string{"Copper", "moon dust"})
	out := buf.String()
	assert.Contains(t, out, "China, India, South Korea")
	assert.Contains(t, out, "moon dust")
}

func TestResolveHistoryID(t *testing.T) {
	entries := []model.HistoryEntry{
		{ID: "abc12345-0000"},
		{ID: "abd99999-0000"},
	}

	id, err := resolveHistoryID(entries, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc12345-0000", id)

	id, err = resolveHistoryID(entries, "abd99999-0000")
	require.NoError(t, err)
	assert.Equal(t, "abd99999-0000", id)

	_, err = resolveHistoryID(entries, "ab")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = resolveHistoryID(entries, "zzz")
	assert.ErrorContains(t, err, "no entry")

	_, err = resolveHistoryID(entries, " ")
	assert.Error(t, err)
}

func TestReadProfile(t *testing.T) {
	doc := `
company_name: Acme
company_type: Electronics
raw_materials: [Steel, Copper]
preferred_countries:
  - Vietnam
`
	p, err := readProfile(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "Acme", p.CompanyName)
	assert.Equal(t, []string{"Steel", "Copper"}, p.RawMaterials)
	assert.Equal(t, []string{"Vietnam"}, p.PreferredCountries)

	_, err = readProfile(strings.NewReader("company: Acme\n"))
	assert.Error(t, err)
}
