package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/sourcing-cli/internal/model"
)

func TestClassify_Ensemble(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		expected Level
	}{
		{"zero", 0, Low},
		{"just below medium", 0.39999, Low},
		{"medium at threshold", 0.4, Medium},
		{"mid medium", 0.55, Medium},
		{"just below high", 0.69999, Medium},
		{"high at threshold", 0.7, High},
		{"one", 1.0, High},
		{"nan", math.NaN(), Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.score, EnsembleThresholds))
			if !math.IsNaN(tt.score) {
				assert.Equal(t, tt.expected, EnsembleLevel(tt.score))
			}
		})
	}
}

func TestClassify_Composite(t *testing.T) {
	tests := []struct {
		score    float64
		expected Level
	}{
		{0.0, Low},
		{0.34999, Low},
		{0.35, Medium},
		{0.5999, Medium},
		{0.6, High},
		{0.65, High},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CompositeLevel(tt.score), "score %v", tt.score)
	}
}

func TestClassify_ProfilesStayDistinct(t *testing.T) {
	// 0.65 sits in different bands on the two 0-1 scales.
	assert.Equal(t, Medium, EnsembleLevel(0.65))
	assert.Equal(t, High, CompositeLevel(0.65))
	assert.Equal(t, Medium, EnsembleLevel(0.4))
	assert.Equal(t, Medium, CompositeLevel(0.4))
	assert.Equal(t, Low, EnsembleLevel(0.36))
	assert.Equal(t, Medium, CompositeLevel(0.36))
}

func TestClassify_BandsPartitionUnitInterval(t *testing.T) {
	for _, th := range []Thresholds{EnsembleThresholds, CompositeThresholds} {
		prev := Low
		transitions := 0
		for i := 0; i <= 10000; i++ {
			lvl := Classify(float64(i)/10000, th)
			assert.NotEqual(t, Unknown, lvl)
			if lvl != prev {
				transitions++
				prev = lvl
			}
		}
		// low -> medium -> high, never back.
		assert.Equal(t, 2, transitions, th.Name)
		assert.Equal(t, High, prev, th.Name)
	}
}

func TestGeoLevel(t *testing.T) {
	assert.Equal(t, Low, GeoLevel(0))
	assert.Equal(t, Low, GeoLevel(3.99))
	assert.Equal(t, Medium, GeoLevel(4))
	assert.Equal(t, Medium, GeoLevel(6.9))
	assert.Equal(t, High, GeoLevel(7))
	assert.Equal(t, High, GeoLevel(10))
}

func TestClassifyOptional(t *testing.T) {
	assert.Equal(t, Unknown, ClassifyOptional(nil, GeoThresholds))
	v := 8.2
	assert.Equal(t, High, ClassifyOptional(&v, GeoThresholds))
}

func TestSPIBand(t *testing.T) {
	tests := []struct {
		spi      float64
		expected Band
	}{
		{1.2, BandGood},
		{1.0, BandGood},
		{0.9, BandGood},
		{0.89, BandCaution},
		{0.7, BandCaution},
		{0.69, BandPoor},
		{0, BandPoor},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, SPIBand(tt.spi), "spi %v", tt.spi)
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, High, ParseLevel("HIGH"))
	assert.Equal(t, Medium, ParseLevel(" medium "))
	assert.Equal(t, Low, ParseLevel("low"))
	assert.Equal(t, Unknown, ParseLevel("severe"))
	assert.Equal(t, Unknown, ParseLevel(""))
	assert.Equal(t, Medium, Confidence("medium"))
}

func TestClassifyAnalysis(t *testing.T) {
	a := model.AnalyzeResponse{
		SupplierID:   7,
		SupplierName: "Shenzhen Circuits",
		Country:      "China",
		Schedule: model.ScheduleMetrics{
			SPI:          0.82,
			SVDays:       -6.5,
			RSchedule:    0.2167,
			AvgDelayDays: 6.5,
			DelayPercent: 40,
			RiskLevel:    "low",
		},
		Ensemble: model.EnsembleResult{
			FinalScore:             0.7,
			CoefficientOfVariation: 0.41,
			HighUncertainty:        true,
			Confidence:             "low",
		},
		AgentScores: []model.AgentResult{
			{Agent: "ScheduleVarianceAgent", Score: 0.2, Reasoning: "r1"},
			{Agent: "GeopoliticalSignalAgent", Score: 0.72, Reasoning: "r2"},
		},
		GeoRisk: &model.GeoRisk{Headline: "Port strike", RiskScoreRaw: 6.1, DataSource: "database"},
	}

	v := ClassifyAnalysis(a)

	assert.Equal(t, High, v.EnsembleLevel)
	assert.Equal(t, Low, v.Confidence)
	assert.True(t, v.HighUncertainty)
	assert.InDelta(t, 0.41, v.CV, 1e-9)
	assert.Equal(t, BandCaution, v.SPIBand)
	assert.Equal(t, Low, v.ScheduleLevel)
	if assert.NotNil(t, v.GeoScore) {
		assert.InDelta(t, 6.1, *v.GeoScore, 1e-9)
	}
	assert.Equal(t, Medium, v.GeoLevel)
	assert.Equal(t, "Port strike", v.GeoHeadline)
	assert.Len(t, v.Agents, 2)
	assert.Equal(t, Low, v.Agents[0].Level)
	assert.Equal(t, High, v.Agents[1].Level)
}

func TestClassifyAnalysis_MissingOptionalFields(t *testing.T) {
	v := ClassifyAnalysis(model.AnalyzeResponse{
		Schedule:   model.ScheduleMetrics{SPI: 1.0, RiskLevel: "bogus"},
		Confidence: "medium",
	})

	assert.Nil(t, v.GeoScore)
	assert.Equal(t, Unknown, v.GeoLevel)
	assert.Equal(t, Unknown, v.ScheduleLevel)
	assert.Equal(t, Medium, v.Confidence)
	assert.Equal(t, Low, v.EnsembleLevel)
	assert.Empty(t, v.Agents)
}
