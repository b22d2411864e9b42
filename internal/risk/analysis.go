package risk

import "github.com/sells-group/sourcing-cli/internal/model"

// AgentView is one agent's score with its level.
type AgentView struct {
	Agent     string  `json:"agent"`
	Score     float64 `json:"score"`
	Level     Level   `json:"level"`
	Reasoning string  `json:"reasoning"`
}

// AnalysisView is a supplier analysis with every level resolved for display.
type AnalysisView struct {
	SupplierID   int    `json:"supplier_id"`
	SupplierName string `json:"supplier_name"`
	Country      string `json:"country"`

	EnsembleScore   float64 `json:"ensemble_score"`
	EnsembleLevel   Level   `json:"ensemble_level"`
	Confidence      Level   `json:"confidence"`
	HighUncertainty bool    `json:"high_uncertainty"`
	CV              float64 `json:"coefficient_of_variation"`

	SPI           float64 `json:"spi"`
	SPIBand       Band    `json:"spi_band"`
	SVDays        float64 `json:"sv_days"`
	RSchedule     float64 `json:"r_schedule"`
	DelayPercent  float64 `json:"delay_percent"`
	AvgDelayDays  float64 `json:"avg_delay_days"`
	ScheduleLevel Level   `json:"schedule_level"`

	// Geo fields are Unknown / nil when the analysis carried no geoRisk.
	GeoScore    *float64 `json:"geo_score"`
	GeoLevel    Level    `json:"geo_level"`
	GeoHeadline string   `json:"geo_headline,omitempty"`
	GeoSource   string   `json:"geo_source,omitempty"`

	Agents       []AgentView         `json:"agents"`
	CostImpact   model.CostImpact    `json:"cost_impact"`
	Alternatives []model.Alternative `json:"alternatives"`
	Summary      string              `json:"summary"`
}

// ClassifyAnalysis resolves the levels of an analysis payload. The uncertainty
// flag and confidence label are taken as computed upstream; the coefficient
// of variation is carried for display only.
func ClassifyAnalysis(a model.AnalyzeResponse) AnalysisView {
	conf := a.Ensemble.Confidence
	if conf == "" {
		conf = a.Confidence
	}

	v := AnalysisView{
		SupplierID:      a.SupplierID,
		SupplierName:    a.SupplierName,
		Country:         a.Country,
		EnsembleScore:   a.Ensemble.FinalScore,
		EnsembleLevel:   EnsembleLevel(a.Ensemble.FinalScore),
		Confidence:      Confidence(conf),
		HighUncertainty: a.Ensemble.HighUncertainty,
		CV:              a.Ensemble.CoefficientOfVariation,
		SPI:             a.Schedule.SPI,
		SPIBand:         SPIBand(a.Schedule.SPI),
		SVDays:          a.Schedule.SVDays,
		RSchedule:       a.Schedule.RSchedule,
		DelayPercent:    a.Schedule.DelayPercent,
		AvgDelayDays:    a.Schedule.AvgDelayDays,
		ScheduleLevel:   ParseLevel(a.Schedule.RiskLevel),
		GeoLevel:        Unknown,
		CostImpact:      a.CostImpact,
		Alternatives:    a.Alternatives,
		Summary:         a.Summary,
	}

	if a.GeoRisk != nil {
		score := a.GeoRisk.RiskScoreRaw
		v.GeoScore = &score
		v.GeoLevel = GeoLevel(score)
		v.GeoHeadline = a.GeoRisk.Headline
		v.GeoSource = a.GeoRisk.DataSource
	}

	v.Agents = make([]AgentView, len(a.AgentScores))
	for i, ag := range a.AgentScores {
		v.Agents[i] = AgentView{
			Agent:     ag.Agent,
			Score:     ag.Score,
			Level:     EnsembleLevel(ag.Score),
			Reasoning: ag.Reasoning,
		}
	}
	return v
}
