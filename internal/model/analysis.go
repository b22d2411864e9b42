package model

// ScheduleMetrics are the EVM schedule-variance figures computed upstream.
type ScheduleMetrics struct {
	SPI                     float64 `json:"spi"`
	SVDays                  float64 `json:"sv_days"`
	RSchedule               float64 `json:"r_schedule"`
	DisruptionThresholdDays float64 `json:"disruption_threshold_days"`
	AvgDelayDays            float64 `json:"avg_delay_days"`
	DelayPercent            float64 `json:"delay_percent"`
	RiskLevel               string  `json:"risk_level"`
}

// EnsembleResult aggregates the per-agent risk scores.
type EnsembleResult struct {
	FinalScore             float64            `json:"final_score"`
	CoefficientOfVariation float64            `json:"coefficient_of_variation"`
	HighUncertainty        bool               `json:"high_uncertainty"`
	Confidence             string             `json:"confidence"`
	NAgents                int                `json:"n_agents,omitempty"`
	IndividualScores       map[string]float64 `json:"individual_scores,omitempty"`
}

// AgentResult is one contributing risk model's output.
type AgentResult struct {
	Agent     string  `json:"agent"`
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

// CostImpact is the estimated cost of delayed equipment.
type CostImpact struct {
	Currency      string  `json:"currency"`
	EstimatedCost float64 `json:"estimated_cost"`
}

// GeoRisk is the external geopolitical signal for the supplier's country.
type GeoRisk struct {
	Headline        string  `json:"headline"`
	SourceURL       string  `json:"source_url"`
	DataSource      string  `json:"data_source"`
	GDELTEventCount int     `json:"gdelt_event_count"`
	RExternal       float64 `json:"r_external"`
	RiskScoreRaw    float64 `json:"risk_score_raw"` // 0-10
}

// Alternative is a suggested replacement supplier.
type Alternative struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Country      string  `json:"country"`
	Score        float64 `json:"score"`
	Industry     string  `json:"industry,omitempty"`
	SameIndustry bool    `json:"same_industry"`
}

// AnalyzeResponse is the full per-supplier analysis payload.
type AnalyzeResponse struct {
	SupplierID   int             `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	Country      string          `json:"country"`
	Schedule     ScheduleMetrics `json:"schedule"`
	Ensemble     EnsembleResult  `json:"ensemble"`
	AgentScores  []AgentResult   `json:"agent_scores"`
	CostImpact   CostImpact      `json:"costImpact"`
	Alternatives []Alternative   `json:"alternatives"`
	Summary      string          `json:"summary"`
	GeoRisk      *GeoRisk        `json:"geoRisk,omitempty"`
	Confidence   string          `json:"confidence"`
}
