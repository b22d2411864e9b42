package model

import "time"

// RecommendationEntry is one ranked supplier recommendation.
type RecommendationEntry struct {
	Rank                 int      `json:"rank"`
	SupplierID           int      `json:"supplier_id"`
	SupplierName         string   `json:"supplier_name"`
	Country              string   `json:"country"`
	Industry             string   `json:"industry,omitempty"`
	MatchScore           float64  `json:"match_score"`
	MatchReasons         []string `json:"match_reasons"`
	ReliabilityScore     float64  `json:"reliability_score"`
	AvgDeliveryDays      float64  `json:"avg_delivery_days"`
	ShippingCostUSDPerKg *float64 `json:"shipping_cost_usd_per_kg"`
	AvgShippingDays      *float64 `json:"avg_shipping_days"`
	RiskLevel            string   `json:"risk_level"`
}

// RecommendationResponse is the backend's recommendation payload.
type RecommendationResponse struct {
	RawMaterials       []string              `json:"raw_materials,omitempty"`
	PreferredCountries []string              `json:"preferred_countries,omitempty"`
	Recommendations    []RecommendationEntry `json:"recommendations"`
	Summary            string                `json:"summary,omitempty"`
}

// HistoryEntry is an immutable snapshot of one past analysis.
type HistoryEntry struct {
	ID            string          `json:"id"`
	SupplierID    int             `json:"supplier_id"`
	SupplierName  string          `json:"supplier_name"`
	Country       string          `json:"country"`
	EnsembleScore float64         `json:"ensemble_score"`
	RiskLevel     string          `json:"risk_level"`
	Timestamp     time.Time       `json:"timestamp"`
	Analysis      AnalyzeResponse `json:"analysis"`
}
