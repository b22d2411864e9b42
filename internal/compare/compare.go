package compare

import (
	"github.com/sells-group/sourcing-cli/internal/model"
	"github.com/sells-group/sourcing-cli/internal/recommend"
)

// Metric names a comparable row value.
type Metric string

const (
	MetricAvgReliability     Metric = "avg_reliability"
	MetricAvgDelayPct        Metric = "avg_delay_pct"
	MetricShippingCost       Metric = "shipping_cost_usd_per_kg"
	MetricShippingDays       Metric = "avg_shipping_days"
	MetricCustomsDays        Metric = "customs_clearance_days"
	MetricCorporateTax       Metric = "corporate_tax_pct"
	MetricRiskScore          Metric = "country_risk_score"
	MetricPoliticalStability Metric = "political_stability"
)

// Direction says which end of a metric's range wins.
type Direction int

const (
	LowerIsBetter Direction = iota
	HigherIsBetter
)

// Metrics lists every comparable metric with its direction, in display order.
var Metrics = []struct {
	Metric    Metric
	Direction Direction
}{
	{MetricAvgReliability, HigherIsBetter},
	{MetricAvgDelayPct, LowerIsBetter},
	{MetricRiskScore, LowerIsBetter},
	{MetricCorporateTax, LowerIsBetter},
	{MetricShippingDays, LowerIsBetter},
	{MetricShippingCost, LowerIsBetter},
	{MetricCustomsDays, LowerIsBetter},
	{MetricPoliticalStability, HigherIsBetter},
}

// Row is the aggregate for one selected country. Pointer fields are nil
// when no supplier of the country carries the value.
type Row struct {
	Country         string  `json:"country"`
	SupplierCount   int     `json:"supplier_count"`
	IndustryMatches int     `json:"industry_matches"`
	AvgReliability  float64 `json:"avg_reliability"`
	AvgDelayPct     float64 `json:"avg_delay_pct"`

	RiskScore    *float64 `json:"country_risk_score"`
	RiskHeadline *string  `json:"country_risk_headline"`

	CorporateTaxPct      *float64 `json:"corporate_tax_pct"`
	AvgShippingDays      *float64 `json:"avg_shipping_days"`
	ShippingCostUSDPerKg *float64 `json:"shipping_cost_usd_per_kg"`
	CustomsClearanceDays *float64 `json:"customs_clearance_days"`
	PoliticalStability   *float64 `json:"political_stability"`
	HasFTA               *bool    `json:"has_fta"`
	EconomyLabel         string   `json:"economy_label,omitempty"`
	CommonIssues         []string `json:"common_issues,omitempty"`

	// Best holds the metrics on which this row ties for the best value.
	Best map[Metric]bool `json:"best"`
}

// IsBest reports whether the row holds the best value for m.
func (r Row) IsBest(m Metric) bool {
	return r.Best[m]
}

// Value returns the row's value for m, or nil when it is unknown. The
// averages of a country without suppliers are unknown here even though
// they display as 0.
func (r Row) Value(m Metric) *float64 {
	avg := func(v float64) *float64 {
		if r.SupplierCount == 0 {
			return nil
		}
		return &v
	}
	switch m {
	case MetricAvgReliability:
		return avg(r.AvgReliability)
	case MetricAvgDelayPct:
		return avg(r.AvgDelayPct)
	case MetricShippingCost:
		return r.ShippingCostUSDPerKg
	case MetricShippingDays:
		return r.AvgShippingDays
	case MetricCustomsDays:
		return r.CustomsClearanceDays
	case MetricCorporateTax:
		return r.CorporateTaxPct
	case MetricRiskScore:
		return r.RiskScore
	case MetricPoliticalStability:
		return r.PoliticalStability
	}
	return nil
}

// Compare aggregates the grouped suppliers of each country, in the given
// order, and marks the best value of every metric. At most MaxSelection
// countries are compared; duplicates are ignored. The industry match count
// is 0 when profile is nil.
func Compare(countries []string, grouped map[string][]model.SupplierCard, profile *model.OnboardProfile) []Row {
	sel := NewSelection(countries...)
	rows := make([]Row, 0, sel.Len())
	for _, c := range sel.Countries() {
		rows = append(rows, aggregate(c, grouped[c], profile))
	}
	markBest(rows)
	return rows
}

func aggregate(country string, cards []model.SupplierCard, profile *model.OnboardProfile) Row {
	row := Row{Country: country, SupplierCount: len(cards), Best: map[Metric]bool{}}

	var relSum, delaySum float64
	for _, c := range cards {
		relSum += c.ReliabilityScore
		delaySum += c.DelayPct
		if profile != nil && profile.CompanyType != "" && recommend.SameIndustry(c.Industry, profile.CompanyType) {
			row.IndustryMatches++
		}
	}
	if n := len(cards); n > 0 {
		row.AvgReliability = relSum / float64(n)
		row.AvgDelayPct = delaySum / float64(n)
	}

	// Country-level fields are the same on every card of the country, so
	// the first card that carries them is as good as any.
	for _, c := range cards {
		if c.CountryRiskScore != nil {
			v := *c.CountryRiskScore
			row.RiskScore = &v
			row.RiskHeadline = c.CountryRiskHeadline
			break
		}
	}
	for _, c := range cards {
		cf := c.CountryFactors
		if cf == nil {
			continue
		}
		row.CorporateTaxPct = fptr(cf.CorporateTaxPct)
		row.AvgShippingDays = fptr(cf.AvgShippingDays)
		row.ShippingCostUSDPerKg = fptr(cf.ShippingCostUSDPerKg)
		row.CustomsClearanceDays = fptr(cf.CustomsClearanceDays)
		row.PoliticalStability = fptr(cf.PoliticalStability)
		fta := cf.HasFTA
		row.HasFTA = &fta
		row.EconomyLabel = cf.EconomyLabel
		row.CommonIssues = append([]string(nil), cf.CommonIssues...)
		break
	}
	return row
}

func markBest(rows []Row) {
	for _, md := range Metrics {
		var best *float64
		for _, r := range rows {
			v := r.Value(md.Metric)
			if v == nil {
				continue
			}
			if best == nil ||
				(md.Direction == LowerIsBetter && *v < *best) ||
				(md.Direction == HigherIsBetter && *v > *best) {
				best = v
			}
		}
		if best == nil {
			continue
		}
		for i := range rows {
			if v := rows[i].Value(md.Metric); v != nil && *v == *best {
				rows[i].Best[md.Metric] = true
			}
		}
	}
}

func fptr(v float64) *float64 { return &v }
