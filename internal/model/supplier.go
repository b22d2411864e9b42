package model

// CostClass is a supplier's cost competitiveness bucket.
type CostClass string

const (
	CostLow    CostClass = "low"
	CostMedium CostClass = "medium"
	CostHigh   CostClass = "high"
)

// Supplier is one record of the supplier corpus. Immutable once fetched.
type Supplier struct {
	ID                  int       `json:"id"`
	Name                string    `json:"supplier_name"`
	Country             string    `json:"country"`
	Industry            string    `json:"industry"`
	ReliabilityScore    float64   `json:"reliability_score"`     // 0-100
	AverageDeliveryTime float64   `json:"average_delivery_time"` // days
	CostCompetitiveness CostClass `json:"cost_competitiveness"`
}

// CountryFactors holds the country-level trade factors shared by every
// supplier located in that country.
type CountryFactors struct {
	Country              string   `json:"country"`
	Continent            string   `json:"continent,omitempty"`
	EconomyScore         float64  `json:"economy_score,omitempty"`
	EconomyLabel         string   `json:"economy_label"`
	Currency             string   `json:"currency,omitempty"`
	CorporateTaxPct      float64  `json:"corporate_tax_pct"`
	ImportTariffPct      float64  `json:"import_tariff_pct,omitempty"`
	HasFTA               bool     `json:"has_fta"`
	FTAPartners          []string `json:"fta_partners,omitempty"`
	AvgShippingDays      float64  `json:"avg_shipping_days"`
	ShippingCostUSDPerKg float64  `json:"shipping_cost_usd_per_kg"`
	CustomsClearanceDays float64  `json:"customs_clearance_days"`
	CommonIssues         []string `json:"common_issues"`
	PoliticalStability   float64  `json:"political_stability"` // 0-10
}

// SupplierCard is a supplier enriched with delay statistics and the
// country-level factors of its country. It is the row type of the overview.
type SupplierCard struct {
	SupplierID          int       `json:"supplier_id"`
	Name                string    `json:"supplier_name"`
	Country             string    `json:"country"`
	Continent           string    `json:"continent,omitempty"`
	Industry            string    `json:"industry"`
	ReliabilityScore    float64   `json:"reliability_score"`
	AvgDeliveryDays     float64   `json:"avg_delivery_days"`
	CostCompetitiveness CostClass `json:"cost_competitiveness"`
	TotalSchedules      int       `json:"total_schedules"`
	DelayedCount        int       `json:"delayed_count"`
	DelayPct            float64   `json:"delay_pct"`
	AvgDelayDays        float64   `json:"avg_delay_days"`
	CompositeScore      float64   `json:"composite_score"`

	// Country-level fields. Nil means unknown (country not seeded upstream).
	CountryFactors      *CountryFactors `json:"country_factors"`
	CountryRiskScore    *float64        `json:"country_risk_score"` // 0-10
	CountryRiskHeadline *string         `json:"country_risk_headline"`
}

// SupplierOverview is the overview corpus returned by the backend.
type SupplierOverview struct {
	Suppliers        []SupplierCard            `json:"suppliers"`
	GroupedByCountry map[string][]SupplierCard `json:"grouped_by_country"`
}

// Link rewrites every card's CountryFactors to a single shared instance per
// country so that all suppliers of a country reference, rather than copy,
// the same factors. The first non-nil factors seen for a country win. The
// grouping is rebuilt from Suppliers when the backend omitted it.
func (o *SupplierOverview) Link() map[string]*CountryFactors {
	shared := make(map[string]*CountryFactors)
	note := func(cards []SupplierCard) {
		for i := range cards {
			cf := cards[i].CountryFactors
			if cf == nil {
				continue
			}
			if _, ok := shared[cards[i].Country]; !ok {
				shared[cards[i].Country] = cf
			}
		}
	}
	note(o.Suppliers)
	for _, cards := range o.GroupedByCountry {
		note(cards)
	}

	relink := func(cards []SupplierCard) {
		for i := range cards {
			if cf, ok := shared[cards[i].Country]; ok {
				cards[i].CountryFactors = cf
			}
		}
	}
	relink(o.Suppliers)
	for _, cards := range o.GroupedByCountry {
		relink(cards)
	}

	if len(o.GroupedByCountry) == 0 && len(o.Suppliers) > 0 {
		o.GroupedByCountry = make(map[string][]SupplierCard)
		for _, c := range o.Suppliers {
			o.GroupedByCountry[c.Country] = append(o.GroupedByCountry[c.Country], c)
		}
	}
	return shared
}

// CardByID returns the overview card for a supplier id.
func (o *SupplierOverview) CardByID(id int) (SupplierCard, bool) {
	if o == nil {
		return SupplierCard{}, false
	}
	for _, c := range o.Suppliers {
		if c.SupplierID == id {
			return c, true
		}
	}
	return SupplierCard{}, false
}
