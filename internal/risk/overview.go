package risk

import (
	"sort"

	"github.com/sells-group/sourcing-cli/internal/model"
)

// CardView is one overview card with its composite level resolved.
type CardView struct {
	SupplierID       int     `json:"supplier_id"`
	Name             string  `json:"supplier_name"`
	Industry         string  `json:"industry"`
	ReliabilityScore float64 `json:"reliability_score"`
	DelayPct         float64 `json:"delay_pct"`
	CompositeScore   float64 `json:"composite_score"`
	CompositeLevel   Level   `json:"composite_level"`
}

// CountryGroup is the overview of one country: its geopolitical level and
// the cards of its suppliers in backend order.
type CountryGroup struct {
	Country     string     `json:"country"`
	GeoScore    *float64   `json:"geo_score"`
	GeoLevel    Level      `json:"geo_level"`
	GeoHeadline string     `json:"geo_headline,omitempty"`
	Suppliers   []CardView `json:"suppliers"`
}

// ClassifyOverview groups the overview cards by country, sorted by country
// name. Composite scores use the composite profile, country risk the
// geopolitical one; a country with no known risk score is Unknown.
func ClassifyOverview(o *model.SupplierOverview) []CountryGroup {
	if o == nil {
		return []CountryGroup{}
	}
	grouped := o.GroupedByCountry
	if len(grouped) == 0 {
		grouped = make(map[string][]model.SupplierCard)
		for _, c := range o.Suppliers {
			grouped[c.Country] = append(grouped[c.Country], c)
		}
	}

	countries := make([]string, 0, len(grouped))
	for c := range grouped {
		countries = append(countries, c)
	}
	sort.Strings(countries)

	out := make([]CountryGroup, 0, len(countries))
	for _, country := range countries {
		g := CountryGroup{Country: country, Suppliers: make([]CardView, 0, len(grouped[country]))}
		for _, card := range grouped[country] {
			if g.GeoScore == nil && card.CountryRiskScore != nil {
				v := *card.CountryRiskScore
				g.GeoScore = &v
				if card.CountryRiskHeadline != nil {
					g.GeoHeadline = *card.CountryRiskHeadline
				}
			}
			g.Suppliers = append(g.Suppliers, CardView{
				SupplierID:       card.SupplierID,
				Name:             card.Name,
				Industry:         card.Industry,
				ReliabilityScore: card.ReliabilityScore,
				DelayPct:         card.DelayPct,
				CompositeScore:   card.CompositeScore,
				CompositeLevel:   CompositeLevel(card.CompositeScore),
			})
		}
		g.GeoLevel = ClassifyOptional(g.GeoScore, GeoThresholds)
		out = append(out, g)
	}
	return out
}
