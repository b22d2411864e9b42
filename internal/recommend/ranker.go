// Package recommend ranks supplier recommendations for a buyer profile.
package recommend

import (
	"sort"

	"github.com/sells-group/sourcing-cli/internal/model"
	"github.com/sells-group/sourcing-cli/internal/risk"
)

// DefaultLimit is the number of recommendations kept when no limit is given.
const DefaultLimit = 5

// State distinguishes a computed result from one that was never computed.
type State string

const (
	// StateNotComputed means no recommendation corpus has been loaded yet.
	StateNotComputed State = "not_computed"
	// StateEmpty means recommendations were computed and none qualified.
	StateEmpty State = "empty"
	// StateReady means at least one ranked entry exists.
	StateReady State = "ready"
)

// Candidate is one supplier with the match score and reasons supplied by
// the scoring collaborator.
type Candidate struct {
	Card         model.SupplierCard
	MatchScore   float64
	MatchReasons []string

	// RiskLabel is the upstream risk label. It is only used when the card
	// has no country risk score to classify.
	RiskLabel string

	// Shipping overrides the card's country factors when set.
	ShippingCostUSDPerKg *float64
	AvgShippingDays      *float64
}

// Result is the ranker output.
type Result struct {
	State   State                       `json:"state"`
	Summary string                      `json:"summary,omitempty"`
	Entries []model.RecommendationEntry `json:"recommendations"`
}

// NotComputed returns the result shown before any corpus has been loaded.
func NotComputed() Result {
	return Result{State: StateNotComputed, Entries: []model.RecommendationEntry{}}
}

// Recommend ranks candidates by descending match score, then descending
// reliability, then ascending supplier name, and keeps the first limit
// entries (limit <= 0 keeps all). Ranks are dense and 1-based. An empty
// corpus yields StateEmpty. The summary is passed through as given.
func Recommend(cands []Candidate, summary string, limit int) Result {
	if len(cands) == 0 {
		return Result{State: StateEmpty, Summary: summary, Entries: []model.RecommendationEntry{}}
	}

	sorted := append([]Candidate(nil), cands...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.MatchScore != b.MatchScore {
			return a.MatchScore > b.MatchScore
		}
		if a.Card.ReliabilityScore != b.Card.ReliabilityScore {
			return a.Card.ReliabilityScore > b.Card.ReliabilityScore
		}
		return a.Card.Name < b.Card.Name
	})

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	entries := make([]model.RecommendationEntry, len(sorted))
	for i, c := range sorted {
		entries[i] = toEntry(i+1, c)
	}
	return Result{State: StateReady, Summary: summary, Entries: entries}
}

// RiskLevel resolves a candidate's risk level: the card's 0-10 country risk
// score when known, otherwise the validated upstream label.
func RiskLevel(c Candidate) risk.Level {
	if c.Card.CountryRiskScore != nil {
		return risk.GeoLevel(*c.Card.CountryRiskScore)
	}
	return risk.ParseLevel(c.RiskLabel)
}

func toEntry(rank int, c Candidate) model.RecommendationEntry {
	e := model.RecommendationEntry{
		Rank:                 rank,
		SupplierID:           c.Card.SupplierID,
		SupplierName:         c.Card.Name,
		Country:              c.Card.Country,
		Industry:             c.Card.Industry,
		MatchScore:           c.MatchScore,
		MatchReasons:         append([]string{}, c.MatchReasons...),
		ReliabilityScore:     c.Card.ReliabilityScore,
		AvgDeliveryDays:      c.Card.AvgDeliveryDays,
		ShippingCostUSDPerKg: c.ShippingCostUSDPerKg,
		AvgShippingDays:      c.AvgShippingDays,
		RiskLevel:            string(RiskLevel(c)),
	}
	if cf := c.Card.CountryFactors; cf != nil {
		if e.ShippingCostUSDPerKg == nil {
			v := cf.ShippingCostUSDPerKg
			e.ShippingCostUSDPerKg = &v
		}
		if e.AvgShippingDays == nil {
			v := cf.AvgShippingDays
			e.AvgShippingDays = &v
		}
	}
	return e
}

// FromResponse converts a backend recommendation payload into candidates,
// joining each entry to its overview card when one is available so the
// country risk score can be classified locally.
func FromResponse(resp *model.RecommendationResponse, overview *model.SupplierOverview) []Candidate {
	if resp == nil {
		return nil
	}
	cands := make([]Candidate, 0, len(resp.Recommendations))
	for _, e := range resp.Recommendations {
		card, ok := overview.CardByID(e.SupplierID)
		if !ok {
			card = model.SupplierCard{
				SupplierID:       e.SupplierID,
				Name:             e.SupplierName,
				Country:          e.Country,
				Industry:         e.Industry,
				ReliabilityScore: e.ReliabilityScore,
				AvgDeliveryDays:  e.AvgDeliveryDays,
			}
		}
		cands = append(cands, Candidate{
			Card:                 card,
			MatchScore:           e.MatchScore,
			MatchReasons:         e.MatchReasons,
			RiskLabel:            e.RiskLevel,
			ShippingCostUSDPerKg: e.ShippingCostUSDPerKg,
			AvgShippingDays:      e.AvgShippingDays,
		})
	}
	return cands
}
