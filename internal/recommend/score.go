package recommend

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"

	"github.com/sells-group/sourcing-cli/internal/material"
	"github.com/sells-group/sourcing-cli/internal/model"
)

// Local match-score weights. The base score (sum of the first four weights)
// is boosted by profile matches and capped at 1.
const (
	reliabilityWeight = 0.35
	geoWeight         = 0.25
	shippingWeight    = 0.20
	delayWeight       = 0.20

	preferredBoost = 0.15
	materialBoost  = 0.10
	industryBoost  = 0.20

	defaultGeoRisk      = 5.0
	defaultShippingDays = 20.0
	shippingHorizonDays = 30.0
)

// fallbackReason is used when a supplier matched on nothing in particular.
const fallbackReason = "Competitive overall supplier profile"

// ScoreCards computes match scores and reasons for overview cards without
// the scoring collaborator. It returns the candidates and a summary line
// describing the ranking Recommend produces for the same limit.
func ScoreCards(cards []model.SupplierCard, profile *model.OnboardProfile, idx *material.Index, limit int) ([]Candidate, string) {
	if idx == nil {
		idx = material.Default()
	}
	var p model.OnboardProfile
	if profile != nil {
		p = profile.Normalized()
	}
	preferred := make(map[string]bool, len(p.PreferredCountries))
	for _, c := range p.PreferredCountries {
		preferred[c] = true
	}

	cands := make([]Candidate, 0, len(cards))
	for _, card := range cards {
		score, reasons := scoreCard(card, p, preferred, idx)
		cands = append(cands, Candidate{
			Card:         card,
			MatchScore:   math.Round(score*1000) / 1000,
			MatchReasons: reasons,
		})
	}
	return cands, summarize(p, Recommend(cands, "", limit))
}

func scoreCard(card model.SupplierCard, p model.OnboardProfile, preferred map[string]bool, idx *material.Index) (float64, []string) {
	geo := defaultGeoRisk
	if card.CountryRiskScore != nil {
		geo = *card.CountryRiskScore
	}
	shipping := defaultShippingDays
	if card.CountryFactors != nil {
		shipping = card.CountryFactors.AvgShippingDays
	}

	score := card.ReliabilityScore / 100 * reliabilityWeight
	score += (1 - math.Min(1, geo/10)) * geoWeight
	score += (1 - math.Min(1, shipping/shippingHorizonDays)) * shippingWeight
	score += (1 - math.Min(1, card.DelayPct/100)) * delayWeight

	var reasons []string

	if preferred[card.Country] {
		score += preferredBoost
		reasons = append(reasons, fmt.Sprintf("Matches your preferred source country (%s)", card.Country))
	}

	boosted := false
	for _, m := range p.RawMaterials {
		if idx.LeadingSource(m, card.Country) {
			boosted = true
			reasons = append(reasons, fmt.Sprintf("%s is a leading source for %s", card.Country, m))
		}
	}
	if boosted {
		score += materialBoost
	}

	if card.Industry != "" && p.CompanyType != "" && sameIndustry(card.Industry, p.CompanyType) {
		score += industryBoost
		reasons = append(reasons, fmt.Sprintf("Serves the %s industry, matching your company type", card.Industry))
	}

	score = math.Min(1, score)

	if card.ReliabilityScore >= 90 {
		reasons = append(reasons, fmt.Sprintf("High reliability (%.0f%%)", card.ReliabilityScore))
	}
	if shipping <= 14 {
		reasons = append(reasons, fmt.Sprintf("Fast shipping: ~%.0f days", shipping))
	}
	if card.CountryFactors != nil && card.CountryFactors.HasFTA {
		reasons = append(reasons, "Free Trade Agreement in place, lower tariff burden")
	}
	switch {
	case geo <= 3:
		reasons = append(reasons, fmt.Sprintf("Low geopolitical risk (%.1f/10)", geo))
	case geo >= 7:
		reasons = append(reasons, fmt.Sprintf("High geopolitical risk (%.1f/10), consider diversification", geo))
	}

	reasons = dedupe(reasons)
	if len(reasons) == 0 {
		reasons = []string{fallbackReason}
	}
	return score, reasons
}

func summarize(p model.OnboardProfile, res Result) string {
	if res.State != StateReady {
		return "No supplier recommendations available yet."
	}
	mats := "your specified materials"
	if len(p.RawMaterials) > 0 {
		mats = strings.Join(p.RawMaterials, ", ")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Based on your raw material needs (%s) and ", mats)
	if len(p.PreferredCountries) > 0 {
		fmt.Fprintf(&b, "preferred source countries (%s), ", strings.Join(p.PreferredCountries, ", "))
	}
	top := res.Entries[0]
	fmt.Fprintf(&b, "we recommend %d suppliers. Top pick: %s (%s) with a match score of %.2f.",
		len(res.Entries), top.SupplierName, top.Country, top.MatchScore)
	return b.String()
}

// SameIndustry reports whether two industry labels match case-insensitively.
func SameIndustry(a, b string) bool {
	return sameIndustry(a, b)
}

func sameIndustry(a, b string) bool {
	c := cases.Fold()
	return c.String(strings.TrimSpace(a)) == c.String(strings.TrimSpace(b))
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
