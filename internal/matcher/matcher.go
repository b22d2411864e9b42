// Package matcher orders a supplier corpus by its affinity to a buyer profile.
package matcher

import (
	"sort"

	"github.com/sells-group/sourcing-cli/internal/material"
	"github.com/sells-group/sourcing-cli/internal/model"
)

// Affinity weights. A supplier in a preferred country that is also a leading
// source for one of the profile's materials scores 3.
const (
	PreferredCountryWeight = 2
	MaterialCountryWeight  = 1
)

// Matcher scores suppliers against a profile using a material index.
type Matcher struct {
	idx *material.Index
}

// New creates a Matcher. A nil index falls back to material.Default().
func New(idx *material.Index) *Matcher {
	if idx == nil {
		idx = material.Default()
	}
	return &Matcher{idx: idx}
}

// Scored is a supplier paired with its affinity score.
type Scored struct {
	Supplier model.Supplier
	Score    int
}

// Score returns the 0-3 affinity of one supplier country given the profile's
// preferred countries and the derived material countries.
func Score(country string, preferred, materialCountries map[string]bool) int {
	score := 0
	if preferred[country] {
		score += PreferredCountryWeight
	}
	if materialCountries[country] {
		score += MaterialCountryWeight
	}
	return score
}

// ScoreAll returns every supplier with its affinity score, in input order.
func (m *Matcher) ScoreAll(suppliers []model.Supplier, profile *model.OnboardProfile) []Scored {
	out := make([]Scored, len(suppliers))
	if profile == nil {
		for i, s := range suppliers {
			out[i] = Scored{Supplier: s}
		}
		return out
	}

	p := profile.Normalized()
	preferred := make(map[string]bool, len(p.PreferredCountries))
	for _, c := range p.PreferredCountries {
		preferred[c] = true
	}
	materialCountries := m.idx.CountrySet(p.RawMaterials)

	for i, s := range suppliers {
		out[i] = Scored{Supplier: s, Score: Score(s.Country, preferred, materialCountries)}
	}
	return out
}

// Rank returns a new slice holding the same suppliers ordered by descending
// affinity, ties broken by ascending supplier name (byte order). With no
// profile the input order is returned unchanged. The input is never mutated.
func (m *Matcher) Rank(suppliers []model.Supplier, profile *model.OnboardProfile) []model.Supplier {
	out := make([]model.Supplier, len(suppliers))
	if profile == nil {
		copy(out, suppliers)
		return out
	}

	scored := m.ScoreAll(suppliers, profile)
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Supplier.Name < scored[j].Supplier.Name
	})
	for i, s := range scored {
		out[i] = s.Supplier
	}
	return out
}
