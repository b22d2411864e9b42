package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sourcing-cli/internal/model"
)

func names(suppliers []model.Supplier) []string {
	out := make([]string, len(suppliers))
	for i, s := range suppliers {
		out[i] = s.Name
	}
	return out
}

func TestRank_EndToEnd(t *testing.T) {
	profile := &model.OnboardProfile{
		PreferredCountries: []string{"Germany"},
		RawMaterials:       []string{"Steel"},
	}
	suppliers := []model.Supplier{
		{ID: 3, Name: "C", Country: "Vietnam"},
		{ID: 2, Name: "B", Country: "India"},
		{ID: 1, Name: "A", Country: "Germany"},
	}

	m := New(nil)
	ranked := m.Rank(suppliers, profile)
	assert.Equal(t, []string{"A", "B", "C"}, names(ranked))

	scores := map[string]int{}
	for _, s := range m.ScoreAll(suppliers, profile) {
		scores[s.Supplier.Name] = s.Score
	}
	assert.Equal(t, map[string]int{"A": 3, "B": 1, "C": 0}, scores)
}

func TestRank_NoProfileKeepsOrder(t *testing.T) {
	suppliers := []model.Supplier{
		{ID: 1, Name: "Zeta", Country: "Germany"},
		{ID: 2, Name: "Alpha", Country: "India"},
	}
	ranked := New(nil).Rank(suppliers, nil)
	assert.Equal(t, []string{"Zeta", "Alpha"}, names(ranked))
}

func TestRank_TiesByNameCaseSensitive(t *testing.T) {
	suppliers := []model.Supplier{
		{ID: 1, Name: "beta", Country: "Peru"},
		{ID: 2, Name: "Beta", Country: "Peru"},
		{ID: 3, Name: "alpha", Country: "Peru"},
		{ID: 4, Name: "Alpha", Country: "Peru"},
	}
	ranked := New(nil).Rank(suppliers, &model.OnboardProfile{})
	assert.Equal(t, []string{"Alpha", "Beta", "alpha", "beta"}, names(ranked))
}

func TestRank_PermutationAndNoMutation(t *testing.T) {
	suppliers := []model.Supplier{
		{ID: 1, Name: "Delta", Country: "China"},
		{ID: 2, Name: "Alpha", Country: "Vietnam"},
		{ID: 3, Name: "Charlie", Country: "Germany"},
		{ID: 4, Name: "Bravo", Country: "China"},
		{ID: 5, Name: "Echo", Country: "Japan"},
	}
	original := append([]model.Supplier(nil), suppliers...)
	profile := &model.OnboardProfile{
		PreferredCountries: []string{"China", "China"},
		RawMaterials:       []string{"Rubber"},
	}

	ranked := New(nil).Rank(suppliers, profile)

	require.Len(t, ranked, len(suppliers))
	assert.ElementsMatch(t, original, ranked)
	assert.Equal(t, original, suppliers)
	// China=2, Vietnam=1 (rubber), others 0.
	assert.Equal(t, []string{"Bravo", "Delta", "Alpha", "Charlie", "Echo"}, names(ranked))
}

func TestRank_Empty(t *testing.T) {
	ranked := New(nil).Rank(nil, &model.OnboardProfile{})
	assert.Empty(t, ranked)
}

func TestScore(t *testing.T) {
	preferred := map[string]bool{"Germany": true, "India": true}
	mat := map[string]bool{"India": true, "China": true}

	assert.Equal(t, 2, Score("Germany", preferred, mat))
	assert.Equal(t, 3, Score("India", preferred, mat))
	assert.Equal(t, 1, Score("China", preferred, mat))
	assert.Equal(t, 0, Score("Peru", preferred, mat))
}
