// Package compare aggregates supplier metrics per country and marks the best
// value of each metric across a small selection of countries.
package compare

import "strings"

// Selection bounds.
const (
	MinSelection = 2
	MaxSelection = 4
)

// Selection is an ordered set of 2 to 4 country names. Adding a fifth
// country or a duplicate is a no-op. The zero value is an empty selection.
type Selection struct {
	countries []string
}

// NewSelection returns a selection built by adding each country in order.
// Countries past MaxSelection are ignored.
func NewSelection(countries ...string) *Selection {
	s := &Selection{}
	for _, c := range countries {
		s.Add(c)
	}
	return s
}

// Add appends country and reports whether the selection changed.
func (s *Selection) Add(country string) bool {
	country = strings.TrimSpace(country)
	if country == "" || s.Contains(country) || len(s.countries) >= MaxSelection {
		return false
	}
	s.countries = append(s.countries, country)
	return true
}

// Remove drops country and reports whether it was selected.
func (s *Selection) Remove(country string) bool {
	country = strings.TrimSpace(country)
	for i, c := range s.countries {
		if c == country {
			s.countries = append(s.countries[:i], s.countries[i+1:]...)
			return true
		}
	}
	return false
}

// Toggle removes country when selected and adds it otherwise. It reports
// whether the selection changed.
func (s *Selection) Toggle(country string) bool {
	if s.Contains(country) {
		return s.Remove(country)
	}
	return s.Add(country)
}

// Contains reports whether country is selected.
func (s *Selection) Contains(country string) bool {
	country = strings.TrimSpace(country)
	for _, c := range s.countries {
		if c == country {
			return true
		}
	}
	return false
}

// Countries returns a copy of the selected countries in selection order.
func (s *Selection) Countries() []string {
	return append([]string{}, s.countries...)
}

// Len returns the number of selected countries.
func (s *Selection) Len() int {
	return len(s.countries)
}

// Ready reports whether enough countries are selected to compare.
func (s *Selection) Ready() bool {
	return len(s.countries) >= MinSelection
}

// Full reports whether further additions will be refused.
func (s *Selection) Full() bool {
	return len(s.countries) >= MaxSelection
}
