// Package material maps raw-material names onto the countries that lead
// their global supply.
package material

import (
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

// Entry is one curated material key and its leading source countries,
// most significant first.
type Entry struct {
	Key       string
	Countries []string
}

// Index is a static material to source-country lookup. The zero value is an
// empty index. An Index is read-only after construction and safe for
// concurrent use.
type Index struct {
	entries []Entry
}

// New builds an index from entries. Keys are case folded; a repeated key
// replaces the earlier entry's countries but keeps its position.
func New(entries []Entry) *Index {
	idx := &Index{}
	pos := make(map[string]int, len(entries))
	for _, e := range entries {
		key := fold(strings.TrimSpace(e.Key))
		if key == "" {
			continue
		}
		countries := append([]string(nil), e.Countries...)
		if i, ok := pos[key]; ok {
			idx.entries[i].Countries = countries
			continue
		}
		pos[key] = len(idx.entries)
		idx.entries = append(idx.entries, Entry{Key: key, Countries: countries})
	}
	return idx
}

// Default returns the curated index.
func Default() *Index {
	return New(defaultEntries)
}

// Keys returns the folded material keys in curated order.
func (idx *Index) Keys() []string {
	keys := make([]string, len(idx.entries))
	for i, e := range idx.entries {
		keys[i] = e.Key
	}
	return keys
}

// Len returns the number of material keys.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// CountriesFor returns the likely source countries for a free-text material
// name. A key matches when the folded material contains it or it contains the
// folded material. Countries are returned once each, in the order the
// matching keys list them. No match yields an empty, non-nil slice.
func (idx *Index) CountriesFor(material string) []string {
	out := []string{}
	q := fold(strings.TrimSpace(material))
	if q == "" || idx == nil {
		return out
	}
	seen := make(map[string]bool)
	for _, e := range idx.entries {
		if !strings.Contains(q, e.Key) && !strings.Contains(e.Key, q) {
			continue
		}
		for _, c := range e.Countries {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

// CountrySet returns the union of CountriesFor over every material.
func (idx *Index) CountrySet(materials []string) map[string]bool {
	set := make(map[string]bool)
	for _, m := range materials {
		for _, c := range idx.CountriesFor(m) {
			set[c] = true
		}
	}
	return set
}

// LeadingSource reports whether country is a listed source for any key that
// matches material.
func (idx *Index) LeadingSource(material, country string) bool {
	for _, c := range idx.CountriesFor(material) {
		if c == country {
			return true
		}
	}
	return false
}

// overrideFile is the YAML layout of a material override file:
//
//	materials:
//	  graphite: [China, Mozambique]
type overrideFile struct {
	Materials map[string][]string `yaml:"materials"`
}

// Load returns the curated index merged with the overrides in the YAML file
// at path. Override keys replace curated keys of the same name; new keys are
// appended in sorted order. An empty path returns Default().
func Load(path string) (*Index, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "material: read override %s", path)
	}

	var f overrideFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "material: parse override")
	}

	keys := make([]string, 0, len(f.Materials))
	for k := range f.Materials {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := append([]Entry(nil), defaultEntries...)
	for _, k := range keys {
		entries = append(entries, Entry{Key: k, Countries: f.Materials[k]})
	}
	return New(entries), nil
}

func fold(s string) string {
	return cases.Fold().String(s)
}
