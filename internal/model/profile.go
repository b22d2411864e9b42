package model

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// CompanyTypes is the fixed industry enum a buyer picks during onboarding.
var CompanyTypes = []string{
	"Electronics",
	"Manufacturing",
	"Automotive",
	"Pharmaceuticals",
	"Aerospace",
	"Energy",
	"Construction",
	"Food & Beverage",
	"Textiles",
	"Chemical",
	"Logistics",
}

// OnboardProfile is the buyer's company profile. One per account; absent
// until onboarding completes.
type OnboardProfile struct {
	CompanyName        string   `json:"company_name" yaml:"company_name"`
	CompanyType        string   `json:"company_type" yaml:"company_type"`
	RawMaterials       []string `json:"raw_materials" yaml:"raw_materials"`
	PreferredCountries []string `json:"preferred_countries" yaml:"preferred_countries"`
	Notes              string   `json:"notes,omitempty" yaml:"notes"`
}

// Normalized returns a copy with trimmed names and duplicate materials and
// countries removed. The first occurrence of a value keeps its position.
func (p OnboardProfile) Normalized() OnboardProfile {
	out := p
	out.CompanyName = strings.TrimSpace(p.CompanyName)
	out.CompanyType = strings.TrimSpace(p.CompanyType)
	out.RawMaterials = uniqueTrimmed(p.RawMaterials)
	out.PreferredCountries = uniqueTrimmed(p.PreferredCountries)
	return out
}

// Validate checks the profile fields required for a save.
func (p OnboardProfile) Validate() error {
	var errs []string
	if strings.TrimSpace(p.CompanyName) == "" {
		errs = append(errs, "company_name is required")
	}
	if !IsCompanyType(p.CompanyType) {
		errs = append(errs, fmt.Sprintf("company_type %q is not a known industry", p.CompanyType))
	}
	if len(uniqueTrimmed(p.RawMaterials)) == 0 {
		errs = append(errs, "at least one raw material is required")
	}
	if len(errs) > 0 {
		return eris.Errorf("profile: invalid: %s", strings.Join(errs, "; "))
	}
	return nil
}

// IsCompanyType reports whether t is one of CompanyTypes.
func IsCompanyType(t string) bool {
	t = strings.TrimSpace(t)
	for _, ct := range CompanyTypes {
		if ct == t {
			return true
		}
	}
	return false
}

func uniqueTrimmed(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
