package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sells-group/sourcing-cli/internal/compare"
	"github.com/sells-group/sourcing-cli/internal/model"
	"github.com/sells-group/sourcing-cli/internal/session"
)

type profileResponse struct {
	Onboarded bool                  `json:"onboarded"`
	Profile   *model.OnboardProfile `json:"profile"`
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.session.Profile(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	onboarded, err := s.session.Onboarded(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Onboarded: onboarded, Profile: p})
}

func (s *Server) putProfile(w http.ResponseWriter, r *http.Request) {
	var p model.OnboardProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	saved, err := s.session.SaveProfile(r.Context(), p)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Onboarded: true, Profile: saved})
}

func (s *Server) listSuppliers(w http.ResponseWriter, r *http.Request) {
	list, err := s.session.SortedSuppliers(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"suppliers": list,
		"count":     len(list),
	})
}

func (s *Server) analyzeSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "supplier id must be a positive integer")
		return
	}
	view, err := s.session.Analyze(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// recommendations ranks the cached recommendations, loading them unless
// cached=true is given.
func (s *Server) recommendations(w http.ResponseWriter, r *http.Request) {
	if cached, _ := strconv.ParseBool(r.URL.Query().Get("cached")); cached {
		writeJSON(w, http.StatusOK, s.session.Recommend())
		return
	}
	res, err := s.session.LoadRecommendations(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// overview lists the overview cards grouped by country.
func (s *Server) overview(w http.ResponseWriter, r *http.Request) {
	groups, err := s.session.OverviewGroups(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"countries": groups,
		"count":     len(groups),
	})
}

type selectionBody struct {
	SupplierID int `json:"supplier_id"`
}

func (s *Server) getSelection(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, selectionBody{SupplierID: s.session.Selected()})
}

// putSelection changes the current supplier; an analysis in flight for
// another supplier is dropped as stale.
func (s *Server) putSelection(w http.ResponseWriter, r *http.Request) {
	var body selectionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.SupplierID <= 0 {
		writeError(w, http.StatusBadRequest, "supplier_id must be a positive integer")
		return
	}
	s.session.Select(body.SupplierID)
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) getComparisonSelection(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.session.ComparisonSelection())
}

type toggleResponse struct {
	Selection session.ComparisonSelection `json:"selection"`
	Changed   bool                        `json:"changed"`
}

func (s *Server) toggleCountry(w http.ResponseWriter, r *http.Request) {
	sel, changed := s.session.ToggleCountry(chi.URLParam(r, "country"))
	writeJSON(w, http.StatusOK, toggleResponse{Selection: sel, Changed: changed})
}

type compareResponse struct {
	Countries []string      `json:"countries"`
	Ready     bool          `json:"ready"`
	Full      bool          `json:"full"`
	Rows      []compare.Row `json:"rows"`
}

// compare accepts repeated or comma separated country parameters, falling
// back to the session's comparison selection when none are given.
// format=csv returns the table as CSV.
func (s *Server) compare(w http.ResponseWriter, r *http.Request) {
	var requested []string
	for _, v := range r.URL.Query()["country"] {
		requested = append(requested, strings.Split(v, ",")...)
	}
	if len(requested) == 0 {
		requested = s.session.ComparisonSelection().Countries
	}
	sel := compare.NewSelection(requested...)

	rows, err := s.session.Compare(r.Context(), sel.Countries()...)
	if err != nil {
		writeAppError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="comparison.csv"`)
		if err := compare.WriteCSV(w, rows); err != nil {
			writeAppError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, compareResponse{
		Countries: sel.Countries(),
		Ready:     sel.Ready(),
		Full:      sel.Full(),
		Rows:      rows,
	})
}

func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	h := s.session.History()
	writeJSON(w, http.StatusOK, map[string]any{
		"history":  h.List(r.Context()),
		"capacity": h.Capacity(),
	})
}

func (s *Server) clearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.session.History().Clear(r.Context()); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteHistory(w http.ResponseWriter, r *http.Request) {
	found, err := s.session.History().Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "history entry not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) materials(w http.ResponseWriter, r *http.Request) {
	material := chi.URLParam(r, "material")
	writeJSON(w, http.StatusOK, map[string]any{
		"material":  material,
		"countries": s.session.Materials(material),
	})
}
