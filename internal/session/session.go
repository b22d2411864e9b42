// Package session coordinates one buyer's cached backend state: profile,
// supplier corpus, overview and recommendations, plus the analysis history.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/sells-group/sourcing-cli/internal/compare"
	"github.com/sells-group/sourcing-cli/internal/history"
	"github.com/sells-group/sourcing-cli/internal/matcher"
	"github.com/sells-group/sourcing-cli/internal/material"
	"github.com/sells-group/sourcing-cli/internal/model"
	"github.com/sells-group/sourcing-cli/internal/monitoring"
	"github.com/sells-group/sourcing-cli/internal/recommend"
	"github.com/sells-group/sourcing-cli/internal/risk"
	"github.com/sells-group/sourcing-cli/internal/store"
	"github.com/sells-group/sourcing-cli/pkg/sentrichain"
)

// Kind names a cached resource.
type Kind string

const (
	KindProfile         Kind = "profile"
	KindSuppliers       Kind = "suppliers"
	KindOverview        Kind = "overview"
	KindRecommendations Kind = "recommendations"
)

// OnboardedKey is the store key marking a completed onboarding.
const OnboardedKey = "onboarding_complete"

// ErrStaleAnalysis is returned when the selection moved to another supplier
// while an analysis was in flight. The response is discarded.
var ErrStaleAnalysis = eris.New("session: analysis superseded by a newer selection")

// InvalidProfileError wraps a profile that failed validation before save.
type InvalidProfileError struct {
	Err error
}

func (e *InvalidProfileError) Error() string { return e.Err.Error() }
func (e *InvalidProfileError) Unwrap() error { return e.Err }

// Session holds cached state for one buyer. Each resource is fetched at most
// once until invalidated; concurrent loads of the same kind share one call.
type Session struct {
	client  sentrichain.Client
	kv      store.Store
	history *history.Store
	index   *material.Index
	matcher *matcher.Matcher
	rec     *monitoring.Recorder
	limit   int
	local   bool

	group singleflight.Group

	mu            sync.RWMutex
	profile       *model.OnboardProfile
	profileLoaded bool
	suppliers     []model.Supplier
	overview      *model.SupplierOverview
	recs          *recommendationSet
	selected      int
	comparing     compare.Selection
}

type recommendationSet struct {
	cands   []recommend.Candidate
	summary string
}

// Option configures a Session.
type Option func(*Session)

// WithIndex sets the material source index used for matching and scoring.
func WithIndex(idx *material.Index) Option {
	return func(s *Session) {
		if idx != nil {
			s.index = idx
		}
	}
}

// WithHistory sets the analysis history. The default keeps five entries in
// the session's store.
func WithHistory(h *history.Store) Option {
	return func(s *Session) {
		if h != nil {
			s.history = h
		}
	}
}

// WithRecorder records fetches and analyses.
func WithRecorder(r *monitoring.Recorder) Option {
	return func(s *Session) { s.rec = r }
}

// WithLimit sets the number of recommendations returned.
func WithLimit(n int) Option {
	return func(s *Session) { s.limit = n }
}

// WithLocalScoring scores overview cards locally instead of asking the
// backend for recommendations.
func WithLocalScoring(local bool) Option {
	return func(s *Session) { s.local = local }
}

// New creates a Session over client and kv.
func New(client sentrichain.Client, kv store.Store, opts ...Option) *Session {
	s := &Session{
		client: client,
		kv:     kv,
		index:  material.Default(),
		limit:  recommend.DefaultLimit,
	}
	for _, o := range opts {
		o(s)
	}
	if s.history == nil {
		s.history = history.New(kv)
	}
	s.matcher = matcher.New(s.index)
	return s
}

// History returns the analysis history.
func (s *Session) History() *history.Store { return s.history }

// Index returns the material source index.
func (s *Session) Index() *material.Index { return s.index }

// load returns the cached value of kind, fetching it through the shared
// singleflight group when absent.
func load[T any](ctx context.Context, s *Session, kind Kind, cached func() (T, bool), fetch func(context.Context) (T, error), put func(T)) (T, error) {
	s.mu.RLock()
	v, ok := cached()
	s.mu.RUnlock()
	if ok {
		return v, nil
	}

	res, err, _ := s.group.Do(string(kind), func() (any, error) {
		s.mu.RLock()
		v, ok := cached()
		s.mu.RUnlock()
		if ok {
			return v, nil
		}
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		put(v)
		s.mu.Unlock()
		s.rec.ObserveFetch(string(kind))
		zap.L().Debug("session: loaded", zap.String("kind", string(kind)))
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, eris.Wrapf(err, "session: load %s", kind)
	}
	return res.(T), nil
}

// Profile returns the buyer profile, or nil when the account has not
// onboarded.
func (s *Session) Profile(ctx context.Context) (*model.OnboardProfile, error) {
	return load(ctx, s, KindProfile,
		func() (*model.OnboardProfile, bool) { return s.profile, s.profileLoaded },
		func(ctx context.Context) (*model.OnboardProfile, error) {
			p, err := s.client.GetProfile(ctx)
			if err != nil || p == nil {
				return nil, err
			}
			n := p.Normalized()
			return &n, nil
		},
		func(p *model.OnboardProfile) { s.profile, s.profileLoaded = p, true },
	)
}

// Suppliers returns the supplier corpus in backend order.
func (s *Session) Suppliers(ctx context.Context) ([]model.Supplier, error) {
	return load(ctx, s, KindSuppliers,
		func() ([]model.Supplier, bool) { return s.suppliers, s.suppliers != nil },
		func(ctx context.Context) ([]model.Supplier, error) {
			list, err := s.client.ListSuppliers(ctx)
			if list == nil && err == nil {
				list = []model.Supplier{}
			}
			return list, err
		},
		func(list []model.Supplier) { s.suppliers = list },
	)
}

// Overview returns the supplier overview with its country factors linked.
func (s *Session) Overview(ctx context.Context) (*model.SupplierOverview, error) {
	return load(ctx, s, KindOverview,
		func() (*model.SupplierOverview, bool) { return s.overview, s.overview != nil },
		func(ctx context.Context) (*model.SupplierOverview, error) {
			ov, err := s.client.Overview(ctx)
			if err != nil {
				return nil, err
			}
			if ov == nil {
				ov = &model.SupplierOverview{}
			}
			ov.Link()
			return ov, nil
		},
		func(ov *model.SupplierOverview) { s.overview = ov },
	)
}

// Bootstrap loads the profile, supplier corpus and overview concurrently.
func (s *Session) Bootstrap(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.Profile(gctx)
		return err
	})
	g.Go(func() error {
		_, err := s.Suppliers(gctx)
		return err
	})
	g.Go(func() error {
		_, err := s.Overview(gctx)
		return err
	})
	return g.Wait()
}

// Invalidate drops a cached resource so the next access fetches it again.
func (s *Session) Invalidate(kind Kind) {
	s.mu.Lock()
	switch kind {
	case KindProfile:
		s.profile, s.profileLoaded = nil, false
	case KindSuppliers:
		s.suppliers = nil
	case KindOverview:
		s.overview = nil
	case KindRecommendations:
		s.recs = nil
	}
	s.mu.Unlock()
	s.group.Forget(string(kind))
}

// SortedSuppliers returns the corpus ordered by profile match. Without a
// profile the backend order is kept.
func (s *Session) SortedSuppliers(ctx context.Context) ([]model.Supplier, error) {
	list, err := s.Suppliers(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := s.Profile(ctx)
	if err != nil {
		return nil, err
	}
	return s.matcher.Rank(list, profile), nil
}

// Recommend ranks the cached recommendations. It never fetches; before
// LoadRecommendations succeeds the result is StateNotComputed.
func (s *Session) Recommend() recommend.Result {
	s.mu.RLock()
	set := s.recs
	s.mu.RUnlock()
	if set == nil {
		return recommend.NotComputed()
	}
	return recommend.Recommend(set.cands, set.summary, s.limit)
}

// LoadRecommendations fetches recommendations once and ranks them.
func (s *Session) LoadRecommendations(ctx context.Context) (recommend.Result, error) {
	_, err := load(ctx, s, KindRecommendations,
		func() (*recommendationSet, bool) { return s.recs, s.recs != nil },
		s.fetchRecommendations,
		func(set *recommendationSet) { s.recs = set },
	)
	if err != nil {
		return recommend.Result{}, err
	}
	return s.Recommend(), nil
}

func (s *Session) fetchRecommendations(ctx context.Context) (*recommendationSet, error) {
	if s.local {
		ov, err := s.Overview(ctx)
		if err != nil {
			return nil, err
		}
		profile, err := s.Profile(ctx)
		if err != nil {
			return nil, err
		}
		cands, summary := recommend.ScoreCards(ov.Suppliers, profile, s.index, s.limit)
		return &recommendationSet{cands: cands, summary: summary}, nil
	}

	resp, err := s.client.Recommendations(ctx)
	if err != nil {
		return nil, err
	}
	// The overview only enriches entries with country risk; rank without it
	// when it cannot be loaded.
	ov, err := s.Overview(ctx)
	if err != nil {
		zap.L().Warn("session: recommendations without overview", zap.Error(err))
		ov = nil
	}
	var summary string
	if resp != nil {
		summary = resp.Summary
	}
	return &recommendationSet{cands: recommend.FromResponse(resp, ov), summary: summary}, nil
}

// Compare aggregates up to four countries of the overview side by side.
func (s *Session) Compare(ctx context.Context, countries ...string) ([]compare.Row, error) {
	ov, err := s.Overview(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := s.Profile(ctx)
	if err != nil {
		return nil, err
	}
	return compare.Compare(countries, ov.GroupedByCountry, profile), nil
}

// ComparisonSelection is a snapshot of the countries chosen for comparison.
type ComparisonSelection struct {
	Countries []string `json:"countries"`
	Ready     bool     `json:"ready"`
	Full      bool     `json:"full"`
}

func snapshot(sel *compare.Selection) ComparisonSelection {
	return ComparisonSelection{Countries: sel.Countries(), Ready: sel.Ready(), Full: sel.Full()}
}

// ToggleCountry adds country to the comparison selection, or removes it when
// already chosen. Adding to a full selection is a no-op; changed reports
// whether anything happened.
func (s *Session) ToggleCountry(country string) (sel ComparisonSelection, changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed = s.comparing.Toggle(country)
	return snapshot(&s.comparing), changed
}

// ComparisonSelection returns the countries currently chosen for comparison.
func (s *Session) ComparisonSelection() ComparisonSelection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot(&s.comparing)
}

// OverviewGroups groups the overview cards by country with composite and
// geopolitical levels resolved.
func (s *Session) OverviewGroups(ctx context.Context) ([]risk.CountryGroup, error) {
	ov, err := s.Overview(ctx)
	if err != nil {
		return nil, err
	}
	return risk.ClassifyOverview(ov), nil
}

// Select marks supplierID as the current selection. An analysis still in
// flight for a different supplier becomes stale.
func (s *Session) Select(supplierID int) {
	s.mu.Lock()
	s.selected = supplierID
	s.mu.Unlock()
}

// Selected returns the current selection, or 0 when none.
func (s *Session) Selected() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Analyze selects a supplier and runs its risk analysis. When the current
// selection no longer names supplierID once the backend answers, the
// response is dropped and ErrStaleAnalysis returned. A completed analysis is recorded in history;
// a history write failure is logged and does not fail the analysis.
func (s *Session) Analyze(ctx context.Context, supplierID int) (risk.AnalysisView, error) {
	s.Select(supplierID)

	resp, err := s.client.Analyze(ctx, supplierID)
	if err != nil {
		s.rec.ObserveAnalysis(monitoring.OutcomeError)
		return risk.AnalysisView{}, eris.Wrapf(err, "session: analyze supplier %d", supplierID)
	}

	s.mu.RLock()
	stale := s.selected != supplierID
	s.mu.RUnlock()
	if stale {
		s.rec.ObserveAnalysis(monitoring.OutcomeStale)
		zap.L().Info("session: dropped stale analysis", zap.Int("supplier_id", supplierID))
		return risk.AnalysisView{}, ErrStaleAnalysis
	}
	if resp == nil {
		s.rec.ObserveAnalysis(monitoring.OutcomeError)
		return risk.AnalysisView{}, eris.Errorf("session: analyze supplier %d: empty response", supplierID)
	}

	if _, err := s.history.Record(ctx, *resp); err != nil {
		zap.L().Warn("session: history not recorded",
			zap.Int("supplier_id", supplierID),
			zap.Error(err),
		)
	} else {
		s.rec.ObserveHistoryRecord()
	}
	s.rec.ObserveAnalysis(monitoring.OutcomeOK)
	return risk.ClassifyAnalysis(*resp), nil
}

// SaveProfile validates and saves the buyer profile, marks onboarding
// complete and drops cached recommendations.
func (s *Session) SaveProfile(ctx context.Context, p model.OnboardProfile) (*model.OnboardProfile, error) {
	p = p.Normalized()
	if err := p.Validate(); err != nil {
		return nil, &InvalidProfileError{Err: err}
	}

	saved, err := s.client.SaveProfile(ctx, p)
	if err != nil {
		return nil, eris.Wrap(err, "session: save profile")
	}
	if saved == nil {
		saved = &p
	} else {
		n := saved.Normalized()
		saved = &n
	}

	s.mu.Lock()
	s.profile, s.profileLoaded = saved, true
	s.mu.Unlock()
	s.Invalidate(KindRecommendations)

	if err := s.kv.Set(ctx, OnboardedKey, []byte("true")); err != nil {
		zap.L().Warn("session: onboarding marker not saved", zap.Error(err))
	}
	return saved, nil
}

// Onboarded reports whether onboarding has completed, from the local marker
// or, failing that, from the presence of a backend profile.
func (s *Session) Onboarded(ctx context.Context) (bool, error) {
	v, ok, err := s.kv.Get(ctx, OnboardedKey)
	if err != nil {
		zap.L().Warn("session: read onboarding marker", zap.Error(err))
	} else if ok && string(v) == "true" {
		return true, nil
	}

	p, err := s.Profile(ctx)
	if err != nil {
		return false, err
	}
	if p == nil {
		return false, nil
	}
	if err := s.kv.Set(ctx, OnboardedKey, []byte("true")); err != nil {
		zap.L().Warn("session: onboarding marker not saved", zap.Error(err))
	}
	return true, nil
}

// Materials returns the leading source countries for a material.
func (s *Session) Materials(material string) []string {
	return s.index.CountriesFor(material)
}

// String describes the cache state for debug logs.
func (s *Session) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("session{profile=%t suppliers=%d overview=%t recommendations=%t selected=%d}",
		s.profileLoaded, len(s.suppliers), s.overview != nil, s.recs != nil, s.selected)
}
