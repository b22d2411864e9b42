// Package history keeps a short, most-recent-first list of past supplier
// analyses in a key-value store.
package history

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/sourcing-cli/internal/model"
	"github.com/sells-group/sourcing-cli/internal/risk"
	"github.com/sells-group/sourcing-cli/internal/store"
)

// Defaults for New.
const (
	DefaultCapacity = 5
	DefaultKey      = "analysis_history"
)

// Store is the bounded analysis history. Corrupt or missing persisted data
// reads as an empty history.
type Store struct {
	kv       store.Store
	key      string
	capacity int
	now      func() time.Time

	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the key the history list is persisted under.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithCapacity lowers the number of entries kept. Values below 1 are
// ignored; values above DefaultCapacity are clamped to it.
func WithCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.capacity = min(n, DefaultCapacity)
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns a history Store persisted in kv.
func New(kv store.Store, opts ...Option) *Store {
	s := &Store{
		kv:       kv,
		key:      DefaultKey,
		capacity: DefaultCapacity,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Capacity returns the maximum number of entries kept.
func (s *Store) Capacity() int { return s.capacity }

// Record snapshots an analysis. Any existing entry for the same supplier is
// removed, the new entry is prepended, and the list is truncated to
// capacity. It returns the stored entry.
func (s *Store) Record(ctx context.Context, a model.AnalyzeResponse) (model.HistoryEntry, error) {
	entry := model.HistoryEntry{
		ID:            uuid.New().String(),
		SupplierID:    a.SupplierID,
		SupplierName:  a.SupplierName,
		Country:       a.Country,
		EnsembleScore: a.Ensemble.FinalScore,
		RiskLevel:     string(risk.EnsembleLevel(a.Ensemble.FinalScore)),
		Timestamp:     s.now(),
		Analysis:      a,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load(ctx)
	kept := make([]model.HistoryEntry, 0, len(entries)+1)
	kept = append(kept, entry)
	for _, e := range entries {
		if e.SupplierID != entry.SupplierID {
			kept = append(kept, e)
		}
	}
	if len(kept) > s.capacity {
		kept = kept[:s.capacity]
	}

	if err := s.save(ctx, kept); err != nil {
		return model.HistoryEntry{}, err
	}
	zap.L().Debug("history: recorded",
		zap.Int("supplier_id", entry.SupplierID),
		zap.String("id", entry.ID),
		zap.Int("size", len(kept)),
	)
	return entry, nil
}

// List returns the history, newest first. Risk levels are derived from
// each entry's ensemble score rather than read back from storage.
func (s *Store) List(ctx context.Context) []model.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.load(ctx)
	for i := range entries {
		entries[i].RiskLevel = string(risk.EnsembleLevel(entries[i].EnsembleScore))
	}
	return entries
}

// Get returns the entry with the given id.
func (s *Store) Get(ctx context.Context, id string) (model.HistoryEntry, bool) {
	for _, e := range s.List(ctx) {
		if e.ID == id {
			return e, true
		}
	}
	return model.HistoryEntry{}, false
}

// Delete removes the entry with the given id and reports whether it existed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load(ctx)
	kept := entries[:0]
	found := false
	for _, e := range entries {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return false, nil
	}
	return true, s.save(ctx, kept)
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return eris.Wrap(s.kv.Delete(ctx, s.key), "history: clear")
}

// load reads the persisted list. Read errors and corrupt payloads are
// logged and yield an empty list.
func (s *Store) load(ctx context.Context) []model.HistoryEntry {
	data, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		zap.L().Warn("history: read failed, treating as empty", zap.String("key", s.key), zap.Error(err))
		return []model.HistoryEntry{}
	}
	if !ok || len(data) == 0 {
		return []model.HistoryEntry{}
	}
	entries, err := Decode(data)
	if err != nil {
		zap.L().Warn("history: corrupt payload, treating as empty", zap.String("key", s.key), zap.Error(err))
		return []model.HistoryEntry{}
	}
	if len(entries) > s.capacity {
		entries = entries[:s.capacity]
	}
	return entries
}

func (s *Store) save(ctx context.Context, entries []model.HistoryEntry) error {
	data, err := Encode(entries)
	if err != nil {
		return err
	}
	return eris.Wrap(s.kv.Set(ctx, s.key, data), "history: save")
}

// Encode serializes entries in the persisted format: a JSON array, newest
// first.
func Encode(entries []model.HistoryEntry) ([]byte, error) {
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	data, err := json.Marshal(entries)
	return data, eris.Wrap(err, "history: encode")
}

// Decode parses the persisted format.
func Decode(data []byte) ([]model.HistoryEntry, error) {
	var entries []model.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, eris.Wrap(err, "history: decode")
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	return entries, nil
}
