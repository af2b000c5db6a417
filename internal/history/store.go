// Package history keeps named save points of the quotation and detects
// no-op saves by comparing state snapshots.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/andy/cotiza/internal/domain"
	"github.com/andy/cotiza/internal/editor"
	"github.com/andy/cotiza/internal/repository"
	"github.com/google/uuid"
)

// StorageKey is the key holding the JSON encoded record list
const StorageKey = "quotation_history"

var ErrRecordNotFound = errors.New("history record not found")

// SaveStatus tells whether a save produced a new record
type SaveStatus int

const (
	Created SaveStatus = iota
	Unchanged
)

func (s SaveStatus) String() string {
	switch s {
	case Created:
		return "created"
	case Unchanged:
		return "unchanged"
	default:
		return fmt.Sprintf("SaveStatus(%d)", int(s))
	}
}

// SaveResult reports the outcome of Save. Record is nil when Unchanged.
type SaveResult struct {
	Status SaveStatus
	Record *domain.QuotationRecord
	Silent bool
}

// Store is the in-memory history, written through to a key-value store.
// Memory is authoritative: persistence failures are logged and dropped.
type Store struct {
	mu      sync.Mutex
	kv      repository.KeyValueRepository
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
	records []domain.QuotationRecord // newest first

	marker    string
	lastSaved time.Time
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides record ID generation
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithLogger sets the logger used for swallowed persistence errors
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore creates an empty store. Call Load to read persisted records.
func NewStore(kv repository.KeyValueRepository, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		logger: slog.Default(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory list with the persisted one. Unreadable or
// corrupt data leaves the store empty; invalid records are dropped.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		s.logger.Warn("history read failed", "error", err)
		return
	}
	if !ok || raw == "" {
		return
	}

	var records []domain.QuotationRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		s.logger.Warn("history data is corrupt, starting empty", "error", err)
		return
	}
	s.records = slices.DeleteFunc(records, func(r domain.QuotationRecord) bool {
		if err := r.Validate(); err != nil {
			s.logger.Warn("dropping invalid history record", "id", r.ID, "error", err)
			return true
		}
		return false
	})
}

// persist writes the full list. Caller must hold mu.
func (s *Store) persist(ctx context.Context) {
	data, err := json.Marshal(s.records)
	if err != nil {
		s.logger.Warn("history encode failed", "error", err)
		return
	}
	if err := s.kv.Set(ctx, StorageKey, string(data)); err != nil {
		s.logger.Warn("history write failed", "records", len(s.records), "error", err)
	}
}

// Save records the state unless it matches the last saved snapshot
func (s *Store) Save(ctx context.Context, st editor.State, silent bool) SaveResult {
	snap := ComputeSnapshot(st)

	s.mu.Lock()
	defer s.mu.Unlock()

	if snap == s.marker {
		return SaveResult{Status: Unchanged, Silent: silent}
	}

	now := s.now()
	rec := domain.QuotationRecord{
		ID:       s.newID(),
		FileName: st.FileName(),
		SavedAt:  now,
		Data:     st.Data(),
	}

	s.records = slices.Insert(s.records, 0, rec)
	s.persist(ctx)

	s.marker = snap
	s.lastSaved = now

	s.logger.Debug("history record created", "id", rec.ID, "file_name", rec.FileName, "silent", silent)
	return SaveResult{Status: Created, Record: &rec, Silent: silent}
}

// Rename changes a record's file name. A blank name is ignored.
func (s *Store) Rename(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.index(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	if name == "" {
		return nil
	}
	s.records[idx].FileName = name
	s.persist(ctx)
	return nil
}

// Delete removes a record and reports whether it existed
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.index(id)
	if idx < 0 {
		return false
	}
	s.records = slices.Delete(s.records, idx, idx+1)
	s.persist(ctx)
	return true
}

// Restore returns a deep copy of a record's state and marks it as the last
// saved snapshot, so saving again without edits is Unchanged
func (s *Store) Restore(id string) (editor.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.index(id)
	if idx < 0 {
		return editor.State{}, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}

	st := editor.FromData(s.records[idx].Data)
	s.marker = ComputeSnapshot(st)
	return st, nil
}

// Get returns a copy of a record
func (s *Store) Get(id string) (domain.QuotationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.index(id)
	if idx < 0 {
		return domain.QuotationRecord{}, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return copyRecord(s.records[idx]), nil
}

// List yields records matching the filter, newest first. Each iteration
// takes a fresh view of the store.
func (s *Store) List(f Filter) iter.Seq[domain.QuotationRecord] {
	return func(yield func(domain.QuotationRecord) bool) {
		s.mu.Lock()
		matched := make([]domain.QuotationRecord, 0, len(s.records))
		for _, r := range s.records {
			if f.Match(r) {
				matched = append(matched, copyRecord(r))
			}
		}
		s.mu.Unlock()

		slices.SortStableFunc(matched, func(a, b domain.QuotationRecord) int {
			return b.SavedAt.Compare(a.SavedAt)
		})

		for _, r := range matched {
			if !yield(r) {
				return
			}
		}
	}
}

// Len returns the number of records
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// LastSavedAt returns the time of the last created record, or zero
func (s *Store) LastSavedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaved
}

// ResetMarker forgets the last saved snapshot and time, used when a new
// quotation is started
func (s *Store) ResetMarker() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marker = ""
	s.lastSaved = time.Time{}
}

// Clear removes every record
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.marker = ""
	s.lastSaved = time.Time{}
	s.persist(ctx)
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.records, func(r domain.QuotationRecord) bool { return r.ID == id })
}

func copyRecord(r domain.QuotationRecord) domain.QuotationRecord {
	r.Data = r.Data.Clone()
	return r
}
