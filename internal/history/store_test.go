package history

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/andy/cotiza/internal/domain"
	"github.com/andy/cotiza/internal/editor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mock implementations
type mockKV struct {
	values  map[string]string
	failSet bool
	failGet bool
	sets    int
}

func newMockKV() *mockKV {
	return &mockKV{values: map[string]string{}}
}

func (m *mockKV) Get(ctx context.Context, key string) (string, bool, error) {
	if m.failGet {
		return "", false, errors.New("storage unavailable")
	}
	v, ok := m.values[key]
	return v, ok, nil
}
func (m *mockKV) Set(ctx context.Context, key, value string) error {
	m.sets++
	if m.failSet {
		return errors.New("quota exceeded")
	}
	m.values[key] = value
	return nil
}
func (m *mockKV) Delete(ctx context.Context, key string) error { delete(m.values, key); return nil }
func (m *mockKV) Keys(ctx context.Context) ([]string, error)   { return nil, nil }
func (m *mockKV) Clear(ctx context.Context) error             { m.values = map[string]string{}; return nil }

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(t *testing.T, kv *mockKV) (*Store, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)}
	n := 0
	s := NewStore(kv,
		WithClock(c.now),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("rec-%d", n) }),
	)
	return s, c
}

func sampleState(t *testing.T) editor.State {
	t.Helper()
	s := editor.New(editor.Defaults{}, time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC))
	s, err := s.Apply(
		editor.SetClientInfo{Name: "Jane", Date: "2024-01-01"},
		editor.AddItem{Zone: domain.DefaultZone, Description: "Roller", Quantity: "2", UnitPrice: "50"},
	)
	require.NoError(t, err)
	return s
}

func collect(s *Store, f Filter) []domain.QuotationRecord {
	return slices.Collect(s.List(f))
}

func TestSaveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, newMockKV())
	st := sampleState(t)

	first := store.Save(ctx, st, false)
	require.Equal(t, Created, first.Status)
	require.NotNil(t, first.Record)
	assert.Equal(t, "COTIZACIÓN_Jane_2024-01-01", first.Record.FileName)

	second := store.Save(ctx, st, false)
	assert.Equal(t, Unchanged, second.Status)
	assert.Nil(t, second.Record)
	assert.Equal(t, 1, store.Len())

	edited, err := editor.SetItemDescription{ID: st.Items[0].ID, Description: "Blackout"}.Apply(st)
	require.NoError(t, err)

	third := store.Save(ctx, edited, true)
	assert.Equal(t, Created, third.Status)
	assert.True(t, third.Silent)
	assert.Equal(t, 2, store.Len())
}

func TestSaveIgnoresAttachmentSourceFile(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, newMockKV())

	st, err := sampleState(t).Apply(editor.AddAttachment{SourcePath: "/a.png", PreviewURL: "data:x"})
	require.NoError(t, err)
	require.Equal(t, Created, store.Save(ctx, st, false).Status)

	st.Attachments[0].SourcePath = "/other/a.png"
	assert.Equal(t, Unchanged, store.Save(ctx, st, false).Status)
}

func TestRestoreThenSaveIsUnchanged(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, newMockKV())

	st := sampleState(t)
	res := store.Save(ctx, st, false)

	other, err := editor.SetText{Field: editor.FieldTerms, Value: "x"}.Apply(st)
	require.NoError(t, err)
	require.Equal(t, Created, store.Save(ctx, other, false).Status)

	restored, err := store.Restore(res.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, st.Client.Terms, restored.Client.Terms)

	assert.Equal(t, Unchanged, store.Save(ctx, restored, false).Status)
	assert.Equal(t, 2, store.Len())

	// the restored state is a copy
	restored.Items[0].Description = "mutated"
	rec, err := store.Get(res.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, "Roller", rec.Data.Items[0].Description)

	_, err = store.Restore("missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestRename(t *testing.T) {
	ctx := context.Background()
	store, c := newTestStore(t, newMockKV())

	st := sampleState(t)
	a := store.Save(ctx, st, false).Record
	c.advance(time.Minute)
	st2, _ := editor.SetCurrency{Code: "EUR"}.Apply(st)
	b := store.Save(ctx, st2, false).Record

	require.NoError(t, store.Rename(ctx, a.ID, "   "))
	got, _ := store.Get(a.ID)
	assert.Equal(t, a.FileName, got.FileName)

	require.NoError(t, store.Rename(ctx, a.ID, "  Casa Playa "))
	got, _ = store.Get(a.ID)
	assert.Equal(t, "Casa Playa", got.FileName)

	other, _ := store.Get(b.ID)
	assert.Equal(t, b.FileName, other.FileName)

	assert.ErrorIs(t, store.Rename(ctx, "nope", "x"), ErrRecordNotFound)
}

func TestDeleteUnknownIsNoop(t *testing.T) {
	ctx := context.Background()
	kv := newMockKV()
	store, _ := newTestStore(t, kv)
	rec := store.Save(ctx, sampleState(t), false).Record
	sets := kv.sets

	assert.False(t, store.Delete(ctx, "missing"))
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, sets, kv.sets)

	assert.True(t, store.Delete(ctx, rec.ID))
	assert.Equal(t, 0, store.Len())
}

func TestPersistenceFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	kv := newMockKV()
	kv.failSet = true
	store, _ := newTestStore(t, kv)

	res := store.Save(ctx, sampleState(t), false)
	assert.Equal(t, Created, res.Status)
	assert.Equal(t, 1, store.Len())
	assert.False(t, store.LastSavedAt().IsZero())

	require.NoError(t, store.Rename(ctx, res.Record.ID, "renamed"))
	got, err := store.Get(res.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.FileName)
}

func TestLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := newMockKV()
	store, _ := newTestStore(t, kv)
	rec := store.Save(ctx, sampleState(t), false).Record

	reloaded, _ := newTestStore(t, kv)
	reloaded.Load(ctx)
	require.Equal(t, 1, reloaded.Len())

	got, err := reloaded.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.FileName, got.FileName)
	assert.True(t, rec.SavedAt.Equal(got.SavedAt))
	assert.True(t, got.Data.Items[0].UnitPrice.Equal(rec.Data.Items[0].UnitPrice))
}

func TestLoadFailuresStartEmpty(t *testing.T) {
	ctx := context.Background()

	kv := newMockKV()
	kv.values[StorageKey] = "{not json"
	store, _ := newTestStore(t, kv)
	store.Load(ctx)
	assert.Equal(t, 0, store.Len())

	kv = newMockKV()
	kv.failGet = true
	store, _ = newTestStore(t, kv)
	store.Load(ctx)
	assert.Equal(t, 0, store.Len())
}

func TestLoadDropsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	kv := newMockKV()
	kv.values[StorageKey] = `[
		{"id":"ok","fileName":"CARTA_Jane_2024-01-01","savedAt":"2024-01-01T10:00:00Z","data":{}},
		{"id":"","fileName":"no id","savedAt":"2024-01-01T10:00:00Z","data":{}},
		{"id":"blank","fileName":"  ","savedAt":"2024-01-01T10:00:00Z","data":{}},
		{"id":"undated","fileName":"undated","data":{}}
	]`

	store, _ := newTestStore(t, kv)
	store.Load(ctx)

	require.Equal(t, 1, store.Len())
	_, err := store.Get("ok")
	assert.NoError(t, err)
}

func TestListFilter(t *testing.T) {
	ctx := context.Background()
	store, c := newTestStore(t, newMockKV())

	names := []string{"Jane", "Pedro", "Janet"}
	for i, name := range names {
		st, err := sampleState(t).Apply(editor.SetClientInfo{Name: name, Date: "2024-01-01"})
		require.NoError(t, err)
		store.Save(ctx, st, true)
		if i < len(names)-1 {
			c.advance(24 * time.Hour)
		}
	}

	all := collect(store, Filter{})
	require.Len(t, all, 3)
	assert.Contains(t, all[0].FileName, "Janet")
	assert.Contains(t, all[2].FileName, "Jane_")

	jan := collect(store, Filter{Text: "JANE"})
	assert.Len(t, jan, 2)

	ranged := collect(store, Filter{DateFrom: "2024-01-02", DateTo: "2024-01-02"})
	require.Len(t, ranged, 1)
	assert.Contains(t, ranged[0].FileName, "Pedro")

	// restartable and non-mutating
	assert.Len(t, collect(store, Filter{}), 3)

	for r := range store.List(Filter{}) {
		_ = r
		break
	}
	assert.Equal(t, 3, store.Len())

	assert.Error(t, Filter{DateFrom: "01/02/2024"}.Validate())
	assert.NoError(t, Filter{DateFrom: "2024-01-02"}.Validate())
}

func TestResetMarker(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, newMockKV())
	st := sampleState(t)

	store.Save(ctx, st, false)
	store.ResetMarker()
	assert.True(t, store.LastSavedAt().IsZero())
	assert.Equal(t, Created, store.Save(ctx, st, false).Status)
}
