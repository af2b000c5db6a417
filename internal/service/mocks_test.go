package service

import (
	"context"
	"errors"
	"iter"
	"sort"

	"github.com/andy/cotiza/internal/domain"
	"github.com/andy/cotiza/internal/history"
)

// mock implementations
type mockKV struct {
	data   map[string]string
	getErr error
	setErr error
}

func newMockKV() *mockKV {
	return &mockKV{data: map[string]string{}}
}

func (m *mockKV) Get(ctx context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mockKV) Set(ctx context.Context, key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *mockKV) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *mockKV) Keys(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *mockKV) Clear(ctx context.Context) error {
	m.data = map[string]string{}
	return nil
}

var errStorage = errors.New("disk I/O error")

type mockRecords struct {
	records []domain.QuotationRecord
}

func (m *mockRecords) List(f history.Filter) iter.Seq[domain.QuotationRecord] {
	return func(yield func(domain.QuotationRecord) bool) {
		for _, r := range m.records {
			if f.Match(r) && !yield(r) {
				return
			}
		}
	}
}
