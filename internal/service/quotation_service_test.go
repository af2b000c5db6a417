package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/andy/cotiza/internal/domain"
	"github.com/andy/cotiza/internal/editor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.March, 4, 10, 30, 0, 0, time.UTC)

func fakeEncoder(path string) (string, error) {
	if strings.HasSuffix(path, "missing.png") {
		return "", os.ErrNotExist
	}
	return "data:image/png;base64," + filepath.Base(path), nil
}

func newTestQuotationService(kv *mockKV) QuotationService {
	return NewQuotationService(NewPreferencesService(kv, nil), editor.Defaults{Currency: "EUR"}, fakeEncoder, func() time.Time { return fixedNow })
}

const quoteYAML = `
client:
  name: Maria
  date: 2025-03-01
  language: Inglés
  currency: ang
  id_type: CRIB
  id_value: "123"
discount:
  type: percentage
  value: 10
zones:
  - Floor 1 > Kitchen
items:
  - zone: floor 1 > kitchen
    description: Roller blind
    quantity: 2
    unit_price: 150.50
  - description: Installation
    unit_price: 40
attachments:
  - file: photos/kitchen.png
    title: Kitchen
observations: Delivery in two weeks
`

func TestImportBuildsState(t *testing.T) {
	kv := newMockKV()
	kv.data[KeyCompanyName] = "Deko"
	svc := newTestQuotationService(kv)

	st, err := svc.Import(context.Background(), strings.NewReader(quoteYAML), "/quotes")
	require.NoError(t, err)

	assert.Equal(t, "Maria", st.Client.Name)
	assert.Equal(t, "2025-03-01", st.Client.Date)
	assert.Equal(t, domain.LangEnglish, st.Client.Language)
	assert.Equal(t, "QUOTATION", st.Client.DocumentTitle)
	assert.Equal(t, "ANG", st.Client.Currency)
	assert.Equal(t, "Deko", st.Client.CompanyName)
	assert.True(t, st.Client.ShowClientID)
	assert.True(t, st.Client.ShowObservations)

	assert.Equal(t, []string{domain.DefaultZone, "FLOOR 1 > KITCHEN"}, st.Zones)
	require.Len(t, st.Items, 2)
	assert.Equal(t, "FLOOR 1 > KITCHEN", st.Items[0].Zone)
	assert.Equal(t, 2, st.Items[0].Quantity)
	assert.Equal(t, domain.DefaultZone, st.Items[1].Zone)
	assert.Equal(t, 1, st.Items[1].Quantity)

	// (2*150.50 + 40) = 341, minus 10%
	assert.Equal(t, "306.9", st.Totals().Grand.String())

	require.Len(t, st.Attachments, 1)
	assert.Equal(t, "data:image/png;base64,kitchen.png", st.Attachments[0].PreviewURL)
	assert.Equal(t, "photos/kitchen.png", st.Attachments[0].SourcePath)
}

func TestImportRejectsBadFiles(t *testing.T) {
	svc := newTestQuotationService(newMockKV())

	tests := []struct {
		name string
		yaml string
	}{
		{"syntax", "client: [oops"},
		{"item without description", "items:\n  - unit_price: 3\n"},
		{"bad date", "client:\n  date: 03/01/2025\n"},
		{"unknown language", "client:\n  language: Klingon\n"},
		{"missing attachment", "attachments:\n  - file: missing.png\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Import(context.Background(), strings.NewReader(tt.yaml), ".")
			assert.Error(t, err)
		})
	}
}

func TestImportKeepsRemoteRefs(t *testing.T) {
	svc := newTestQuotationService(newMockKV())
	st, err := svc.Import(context.Background(), strings.NewReader("logo: https://example.com/logo.png\n"), ".")
	require.NoError(t, err)
	require.NotNil(t, st.CompanyLogo)
	assert.Equal(t, "https://example.com/logo.png", *st.CompanyLogo)
}

func TestImportFile(t *testing.T) {
	svc := newTestQuotationService(newMockKV())

	_, err := svc.ImportFile(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	path := filepath.Join(t.TempDir(), "q.yaml")
	require.NoError(t, os.WriteFile(path, []byte("client:\n  name: Ana\n"), 0644))
	st, err := svc.ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Ana", st.Client.Name)
	assert.Equal(t, "C-2025-04-8", st.Client.QuotationNo)
}

func TestNewUsesPreferences(t *testing.T) {
	kv := newMockKV()
	kv.data[KeyPaymentInfoText] = "IBAN NL00"
	st := newTestQuotationService(kv).New(context.Background())
	assert.Equal(t, "IBAN NL00", st.Client.PaymentInfoText)
	assert.Equal(t, "EUR", st.Client.Currency)
	assert.Equal(t, "2025-03-04", st.Client.Date)
}

func TestResolveImage(t *testing.T) {
	svc := newTestQuotationService(newMockKV())

	ref, err := svc.ResolveImage("https://example.com/logo.png")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/logo.png", ref)

	ref, err = svc.ResolveImage(" logo.png ")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,logo.png", ref)

	_, err = svc.ResolveImage("missing.png")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = svc.ResolveImage("  ")
	assert.Error(t, err)
}
