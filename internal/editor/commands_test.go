package editor

import (
	"testing"
	"time"

	"github.com/andy/cotiza/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.June, 9, 14, 5, 0, 0, time.UTC)

func newState(t *testing.T) State {
	t.Helper()
	return New(Defaults{}, fixedNow)
}

func TestNewDefaults(t *testing.T) {
	s := newState(t)

	assert.Equal(t, []string{domain.DefaultZone}, s.Zones)
	assert.Empty(t, s.Items)
	assert.Equal(t, "2025-06-09", s.Client.Date)
	assert.Equal(t, "C-2025-09-8", s.Client.QuotationNo)
	assert.Equal(t, domain.LangSpanish, s.Client.Language)
	assert.Equal(t, "COTIZACIÓN", s.Client.DocumentTitle)
	assert.Equal(t, DefaultCompanyName, s.Client.CompanyName)
	assert.Equal(t, DefaultCurrency, s.Client.Currency)
	require.NotNil(t, s.CompanyLogo)
	assert.Equal(t, DefaultLogo, *s.CompanyLogo)
	assert.True(t, s.Client.ShowSellerSignature)
	assert.False(t, s.Client.ShowClientSignature)
}

func TestAddItemDoesNotMutatePrevious(t *testing.T) {
	s0 := newState(t)

	s1, err := AddItem{Zone: domain.DefaultZone, Description: "Roller", Quantity: "2", UnitPrice: "99.5"}.Apply(s0)
	require.NoError(t, err)

	assert.Empty(t, s0.Items)
	require.Len(t, s1.Items, 1)
	assert.Equal(t, 2, s1.Items[0].Quantity)

	_, err = AddItem{Zone: domain.DefaultZone, Description: "  "}.Apply(s1)
	assert.ErrorIs(t, err, ErrInvalidCommand)
}

func TestItemEdits(t *testing.T) {
	s, err := newState(t).Apply(
		AddItem{Zone: "PISO 1 > SALA", Description: "Blackout", Quantity: "1", UnitPrice: "100"},
	)
	require.NoError(t, err)
	id := s.Items[0].ID

	s, err = s.Apply(
		SetItemDescription{ID: id, Description: "Screen"},
		SetItemQuantity{ID: id, Quantity: "oops"},
		SetItemUnitPrice{ID: id, UnitPrice: "-3"},
	)
	require.NoError(t, err)

	it, ok := s.Item(id)
	require.True(t, ok)
	assert.Equal(t, "Screen", it.Description)
	assert.Equal(t, 1, it.Quantity)
	assert.True(t, it.UnitPrice.IsZero())

	_, err = SetItemDescription{ID: "missing", Description: "x"}.Apply(s)
	assert.ErrorIs(t, err, ErrItemNotFound)

	s, err = RemoveItem{ID: id}.Apply(s)
	require.NoError(t, err)
	assert.Empty(t, s.Items)
}

func TestApplyStopsAtFirstError(t *testing.T) {
	s0 := newState(t)
	got, err := s0.Apply(
		SetCurrency{Code: "eur"},
		RemoveItem{ID: "nope"},
	)
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.Equal(t, DefaultCurrency, got.Client.Currency)
}

func TestAddZoneIsDistinct(t *testing.T) {
	s, err := newState(t).Apply(
		AddZone{Prefix: "PISO 1", Suffix: "sala"},
		AddZone{Prefix: "PISO 1", Suffix: " SALA "},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.DefaultZone, "PISO 1 > SALA"}, s.Zones)

	_, err = AddZone{Prefix: "PISO 1", Suffix: ""}.Apply(s)
	assert.ErrorIs(t, err, ErrInvalidCommand)
}

func TestSetLanguageRewritesTemplates(t *testing.T) {
	s, err := SetLanguage{Language: domain.LangEnglish}.Apply(newState(t))
	require.NoError(t, err)

	assert.Equal(t, domain.LangEnglish, s.Client.Language)
	assert.Equal(t, "QUOTATION", s.Client.DocumentTitle)
	assert.Equal(t, "Quotation No", s.Client.QuotationNoLabel)
	assert.Equal(t, "Blinds, Shades & Curtains", s.Client.CompanySubtitle)
	assert.Contains(t, s.Client.Terms, "Quotation validity")

	_, err = SetLanguage{Language: "Klingon"}.Apply(s)
	assert.ErrorIs(t, err, ErrInvalidCommand)
}

func TestSetDiscount(t *testing.T) {
	s, err := newState(t).Apply(
		AddItem{Zone: domain.DefaultZone, Description: "A", Quantity: "1", UnitPrice: "200"},
		SetDiscount{Enabled: true, Type: domain.DiscountPercentage, Value: "10"},
	)
	require.NoError(t, err)
	assert.Equal(t, "180", s.Totals().Grand.String())

	s, err = SetDiscount{Enabled: true, Value: "garbage"}.Apply(s)
	require.NoError(t, err)
	assert.Equal(t, domain.DiscountPercentage, s.Client.DiscountType)
	assert.True(t, s.Client.DiscountValue.IsZero())

	_, err = SetDiscount{Enabled: true, Type: "bogus"}.Apply(s)
	assert.ErrorIs(t, err, ErrInvalidCommand)
}

func TestTextAndVisibility(t *testing.T) {
	s, err := newState(t).Apply(
		SetText{Field: FieldObservations, Value: "Entrega en 2 semanas"},
		SetVisibility{Section: SectionObservations, Visible: true},
		SetVisibility{Section: SectionDocumentTitle, Visible: false},
	)
	require.NoError(t, err)
	assert.Equal(t, "Entrega en 2 semanas", s.Client.ObservationsText)
	assert.True(t, s.Visible(SectionObservations))
	assert.False(t, s.Visible(SectionDocumentTitle))

	f, ok := ParseTextField("payment-info")
	require.True(t, ok)
	assert.Equal(t, FieldPaymentInfo, f)

	_, err = SetText{Field: TextField(99)}.Apply(s)
	assert.ErrorIs(t, err, ErrInvalidCommand)
}

func TestSetTitleStyle(t *testing.T) {
	s, err := SetTitleStyle{Color: "#1a2b3c", Align: domain.AlignRight}.Apply(newState(t))
	require.NoError(t, err)
	assert.Equal(t, "#1A2B3C", s.Client.DocumentTitleColor)
	assert.Equal(t, domain.AlignRight, s.Client.DocumentTitleAlign)
	assert.Equal(t, 48, s.Client.DocumentTitleFontSize)

	_, err = SetTitleStyle{Color: "orange"}.Apply(s)
	assert.ErrorIs(t, err, ErrInvalidCommand)
}

func TestAttachmentsAndLogo(t *testing.T) {
	s, err := newState(t).Apply(
		AddAttachment{PreviewURL: "data:image/png;base64,AA==", Title: " Plano ", Description: "sala"},
		SetLogo{Ref: "/tmp/logo.png"},
	)
	require.NoError(t, err)
	require.Len(t, s.Attachments, 1)
	assert.Equal(t, "Plano", s.Attachments[0].Title)
	assert.Equal(t, "/tmp/logo.png", *s.CompanyLogo)

	s, err = s.Apply(RemoveAttachment{ID: s.Attachments[0].ID}, ResetLogo{})
	require.NoError(t, err)
	assert.Empty(t, s.Attachments)
	assert.Equal(t, DefaultLogo, *s.CompanyLogo)
}

func TestNewQuotationKeepsCompanySettings(t *testing.T) {
	s, err := newState(t).Apply(
		SetLanguage{Language: domain.LangDutch},
		SetText{Field: FieldCompanyName, Value: "ACME"},
		SetClientInfo{Name: "Jane", Date: "2024-01-01"},
		AddZone{Prefix: "VERDIEPING 1", Suffix: "keuken"},
		AddItem{Zone: "VERDIEPING 1 > KEUKEN", Description: "A", Quantity: "1", UnitPrice: "1"},
		SetDiscount{Enabled: true, Type: domain.DiscountFixed, Value: "5"},
	)
	require.NoError(t, err)

	later := fixedNow.Add(48 * time.Hour)
	s, err = NewQuotation{Now: later}.Apply(s)
	require.NoError(t, err)

	assert.Empty(t, s.Items)
	assert.Equal(t, []string{domain.DefaultZone}, s.Zones)
	assert.Equal(t, "", s.Client.Name)
	assert.Equal(t, "2025-06-11", s.Client.Date)
	assert.False(t, s.Client.DiscountEnabled)
	assert.Equal(t, "ACME", s.Client.CompanyName)
	assert.Equal(t, domain.LangDutch, s.Client.Language)
	assert.Equal(t, "OFFERTE", s.Client.DocumentTitle)
}

func TestHasDefaultZonesOnly(t *testing.T) {
	s := newState(t)
	assert.True(t, s.HasDefaultZonesOnly())

	s.Zones = []string{"ALGEMEEN > ALGEMEEN"}
	assert.True(t, s.HasDefaultZonesOnly())

	s, err := AddZone{Prefix: "PISO 2", Suffix: "sala"}.Apply(s)
	require.NoError(t, err)
	assert.False(t, s.HasDefaultZonesOnly())
}
