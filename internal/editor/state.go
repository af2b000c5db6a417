// Package editor holds the editable quotation as an immutable value.
// Every change goes through a Command that returns a new State.
package editor

import (
	"errors"
	"time"

	"github.com/andy/cotiza/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrItemNotFound       = errors.New("item not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrInvalidCommand     = errors.New("invalid command")
)

// Brand defaults of a fresh document
const (
	DefaultCompanyName     = "INNOVADEKO"
	DefaultSignature       = "OSCAR DAVID PALACIO\nCC 1039450876"
	DefaultPaymentInfo     = "BANCO MCB\nRudolph M A Neuman 331097608"
	DefaultCurrency        = "USD"
	DefaultClientSignature = "FIRMA DEL CLIENTE\n"
	DefaultTitleColor      = "#EA580C"
	DefaultTitleFont       = "Syncopate"
	DefaultLogo            = "https://image2url.com/r2/bucket1/images/1766628777009-c21f4677-8923-4b9d-8c41-006c16f05e6c.png"
)

// State is the complete editable quotation
type State struct {
	Client      domain.ClientData
	Items       []domain.Item
	Zones       []string
	Attachments []domain.Attachment
	CompanyLogo *string
}

// Defaults seeds a new State. Empty fields fall back to the brand defaults.
type Defaults struct {
	CompanyName      string
	CompanySubtitle  string
	PaymentInfoText  string
	ObservationsText string
	SignatureText    string
	Currency         string
	Language         string
	CompanyLogo      *string
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// New builds the initial state of a quotation
func New(d Defaults, now time.Time) State {
	lang := d.Language
	bundle, ok := domain.BundleFor(lang)
	if !ok {
		lang = domain.DefaultLanguage
		bundle, _ = domain.BundleFor(lang)
	}

	logo := d.CompanyLogo
	if logo == nil {
		def := DefaultLogo
		logo = &def
	}

	client := domain.ClientData{
		Date:             domain.Today(now),
		QuotationNo:      domain.QuotationNumber(now),
		QuotationNoLabel: bundle.QuotationNoLabel,
		Language:         lang,
		Currency:         orDefault(d.Currency, DefaultCurrency),
		Terms:            bundle.Terms,
		SignatureText:    orDefault(d.SignatureText, DefaultSignature),

		DiscountType:  domain.DiscountPercentage,
		DiscountValue: decimal.Zero,

		ClientIDType: domain.ClientIDDocument,

		IntroText:       bundle.Intro,
		CompanyName:     orDefault(d.CompanyName, DefaultCompanyName),
		CompanySubtitle: orDefault(d.CompanySubtitle, bundle.Subtitle),
		DocumentTitle:   bundle.Title,

		ShowDocumentTitle:     true,
		DocumentTitleColor:    DefaultTitleColor,
		DocumentTitleAlign:    domain.AlignCenter,
		DocumentTitleFont:     DefaultTitleFont,
		DocumentTitleFontSize: 48,

		CompanyNameFont:         DefaultTitleFont,
		CompanyNameFontSize:     24,
		CompanySubtitleFont:     DefaultTitleFont,
		CompanySubtitleFontSize: 11,

		ShowPaymentInfo:     true,
		PaymentInfoText:     orDefault(d.PaymentInfoText, DefaultPaymentInfo),
		ObservationsText:    d.ObservationsText,
		ShowConditions:      true,
		ShowSellerSignature: true,
		ClientSignatureText: DefaultClientSignature,
		ShowClientInfo:      true,
	}

	return State{
		Client:      client,
		Items:       []domain.Item{},
		Zones:       []string{domain.DefaultZone},
		Attachments: []domain.Attachment{},
		CompanyLogo: logo,
	}
}

// Data converts the state into the record payload
func (s State) Data() domain.QuotationData {
	return domain.QuotationData{
		ClientData:  s.Client,
		Items:       s.Items,
		Attachments: s.Attachments,
		Zones:       s.Zones,
		CompanyLogo: s.CompanyLogo,
	}.Clone()
}

// FromData rebuilds a state from a record payload
func FromData(d domain.QuotationData) State {
	c := d.Clone()
	s := State{
		Client:      c.ClientData,
		Items:       c.Items,
		Zones:       c.Zones,
		Attachments: c.Attachments,
		CompanyLogo: c.CompanyLogo,
	}
	if s.Items == nil {
		s.Items = []domain.Item{}
	}
	if s.Attachments == nil {
		s.Attachments = []domain.Attachment{}
	}
	if len(s.Zones) == 0 {
		s.Zones = []string{domain.DefaultZone}
	}
	return s
}

// Totals computes the money figures of the state
func (s State) Totals() domain.Totals {
	return domain.ComputeTotals(s.Items, s.Client.Discount())
}

// Groups returns the grouped items in display order
func (s State) Groups() []domain.ZoneGroup {
	return domain.GroupItems(s.Items)
}

// FileName derives the base name used by saves and exports
func (s State) FileName() string {
	return domain.FileName(s.Client)
}

// HasDefaultZonesOnly reports whether the zone registry holds nothing but
// the default entry in any language
func (s State) HasDefaultZonesOnly() bool {
	for _, z := range s.Zones {
		key := domain.ParseZone(z)
		if !domain.IsDefaultZone(key.Main) || !domain.IsDefaultZone(key.Sub) {
			return false
		}
	}
	return true
}

// Item looks up an item by ID
func (s State) Item(id string) (domain.Item, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return domain.Item{}, false
}

// Apply runs commands in order. On the first error the original state is
// returned unchanged.
func (s State) Apply(cmds ...Command) (State, error) {
	next := s
	for _, cmd := range cmds {
		var err error
		next, err = cmd.Apply(next)
		if err != nil {
			return s, err
		}
	}
	return next, nil
}

// clone copies every slice so a command never aliases the previous state
func (s State) clone() State {
	return FromData(s.Data())
}
