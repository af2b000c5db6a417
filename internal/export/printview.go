package export

import (
	"github.com/andy/cotiza/internal/domain"
	"github.com/andy/cotiza/internal/editor"
	"github.com/shopspring/decimal"
)

// DefaultBaseWidth is the width in pixels of the print layout
const DefaultBaseWidth = 794

// PrintView is the non-interactive document a Renderer draws. It carries
// only what is visible; hidden sections are left empty.
type PrintView struct {
	Width  int
	Labels domain.Labels

	LogoRef         string
	CompanyName     string
	CompanySubtitle string

	Title      string
	TitleColor string
	TitleAlign domain.Align

	QuotationNoLabel string
	QuotationNo      string
	Date             string

	ClientName    string
	ClientIDLabel string
	ClientIDValue string
	ShowClient    bool

	Intro  string
	Groups []domain.ZoneGroup

	Currency     string
	Totals       domain.Totals
	ShowDiscount bool

	Conditions      string
	PaymentInfo     string
	Observations    string
	SellerSignature string
	ClientSignature string

	Attachments []domain.Attachment
}

// BuildPrintView derives the print view of a state
func BuildPrintView(s editor.State, width int) PrintView {
	if width <= 0 {
		width = DefaultBaseWidth
	}
	c := s.Client

	v := PrintView{
		Width:            width,
		Labels:           domain.LabelsFor(c.Language),
		CompanyName:      c.CompanyName,
		CompanySubtitle:  c.CompanySubtitle,
		QuotationNoLabel: c.QuotationNoLabel,
		QuotationNo:      c.QuotationNo,
		Date:             c.Date,
		Intro:            c.IntroText,
		Groups:           s.Groups(),
		Currency:         c.Currency,
		Totals:           s.Totals(),
		ShowDiscount:     c.DiscountEnabled,
		Attachments:      append([]domain.Attachment(nil), s.Attachments...),
	}
	if s.CompanyLogo != nil {
		v.LogoRef = *s.CompanyLogo
	}
	if c.ShowDocumentTitle {
		v.Title = c.DocumentTitle
		v.TitleColor = c.DocumentTitleColor
		v.TitleAlign = c.DocumentTitleAlign
	}
	if c.ShowClientInfo {
		v.ShowClient = true
		v.ClientName = c.Name
		if c.ShowClientID {
			v.ClientIDLabel = string(c.ClientIDType)
			v.ClientIDValue = c.ClientIDValue
		}
	}
	if c.ShowConditions {
		v.Conditions = c.Terms
	}
	if c.ShowPaymentInfo {
		v.PaymentInfo = c.PaymentInfoText
	}
	if c.ShowObservations {
		v.Observations = c.ObservationsText
	}
	if c.ShowSellerSignature {
		v.SellerSignature = c.SignatureText
	}
	if c.ShowClientSignature {
		v.ClientSignature = c.ClientSignatureText
	}
	return v
}

// AssetRefs lists the images the view references, logo first
func (v PrintView) AssetRefs() []string {
	var refs []string
	if v.LogoRef != "" {
		refs = append(refs, v.LogoRef)
	}
	for _, a := range v.Attachments {
		if a.PreviewURL != "" {
			refs = append(refs, a.PreviewURL)
		}
	}
	return refs
}

// Money formats an amount in the view's currency
func (v PrintView) Money(amount decimal.Decimal) string {
	return domain.FormatCurrency(amount, v.Currency)
}
