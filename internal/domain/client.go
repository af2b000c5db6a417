package domain

import (
	"github.com/shopspring/decimal"
)

// Align is a horizontal text alignment for the document title
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// ClientIDType is the kind of identification shown for the client
type ClientIDType string

const (
	ClientIDDocument ClientIDType = "Documento"
	ClientIDCRIB     ClientIDType = "CRIB"
	ClientIDNIT      ClientIDType = "NIT"
	ClientIDPassport ClientIDType = "Pasaporte"
)

// ClientData is the flat document metadata edited alongside the items.
// Only Currency and Language feed any computation; the rest is carried
// through to the preview, history and export untouched.
type ClientData struct {
	Name             string `json:"name"`
	Date             string `json:"date"`
	QuotationNo      string `json:"quotationNo"`
	QuotationNoLabel string `json:"quotationNoLabel"`
	Language         string `json:"language"`
	Currency         string `json:"currency"`
	Terms            string `json:"terms"`
	SignatureText    string `json:"signatureText"`

	DiscountEnabled bool            `json:"discountEnabled"`
	DiscountType    DiscountType    `json:"discountType"`
	DiscountValue   decimal.Decimal `json:"discountValue"`

	ShowClientID  bool         `json:"showClientId"`
	ClientIDType  ClientIDType `json:"clientIdType"`
	ClientIDValue string       `json:"clientIdValue"`

	IntroText       string `json:"introText"`
	CompanyName     string `json:"companyName"`
	CompanySubtitle string `json:"companySubtitle"`
	DocumentTitle   string `json:"documentTitle"`

	ShowDocumentTitle     bool   `json:"showDocumentTitle"`
	DocumentTitleColor    string `json:"documentTitleColor"`
	DocumentTitleAlign    Align  `json:"documentTitleAlign"`
	DocumentTitleFont     string `json:"documentTitleFont"`
	DocumentTitleFontSize int    `json:"documentTitleFontSize"`

	CompanyNameFont         string `json:"companyNameFont"`
	CompanyNameFontSize     int    `json:"companyNameFontSize"`
	CompanySubtitleFont     string `json:"companySubtitleFont"`
	CompanySubtitleFontSize int    `json:"companySubtitleFontSize"`

	ShowPaymentInfo     bool   `json:"showPaymentInfo"`
	PaymentInfoText     string `json:"paymentInfoText"`
	ShowObservations    bool   `json:"showObservations"`
	ObservationsText    string `json:"observationsText"`
	ShowConditions      bool   `json:"showConditions"`
	ShowClientSignature bool   `json:"showClientSignature"`
	ShowSellerSignature bool   `json:"showSellerSignature"`
	ClientSignatureText string `json:"clientSignatureText"`
	ShowClientInfo      bool   `json:"showClientInfo"`
}

// Discount extracts the discount settings
func (c ClientData) Discount() Discount {
	return Discount{
		Enabled: c.DiscountEnabled,
		Type:    c.DiscountType,
		Value:   c.DiscountValue,
	}
}
