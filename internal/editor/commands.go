package editor

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/andy/cotiza/internal/domain"
	"github.com/shopspring/decimal"
)

// Command is one validated edit of the quotation
type Command interface {
	Apply(State) (State, error)
}

// AddItem appends an item. Quantity and price are raw user input.
type AddItem struct {
	Zone        string
	Description string
	Quantity    string
	UnitPrice   string
}

func (c AddItem) Apply(s State) (State, error) {
	if strings.TrimSpace(c.Zone) == "" {
		return s, fmt.Errorf("%w: item zone is required", ErrInvalidCommand)
	}
	it := domain.NewItem(c.Zone, c.Description, c.Quantity, c.UnitPrice)
	if err := it.Validate(); err != nil {
		return s, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}
	next := s.clone()
	next.Items = append(next.Items, it)
	return next, nil
}

// RemoveItem deletes an item by ID
type RemoveItem struct {
	ID string
}

func (c RemoveItem) Apply(s State) (State, error) {
	next := s.clone()
	idx := slices.IndexFunc(next.Items, func(it domain.Item) bool { return it.ID == c.ID })
	if idx < 0 {
		return s, fmt.Errorf("%w: %s", ErrItemNotFound, c.ID)
	}
	next.Items = slices.Delete(next.Items, idx, idx+1)
	return next, nil
}

func updateItem(s State, id string, fn func(*domain.Item)) (State, error) {
	next := s.clone()
	for i := range next.Items {
		if next.Items[i].ID == id {
			fn(&next.Items[i])
			return next, nil
		}
	}
	return s, fmt.Errorf("%w: %s", ErrItemNotFound, id)
}

// SetItemDescription edits an item's text in place
type SetItemDescription struct {
	ID          string
	Description string
}

func (c SetItemDescription) Apply(s State) (State, error) {
	return updateItem(s, c.ID, func(it *domain.Item) { it.Description = c.Description })
}

// SetItemQuantity edits an item's quantity from raw input
type SetItemQuantity struct {
	ID       string
	Quantity string
}

func (c SetItemQuantity) Apply(s State) (State, error) {
	return updateItem(s, c.ID, func(it *domain.Item) { it.Quantity = domain.ParseQuantity(c.Quantity) })
}

// SetItemUnitPrice edits an item's price from raw input
type SetItemUnitPrice struct {
	ID        string
	UnitPrice string
}

func (c SetItemUnitPrice) Apply(s State) (State, error) {
	return updateItem(s, c.ID, func(it *domain.Item) { it.UnitPrice = domain.ParseAmount(c.UnitPrice) })
}

// AddZone registers "PREFIX > SUFFIX". Registering an existing zone is a no-op.
type AddZone struct {
	Prefix string
	Suffix string
}

func (c AddZone) Apply(s State) (State, error) {
	zone := domain.JoinZone(c.Prefix, c.Suffix)
	if zone == "" {
		return s, fmt.Errorf("%w: zone name is required", ErrInvalidCommand)
	}
	if slices.Contains(s.Zones, zone) {
		return s, nil
	}
	next := s.clone()
	next.Zones = append(next.Zones, zone)
	return next, nil
}

// SetClientInfo edits the client block of the document
type SetClientInfo struct {
	Name          string
	Date          string
	ClientIDType  domain.ClientIDType
	ClientIDValue string
}

func (c SetClientInfo) Apply(s State) (State, error) {
	if c.Date != "" {
		if _, err := time.Parse("2006-01-02", c.Date); err != nil {
			return s, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidCommand)
		}
	}
	next := s.clone()
	next.Client.Name = c.Name
	if c.Date != "" {
		next.Client.Date = c.Date
	}
	if c.ClientIDType != "" {
		next.Client.ClientIDType = c.ClientIDType
	}
	next.Client.ClientIDValue = c.ClientIDValue
	return next, nil
}

// SetQuotationNumber overrides the number and its label. Empty Label keeps the current one.
type SetQuotationNumber struct {
	Number string
	Label  string
}

func (c SetQuotationNumber) Apply(s State) (State, error) {
	next := s.clone()
	next.Client.QuotationNo = c.Number
	if c.Label != "" {
		next.Client.QuotationNoLabel = c.Label
	}
	return next, nil
}

// SetDiscount configures the document discount. Value is raw input.
type SetDiscount struct {
	Enabled bool
	Type    domain.DiscountType
	Value   string
}

func (c SetDiscount) Apply(s State) (State, error) {
	switch c.Type {
	case domain.DiscountPercentage, domain.DiscountFixed:
	case "":
		c.Type = s.Client.DiscountType
	default:
		return s, fmt.Errorf("%w: unknown discount type %q", ErrInvalidCommand, c.Type)
	}
	next := s.clone()
	next.Client.DiscountEnabled = c.Enabled
	next.Client.DiscountType = c.Type
	next.Client.DiscountValue = domain.ParseAmount(c.Value)
	return next, nil
}

// SetCurrency changes the currency code suffix
type SetCurrency struct {
	Code string
}

func (c SetCurrency) Apply(s State) (State, error) {
	code := strings.ToUpper(strings.TrimSpace(c.Code))
	if code == "" {
		return s, fmt.Errorf("%w: currency code is required", ErrInvalidCommand)
	}
	next := s.clone()
	next.Client.Currency = code
	return next, nil
}

// SetLanguage switches the document language and rewrites the template
// texts (intro, subtitle, title, quotation label and terms)
type SetLanguage struct {
	Language string
}

func (c SetLanguage) Apply(s State) (State, error) {
	bundle, ok := domain.BundleFor(c.Language)
	if !ok {
		return s, fmt.Errorf("%w: unknown language %q", ErrInvalidCommand, c.Language)
	}
	next := s.clone()
	next.Client.Language = c.Language
	next.Client.IntroText = bundle.Intro
	next.Client.CompanySubtitle = bundle.Subtitle
	next.Client.DocumentTitle = bundle.Title
	next.Client.QuotationNoLabel = bundle.QuotationNoLabel
	next.Client.Terms = bundle.Terms
	return next, nil
}

// TextField names a free-text field of the document
type TextField int

const (
	FieldTerms TextField = iota
	FieldIntro
	FieldCompanyName
	FieldCompanySubtitle
	FieldPaymentInfo
	FieldObservations
	FieldDocumentTitle
	FieldSignature
	FieldClientSignature
)

var textFieldNames = map[TextField]string{
	FieldTerms:           "terms",
	FieldIntro:           "intro",
	FieldCompanyName:     "company-name",
	FieldCompanySubtitle: "company-subtitle",
	FieldPaymentInfo:     "payment-info",
	FieldObservations:    "observations",
	FieldDocumentTitle:   "title",
	FieldSignature:       "signature",
	FieldClientSignature: "client-signature",
}

func (f TextField) String() string {
	if n, ok := textFieldNames[f]; ok {
		return n
	}
	return fmt.Sprintf("TextField(%d)", int(f))
}

// ParseTextField resolves a field from its name
func ParseTextField(name string) (TextField, bool) {
	for f, n := range textFieldNames {
		if n == name {
			return f, true
		}
	}
	return 0, false
}

// SetText replaces one free-text field
type SetText struct {
	Field TextField
	Value string
}

func (c SetText) Apply(s State) (State, error) {
	next := s.clone()
	cl := &next.Client
	switch c.Field {
	case FieldTerms:
		cl.Terms = c.Value
	case FieldIntro:
		cl.IntroText = c.Value
	case FieldCompanyName:
		cl.CompanyName = c.Value
	case FieldCompanySubtitle:
		cl.CompanySubtitle = c.Value
	case FieldPaymentInfo:
		cl.PaymentInfoText = c.Value
	case FieldObservations:
		cl.ObservationsText = c.Value
	case FieldDocumentTitle:
		cl.DocumentTitle = c.Value
	case FieldSignature:
		cl.SignatureText = c.Value
	case FieldClientSignature:
		cl.ClientSignatureText = c.Value
	default:
		return s, fmt.Errorf("%w: unknown text field %d", ErrInvalidCommand, int(c.Field))
	}
	return next, nil
}

// Section names a block of the document that can be shown or hidden
type Section int

const (
	SectionDocumentTitle Section = iota
	SectionClientInfo
	SectionClientID
	SectionPaymentInfo
	SectionObservations
	SectionConditions
	SectionClientSignature
	SectionSellerSignature
)

var sectionNames = map[Section]string{
	SectionDocumentTitle:   "title",
	SectionClientInfo:      "client",
	SectionClientID:        "client-id",
	SectionPaymentInfo:     "payment",
	SectionObservations:    "observations",
	SectionConditions:      "conditions",
	SectionClientSignature: "client-signature",
	SectionSellerSignature: "seller-signature",
}

// Sections lists every section in display order
var Sections = []Section{
	SectionDocumentTitle,
	SectionClientInfo,
	SectionClientID,
	SectionPaymentInfo,
	SectionObservations,
	SectionConditions,
	SectionClientSignature,
	SectionSellerSignature,
}

func (sec Section) String() string {
	if n, ok := sectionNames[sec]; ok {
		return n
	}
	return fmt.Sprintf("Section(%d)", int(sec))
}

// Visible reports the current visibility of a section
func (s State) Visible(sec Section) bool {
	c := s.Client
	switch sec {
	case SectionDocumentTitle:
		return c.ShowDocumentTitle
	case SectionClientInfo:
		return c.ShowClientInfo
	case SectionClientID:
		return c.ShowClientID
	case SectionPaymentInfo:
		return c.ShowPaymentInfo
	case SectionObservations:
		return c.ShowObservations
	case SectionConditions:
		return c.ShowConditions
	case SectionClientSignature:
		return c.ShowClientSignature
	case SectionSellerSignature:
		return c.ShowSellerSignature
	}
	return false
}

// SetVisibility shows or hides a section
type SetVisibility struct {
	Section Section
	Visible bool
}

func (c SetVisibility) Apply(s State) (State, error) {
	next := s.clone()
	cl := &next.Client
	switch c.Section {
	case SectionDocumentTitle:
		cl.ShowDocumentTitle = c.Visible
	case SectionClientInfo:
		cl.ShowClientInfo = c.Visible
	case SectionClientID:
		cl.ShowClientID = c.Visible
	case SectionPaymentInfo:
		cl.ShowPaymentInfo = c.Visible
	case SectionObservations:
		cl.ShowObservations = c.Visible
	case SectionConditions:
		cl.ShowConditions = c.Visible
	case SectionClientSignature:
		cl.ShowClientSignature = c.Visible
	case SectionSellerSignature:
		cl.ShowSellerSignature = c.Visible
	default:
		return s, fmt.Errorf("%w: unknown section %d", ErrInvalidCommand, int(c.Section))
	}
	return next, nil
}

// SetTitleStyle changes how the document title is drawn. Zero values keep
// the current setting.
type SetTitleStyle struct {
	Color    string
	Align    domain.Align
	Font     string
	FontSize int
}

func (c SetTitleStyle) Apply(s State) (State, error) {
	if c.Color != "" && !isHexColor(c.Color) {
		return s, fmt.Errorf("%w: color must be #RRGGBB", ErrInvalidCommand)
	}
	switch c.Align {
	case "", domain.AlignLeft, domain.AlignCenter, domain.AlignRight:
	default:
		return s, fmt.Errorf("%w: unknown alignment %q", ErrInvalidCommand, c.Align)
	}
	if c.FontSize < 0 {
		return s, fmt.Errorf("%w: font size cannot be negative", ErrInvalidCommand)
	}

	next := s.clone()
	cl := &next.Client
	if c.Color != "" {
		cl.DocumentTitleColor = strings.ToUpper(c.Color)
	}
	if c.Align != "" {
		cl.DocumentTitleAlign = c.Align
	}
	if c.Font != "" {
		cl.DocumentTitleFont = c.Font
	}
	if c.FontSize > 0 {
		cl.DocumentTitleFontSize = c.FontSize
	}
	return next, nil
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

// AddAttachment appends an image to the document annex
type AddAttachment struct {
	SourcePath  string
	PreviewURL  string
	Title       string
	Description string
}

func (c AddAttachment) Apply(s State) (State, error) {
	if c.PreviewURL == "" {
		return s, fmt.Errorf("%w: attachment image is required", ErrInvalidCommand)
	}
	next := s.clone()
	next.Attachments = append(next.Attachments,
		domain.NewAttachment(c.SourcePath, c.PreviewURL, c.Title, c.Description))
	return next, nil
}

// RemoveAttachment deletes an attachment by ID
type RemoveAttachment struct {
	ID string
}

func (c RemoveAttachment) Apply(s State) (State, error) {
	next := s.clone()
	idx := slices.IndexFunc(next.Attachments, func(a domain.Attachment) bool { return a.ID == c.ID })
	if idx < 0 {
		return s, fmt.Errorf("%w: %s", ErrAttachmentNotFound, c.ID)
	}
	next.Attachments = slices.Delete(next.Attachments, idx, idx+1)
	return next, nil
}

// SetLogo replaces the company logo with an image reference
type SetLogo struct {
	Ref string
}

func (c SetLogo) Apply(s State) (State, error) {
	if c.Ref == "" {
		return s, fmt.Errorf("%w: logo reference is required", ErrInvalidCommand)
	}
	next := s.clone()
	ref := c.Ref
	next.CompanyLogo = &ref
	return next, nil
}

// ResetLogo restores the predefined logo
type ResetLogo struct{}

func (ResetLogo) Apply(s State) (State, error) {
	return SetLogo{Ref: DefaultLogo}.Apply(s)
}

// NewQuotation clears the document for a new client while keeping the
// company settings, language and styling
type NewQuotation struct {
	Now time.Time
}

func (c NewQuotation) Apply(s State) (State, error) {
	now := c.Now
	if now.IsZero() {
		now = time.Now()
	}
	next := s.clone()
	next.Items = []domain.Item{}
	next.Attachments = []domain.Attachment{}
	next.Zones = []string{domain.DefaultZone}

	cl := &next.Client
	cl.Name = ""
	cl.Date = domain.Today(now)
	cl.QuotationNo = domain.QuotationNumber(now)
	cl.DiscountEnabled = false
	cl.DiscountValue = decimal.Zero
	cl.ShowClientID = false
	cl.ClientIDValue = ""
	cl.ObservationsText = ""
	cl.ShowObservations = false
	cl.ShowSellerSignature = true
	cl.ShowClientSignature = false
	cl.DocumentTitleColor = DefaultTitleColor
	if bundle, ok := domain.BundleFor(cl.Language); ok {
		cl.IntroText = bundle.Intro
		cl.Terms = bundle.Terms
	}
	return next, nil
}
