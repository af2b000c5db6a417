package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a priced line of a quotation
type Item struct {
	ID          string          `json:"id"`
	Zone        string          `json:"zone"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// NewItem creates an item with a fresh ID. Quantity and price are
// coerced from raw user input (see ParseQuantity and ParseAmount).
func NewItem(zone, description, rawQty, rawPrice string) Item {
	return Item{
		ID:          uuid.NewString(),
		Zone:        zone,
		Description: description,
		Quantity:    ParseQuantity(rawQty),
		UnitPrice:   ParseAmount(rawPrice),
	}
}

// LineTotal returns quantity * unit price
func (i Item) LineTotal() decimal.Decimal {
	return LineTotal(i)
}

// Validate returns an error if the item is invalid
func (i Item) Validate() error {
	if i.ID == "" {
		return errors.New("item ID is required")
	}
	if strings.TrimSpace(i.Description) == "" {
		return errors.New("item description is required")
	}
	if i.Quantity < 0 {
		return errors.New("quantity cannot be negative")
	}
	if i.UnitPrice.IsNegative() {
		return errors.New("unit price cannot be negative")
	}
	return nil
}

// Attachment is an image appended after the quotation body.
// SourcePath is the raw file the image came from and never takes part in
// snapshot comparison.
type Attachment struct {
	ID          string `json:"id"`
	SourcePath  string `json:"file,omitempty"`
	PreviewURL  string `json:"previewUrl"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description"`
}

// NewAttachment creates an attachment with a fresh ID
func NewAttachment(sourcePath, previewURL, title, description string) Attachment {
	return Attachment{
		ID:          uuid.NewString(),
		SourcePath:  sourcePath,
		PreviewURL:  previewURL,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
	}
}
