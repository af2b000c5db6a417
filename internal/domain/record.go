package domain

import (
	"errors"
	"strings"
	"time"
)

// QuotationData is the full editable state captured by a history record
type QuotationData struct {
	ClientData  ClientData   `json:"clientData"`
	Items       []Item       `json:"items"`
	Attachments []Attachment `json:"attachments"`
	Zones       []string     `json:"zones"`
	CompanyLogo *string      `json:"companyLogo"`
}

// QuotationRecord is a named, timestamped save point
type QuotationRecord struct {
	ID       string        `json:"id"`
	FileName string        `json:"fileName"`
	SavedAt  time.Time     `json:"savedAt"`
	Data     QuotationData `json:"data"`
}

// SavedDate returns the UTC calendar date of the save
func (r *QuotationRecord) SavedDate() string {
	return r.SavedAt.UTC().Format("2006-01-02")
}

// Validate returns an error if the record is invalid
func (r *QuotationRecord) Validate() error {
	if r.ID == "" {
		return errors.New("record ID is required")
	}
	if strings.TrimSpace(r.FileName) == "" {
		return errors.New("record file name is required")
	}
	if r.SavedAt.IsZero() {
		return errors.New("saved time is required")
	}
	return nil
}

// Clone returns a deep copy of the data
func (d QuotationData) Clone() QuotationData {
	out := QuotationData{
		ClientData:  d.ClientData,
		Items:       append([]Item(nil), d.Items...),
		Attachments: append([]Attachment(nil), d.Attachments...),
		Zones:       append([]string(nil), d.Zones...),
	}
	if d.CompanyLogo != nil {
		logo := *d.CompanyLogo
		out.CompanyLogo = &logo
	}
	return out
}
