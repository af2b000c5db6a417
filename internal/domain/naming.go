package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	// FallbackFilePrefix names documents with neither a title nor a client
	FallbackFilePrefix = "DOC.INNOVA DEKO"

	UnnamedClient = "SIN_NOMBRE"
	letterPrefix  = "CARTA"
)

// FileName derives the base name shared by history records and exports:
//
//	title visible and set -> {title}_{client|SIN_NOMBRE}_{date}
//	client set            -> CARTA_{client}_{date}
//	otherwise             -> DOC.INNOVA DEKO_{date}
func FileName(c ClientData) string {
	title := ""
	if c.ShowDocumentTitle {
		title = strings.TrimSpace(c.DocumentTitle)
	}
	name := strings.TrimSpace(c.Name)

	switch {
	case title != "":
		if name == "" {
			name = UnnamedClient
		}
		return fmt.Sprintf("%s_%s_%s", title, name, c.Date)
	case name != "":
		return fmt.Sprintf("%s_%s_%s", letterPrefix, name, c.Date)
	default:
		return fmt.Sprintf("%s_%s", FallbackFilePrefix, c.Date)
	}
}

// QuotationNumber generates "C-{year}-{day}-{digit}" where digit is 7 plus
// the first digit of the zero-padded hour. The suffix only varies with the
// time of day; it is not a checksum or a sequence.
func QuotationNumber(now time.Time) string {
	hour := fmt.Sprintf("%02d", now.Hour())
	digit := 7 + int(hour[0]-'0')
	return fmt.Sprintf("C-%d-%02d-%d", now.Year(), now.Day(), digit)
}

// Today formats a date the way the document date field stores it
func Today(now time.Time) string {
	return now.Format("2006-01-02")
}
