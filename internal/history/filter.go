package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/andy/cotiza/internal/domain"
)

const dateLayout = "2006-01-02"

// Filter selects history records. Empty fields match everything.
// DateFrom and DateTo are inclusive YYYY-MM-DD bounds on the UTC save date.
type Filter struct {
	Text     string
	DateFrom string
	DateTo   string
}

// Validate checks the date bounds
func (f Filter) Validate() error {
	for _, d := range []string{f.DateFrom, f.DateTo} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d); err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", d)
		}
	}
	return nil
}

// Match reports whether a record passes the filter
func (f Filter) Match(r domain.QuotationRecord) bool {
	if f.Text != "" && !strings.Contains(strings.ToLower(r.FileName), strings.ToLower(f.Text)) {
		return false
	}
	day := r.SavedDate()
	if f.DateFrom != "" && day < f.DateFrom {
		return false
	}
	if f.DateTo != "" && day > f.DateTo {
		return false
	}
	return true
}
