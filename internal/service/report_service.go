package service

import (
	"context"
	"fmt"
	"iter"
	"sort"
	"strings"
	"time"

	"github.com/andy/cotiza/internal/domain"
	"github.com/andy/cotiza/internal/history"
	"github.com/shopspring/decimal"
)

// Amounts are grand totals keyed by currency code. Currencies are never
// converted, so each code sums on its own.
type Amounts map[string]decimal.Decimal

func (a Amounts) add(currency string, v decimal.Decimal) {
	a[currency] = a[currency].Add(v)
}

// Currencies returns the codes in alphabetical order
func (a Amounts) Currencies() []string {
	out := make([]string, 0, len(a))
	for c := range a {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// MonthSummary aggregates the quotations saved in one month
type MonthSummary struct {
	Count  int
	Totals Amounts
}

// ClientSummary aggregates the saved quotations of one client
type ClientSummary struct {
	Name      string
	Count     int
	Totals    Amounts
	LastSaved time.Time
}

// DailySummary lists the quotations saved on a day
type DailySummary struct {
	Date    time.Time
	Count   int
	Totals  Amounts
	Records []domain.QuotationRecord
}

// RecordSource is the read side of the history store
type RecordSource interface {
	List(f history.Filter) iter.Seq[domain.QuotationRecord]
}

// ReportService aggregates the quotation history
type ReportService interface {
	GetMonthSummary(ctx context.Context, year int) (map[time.Month]MonthSummary, error)
	GetClientSummaries(ctx context.Context) ([]ClientSummary, error)
	GetDailySummary(ctx context.Context, date time.Time) (*DailySummary, error)
}

type reportService struct {
	records RecordSource
}

// NewReportService creates a new report service
func NewReportService(records RecordSource) ReportService {
	return &reportService{records: records}
}

func grandTotal(r domain.QuotationRecord) (string, decimal.Decimal) {
	t := domain.ComputeTotals(r.Data.Items, r.Data.ClientData.Discount())
	return r.Data.ClientData.Currency, t.Grand
}

func (s *reportService) GetMonthSummary(ctx context.Context, year int) (map[time.Month]MonthSummary, error) {
	f := history.Filter{
		DateFrom: fmt.Sprintf("%04d-01-01", year),
		DateTo:   fmt.Sprintf("%04d-12-31", year),
	}

	out := make(map[time.Month]MonthSummary)
	// Initialize all months to zero
	for m := time.January; m <= time.December; m++ {
		out[m] = MonthSummary{Totals: Amounts{}}
	}

	for r := range s.records.List(f) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m := r.SavedAt.UTC().Month()
		sum := out[m]
		sum.Count++
		sum.Totals.add(grandTotal(r))
		out[m] = sum
	}
	return out, nil
}

func (s *reportService) GetClientSummaries(ctx context.Context) ([]ClientSummary, error) {
	byName := make(map[string]*ClientSummary)
	var order []string

	for r := range s.records.List(history.Filter{}) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := strings.TrimSpace(r.Data.ClientData.Name)
		if name == "" {
			name = domain.UnnamedClient
		}
		key := strings.ToUpper(name)
		sum, ok := byName[key]
		if !ok {
			sum = &ClientSummary{Name: name, Totals: Amounts{}}
			byName[key] = sum
			order = append(order, key)
		}
		sum.Count++
		sum.Totals.add(grandTotal(r))
		if r.SavedAt.After(sum.LastSaved) {
			sum.LastSaved = r.SavedAt
		}
	}

	// records arrive newest first, so order is by most recent activity
	out := make([]ClientSummary, 0, len(order))
	for _, k := range order {
		out = append(out, *byName[k])
	}
	return out, nil
}

func (s *reportService) GetDailySummary(ctx context.Context, date time.Time) (*DailySummary, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	key := day.Format("2006-01-02")
	summary := &DailySummary{Date: day, Totals: Amounts{}}

	for r := range s.records.List(history.Filter{DateFrom: key, DateTo: key}) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		summary.Count++
		summary.Totals.add(grandTotal(r))
		summary.Records = append(summary.Records, r)
	}
	return summary, nil
}
