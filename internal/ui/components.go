// Package ui holds the templ components for the dashboard page and for the
// fragments patched over server-sent events. Every fragment carries a stable
// element id so datastar can morph it in place.
package ui

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

// MaxTableRows caps the rows rendered into the records table.
const MaxTableRows = 50

const (
	MetricsID         = "metrics"
	TrendID           = "trend"
	RecordsID         = "records"
	CategorySalesID   = "category-sales"
	MonthlySalesID    = "monthly-sales"
	SubCategoryListID = "sub-category-select"
)

// Render writes c to a string, the form datastar's PatchElements takes.
func Render(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Money formats an amount as dollars with two decimals and thousands
// separators.
func Money(d decimal.Decimal) string {
	d = d.Round(2)
	intPart, frac, _ := strings.Cut(d.Abs().StringFixed(2), ".")

	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String() + "." + frac
}

// Percent formats a margin; an undefined margin renders as "n/a".
func Percent(p decimal.NullDecimal) string {
	if !p.Valid {
		return "n/a"
	}
	return p.Decimal.StringFixed(2) + "%"
}

// Delta formats a margin difference in percentage points with its sign.
func Delta(p decimal.NullDecimal) string {
	if !p.Valid {
		return ""
	}
	d := p.Decimal.Round(2)
	if d.IsNegative() {
		return d.StringFixed(2) + " pts"
	}
	return "+" + d.StringFixed(2) + " pts"
}

func deltaClass(p decimal.NullDecimal) string {
	if p.Decimal.Round(2).IsNegative() {
		return "delta-down"
	}
	return "delta-up"
}

func date(t time.Time) string {
	return t.Format("2006-01-02")
}

// option is one entry of a select; Selected marks the chosen values.
type option struct {
	Value    string
	Selected bool
}

func options(values, selected []string) []option {
	opts := make([]option, 0, len(values))
	for _, v := range values {
		opts = append(opts, option{Value: v, Selected: slices.Contains(selected, v)})
	}
	return opts
}

type recordRows struct {
	Rows  []models.Record
	Total int
}

func capRecords(records []models.Record) recordRows {
	rows := records
	if len(rows) > MaxTableRows {
		rows = rows[:MaxTableRows]
	}
	return recordRows{Rows: rows, Total: len(records)}
}

// MetricsCards shows total sales, total profit and the margin. The margin
// card is left out entirely when the selection has zero sales.
func MetricsCards(m models.Metrics) templ.Component {
	return templ.FromGoHTML(views.Lookup("metrics"), m)
}

func TrendTable(points []models.TrendPoint) templ.Component {
	return templ.FromGoHTML(views.Lookup("trend"), points)
}

func RecordsTable(records []models.Record) templ.Component {
	return templ.FromGoHTML(views.Lookup("records"), capRecords(records))
}

func CategorySalesTable(rows []models.CategorySales) templ.Component {
	return templ.FromGoHTML(views.Lookup("categorySales"), rows)
}

func MonthlySalesTable(rows []models.MonthlySales) templ.Component {
	return templ.FromGoHTML(views.Lookup("monthlySales"), rows)
}

// SubCategorySelect is the multi-select bound to the subCategories signal.
// Changing it re-runs the views.
func SubCategorySelect(values, selected []string) templ.Component {
	return templ.FromGoHTML(views.Lookup("subCategorySelect"), options(values, selected))
}
