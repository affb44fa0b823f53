package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Selection is the category and sub-categories chosen by one session.
type Selection struct {
	Category      string   `json:"category"`
	SubCategories []string `json:"sub_categories"`
}

type CategorySales struct {
	Category string          `json:"category"`
	Sales    decimal.Decimal `json:"sales"`
	Profit   decimal.Decimal `json:"profit"`
	Records  int             `json:"records"`
}

// MonthlySales is one month bucket. MonthEnd is the last calendar day of
// the bucket; Period is its "YYYY-MM" label.
type MonthlySales struct {
	Period   string          `json:"period"`
	MonthEnd time.Time       `json:"month_end"`
	Sales    decimal.Decimal `json:"sales"`
}

// TrendPoint is one row of the long-form (date, sub-category, sales) table.
type TrendPoint struct {
	OrderDate   time.Time       `json:"order_date"`
	SubCategory string          `json:"sub_category"`
	Sales       decimal.Decimal `json:"sales"`
}

// Metrics holds the scalar summary of a filtered record set. MarginPct and
// DeltaPct are invalid when the filtered sales total is zero.
type Metrics struct {
	TotalSales       decimal.Decimal     `json:"total_sales"`
	TotalProfit      decimal.Decimal     `json:"total_profit"`
	MarginPct        decimal.NullDecimal `json:"margin_pct"`
	OverallMarginPct decimal.NullDecimal `json:"overall_margin_pct"`
	DeltaPct         decimal.NullDecimal `json:"delta_pct"`
}

// HasMargin reports whether the margin can be displayed.
func (m Metrics) HasMargin() bool {
	return m.MarginPct.Valid
}

// Views bundles every derived view for one selection.
type Views struct {
	Selection     Selection       `json:"selection"`
	CategorySales []CategorySales `json:"category_sales"`
	MonthlySales  []MonthlySales  `json:"monthly_sales"`
	Trend         []TrendPoint    `json:"trend"`
	Metrics       Metrics         `json:"metrics"`
	Filtered      []Record        `json:"-"`
}

// Empty reports whether the selection matched no records.
func (v Views) Empty() bool {
	return len(v.Filtered) == 0
}
