package services

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

var hundred = decimal.NewFromInt(100)

// CategorySums groups records by category. Every category present in the
// input yields exactly one row, ordered by category name.
func CategorySums(records []models.Record) []models.CategorySales {
	groups := make(map[string]*models.CategorySales)
	for _, r := range records {
		g, ok := groups[r.Category]
		if !ok {
			g = &models.CategorySales{
				Category: r.Category,
				Sales:    decimal.Zero,
				Profit:   decimal.Zero,
			}
			groups[r.Category] = g
		}
		g.Sales = g.Sales.Add(r.Sales)
		g.Profit = g.Profit.Add(r.Profit)
		g.Records++
	}

	result := make([]models.CategorySales, 0, len(groups))
	for _, g := range groups {
		result = append(result, *g)
	}
	slices.SortFunc(result, func(a, b models.CategorySales) int {
		return strings.Compare(a.Category, b.Category)
	})
	return result
}

// MonthlySums buckets sales by calendar month, ascending. Buckets are
// labelled by their last day; a record dated on that day belongs to it.
func MonthlySums(records []models.Record) []models.MonthlySales {
	groups := make(map[time.Time]decimal.Decimal)
	for _, r := range records {
		end := monthEnd(r.OrderDate)
		groups[end] = groups[end].Add(r.Sales)
	}

	result := make([]models.MonthlySales, 0, len(groups))
	for end, sales := range groups {
		result = append(result, models.MonthlySales{
			Period:   end.Format("2006-01"),
			MonthEnd: end,
			Sales:    sales,
		})
	}
	slices.SortFunc(result, func(a, b models.MonthlySales) int {
		return a.MonthEnd.Compare(b.MonthEnd)
	})
	return result
}

func monthEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}

// FilterRecords keeps the records of the selected category whose
// sub-category is selected. No sub-categories selects nothing.
func FilterRecords(records []models.Record, sel models.Selection) []models.Record {
	if len(sel.SubCategories) == 0 {
		return []models.Record{}
	}

	wanted := make(map[string]struct{}, len(sel.SubCategories))
	for _, sc := range sel.SubCategories {
		wanted[sc] = struct{}{}
	}

	result := make([]models.Record, 0)
	for _, r := range records {
		if r.Category != sel.Category {
			continue
		}
		if _, ok := wanted[r.SubCategory]; ok {
			result = append(result, r)
		}
	}
	return result
}

type trendKey struct {
	day         string
	subCategory string
}

// TrendSeries pivots filtered records into (day × sub-category) sales sums
// and melts them back to long form. Only combinations that occur in the
// input are emitted. Rows are ordered by day, then by the order in which
// sub-categories first appear on that day.
func TrendSeries(filtered []models.Record) []models.TrendPoint {
	sums := make(map[trendKey]*models.TrendPoint)
	days := make(map[string]time.Time)
	order := make(map[string][]string)

	for _, r := range filtered {
		day := r.OrderDate.Format(time.DateOnly)
		key := trendKey{day: day, subCategory: r.SubCategory}

		p, ok := sums[key]
		if !ok {
			if _, seen := days[day]; !seen {
				days[day] = time.Date(r.OrderDate.Year(), r.OrderDate.Month(), r.OrderDate.Day(), 0, 0, 0, 0, time.UTC)
			}
			p = &models.TrendPoint{
				OrderDate:   days[day],
				SubCategory: r.SubCategory,
				Sales:       decimal.Zero,
			}
			sums[key] = p
			order[day] = append(order[day], r.SubCategory)
		}
		p.Sales = p.Sales.Add(r.Sales)
	}

	sortedDays := make([]string, 0, len(days))
	for day := range days {
		sortedDays = append(sortedDays, day)
	}
	slices.Sort(sortedDays)

	result := make([]models.TrendPoint, 0, len(sums))
	for _, day := range sortedDays {
		for _, sc := range order[day] {
			result = append(result, *sums[trendKey{day: day, subCategory: sc}])
		}
	}
	return result
}

// MarginPct returns 100 × profit / sales, or an invalid value when sales
// is zero.
func MarginPct(sales, profit decimal.Decimal) decimal.NullDecimal {
	if sales.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(profit.Mul(hundred).Div(sales))
}

// OverallMarginPct is the margin of the whole dataset.
func OverallMarginPct(records []models.Record) decimal.NullDecimal {
	sales, profit := totals(records)
	return MarginPct(sales, profit)
}

// SummaryMetrics summarises the filtered records and compares their margin
// with the margin of the full dataset.
func SummaryMetrics(filtered, all []models.Record) models.Metrics {
	return summarize(filtered, OverallMarginPct(all))
}

func summarize(filtered []models.Record, overall decimal.NullDecimal) models.Metrics {
	sales, profit := totals(filtered)
	margin := MarginPct(sales, profit)

	m := models.Metrics{
		TotalSales:       sales,
		TotalProfit:      profit,
		MarginPct:        margin,
		OverallMarginPct: overall,
	}
	if margin.Valid && overall.Valid {
		m.DeltaPct = decimal.NewNullDecimal(margin.Decimal.Sub(overall.Decimal))
	}
	return m
}

func totals(records []models.Record) (sales, profit decimal.Decimal) {
	sales, profit = decimal.Zero, decimal.Zero
	for _, r := range records {
		sales = sales.Add(r.Sales)
		profit = profit.Add(r.Profit)
	}
	return sales, profit
}

// Categories lists distinct categories in order of first appearance.
func Categories(records []models.Record) []string {
	return distinct(records, func(r models.Record) (string, bool) {
		return r.Category, true
	})
}

// SubCategories lists the distinct sub-categories of one category in order
// of first appearance.
func SubCategories(records []models.Record, category string) []string {
	return distinct(records, func(r models.Record) (string, bool) {
		return r.SubCategory, r.Category == category
	})
}

func distinct(records []models.Record, value func(models.Record) (string, bool)) []string {
	seen := make(map[string]struct{})
	result := make([]string, 0)
	for _, r := range records {
		v, ok := value(r)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

// Render computes every view for one selection from scratch.
func Render(records []models.Record, sel models.Selection) models.Views {
	return render(records, sel, OverallMarginPct(records))
}

func render(records []models.Record, sel models.Selection, overall decimal.NullDecimal) models.Views {
	filtered := FilterRecords(records, sel)
	return models.Views{
		Selection:     sel,
		CategorySales: CategorySums(records),
		MonthlySales:  MonthlySums(records),
		Trend:         TrendSeries(filtered),
		Metrics:       summarize(filtered, overall),
		Filtered:      filtered,
	}
}
