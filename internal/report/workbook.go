package report

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"sales-dashboard/internal/models"
)

const (
	SheetSummary       = "Summary"
	SheetCategorySales = "Category Sales"
	SheetMonthlySales  = "Monthly Sales"
	SheetTrend         = "Trend"
	SheetRecords       = "Records"
)

// numFmt 4 is the built-in "#,##0.00".
const numFmt = 4

func float(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func optionalFloat(d decimal.NullDecimal) any {
	if !d.Valid {
		return ""
	}
	return float(d.Decimal)
}

type sheetWriter struct {
	f        *excelize.File
	name     string
	row      int
	numStyle int
	err      error
}

func (s *sheetWriter) append(values ...any) {
	if s.err != nil {
		return
	}
	s.row++
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.f.SetSheetRow(s.name, cell, &values)
}

func (s *sheetWriter) amountColumns(cols ...int) {
	if s.err != nil || s.row < 2 {
		return
	}
	for _, col := range cols {
		from, _ := excelize.CoordinatesToCellName(col, 2)
		to, _ := excelize.CoordinatesToCellName(col, s.row)
		if err := s.f.SetCellStyle(s.name, from, to, s.numStyle); err != nil {
			s.err = err
			return
		}
	}
}

// WriteWorkbook writes an XLSX workbook of v to w: one sheet per view plus
// the filtered records.
func WriteWorkbook(w io.Writer, v models.Views) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DFE6E9"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	numStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmt})
	if err != nil {
		return fmt.Errorf("create number style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetCategorySales, SheetMonthlySales, SheetTrend, SheetRecords} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	sheet := func(name string, headers ...any) *sheetWriter {
		s := &sheetWriter{f: f, name: name, numStyle: numStyle}
		s.append(headers...)
		if s.err == nil {
			last, _ := excelize.CoordinatesToCellName(len(headers), 1)
			s.err = f.SetCellStyle(name, "A1", last, headerStyle)
		}
		return s
	}

	summary := sheet(SheetSummary, "Field", "Value")
	summary.append("Category", v.Selection.Category)
	for _, sc := range v.Selection.SubCategories {
		summary.append("Sub-Category", sc)
	}
	summary.append("Total Sales", float(v.Metrics.TotalSales))
	summary.append("Total Profit", float(v.Metrics.TotalProfit))
	summary.append("Profit Margin %", optionalFloat(v.Metrics.MarginPct))
	summary.append("Overall Margin %", optionalFloat(v.Metrics.OverallMarginPct))
	summary.append("Delta (pts)", optionalFloat(v.Metrics.DeltaPct))

	cats := sheet(SheetCategorySales, "Category", "Sales", "Profit", "Orders")
	for _, c := range v.CategorySales {
		cats.append(c.Category, float(c.Sales), float(c.Profit), c.Records)
	}
	cats.amountColumns(2, 3)

	months := sheet(SheetMonthlySales, "Month", "Month End", "Sales")
	for _, m := range v.MonthlySales {
		months.append(m.Period, m.MonthEnd.Format("2006-01-02"), float(m.Sales))
	}
	months.amountColumns(3)

	trend := sheet(SheetTrend, "Order Date", "Sub-Category", "Sales")
	for _, p := range v.Trend {
		trend.append(p.OrderDate.Format("2006-01-02"), p.SubCategory, float(p.Sales))
	}
	trend.amountColumns(3)

	records := sheet(SheetRecords, "Order Date", "Category", "Sub-Category", "Sales", "Profit")
	for _, r := range v.Filtered {
		records.append(r.OrderDate.Format("2006-01-02"), r.Category, r.SubCategory, float(r.Sales), float(r.Profit))
	}
	records.amountColumns(4, 5)

	for _, s := range []*sheetWriter{summary, cats, months, trend, records} {
		if s.err != nil {
			return fmt.Errorf("write sheet %s: %w", s.name, s.err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
