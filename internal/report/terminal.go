package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"sales-dashboard/internal/models"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

// WriteTerminal prints the views as styled tables.
func WriteTerminal(w io.Writer, v models.Views) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Sales by Category"))
	b.WriteString("\n")
	cats := newTable("Category", "Sales", "Profit", "Orders")
	for _, c := range v.CategorySales {
		cats.Row(c.Category, amount(c.Sales), amount(c.Profit), strconv.Itoa(c.Records))
	}
	b.WriteString(cats.Render())
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("Sales by Month"))
	b.WriteString("\n")
	months := newTable("Month", "Sales")
	for _, m := range v.MonthlySales {
		months.Row(m.Period, amount(m.Sales))
	}
	b.WriteString(months.Render())
	b.WriteString("\n\n")

	subs := strings.Join(v.Selection.SubCategories, ", ")
	if subs == "" {
		subs = mutedStyle.Render("(none)")
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("Selection: %s", v.Selection.Category)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Sub-categories: %s\n", subs)

	metrics := newTable("Metric", "Value")
	metrics.Row("Total Sales", amount(v.Metrics.TotalSales))
	metrics.Row("Total Profit", amount(v.Metrics.TotalProfit))
	if v.Metrics.HasMargin() {
		metrics.Row("Profit Margin %", optional(v.Metrics.MarginPct))
		metrics.Row("Overall Margin %", optional(v.Metrics.OverallMarginPct))
		metrics.Row("Delta (pts)", optional(v.Metrics.DeltaPct))
	}
	b.WriteString(metrics.Render())
	b.WriteString("\n")

	if len(v.Trend) > 0 {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Daily Sales"))
		b.WriteString("\n")
		trend := newTable("Order Date", "Sub-Category", "Sales")
		for _, p := range v.Trend {
			trend.Row(p.OrderDate.Format("2006-01-02"), p.SubCategory, amount(p.Sales))
		}
		b.WriteString(trend.Render())
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
