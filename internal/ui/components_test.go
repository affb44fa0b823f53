package ui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/models"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	html, err := Render(context.Background(), c)
	require.NoError(t, err)
	return html
}

func TestMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"261.96", "$261.96"},
		{"1234.5", "$1,234.50"},
		{"1234567.891", "$1,234,567.89"},
		{"-383.031", "-$383.03"},
		{"-0.001", "$0.00"},
		{"-0.005", "-$0.01"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Money(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestPercentAndDelta(t *testing.T) {
	assert.Equal(t, "n/a", Percent(decimal.NullDecimal{}))
	assert.Equal(t, "3.33%", Percent(decimal.NewNullDecimal(decimal.RequireFromString("3.3333"))))
	assert.Equal(t, "", Delta(decimal.NullDecimal{}))
	assert.Equal(t, "-3.81 pts", Delta(decimal.NewNullDecimal(decimal.RequireFromString("-3.8095"))))
	assert.Equal(t, "+0.00 pts", Delta(decimal.NewNullDecimal(decimal.Zero)))
	assert.Equal(t, "+0.00 pts", Delta(decimal.NewNullDecimal(decimal.RequireFromString("-0.001"))))
}

func TestMetricsCards_SubCentDeltaIsNotDown(t *testing.T) {
	html := render(t, MetricsCards(models.Metrics{
		TotalSales: decimal.NewFromInt(100),
		MarginPct:  decimal.NewNullDecimal(decimal.Zero),
		DeltaPct:   decimal.NewNullDecimal(decimal.RequireFromString("-0.001")),
	}))

	assert.Contains(t, html, "delta-up")
	assert.NotContains(t, html, "delta-down")
	assert.Contains(t, html, "+0.00 pts")
}

func TestMetricsCards(t *testing.T) {
	m := models.Metrics{
		TotalSales:  decimal.NewFromInt(150),
		TotalProfit: decimal.NewFromInt(5),
		MarginPct:   decimal.NewNullDecimal(decimal.RequireFromString("3.3333")),
		DeltaPct:    decimal.NewNullDecimal(decimal.RequireFromString("-3.81")),
	}
	html := render(t, MetricsCards(m))

	assert.True(t, strings.HasPrefix(html, `<div id="metrics"`))
	assert.Contains(t, html, "$150.00")
	assert.Contains(t, html, "3.33%")
	assert.Contains(t, html, "delta-down")
}

func TestMetricsCards_NoMarginWhenSalesZero(t *testing.T) {
	html := render(t, MetricsCards(models.Metrics{}))

	assert.Contains(t, html, "Total Sales")
	assert.NotContains(t, html, "Profit Margin")
}

func TestTrendTable(t *testing.T) {
	points := []models.TrendPoint{
		{OrderDate: time.Date(2016, 11, 8, 0, 0, 0, 0, time.UTC), SubCategory: "Chairs & <Stools>", Sales: decimal.NewFromInt(10)},
	}
	html := render(t, TrendTable(points))

	assert.Contains(t, html, "2016-11-08")
	assert.Contains(t, html, "Chairs &amp; &lt;Stools&gt;")

	empty := render(t, TrendTable(nil))
	assert.Contains(t, empty, `id="trend"`)
	assert.Contains(t, empty, "No sub-categories selected.")
}

func TestRecordsTable_CapsRows(t *testing.T) {
	records := make([]models.Record, MaxTableRows+5)
	for i := range records {
		records[i] = models.Record{
			OrderDate:   time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC),
			Category:    "Furniture",
			SubCategory: fmt.Sprintf("S%d", i),
			Sales:       decimal.NewFromInt(1),
		}
	}
	html := render(t, RecordsTable(records))

	assert.Equal(t, MaxTableRows, strings.Count(html, "<tr>")-1)
	assert.Contains(t, html, "Showing 50 of 55 records.")
}

func TestSubCategorySelect(t *testing.T) {
	html := render(t, SubCategorySelect([]string{"Chairs", "Tables"}, []string{"Tables"}))

	assert.Contains(t, html, `id="sub-category-select"`)
	assert.Contains(t, html, `<option value="Chairs">Chairs</option>`)
	assert.Contains(t, html, `<option value="Tables" selected>Tables</option>`)
}

func TestDashboard(t *testing.T) {
	page := Page{
		Categories:    []string{"Furniture", "Technology"},
		SubCategories: []string{"Chairs"},
		Views: models.Views{
			Selection: models.Selection{Category: "Furniture"},
			CategorySales: []models.CategorySales{
				{Category: "Furniture", Sales: decimal.NewFromInt(100), Records: 1},
			},
			MonthlySales: []models.MonthlySales{{Period: "2016-11", Sales: decimal.NewFromInt(100)}},
		},
	}
	html := render(t, Dashboard(page))

	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, `data-signals="{&#34;category&#34;:&#34;Furniture&#34;,&#34;subCategories&#34;:[]}"`)
	assert.Contains(t, html, `<option value="Furniture" selected>`)
	for _, id := range []string{MetricsID, TrendID, RecordsID, CategorySalesID, MonthlySalesID, SubCategoryListID} {
		assert.Contains(t, html, `id="`+id+`"`)
	}
}
