// Package report renders views outside the browser: terminal tables, YAML
// and JSON documents, and XLSX workbooks.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"sales-dashboard/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrUnknownFormat = errors.New("unknown report format")

const (
	FormatTable = "table"
	FormatYAML  = "yaml"
	FormatJSON  = "json"
)

// Document is the serialisable form of a Views value. Amounts are strings
// fixed to two decimals; an undefined margin is an empty string.
type Document struct {
	Category      string        `yaml:"category" json:"category"`
	SubCategories []string      `yaml:"sub_categories" json:"sub_categories"`
	Metrics       MetricsDoc    `yaml:"metrics" json:"metrics"`
	CategorySales []CategoryDoc `yaml:"category_sales" json:"category_sales"`
	MonthlySales  []MonthDoc    `yaml:"monthly_sales" json:"monthly_sales"`
	Trend         []TrendDoc    `yaml:"trend" json:"trend"`
}

type MetricsDoc struct {
	TotalSales       string `yaml:"total_sales" json:"total_sales"`
	TotalProfit      string `yaml:"total_profit" json:"total_profit"`
	MarginPct        string `yaml:"margin_pct" json:"margin_pct"`
	OverallMarginPct string `yaml:"overall_margin_pct" json:"overall_margin_pct"`
	DeltaPct         string `yaml:"delta_pct" json:"delta_pct"`
}

type CategoryDoc struct {
	Category string `yaml:"category" json:"category"`
	Sales    string `yaml:"sales" json:"sales"`
	Profit   string `yaml:"profit" json:"profit"`
	Records  int    `yaml:"records" json:"records"`
}

type MonthDoc struct {
	Period   string `yaml:"period" json:"period"`
	MonthEnd string `yaml:"month_end" json:"month_end"`
	Sales    string `yaml:"sales" json:"sales"`
}

type TrendDoc struct {
	OrderDate   string `yaml:"order_date" json:"order_date"`
	SubCategory string `yaml:"sub_category" json:"sub_category"`
	Sales       string `yaml:"sales" json:"sales"`
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func optional(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}

func NewDocument(v models.Views) Document {
	doc := Document{
		Category:      v.Selection.Category,
		SubCategories: append([]string{}, v.Selection.SubCategories...),
		Metrics: MetricsDoc{
			TotalSales:       amount(v.Metrics.TotalSales),
			TotalProfit:      amount(v.Metrics.TotalProfit),
			MarginPct:        optional(v.Metrics.MarginPct),
			OverallMarginPct: optional(v.Metrics.OverallMarginPct),
			DeltaPct:         optional(v.Metrics.DeltaPct),
		},
		CategorySales: make([]CategoryDoc, 0, len(v.CategorySales)),
		MonthlySales:  make([]MonthDoc, 0, len(v.MonthlySales)),
		Trend:         make([]TrendDoc, 0, len(v.Trend)),
	}

	for _, c := range v.CategorySales {
		doc.CategorySales = append(doc.CategorySales, CategoryDoc{
			Category: c.Category,
			Sales:    amount(c.Sales),
			Profit:   amount(c.Profit),
			Records:  c.Records,
		})
	}
	for _, m := range v.MonthlySales {
		doc.MonthlySales = append(doc.MonthlySales, MonthDoc{
			Period:   m.Period,
			MonthEnd: m.MonthEnd.Format("2006-01-02"),
			Sales:    amount(m.Sales),
		})
	}
	for _, p := range v.Trend {
		doc.Trend = append(doc.Trend, TrendDoc{
			OrderDate:   p.OrderDate.Format("2006-01-02"),
			SubCategory: p.SubCategory,
			Sales:       amount(p.Sales),
		})
	}

	return doc
}

func WriteYAML(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// Write renders v in the named format.
func Write(w io.Writer, format string, v models.Views) error {
	switch strings.ToLower(format) {
	case FormatTable, "":
		return WriteTerminal(w, v)
	case FormatYAML, "yml":
		return WriteYAML(w, NewDocument(v))
	case FormatJSON:
		return WriteJSON(w, NewDocument(v))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
