package handlers

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/report"
	"sales-dashboard/internal/services"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func record(day int, cat, sub string, sales, profit int64) models.Record {
	return models.Record{
		OrderDate:   time.Date(2017, time.March, day, 0, 0, 0, 0, time.UTC),
		Category:    cat,
		SubCategory: sub,
		Sales:       decimal.NewFromInt(sales),
		Profit:      decimal.NewFromInt(profit),
	}
}

func createTestAnalytics() *services.Analytics {
	a := services.NewAnalytics()
	a.SetData([]models.Record{
		record(1, "Furniture", "Chairs", 100, 10),
		record(2, "Furniture", "Chairs", 50, -5),
		record(2, "Furniture", "Tables", 200, 20),
		record(3, "Technology", "Phones", 300, 90),
		record(4, "Technology", "Copiers", 150, 45),
	})
	return a
}

type envelope struct {
	Success bool           `json:"success"`
	Data    any            `json:"data"`
	Error   map[string]any `json:"error"`
}

func serve(t *testing.T, h http.HandlerFunc, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, target, nil))

	var env envelope
	if w.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestAPIHandlers_Taxonomy(t *testing.T) {
	h := NewAPIHandlers(createTestAnalytics(), quietLogger())

	w, env := serve(t, h.HandleCategories, "/api/categories")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, cacheMaxAge, w.Header().Get("Cache-Control"))
	assert.Equal(t, []any{"Furniture", "Technology"}, env.Data)

	_, env = serve(t, h.HandleSubCategories, "/api/sub-categories?category=Technology")
	data := env.Data.(map[string]any)
	assert.Equal(t, "Technology", data["category"])
	assert.Equal(t, []any{"Phones", "Copiers"}, data["sub_categories"])

	w, env = serve(t, h.HandleSubCategories, "/api/sub-categories?category=Toys")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "VALIDATION_ERROR", env.Error["code"])
	assert.Equal(t, "Toys", env.Error["details"])
}

func TestAPIHandlers_DatasetViews(t *testing.T) {
	h := NewAPIHandlers(createTestAnalytics(), quietLogger())

	w, env := serve(t, h.HandleCategorySales, "/api/category-sales")
	assert.Equal(t, cacheMaxAge, w.Header().Get("Cache-Control"))
	rows := env.Data.([]any)
	require.Len(t, rows, 2)
	assert.Equal(t, "Furniture", rows[0].(map[string]any)["category"])
	assert.Equal(t, "350", rows[0].(map[string]any)["sales"])

	_, env = serve(t, h.HandleMonthlySales, "/api/monthly-sales")
	months := env.Data.([]any)
	require.Len(t, months, 1)
	assert.Equal(t, "2017-03", months[0].(map[string]any)["period"])
	assert.Equal(t, "800", months[0].(map[string]any)["sales"])
}

func TestAPIHandlers_HandleViews(t *testing.T) {
	h := NewAPIHandlers(createTestAnalytics(), quietLogger())

	w, env := serve(t, h.HandleViews, "/api/views?category=Furniture&sub_category=Chairs&sub_category=Phones")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Cache-Control"))

	data := env.Data.(map[string]any)
	sel := data["selection"].(map[string]any)
	assert.Equal(t, []any{"Chairs"}, sel["sub_categories"])

	metrics := data["metrics"].(map[string]any)
	assert.Equal(t, "150", metrics["total_sales"])
	assert.Equal(t, "5", metrics["total_profit"])
	assert.NotNil(t, metrics["margin_pct"])

	assert.Len(t, data["trend"], 2)
	assert.NotContains(t, data, "filtered")
}

func TestAPIHandlers_HandleViews_EmptySelection(t *testing.T) {
	h := NewAPIHandlers(createTestAnalytics(), quietLogger())

	_, env := serve(t, h.HandleViews, "/api/views")
	data := env.Data.(map[string]any)

	assert.Equal(t, "Furniture", data["selection"].(map[string]any)["category"])
	assert.Empty(t, data["trend"])
	metrics := data["metrics"].(map[string]any)
	assert.Nil(t, metrics["margin_pct"])
	assert.Nil(t, metrics["delta_pct"])
	assert.Equal(t, "0", metrics["total_sales"])
}

func TestAPIHandlers_HandleRecords(t *testing.T) {
	h := NewAPIHandlers(createTestAnalytics(), quietLogger())

	tests := []struct {
		name   string
		target string
		status int
		count  float64
	}{
		{"default limit", "/api/records?category=Furniture&sub_category=Chairs&sub_category=Tables", http.StatusOK, 3},
		{"explicit limit", "/api/records?category=Furniture&sub_category=Chairs&sub_category=Tables&limit=2", http.StatusOK, 2},
		{"zero limit", "/api/records?category=Furniture&limit=0", http.StatusBadRequest, 0},
		{"non numeric", "/api/records?category=Furniture&limit=abc", http.StatusBadRequest, 0},
		{"too large", "/api/records?category=Furniture&limit=10001", http.StatusBadRequest, 0},
		{"unknown category", "/api/records?category=Toys", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := serve(t, h.HandleRecords, tt.target)
			assert.Equal(t, tt.status, w.Code)
			if tt.status != http.StatusOK {
				assert.False(t, env.Success)
				return
			}
			assert.Equal(t, tt.count, env.Data.(map[string]any)["count"])
		})
	}
}

func TestAPIHandlers_HandleExport(t *testing.T) {
	h := NewAPIHandlers(createTestAnalytics(), quietLogger())

	w, _ := serve(t, h.HandleExport, "/api/export.xlsx?category=Furniture&sub_category=Chairs")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="sales-furniture.xlsx"`)

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(report.SheetRecords)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "sales-office-supplies.xlsx", exportFilename("Office Supplies"))
	assert.Equal(t, "sales-all.xlsx", exportFilename(""))
}

func TestAPIHandlers_HealthAndStats(t *testing.T) {
	h := NewAPIHandlers(createTestAnalytics(), quietLogger())

	w, env := serve(t, h.HandleHealth, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", env.Data.(map[string]any)["status"])

	_, env = serve(t, h.HandleStats, "/admin/stats")
	stats := env.Data.(map[string]any)
	assert.Equal(t, float64(5), stats["record_count"])
	assert.Equal(t, "memory", stats["source"])
}

func TestAPIHandlers_HealthUnavailableWithoutRecords(t *testing.T) {
	h := NewAPIHandlers(services.NewAnalytics(), quietLogger())

	w, env := serve(t, h.HandleHealth, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "SERVICE_UNAVAILABLE", env.Error["code"])
}

