package services

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

var ErrUnknownCategory = errors.New("unknown category")

// Analytics serves derived views over the shared, read-only dataset. It
// keeps no per-session state; every call recomputes from the dataset.
type Analytics struct {
	mu      sync.RWMutex
	dataset *models.Dataset
	records []models.Record
	overall decimal.NullDecimal
	logger  *slog.Logger
}

func NewAnalytics() *Analytics {
	return &Analytics{
		dataset: models.NewDataset(nil, ""),
		records: []models.Record{},
		logger:  slog.Default(),
	}
}

// SetDataset swaps in a loaded dataset and precomputes its overall margin.
func (a *Analytics) SetDataset(ds *models.Dataset) {
	records := ds.Records()
	overall := OverallMarginPct(records)

	a.mu.Lock()
	defer a.mu.Unlock()

	a.dataset = ds
	a.records = records
	a.overall = overall

	if !overall.Valid && len(records) > 0 {
		a.logger.Warn("dataset has zero total sales, overall margin undefined", "records", len(records))
	}
}

func (a *Analytics) SetData(records []models.Record) {
	a.SetDataset(models.NewDataset(records, "memory"))
}

func (a *Analytics) snapshot() ([]models.Record, decimal.NullDecimal) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.records, a.overall
}

// Len is the number of loaded records.
func (a *Analytics) Len() int {
	records, _ := a.snapshot()
	return len(records)
}

func (a *Analytics) Categories() []string {
	records, _ := a.snapshot()
	return Categories(records)
}

func (a *Analytics) SubCategories(category string) []string {
	records, _ := a.snapshot()
	return SubCategories(records, category)
}

// DefaultSelection is the first category with nothing selected beneath it.
func (a *Analytics) DefaultSelection() models.Selection {
	sel := models.Selection{SubCategories: []string{}}
	if cats := a.Categories(); len(cats) > 0 {
		sel.Category = cats[0]
	}
	return sel
}

// NormalizeSelection validates a selection against the taxonomy. An empty
// category resolves to the default one; sub-categories that do not belong
// to the category are dropped, duplicates removed, order kept.
func (a *Analytics) NormalizeSelection(category string, subCategories []string) (models.Selection, error) {
	records, _ := a.snapshot()

	if category == "" {
		if cats := Categories(records); len(cats) > 0 {
			category = cats[0]
		}
	}
	if !slices.Contains(Categories(records), category) {
		return models.Selection{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	valid := SubCategories(records, category)
	kept := make([]string, 0, len(subCategories))
	for _, sc := range subCategories {
		if slices.Contains(valid, sc) && !slices.Contains(kept, sc) {
			kept = append(kept, sc)
		}
	}

	return models.Selection{Category: category, SubCategories: kept}, nil
}

// Render recomputes all views for the selection.
func (a *Analytics) Render(sel models.Selection) models.Views {
	records, overall := a.snapshot()
	start := time.Now()

	views := render(records, sel, overall)

	a.logger.Debug("views rendered",
		"category", sel.Category,
		"sub_categories", len(sel.SubCategories),
		"filtered", len(views.Filtered),
		"duration", time.Since(start),
	)
	return views
}

func (a *Analytics) CategorySums() []models.CategorySales {
	records, _ := a.snapshot()
	return CategorySums(records)
}

func (a *Analytics) MonthlySums() []models.MonthlySales {
	records, _ := a.snapshot()
	return MonthlySums(records)
}

// Filtered returns up to limit filtered records; limit <= 0 means all.
func (a *Analytics) Filtered(sel models.Selection, limit int) []models.Record {
	records, _ := a.snapshot()
	filtered := FilterRecords(records, sel)
	if limit > 0 && len(filtered) > limit {
		return filtered[:limit]
	}
	return filtered
}

// Utility method for monitoring
func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return map[string]any{
		"record_count":       len(a.records),
		"source":             a.dataset.Source(),
		"loaded_at":          a.dataset.LoadedAt(),
		"categories":         len(Categories(a.records)),
		"months":             len(MonthlySums(a.records)),
		"overall_margin_pct": a.overall,
	}
}
