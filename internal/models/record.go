package models

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Record is one sales transaction.
type Record struct {
	OrderDate   time.Time       `json:"order_date"`
	Category    string          `json:"category"`
	SubCategory string          `json:"sub_category"`
	Sales       decimal.Decimal `json:"sales"`
	Profit      decimal.Decimal `json:"profit"`
}

// Dataset is the ordered, read-only collection of records loaded at startup.
// It is safe to share across goroutines.
type Dataset struct {
	records []Record
	source  string
	loaded  time.Time
}

func NewDataset(records []Record, source string) *Dataset {
	return &Dataset{
		records: slices.Clone(records),
		source:  source,
		loaded:  time.Now(),
	}
}

// Records returns a copy of the dataset rows in load order.
func (d *Dataset) Records() []Record {
	if d == nil {
		return nil
	}
	return slices.Clone(d.records)
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

func (d *Dataset) Source() string {
	if d == nil {
		return ""
	}
	return d.source
}

func (d *Dataset) LoadedAt() time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.loaded
}
