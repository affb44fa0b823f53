package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/models"
)

const (
	ColOrderDate   = "Order_Date"
	ColCategory    = "Category"
	ColSubCategory = "Sub_Category"
	ColSales       = "Sales"
	ColProfit      = "Profit"

	batchSize  = 1000
	maxWorkers = 10
)

var (
	ErrEmptyFile     = errors.New("empty file")
	ErrEmptyDataset  = errors.New("no records found")
	ErrMissingColumn = errors.New("missing required column")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
)

var requiredColumns = []string{ColOrderDate, ColCategory, ColSubCategory, ColSales, ColProfit}

var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"2006/01/02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// RowError reports a value that could not be parsed. Row is 1-based and
// does not count the header.
type RowError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: column %s: %v: %q", e.Row, e.Column, e.Err, e.Value)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

type columns map[string]int

// Load reads and validates the CSV dataset at path.
func Load(ctx context.Context, path string) (*models.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	records, err := Parse(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return models.NewDataset(records, path), nil
}

// Parse decodes sales records from CSV. Columns are located by header name;
// any malformed value aborts the whole parse.
func Parse(ctx context.Context, r io.Reader) ([]models.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}

	records := make([]models.Record, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				rec, err := parseRecord(rows[i], cols, i+1)
				if err != nil {
					return err
				}
				records[i] = rec
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return records, nil
}

func indexColumns(header []string) (columns, error) {
	cols := make(columns, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, seen := cols[name]; !seen {
			cols[name] = i
		}
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	return cols, nil
}

func parseRecord(row []string, cols columns, rowNum int) (models.Record, error) {
	field := func(name string) string {
		i := cols[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	date, err := parseDate(field(ColOrderDate))
	if err != nil {
		return models.Record{}, &RowError{Row: rowNum, Column: ColOrderDate, Value: field(ColOrderDate), Err: err}
	}

	sales, err := parseAmount(field(ColSales))
	if err != nil {
		return models.Record{}, &RowError{Row: rowNum, Column: ColSales, Value: field(ColSales), Err: err}
	}

	profit, err := parseAmount(field(ColProfit))
	if err != nil {
		return models.Record{}, &RowError{Row: rowNum, Column: ColProfit, Value: field(ColProfit), Err: err}
	}

	return models.Record{
		OrderDate:   date,
		Category:    field(ColCategory),
		SubCategory: field(ColSubCategory),
		Sales:       sales,
		Profit:      profit,
	}, nil
}

// parseDate accepts the layouts seen in sales exports and truncates the
// result to the calendar day in UTC.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

func parseAmount(value string) (decimal.Decimal, error) {
	value = strings.ReplaceAll(strings.TrimPrefix(value, "$"), ",", "")
	if value == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	return d, nil
}
