package dataset

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/models"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSource_LoadsOnce(t *testing.T) {
	src := NewSource(sampleFile, quietLogger())

	var calls atomic.Int32
	src.load = func(ctx context.Context, path string) (*models.Dataset, error) {
		calls.Add(1)
		return Load(ctx, path)
	}

	var wg sync.WaitGroup
	results := make([]*models.Dataset, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ds, err := src.Get(context.Background())
			assert.NoError(t, err)
			results[i] = ds
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, ds := range results {
		assert.Same(t, results[0], ds)
	}
	assert.Equal(t, 7, results[0].Len())
}

func TestSource_RemembersFailure(t *testing.T) {
	src := NewSource("missing.csv", quietLogger())

	var calls atomic.Int32
	boom := errors.New("boom")
	src.load = func(context.Context, string) (*models.Dataset, error) {
		calls.Add(1)
		return nil, boom
	}

	_, err := src.Get(context.Background())
	require.ErrorIs(t, err, boom)
	_, err = src.Get(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "missing.csv", src.Path())
}

func TestSource_DatasetIsReadOnly(t *testing.T) {
	src := NewSource(sampleFile, quietLogger())
	ds, err := src.Get(context.Background())
	require.NoError(t, err)

	records := ds.Records()
	records[0].Category = "Mutated"

	again, err := src.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Furniture", again.Records()[0].Category)
}
