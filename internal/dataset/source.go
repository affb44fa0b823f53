package dataset

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"sales-dashboard/internal/models"
)

// Source loads a dataset file at most once per process and hands the same
// read-only dataset to every caller.
type Source struct {
	path   string
	logger *slog.Logger
	load   func(ctx context.Context, path string) (*models.Dataset, error)

	once sync.Once
	data *models.Dataset
	err  error
}

func NewSource(path string, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{
		path:   path,
		logger: logger,
		load:   Load,
	}
}

func (s *Source) Path() string {
	return s.path
}

// Get returns the dataset, loading it on first use. A failed load is
// remembered; the process is expected to abort rather than retry.
func (s *Source) Get(ctx context.Context) (*models.Dataset, error) {
	s.once.Do(func() {
		start := time.Now()
		s.logger.Info("loading dataset", "path", s.path)

		s.data, s.err = s.load(ctx, s.path)
		if s.err != nil {
			s.logger.Error("dataset load failed", "path", s.path, "error", s.err)
			return
		}

		duration := time.Since(start)
		s.logger.Info("dataset loaded",
			"path", s.path,
			"records", s.data.Len(),
			"duration", duration,
		)
	})
	return s.data, s.err
}
