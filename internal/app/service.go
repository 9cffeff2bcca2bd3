// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/popcast/internal/adapters/repository"
	"github.com/okian/popcast/internal/adapters/spreadsheet"
	"github.com/okian/popcast/internal/domain/model"
	"github.com/okian/popcast/internal/domain/projection"
	"github.com/okian/popcast/internal/domain/types"
	"github.com/okian/popcast/pkg/logger"
	"github.com/okian/popcast/pkg/metrics"
)

const (
	defaultExportSheet        = "Projections"
	nanosecondsPerMillisecond = 1e6
)

// Service implements the API dependencies for the projection system.
type Service struct {
	mu sync.RWMutex

	// Core components
	engine *projection.Engine
	store  repository.Store

	// Configuration
	baseYear    int
	horizons    []int
	exportSheet string

	// State
	started             bool
	projectionsComputed atomic.Int64
	exportsGenerated    atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore injects the result store. A fresh in-memory store is used otherwise.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithBaseYear sets the calendar year of the first census count.
func WithBaseYear(year int) Option {
	return func(s *Service) {
		if year > 0 {
			s.baseYear = year
		}
	}
}

// WithHorizons sets the projection offsets in years after the base year.
func WithHorizons(horizons []int) Option {
	return func(s *Service) {
		if len(horizons) > 0 {
			s.horizons = horizons
		}
	}
}

// WithExportSheet sets the worksheet name used by ExportWorkbook.
func WithExportSheet(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.exportSheet = name
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		baseYear:    projection.DefaultBaseYear,
		horizons:    projection.DefaultHorizons,
		exportSheet: defaultExportSheet,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.engine = projection.NewEngine(
		projection.WithBaseYear(s.baseYear),
		projection.WithHorizons(s.horizons),
	)
	if s.store == nil {
		s.store = repository.NewMemoryStore(context.Background())
	}
	return s
}

// Start marks the service ready and logs its configuration.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.started = true
	s.logger.Info(ctx, "projection service started",
		logger.Int("baseYear", s.engine.BaseYear()),
		logger.Any("horizons", s.engine.Horizons()),
		logger.String("exportSheet", s.exportSheet),
	)
	return nil
}

// Stop marks the service stopped. Stored results are kept.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.log().Info(context.Background(), "projection service stopped",
		logger.Int("localities", s.store.Count(context.Background())),
	)
}

// AddLocality validates c, projects it and stores the record under its
// locality, replacing any previous record. Invalid input leaves the store
// untouched and returns an error wrapping model.ErrInvalidCensus.
func (s *Service) AddLocality(ctx context.Context, c model.Census) (types.Record, error) {
	if err := c.Validate(); err != nil {
		metrics.RecordValidationFailure()
		s.log().Debug(ctx, "census rejected", logger.String("locality", c.Locality), logger.Error(err))
		return types.Record{}, err
	}

	rec := s.engine.Project(ctx, c)
	if err := s.store.Upsert(ctx, c.Locality, rec); err != nil {
		return types.Record{}, fmt.Errorf("store %q: %w", c.Locality, err)
	}

	s.projectionsComputed.Add(1)
	metrics.RecordProjectionComputed()
	s.log().Info(ctx, "locality projected",
		logger.String("locality", c.Locality),
		logger.Float64("a", rec.Coefficients.A),
		logger.Float64("b", rec.Coefficients.B),
		logger.Float64("c", rec.Coefficients.C),
	)
	return rec, nil
}

// Localities returns every stored locality in insertion order.
func (s *Service) Localities(ctx context.Context) repository.Snapshot {
	return s.store.All(ctx)
}

// Locality returns the stored record for one locality.
func (s *Service) Locality(ctx context.Context, name string) (types.Record, error) {
	return s.store.Get(ctx, name)
}

// Reset clears every stored result.
func (s *Service) Reset(ctx context.Context) error {
	n := s.store.Count(ctx)
	s.store.Clear(ctx)
	metrics.RecordStoreReset()
	s.log().Info(ctx, "store reset", logger.Int("removed", n))
	return nil
}

// LoadExamples projects the built-in sample data set, overwriting any
// existing entries with the same names, and returns the loaded names.
func (s *Service) LoadExamples(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(exampleCensus))
	for _, c := range exampleCensus {
		if _, err := s.AddLocality(ctx, c); err != nil {
			return nil, fmt.Errorf("load example %q: %w", c.Locality, err)
		}
		names = append(names, c.Locality)
	}
	metrics.RecordExamplesLoaded()
	s.log().Info(ctx, "example data set loaded", logger.Int("localities", len(names)))
	return names, nil
}

// ExportWorkbook renders the store as an .xlsx workbook.
// Returns repository.ErrNoData when the store is empty.
func (s *Service) ExportWorkbook(ctx context.Context) ([]byte, error) {
	start := time.Now()

	table, ok := s.store.Table(ctx)
	if !ok {
		metrics.RecordEmptyExport()
		return nil, repository.ErrNoData
	}

	var buf bytes.Buffer
	if err := spreadsheet.Write(&buf, s.exportSheet, table.Header, table.Rows); err != nil {
		metrics.RecordErrorByComponent("export", "write_failed")
		s.log().Error(ctx, "export failed", logger.Error(err))
		return nil, fmt.Errorf("export workbook: %w", err)
	}

	durationMs := float64(time.Since(start).Nanoseconds()) / nanosecondsPerMillisecond
	s.exportsGenerated.Add(1)
	metrics.RecordExport(durationMs, buf.Len())
	s.log().Info(ctx, "workbook exported",
		logger.Int("rows", len(table.Rows)),
		logger.Int("bytes", buf.Len()),
		logger.Float64("durationMs", durationMs),
	)
	return buf.Bytes(), nil
}

// BaseYear returns the calendar year of the first census count.
func (s *Service) BaseYear() int {
	return s.engine.BaseYear()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	localities := s.store.Count(context.Background())
	metrics.UpdateLocalitiesTotal(localities)

	return map[string]interface{}{
		"started":             s.started,
		"localities":          localities,
		"baseYear":            s.engine.BaseYear(),
		"horizons":            s.engine.Horizons(),
		"exportSheet":         s.exportSheet,
		"projectionsComputed": s.projectionsComputed.Load(),
		"exportsGenerated":    s.exportsGenerated.Load(),
	}
}

// log returns the configured logger, falling back to the global one.
func (s *Service) log() logger.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logger.Get()
}
