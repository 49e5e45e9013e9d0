package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/taxiload/taxiload/internal/schema"
	"github.com/taxiload/taxiload/internal/source"
	"github.com/taxiload/taxiload/pkg/taxiload"
)

// TripService loads a Parquet trip file into PostgreSQL.
type TripService struct {
	fetcher  taxiload.Fetcher
	logger   taxiload.Logger
	reporter taxiload.ProgressReporter
	mem      memory.Allocator
	open     storeOpener
}

// NewTripService panics on nil dependencies.
func NewTripService(
	connectorFactory taxiload.ConnectorFactory,
	fetcher taxiload.Fetcher,
	logger taxiload.Logger,
	reporter taxiload.ProgressReporter,
) *TripService {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if fetcher == nil {
		panic("fetcher cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if reporter == nil {
		panic("reporter cannot be nil")
	}

	return &TripService{
		fetcher:  fetcher,
		logger:   logger,
		reporter: reporter,
		mem:      memory.DefaultAllocator,
		open:     connectorStoreOpener(connectorFactory, logger),
	}
}

// Load downloads cfg.SourceURL, decodes it fully, and writes it to
// cfg.TargetTable in cfg.ChunkSize slices.
func (s *TripService) Load(ctx context.Context, cfg taxiload.TripsConfig) (taxiload.LoadResult, error) {
	if err := cfg.Validate(); err != nil {
		return taxiload.LoadResult{}, fmt.Errorf("invalid configuration: %w", err)
	}

	s.logger.Verbose("Loading %s into %s (chunk size %d)", cfg.SourceURL, cfg.TargetTable, cfg.ChunkSize)

	data, err := s.fetcher.Fetch(ctx, cfg.SourceURL)
	if err != nil {
		return taxiload.LoadResult{}, err
	}

	f, err := source.ReadParquet(ctx, s.mem, data)
	if err != nil {
		return taxiload.LoadResult{}, fmt.Errorf("%s: %w", cfg.SourceURL, err)
	}
	defer f.Release()

	s.logger.Verbose("Decoded %d rows, %d columns", f.NumRows(), len(f.Columns()))
	if missing := schema.MissingColumns(schema.TripColumns, f.Columns()); len(missing) > 0 {
		s.logger.Info("Warning: %s has no %s column(s); loading the columns it has", cfg.SourceURL, strings.Join(missing, ", "))
	}

	store, cleanup, err := s.open(ctx, cfg.Connection)
	if err != nil {
		return taxiload.LoadResult{}, err
	}
	defer cleanup()

	return LoadFrame(ctx, store, cfg.TargetTable, f, cfg.ChunkSize, cfg.WithIndex, s.reporter)
}
