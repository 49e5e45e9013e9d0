package services

import (
	"context"
	"fmt"

	"github.com/taxiload/taxiload/internal/frame"
	"github.com/taxiload/taxiload/internal/schema"
	"github.com/taxiload/taxiload/internal/source"
	"github.com/taxiload/taxiload/pkg/taxiload"
)

// ZoneService loads the taxi zone lookup CSV in a single replace write.
type ZoneService struct {
	fetcher  taxiload.Fetcher
	logger   taxiload.Logger
	reporter taxiload.ProgressReporter
	open     storeOpener
}

// NewZoneService panics on nil dependencies.
func NewZoneService(
	connectorFactory taxiload.ConnectorFactory,
	fetcher taxiload.Fetcher,
	logger taxiload.Logger,
	reporter taxiload.ProgressReporter,
) *ZoneService {
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

	return &ZoneService{
		fetcher:  fetcher,
		logger:   logger,
		reporter: reporter,
		open:     connectorStoreOpener(connectorFactory, logger),
	}
}

func (s *ZoneService) Load(ctx context.Context, cfg taxiload.ZonesConfig) (taxiload.LoadResult, error) {
	if err := cfg.Validate(); err != nil {
		return taxiload.LoadResult{}, fmt.Errorf("invalid configuration: %w", err)
	}

	data, err := s.fetcher.Fetch(ctx, cfg.SourceURL)
	if err != nil {
		return taxiload.LoadResult{}, err
	}

	records, err := source.ReadZones(data)
	if err != nil {
		return taxiload.LoadResult{}, fmt.Errorf("%s: %w", cfg.SourceURL, err)
	}
	s.logger.Verbose("Decoded %d zones", len(records))

	f := frame.NewRowFrame(schema.ZoneColumns, schema.ZoneRows(records))

	store, cleanup, err := s.open(ctx, cfg.Connection)
	if err != nil {
		return taxiload.LoadResult{}, err
	}
	defer cleanup()

	// One slice holding every row.
	return LoadFrame(ctx, store, cfg.TargetTable, f, max(f.NumRows(), 1), cfg.WithIndex, s.reporter)
}
