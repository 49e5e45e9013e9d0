package services

import (
	"context"
	"fmt"

	"github.com/taxiload/taxiload/pkg/taxiload"
)

// Verify counts the rows of table. It fails when the table is empty, and
// when expected is non-negative and differs from the count.
func Verify(ctx context.Context, counter taxiload.RowCounter, table string, expected int64) (int64, error) {
	count, err := counter.CountRows(ctx, table)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", taxiload.ErrVerificationFailed, err)
	}
	if count == 0 {
		return 0, fmt.Errorf("table %s is empty: %w", table, taxiload.ErrVerificationFailed)
	}
	if expected >= 0 && count != expected {
		return count, fmt.Errorf("table %s has %d rows, expected %d: %w", table, count, expected, taxiload.ErrVerificationFailed)
	}
	return count, nil
}

// VerifyService runs Verify against a configured database.
type VerifyService struct {
	logger taxiload.Logger
	open   storeOpener
}

func NewVerifyService(connectorFactory taxiload.ConnectorFactory, logger taxiload.Logger) *VerifyService {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &VerifyService{logger: logger, open: connectorStoreOpener(connectorFactory, logger)}
}

func (s *VerifyService) Verify(ctx context.Context, cfg taxiload.VerifyConfig) (int64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, fmt.Errorf("invalid configuration: %w", err)
	}

	store, cleanup, err := s.open(ctx, cfg.Connection)
	if err != nil {
		return 0, err
	}
	defer cleanup()

	s.logger.Verbose("Counting rows of %s", cfg.TargetTable)
	return Verify(ctx, store, cfg.TargetTable, cfg.ExpectedRows)
}
