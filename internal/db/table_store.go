package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/taxiload/taxiload/pkg/taxiload"
)

// beginner is the part of *pgxpool.Pool the store needs.
type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TableStore writes slices with COPY and counts table rows.
// Every WriteTable call is its own transaction; slices already committed
// stay in the table if a later slice fails.
type TableStore struct {
	db     beginner
	logger taxiload.Logger
}

// NewTableStore wraps a pool (or a single connection).
func NewTableStore(db beginner, logger taxiload.Logger) *TableStore {
	return &TableStore{db: db, logger: logger}
}

func (s *TableStore) WriteTable(ctx context.Context, req taxiload.WriteRequest) (int64, error) {
	if req.Table == "" {
		return 0, fmt.Errorf("table name is required: %w", taxiload.ErrInvalidConfig)
	}
	if len(req.Columns) == 0 {
		return 0, fmt.Errorf("table %s: no columns to write: %w", req.Table, taxiload.ErrInvalidConfig)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin %s of %s: %w: %w", req.Mode, req.Table, taxiload.ErrWriteFailed, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, stmt := range tableStatements(req) {
		s.logger.Verbose("%s", stmt)
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return 0, fmt.Errorf("prepare table %s: %w: %w", req.Table, taxiload.ErrWriteFailed, err)
		}
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{req.Table}, taxiload.ColumnNames(req.Columns), req.Rows)
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w: %w", req.Table, taxiload.ErrWriteFailed, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit %s of %s: %w: %w", req.Mode, req.Table, taxiload.ErrWriteFailed, err)
	}
	return n, nil
}

func (s *TableStore) CountRows(ctx context.Context, table string) (int64, error) {
	var n int64
	query := "SELECT count(*) FROM " + pgx.Identifier{table}.Sanitize()
	if err := s.db.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rows of %s: %w", table, err)
	}
	return n, nil
}

// tableStatements returns the DDL that precedes the COPY of req.
func tableStatements(req taxiload.WriteRequest) []string {
	table := pgx.Identifier{req.Table}.Sanitize()

	defs := make([]string, len(req.Columns))
	for i, col := range req.Columns {
		defs[i] = pgx.Identifier{col.Name}.Sanitize() + " " + col.Type.SQL()
	}
	columns := "(" + strings.Join(defs, ", ") + ")"

	if req.Mode == taxiload.WriteReplace {
		return []string{
			"DROP TABLE IF EXISTS " + table,
			"CREATE TABLE " + table + " " + columns,
		}
	}
	return []string{"CREATE TABLE IF NOT EXISTS " + table + " " + columns}
}

var _ taxiload.TableStore = (*TableStore)(nil)
