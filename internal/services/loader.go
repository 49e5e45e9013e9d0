package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/taxiload/taxiload/internal/chunk"
	"github.com/taxiload/taxiload/internal/frame"
	"github.com/taxiload/taxiload/pkg/taxiload"
)

// LoadFrame writes f into table in slices of at most chunkSize rows, in
// source order. The first slice replaces the table and the rest append to
// it. The first failing slice aborts the load; slices written before it
// stay committed.
func LoadFrame(
	ctx context.Context,
	w taxiload.TableWriter,
	table string,
	f frame.Frame,
	chunkSize int64,
	withIndex bool,
	reporter taxiload.ProgressReporter,
) (taxiload.LoadResult, error) {
	result := taxiload.LoadResult{Table: table}

	spans, err := chunk.Plan(f.NumRows(), chunkSize)
	if err != nil {
		return result, err
	}

	columns := f.Columns()
	if withIndex {
		columns = frame.IndexedColumns(columns)
	}

	for _, span := range spans {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		rows := f.Rows(span.Start, span.End)
		if withIndex {
			rows = frame.WithIndex(rows, span.Start)
		}

		n, err := w.WriteTable(ctx, taxiload.WriteRequest{
			Table:   table,
			Mode:    span.Mode,
			Columns: columns,
			Rows:    rows,
		})
		if err != nil {
			if !errors.Is(err, taxiload.ErrWriteFailed) {
				err = fmt.Errorf("%w: %w", taxiload.ErrWriteFailed, err)
			}
			return result, fmt.Errorf("slice %d (rows %d-%d) of %s: %w", span.Index, span.Start, span.End, table, err)
		}
		if n != span.Len() {
			return result, fmt.Errorf("slice %d of %s: wrote %d rows, expected %d: %w", span.Index, table, n, span.Len(), taxiload.ErrWriteFailed)
		}

		result.Rows += n
		result.Writes++
		reporter.SliceWritten(taxiload.SliceReport{
			Table:   table,
			Index:   span.Index,
			Mode:    span.Mode,
			Rows:    n,
			Written: result.Rows,
			Total:   f.NumRows(),
		})
	}

	reporter.Finished(result)
	return result, nil
}
