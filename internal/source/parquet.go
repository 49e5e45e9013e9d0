package source

import (
	"bytes"
	"context"
	"fmt"

	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet/file"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"
	"github.com/taxiload/taxiload/internal/frame"
	"github.com/taxiload/taxiload/pkg/taxiload"
)

// ReadParquet decodes a whole Parquet file into an in-memory frame.
// The caller owns the returned frame and must Release it.
func ReadParquet(ctx context.Context, mem memory.Allocator, data []byte) (*frame.ArrowFrame, error) {
	parquetFileReader, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w: %w", taxiload.ErrDecodeFailed, err)
	}
	defer parquetFileReader.Close()

	parquetReadProps := pqarrow.ArrowReadProperties{
		Parallel:  false,
		BatchSize: 64 * 1024,
	}
	arrowFileReader, err := pqarrow.NewFileReader(parquetFileReader, parquetReadProps, mem)
	if err != nil {
		return nil, fmt.Errorf("parquet schema: %w: %w", taxiload.ErrDecodeFailed, err)
	}

	tbl, err := arrowFileReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("read parquet: %w: %w", taxiload.ErrDecodeFailed, err)
	}
	defer tbl.Release()

	return frame.NewArrowFrame(tbl)
}
