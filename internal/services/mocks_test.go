package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"
	"github.com/stretchr/testify/require"
	"github.com/taxiload/taxiload/pkg/taxiload"
)

// write is one WriteTable call as seen by mockStore.
type write struct {
	Table   string
	Mode    taxiload.WriteMode
	Columns []string
	Rows    [][]any
}

// mockStore records writes in memory and mimics replace/append on a single table map.
type mockStore struct {
	mu      sync.Mutex
	writes  []write
	tables  map[string]int64
	failAt  int // 1-based write number that fails; 0 never fails
	failErr error
}

func newMockStore() *mockStore {
	return &mockStore{tables: map[string]int64{}}
}

func (m *mockStore) WriteTable(ctx context.Context, req taxiload.WriteRequest) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failAt > 0 && len(m.writes)+1 == m.failAt {
		return 0, m.failErr
	}

	w := write{Table: req.Table, Mode: req.Mode, Columns: taxiload.ColumnNames(req.Columns)}
	for req.Rows.Next() {
		values, err := req.Rows.Values()
		if err != nil {
			return 0, err
		}
		w.Rows = append(w.Rows, values)
	}
	if err := req.Rows.Err(); err != nil {
		return 0, err
	}
	m.writes = append(m.writes, w)

	if req.Mode == taxiload.WriteReplace {
		m.tables[req.Table] = 0
	}
	m.tables[req.Table] += int64(len(w.Rows))
	return int64(len(w.Rows)), nil
}

func (m *mockStore) CountRows(ctx context.Context, table string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.tables[table]
	if !ok {
		return 0, fmt.Errorf("relation %q does not exist", table)
	}
	return n, nil
}

func (m *mockStore) opener() storeOpener {
	return func(ctx context.Context, conn *taxiload.ConnectionConfig) (taxiload.TableStore, func(), error) {
		return m, func() {}, nil
	}
}

// recordingReporter keeps every progress notification.
type recordingReporter struct {
	slices   []taxiload.SliceReport
	finished []taxiload.LoadResult
}

func (r *recordingReporter) SliceWritten(s taxiload.SliceReport) { r.slices = append(r.slices, s) }
func (r *recordingReporter) Finished(res taxiload.LoadResult)    { r.finished = append(r.finished, res) }

type mapFetcher map[string][]byte

func (f mapFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	data, ok := f[location]
	if !ok {
		return nil, fmt.Errorf("GET %s: unexpected status 404 Not Found: %w", location, taxiload.ErrFetchFailed)
	}
	return data, nil
}

var errBoom = errors.New("boom")

func failingFactory(*taxiload.ConnectionConfig, taxiload.Logger) (taxiload.Connector, error) {
	return nil, errBoom
}

// tripsParquet encodes n rows with the columns of a 2021 yellow taxi file
// (a subset); VendorID cycles 1, 2 and fare_amount equals the row number.
func tripsParquet(t *testing.T, n int) []byte {
	t.Helper()

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "VendorID", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "tpep_pickup_datetime", Type: &arrow.TimestampType{Unit: arrow.Microsecond}, Nullable: true},
		{Name: "PULocationID", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "fare_amount", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	}, nil)

	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()
	for i := 0; i < n; i++ {
		b.Field(0).(*array.Int64Builder).Append(int64(i%2 + 1))
		b.Field(1).(*array.TimestampBuilder).Append(arrow.Timestamp(1609459200000000 + int64(i)*1000000))
		b.Field(2).(*array.Int64Builder).Append(int64(100 + i%165))
		b.Field(3).(*array.Float64Builder).Append(float64(i))
	}
	rec := b.NewRecord()
	defer rec.Release()

	tbl := array.NewTableFromRecords(schema, []arrow.Record{rec})
	defer tbl.Release()

	var buf bytes.Buffer
	require.NoError(t, pqarrow.WriteTable(tbl, &buf, 1024, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps()))
	return buf.Bytes()
}

const zonesCSV = `"LocationID","Borough","Zone","service_zone"
1,"EWR","Newark Airport","EWR"
2,"Queens","Jamaica Bay","Boro Zone"
3,"Bronx","Allerton/Pelham Gardens","Boro Zone"
4,"Manhattan","Alphabet City","Yellow Zone"
5,"Staten Island","Arden Heights","Boro Zone"
`
