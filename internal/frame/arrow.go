package frame

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/taxiload/taxiload/pkg/taxiload"
)

// readerChunkRows bounds the record size produced while walking a table slice.
const readerChunkRows = 64 * 1024

// valueFunc extracts row i of arr as a value pgx can encode, or nil for NULL.
type valueFunc func(arr arrow.Array, i int) any

// ArrowFrame is a Frame over an Arrow table, as produced by the Parquet reader.
type ArrowFrame struct {
	table   arrow.Table
	columns []taxiload.Column
	values  []valueFunc
}

// NewArrowFrame wraps tbl. The frame takes a reference on tbl; call Release when done.
func NewArrowFrame(tbl arrow.Table) (*ArrowFrame, error) {
	schema := tbl.Schema()
	columns := make([]taxiload.Column, schema.NumFields())
	values := make([]valueFunc, schema.NumFields())

	for i, field := range schema.Fields() {
		colType, fn, err := columnFor(field.Type)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", field.Name, err)
		}
		columns[i] = taxiload.Column{Name: field.Name, Type: colType}
		values[i] = fn
	}

	tbl.Retain()
	return &ArrowFrame{table: tbl, columns: columns, values: values}, nil
}

func (f *ArrowFrame) Columns() []taxiload.Column { return f.columns }

func (f *ArrowFrame) NumRows() int64 { return f.table.NumRows() }

// Release drops the frame's reference on the underlying table.
func (f *ArrowFrame) Release() {
	f.table.Release()
}

func (f *ArrowFrame) Rows(start, end int64) taxiload.RowSource {
	if err := checkRange(start, end, f.NumRows()); err != nil {
		return &errRows{err: err}
	}
	slice := sliceTable(f.table, start, end)
	return &arrowRows{
		slice:  slice,
		reader: array.NewTableReader(slice, readerChunkRows),
		values: f.values,
	}
}

// sliceTable returns rows [start, end) of tbl as a new table sharing its buffers.
// The caller releases the result.
func sliceTable(tbl arrow.Table, start, end int64) arrow.Table {
	cols := make([]arrow.Column, tbl.NumCols())
	for i := range cols {
		col := array.NewColumnSlice(tbl.Column(i), start, end)
		cols[i] = *col
	}
	slice := array.NewTable(tbl.Schema(), cols, end-start)
	for i := range cols {
		cols[i].Release()
	}
	return slice
}

// arrowRows walks a table slice record by record.
type arrowRows struct {
	slice  arrow.Table
	reader *array.TableReader
	values []valueFunc
	rec    arrow.Record
	row    int
	done   bool
}

func (r *arrowRows) Next() bool {
	if r.done {
		return false
	}
	for r.rec == nil || r.row+1 >= int(r.rec.NumRows()) {
		if !r.reader.Next() {
			r.release()
			return false
		}
		r.rec = r.reader.Record()
		r.row = -1
	}
	r.row++
	return true
}

func (r *arrowRows) Values() ([]any, error) {
	out := make([]any, len(r.values))
	for i, fn := range r.values {
		out[i] = fn(r.rec.Column(i), r.row)
	}
	return out, nil
}

func (r *arrowRows) Err() error {
	return r.reader.Err()
}

func (r *arrowRows) release() {
	r.done = true
	r.rec = nil
	r.reader.Release()
	r.slice.Release()
}

// columnFor maps an Arrow type to a destination column type and value extractor.
func columnFor(dt arrow.DataType) (taxiload.ColumnType, valueFunc, error) {
	switch dt.ID() {
	case arrow.INT8:
		return taxiload.TypeBigInt, nullable(func(a arrow.Array, i int) any { return int64(a.(*array.Int8).Value(i)) }), nil
	case arrow.INT16:
		return taxiload.TypeBigInt, nullable(func(a arrow.Array, i int) any { return int64(a.(*array.Int16).Value(i)) }), nil
	case arrow.INT32:
		return taxiload.TypeBigInt, nullable(func(a arrow.Array, i int) any { return int64(a.(*array.Int32).Value(i)) }), nil
	case arrow.INT64:
		return taxiload.TypeBigInt, nullable(func(a arrow.Array, i int) any { return a.(*array.Int64).Value(i) }), nil
	case arrow.UINT8:
		return taxiload.TypeBigInt, nullable(func(a arrow.Array, i int) any { return int64(a.(*array.Uint8).Value(i)) }), nil
	case arrow.UINT16:
		return taxiload.TypeBigInt, nullable(func(a arrow.Array, i int) any { return int64(a.(*array.Uint16).Value(i)) }), nil
	case arrow.UINT32:
		return taxiload.TypeBigInt, nullable(func(a arrow.Array, i int) any { return int64(a.(*array.Uint32).Value(i)) }), nil
	case arrow.UINT64:
		return taxiload.TypeBigInt, nullable(func(a arrow.Array, i int) any { return int64(a.(*array.Uint64).Value(i)) }), nil
	case arrow.FLOAT32:
		return taxiload.TypeDouble, nullable(func(a arrow.Array, i int) any { return float64(a.(*array.Float32).Value(i)) }), nil
	case arrow.FLOAT64:
		return taxiload.TypeDouble, nullable(func(a arrow.Array, i int) any { return a.(*array.Float64).Value(i) }), nil
	case arrow.BOOL:
		return taxiload.TypeBoolean, nullable(func(a arrow.Array, i int) any { return a.(*array.Boolean).Value(i) }), nil
	case arrow.STRING:
		return taxiload.TypeText, nullable(func(a arrow.Array, i int) any { return a.(*array.String).Value(i) }), nil
	case arrow.LARGE_STRING:
		return taxiload.TypeText, nullable(func(a arrow.Array, i int) any { return a.(*array.LargeString).Value(i) }), nil
	case arrow.TIMESTAMP:
		unit := dt.(*arrow.TimestampType).Unit
		return taxiload.TypeTimestamp, nullable(func(a arrow.Array, i int) any {
			return a.(*array.Timestamp).Value(i).ToTime(unit)
		}), nil
	case arrow.DATE32:
		return taxiload.TypeDate, nullable(func(a arrow.Array, i int) any { return a.(*array.Date32).Value(i).ToTime() }), nil
	case arrow.DATE64:
		return taxiload.TypeDate, nullable(func(a arrow.Array, i int) any { return a.(*array.Date64).Value(i).ToTime() }), nil
	case arrow.DICTIONARY:
		valueType, valueFn, err := columnFor(dt.(*arrow.DictionaryType).ValueType)
		if err != nil {
			return 0, nil, err
		}
		return valueType, nullable(func(a arrow.Array, i int) any {
			dict := a.(*array.Dictionary)
			return valueFn(dict.Dictionary(), dict.GetValueIndex(i))
		}), nil
	default:
		return 0, nil, fmt.Errorf("arrow type %s: %w", dt, taxiload.ErrDecodeFailed)
	}
}

func nullable(fn valueFunc) valueFunc {
	return func(a arrow.Array, i int) any {
		if a.IsNull(i) {
			return nil
		}
		return fn(a, i)
	}
}
