package source

import (
	"bytes"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"
	"github.com/stretchr/testify/require"
)

const zonesCSV = `"LocationID","Borough","Zone","service_zone"
1,"EWR","Newark Airport","EWR"
2,"Queens","Jamaica Bay","Boro Zone"
3,"Bronx","Allerton/Pelham Gardens","Boro Zone"
4,"Manhattan","Alphabet City","Yellow Zone"
264,"Unknown","",""
`

// greenTripsParquet encodes n green-taxi style rows; passenger_count is NULL on even rows.
func greenTripsParquet(t *testing.T, n int) []byte {
	t.Helper()

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "VendorID", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
		{Name: "passenger_count", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "store_and_fwd_flag", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "total_amount", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	}, nil)

	mem := memory.NewGoAllocator()
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for i := 0; i < n; i++ {
		b.Field(0).(*array.Int32Builder).Append(2)
		if i%2 == 0 {
			b.Field(1).(*array.Int64Builder).AppendNull()
		} else {
			b.Field(1).(*array.Int64Builder).Append(1)
		}
		b.Field(2).(*array.StringBuilder).Append("N")
		b.Field(3).(*array.Float64Builder).Append(float64(i) + 0.5)
	}
	rec := b.NewRecord()
	defer rec.Release()

	tbl := array.NewTableFromRecords(schema, []arrow.Record{rec})
	defer tbl.Release()

	var buf bytes.Buffer
	err := pqarrow.WriteTable(tbl, &buf, 1000, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps())
	require.NoError(t, err)
	return buf.Bytes()
}
