package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taxiload/taxiload/pkg/taxiload"
)

func TestTableStatements(t *testing.T) {
	columns := []taxiload.Column{
		{Name: "index", Type: taxiload.TypeBigInt},
		{Name: "VendorID", Type: taxiload.TypeBigInt},
		{Name: "tpep_pickup_datetime", Type: taxiload.TypeTimestamp},
		{Name: "store_and_fwd_flag", Type: taxiload.TypeText},
		{Name: "total_amount", Type: taxiload.TypeDouble},
	}
	defs := `("index" BIGINT, "VendorID" BIGINT, "tpep_pickup_datetime" TIMESTAMP WITHOUT TIME ZONE, "store_and_fwd_flag" TEXT, "total_amount" DOUBLE PRECISION)`

	tests := []struct {
		name string
		req  taxiload.WriteRequest
		want []string
	}{
		{
			name: "replace drops and creates",
			req:  taxiload.WriteRequest{Table: "yellow_taxi_data", Mode: taxiload.WriteReplace, Columns: columns},
			want: []string{
				`DROP TABLE IF EXISTS "yellow_taxi_data"`,
				`CREATE TABLE "yellow_taxi_data" ` + defs,
			},
		},
		{
			name: "append creates if missing",
			req:  taxiload.WriteRequest{Table: "yellow_taxi_data", Mode: taxiload.WriteAppend, Columns: columns},
			want: []string{`CREATE TABLE IF NOT EXISTS "yellow_taxi_data" ` + defs},
		},
		{
			name: "identifiers are quoted",
			req: taxiload.WriteRequest{Table: `odd"name`, Mode: taxiload.WriteAppend, Columns: []taxiload.Column{
				{Name: "Zone", Type: taxiload.TypeText},
			}},
			want: []string{`CREATE TABLE IF NOT EXISTS "odd""name" ("Zone" TEXT)`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tableStatements(tt.req))
		})
	}
}
