// Package schema declares the known shapes of the trip and zone files.
package schema

import "github.com/taxiload/taxiload/pkg/taxiload"

// TripColumns are the trip record columns every TLC taxi file is expected to carry.
// Files may add more (timestamps, trip_type, cbd_congestion_fee, ...); those are loaded as-is.
var TripColumns = []taxiload.Column{
	{Name: "VendorID", Type: taxiload.TypeBigInt},
	{Name: "passenger_count", Type: taxiload.TypeBigInt},
	{Name: "trip_distance", Type: taxiload.TypeDouble},
	{Name: "RatecodeID", Type: taxiload.TypeBigInt},
	{Name: "store_and_fwd_flag", Type: taxiload.TypeText},
	{Name: "PULocationID", Type: taxiload.TypeBigInt},
	{Name: "DOLocationID", Type: taxiload.TypeBigInt},
	{Name: "payment_type", Type: taxiload.TypeBigInt},
	{Name: "fare_amount", Type: taxiload.TypeDouble},
	{Name: "extra", Type: taxiload.TypeDouble},
	{Name: "mta_tax", Type: taxiload.TypeDouble},
	{Name: "tip_amount", Type: taxiload.TypeDouble},
	{Name: "tolls_amount", Type: taxiload.TypeDouble},
	{Name: "improvement_surcharge", Type: taxiload.TypeDouble},
	{Name: "total_amount", Type: taxiload.TypeDouble},
	{Name: "congestion_surcharge", Type: taxiload.TypeDouble},
}

// ZoneColumns are the columns of the taxi zone lookup table.
var ZoneColumns = []taxiload.Column{
	{Name: "LocationID", Type: taxiload.TypeBigInt},
	{Name: "Borough", Type: taxiload.TypeText},
	{Name: "Zone", Type: taxiload.TypeText},
	{Name: "service_zone", Type: taxiload.TypeText},
}

// ZoneRecord is one row of taxi_zone_lookup.csv. Empty cells decode to nil.
type ZoneRecord struct {
	LocationID  *int64  `csv:"LocationID"`
	Borough     *string `csv:"Borough"`
	Zone        *string `csv:"Zone"`
	ServiceZone *string `csv:"service_zone"`
}

// Values returns the record in ZoneColumns order with NULLs as untyped nil.
func (z ZoneRecord) Values() []any {
	return []any{ptrValue(z.LocationID), ptrValue(z.Borough), ptrValue(z.Zone), ptrValue(z.ServiceZone)}
}

func ptrValue[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// ZoneRows converts records to frame rows.
func ZoneRows(records []ZoneRecord) [][]any {
	rows := make([][]any, len(records))
	for i, r := range records {
		rows[i] = r.Values()
	}
	return rows
}

// MissingColumns returns the names in expected that are absent from actual.
func MissingColumns(expected, actual []taxiload.Column) []string {
	have := make(map[string]struct{}, len(actual))
	for _, c := range actual {
		have[c.Name] = struct{}{}
	}

	var missing []string
	for _, c := range expected {
		if _, ok := have[c.Name]; !ok {
			missing = append(missing, c.Name)
		}
	}
	return missing
}
