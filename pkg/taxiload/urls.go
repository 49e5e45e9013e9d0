package taxiload

import (
	"fmt"
	"strings"
)

// TaxiTypes lists the trip record families published by the TLC.
var TaxiTypes = []string{"yellow", "green", "fhv", "fhvhv"}

// TripDataURL builds the monthly trip file URL, e.g.
// https://d37ci6vzurychx.cloudfront.net/trip-data/yellow_tripdata_2021-01.parquet
func TripDataURL(prefix, taxi string, year, month int) (string, error) {
	if !isTaxiType(taxi) {
		return "", fmt.Errorf("taxi type %q (expected one of %s): %w", taxi, strings.Join(TaxiTypes, ", "), ErrInvalidConfig)
	}
	if year < 2009 || year > 2100 {
		return "", fmt.Errorf("year %d out of range: %w", year, ErrInvalidConfig)
	}
	if month < 1 || month > 12 {
		return "", fmt.Errorf("month %d out of range 1-12: %w", month, ErrInvalidConfig)
	}
	return fmt.Sprintf("%s/%s_tripdata_%04d-%02d.parquet", strings.TrimRight(prefix, "/"), taxi, year, month), nil
}

func isTaxiType(taxi string) bool {
	for _, t := range TaxiTypes {
		if t == taxi {
			return true
		}
	}
	return false
}
