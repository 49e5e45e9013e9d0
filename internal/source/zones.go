package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/jszwec/csvutil"
	"github.com/taxiload/taxiload/internal/schema"
	"github.com/taxiload/taxiload/pkg/taxiload"
)

// naTokens are the cell values read as NULL, the same set pandas.read_csv
// treats as missing by default. The published lookup file uses "N/A".
var naTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// nullNA maps NA tokens to the empty string, which csvutil decodes into a nil pointer.
func nullNA(field, column string, v any) string {
	if _, ok := naTokens[field]; ok {
		return ""
	}
	return field
}

// ReadZones decodes the taxi zone lookup CSV. The header row must name every ZoneRecord column.
func ReadZones(data []byte) ([]schema.ZoneRecord, error) {
	r := csv.NewReader(bytes.NewReader(data))
	dec, err := csvutil.NewDecoder(r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("zone csv is empty: %w", taxiload.ErrDecodeFailed)
		}
		return nil, fmt.Errorf("zone csv header: %w: %w", taxiload.ErrDecodeFailed, err)
	}
	dec.DisallowMissingColumns = true
	dec.Map = nullNA

	var records []schema.ZoneRecord
	for {
		var rec schema.ZoneRecord
		if err := dec.Decode(&rec); errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("zone csv line %d: %w: %w", len(records)+2, taxiload.ErrDecodeFailed, err)
		}
		records = append(records, rec)
	}

	return records, nil
}
