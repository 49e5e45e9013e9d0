package chunk

import (
	"fmt"

	"github.com/taxiload/taxiload/pkg/taxiload"
)

// Span is a contiguous row range written as one unit.
type Span struct {
	Index int
	Start int64 // inclusive
	End   int64 // exclusive
	Mode  taxiload.WriteMode
}

// Len returns the number of rows in the span.
func (s Span) Len() int64 {
	return s.End - s.Start
}

// Count returns how many spans Plan produces for the given sizes,
// or 0 when Plan would reject them.
func Count(totalRows, chunkSize int64) int {
	if chunkSize <= 0 || totalRows < 0 {
		return 0
	}
	if totalRows == 0 {
		return 1
	}
	return int((totalRows + chunkSize - 1) / chunkSize)
}

// Plan returns the slices covering [0, totalRows) in increasing offset order.
func Plan(totalRows, chunkSize int64) ([]Span, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d: %w", chunkSize, taxiload.ErrInvalidConfig)
	}
	if totalRows < 0 {
		return nil, fmt.Errorf("row count cannot be negative, got %d: %w", totalRows, taxiload.ErrInvalidConfig)
	}

	spans := make([]Span, 0, Count(totalRows, chunkSize))
	spans = append(spans, Span{Index: 0, Start: 0, End: min(chunkSize, totalRows), Mode: taxiload.WriteReplace})

	for start := chunkSize; start < totalRows; start += chunkSize {
		spans = append(spans, Span{
			Index: len(spans),
			Start: start,
			End:   min(start+chunkSize, totalRows),
			Mode:  taxiload.WriteAppend,
		})
	}

	return spans, nil
}
