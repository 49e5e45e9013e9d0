package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxiload/taxiload/pkg/taxiload"
)

func reportSlices(r taxiload.ProgressReporter, table string, sizes ...int64) {
	var total, written int64
	for _, n := range sizes {
		total += n
	}
	for i, n := range sizes {
		written += n
		mode := taxiload.WriteAppend
		if i == 0 {
			mode = taxiload.WriteReplace
		}
		r.SliceWritten(taxiload.SliceReport{Table: table, Index: i, Mode: mode, Rows: n, Written: written, Total: total})
	}
	r.Finished(taxiload.LoadResult{Table: table, Rows: total, Writes: len(sizes)})
}

func TestTripReporter_PlainLines(t *testing.T) {
	var buf bytes.Buffer
	reportSlices(NewTripReporter(&buf, ModePlain), "yellow_taxi_data", 100000, 100000, 50000)

	assert.Equal(t, `Table yellow_taxi_data created
Inserted first chunk: 100000
Inserted chunk: 100000
Inserted chunk: 50000
Done ingesting 250000 rows to yellow_taxi_data
`, buf.String())
}

func TestTripReporter_EmptySource(t *testing.T) {
	var buf bytes.Buffer
	reportSlices(NewTripReporter(&buf, ModePlain), "t", 0)

	assert.Equal(t, "Table t created\nInserted first chunk: 0\nDone ingesting 0 rows to t\n", buf.String())
}

func TestTripReporter_TerminalAddsBar(t *testing.T) {
	var buf bytes.Buffer
	reportSlices(NewTripReporter(&buf, ModeTerminal), "yellow_taxi_data", 10, 10)

	out := buf.String()
	assert.Contains(t, out, "20/20 rows")
	assert.Contains(t, out, "Inserted chunk: 10\n")
	assert.Equal(t, 1, strings.Count(out, "/20 rows"), "one bar per appended chunk")
}

func TestZoneReporter(t *testing.T) {
	var buf bytes.Buffer
	reportSlices(NewZoneReporter(&buf), "zones_green", 265)

	assert.Equal(t, "Inserted 265 rows to 'zones_green'\n", buf.String())
}

func TestFraction(t *testing.T) {
	assert.Equal(t, 1.0, fraction(0, 0))
	assert.Equal(t, 0.5, fraction(5, 10))
}

func TestRunWithSpinner_PlainRunsFunction(t *testing.T) {
	var buf bytes.Buffer
	boom := errors.New("boom")

	err := RunWithSpinner(context.Background(), &buf, ModePlain, "Downloading", func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, buf.String())

	called := false
	require.NoError(t, RunWithSpinner(context.Background(), &buf, ModePlain, "Downloading", func(ctx context.Context) error {
		called = true
		return nil
	}))
	assert.True(t, called)
}

func TestDetectMode_NonFileIsPlain(t *testing.T) {
	assert.Equal(t, ModePlain, DetectMode(&bytes.Buffer{}))
}

func TestDetectMode_EnvOverride(t *testing.T) {
	t.Setenv("TAXILOAD_NO_PROGRESS", "1")
	assert.Equal(t, ModePlain, DetectMode(nil))
}

type stubFetcher struct{ data []byte }

func (f stubFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	return f.data, nil
}

func TestWithSpinner_PassesThrough(t *testing.T) {
	var buf bytes.Buffer
	f := WithSpinner(stubFetcher{data: []byte("parquet")}, &buf, ModePlain)

	data, err := f.Fetch(context.Background(), "https://example.com/x.parquet")
	require.NoError(t, err)
	assert.Equal(t, []byte("parquet"), data)
}
