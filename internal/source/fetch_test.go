package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxiload/taxiload/internal/logging"
	"github.com/taxiload/taxiload/pkg/taxiload"
)

func newTestFetcher() *Fetcher {
	return NewFetcher(nil, ObjectStorageOptions{}, logging.NewNullLogger())
}

func TestFetch_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/misc/taxi_zone_lookup.csv" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(zonesCSV))
	}))
	defer srv.Close()

	f := newTestFetcher()

	data, err := f.Fetch(context.Background(), srv.URL+"/misc/taxi_zone_lookup.csv")
	require.NoError(t, err)
	assert.Equal(t, zonesCSV, string(data))

	_, err = f.Fetch(context.Background(), srv.URL+"/missing.csv")
	assert.ErrorIs(t, err, taxiload.ErrFetchFailed)
	assert.Contains(t, err.Error(), "404")
}

func TestFetch_HTTPCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestFetcher().Fetch(ctx, srv.URL)
	assert.ErrorIs(t, err, taxiload.ErrFetchFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetch_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zones.csv")
	require.NoError(t, os.WriteFile(path, []byte(zonesCSV), 0644))

	f := newTestFetcher()

	data, err := f.Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, zonesCSV, string(data))

	data, err = f.Fetch(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, zonesCSV, string(data))

	_, err = f.Fetch(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, taxiload.ErrFetchFailed)
}

func TestFetch_UnsupportedScheme(t *testing.T) {
	_, err := newTestFetcher().Fetch(context.Background(), "ftp://example.com/trips.parquet")
	assert.ErrorIs(t, err, taxiload.ErrUnsupportedSource)
}

func TestFetch_S3LocationNeedsKey(t *testing.T) {
	_, err := newTestFetcher().Fetch(context.Background(), "s3://bucket-only")
	assert.ErrorIs(t, err, taxiload.ErrUnsupportedSource)
}
