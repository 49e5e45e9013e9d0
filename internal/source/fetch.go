package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/taxiload/taxiload/pkg/taxiload"
)

// Fetcher implements taxiload.Fetcher over HTTP, S3 and the local filesystem.
type Fetcher struct {
	client    *http.Client
	s3Options ObjectStorageOptions
	logger    taxiload.Logger

	s3Once    sync.Once
	s3Storage *ObjectStorage
	s3Err     error
}

// NewFetcher creates a Fetcher. The S3 client is created on first use of an s3:// location.
func NewFetcher(client *http.Client, s3Options ObjectStorageOptions, logger taxiload.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{
		client:    client,
		s3Options: s3Options,
		logger:    logger,
	}
}

// Fetch reads the whole object at location.
func (f *Fetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("invalid source location %q: %w", location, taxiload.ErrUnsupportedSource)
	}

	var data []byte
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		data, err = f.fetchHTTP(ctx, location)
	case "s3":
		data, err = f.fetchS3(ctx, u.Host, strings.TrimPrefix(u.Path, "/"))
	case "file":
		data, err = f.fetchFile(u.Path)
	case "":
		data, err = f.fetchFile(location)
	default:
		return nil, fmt.Errorf("scheme %q in %q: %w", u.Scheme, location, taxiload.ErrUnsupportedSource)
	}
	if err != nil {
		return nil, err
	}

	f.logger.Verbose("Fetched %d bytes from %s", len(data), location)
	return data, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, location string) ([]byte, error) {
	f.logger.Verbose("GET %s", location)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", location, taxiload.ErrFetchFailed)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w: %w", location, taxiload.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: unexpected status %s: %w", location, resp.Status, taxiload.ErrFetchFailed)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w: %w", location, taxiload.ErrFetchFailed, err)
	}
	return data, nil
}

func (f *Fetcher) fetchS3(ctx context.Context, bucket, key string) ([]byte, error) {
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("s3 location needs bucket and key (s3://bucket/key): %w", taxiload.ErrUnsupportedSource)
	}

	f.s3Once.Do(func() {
		f.s3Storage, f.s3Err = NewObjectStorage(ctx, f.logger, f.s3Options)
	})
	if f.s3Err != nil {
		return nil, fmt.Errorf("create s3 client: %w: %w", taxiload.ErrFetchFailed, f.s3Err)
	}

	data, err := f.s3Storage.Download(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("download s3://%s/%s: %w: %w", bucket, key, taxiload.ErrFetchFailed, err)
	}
	return data, nil
}

func (f *Fetcher) fetchFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %w", path, taxiload.ErrFetchFailed, err)
	}
	return data, nil
}

var _ taxiload.Fetcher = (*Fetcher)(nil)
