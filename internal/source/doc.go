// Package source fetches whole source files into memory and decodes them.
//
// Supported locations:
//   - http:// and https:// URLs (GET, non-2xx responses are errors)
//   - s3://bucket/key objects (AWS default credential chain or static keys)
//   - file:// URLs and plain filesystem paths
//
// Parquet files decode into an Arrow-backed frame; the zone lookup CSV
// decodes into schema.ZoneRecord values.
package source
