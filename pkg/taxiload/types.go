package taxiload

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// AWSRegion is required for AuthMethodAWSIAM.
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name (project:region:instance)
	// used by AuthMethodGoogleIAM.
	GoogleInstance string

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID)
	// If all three are provided, Service Principal authentication is used.
	// If none are provided, DefaultAzureCredential chain is used (env vars, managed identity, CLI, etc.)
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}

// ParseAuthMethod maps the --auth flag value to an AuthMethod.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "password":
		return AuthMethodStandard, nil
	case "aws", "aws-iam":
		return AuthMethodAWSIAM, nil
	case "google", "google-iam", "gcp":
		return AuthMethodGoogleIAM, nil
	case "azure", "entra", "azure-entra-id":
		return AuthMethodAzureEntraID, nil
	default:
		return AuthMethodStandard, fmt.Errorf("auth method %q (expected standard, aws-iam, google-iam or azure): %w", s, ErrUnsupportedAuthMethod)
	}
}

// WriteMode selects how a slice is written to its destination table.
type WriteMode int

const (
	// WriteReplace drops any existing table of the same name and recreates it.
	WriteReplace WriteMode = iota
	// WriteAppend inserts into the table, creating it only if it does not exist.
	WriteAppend
)

func (m WriteMode) String() string {
	switch m {
	case WriteReplace:
		return "replace"
	case WriteAppend:
		return "append"
	default:
		return fmt.Sprintf("WriteMode(%d)", m)
	}
}

// ColumnType is the logical type of a destination column.
type ColumnType int

const (
	TypeBigInt ColumnType = iota
	TypeDouble
	TypeText
	TypeBoolean
	TypeTimestamp
	TypeDate
)

// SQL returns the PostgreSQL type used when creating the column.
func (t ColumnType) SQL() string {
	switch t {
	case TypeBigInt:
		return "BIGINT"
	case TypeDouble:
		return "DOUBLE PRECISION"
	case TypeBoolean:
		return "BOOLEAN"
	case TypeTimestamp:
		return "TIMESTAMP WITHOUT TIME ZONE"
	case TypeDate:
		return "DATE"
	default:
		return "TEXT"
	}
}

func (t ColumnType) String() string {
	return strings.ToLower(t.SQL())
}

// Column describes one destination column.
type Column struct {
	Name string
	Type ColumnType
}

// ColumnNames returns the names of cols in order.
func ColumnNames(cols []Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

// RowSource iterates rows for a single write.
// It has the same shape as pgx.CopyFromSource so implementations can be handed to COPY directly.
type RowSource interface {
	Next() bool
	Values() ([]any, error)
	Err() error
}

// WriteRequest is one slice destined for a table.
type WriteRequest struct {
	Table   string
	Mode    WriteMode
	Columns []Column
	Rows    RowSource
}

// TableWriter writes slices to destination tables.
type TableWriter interface {
	// WriteTable writes req.Rows into req.Table using req.Mode and returns the number of rows written.
	WriteTable(ctx context.Context, req WriteRequest) (int64, error)
}

// RowCounter reports table sizes.
type RowCounter interface {
	CountRows(ctx context.Context, table string) (int64, error)
}

// TableStore is the database surface needed by the loaders and the verifier.
type TableStore interface {
	TableWriter
	RowCounter
}

// Fetcher retrieves a whole source file into memory.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// SliceReport describes a slice that has just been written.
type SliceReport struct {
	Table   string
	Index   int
	Mode    WriteMode
	Rows    int64 // rows in this slice
	Written int64 // rows written so far, including this slice
	Total   int64 // rows in the source
}

// LoadResult summarizes a finished load.
type LoadResult struct {
	Table  string
	Rows   int64
	Writes int
}

// ProgressReporter receives progress notifications from a load.
type ProgressReporter interface {
	SliceWritten(r SliceReport)
	Finished(r LoadResult)
}

// TripsConfig contains all parameters needed to load a trip data file.
type TripsConfig struct {
	// Connection is the resolved destination database
	Connection *ConnectionConfig

	// SourceURL is the Parquet file location (http(s)://, s3://, file:// or a path)
	SourceURL string

	// TargetTable is the destination table; replaced by the first slice
	TargetTable string

	// ChunkSize is the maximum number of rows per write
	ChunkSize int64

	// WithIndex prepends the source row position as an "index" column
	WithIndex bool

	// Verbose enables detailed logging
	Verbose bool
}

// Validate checks if the TripsConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *TripsConfig) Validate() error {
	var errs []error

	if c.Connection == nil {
		errs = append(errs, fmt.Errorf("Connection is required: %w", ErrInvalidConfig))
	}
	if c.SourceURL == "" {
		errs = append(errs, fmt.Errorf("SourceURL is required: %w", ErrInvalidConfig))
	}
	if c.TargetTable == "" {
		errs = append(errs, fmt.Errorf("TargetTable is required: %w", ErrInvalidConfig))
	}
	if c.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("ChunkSize must be positive, got %d: %w", c.ChunkSize, ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// ZonesConfig contains all parameters needed to load the zone lookup table.
type ZonesConfig struct {
	Connection  *ConnectionConfig
	SourceURL   string
	TargetTable string
	WithIndex   bool
	Verbose     bool
}

// Validate checks if the ZonesConfig has all required fields.
func (c *ZonesConfig) Validate() error {
	var errs []error

	if c.Connection == nil {
		errs = append(errs, fmt.Errorf("Connection is required: %w", ErrInvalidConfig))
	}
	if c.SourceURL == "" {
		errs = append(errs, fmt.Errorf("SourceURL is required: %w", ErrInvalidConfig))
	}
	if c.TargetTable == "" {
		errs = append(errs, fmt.Errorf("TargetTable is required: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// VerifyConfig contains the row count assertions for a table.
type VerifyConfig struct {
	Connection  *ConnectionConfig
	TargetTable string

	// ExpectedRows is the exact row count to assert; negative disables the equality check.
	ExpectedRows int64

	Verbose bool
}

// Validate checks if the VerifyConfig has all required fields.
func (c *VerifyConfig) Validate() error {
	var errs []error

	if c.Connection == nil {
		errs = append(errs, fmt.Errorf("Connection is required: %w", ErrInvalidConfig))
	}
	if c.TargetTable == "" {
		errs = append(errs, fmt.Errorf("TargetTable is required: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}
