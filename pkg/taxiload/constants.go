package taxiload

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess            = 0  // Load or verification completed successfully
	ExitGeneralError       = 1  // Unknown or unclassified error
	ExitUsageError         = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic              = 3  // Internal panic (unexpected crash)
	ExitConfigError        = 10 // Invalid configuration or parameters
	ExitConnectionError    = 11 // Failed to connect to database
	ExitFetchError         = 12 // Source file could not be fetched
	ExitDecodeError        = 13 // Source file could not be decoded
	ExitWriteError         = 14 // Writing a slice to the database failed
	ExitVerificationFailed = 15 // Row count check failed
)

const (
	// DefaultChunkSize is the number of rows written per slice by the trip loader.
	DefaultChunkSize = 100000

	// DefaultTripTable is the destination table of the trip loader.
	DefaultTripTable = "yellow_taxi_data"

	// DefaultZoneTable is the destination table of the zone lookup loader.
	DefaultZoneTable = "zones_green"

	// DefaultTripURLPrefix is the public NYC TLC trip record distribution point.
	DefaultTripURLPrefix = "https://d37ci6vzurychx.cloudfront.net/trip-data"

	// DefaultZoneURL is the taxi zone lookup CSV.
	DefaultZoneURL = "https://github.com/DataTalksClub/nyc-tlc-data/releases/download/misc/taxi_zone_lookup.csv"

	// DefaultTaxiType, DefaultYear and DefaultMonth select the trip file when no URL is given.
	DefaultTaxiType = "yellow"
	DefaultYear     = 2021
	DefaultMonth    = 1

	// IndexColumn holds the 0-based source row position of every written row.
	IndexColumn = "index"
)

// Connection defaults, matching the local docker-compose Postgres used for the homework.
const (
	DefaultPGUser     = "root"
	DefaultPGPassword = "root"
	DefaultPGHost     = "localhost"
	DefaultPGPort     = 5432
	DefaultPGDatabase = "ny_taxi"
)

const (
	// DefaultTimeout bounds a whole run. Zero disables the bound; only
	// --timeout or the config file turn it on.
	DefaultTimeout time.Duration = 0

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of connection retry attempts.
	DefaultRetryMaxAttempts = 3

	// AppName is reported to PostgreSQL as application_name.
	AppName = "taxiload"
)
