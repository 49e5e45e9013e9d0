package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/taxiload/taxiload/internal/db"
	"github.com/taxiload/taxiload/pkg/taxiload"
)

// connectorFactory builds the connector for the resolved auth method.
// Tests replace it to run commands without a database.
var connectorFactory taxiload.ConnectorFactory = db.NewConnector

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taxiload",
		Short: "Load NYC taxi trip and zone data into PostgreSQL",
		Long: `taxiload downloads NYC TLC trip record files (Parquet) and the taxi zone
lookup table (CSV), reads them fully into memory, and writes them to
PostgreSQL. Trip files are written in slices: the first slice replaces the
target table and every later slice appends to it.

Connection settings are read from flags, then the libpq environment
(PGHOST, PGPORT, PGUSER, PGPASSWORD, PGDATABASE, PGSSLMODE, DATABASE_URL),
then taxiload.yaml, then defaults. A .env file in the working directory is
loaded first.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - Database connection failed
  12 - Source file could not be fetched
  13 - Source file could not be decoded
  14 - Writing a slice failed
  15 - Row count verification failed`,
		SilenceUsage: true,
	}

	addGlobalFlags(cmd)
	cmd.AddCommand(newTripsCmd(), newZonesCmd(), newVerifyCmd(), newVersionCmd())
	return cmd
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}
	return rootCmd.Execute()
}

func addGlobalFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.BoolP("verbose", "v", false, "Enable verbose output for all commands")
	f.String("config", "", "Path to a taxiload.yaml (default: ./taxiload.yaml when present)")
	f.Duration("timeout", taxiload.DefaultTimeout, "Abort the run after this long (default: no limit)")

	f.String("connection", "", "Full PostgreSQL connection string (exclusive with --pg-host, --pg-port, --pg-user, --pg-pass)")
	f.String("pg-host", taxiload.DefaultPGHost, "PostgreSQL host")
	f.Int("pg-port", taxiload.DefaultPGPort, "PostgreSQL port")
	f.String("pg-user", taxiload.DefaultPGUser, "PostgreSQL user")
	f.String("pg-pass", taxiload.DefaultPGPassword, "PostgreSQL password")
	f.String("pg-db", taxiload.DefaultPGDatabase, "PostgreSQL database")
	f.String("sslmode", "", "SSL mode (disable, allow, prefer, require, verify-ca, verify-full)")

	f.String("auth", "", "Authentication method: standard, aws-iam, google-iam or azure")
	f.String("aws-region", "", "AWS region for RDS IAM authentication (default: $AWS_REGION)")
	f.String("google-instance", "", "Cloud SQL instance connection name (project:region:instance)")
	f.String("azure-tenant-id", "", "Azure tenant ID (default: $AZURE_TENANT_ID)")
	f.String("azure-client-id", "", "Azure client ID (default: $AZURE_CLIENT_ID)")

	f.String("s3-endpoint", "", "Endpoint for s3:// sources (S3-compatible storage)")
	f.String("s3-region", "", "Region for s3:// sources (default: AWS config)")
	f.Bool("s3-path-style", false, "Use path-style addressing for s3:// sources")

	cmd.RegisterFlagCompletionFunc("sslmode", completeSSLModes) //nolint:errcheck
	cmd.RegisterFlagCompletionFunc("auth", completeAuthMethods) //nolint:errcheck
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
