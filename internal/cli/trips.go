package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taxiload/taxiload/internal/config"
	"github.com/taxiload/taxiload/internal/services"
	"github.com/taxiload/taxiload/internal/tui"
	"github.com/taxiload/taxiload/pkg/taxiload"
)

func newTripsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trips",
		Short: "Load a TLC trip record Parquet file",
		Long: `Download a trip record Parquet file, read it fully into memory, and write it
to the target table in slices of --chunksize rows. The first slice replaces
the table; later slices append to it.

Without --url the file is chosen by --taxi, --year and --month from the
TLC distribution point.`,
		Example: `  taxiload trips
  taxiload trips --taxi green --year 2019 --month 10 --target-table green_taxi_data
  taxiload trips --url ./yellow_tripdata_2021-01.parquet --chunksize 50000
  taxiload trips --url s3://tlc/trip-data/yellow_tripdata_2021-01.parquet --s3-region us-east-1`,
		Args: cobra.NoArgs,
		RunE: runTrips,
	}

	f := cmd.Flags()
	f.String("url", "", "Parquet file location: http(s)://, s3://, file:// or a local path")
	f.String("taxi", taxiload.DefaultTaxiType, "Taxi type: yellow, green, fhv or fhvhv")
	f.Int("year", taxiload.DefaultYear, "Year of the trip file")
	f.Int("month", taxiload.DefaultMonth, "Month of the trip file (1-12)")
	f.Int64("chunksize", taxiload.DefaultChunkSize, "Rows per write")
	f.String("target-table", taxiload.DefaultTripTable, "Destination table")
	f.Bool("no-index", false, "Do not write the source row position as an \"index\" column")

	cmd.RegisterFlagCompletionFunc("taxi", completeTaxiTypes) //nolint:errcheck
	return cmd
}

// tripOptions are the trip settings after merging flags and the config file.
type tripOptions struct {
	url       string
	table     string
	chunkSize int64
}

func resolveTripOptions(cmd *cobra.Command, pc *config.ProjectConfig) (tripOptions, error) {
	file := pc.Trips
	opts := tripOptions{
		url:   stringFlag(cmd, "url", file.URL),
		table: stringFlag(cmd, "target-table", firstNonEmpty(file.TargetTable, taxiload.DefaultTripTable)),
	}

	switch {
	case cmd.Flags().Changed("chunksize"):
		opts.chunkSize, _ = cmd.Flags().GetInt64("chunksize")
	case file.ChunkSize != 0:
		opts.chunkSize = file.ChunkSize
	default:
		opts.chunkSize = taxiload.DefaultChunkSize
	}
	if opts.chunkSize <= 0 {
		return opts, fmt.Errorf("--chunksize must be positive, got %d: %w", opts.chunkSize, taxiload.ErrInvalidConfig)
	}

	// An explicit --taxi/--year/--month picks a file even when the config has a url.
	picked := cmd.Flags().Changed("taxi") || cmd.Flags().Changed("year") || cmd.Flags().Changed("month")
	if opts.url == "" || (picked && !cmd.Flags().Changed("url")) {
		taxi := stringFlag(cmd, "taxi", firstNonEmpty(file.Taxi, taxiload.DefaultTaxiType))
		year := intFlag(cmd, "year", file.Year, taxiload.DefaultYear)
		month := intFlag(cmd, "month", file.Month, taxiload.DefaultMonth)

		url, err := taxiload.TripDataURL(taxiload.DefaultTripURLPrefix, taxi, year, month)
		if err != nil {
			return opts, err
		}
		opts.url = url
	}
	return opts, nil
}

func runTrips(cmd *cobra.Command, args []string) error {
	run, err := newRunEnv(cmd)
	if err != nil {
		return err
	}
	defer run.cancel()

	opts, err := resolveTripOptions(cmd, run.project)
	if err != nil {
		return err
	}
	noIndex, _ := cmd.Flags().GetBool("no-index")

	out := cmd.OutOrStdout()
	svc := services.NewTripService(connectorFactory, run.newFetcher(cmd), run.logger, tui.NewTripReporter(out, tui.DetectMode(out)))

	run.logger.Verbose("Source: %s", opts.url)
	_, err = svc.Load(run.ctx, taxiload.TripsConfig{
		Connection:  run.conn,
		SourceURL:   opts.url,
		TargetTable: opts.table,
		ChunkSize:   opts.chunkSize,
		WithIndex:   !noIndex,
		Verbose:     getVerboseFlag(cmd),
	})
	return err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
