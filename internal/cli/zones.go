package cli

import (
	"github.com/spf13/cobra"

	"github.com/taxiload/taxiload/internal/services"
	"github.com/taxiload/taxiload/internal/tui"
	"github.com/taxiload/taxiload/pkg/taxiload"
)

func newZonesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zones",
		Short: "Load the taxi zone lookup CSV",
		Long: `Download the taxi zone lookup CSV and write it to the target table in a
single write that replaces any existing table.`,
		Args: cobra.NoArgs,
		RunE: runZones,
	}

	f := cmd.Flags()
	f.String("url", taxiload.DefaultZoneURL, "CSV file location: http(s)://, s3://, file:// or a local path")
	f.String("target-table", taxiload.DefaultZoneTable, "Destination table")
	f.Bool("no-index", false, "Do not write the source row position as an \"index\" column")
	return cmd
}

func runZones(cmd *cobra.Command, args []string) error {
	run, err := newRunEnv(cmd)
	if err != nil {
		return err
	}
	defer run.cancel()

	file := run.project.Zones
	url := stringFlag(cmd, "url", firstNonEmpty(file.URL, taxiload.DefaultZoneURL))
	table := stringFlag(cmd, "target-table", firstNonEmpty(file.TargetTable, taxiload.DefaultZoneTable))
	noIndex, _ := cmd.Flags().GetBool("no-index")

	svc := services.NewZoneService(connectorFactory, run.newFetcher(cmd), run.logger, tui.NewZoneReporter(cmd.OutOrStdout()))

	_, err = svc.Load(run.ctx, taxiload.ZonesConfig{
		Connection:  run.conn,
		SourceURL:   url,
		TargetTable: table,
		WithIndex:   !noIndex,
		Verbose:     getVerboseFlag(cmd),
	})
	return err
}
