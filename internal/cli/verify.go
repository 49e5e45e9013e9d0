package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taxiload/taxiload/internal/services"
	"github.com/taxiload/taxiload/pkg/taxiload"
)

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that a loaded table has rows",
		Long: `Count the rows of --target-table. Fails with exit code 15 when the table is
empty, or when --expect-rows is given and the count differs.`,
		Example: `  taxiload verify --target-table zones_green
  taxiload verify --target-table yellow_taxi_data --expect-rows 1369765`,
		Args: cobra.NoArgs,
		RunE: runVerify,
	}

	cmd.Flags().String("target-table", "", "Table to count")
	cmd.Flags().Int64("expect-rows", -1, "Exact row count to require (-1 only requires a non-empty table)")
	cmd.MarkFlagRequired("target-table") //nolint:errcheck
	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	run, err := newRunEnv(cmd)
	if err != nil {
		return err
	}
	defer run.cancel()

	table, _ := cmd.Flags().GetString("target-table")
	expected, _ := cmd.Flags().GetInt64("expect-rows")

	count, err := services.NewVerifyService(connectorFactory, run.logger).Verify(run.ctx, taxiload.VerifyConfig{
		Connection:   run.conn,
		TargetTable:  table,
		ExpectedRows: expected,
		Verbose:      getVerboseFlag(cmd),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Table %s has %d rows\n", table, count)
	return nil
}
