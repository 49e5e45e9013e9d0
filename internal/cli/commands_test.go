package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxiload/taxiload/pkg/taxiload"
)

const zonesCSV = `"LocationID","Borough","Zone","service_zone"
1,"EWR","Newark Airport","EWR"
2,"Queens","Jamaica Bay","Boro Zone"
3,"Bronx","Allerton/Pelham Gardens","Boro Zone"
4,"Manhattan","Alphabet City","Yellow Zone"
5,"Staten Island","Arden Heights","Boro Zone"
`

// execute runs a fresh command tree in an empty working directory with the
// connection environment cleared.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	t.Chdir(t.TempDir())
	for _, name := range []string{"DATABASE_URL", "PGHOST", "PGPORT", "PGUSER", "PGPASSWORD", "PGDATABASE", "PGSSLMODE"} {
		t.Setenv(name, "")
	}

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

type refusingConnector struct{ host string }

func (c refusingConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	return nil, fmt.Errorf("failed to connect to %s: %w", c.host, taxiload.ErrConnectionFailed)
}

// withRefusingConnector makes every command fail at connect time.
func withRefusingConnector(t *testing.T) {
	t.Helper()
	orig := connectorFactory
	connectorFactory = func(cfg *taxiload.ConnectionConfig, logger taxiload.Logger) (taxiload.Connector, error) {
		return refusingConnector{host: cfg.Host}, nil
	}
	t.Cleanup(func() { connectorFactory = orig })
}

func TestCommands_ExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unexpected argument", []string{"trips", "extra"}, taxiload.ExitUsageError},
		{"unknown flag", []string{"zones", "--bogus"}, taxiload.ExitUsageError},
		{"verify without table", []string{"verify"}, taxiload.ExitUsageError},
		{"connection with granular flags", []string{"verify", "--target-table", "t", "--connection", "postgresql://u@h/db", "--pg-host", "other"}, taxiload.ExitConfigError},
		{"invalid month", []string{"trips", "--month", "13"}, taxiload.ExitConfigError},
		{"unknown auth method", []string{"verify", "--target-table", "t", "--auth", "kerberos"}, taxiload.ExitConfigError},
		{"missing config file", []string{"verify", "--target-table", "t", "--config", "nope.yaml"}, taxiload.ExitConfigError},
		{"missing local source", []string{"trips", "--url", "does-not-exist.parquet"}, taxiload.ExitFetchError},
		{"unsupported scheme", []string{"zones", "--url", "ftp://example.com/zones.csv"}, taxiload.ExitConfigError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withRefusingConnector(t)

			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.want, taxiload.ExitCodeForError(err), "error: %v", err)
		})
	}
}

func TestZonesCmd_ConnectionFailureAfterFetch(t *testing.T) {
	withRefusingConnector(t)
	path := filepath.Join(t.TempDir(), "taxi_zone_lookup.csv")
	require.NoError(t, os.WriteFile(path, []byte(zonesCSV), 0o644))

	stdout, _, err := execute(t, "zones", "--url", path, "--pg-host", "db.invalid")
	require.Error(t, err)
	assert.Equal(t, taxiload.ExitConnectionError, taxiload.ExitCodeForError(err))
	assert.Contains(t, err.Error(), "db.invalid")
	assert.Empty(t, stdout, "no progress line before a write")
}

func TestCommands_ConfigFileSuppliesConnection(t *testing.T) {
	var seen *taxiload.ConnectionConfig
	orig := connectorFactory
	connectorFactory = func(cfg *taxiload.ConnectionConfig, logger taxiload.Logger) (taxiload.Connector, error) {
		seen = cfg
		return refusingConnector{host: cfg.Host}, nil
	}
	t.Cleanup(func() { connectorFactory = orig })

	cfgPath := filepath.Join(t.TempDir(), "taxiload.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
connection:
  host: warehouse.internal
  port: 6543
  database: tlc
`), 0o644))

	_, _, err := execute(t, "verify", "--target-table", "zones_green", "--config", cfgPath, "--pg-user", "loader")
	require.Error(t, err)

	require.NotNil(t, seen)
	assert.Equal(t, "warehouse.internal", seen.Host)
	assert.Equal(t, 6543, seen.Port)
	assert.Equal(t, "tlc", seen.Database)
	assert.Equal(t, "loader", seen.Username)
	assert.Regexp(t, `^taxiload-[0-9a-f]{8}$`, seen.AppName)
}

func TestVersionCmd(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "taxiload ")
}
