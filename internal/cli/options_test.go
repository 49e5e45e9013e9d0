package cli

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxiload/taxiload/internal/config"
	"github.com/taxiload/taxiload/pkg/taxiload"
)

// parsedCmd returns cmd with args parsed the way cobra would before RunE.
func parsedCmd(t *testing.T, cmd *cobra.Command, args ...string) *cobra.Command {
	t.Helper()
	root := &cobra.Command{Use: "taxiload"}
	addGlobalFlags(root)
	root.AddCommand(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestResolveTripOptions(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		file    config.TripsConfig
		want    tripOptions
		wantErr error
	}{
		{
			name: "defaults",
			want: tripOptions{
				url:       "https://d37ci6vzurychx.cloudfront.net/trip-data/yellow_tripdata_2021-01.parquet",
				table:     "yellow_taxi_data",
				chunkSize: 100000,
			},
		},
		{
			name: "taxi, year and month flags",
			args: []string{"--taxi", "green", "--year", "2019", "--month", "10", "--target-table", "green_taxi_data"},
			want: tripOptions{
				url:       "https://d37ci6vzurychx.cloudfront.net/trip-data/green_tripdata_2019-10.parquet",
				table:     "green_taxi_data",
				chunkSize: 100000,
			},
		},
		{
			name: "url flag wins over taxi flags",
			args: []string{"--url", "./trips.parquet", "--taxi", "green", "--chunksize", "500"},
			want: tripOptions{url: "./trips.parquet", table: "yellow_taxi_data", chunkSize: 500},
		},
		{
			name: "config file values",
			file: config.TripsConfig{Taxi: "fhv", Year: 2020, Month: 3, TargetTable: "fhv", ChunkSize: 2000},
			want: tripOptions{
				url:       "https://d37ci6vzurychx.cloudfront.net/trip-data/fhv_tripdata_2020-03.parquet",
				table:     "fhv",
				chunkSize: 2000,
			},
		},
		{
			name: "config url",
			file: config.TripsConfig{URL: "s3://tlc/yellow.parquet"},
			want: tripOptions{url: "s3://tlc/yellow.parquet", table: "yellow_taxi_data", chunkSize: 100000},
		},
		{
			name: "month flag overrides config url",
			args: []string{"--month", "2"},
			file: config.TripsConfig{URL: "s3://tlc/yellow.parquet"},
			want: tripOptions{
				url:       "https://d37ci6vzurychx.cloudfront.net/trip-data/yellow_tripdata_2021-02.parquet",
				table:     "yellow_taxi_data",
				chunkSize: 100000,
			},
		},
		{name: "flags override config", args: []string{"--chunksize", "10"}, file: config.TripsConfig{ChunkSize: 2000, URL: "x.parquet"},
			want: tripOptions{url: "x.parquet", table: "yellow_taxi_data", chunkSize: 10}},
		{name: "month out of range", args: []string{"--month", "13"}, wantErr: taxiload.ErrInvalidConfig},
		{name: "unknown taxi", args: []string{"--taxi", "limo"}, wantErr: taxiload.ErrInvalidConfig},
		{name: "zero chunk size", args: []string{"--chunksize", "0"}, wantErr: taxiload.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := parsedCmd(t, newTripsCmd(), tt.args...)

			got, err := resolveTripOptions(cmd, &config.ProjectConfig{Trips: tt.file})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConnFlagsFromCmd_OnlyChangedFlags(t *testing.T) {
	cmd := parsedCmd(t, newTripsCmd(), "--pg-host", "db.internal", "--pg-port", "6432", "--auth", "aws-iam")

	flags := connFlagsFromCmd(cmd)
	assert.Equal(t, "db.internal", flags.Host)
	assert.Equal(t, 6432, flags.Port)
	assert.Equal(t, "aws-iam", flags.Auth)
	assert.Empty(t, flags.Username, "defaults shown in help are not passed as if set")
	assert.Empty(t, flags.Password)
	assert.Empty(t, flags.Database)
}

func TestResolveTimeout(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		file    string
		want    time.Duration
		wantErr bool
	}{
		{name: "no limit by default", want: 0},
		{name: "config file", file: "45s", want: 45 * time.Second},
		{name: "flag wins", args: []string{"--timeout", "2m"}, file: "45s", want: 2 * time.Minute},
		{name: "flag zero disables", args: []string{"--timeout", "0"}, want: 0},
		{name: "invalid config value", file: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := parsedCmd(t, newVerifyCmd(), tt.args...)

			got, err := resolveTimeout(cmd, &config.ProjectConfig{Timeout: tt.file})
			if tt.wantErr {
				assert.ErrorIs(t, err, taxiload.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchPrefix(t *testing.T) {
	assert.Equal(t, []string{"fhv", "fhvhv"}, matchPrefix(taxiload.TaxiTypes, "fh"))
	assert.Equal(t, []string{"verify-ca", "verify-full"}, matchPrefix(sslModes, "verify"))
	assert.Nil(t, matchPrefix(authMethods, "kerberos"))
}
