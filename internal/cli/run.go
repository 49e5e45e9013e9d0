package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/taxiload/taxiload/internal/config"
	"github.com/taxiload/taxiload/internal/db"
	"github.com/taxiload/taxiload/internal/logging"
	"github.com/taxiload/taxiload/internal/source"
	"github.com/taxiload/taxiload/internal/tui"
	"github.com/taxiload/taxiload/pkg/taxiload"
)

// runEnv is everything a command needs once flags, environment and the
// config file have been merged.
type runEnv struct {
	ctx     context.Context
	cancel  context.CancelFunc
	logger  *logging.ConsoleLogger
	project *config.ProjectConfig
	conn    *taxiload.ConnectionConfig
	runID   string
}

// newRunEnv resolves the connection and sets up the run context.
// Callers must call cancel.
func newRunEnv(cmd *cobra.Command) (*runEnv, error) {
	verbose := getVerboseFlag(cmd)

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	project, err := loadProjectConfig(cmd)
	if err != nil {
		return nil, err
	}

	conn, err := db.ResolveConnectionParams(connFlagsFromCmd(cmd), db.LoadFromEnvironment(), project)
	if err != nil {
		return nil, err
	}

	timeout, err := resolveTimeout(cmd, project)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()[:8]
	conn.AppName = fmt.Sprintf("%s-%s", taxiload.AppName, runID)

	logger := logging.NewWriterLogger(cmd.ErrOrStderr(), verbose).WithRunID(runID)
	logger.Verbose("Target database: %s", db.Redact(conn))

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	cancel := stop
	if timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, timeout)
		cancel = func() {
			cancelTimeout()
			stop()
		}
	}

	return &runEnv{
		ctx:     ctx,
		cancel:  cancel,
		logger:  logger,
		project: project,
		conn:    conn,
		runID:   runID,
	}, nil
}

// newFetcher returns the source fetcher, animated on stderr when it is a terminal.
func (r *runEnv) newFetcher(cmd *cobra.Command) taxiload.Fetcher {
	opts := source.ObjectStorageOptions{
		Endpoint:     stringFlag(cmd, "s3-endpoint", r.project.S3.Endpoint),
		Region:       stringFlag(cmd, "s3-region", r.project.S3.Region),
		UsePathStyle: r.project.S3.PathStyle,
	}
	if cmd.Flags().Changed("s3-path-style") {
		opts.UsePathStyle, _ = cmd.Flags().GetBool("s3-path-style")
	}

	fetcher := source.NewFetcher(&http.Client{}, opts, r.logger)
	errOut := cmd.ErrOrStderr()
	return tui.WithSpinner(fetcher, errOut, tui.DetectMode(errOut))
}

// loadDotEnv loads path into the environment when it exists.
// Variables already set are not overridden.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w: %w", path, taxiload.ErrInvalidConfig, err)
	}
	return nil
}

// loadProjectConfig reads --config, or ./taxiload.yaml when present.
// It always returns a non-nil config when err is nil.
func loadProjectConfig(cmd *cobra.Command) (*config.ProjectConfig, error) {
	path, _ := cmd.Flags().GetString("config")

	var (
		pc  *config.ProjectConfig
		err error
	)
	if path != "" {
		pc, err = config.LoadFile(path)
	} else {
		pc, err = config.Load(".")
		if errors.Is(err, config.ErrConfigNotFound) {
			return &config.ProjectConfig{}, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", taxiload.ErrInvalidConfig, err)
	}
	return pc, nil
}

// resolveTimeout returns --timeout when set, else the config file's timeout,
// else the default.
func resolveTimeout(cmd *cobra.Command, pc *config.ProjectConfig) (time.Duration, error) {
	if cmd.Flags().Changed("timeout") {
		return cmd.Flags().GetDuration("timeout")
	}
	if pc == nil || pc.Timeout == "" {
		return taxiload.DefaultTimeout, nil
	}
	d, err := pc.TimeoutDuration()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", taxiload.ErrInvalidConfig, err)
	}
	return d, nil
}

// connFlagsFromCmd collects only the connection flags the user set, so the
// resolver can fall back to the environment and the config file.
func connFlagsFromCmd(cmd *cobra.Command) *db.ConnFlags {
	flags := &db.ConnFlags{
		Connection:     stringFlag(cmd, "connection", ""),
		Host:           stringFlag(cmd, "pg-host", ""),
		Username:       stringFlag(cmd, "pg-user", ""),
		Password:       stringFlag(cmd, "pg-pass", ""),
		Database:       stringFlag(cmd, "pg-db", ""),
		SSLMode:        stringFlag(cmd, "sslmode", ""),
		Auth:           stringFlag(cmd, "auth", ""),
		AWSRegion:      stringFlag(cmd, "aws-region", ""),
		GoogleInstance: stringFlag(cmd, "google-instance", ""),
		AzureTenantID:  stringFlag(cmd, "azure-tenant-id", ""),
		AzureClientID:  stringFlag(cmd, "azure-client-id", ""),
	}
	if cmd.Flags().Changed("pg-port") {
		flags.Port, _ = cmd.Flags().GetInt("pg-port")
	}
	return flags
}

// stringFlag returns the flag value when the user set it, else fallback.
func stringFlag(cmd *cobra.Command, name, fallback string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return fallback
}

func intFlag(cmd *cobra.Command, name string, fileValue, def int) int {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetInt(name)
		return v
	}
	if fileValue != 0 {
		return fileValue
	}
	return def
}
