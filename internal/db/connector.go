package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taxiload/taxiload/internal/retry"
	"github.com/taxiload/taxiload/pkg/taxiload"
)

const (
	// MaxConns is 1: a load holds one exclusive session for its whole run.
	MaxConns = 1

	// MaxConnIdleTime keeps the session open while the next slice is prepared.
	MaxConnIdleTime = 30 * time.Minute
)

func configurePool(poolConfig *pgxpool.Config) {
	poolConfig.MaxConns = MaxConns
	poolConfig.MinConns = 0
	poolConfig.MaxConnIdleTime = MaxConnIdleTime
}

func newRetryExecutor(logger taxiload.Logger) *retry.Executor {
	strategy := retry.NewExponentialBackoff(taxiload.DefaultRetryMaxAttempts,
		retry.WithInitialDelay(taxiload.DefaultRetryInitialDelay),
		retry.WithMaxDelay(taxiload.DefaultRetryMaxDelay),
	)
	return retry.NewExecutor(retry.NewPostgreSQLErrorClassifier(), strategy).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			logger.Verbose("Connection attempt %d failed, retrying in %v: %v", attempt+1, delay.Round(time.Millisecond), err)
		})
}

// openPool creates and pings a pool for connStr.
func openPool(ctx context.Context, connStr string, cfg *taxiload.ConnectionConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w: %w", taxiload.ErrInvalidConfig, err)
	}
	configurePool(poolConfig)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, wrapConnectionError(err, cfg)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, wrapConnectionError(err, cfg)
	}
	return pool, nil
}

// StandardConnector connects with username/password, retrying transient failures.
type StandardConnector struct {
	config        *taxiload.ConnectionConfig
	logger        taxiload.Logger
	retryExecutor *retry.Executor
}

func NewStandardConnector(config *taxiload.ConnectionConfig, logger taxiload.Logger) *StandardConnector {
	return &StandardConnector{
		config:        config,
		logger:        logger,
		retryExecutor: newRetryExecutor(logger),
	}
}

func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	connStr := BuildConnectionString(c.config)
	c.logger.Verbose("Connecting to %s", Redact(c.config))

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		var err error
		pool, err = openPool(ctx, connStr, c.config)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// NewConnector returns the Connector for config.AuthMethod.
// It satisfies taxiload.ConnectorFactory.
func NewConnector(config *taxiload.ConnectionConfig, logger taxiload.Logger) (taxiload.Connector, error) {
	switch config.AuthMethod {
	case taxiload.AuthMethodStandard:
		return NewStandardConnector(config, logger), nil
	case taxiload.AuthMethodAWSIAM:
		return newAWSConnector(config, logger)
	case taxiload.AuthMethodGoogleIAM:
		return newGoogleConnector(config, logger)
	case taxiload.AuthMethodAzureEntraID:
		return newAzureConnector(config, logger)
	default:
		return nil, fmt.Errorf("unsupported auth method %v: %w", config.AuthMethod, taxiload.ErrUnsupportedAuthMethod)
	}
}

var _ taxiload.ConnectorFactory = NewConnector

// wrapConnectionError adds a hint for the common local-setup mistakes and
// marks the error as ErrConnectionFailed. The original error stays in the
// chain so the retry classifier can still inspect it.
func wrapConnectionError(err error, cfg *taxiload.ConnectionConfig) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	var hint string
	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		hint = fmt.Sprintf(`connection refused to %s

Possible causes:
  - PostgreSQL is not running (docker compose up -d, or: pg_isready -h %s -p %d)
  - Wrong --pg-host or --pg-port`, addr, cfg.Host, cfg.Port)

	case strings.Contains(errStr, "no such host"):
		hint = fmt.Sprintf(`cannot resolve host %q

Possible causes:
  - Hostname is misspelled
  - The database container is on another docker network (use its service name there)`, cfg.Host)

	case strings.Contains(errStr, "password authentication failed"):
		hint = fmt.Sprintf(`password authentication failed for user %q

Check --pg-user/--pg-pass, $PGUSER/$PGPASSWORD, or the credentials in --connection`, cfg.Username)

	case strings.Contains(errStr, "does not exist") && strings.Contains(errStr, "database"):
		hint = fmt.Sprintf(`database %q does not exist

To create it:
  createdb -h %s -p %d -U %s %s`, cfg.Database, cfg.Host, cfg.Port, cfg.Username, cfg.Database)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		hint = fmt.Sprintf(`connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Firewall silently dropping packets`, addr)

	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		hint = `SSL/TLS connection error

Try --sslmode=disable for a local container, or --sslmode=require for a managed server`

	default:
		return fmt.Errorf("failed to connect to %s: %w: %w", addr, taxiload.ErrConnectionFailed, err)
	}

	return fmt.Errorf("%s\n\nOriginal error: %w: %w", hint, taxiload.ErrConnectionFailed, err)
}
