package db

import (
	"context"
	"fmt"
	"net"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taxiload/taxiload/pkg/taxiload"
)

// GoogleCloudSQLConnector connects through the Cloud SQL Go Connector with
// IAM database authentication. Close must be called after the pool is closed.
type GoogleCloudSQLConnector struct {
	config   *taxiload.ConnectionConfig
	instance string
	logger   taxiload.Logger
	dialer   *cloudsqlconn.Dialer
}

// NewGoogleCloudSQLConnector takes the instance connection name (project:region:instance).
func NewGoogleCloudSQLConnector(config *taxiload.ConnectionConfig, instance string, logger taxiload.Logger) *GoogleCloudSQLConnector {
	return &GoogleCloudSQLConnector{config: config, instance: instance, logger: logger}
}

func (c *GoogleCloudSQLConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	c.logger.Verbose("Connecting to Cloud SQL instance %s as %s", c.instance, c.config.Username)

	dialer, err := cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithIAMAuthN())
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloud SQL dialer: %w: %w", taxiload.ErrConnectionFailed, err)
	}

	dsn := fmt.Sprintf("host=%s user=%s dbname=%s sslmode=disable", c.instance, c.config.Username, c.config.Database)
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		dialer.Close()
		return nil, fmt.Errorf("failed to parse connection config: %w: %w", taxiload.ErrInvalidConfig, err)
	}
	poolConfig.ConnConfig.DialFunc = func(ctx context.Context, _, _ string) (net.Conn, error) {
		return dialer.Dial(ctx, c.instance)
	}
	if c.config.AppName != "" {
		poolConfig.ConnConfig.RuntimeParams["application_name"] = c.config.AppName
	}
	configurePool(poolConfig)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		dialer.Close()
		return nil, fmt.Errorf("failed to connect to Cloud SQL instance %s: %w: %w", c.instance, taxiload.ErrConnectionFailed, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		dialer.Close()
		return nil, fmt.Errorf("failed to ping Cloud SQL instance %s: %w: %w", c.instance, taxiload.ErrConnectionFailed, err)
	}

	c.dialer = dialer
	return pool, nil
}

// Close releases the Cloud SQL dialer.
func (c *GoogleCloudSQLConnector) Close() error {
	if c.dialer != nil {
		err := c.dialer.Close()
		c.dialer = nil
		return err
	}
	return nil
}

func newGoogleConnector(config *taxiload.ConnectionConfig, logger taxiload.Logger) (taxiload.Connector, error) {
	if config.GoogleInstance == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires --google-instance (project:region:instance): %w", taxiload.ErrInvalidConfig)
	}
	if config.Username == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires a database user (--pg-user): %w", taxiload.ErrInvalidConfig)
	}
	return NewGoogleCloudSQLConnector(config, config.GoogleInstance, logger), nil
}
