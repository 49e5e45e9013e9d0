package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taxiload/taxiload/internal/retry"
	"github.com/taxiload/taxiload/pkg/taxiload"
)

// tokenExpiryWarning is how close to expiry a fresh token has to be before
// we warn; a long load may outlive it and fail on reconnect.
const tokenExpiryWarning = 5 * time.Minute

// TokenBasedConnector authenticates with a token from a TokenProvider
// (AWS RDS IAM, Azure Entra ID). A fresh token is fetched on every attempt.
type TokenBasedConnector struct {
	config        *taxiload.ConnectionConfig
	tokenProvider TokenProvider
	providerName  string
	logger        taxiload.Logger
	retryExecutor *retry.Executor
}

func NewTokenBasedConnector(config *taxiload.ConnectionConfig, tokenProvider TokenProvider, providerName string, logger taxiload.Logger) *TokenBasedConnector {
	return &TokenBasedConnector{
		config:        config,
		tokenProvider: tokenProvider,
		providerName:  providerName,
		logger:        logger,
		retryExecutor: newRetryExecutor(logger),
	}
}

func (c *TokenBasedConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	c.logger.Verbose("Connecting to %s:%d with %s", c.config.Host, c.config.Port, c.tokenProvider)

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		token, expiresOn, err := c.tokenProvider.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to acquire %s token: %w: %w", c.providerName, taxiload.ErrConnectionFailed, err)
		}
		if remaining := time.Until(expiresOn); remaining < tokenExpiryWarning {
			c.logger.Info("Warning: %s token expires in %v", c.providerName, remaining.Round(time.Second))
		}

		withToken := *c.config
		withToken.Password = token

		pool, err = openPool(ctx, BuildConnectionString(&withToken), c.config)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pool, nil
}

func newAWSConnector(config *taxiload.ConnectionConfig, logger taxiload.Logger) (taxiload.Connector, error) {
	endpoint := fmt.Sprintf("%s:%d", config.Host, config.Port)

	provider, err := NewAWSIAMTokenProvider(endpoint, config.AWSRegion, config.Username)
	if err != nil {
		return nil, err
	}
	return NewTokenBasedConnector(config, provider, "AWS IAM", logger), nil
}

// newAzureConnector uses Service Principal credentials when all three are
// set and the DefaultAzureCredential chain otherwise.
func newAzureConnector(config *taxiload.ConnectionConfig, logger taxiload.Logger) (taxiload.Connector, error) {
	var provider TokenProvider
	var err error

	if config.AzureTenantID != "" && config.AzureClientID != "" && config.AzureClientSecret != "" {
		provider, err = NewAzureServicePrincipalProvider(config.AzureTenantID, config.AzureClientID, config.AzureClientSecret)
	} else {
		provider, err = NewAzureDefaultCredentialProvider()
	}
	if err != nil {
		return nil, err
	}
	return NewTokenBasedConnector(config, provider, "Azure", logger), nil
}
