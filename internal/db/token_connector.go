package db

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

// tokenExpiryWarning is the remaining lifetime below which a warning is logged.
const tokenExpiryWarning = 5 * time.Minute

// TokenBasedConnector implements the Connector interface for cloud providers
// that authenticate via short-lived tokens.
// The token is acquired from a TokenProvider and used as the password.
type TokenBasedConnector struct {
	config        *dwhetl.ConnectionConfig
	tokenProvider TokenProvider
	providerName  string
	logger        dwhetl.Logger
}

// NewTokenBasedConnector creates a connector that uses a TokenProvider for authentication.
// providerName is used in error/warning messages (e.g., "AWS IAM").
func NewTokenBasedConnector(config *dwhetl.ConnectionConfig, tokenProvider TokenProvider, providerName string, logger dwhetl.Logger) *TokenBasedConnector {
	return &TokenBasedConnector{
		config:        config,
		tokenProvider: tokenProvider,
		providerName:  providerName,
		logger:        logger,
	}
}

func (c *TokenBasedConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	c.logger.Verbose("Acquiring token from %s", c.tokenProvider)
	token, expiresOn, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return nil, errors.Mark(
			errors.Wrapf(err, "failed to acquire %s token", c.providerName),
			dwhetl.ErrConnectionFailed)
	}

	if remaining := time.Until(expiresOn); remaining < tokenExpiryWarning {
		c.logger.Info("Warning: %s token expires in %v", c.providerName, remaining.Round(time.Second))
	}

	configWithToken := *c.config
	configWithToken.Password = token

	return openPool(ctx, &configWithToken, c.logger)
}
