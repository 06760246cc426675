package db

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/rds/auth"
	"github.com/cockroachdb/errors"
)

// rdsTokenLifetime is how long RDS accepts a signed token.
const rdsTokenLifetime = 15 * time.Minute

// credentialsLoader resolves AWS credentials for a region.
type credentialsLoader func(ctx context.Context, region string) (aws.CredentialsProvider, error)

func defaultCredentials(ctx context.Context, region string) (aws.CredentialsProvider, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return cfg.Credentials, nil
}

// RDSTokenProvider signs IAM database authentication tokens for RDS and
// Aurora PostgreSQL endpoints. Redshift does not accept these tokens, so it
// is only reachable with the postgres dialect.
type RDSTokenProvider struct {
	endpoint string
	region   string
	username string
	load     credentialsLoader
}

// NewRDSTokenProvider validates the token inputs. endpoint is host:port.
func NewRDSTokenProvider(endpoint, region, username string) (*RDSTokenProvider, error) {
	var missing []string
	if endpoint == "" {
		missing = append(missing, "endpoint")
	}
	if region == "" {
		missing = append(missing, "region (--aws-region or $AWS_REGION)")
	}
	if username == "" {
		missing = append(missing, "database username")
	}
	if len(missing) > 0 {
		return nil, errors.Newf("aws-iam authentication requires %v", missing)
	}
	return &RDSTokenProvider{endpoint: endpoint, region: region, username: username, load: defaultCredentials}, nil
}

// GetToken signs a fresh token. Signing happens locally; only credential
// resolution may touch the network.
func (p *RDSTokenProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	creds, err := p.load(ctx, p.region)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "failed to load AWS credentials")
	}
	if creds == nil {
		return "", time.Time{}, errors.New("no AWS credentials found in the default credential chain")
	}

	signedAt := time.Now()
	token, err := auth.BuildAuthToken(ctx, p.endpoint, p.region, p.username, creds)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "failed to sign RDS auth token")
	}
	return token, signedAt.Add(rdsTokenLifetime), nil
}

func (p *RDSTokenProvider) String() string {
	return fmt.Sprintf("RDS IAM (endpoint=%s, region=%s, user=%s)", p.endpoint, p.region, p.username)
}
