package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cockroachdb/errors"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

// S3API is the subset of the S3 client used by the preflight check.
type S3API interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Sources are the three locations a load reads from.
type Sources struct {
	LogData     string
	LogJSONPath string
	SongData    string
}

// Verifier confirms that load sources exist before any COPY is issued.
type Verifier struct {
	client S3API
	logger dwhetl.Logger
}

// NewVerifier creates a Verifier over an existing client.
func NewVerifier(client S3API, logger dwhetl.Logger) *Verifier {
	if client == nil {
		panic("client cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Verifier{client: client, logger: logger}
}

// NewS3Client builds an S3 client from the default AWS credential chain.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrap(err, "failed to load AWS configuration"),
			"Configure AWS credentials via environment variables, ~/.aws/credentials, or an instance role.",
		)
	}
	return s3.NewFromConfig(cfg), nil
}

// Verify checks that the JSONPath document exists and that each data prefix
// holds at least one object. Every failure wraps dwhetl.ErrStorageUnavailable.
func (v *Verifier) Verify(ctx context.Context, src Sources) error {
	jsonPath, err := ParseURI(src.LogJSONPath)
	if err != nil {
		return err
	}
	if err := v.headObject(ctx, jsonPath); err != nil {
		return err
	}

	for _, raw := range []string{src.LogData, src.SongData} {
		prefix, err := ParseURI(raw)
		if err != nil {
			return err
		}
		if err := v.requireObjects(ctx, prefix); err != nil {
			return err
		}
	}
	return nil
}

func (v *Verifier) headObject(ctx context.Context, u URI) error {
	v.logger.Verbose("Checking %s", u)
	_, err := v.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(u.Bucket),
		Key:    aws.String(u.Key),
	})
	if err != nil {
		return errors.WithHint(
			errors.Wrapf(errors.WithSecondaryError(dwhetl.ErrStorageUnavailable, err), "%s", u),
			"Check that the object exists and the caller may read it.",
		)
	}
	v.logger.Verbose("✓ %s exists", u)
	return nil
}

func (v *Verifier) requireObjects(ctx context.Context, u URI) error {
	v.logger.Verbose("Listing %s", u)
	out, err := v.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(u.Bucket),
		Prefix:  aws.String(u.Key),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return errors.WithHint(
			errors.Wrapf(errors.WithSecondaryError(dwhetl.ErrStorageUnavailable, err), "%s", u),
			"Check the bucket region and that the caller may list it.",
		)
	}
	if len(out.Contents) == 0 {
		return errors.Wrapf(dwhetl.ErrStorageUnavailable, "%s: no objects under prefix", u)
	}
	v.logger.Verbose("✓ %s has objects", u)
	return nil
}

// String formats sources for display.
func (s Sources) String() string {
	return fmt.Sprintf("log_data=%s log_jsonpath=%s song_data=%s", s.LogData, s.LogJSONPath, s.SongData)
}
