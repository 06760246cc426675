package storage

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

// URI is a parsed s3://bucket/key location.
type URI struct {
	Bucket string
	Key    string
}

func (u URI) String() string {
	if u.Key == "" {
		return "s3://" + u.Bucket
	}
	return "s3://" + u.Bucket + "/" + u.Key
}

// bucketPattern follows the S3 general purpose bucket naming rules:
// 3-63 characters of lowercase letters, digits, dots and hyphens, beginning
// and ending with a letter or digit.
var bucketPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

// ParseURI parses an s3:// location. Quotes, backslashes and control
// characters are rejected because the value ends up inside a SQL literal.
func ParseURI(raw string) (URI, error) {
	if raw == "" {
		return URI{}, fmt.Errorf("empty S3 location: %w", dwhetl.ErrInvalidConfig)
	}
	if i := strings.IndexFunc(raw, unsafeRune); i >= 0 {
		return URI{}, fmt.Errorf("S3 location %q contains a forbidden character at offset %d: %w", raw, i, dwhetl.ErrInvalidConfig)
	}

	rest, ok := strings.CutPrefix(raw, "s3://")
	if !ok {
		return URI{}, fmt.Errorf("S3 location %q must start with s3://: %w", raw, dwhetl.ErrInvalidConfig)
	}

	bucket, key, _ := strings.Cut(rest, "/")
	if !bucketPattern.MatchString(bucket) || strings.Contains(bucket, "..") {
		return URI{}, fmt.Errorf("S3 location %q has an invalid bucket name %q: %w", raw, bucket, dwhetl.ErrInvalidConfig)
	}
	return URI{Bucket: bucket, Key: key}, nil
}

func unsafeRune(r rune) bool {
	return r == '\'' || r == '\\' || r < 0x20 || r == 0x7f
}
