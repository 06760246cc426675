package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

var (
	regionPattern    = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-\d+$`)
	accountIDPattern = regexp.MustCompile(`^\d{12}$`)
)

// quoteLiteral renders s as a single-quoted SQL string literal.
// COPY accepts no bind parameters, so every value it embeds passes through here
// after validation.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// validateRoleARN accepts IAM role ARNs such as arn:aws:iam::123456789012:role/dwhRole.
func validateRoleARN(s string) error {
	if strings.ContainsAny(s, "'\\") || strings.ContainsFunc(s, isControl) {
		return fmt.Errorf("IAM role ARN %q contains a forbidden character: %w", s, dwhetl.ErrInvalidConfig)
	}
	parsed, err := arn.Parse(s)
	if err != nil {
		return fmt.Errorf("IAM role ARN %q: %v: %w", s, err, dwhetl.ErrInvalidConfig)
	}
	if parsed.Service != "iam" {
		return fmt.Errorf("IAM role ARN %q names service %q, expected iam: %w", s, parsed.Service, dwhetl.ErrInvalidConfig)
	}
	if !accountIDPattern.MatchString(parsed.AccountID) {
		return fmt.Errorf("IAM role ARN %q has an invalid account id: %w", s, dwhetl.ErrInvalidConfig)
	}
	if !strings.HasPrefix(parsed.Resource, "role/") || len(parsed.Resource) == len("role/") {
		return fmt.Errorf("IAM role ARN %q must name a role/ resource: %w", s, dwhetl.ErrInvalidConfig)
	}
	return nil
}

func validateRegion(s string) error {
	if !regionPattern.MatchString(s) {
		return fmt.Errorf("region %q is not an AWS region name: %w", s, dwhetl.ErrInvalidConfig)
	}
	return nil
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}
