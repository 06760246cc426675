package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

// Log output formats accepted by --log-format.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New returns the logger for the requested output format.
func New(format string, out io.Writer, verbose bool) (dwhetl.Logger, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return NewConsoleLoggerTo(out, verbose), nil
	case FormatJSON:
		return NewZapLogger(out, verbose), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (expected %s or %s): %w",
			format, FormatText, FormatJSON, dwhetl.ErrInvalidConfig)
	}
}
