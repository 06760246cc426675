package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

// ConsoleLogger writes log messages to stderr.
// Safe for concurrent use by multiple goroutines.
type ConsoleLogger struct {
	verbose bool
	out     io.Writer
	mu      *sync.Mutex
	fields  string
}

// NewConsoleLogger creates a new ConsoleLogger.
// If verbose is true, Verbose() calls will produce output.
// If verbose is false, Verbose() calls are no-ops.
func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return NewConsoleLoggerTo(os.Stderr, verbose)
}

// NewConsoleLoggerTo creates a ConsoleLogger writing to out.
func NewConsoleLoggerTo(out io.Writer, verbose bool) *ConsoleLogger {
	return &ConsoleLogger{
		verbose: verbose,
		out:     out,
		mu:      &sync.Mutex{},
	}
}

// Verbose logs detailed diagnostic information if verbose mode is enabled.
func (l *ConsoleLogger) Verbose(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.write("[VERBOSE] ", format, args)
}

// Info logs informational messages about normal operations.
func (l *ConsoleLogger) Info(format string, args ...interface{}) {
	l.write("", format, args)
}

// Error logs error messages.
func (l *ConsoleLogger) Error(format string, args ...interface{}) {
	l.write("[ERROR] ", format, args)
}

// With returns a child logger that appends key=value fields to every line.
// The child shares the parent's writer and lock.
func (l *ConsoleLogger) With(keysAndValues ...interface{}) dwhetl.Logger {
	child := *l
	child.fields = l.fields + formatFields(keysAndValues)
	return &child
}

func (l *ConsoleLogger) write(prefix, format string, args []interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.out, prefix+msg+l.fields+"\n")
}

// formatFields renders pairs as " key=value". A trailing key without a value
// is rendered with an empty value.
func formatFields(keysAndValues []interface{}) string {
	var b strings.Builder
	for i := 0; i < len(keysAndValues); i += 2 {
		var value interface{} = ""
		if i+1 < len(keysAndValues) {
			value = keysAndValues[i+1]
		}
		s := fmt.Sprint(value)
		if strings.ContainsAny(s, " \t\n\"") {
			s = fmt.Sprintf("%q", s)
		}
		fmt.Fprintf(&b, " %v=%s", keysAndValues[i], s)
	}
	return b.String()
}
