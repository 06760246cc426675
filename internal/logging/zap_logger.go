package logging

import (
	"fmt"
	"io"

	"github.com/vvka-141/dwhetl/pkg/dwhetl"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger adapts a zap.SugaredLogger to dwhetl.Logger.
// Verbose maps to zap's debug level, which is only enabled in verbose mode.
type ZapLogger struct {
	logger *zap.SugaredLogger
}

// NewZapLogger builds a JSON logger writing to out.
func NewZapLogger(out io.Writer, verbose bool) *ZapLogger {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(out),
		level,
	)
	return NewZapAdapter(zap.New(core).Sugar())
}

// NewZapAdapter wraps an existing sugared logger. A nil logger yields a no-op logger.
func NewZapAdapter(logger *zap.SugaredLogger) *ZapLogger {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ZapLogger{logger: logger}
}

func (z *ZapLogger) Verbose(format string, args ...interface{}) {
	z.logger.Debugw(sprintf(format, args))
}

func (z *ZapLogger) Info(format string, args ...interface{}) {
	z.logger.Infow(sprintf(format, args))
}

func (z *ZapLogger) Error(format string, args ...interface{}) {
	z.logger.Errorw(sprintf(format, args))
}

// With returns a child logger carrying the given structured fields.
func (z *ZapLogger) With(keysAndValues ...interface{}) dwhetl.Logger {
	return &ZapLogger{logger: z.logger.With(keysAndValues...)}
}

// Sync flushes buffered records.
func (z *ZapLogger) Sync() error {
	return z.logger.Sync()
}

func sprintf(format string, args []interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
