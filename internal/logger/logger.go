package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/samvad-hq/netlayer/internal/config"
	"github.com/samvad-hq/netlayer/pkg/httpclient"
)

var _ httpclient.Logger = (*ZapLogger)(nil)

// ZapLogger logs each object as a single structured field named after key.
type ZapLogger struct {
	S *zap.SugaredLogger
}

// New builds a zap SugaredLogger using settings from config.
func New(cfg *config.Config) (*ZapLogger, error) {
	level := zapcore.InfoLevel
	if cfg != nil {
		level = parseLevel(cfg.LogLevel)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(zapcore.Lock(os.Stdout)),
		level,
	)

	l := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	return &ZapLogger{S: l.Sugar()}, nil
}

// NewWithCore wraps an existing core; tests use it with zaptest/observer.
func NewWithCore(core zapcore.Core) *ZapLogger {
	return &ZapLogger{S: zap.New(core).Sugar()}
}

func parseLevel(lvl string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Close flushes any buffered log entries.
func (z *ZapLogger) Close() error {
	if z == nil || z.S == nil {
		return nil
	}
	return z.S.Sync()
}

func (z *ZapLogger) InfoObj(msg, key string, obj interface{}) {
	if z == nil || z.S == nil {
		return
	}
	z.S.Desugar().Info(msg, zap.Any(key, obj))
}

func (z *ZapLogger) DebugObj(msg, key string, obj interface{}) {
	if z == nil || z.S == nil {
		return
	}
	z.S.Desugar().Debug(msg, zap.Any(key, obj))
}

func (z *ZapLogger) WarnObj(msg, key string, obj interface{}) {
	if z == nil || z.S == nil {
		return
	}
	z.S.Desugar().Warn(msg, zap.Any(key, obj))
}

func (z *ZapLogger) ErrorObj(msg, key string, obj interface{}) {
	if z == nil || z.S == nil {
		return
	}
	z.S.Desugar().Error(msg, zap.Any(key, obj))
}
