package utils

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerConfig определяет конфигурацию для логгера
type LoggerConfig struct {
	// text or json
	Format string
	// Defaults to os.Stdout
	Output zapcore.WriteSyncer
	Level  zapcore.Level
}

// InitLogger builds the process-wide structured logger.
func InitLogger(config ...LoggerConfig) *zap.SugaredLogger {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Output == nil {
		cfg.Output = zapcore.Lock(os.Stdout)
	}

	var encoder zapcore.Encoder
	if strings.EqualFold(cfg.Format, "json") {
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, cfg.Output, zap.NewAtomicLevelAt(cfg.Level))
	return zap.New(core, zap.AddCaller()).Sugar().Named("learning-platform")
}
