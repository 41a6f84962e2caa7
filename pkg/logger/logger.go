package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Log struct {
	LogLevel zapcore.Level `yaml:"level" envconfig:"LOG_LEVEL"`
	// Sink is an extra output path, e.g. a file. Stdout is always used.
	Sink string `yaml:"sink" envconfig:"LOG_SINK"`
}

func NewLogger(cfg Log, name string) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.OutputPaths = []string{"stdout"}
	if cfg.Sink != "" {
		zcfg.OutputPaths = append(zcfg.OutputPaths, cfg.Sink)
	}
	log, err := zcfg.Build()
	if err != nil {
		log = zap.NewExample()
		log.Error("logger build", zap.Error(err))
	}
	return log.Named(name)
}
