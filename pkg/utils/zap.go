package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.SugaredLogger
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

func init() {
	logger = NewLogger()
}

func GetLogger() *zap.SugaredLogger {
	return logger
}

// SetLevel changes the level of every logger handed out by GetLogger.
func SetLevel(name string) error {
	l, err := zapcore.ParseLevel(name)
	if err != nil {
		return err
	}
	level.SetLevel(l)

	return nil
}

func NewLogger() *zap.SugaredLogger {
	cfg := zap.Config{
		Level:    level,
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:  "msg",
			LevelKey:    "level",
			TimeKey:     "time",
			NameKey:     "logger",
			EncodeLevel: zapcore.CapitalLevelEncoder,
			EncodeTime:  zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
			EncodeName:  zapcore.FullNameEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return l.Sugar()
}
