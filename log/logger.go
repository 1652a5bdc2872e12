package log

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	root  Logger
	mutex sync.Mutex
)

// Logger is the leveled, named logger handed to pipeline components.
type Logger interface {
	Named(name string) Logger
	With(args ...interface{}) Logger
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
}

type logger struct {
	*zap.SugaredLogger
}

func (l *logger) Named(name string) Logger {
	return &logger{l.SugaredLogger.Named(name)}
}

func (l *logger) With(args ...interface{}) Logger {
	return &logger{l.SugaredLogger.With(args...)}
}

// Global returns the root logger, setting it up with defaults on first use.
func Global() Logger {
	mutex.Lock()
	defer mutex.Unlock()
	if root == nil {
		setup(DefaultOptions())
	}
	return root
}

// Setup configures the root logger. Calling it after the root logger
// exists is a no-op.
func Setup(options *Options) {
	mutex.Lock()
	defer mutex.Unlock()
	if root != nil {
		root.Warnf("can't re setup root logger")
		return
	}
	setup(options)
}

func setup(options *Options) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(options.timeLayout)
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	var encoder zapcore.Encoder
	if options.console {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(
			encoder,
			zapcore.AddSync(os.Stdout),
			zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
				return lvl >= options.level && lvl < zapcore.WarnLevel
			}),
		),
		zapcore.NewCore(
			encoder,
			zapcore.AddSync(os.Stderr),
			zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
				return lvl >= options.level && lvl >= zapcore.WarnLevel
			}),
		),
	}

	sugared := zap.New(zapcore.NewTee(cores...)).Sugar()
	if options.name != "" {
		sugared = sugared.Named(options.name)
	}
	root = &logger{sugared}
}
