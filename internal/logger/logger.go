package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Encodings accepted by Options.Format
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options configures the logger
type Options struct {
	Level  string // debug, info, warn or error
	Format string // console or json
	File   string // optional log file, in addition to stderr
}

// New builds a logger. An unparseable level falls back to info.
func New(opts Options) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encoding := opts.Format
	if encoding != FormatJSON {
		encoding = FormatConsole
	}

	outputs := []string{"stderr"}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		outputs = append(outputs, opts.File)
	}

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if encoding == FormatConsole {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         encoding,
		EncoderConfig:    encoderCfg,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	}
	return cfg.Build()
}

// ValidLevel reports whether level is a level New understands
func ValidLevel(level string) bool {
	var l zapcore.Level
	return l.UnmarshalText([]byte(level)) == nil
}

// Sink adapts a line-oriented writer, like the GUI log panel, into a zap
// core that mirrors info and above.
func Sink(write func(line string)) zapcore.Core {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:     "time",
		MessageKey:  "msg",
		LineEnding:  "",
		EncodeTime:  zapcore.TimeEncoderOfLayout("15:04:05"),
		EncodeLevel: zapcore.CapitalLevelEncoder,
		LevelKey:    zapcore.OmitKey,
	})
	return zapcore.NewCore(enc, zapcore.AddSync(lineWriter(write)), zapcore.InfoLevel)
}

type lineWriter func(string)

func (w lineWriter) Write(p []byte) (int, error) {
	w(string(p))
	return len(p), nil
}
