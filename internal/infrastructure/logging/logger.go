package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger interface {
	Init()

	Debug(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Debugf(template string, args ...any)

	Info(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Infof(template string, args ...any)

	Warn(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Warnf(template string, args ...any)

	Error(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Errorf(template string, args ...any)

	Fatal(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Fatalf(template string, args ...any)

	Sync() error
}

type LoggerConfig struct {
	// FilePath is a directory. When empty, logs go to stdout only.
	FilePath string
	Encoding string
	Level    string
	Logger   string
	AppName  string
}

func NewLogger(cfg *LoggerConfig) (Logger, error) {
	var l Logger
	switch cfg.Logger {
	case "zap", "":
		l = newZapLogger(cfg, output(cfg))
	case "zerolog":
		l = newZeroLogger(cfg, output(cfg))
	default:
		return nil, fmt.Errorf("logger not supported: %q: supported loggers: [zap, zerolog]", cfg.Logger)
	}

	l.Init()
	return l, nil
}

// output writes to stdout and, when a directory is configured, to a rotated
// file inside it.
func output(cfg *LoggerConfig) io.Writer {
	if cfg.FilePath == "" {
		return os.Stdout
	}

	name := cfg.AppName
	if name == "" {
		name = "app"
	}

	rotated := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.FilePath, name+".log"),
		MaxSize:    10,
		MaxBackups: 5,
		MaxAge:     28,
		Compress:   true,
		LocalTime:  true,
	}

	return io.MultiWriter(os.Stdout, rotated)
}
