package logging

import "io"

// NewNopLogger returns a zap-backed logger that discards everything.
func NewNopLogger() Logger {
	l := newZapLogger(&LoggerConfig{Level: "fatal"}, io.Discard)
	l.Init()
	return l
}
