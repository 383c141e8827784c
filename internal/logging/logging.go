package logging

import (
	"io"
	"strings"

	"github.com/phuslu/log"
)

// New returns a console logger writing to w. Only "debug" lowers the level
// below info; anything else keeps the info default.
func New(level string, w io.Writer, color bool) *log.Logger {
	lvl := log.InfoLevel
	if IsDebug(level) {
		lvl = log.DebugLevel
	}

	return &log.Logger{
		Level:      lvl,
		TimeFormat: "15:04:05",
		Writer: &log.ConsoleWriter{
			Writer:         w,
			ColorOutput:    color,
			EndWithMessage: true,
		},
	}
}

// Discard returns a logger that drops everything, for tests.
func Discard() *log.Logger {
	return &log.Logger{Level: log.PanicLevel, Writer: log.IOWriter{Writer: io.Discard}}
}

func IsDebug(level string) bool {
	return strings.EqualFold(strings.TrimSpace(level), "debug")
}
