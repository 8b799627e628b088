// Package logging holds the process-wide logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	clog "github.com/charmbracelet/log"
)

// L is the package-level logger. Tests may swap it for a buffer-backed one.
var L = clog.NewWithOptions(os.Stderr, clog.Options{
	ReportTimestamp: true,
	Prefix:          "folio",
})

// Configure sets the output and level of L. Unknown levels fall back to info.
func Configure(w io.Writer, level string) {
	lvl, err := clog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = clog.InfoLevel
	}
	L = clog.NewWithOptions(w, clog.Options{
		ReportTimestamp: true,
		Prefix:          "folio",
		Level:           lvl,
	})
}

// Debugf logs a debug-level formatted message.
func Debugf(format string, v ...interface{}) {
	L.Debug(fmt.Sprintf(format, v...))
}

// Infof logs an info-level formatted message.
func Infof(format string, v ...interface{}) {
	L.Info(fmt.Sprintf(format, v...))
}

// Warnf logs a warning-level formatted message.
func Warnf(format string, v ...interface{}) {
	L.Warn(fmt.Sprintf(format, v...))
}

// Errorf logs an error-level formatted message.
func Errorf(format string, v ...interface{}) {
	L.Error(fmt.Sprintf(format, v...))
}

// With returns a child logger carrying the given key/value pairs.
func With(keyvals ...interface{}) *clog.Logger {
	return L.With(keyvals...)
}
