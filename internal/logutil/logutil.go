// internal/logutil/logutil.go
package logutil

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
)

// LogName is the append-only invocation log in the working directory.
const LogName = "segul.log"

// Logger pairs the file log with colored stderr diagnostics.
type Logger struct {
	file *log.Logger
	fh   io.Closer
	errw io.Writer

	warnc *color.Color
	errc  *color.Color
}

// New opens (or creates) segul.log for appending. Failures to open the log
// degrade to stderr-only operation; a batch run must not die on a read-only
// working directory.
func New(errw io.Writer) *Logger {
	l := &Logger{
		errw:  errw,
		warnc: color.New(color.FgYellow),
		errc:  color.New(color.FgRed, color.Bold),
	}
	fh, err := os.OpenFile(LogName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err == nil {
		l.file = log.New(fh, "", log.LstdFlags)
		l.fh = fh
	}
	return l
}

// Close releases the log file handle.
func (l *Logger) Close() {
	if l.fh != nil {
		_ = l.fh.Close()
	}
}

// Infof records to the log file only.
func (l *Logger) Infof(format string, a ...any) {
	if l.file != nil {
		l.file.Printf(format, a...)
	}
}

// Warnf records a warning to the log file and stderr.
func (l *Logger) Warnf(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if l.file != nil {
		l.file.Printf("WARN: %s", msg)
	}
	_, _ = l.warnc.Fprintf(l.errw, "WARN: %s\n", msg)
}

// Errorf records an error to the log file and stderr.
func (l *Logger) Errorf(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if l.file != nil {
		l.file.Printf("ERROR: %s", msg)
	}
	_, _ = l.errc.Fprintf(l.errw, "ERROR: %s\n", msg)
}
