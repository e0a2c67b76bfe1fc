package logger

import (
	"io"
	"log"
	"os"

	"github.com/fatih/color"
)

// Log flags
const (
	LstdFlags     = log.LstdFlags
	Lmicroseconds = log.Lmicroseconds
	LUTC          = log.LUTC
)

var (
	warnColor  = color.New(color.FgYellow, color.Bold)
	errorColor = color.New(color.FgRed, color.Bold)
)

// Logger wraps the standard log.Logger with additional functionality
type Logger struct {
	*log.Logger
	verbose bool
}

// New creates a new logger
func New() *Logger {
	return &Logger{
		Logger: log.New(os.Stdout, "", log.LstdFlags),
	}
}

// NewWriter creates a new logger that writes to the provided writer
func NewWriter(w io.Writer) *Logger {
	return &Logger{
		Logger: log.New(w, "", log.LstdFlags),
	}
}

// Discard returns a logger that drops everything, for tests and library use
func Discard() *Logger {
	return NewWriter(io.Discard)
}

// SetOutput sets the output destination for the logger
func (l *Logger) SetOutput(w io.Writer) {
	l.Logger.SetOutput(w)
}

// SetFlags sets the output flags for the logger
func (l *Logger) SetFlags(flag int) {
	l.Logger.SetFlags(flag)
}

// SetVerbose enables Debugf output
func (l *Logger) SetVerbose(v bool) {
	l.verbose = v
}

// Verbose reports whether Debugf output is enabled
func (l *Logger) Verbose() bool {
	return l.verbose
}

// Debugf logs only in verbose mode
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.verbose {
		l.Printf(format, args...)
	}
}

// Warnf logs a highlighted warning
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.Print(warnColor.Sprintf("WARNING: "+format, args...))
}

// Errorf logs a highlighted error
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Print(errorColor.Sprintf("ERROR: "+format, args...))
}
