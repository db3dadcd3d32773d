package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Level represents the level of diagnostic output
type Level int

const (
	LevelSilent Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelVerbose
)

// System provides structured, user-friendly output. Warnings and errors
// always go to the error stream so the primary output stream stays clean
// for machine-readable results.
type System struct {
	level     Level
	useColors bool
	output    io.Writer
	errorOut  io.Writer
}

// New creates a diagnostic system writing to stdout/stderr
func New(level Level) *System {
	return &System{
		level:     level,
		useColors: shouldUseColors(),
		output:    os.Stdout,
		errorOut:  os.Stderr,
	}
}

// NewQuiet creates a diagnostic system that only shows errors
func NewQuiet() *System {
	return New(LevelError)
}

// NewVerbose creates a diagnostic system with full output
func NewVerbose() *System {
	return New(LevelVerbose)
}

// NewWithWriters creates a diagnostic system with custom streams, used in tests
func NewWithWriters(level Level, out, errOut io.Writer) *System {
	return &System{level: level, output: out, errorOut: errOut}
}

func shouldUseColors() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stderr.Fd())
}

// Error outputs error messages (always shown unless silent)
func (s *System) Error(format string, args ...interface{}) {
	if s.level >= LevelError {
		s.write(s.errorOut, "ERROR", color.FgRed, format, args...)
	}
}

// Warn outputs warning messages to the error stream
func (s *System) Warn(format string, args ...interface{}) {
	if s.level >= LevelWarn {
		s.write(s.errorOut, "WARN", color.FgYellow, format, args...)
	}
}

// Info outputs informational messages
func (s *System) Info(format string, args ...interface{}) {
	if s.level >= LevelInfo {
		s.write(s.output, "INFO", color.FgBlue, format, args...)
	}
}

// Success outputs success messages with emphasis
func (s *System) Success(format string, args ...interface{}) {
	if s.level >= LevelInfo {
		s.write(s.output, "OK", color.FgGreen, format, args...)
	}
}

// Verbose outputs detailed messages (verbose mode only)
func (s *System) Verbose(format string, args ...interface{}) {
	if s.level >= LevelVerbose {
		s.write(s.output, "VERBOSE", color.FgHiBlack, format, args...)
	}
}

// List outputs an indented list item at info level
func (s *System) List(format string, args ...interface{}) {
	if s.level >= LevelInfo {
		fmt.Fprintf(s.output, "  - %s\n", fmt.Sprintf(format, args...))
	}
}

func (s *System) write(w io.Writer, prefix string, c color.Attribute, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	if s.useColors {
		prefix = color.New(c, color.Bold).Sprint(prefix)
	}
	fmt.Fprintf(w, "[%s] %s\n", prefix, message)
}
