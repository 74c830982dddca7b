package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Logger writes levelled log lines in the form "LEVEL - message"
type Logger struct {
	writer  io.Writer
	noColor bool
	quiet   bool

	info  *color.Color
	warn  *color.Color
	err   *color.Color
	bold  *color.Color
	green *color.Color
}

type LoggerOption func(*Logger)

func NewLogger(opts ...LoggerOption) *Logger {
	l := &Logger{
		writer: os.Stderr,
		info:   color.New(color.FgCyan),
		warn:   color.New(color.FgYellow),
		err:    color.New(color.FgRed),
		bold:   color.New(color.Bold),
		green:  color.New(color.FgGreen),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.noColor {
		for _, c := range []*color.Color{l.info, l.warn, l.err, l.bold, l.green} {
			c.DisableColor()
		}
	}
	return l
}

func WithWriter(w io.Writer) LoggerOption {
	return func(l *Logger) {
		l.writer = w
	}
}

func WithNoColor(nc bool) LoggerOption {
	return func(l *Logger) {
		l.noColor = nc
	}
}

// WithQuiet drops INFO lines; warnings and errors are still written
func WithQuiet(q bool) LoggerOption {
	return func(l *Logger) {
		l.quiet = q
	}
}

func (l *Logger) Infof(format string, args ...any) {
	if l.quiet {
		return
	}
	l.write(l.info, "INFO", format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.write(l.warn, "WARNING", format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.write(l.err, "ERROR", format, args...)
}

// Banner prints a bold header line, used once per run
func (l *Logger) Banner(text string) {
	if l.quiet {
		return
	}
	fmt.Fprintf(l.writer, "%s\n", l.bold.Sprint(text))
}

// Result prints the final outcome of a run
func (l *Logger) Result(passed bool, format string, args ...any) {
	c := l.green
	symbol := "✓"
	if !passed {
		c = l.err
		symbol = "✗"
	}
	fmt.Fprintf(l.writer, "%s %s\n", c.Sprint(symbol), fmt.Sprintf(format, args...))
}

func (l *Logger) write(c *color.Color, level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	msg = strings.TrimRight(msg, "\n")
	fmt.Fprintf(l.writer, "%s - %s\n", c.Sprint(level), msg)
}
