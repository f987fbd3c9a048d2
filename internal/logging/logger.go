// Package logging provides the leveled logger every core component
// accepts, and the zero-configuration default a manager pair falls back
// to when the host application supplies none.
package logging

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	colorable "github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
)

// Logger is the leveled logging surface the core writes to. Shaped
// after the adapter's own historical logger interface: plain and
// formatted variants per level, a gated Debug, and Fatal/Panic for the
// host application's own use.
type Logger interface {
	Info(v ...interface{})
	Infof(format string, v ...interface{})
	Warn(v ...interface{})
	Warnf(format string, v ...interface{})
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})
	Fatal(v ...interface{})
	Fatalf(format string, v ...interface{})
	Panic(v ...interface{})
	Panicf(format string, v ...interface{})

	// ToggleDebug enables or disables Debug/Debugf output and returns the
	// new state.
	ToggleDebug(enabled bool) bool
}

// levelColor prefixes level names the way a terminal-facing adapter
// would: colorized when the destination is an interactive terminal,
// wrapped through go-colorable so the coloring also works on Windows
// consoles that don't natively understand ANSI escapes.
var (
	infoPrefix  = color.New(color.FgCyan).Sprint("INFO")
	warnPrefix  = color.New(color.FgYellow).Sprint("WARN")
	errorPrefix = color.New(color.FgRed).Sprint("ERROR")
	debugPrefix = color.New(color.FgMagenta).Sprint("DEBUG")
	fatalPrefix = color.New(color.FgRed, color.Bold).Sprint("FATAL")
)

// DefaultLogger is the logger a manager pair uses when none is
// supplied: a logrus.Logger underneath, writing to a colorable stderr.
type DefaultLogger struct {
	entry *logrus.Logger
	debug bool
}

// NewDefaultLogger creates a DefaultLogger with debug output disabled.
func NewDefaultLogger() *DefaultLogger {
	l := logrus.New()
	l.SetOutput(colorable.NewColorableStderr())
	l.SetFormatter(&logrus.TextFormatter{ForceColors: true, FullTimestamp: true})
	return &DefaultLogger{entry: l}
}

func (d *DefaultLogger) Info(v ...interface{})  { d.entry.Info(prefixed(infoPrefix, v...)) }
func (d *DefaultLogger) Warn(v ...interface{})  { d.entry.Warn(prefixed(warnPrefix, v...)) }
func (d *DefaultLogger) Error(v ...interface{}) { d.entry.Error(prefixed(errorPrefix, v...)) }

func (d *DefaultLogger) Infof(format string, v ...interface{}) {
	d.entry.Info(prefixed(infoPrefix, fmt.Sprintf(format, v...)))
}

func (d *DefaultLogger) Warnf(format string, v ...interface{}) {
	d.entry.Warn(prefixed(warnPrefix, fmt.Sprintf(format, v...)))
}

func (d *DefaultLogger) Errorf(format string, v ...interface{}) {
	d.entry.Error(prefixed(errorPrefix, fmt.Sprintf(format, v...)))
}

func (d *DefaultLogger) Debug(v ...interface{}) {
	if d.debug {
		d.entry.Debug(prefixed(debugPrefix, v...))
	}
}

func (d *DefaultLogger) Debugf(format string, v ...interface{}) {
	if d.debug {
		d.entry.Debug(prefixed(debugPrefix, fmt.Sprintf(format, v...)))
	}
}

func (d *DefaultLogger) Fatal(v ...interface{}) {
	d.entry.Fatal(prefixed(fatalPrefix, v...))
}

func (d *DefaultLogger) Fatalf(format string, v ...interface{}) {
	d.entry.Fatal(prefixed(fatalPrefix, fmt.Sprintf(format, v...)))
}

func (d *DefaultLogger) Panic(v ...interface{}) {
	d.entry.Panic(v...)
}

func (d *DefaultLogger) Panicf(format string, v ...interface{}) {
	d.entry.Panicf(format, v...)
}

// ToggleDebug implements Logger.
func (d *DefaultLogger) ToggleDebug(enabled bool) bool {
	d.debug = enabled
	if enabled {
		d.entry.SetLevel(logrus.DebugLevel)
	} else {
		d.entry.SetLevel(logrus.InfoLevel)
	}
	return d.debug
}

func prefixed(prefix string, v ...interface{}) string {
	return fmt.Sprintf("[%s] %s", prefix, fmt.Sprint(v...))
}

// Discard is a Logger that drops everything. Useful in tests that don't
// want log noise but still need to satisfy the Logger contract.
var Discard Logger = discard{}

type discard struct{}

func (discard) Info(...interface{})               {}
func (discard) Infof(string, ...interface{})      {}
func (discard) Warn(...interface{})               {}
func (discard) Warnf(string, ...interface{})      {}
func (discard) Error(...interface{})               {}
func (discard) Errorf(string, ...interface{})     {}
func (discard) Debug(...interface{})              {}
func (discard) Debugf(string, ...interface{})     {}
func (discard) Fatal(v ...interface{})            { os.Exit(1) }
func (discard) Fatalf(string, ...interface{})     { os.Exit(1) }
func (discard) Panic(v ...interface{})            { panic(fmt.Sprint(v...)) }
func (discard) Panicf(f string, v ...interface{}) { panic(fmt.Sprintf(f, v...)) }
func (discard) ToggleDebug(bool) bool             { return false }
