package utils

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the run-scoped log sink handed to every component.
// It writes to stderr by default because stdout carries the JSON result.
type Logger struct {
	entry *logrus.Entry
}

func NewLogger(w io.Writer, level string) *Logger {
	if w == nil {
		w = os.Stderr
	}

	base := logrus.New()
	base.SetOutput(w)
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
		DisableColors:   true,
	})

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	base.SetLevel(lvl)

	return &Logger{entry: logrus.NewEntry(base)}
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *Logger {
	return NewLogger(io.Discard, "panic")
}

func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *Logger) Debug(format string, a ...interface{}) {
	l.entry.Debugf(format, a...)
}

func (l *Logger) Info(format string, a ...interface{}) {
	l.entry.Infof(format, a...)
}

// Success is an info line tagged ok=true, the old green [OK] line.
func (l *Logger) Success(format string, a ...interface{}) {
	l.entry.WithField("ok", true).Infof(format, a...)
}

func (l *Logger) Warn(format string, a ...interface{}) {
	l.entry.Warnf(format, a...)
}

func (l *Logger) Error(format string, a ...interface{}) {
	l.entry.Errorf(format, a...)
}

func (l *Logger) Section(title string) {
	l.entry.Info(fmt.Sprintf("========== %s ==========", title))
}

// Logf adapts the logger to printf-style hooks such as chromedp.WithLogf.
func (l *Logger) Logf(format string, a ...interface{}) {
	l.entry.Debugf(format, a...)
}
