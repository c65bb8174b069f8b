// Package logging wraps a process-wide logrus logger.
//
// Diagnostics go to stderr so stdout carries nothing but benchmark results.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var defaultLog *logrus.Logger

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.InfoLevel)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors:   false,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	return log
}

func init() {
	defaultLog = newLogger()
}

// Logger returns the shared logger for callers that need fields.
func Logger() *logrus.Logger {
	return defaultLog
}

// SetDebug switches the shared logger to DEBUG level.
func SetDebug() {
	SetLevel(defaultLog, logrus.DebugLevel)
}

// SetLevel sets the level of the provided logger.
func SetLevel(logger *logrus.Logger, level logrus.Level) {
	logger.SetLevel(level)
}

// SetOutput redirects the shared logger.
func SetOutput(w io.Writer) {
	defaultLog.SetOutput(w)
}

// IsDebug reports whether debug messages are emitted.
func IsDebug() bool {
	return defaultLog.IsLevelEnabled(logrus.DebugLevel)
}

// Debugf - Debug message
func Debugf(format string, args ...interface{}) {
	defaultLog.Debugf(format, args...)
}

// Errorf - Error message
func Errorf(format string, args ...interface{}) {
	defaultLog.Errorf(format, args...)
}

// Infof - Info message
func Infof(format string, args ...interface{}) {
	defaultLog.Infof(format, args...)
}

// Warnf - Warn message
func Warnf(format string, args ...interface{}) {
	defaultLog.Warnf(format, args...)
}
