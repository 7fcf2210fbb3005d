package main

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// newLogger returns a JSON logger writing to out. An unknown level falls
// back to INFO.
func newLogger(out io.Writer, level string) *log.Logger {
	logger := log.New()
	logger.SetOutput(out)
	logger.SetFormatter(&log.JSONFormatter{})

	parsedLevel, err := log.ParseLevel(level)
	if err != nil {
		logger.WithField("logLevel", level).WithError(err).Error("Incorrect log level. Using INFO instead.")
		parsedLevel = log.InfoLevel
	}
	logger.SetLevel(parsedLevel)
	return logger
}
