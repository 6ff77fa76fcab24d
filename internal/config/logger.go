package config

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the application logger from the log settings
func NewLogger(c LogConfig, out io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)

	lvl, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(lvl)

	if c.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}
