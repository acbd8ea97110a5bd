package logging

import (
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger and returns it
func Setup(level string, out io.Writer) (*log.Logger, error) {
	logger := log.StandardLogger()
	if err := Configure(logger, level, out); err != nil {
		return nil, err
	}
	return logger, nil
}

// Configure sets level, output and formatter of logger
func Configure(logger *log.Logger, level string, out io.Writer) error {
	if strings.TrimSpace(level) == "" {
		level = "info"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logger.SetLevel(lvl)
	if out != nil {
		logger.SetOutput(out)
	}
	logger.SetFormatter(&log.TextFormatter{
		DisableTimestamp: lvl < log.DebugLevel,
		FullTimestamp:    true,
	})
	return nil
}
