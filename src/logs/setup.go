package logs

import (
	"strings"

	logger "github.com/sirupsen/logrus"
)

// SetupLogger configures the global logrus logger used for the library's
// own diagnostics and by the default backend.
func SetupLogger(cfg Config) {
	level, err := logger.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = logger.DebugLevel
	}
	logger.SetLevel(level)

	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logger.JSONFormatter{})
		return
	}
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
}
