package journal

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"faultcapture/src/logs"
)

// Config selects the lowest journaled level.
type Config struct {
	MinLevel string `envconfig:"JOURNAL_MIN_LEVEL" default:"error"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}

// Level parses MinLevel.
func (c Config) Level() (logs.Level, error) {
	return logs.ParseLevel(c.MinLevel)
}
