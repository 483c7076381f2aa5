package probe

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Method string `envconfig:"PROBE_METHOD" default:"GET"`
	URL    string `envconfig:"PROBE_URL" default:""`
}

func GetConfig() *Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return &config
}
