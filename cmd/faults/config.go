package faults

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Limit  int    `envconfig:"FAULTS_LIMIT" default:"20"`
	Output string `envconfig:"FAULTS_OUTPUT" default:"text"` // text | json | yaml
}

func GetConfig() *Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return &config
}
