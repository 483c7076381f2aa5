package server

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Config controls the admin listener.
type Config struct {
	Port              string        `envconfig:"SERVER_PORT" default:"9898" validate:"required,numeric"`
	ReadHeaderTimeout time.Duration `envconfig:"SERVER_READ_HEADER_TIMEOUT" default:"10s" validate:"gt=0"`
	ShutdownTimeout   time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"5s" validate:"gt=0"`
}

var validate = validator.New()

func GetConfig() *Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	if err := validate.Struct(config); err != nil {
		panic(fmt.Errorf("invalid server config: %w", err))
	}
	return &config
}

// Addr is the listen address for the configured port.
func (c *Config) Addr() string {
	return ":" + c.Port
}
