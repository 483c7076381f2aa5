package logs

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	LogLevel          string `envconfig:"LOG_LEVEL" default:"debug"`
	LogFormat         string `envconfig:"LOG_FORMAT" default:"text" validate:"oneof=text json"`
	LogBackend        string `envconfig:"LOG_BACKEND" default:"logrus" validate:"oneof=logrus zap"`
	ExportDepth       int    `envconfig:"LOG_EXPORT_DEPTH" default:"3" validate:"min=1,max=16"`
	ResponseBodyLimit int    `envconfig:"LOG_RESPONSE_BODY_LIMIT" default:"1024" validate:"min=0"`
}

var validate = validator.New()

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	if err := validate.Struct(config); err != nil {
		panic(fmt.Errorf("invalid log config: %w", err))
	}
	return config
}
