package httpclient

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	BaseURL      string        `envconfig:"HTTP_BASE_URL" default:""`
	Timeout      time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`
	RetryCount   int           `envconfig:"HTTP_RETRY_COUNT" default:"2"`
	RetryWait    time.Duration `envconfig:"HTTP_RETRY_WAIT" default:"500ms"`
	RetryMaxWait time.Duration `envconfig:"HTTP_RETRY_MAX_WAIT" default:"8s"`
	UserAgent    string        `envconfig:"HTTP_USER_AGENT" default:"faultcapture"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
