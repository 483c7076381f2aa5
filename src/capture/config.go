package capture

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"faultcapture/src/fault"
)

type Config struct {
	AppName        string `envconfig:"APP_NAME" default:"faultcapture"`
	ErrorReporting string `envconfig:"ERROR_REPORTING" default:"E_ALL"` // e.g. "E_ALL" or "E_ERROR|E_WARNING"
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}

// Mask parses ErrorReporting.
func (c Config) Mask() (fault.Kind, error) {
	mask, err := fault.ParseMask(c.ErrorReporting)
	if err != nil {
		return 0, fmt.Errorf("ERROR_REPORTING: %w", err)
	}
	return mask, nil
}
