package serve

import (
	"github.com/sirupsen/logrus"

	"faultcapture/src/bootstrap"
	"faultcapture/src/server"
)

// Serve runs the admin server with fault capture registered.
type Serve struct {
	Port string
}

func (s *Serve) Start() error {
	stack, err := bootstrap.Build()
	if err != nil {
		return err
	}
	defer stack.Capture.HandleShutdown()

	cfg := server.GetConfig()
	if s.Port != "" {
		cfg.Port = s.Port
	}

	deps := server.Deps{
		Panics:   stack.Capture,
		Registry: stack.Metrics.Registry(),
	}
	if stack.Faults != nil {
		deps.Faults = stack.Faults
	}

	logrus.WithField("port", cfg.Port).Info("Starting admin server")
	server.StartServer(cfg, server.NewRouter(deps))
	return nil
}
