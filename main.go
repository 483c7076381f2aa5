package main

import (
	"faultcapture/src/bootstrap"
	"faultcapture/src/server"

	logger "github.com/sirupsen/logrus"
)

func main() {
	stack, err := bootstrap.Build()
	if err != nil {
		logger.WithError(err).Fatal("Failed to set up fault capture")
	}
	defer stack.Capture.HandleShutdown()

	deps := server.Deps{
		Panics:   stack.Capture,
		Registry: stack.Metrics.Registry(),
	}
	if stack.Faults != nil {
		deps.Faults = stack.Faults
	}

	server.StartServer(server.GetConfig(), server.NewRouter(deps))
}
