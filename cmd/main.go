package main

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"faultcapture/cmd/faults"
	"faultcapture/cmd/probe"
	"faultcapture/cmd/serve"
	"faultcapture/src/bootstrap"
	"faultcapture/src/httpclient"
	"faultcapture/src/logs"
)

var Version string

func main() {
	app := cli.NewApp()
	app.Name = "faultcapture"
	app.Usage = "Fault capture admin command line interface"
	app.Version = Version

	app.Commands = []cli.Command{
		serveCMD,
		faultsCMD,
		probeCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	serveCMD = cli.Command{
		Name:        "serve",
		Usage:       "run the admin server",
		Action:      serveAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{cli.StringFlag{Name: "port", Usage: "listen port, defaults to SERVER_PORT"}},
		Description: `Run the admin server with fault capture registered`,
	}
	faultsCMD = cli.Command{
		Name:      "faults",
		Usage:     "list journaled faults",
		Action:    faultsAction,
		ArgsUsage: "",
		Flags: []cli.Flag{
			cli.IntFlag{Name: "limit", Value: faults.GetConfig().Limit, Usage: "maximum number of faults"},
			cli.StringFlag{Name: "level", Usage: "only faults of this level"},
			cli.StringFlag{Name: "output", Value: faults.GetConfig().Output, Usage: "text, json or yaml"},
		},
		Description: `List the newest faults from the journal database`,
	}
	probeCMD = cli.Command{
		Name:      "probe",
		Usage:     "issue one HTTP request and log any failure",
		Action:    probeAction,
		ArgsUsage: "",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "method", Value: probe.GetConfig().Method},
			cli.StringFlag{Name: "url", Value: probe.GetConfig().URL},
			cli.StringSliceFlag{Name: "form", Usage: "key=value form field, repeatable"},
		},
		Description: `Probe an HTTP endpoint through the instrumented client`,
	}
)

func serveAction(c *cli.Context) error {
	logrus.Info("Starting serve CMD")

	s := &serve.Serve{Port: c.String("port")}
	if err := s.Start(); err != nil {
		logrus.WithError(err).Error("Starting cmd")
		return err
	}
	return nil
}

func faultsAction(c *cli.Context) error {
	repo, err := bootstrap.OpenJournal()
	if err != nil {
		logrus.WithError(err).Error("Failed to connect to journal database")
		return err
	}

	f := &faults.Faults{
		Repo:   repo,
		Limit:  c.Int("limit"),
		Level:  c.String("level"),
		Output: c.String("output"),
	}
	return f.Start(context.Background())
}

func probeAction(c *cli.Context) error {
	cfg := logs.GetConfig()
	logs.SetupLogger(cfg)
	d, err := logs.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	form := url.Values{}
	for _, kv := range c.StringSlice("form") {
		values, err := url.ParseQuery(kv)
		if err != nil {
			return fmt.Errorf("invalid form field %q: %w", kv, err)
		}
		for k, v := range values {
			form[k] = append(form[k], v...)
		}
	}

	p := &probe.Probe{
		Client: httpclient.New(httpclient.GetConfig()),
		Log:    d,
		Method: c.String("method"),
		URL:    c.String("url"),
		Form:   form,
	}
	return p.Start(context.Background())
}
