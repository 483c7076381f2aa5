package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"

	"faultcapture/src/httpclient"
	"faultcapture/src/logs"
)

// Probe issues one request through the HTTP client and logs a failure with
// its request context.
type Probe struct {
	Client *httpclient.Client
	Log    *logs.Dispatcher
	Method string
	URL    string
	Form   url.Values
	Out    io.Writer
}

func (p *Probe) Start(ctx context.Context) error {
	if p.URL == "" {
		return errors.New("probe: url is required")
	}
	out := p.Out
	if out == nil {
		out = os.Stdout
	}

	resp, err := p.Client.Do(ctx, p.Method, p.URL, p.Form)
	if err != nil {
		p.Log.Error(err, logs.Fields{"probe": p.URL})
		return err
	}

	_, _ = fmt.Fprintf(out, "%d %s (%d bytes)\n", resp.StatusCode, p.URL, len(resp.Body))
	return nil
}
