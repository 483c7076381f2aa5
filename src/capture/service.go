// Package capture installs the process fault hooks and turns panics,
// reported runtime errors and end-of-process panics into fault records for
// the log dispatcher.
package capture

import (
	"os"
	"reflect"
	"sync/atomic"

	logger "github.com/sirupsen/logrus"

	"faultcapture/src/fault"
	"faultcapture/src/logs"
	"faultcapture/src/metrics"
)

func init() {
	logs.TrackPackage(reflect.TypeOf((*Service)(nil)).Elem().PkgPath())
}

// Logger is the part of the dispatcher the service writes to.
type Logger interface {
	Log(level logs.Level, message any, context any)
}

// ShutdownExitCode is the status the process exits with after an
// end-of-process panic was logged.
const ShutdownExitCode = 2

// Service captures faults for one process. Create it once at start-up and
// call Register to make it the target of the package-level hooks.
type Service struct {
	logger  Logger
	mask    atomic.Int64
	exit    func(code int)
	metrics *metrics.Collector
}

// Option configures a Service.
type Option func(*Service)

// WithExit replaces os.Exit for HandleShutdown.
func WithExit(exit func(code int)) Option {
	return func(s *Service) { s.exit = exit }
}

// WithMetrics records fault counters on c instead of the default collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Service) { s.metrics = c }
}

// New returns a service submitting faults to l. Nothing is captured until
// Register is called.
func New(l Logger, opts ...Option) *Service {
	s := &Service{
		logger:  l,
		exit:    os.Exit,
		metrics: metrics.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register stores the reporting mask and installs the shutdown, exception
// and error hooks. A later Register on any service replaces them.
func (s *Service) Register(mask fault.Kind) {
	s.mask.Store(int64(mask))
	install(s)
	logger.WithField("mask", int(mask)).Debug("[capture] fault hooks registered")
}

// Unregister removes the exception and error hooks if they still belong to
// s. The shutdown hook stays installed.
func (s *Service) Unregister() {
	uninstall(s)
}

// Registered reports whether s currently receives exceptions and errors.
func (s *Service) Registered() bool {
	return current().exception == s
}

// Mask returns the reporting mask.
func (s *Service) Mask() fault.Kind {
	return fault.Kind(s.mask.Load())
}

// HandleError reports a recoverable runtime error. Kinds outside the mask
// are ignored. The error of a fatal kind is logged, the hooks are removed
// and the fault is returned; the caller must abort the current operation.
func (s *Service) HandleError(kind fault.Kind, message, file string, line int, extra any) error {
	if !kind.In(s.Mask()) {
		s.metrics.Suppressed(kind.String())
		return nil
	}

	f := fault.New(kind, message, fault.WithLocation(file, line), fault.WithExtra(extra))
	level := Severity(kind)
	s.submit(level, f)

	if kind.Tag() == fault.Fatal {
		s.Unregister()
		s.metrics.FatalFaults.Inc()
		return f
	}
	return nil
}

// HandleException reports an error that reached the top of a goroutine.
func (s *Service) HandleException(err error) {
	if err == nil {
		return
	}
	s.report(fault.Wrap(err))
}

// HandlePanic reports a recovered panic value.
func (s *Service) HandlePanic(r any) {
	if r == nil {
		return
	}
	s.report(fault.FromPanic(r))
}

// Recover reports a panic in flight. It must be deferred directly:
//
//	defer svc.Recover()
func (s *Service) Recover() {
	if r := recover(); r != nil {
		s.HandlePanic(r)
	}
}

// Go runs fn on a new goroutine whose panics are reported instead of
// crashing the process.
func (s *Service) Go(fn func()) {
	go func() {
		defer s.Recover()
		fn()
	}()
}

// HandleShutdown is deferred at the top of main. A panic in flight is logged
// as critical whatever the mask, then the process exits with status 2.
func (s *Service) HandleShutdown() {
	s.shutdown(recover())
}

func (s *Service) shutdown(r any) {
	if r == nil {
		return
	}
	s.submit(logs.LevelCritical, fault.FromPanic(r))
	s.exit(ShutdownExitCode)
}

// report submits exceptions and panics at critical when their kind is in
// the mask. A plain panic has code 0 and is filtered as an error.
func (s *Service) report(f *fault.Fault) {
	if !f.Code().In(s.Mask()) {
		s.metrics.Suppressed(f.Code().String())
		return
	}
	s.submit(logs.LevelCritical, f)
}

func (s *Service) submit(level logs.Level, f *fault.Fault) {
	s.metrics.Captured(f.Code().String(), level.String())
	s.logger.Log(level, f, nil)
}
