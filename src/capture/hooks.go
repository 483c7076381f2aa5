package capture

import (
	"sync"
	"sync/atomic"

	"faultcapture/src/fault"
)

type hookTable struct {
	shutdown  *Service
	exception *Service
	errors    *Service
}

var (
	hooks   atomic.Pointer[hookTable]
	hooksMu sync.Mutex
)

func current() *hookTable {
	if t := hooks.Load(); t != nil {
		return t
	}
	return &hookTable{}
}

func install(s *Service) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	hooks.Store(&hookTable{shutdown: s, exception: s, errors: s})
}

func uninstall(s *Service) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	t := *current()
	if t.exception == s {
		t.exception = nil
	}
	if t.errors == s {
		t.errors = nil
	}
	hooks.Store(&t)
}

// Recover reports a panic in flight to the registered service. Without one
// the panic continues. It must be deferred directly.
func Recover() {
	r := recover()
	if r == nil {
		return
	}
	s := current().exception
	if s == nil {
		panic(r)
	}
	s.HandlePanic(r)
}

// Go runs fn on a new goroutine guarded by Recover.
func Go(fn func()) {
	go func() {
		defer Recover()
		fn()
	}()
}

// ReportError forwards a runtime error to the registered service. Without
// one it is dropped.
func ReportError(kind fault.Kind, message, file string, line int, extra any) error {
	s := current().errors
	if s == nil {
		return nil
	}
	return s.HandleError(kind, message, file, line, extra)
}

// ReportException forwards err to the registered service.
func ReportException(err error) {
	if s := current().exception; s != nil {
		s.HandleException(err)
	}
}

// Shutdown hands a panic in flight to the service that registered last.
// It must be deferred directly at the top of main.
func Shutdown() {
	r := recover()
	if r == nil {
		return
	}
	s := current().shutdown
	if s == nil {
		panic(r)
	}
	s.shutdown(r)
}

// ResetHooksForTesting clears the hook table.
func ResetHooksForTesting() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	hooks.Store(nil)
}
