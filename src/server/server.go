// Package server is the admin HTTP surface: health, metrics and the fault
// journal, with request panics routed into fault capture.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"reflect"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	logger "github.com/sirupsen/logrus"

	"faultcapture/src/fault"
	"faultcapture/src/logs"
	"faultcapture/src/model"
	"faultcapture/src/repository"
)

type routerKey struct{}

func init() {
	logs.TrackPackage(reflect.TypeOf(routerKey{}).PkgPath())
}

// PanicHandler receives panics recovered from request handlers.
type PanicHandler interface {
	HandlePanic(r any)
}

// FaultLister lists journaled faults.
type FaultLister interface {
	Search(ctx context.Context, opts repository.FaultSearchOptions) ([]model.FaultRecord, error)
}

// Deps are the collaborators of the router. Faults may be nil when the
// journal is disabled.
type Deps struct {
	Panics   PanicHandler
	Registry *prometheus.Registry
	Faults   FaultLister
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	// === Global Middleware ===
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Recoverer(deps.Panics))

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error("/healthcheck write error")
		}
	})

	if deps.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Get("/faults", listFaults(deps.Faults))
	return r
}

// Recoverer reports request panics to h and answers 500.
func Recoverer(h PanicHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				if h != nil {
					h.HandlePanic(fault.FromPanic(rec, fault.WithExtra(map[string]any{
						"method":    r.Method,
						"path":      r.URL.Path,
						"requestId": middleware.GetReqID(r.Context()),
					})))
				}
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func listFaults(faults FaultLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if faults == nil {
			http.Error(w, "fault journal disabled", http.StatusServiceUnavailable)
			return
		}

		opts := repository.FaultSearchOptions{Level: r.URL.Query().Get("level")}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 0 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			opts.Limit = limit
		}
		if opts.Level != "" {
			if _, err := logs.ParseLevel(opts.Level); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}

		records, err := faults.Search(r.Context(), opts)
		if err != nil {
			logger.WithError(err).Error("[server] listing faults")
			http.Error(w, "failed to list faults", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			logger.WithError(err).Error("[server] encoding faults")
		}
	}
}

// StartServer serves handler on cfg's port until SIGINT or SIGTERM.
func StartServer(cfg *Config, handler http.Handler) {
	addr := cfg.Addr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server crashed")
		}
	}()

	// Shutdown on SIGINT or SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}
}
