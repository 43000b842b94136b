package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/flashbots/go-utils/httplogger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ruteri/creator-hub-gateway/api"
	"github.com/ruteri/creator-hub-gateway/interfaces"
	"github.com/ruteri/creator-hub-gateway/metrics"
	"go.uber.org/atomic"
)

const (
	rootMessage               = "Stellar CreatorHub backend is running"
	defaultHealthCheckTimeout = 5 * time.Second
)

// RouteRegistrar contributes routes to the server's router.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

type Server struct {
	cfg     *api.HTTPServerConfig
	isReady atomic.Bool
	log     *slog.Logger

	store interfaces.SecretStore
	probe interfaces.NetworkProbe

	srv        *http.Server
	metricsSrv *metrics.MetricsServer
	handlers   []RouteRegistrar
}

// New creates a server. probe may be nil, in which case /network-health
// reports the probe as not configured.
func New(cfg *api.HTTPServerConfig, store interfaces.SecretStore, probe interfaces.NetworkProbe, handlers ...RouteRegistrar) (srv *Server, err error) {
	if cfg.Log == nil {
		return nil, errors.New("httpserver: logger is required")
	}
	if store == nil {
		return nil, errors.New("httpserver: secret store is required")
	}

	srv = &Server{
		cfg:        cfg,
		log:        cfg.Log,
		store:      store,
		probe:      probe,
		metricsSrv: metrics.New(cfg.MetricsAddr),
		handlers:   handlers,
	}
	srv.isReady.Store(true)

	srv.srv = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      srv.getRouter(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return srv, nil
}

// Handler returns the server's root handler.
func (srv *Server) Handler() http.Handler {
	return srv.srv.Handler
}

func (srv *Server) getRouter() http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer, metrics.Middleware, srv.httpLogger)

	// Liveness and health endpoints
	mux.Get("/", srv.handleRoot)
	mux.Get("/health", srv.handleHealth)
	mux.Get("/livez", srv.handleLivenessCheck)
	mux.Get("/readyz", srv.handleReadinessCheck)
	mux.Get("/db-health", srv.handleDBHealth)
	mux.Get("/network-health", srv.handleNetworkHealth)
	mux.Get("/drain", srv.handleDrain)
	mux.Get("/undrain", srv.handleUndrain)

	for _, h := range srv.handlers {
		h.RegisterRoutes(mux)
	}

	if srv.cfg.EnablePprof {
		srv.log.Info("pprof API enabled")
		mux.Mount("/debug", middleware.Profiler())
	}
	return mux
}

func (srv *Server) httpLogger(next http.Handler) http.Handler {
	return httplogger.LoggingMiddlewareSlog(srv.log, next)
}

func (srv *Server) healthContext(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := srv.cfg.HealthCheckTimeout
	if timeout <= 0 {
		timeout = defaultHealthCheckTimeout
	}
	return context.WithTimeout(r.Context(), timeout)
}

func (srv *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	srv.writeJSON(w, http.StatusOK, api.MessageResponse{Message: rootMessage})
}

func (srv *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	srv.writeJSON(w, http.StatusOK, api.StatusResponse{Status: "ok"})
}

func (srv *Server) handleLivenessCheck(w http.ResponseWriter, r *http.Request) {
	srv.writeJSON(w, http.StatusOK, api.StatusResponse{Status: "alive"})
}

func (srv *Server) handleReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if !srv.isReady.Load() {
		srv.writeJSON(w, http.StatusServiceUnavailable, api.StatusResponse{Status: "not ready"})
		return
	}
	srv.writeJSON(w, http.StatusOK, api.StatusResponse{Status: "ready"})
}

// handleDBHealth always answers 200; the body reports whether the store is reachable.
func (srv *Server) handleDBHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := srv.healthContext(r)
	defer cancel()

	err := srv.store.Ping(ctx)
	if err != nil {
		srv.log.Warn("Secret store ping failed", slog.String("store", srv.store.Name()), "err", err)
	}
	srv.writeJSON(w, http.StatusOK, api.DBHealthResponse{DBOk: err == nil})
}

func (srv *Server) handleNetworkHealth(w http.ResponseWriter, r *http.Request) {
	if srv.probe == nil {
		srv.writeJSON(w, http.StatusOK, api.NetworkHealthResponse{OK: false, Detail: "network RPC probe not configured"})
		return
	}

	ctx, cancel := srv.healthContext(r)
	defer cancel()

	health, err := srv.probe.Health(ctx)
	if err != nil {
		srv.log.Warn("Network health probe failed", "err", err)
		srv.writeJSON(w, http.StatusServiceUnavailable, api.NetworkHealthResponse{OK: false, Detail: err.Error()})
		return
	}
	srv.writeJSON(w, http.StatusOK, api.NetworkHealthResponse{OK: health.Status == "healthy", Health: health})
}

func (srv *Server) handleDrain(w http.ResponseWriter, r *http.Request) {
	if !srv.isReady.Swap(false) {
		srv.writeJSON(w, http.StatusOK, api.StatusResponse{Status: "already draining"})
		return
	}

	srv.log.Info("Server marked as not ready")
	srv.writeJSON(w, http.StatusOK, api.StatusResponse{Status: "draining"})
}

func (srv *Server) handleUndrain(w http.ResponseWriter, r *http.Request) {
	if srv.isReady.Swap(true) {
		srv.writeJSON(w, http.StatusOK, api.StatusResponse{Status: "already ready"})
		return
	}

	srv.log.Info("Server marked as ready")
	srv.writeJSON(w, http.StatusOK, api.StatusResponse{Status: "ready"})
}

func (srv *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		srv.log.Error("Failed to encode response", "err", err)
	}
}

func (srv *Server) RunInBackground() {
	// metrics
	if srv.cfg.MetricsAddr != "" {
		go func() {
			srv.log.With("metricsAddress", srv.cfg.MetricsAddr).Info("Starting metrics server")
			err := srv.metricsSrv.ListenAndServe()
			if err != nil && !metrics.IsServerClosed(err) {
				srv.log.Error("HTTP server failed", "err", err)
			}
		}()
	}

	// api
	go func() {
		srv.log.Info("Starting HTTP server", "listenAddress", srv.cfg.ListenAddr)
		if err := srv.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.log.Error("HTTP server failed", "err", err)
		}
	}()
}

// Shutdown marks the server not ready, waits the drain duration so load
// balancers notice, then stops accepting requests and waits for in-flight ones.
func (srv *Server) Shutdown() {
	if srv.isReady.Swap(false) && srv.cfg.DrainDuration > 0 {
		srv.log.Info("Draining before shutdown", "duration", srv.cfg.DrainDuration)
		time.Sleep(srv.cfg.DrainDuration)
	}

	// api
	ctx, cancel := context.WithTimeout(context.Background(), srv.cfg.GracefulShutdownDuration)
	defer cancel()
	if err := srv.srv.Shutdown(ctx); err != nil {
		srv.log.Error("Graceful HTTP server shutdown failed", "err", err)
	} else {
		srv.log.Info("HTTP server gracefully stopped")
	}

	// metrics
	if len(srv.cfg.MetricsAddr) != 0 {
		ctx, cancel := context.WithTimeout(context.Background(), srv.cfg.GracefulShutdownDuration)
		defer cancel()

		if err := srv.metricsSrv.Shutdown(ctx); err != nil {
			srv.log.Error("Graceful metrics server shutdown failed", "err", err)
		} else {
			srv.log.Info("Metrics server gracefully stopped")
		}
	}
}
