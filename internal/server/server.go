// Package server exposes charts over HTTP.
//
// Routes:
//
//	GET /chart.{json,svg,png,csv,tsv}  chart for the configured observer, with query overrides
//	GET /healthz                       liveness and ephemeris name
//	GET /metrics                       Prometheus metrics
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/thurmanmarka/astrowheel"
	"github.com/thurmanmarka/astrowheel/internal/config"
	"github.com/thurmanmarka/astrowheel/internal/render"
)

// Server renders charts on request. Its configuration can be swapped while
// serving.
type Server struct {
	mu     sync.RWMutex
	file   config.File
	engine *astrowheel.Engine

	logger  *log.Logger
	metrics *Metrics
	now     func() time.Time
}

// New builds a server from f. A nil metrics disables instrumentation.
func New(f config.File, logger *log.Logger, metrics *Metrics) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{logger: logger, metrics: metrics, now: time.Now}
	if err := s.Reload(f); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload validates f, builds its engine and swaps both in.
func (s *Server) Reload(f config.File) error {
	if err := f.Validate(); err != nil {
		return err
	}
	opts, err := f.EngineOptions()
	if err != nil {
		return err
	}
	opts = append(opts, astrowheel.WithLogger(s.logger))
	eng, err := astrowheel.NewEngine(opts...)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.file, s.engine = f, eng
	s.mu.Unlock()
	return nil
}

// Follow applies every file received on files until it closes or ctx ends.
func (s *Server) Follow(ctx context.Context, files <-chan config.File) {
	for {
		select {
		case <-ctx.Done():
			return
		case f, ok := <-files:
			if !ok {
				return
			}
			if err := s.Reload(f); err != nil {
				s.logger.Warn("rejected reloaded config", "err", err)
				continue
			}
			if s.metrics != nil {
				s.metrics.ConfigReloads.Inc()
			}
			s.logger.Info("applied reloaded config", "addr", f.Server.Addr)
		}
	}
}

func (s *Server) snapshot() (config.File, *astrowheel.Engine) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.file, s.engine
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.instrument)

	r.HandleFunc("/chart.{format:json|svg|png|csv|tsv}", s.handleChart).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	f, _ := s.snapshot()
	srv := &http.Server{
		Addr:         f.Server.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  f.Server.ReadTimeout,
		WriteTimeout: f.Server.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), f.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return <-errc
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	format, err := render.ParseFormat(mux.Vars(r)["format"])
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	f, eng := s.snapshot()
	req, err := parseRequest(r, f, s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	chart, err := eng.Compute(req.time, req.coords, req.cfg)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if !chart.Ascendant.Defined && s.metrics != nil {
		s.metrics.UndefinedAscendants.Inc()
	}

	w.Header().Set("Content-Type", format.ContentType())
	if err := render.Write(w, chart, format, req.size); err != nil {
		s.logger.Error("encode chart", "format", format, "err", err)
		return
	}
	if s.metrics != nil {
		s.metrics.Durations.WithLabelValues(string(format)).Observe(time.Since(start).Seconds())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, eng := s.snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"ephemeris": eng.EphemerisName(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, astrowheel.ErrInvalidCoordinates),
		errors.Is(err, astrowheel.ErrInvalidConfig),
		errors.Is(err, astrowheel.ErrUnknownPreset),
		errors.Is(err, astrowheel.ErrUnknownBody):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		if s.metrics != nil {
			s.metrics.Requests.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
		}
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "code", rec.code,
			"elapsed", time.Since(start).Round(time.Microsecond))
	})
}
