// Package server exposes the evolution engine over HTTP. Every request is an
// independent one-shot computation; the server keeps no circuit state.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"qevolve/internal/circuitio"
	"qevolve/internal/quantum"
	"qevolve/internal/report"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Options configure a Server.
type Options struct {
	// MaxQubits rejects larger circuits with 413. Zero means no limit.
	MaxQubits int
	// Registry receives the metrics; a fresh registry is used when nil.
	Registry *prometheus.Registry
}

// Server holds the HTTP handlers.
type Server struct {
	logger    *log.Logger
	maxQubits int
	registry  *prometheus.Registry
	metrics   *Metrics
}

// New creates a Server.
func New(logger *log.Logger, opts Options) *Server {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	return &Server{
		logger:    logger,
		maxQubits: opts.MaxQubits,
		registry:  reg,
		metrics:   NewMetrics(reg),
	}
}

// Request is the body accepted by every POST route: the {"circuit": [...]}
// envelope plus optional switches.
type Request struct {
	Circuit []circuitio.OpRecord `json:"circuit"`
	Qubits  *int                 `json:"qubits,omitempty"`
	// PerStep adds Bloch data after every step (/bloch, /state-evolution).
	PerStep bool `json:"per_step,omitempty"`
}

// ErrorBody is the error payload.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Post("/simulate", s.withCircuit("simulate", s.simulate))
	r.Post("/state-evolution", s.withCircuit("state-evolution", s.stateEvolution))
	r.Post("/bloch", s.withCircuit("bloch", s.bloch))
	r.Post("/qasm", s.withCircuit("qasm", s.qasm))
	return r
}

// circuitHandler produces the response payload for a validated circuit.
type circuitHandler func(req *Request, c *quantum.Circuit) (any, error)

// withCircuit decodes and validates the request, enforces the qubit limit,
// runs h and writes the result or the mapped error.
func (s *Server) withCircuit(route string, h circuitHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runID := uuid.NewString()
		w.Header().Set("X-Run-ID", runID)
		logger := s.logger.With("route", route, "run_id", runID)

		var req Request
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err := dec.Decode(&req); err != nil {
			s.fail(w, route, http.StatusBadRequest, "BAD_REQUEST", fmt.Sprintf("invalid request body: %v", err))
			return
		}

		c, err := circuitio.BuildCircuit(req.Circuit, req.Qubits)
		if err != nil {
			logger.Warn("rejected circuit", "err", err)
			s.failCircuit(w, route, err)
			return
		}
		if s.maxQubits > 0 && c.NumQubits() > s.maxQubits {
			s.fail(w, route, http.StatusRequestEntityTooLarge, "CIRCUIT_TOO_LARGE",
				fmt.Sprintf("circuit needs %d qubits, limit is %d", c.NumQubits(), s.maxQubits))
			return
		}

		out, err := h(&req, c)
		if err != nil {
			logger.Warn("evolution failed", "err", err)
			s.failCircuit(w, route, err)
			return
		}
		logger.Debug("served", "qubits", c.NumQubits(), "ops", c.Len())
		s.metrics.requests.WithLabelValues(route, strconv.Itoa(http.StatusOK)).Inc()
		writeJSON(w, http.StatusOK, out)
	}
}

// evolve runs the engine and records timing.
func (s *Server) evolve(c *quantum.Circuit) ([]quantum.StepRecord, error) {
	start := time.Now()
	trace, err := quantum.Evolve(c)
	s.metrics.evolutions.Observe(time.Since(start).Seconds())
	s.metrics.qubits.Observe(float64(c.NumQubits()))
	return trace, err
}

func (s *Server) simulate(_ *Request, c *quantum.Circuit) (any, error) {
	trace, err := s.evolve(c)
	if err != nil {
		return nil, err
	}
	final := quantum.InitialState(c)
	if len(trace) > 0 {
		final = trace[len(trace)-1].State
	}
	return report.NewFinalState(final), nil
}

func (s *Server) stateEvolution(req *Request, c *quantum.Circuit) (any, error) {
	trace, err := s.evolve(c)
	if err != nil {
		return nil, err
	}
	return report.NewEvolution(c, trace, req.PerStep), nil
}

func (s *Server) bloch(req *Request, c *quantum.Circuit) (any, error) {
	trace, err := s.evolve(c)
	if err != nil {
		return nil, err
	}
	return report.NewBlochReport(c, trace, req.PerStep), nil
}

func (s *Server) qasm(_ *Request, c *quantum.Circuit) (any, error) {
	return map[string]string{"qasm": circuitio.ToQASM(c)}, nil
}

// failCircuit maps the engine's error taxonomy onto HTTP statuses.
func (s *Server) failCircuit(w http.ResponseWriter, route string, err error) {
	code := quantum.ErrorCode(err)
	status := http.StatusInternalServerError
	if errors.Is(err, quantum.ErrUnsupportedGate) ||
		errors.Is(err, quantum.ErrInvalidOperand) ||
		errors.Is(err, quantum.ErrRangeViolation) {
		status = http.StatusUnprocessableEntity
	}
	s.metrics.failures.WithLabelValues(code).Inc()
	s.fail(w, route, status, code, err.Error())
}

func (s *Server) fail(w http.ResponseWriter, route string, status int, code, msg string) {
	s.metrics.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	writeJSON(w, status, ErrorBody{Error: ErrorDetail{Code: code, Message: msg}})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
