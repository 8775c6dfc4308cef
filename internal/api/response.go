package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcgetts/ganttcore/internal/engine"
	"github.com/mcgetts/ganttcore/internal/schedule"
)

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the standard error envelope. Code carries the engine's
// error class so clients can branch without parsing messages.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeEngineError maps the engine's error taxonomy onto HTTP statuses: the
// engine never decides status codes itself, that is this layer's job.
func writeEngineError(w http.ResponseWriter, err error) {
	var (
		cyc  *schedule.CycleError
		self *schedule.SelfDependencyError
		xp   *schedule.CrossProjectDependencyError
		ref  *schedule.InvalidReferenceError
		typ  *schedule.InvalidDependencyTypeError
		viol *schedule.ConstraintViolationError
		conc *schedule.ConcurrencyError
		capa *schedule.CapacityError
	)
	switch {
	case errors.Is(err, engine.ErrProjectNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Code: "project_not_found"})
	case errors.As(err, &ref):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Code: "invalid_reference"})
	case errors.As(err, &conc):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Code: "stale_version"})
	case errors.As(err, &cyc):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Code: "cycle"})
	case errors.As(err, &self):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Code: "self_dependency"})
	case errors.As(err, &xp):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Code: "cross_project"})
	case errors.As(err, &typ):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Code: "invalid_dependency_type"})
	case errors.As(err, &viol):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Code: "constraint_violation"})
	case errors.As(err, &capa):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Code: "capacity"})
	case errors.Is(err, engine.ErrQueueFull):
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: err.Error(), Code: "queue_full"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

// loggingMiddleware logs every request with method, path, status and latency.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
