package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mcgetts/ganttcore/internal/config"
	"github.com/mcgetts/ganttcore/internal/engine"
	"github.com/mcgetts/ganttcore/internal/metrics"
	"github.com/mcgetts/ganttcore/internal/project"
	"github.com/mcgetts/ganttcore/internal/schedule"
)

const dateLayout = "2006-01-02"

// Handler holds all HTTP handler dependencies.
type Handler struct {
	eng    *engine.Engine
	store  *project.Store
	loader *config.Loader
	mux    *http.ServeMux
}

// New creates an HTTP handler and registers all routes.
func New(eng *engine.Engine, store *project.Store, loader *config.Loader) http.Handler {
	h := &Handler{eng: eng, store: store, loader: loader, mux: http.NewServeMux()}

	h.mux.HandleFunc("GET /v1/projects", h.listProjects)
	h.mux.HandleFunc("GET /v1/projects/{id}/schedule", h.computeSchedule)
	h.mux.HandleFunc("POST /v1/projects/{id}/dependencies", h.addDependency)
	h.mux.HandleFunc("DELETE /v1/projects/{id}/dependencies/{depID}", h.removeDependency)
	h.mux.HandleFunc("POST /v1/projects/{id}/tasks/{taskID}/move", h.moveTask)
	h.mux.HandleFunc("POST /v1/projects/reload", h.reloadProjects)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /readyz", h.readyz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(h.mux)
}

// GET /v1/projects — list loaded projects with their current versions.
func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	snaps := h.store.List()
	type entry struct {
		ID        string                `json:"id"`
		Name      string                `json:"name"`
		StartDate string                `json:"start_date"`
		Version   schedule.GraphVersion `json:"graph_version"`
		TaskCount int                   `json:"task_count"`
	}
	out := make([]entry, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, entry{
			ID:        s.ProjectID,
			Name:      s.Name,
			StartDate: s.StartDate.Format(dateLayout),
			Version:   s.Version,
			TaskCount: s.Graph.TaskCount(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"projects": out})
}

// GET /v1/projects/{id}/schedule — full CPM computation for one project.
func (h *Handler) computeSchedule(w http.ResponseWriter, r *http.Request) {
	res, err := h.eng.ComputeSchedule(r.Context(), r.PathValue("id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type addDependencyRequest struct {
	Predecessor  string `json:"predecessor"`
	Successor    string `json:"successor"`
	Type         string `json:"type"`
	Lag          int    `json:"lag"`
	GraphVersion int64  `json:"graph_version"`
}

// POST /v1/projects/{id}/dependencies — add a typed precedence edge.
func (h *Handler) addDependency(w http.ResponseWriter, r *http.Request) {
	var req addDependencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	typ, err := schedule.ParseDepType(req.Type)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	dep := schedule.Dependency{
		ID:            uuid.New().String(),
		PredecessorID: req.Predecessor,
		SuccessorID:   req.Successor,
		Type:          typ,
		LagUnits:      req.Lag,
	}
	res, err := h.eng.AddDependency(r.Context(), r.PathValue("id"), dep, schedule.GraphVersion(req.GraphVersion))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dependency_id": dep.ID,
		"schedule":      res,
	})
}

// DELETE /v1/projects/{id}/dependencies/{depID}?graph_version=N
func (h *Handler) removeDependency(w http.ResponseWriter, r *http.Request) {
	var base schedule.GraphVersion
	if v := r.URL.Query().Get("graph_version"); v != "" {
		if _, err := fmt.Sscan(v, &base); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid graph_version: %s", v))
			return
		}
	}
	res, err := h.eng.RemoveDependency(r.Context(), r.PathValue("id"), r.PathValue("depID"), base)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type moveTaskRequest struct {
	NewStart     string `json:"new_start"` // YYYY-MM-DD
	GraphVersion int64  `json:"graph_version"`
}

// POST /v1/projects/{id}/tasks/{taskID}/move — propose a date change.
func (h *Handler) moveTask(w http.ResponseWriter, r *http.Request) {
	var req moveTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	newStart, err := time.Parse(dateLayout, req.NewStart)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid new_start %q (want YYYY-MM-DD)", req.NewStart))
		return
	}
	res, err := h.eng.MoveTask(r.Context(), r.PathValue("id"), schedule.DateChange{
		TaskID:      r.PathValue("taskID"),
		NewStart:    newStart,
		BaseVersion: schedule.GraphVersion(req.GraphVersion),
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// POST /v1/projects/reload — hot-reload project fixtures from disk.
func (h *Handler) reloadProjects(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.loader.Reload()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := config.Validate(cfg); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	skipped := h.store.ReplaceAll(cfg)
	msgs := make([]string, 0, len(skipped))
	for _, e := range skipped {
		msgs = append(msgs, e.Error())
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reloaded": true,
		"loaded":   len(cfg.Projects) - len(skipped),
		"skipped":  msgs,
	})
}

// GET /healthz — always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz — 503 if the compute queue is >80% full.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	util := h.eng.QueueUtilization()
	metrics.QueueUtilization.Set(util)
	if util > 0.8 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":            "overloaded",
			"queue_utilization": util,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ready",
		"queue_utilization": util,
	})
}
