package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mcgetts/ganttcore/internal/config"
	"github.com/mcgetts/ganttcore/internal/metrics"
	"github.com/mcgetts/ganttcore/internal/notify"
	"github.com/mcgetts/ganttcore/internal/project"
	"github.com/mcgetts/ganttcore/internal/schedule"
)

// ErrQueueFull is returned when the compute queue cannot accept more work.
var ErrQueueFull = errors.New("compute queue full")

// ErrProjectNotFound is returned for operations on unknown project ids.
var ErrProjectNotFound = errors.New("project not found")

// Engine fronts the pure scheduling core with a bounded worker pool and wires
// committed changes to the store and the notification dispatcher. The core
// itself stays stateless; every request works on an explicit snapshot.
type Engine struct {
	store      *project.Store
	sched      *schedule.Scheduler
	dispatcher *notify.Dispatcher
	pool       *workerPool
	conf       *config.EngineConf
}

type response struct {
	result *schedule.ScheduleResult
	err    error
}

// New creates an Engine using conf and starts the compute pool.
func New(ctx context.Context, store *project.Store, dispatcher *notify.Dispatcher, conf config.EngineConf) *Engine {
	return &Engine{
		store:      store,
		sched:      &schedule.Scheduler{MaxTasks: conf.MaxTasksPerProject},
		dispatcher: dispatcher,
		pool:       newWorkerPool(ctx, conf.ComputeWorkers, conf.QueueDepth),
		conf:       &conf,
	}
}

// ComputeSchedule runs the full forward+backward pass for one project and
// caches the result for future diffs. Pure read: the graph version does not
// advance.
func (e *Engine) ComputeSchedule(ctx context.Context, projectID string) (*schedule.ScheduleResult, error) {
	return e.run(ctx, func() (*schedule.ScheduleResult, error) {
		snap, ok := e.store.Snapshot(projectID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
		}
		start := time.Now()
		res, err := e.sched.ComputeSchedule(snap.Graph, snap.StartDate)
		if err != nil {
			return nil, err
		}
		res.GraphVersion = snap.Version
		res.DiffAgainst(snap.LastResult)
		e.store.SetResult(projectID, res)

		metrics.SchedulesComputed.WithLabelValues(projectID).Inc()
		metrics.ComputeDuration.Observe(float64(time.Since(start).Milliseconds()))
		return res, nil
	})
}

// AddDependency validates the new edge (structure and cycle closure), commits
// the extended graph and recomputes the schedule.
func (e *Engine) AddDependency(ctx context.Context, projectID string, dep schedule.Dependency, base schedule.GraphVersion) (*schedule.ScheduleResult, error) {
	return e.run(ctx, func() (*schedule.ScheduleResult, error) {
		snap, ok := e.store.Snapshot(projectID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
		}
		if err := schedule.CheckVersion(base, snap.Version); err != nil {
			metrics.EditsRejected.WithLabelValues("concurrency").Inc()
			return nil, err
		}
		next, err := snap.Graph.WithDependency(dep)
		if err != nil {
			var cyc *schedule.CycleError
			if errors.As(err, &cyc) {
				metrics.CyclesRejected.Inc()
			}
			metrics.EditsRejected.WithLabelValues(rejectReason(err)).Inc()
			return nil, err
		}
		return e.commit(projectID, base, next, snap)
	})
}

// RemoveDependency deletes an edge by id, commits and recomputes.
func (e *Engine) RemoveDependency(ctx context.Context, projectID, dependencyID string, base schedule.GraphVersion) (*schedule.ScheduleResult, error) {
	return e.run(ctx, func() (*schedule.ScheduleResult, error) {
		snap, ok := e.store.Snapshot(projectID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
		}
		if err := schedule.CheckVersion(base, snap.Version); err != nil {
			metrics.EditsRejected.WithLabelValues("concurrency").Inc()
			return nil, err
		}
		next, err := snap.Graph.WithoutDependency(dependencyID)
		if err != nil {
			metrics.EditsRejected.WithLabelValues(rejectReason(err)).Inc()
			return nil, err
		}
		return e.commit(projectID, base, next, snap)
	})
}

// MoveTask applies a proposed date change: floor check against direct
// predecessors, commit, full recomputation, diff.
func (e *Engine) MoveTask(ctx context.Context, projectID string, change schedule.DateChange) (*schedule.ScheduleResult, error) {
	return e.run(ctx, func() (*schedule.ScheduleResult, error) {
		snap, ok := e.store.Snapshot(projectID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
		}
		next, res, err := e.sched.ProposeDateChange(snap.Graph, change, snap.Version, snap.StartDate, snap.LastResult)
		if err != nil {
			metrics.EditsRejected.WithLabelValues(rejectReason(err)).Inc()
			return nil, err
		}
		version, err := e.store.Commit(projectID, change.BaseVersion, next, res)
		if err != nil {
			metrics.EditsRejected.WithLabelValues("concurrency").Inc()
			return nil, err
		}
		e.publish(projectID, version, res)
		metrics.EditsCommitted.Inc()
		return res, nil
	})
}

// commit recomputes over the edited graph, installs it and publishes the diff.
func (e *Engine) commit(projectID string, base schedule.GraphVersion, next *schedule.ProjectGraph, snap project.Snapshot) (*schedule.ScheduleResult, error) {
	res, err := e.sched.ComputeSchedule(next, snap.StartDate)
	if err != nil {
		metrics.EditsRejected.WithLabelValues(rejectReason(err)).Inc()
		return nil, err
	}
	res.DiffAgainst(snap.LastResult)
	version, err := e.store.Commit(projectID, base, next, res)
	if err != nil {
		metrics.EditsRejected.WithLabelValues("concurrency").Inc()
		return nil, err
	}
	e.publish(projectID, version, res)
	metrics.EditsCommitted.Inc()
	return res, nil
}

func (e *Engine) publish(projectID string, version schedule.GraphVersion, res *schedule.ScheduleResult) {
	e.dispatcher.Publish(notify.ScheduleEvent{
		ProjectID:      projectID,
		GraphVersion:   version,
		ChangedTaskIDs: res.Changed,
		ProjectEnd:     res.ProjectEnd,
		OccurredAt:     time.Now(),
	})
}

// run executes fn on the compute pool, bounded by the configured timeout.
func (e *Engine) run(ctx context.Context, fn func() (*schedule.ScheduleResult, error)) (*schedule.ScheduleResult, error) {
	resultC := make(chan response, 1)
	if !e.pool.Submit(func(context.Context) {
		res, err := fn()
		resultC <- response{result: res, err: err}
	}) {
		metrics.RequestsDropped.Inc()
		return nil, fmt.Errorf("%w (capacity %d)", ErrQueueFull, e.conf.QueueDepth)
	}

	timeout := time.Duration(e.conf.ComputeTimeoutMs) * time.Millisecond
	select {
	case r := <-resultC:
		return r.result, r.err
	case <-time.After(timeout):
		return nil, fmt.Errorf("schedule computation timeout after %v", timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// rejectReason buckets an error for the edits_rejected metric.
func rejectReason(err error) string {
	var (
		cyc  *schedule.CycleError
		conc *schedule.ConcurrencyError
		capa *schedule.CapacityError
		viol *schedule.ConstraintViolationError
	)
	switch {
	case errors.As(err, &conc):
		return "concurrency"
	case errors.As(err, &cyc):
		return "cycle"
	case errors.As(err, &capa):
		return "capacity"
	case errors.As(err, &viol):
		return "constraint"
	default:
		return "invalid"
	}
}

// QueueUtilization returns queue used / capacity (0–1).
func (e *Engine) QueueUtilization() float64 {
	if e.pool.QueueCap() == 0 {
		return 0
	}
	return float64(e.pool.QueueLen()) / float64(e.pool.QueueCap())
}

// Shutdown drains the compute pool gracefully.
func (e *Engine) Shutdown() {
	e.pool.Drain()
}
