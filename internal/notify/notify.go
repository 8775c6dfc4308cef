// Package notify is the seam to the external notification collaborator: the
// engine hands it the minimal diff of every committed change and registered
// listeners (a WebSocket broadcaster, in the full system) fan it out. This
// core only ships a log-backed listener.
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/mcgetts/ganttcore/internal/schedule"
)

// ScheduleEvent describes one committed change to a project's schedule.
// ChangedTaskIDs carries only the tasks whose computed dates moved, so
// transports can send minimal updates instead of rebroadcasting everything.
type ScheduleEvent struct {
	ProjectID      string                `json:"project_id"`
	GraphVersion   schedule.GraphVersion `json:"graph_version"`
	ChangedTaskIDs []string              `json:"changed_task_ids"`
	ProjectEnd     time.Time             `json:"project_end"`
	OccurredAt     time.Time             `json:"occurred_at"`
}

// Listener receives schedule events. Implementations must not block; slow
// delivery is the transport's problem, not the engine's.
type Listener interface {
	// Name returns the string key this listener is registered under.
	Name() string
	// Notify delivers one event.
	Notify(ev ScheduleEvent)
}

// Dispatcher fans events out to registered listeners. It is safe for
// concurrent reads; Register should only be called at startup.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[string]Listener
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[string]Listener)}
}

// Register adds a listener. Panics on duplicate name to surface
// misconfiguration early.
func (d *Dispatcher) Register(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.listeners[l.Name()]; exists {
		panic(fmt.Sprintf("notify dispatcher: duplicate listener %q", l.Name()))
	}
	d.listeners[l.Name()] = l
}

// Publish delivers the event to every registered listener.
func (d *Dispatcher) Publish(ev ScheduleEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, l := range d.listeners {
		l.Notify(ev)
	}
}

// Names returns all registered listener names.
func (d *Dispatcher) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.listeners))
	for k := range d.listeners {
		out = append(out, k)
	}
	return out
}
