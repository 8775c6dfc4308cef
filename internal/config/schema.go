package config

import "time"

// Config is the top-level YAML structure.
type Config struct {
	Version  string       `yaml:"version"`
	Engine   EngineConf   `yaml:"engine"`
	Projects []ProjectDef `yaml:"projects"`
}

// EngineConf holds tunable compute settings.
type EngineConf struct {
	ComputeWorkers     int `yaml:"compute_workers"`
	QueueDepth         int `yaml:"queue_depth"`
	ComputeTimeoutMs   int `yaml:"compute_timeout_ms"`
	MaxTasksPerProject int `yaml:"max_tasks_per_project"`
}

// ProjectDef is one project's persisted snapshot: its tasks and the typed
// dependencies between them.
type ProjectDef struct {
	ID           string          `yaml:"id"`
	Name         string          `yaml:"name"`
	StartDate    time.Time       `yaml:"start_date"`
	Tasks        []TaskDef       `yaml:"tasks"`
	Dependencies []DependencyDef `yaml:"dependencies"`
}

// TaskDef describes a single schedulable task.
type TaskDef struct {
	ID       string    `yaml:"id"`
	Name     string    `yaml:"name"`
	Duration int       `yaml:"duration"` // whole days
	Start    time.Time `yaml:"start,omitempty"`
	Pinned   bool      `yaml:"pinned,omitempty"`
	Status   string    `yaml:"status,omitempty"` // not_started (default), in_progress, done
}

// DependencyDef is a typed precedence edge between two tasks of the same
// project. Lag may be negative for lead time.
type DependencyDef struct {
	ID          string `yaml:"id,omitempty"`
	Predecessor string `yaml:"predecessor"`
	Successor   string `yaml:"successor"`
	Type        string `yaml:"type"` // FS, SS, FF, SF
	Lag         int    `yaml:"lag,omitempty"`
}
