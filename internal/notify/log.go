package notify

import "log/slog"

// LogListener writes every schedule event to the default logger. It stands in
// for the realtime transport during development and in tests.
type LogListener struct{}

func (LogListener) Name() string { return "log" }

func (LogListener) Notify(ev ScheduleEvent) {
	slog.Info("schedule changed",
		"project_id", ev.ProjectID,
		"graph_version", ev.GraphVersion,
		"changed_tasks", len(ev.ChangedTaskIDs),
		"project_end", ev.ProjectEnd.Format("2006-01-02"),
	)
}
