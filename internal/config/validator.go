package config

import (
	"fmt"
	"strings"
)

var depTypes = map[string]struct{}{"FS": {}, "SS": {}, "FF": {}, "SF": {}}

var statuses = map[string]struct{}{"": {}, "not_started": {}, "in_progress": {}, "done": {}}

// Validate checks the config for:
//   - Duplicate project and task IDs
//   - Dependencies referencing unknown tasks, self-edges, unknown types
//   - Required fields (version, project ids, start dates, task ids)
//
// Cycle detection is deliberately NOT done here; the store re-validates every
// graph with the engine's cycle detector when it loads a snapshot.
func Validate(cfg *Config) error {
	if cfg.Version == "" {
		return fmt.Errorf("config: version is required")
	}
	var errs []string
	projectIDs := make(map[string]struct{})

	for i, p := range cfg.Projects {
		if p.ID == "" {
			errs = append(errs, fmt.Sprintf("projects[%d]: id is required", i))
			continue
		}
		loc := fmt.Sprintf("project %s", p.ID)
		if _, dup := projectIDs[p.ID]; dup {
			errs = append(errs, fmt.Sprintf("duplicate project id %q", p.ID))
		}
		projectIDs[p.ID] = struct{}{}
		if p.StartDate.IsZero() {
			errs = append(errs, fmt.Sprintf("%s: start_date is required", loc))
		}

		taskIDs := make(map[string]struct{}, len(p.Tasks))
		for j, t := range p.Tasks {
			if t.ID == "" {
				errs = append(errs, fmt.Sprintf("%s.tasks[%d]: id is required", loc, j))
				continue
			}
			if _, dup := taskIDs[t.ID]; dup {
				errs = append(errs, fmt.Sprintf("%s: duplicate task id %q", loc, t.ID))
			}
			taskIDs[t.ID] = struct{}{}
			if t.Duration < 0 {
				errs = append(errs, fmt.Sprintf("%s task %s: duration must not be negative", loc, t.ID))
			}
			if _, ok := statuses[t.Status]; !ok {
				errs = append(errs, fmt.Sprintf("%s task %s: unknown status %q", loc, t.ID, t.Status))
			}
		}

		for j, d := range p.Dependencies {
			dloc := fmt.Sprintf("%s.dependencies[%d]", loc, j)
			if _, ok := depTypes[d.Type]; !ok {
				errs = append(errs, fmt.Sprintf("%s: type %q is not one of FS, SS, FF, SF", dloc, d.Type))
			}
			if d.Predecessor == "" || d.Successor == "" {
				errs = append(errs, fmt.Sprintf("%s: predecessor and successor are required", dloc))
				continue
			}
			if d.Predecessor == d.Successor {
				errs = append(errs, fmt.Sprintf("%s: task %q cannot depend on itself", dloc, d.Predecessor))
			}
			if _, ok := taskIDs[d.Predecessor]; !ok {
				errs = append(errs, fmt.Sprintf("%s: unknown predecessor %q", dloc, d.Predecessor))
			}
			if _, ok := taskIDs[d.Successor]; !ok {
				errs = append(errs, fmt.Sprintf("%s: unknown successor %q", dloc, d.Successor))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
