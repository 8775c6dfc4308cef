package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Version: "v1",
		Projects: []ProjectDef{
			{
				ID:        "p1",
				Name:      "Test project",
				StartDate: time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
				Tasks: []TaskDef{
					{ID: "a", Duration: 5},
					{ID: "b", Duration: 3},
				},
				Dependencies: []DependencyDef{
					{Predecessor: "a", Successor: "b", Type: "FS"},
				},
			},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_MissingVersion(t *testing.T) {
	cfg := validConfig()
	cfg.Version = ""
	if err := Validate(cfg); err == nil {
		t.Error("expected error for missing version")
	}
}

// All problems are reported at once, not just the first.
func TestValidate_AccumulatesErrors(t *testing.T) {
	cfg := validConfig()
	p := &cfg.Projects[0]
	p.StartDate = time.Time{}
	p.Tasks = append(p.Tasks, TaskDef{ID: "a", Duration: -1, Status: "paused"})
	p.Dependencies = append(p.Dependencies,
		DependencyDef{Predecessor: "a", Successor: "a", Type: "FS"},
		DependencyDef{Predecessor: "ghost", Successor: "b", Type: "WAT"},
	)

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	msg := err.Error()
	for _, want := range []string{
		"start_date is required",
		`duplicate task id "a"`,
		"duration must not be negative",
		`unknown status "paused"`,
		`cannot depend on itself`,
		`unknown predecessor "ghost"`,
		`type "WAT"`,
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("missing %q in:\n%s", want, msg)
		}
	}
}

func TestValidate_DuplicateProjectID(t *testing.T) {
	cfg := validConfig()
	cfg.Projects = append(cfg.Projects, cfg.Projects[0])
	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), `duplicate project id "p1"`) {
		t.Errorf("expected duplicate project error, got %v", err)
	}
}
