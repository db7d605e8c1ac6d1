package model

import (
	"errors"
	"testing"
)

func TestTaskValidateSuccess(t *testing.T) {
	start := TimeOfDay{Hour: 9, Minute: 30}
	task := Task{
		ID:              "task-1",
		Text:            "Pay bills",
		Priority:        PriorityHigh,
		StartTime:       &start,
		DurationMinutes: 45,
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestTaskValidateRejectsBlankText(t *testing.T) {
	task := Task{ID: "task-1", Text: "   ", Priority: PriorityMedium}
	err := task.Validate()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() != "model: task text is required" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTaskValidateInvalidFields(t *testing.T) {
	task := Task{ID: "task-1", Text: "x", Priority: Priority("Urgent")}
	if err := task.Validate(); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got: %v", err)
	}

	task.Priority = PriorityLow
	task.DurationMinutes = -5
	if err := task.Validate(); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got: %v", err)
	}

	task.DurationMinutes = 0
	task.StartTime = &TimeOfDay{Hour: 25}
	if err := task.Validate(); !errors.Is(err, ErrInvalidTimeOfDay) {
		t.Fatalf("expected ErrInvalidTimeOfDay, got: %v", err)
	}
}

func TestTaskTimeRange(t *testing.T) {
	cases := []struct {
		name     string
		start    *TimeOfDay
		duration int
		want     string
		ok       bool
	}{
		{"no start", nil, 30, "", false},
		{"zero duration", &TimeOfDay{Hour: 8}, 0, "", false},
		{"same hour", &TimeOfDay{Hour: 8, Minute: 15}, 30, "08:15 - 08:45", true},
		{"crosses hour", &TimeOfDay{Hour: 9, Minute: 45}, 90, "09:45 - 11:15", true},
		{"wraps midnight", &TimeOfDay{Hour: 23, Minute: 30}, 60, "23:30 - 00:30", true},
	}
	for _, tc := range cases {
		task := Task{StartTime: tc.start, DurationMinutes: tc.duration}
		got, ok := task.TimeRange()
		if got != tc.want || ok != tc.ok {
			t.Fatalf("%s: TimeRange() = (%q, %v), want (%q, %v)", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestTaskDurationLabel(t *testing.T) {
	if got := (Task{}).DurationLabel(); got != "--" {
		t.Fatalf("expected -- for zero duration, got %q", got)
	}
	if got := (Task{DurationMinutes: 90}).DurationLabel(); got != "1h 30m" {
		t.Fatalf("expected 1h 30m, got %q", got)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("7:05")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.String() != "07:05" {
		t.Fatalf("unexpected time: %s", got)
	}

	for _, raw := range []string{"", "7", "24:00", "12:60", "ab:cd", "12:5"} {
		if _, err := ParseTimeOfDay(raw); !errors.Is(err, ErrInvalidTimeOfDay) {
			t.Fatalf("ParseTimeOfDay(%q) expected ErrInvalidTimeOfDay, got %v", raw, err)
		}
	}

	opt, err := ParseOptionalTimeOfDay("  ")
	if err != nil || opt != nil {
		t.Fatalf("expected nil time for blank input, got %v, %v", opt, err)
	}
}

func TestPriorityNextCycles(t *testing.T) {
	p := PriorityHigh
	seen := make([]Priority, 0, 3)
	for i := 0; i < 3; i++ {
		p = p.Next()
		seen = append(seen, p)
	}
	if seen[0] != PriorityMedium || seen[1] != PriorityLow || seen[2] != PriorityHigh {
		t.Fatalf("unexpected cycle: %v", seen)
	}
}
