package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidPriority  = errors.New("model: invalid task priority")
	ErrInvalidTimeOfDay = errors.New("model: invalid time of day")
	ErrInvalidDuration  = errors.New("model: invalid task duration")
)

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Priorities lists the selectable priorities in display order.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// Next cycles High -> Medium -> Low -> High.
func (p Priority) Next() Priority {
	switch p {
	case PriorityHigh:
		return PriorityMedium
	case PriorityMedium:
		return PriorityLow
	default:
		return PriorityHigh
	}
}

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay accepts "H:MM" or "HH:MM" in 24h form.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	trimmed := strings.TrimSpace(raw)
	hh, mm, ok := strings.Cut(trimmed, ":")
	if !ok {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, raw)
	}
	h, errH := strconv.Atoi(hh)
	m, errM := strconv.Atoi(mm)
	if errH != nil || errM != nil || len(mm) != 2 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, raw)
	}
	t := TimeOfDay{Hour: h, Minute: m}
	if !t.IsValid() {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, raw)
	}
	return t, nil
}

// ParseOptionalTimeOfDay returns nil for blank input.
func ParseOptionalTimeOfDay(raw string) (*TimeOfDay, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := ParseTimeOfDay(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (t TimeOfDay) IsValid() bool {
	return t.Hour >= 0 && t.Hour < 24 && t.Minute >= 0 && t.Minute < 60
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Add returns the time-of-day reached after minutes, wrapping at midnight.
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	total := (t.Hour*60 + t.Minute + minutes) % (24 * 60)
	if total < 0 {
		total += 24 * 60
	}
	return TimeOfDay{Hour: total / 60, Minute: total % 60}
}

type Task struct {
	ID              string
	Text            string
	Done            bool
	Priority        Priority
	StartTime       *TimeOfDay
	DurationMinutes int
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Text) == "" {
		return errors.New("model: task text is required")
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if t.StartTime != nil && !t.StartTime.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidTimeOfDay, t.StartTime)
	}
	if t.DurationMinutes < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDuration, t.DurationMinutes)
	}
	return nil
}

// TimeRange renders "HH:MM - HH:MM". A task without a start time or with
// zero duration has no range.
func (t Task) TimeRange() (string, bool) {
	if t.StartTime == nil || t.DurationMinutes <= 0 {
		return "", false
	}
	end := t.StartTime.Add(t.DurationMinutes)
	return fmt.Sprintf("%s - %s", t.StartTime, end), true
}

// DurationLabel renders "Xh Ym", or "--" when no duration is set.
func (t Task) DurationLabel() string {
	if t.DurationMinutes <= 0 {
		return "--"
	}
	return fmt.Sprintf("%dh %dm", t.DurationMinutes/60, t.DurationMinutes%60)
}
