package model

import (
	"errors"
	"strings"
)

var ErrInvalidRecurringEvent = errors.New("model: invalid recurring event")

// RecurringEvent is a fixed weekly commitment given during onboarding. The
// schedule is free text interpreted by the generation service.
type RecurringEvent struct {
	Description string `json:"description"`
	Schedule    string `json:"schedule"`
}

func (e RecurringEvent) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return errors.New("model: recurring event description is required")
	}
	return nil
}

// ParseRecurringEvents reads "Dance class @ Thu 6-7pm; Gym @ Mon 7am".
// Entries are separated by ';' and a description from its schedule by '@'.
func ParseRecurringEvents(raw string) ([]RecurringEvent, error) {
	out := make([]RecurringEvent, 0)
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc, sched, _ := strings.Cut(part, "@")
		ev := RecurringEvent{
			Description: strings.TrimSpace(desc),
			Schedule:    strings.TrimSpace(sched),
		}
		if err := ev.Validate(); err != nil {
			return nil, errors.Join(ErrInvalidRecurringEvent, err)
		}
		out = append(out, ev)
	}
	return out, nil
}

// FormatRecurringEvents is the inverse of ParseRecurringEvents.
func FormatRecurringEvents(events []RecurringEvent) string {
	parts := make([]string, 0, len(events))
	for _, ev := range events {
		if ev.Schedule == "" {
			parts = append(parts, ev.Description)
			continue
		}
		parts = append(parts, ev.Description+" @ "+ev.Schedule)
	}
	return strings.Join(parts, "; ")
}
