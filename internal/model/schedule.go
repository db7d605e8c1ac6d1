package model

import (
	"errors"
	"strings"
	"time"
)

// User is the identity returned by the identity provider.
type User struct {
	ID             string
	EmailConfirmed bool
}

// Augmentation is a manual task layered on top of a generated schedule.
// Items are identified by position only.
type Augmentation struct {
	Name string
	Time string
}

func (a Augmentation) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return errors.New("model: augmentation name is required")
	}
	return nil
}

// FeedbackRecord is the single review of one schedule instance.
type FeedbackRecord struct {
	Schedule    string
	Body        string
	SubmittedAt time.Time
	UserID      string
}

func (f FeedbackRecord) Validate() error {
	if strings.TrimSpace(f.Body) == "" {
		return errors.New("model: feedback body is required")
	}
	if f.SubmittedAt.IsZero() {
		return errors.New("model: feedback submitted_at is required")
	}
	return nil
}

// DayRecord is one entry of the day-indexed completion history.
type DayRecord struct {
	Day   string
	Done  int
	Total int
}

// Complete reports a day where every recorded task was done.
func (d DayRecord) Complete() bool {
	return d.Total > 0 && d.Done >= d.Total
}

const DayLayout = "2006-01-02"

func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}
