package storage

import (
	"database/sql"
	"time"

	"github.com/sandeepkv93/sched/internal/model"
)

// taskRow mirrors the tasks table.
type taskRow struct {
	ID              string
	UserID          string
	Text            string
	Done            bool
	Priority        string
	StartTime       sql.NullString
	DurationMinutes int
	Position        int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func rowFromTask(userID string, t model.Task, now time.Time) taskRow {
	row := taskRow{
		ID:              t.ID,
		UserID:          userID,
		Text:            t.Text,
		Done:            t.Done,
		Priority:        string(t.Priority),
		DurationMinutes: t.DurationMinutes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if t.StartTime != nil {
		row.StartTime = sql.NullString{String: t.StartTime.String(), Valid: true}
	}
	return row
}

func (r taskRow) toTask() (model.Task, error) {
	out := model.Task{
		ID:              r.ID,
		Text:            r.Text,
		Done:            r.Done,
		Priority:        model.Priority(r.Priority),
		DurationMinutes: r.DurationMinutes,
	}
	if r.StartTime.Valid {
		start, err := model.ParseOptionalTimeOfDay(r.StartTime.String)
		if err != nil {
			return model.Task{}, err
		}
		out.StartTime = start
	}
	return out, nil
}

type DayFilter struct {
	From  string
	To    string
	Limit int
}
