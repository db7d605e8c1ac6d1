package storage

import (
	"context"
	"errors"

	"github.com/sandeepkv93/sched/internal/model"
	"github.com/sandeepkv93/sched/internal/progress"
)

var (
	ErrNotFound    = errors.New("storage: not found")
	ErrInvalidTask = errors.New("storage: invalid task")
)

// Repository persists one user's manual tasks and daily completion
// history.
type Repository interface {
	ListTasks(ctx context.Context, userID string) ([]model.Task, error)
	SaveTask(ctx context.Context, userID string, task model.Task) error
	DeleteTask(ctx context.Context, userID, id string) error

	RecordDay(ctx context.Context, userID string, rec model.DayRecord) error
	ListDays(ctx context.Context, userID string, filter DayFilter) ([]model.DayRecord, error)
	Streaks(ctx context.Context, userID string) (progress.Streaks, error)
}
