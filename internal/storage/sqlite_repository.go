package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sandeepkv93/sched/internal/model"
	"github.com/sandeepkv93/sched/internal/progress"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db, now: time.Now}, nil
}

// OpenSQLite opens path and applies pending migrations.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) ListTasks(ctx context.Context, userID string) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, text, done, priority, start_time, duration_minutes, position, created_at, updated_at
		FROM tasks WHERE user_id = ? ORDER BY position ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		row, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		task, convErr := row.toTask()
		if convErr != nil {
			return nil, fmt.Errorf("task %s: %w", row.ID, convErr)
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

// SaveTask inserts task at the end of the user's list, or updates it in
// place when the id already exists.
func (r *SQLiteRepository) SaveTask(ctx context.Context, userID string, task model.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTask, err)
	}
	row := rowFromTask(userID, task, r.now())
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, user_id, text, done, priority, start_time, duration_minutes, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM tasks WHERE user_id = ?), ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			text = excluded.text,
			done = excluded.done,
			priority = excluded.priority,
			start_time = excluded.start_time,
			duration_minutes = excluded.duration_minutes,
			updated_at = excluded.updated_at
		WHERE tasks.user_id = excluded.user_id`,
		row.ID, row.UserID, row.Text, boolInt(row.Done), row.Priority, row.StartTime, row.DurationMinutes,
		row.UserID, mustTime(row.CreatedAt), mustTime(row.UpdatedAt),
	)
	return err
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

// RecordDay stores the completion counts for one calendar day, replacing
// any earlier snapshot of the same day.
func (r *SQLiteRepository) RecordDay(ctx context.Context, userID string, rec model.DayRecord) error {
	if _, err := time.Parse(model.DayLayout, rec.Day); err != nil {
		return fmt.Errorf("storage: invalid day %q: %w", rec.Day, err)
	}
	if rec.Done < 0 || rec.Total < 0 {
		return fmt.Errorf("storage: negative counts for %s", rec.Day)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO day_history (user_id, day, done, total, recorded_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, day) DO UPDATE SET
			done = excluded.done,
			total = excluded.total,
			recorded_at = excluded.recorded_at`,
		userID, rec.Day, rec.Done, rec.Total, mustTime(r.now()),
	)
	return err
}

func (r *SQLiteRepository) ListDays(ctx context.Context, userID string, filter DayFilter) ([]model.DayRecord, error) {
	query := `SELECT day, done, total FROM day_history WHERE user_id = ?`
	args := []any{userID}
	if filter.From != "" {
		query += ` AND day >= ?`
		args = append(args, filter.From)
	}
	if filter.To != "" {
		query += ` AND day <= ?`
		args = append(args, filter.To)
	}
	query += ` ORDER BY day ASC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.DayRecord, 0)
	for rows.Next() {
		var rec model.DayRecord
		if err := rows.Scan(&rec.Day, &rec.Done, &rec.Total); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) Streaks(ctx context.Context, userID string) (progress.Streaks, error) {
	days, err := r.ListDays(ctx, userID, DayFilter{})
	if err != nil {
		return progress.Streaks{}, err
	}
	return ComputeStreaks(days, r.now()), nil
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (taskRow, error) {
	var out taskRow
	var done int
	var created, updated string
	if err := s.Scan(&out.ID, &out.UserID, &out.Text, &done, &out.Priority, &out.StartTime,
		&out.DurationMinutes, &out.Position, &created, &updated); err != nil {
		return taskRow{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return taskRow{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return taskRow{}, err
	}
	out.Done = done == 1
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
