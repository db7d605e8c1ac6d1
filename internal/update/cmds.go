package update

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/sched/internal/model"
	"github.com/sandeepkv93/sched/internal/planner"
	"github.com/sandeepkv93/sched/internal/scheduler"
)

func waitForAlarmCmd(ch <-chan scheduler.Alarm) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		a, ok := <-ch
		if !ok {
			return nil
		}
		return AlarmMsg{Alarm: a}
	}
}

// loadTasksCmd resolves the current user and fetches their tasks. Without
// an identity or repository it reports an anonymous empty load.
func loadTasksCmd(deps planner.Deps, repo TaskRepository, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		if deps.Identity == nil {
			return TasksLoadedMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		user, err := deps.Identity.CurrentUser(ctx)
		if err != nil {
			return TasksLoadedMsg{Err: err}
		}
		if user == nil || user.ID == "" {
			return TasksLoadedMsg{}
		}
		if repo == nil {
			return TasksLoadedMsg{UserID: user.ID}
		}
		list, err := repo.ListTasks(ctx, user.ID)
		return TasksLoadedMsg{UserID: user.ID, Tasks: list, Err: err}
	}
}

func loadStreaksCmd(repo TaskRepository, userID string, timeout time.Duration) tea.Cmd {
	if repo == nil || userID == "" {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		s, err := repo.Streaks(ctx, userID)
		return StreaksMsg{Streaks: s, Err: err}
	}
}

func generateCmd(deps planner.Deps, ticket planner.Ticket, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return GenerateResultMsg{Result: planner.Generate(ctx, deps, ticket)}
	}
}

func persistCmd(op string, timeout time.Duration, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return PersistResultMsg{Op: op, Err: fn(ctx)}
	}
}

const (
	opSaveTask   = "save task"
	opDeleteTask = "delete task"
	opRecordDay  = "record day"
	opManualTask = "save manual task"
	opFeedback   = "save schedule feedback"
)

func (m Model) saveTaskCmd(t model.Task) tea.Cmd {
	if m.repo == nil || m.UserID == "" {
		return nil
	}
	repo, userID := m.repo, m.UserID
	return persistCmd(opSaveTask, m.timeout, func(ctx context.Context) error {
		return repo.SaveTask(ctx, userID, t)
	})
}

func (m Model) deleteTaskCmd(id string) tea.Cmd {
	if m.repo == nil || m.UserID == "" {
		return nil
	}
	repo, userID := m.repo, m.UserID
	return persistCmd(opDeleteTask, m.timeout, func(ctx context.Context) error {
		return repo.DeleteTask(ctx, userID, id)
	})
}

// recordDayCmd snapshots today's completion counts into the history the
// streaks are computed from.
func (m Model) recordDayCmd() tea.Cmd {
	if m.repo == nil || m.UserID == "" {
		return nil
	}
	repo, userID := m.repo, m.UserID
	rec := model.DayRecord{Day: model.DayKey(m.now()), Done: m.Summary.Done, Total: m.Summary.Total}
	return persistCmd(opRecordDay, m.timeout, func(ctx context.Context) error {
		return repo.RecordDay(ctx, userID, rec)
	})
}

func (m Model) saveAugmentationCmd(aug model.Augmentation) tea.Cmd {
	deps := m.deps
	return persistCmd(opManualTask, m.timeout, func(ctx context.Context) error {
		return planner.SaveAugmentation(ctx, deps, aug)
	})
}

func (m Model) saveFeedbackCmd(rec model.FeedbackRecord) tea.Cmd {
	deps := m.deps
	return persistCmd(opFeedback, m.timeout, func(ctx context.Context) error {
		return planner.SaveFeedback(ctx, deps, rec)
	})
}
