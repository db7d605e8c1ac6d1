package storage

import (
	"context"
	"sort"
	"time"

	"github.com/sandeepkv93/sched/internal/model"
	"github.com/sandeepkv93/sched/internal/progress"
)

// ComputeStreaks counts runs of consecutive complete days. The current
// streak ends today, or yesterday while today is still incomplete.
func ComputeStreaks(days []model.DayRecord, now time.Time) progress.Streaks {
	complete := make([]time.Time, 0, len(days))
	for _, d := range days {
		if !d.Complete() {
			continue
		}
		t, err := time.Parse(model.DayLayout, d.Day)
		if err != nil {
			continue
		}
		complete = append(complete, t)
	}
	if len(complete) == 0 {
		return progress.Streaks{}
	}
	sort.Slice(complete, func(i, j int) bool { return complete[i].Before(complete[j]) })

	var out progress.Streaks
	run := 0
	var prev time.Time
	for i, day := range complete {
		switch {
		case i == 0:
			run = 1
		case day.Equal(prev):
			continue
		case day.Equal(prev.AddDate(0, 0, 1)):
			run++
		default:
			run = 1
		}
		prev = day
		if run > out.Longest {
			out.Longest = run
		}
	}

	today, _ := time.Parse(model.DayLayout, model.DayKey(now))
	if prev.Equal(today) || prev.Equal(today.AddDate(0, 0, -1)) {
		out.Current = run
	}
	return out
}

// UserStreaks binds a repository to one user as a progress.StreakSource.
type UserStreaks struct {
	Repo   Repository
	UserID string
}

var _ progress.StreakSource = UserStreaks{}

func (u UserStreaks) Streaks(ctx context.Context) (progress.Streaks, error) {
	return u.Repo.Streaks(ctx, u.UserID)
}
