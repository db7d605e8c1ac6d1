// Package progress derives the dashboard summary from the task list.
package progress

import (
	"context"
	"math"
	"time"

	"github.com/sandeepkv93/sched/internal/model"
)

type Color string

const (
	ColorSuccess Color = "#10B981"
	ColorPrimary Color = "#3B82F6"
	ColorWarning Color = "#FBBF24"
	ColorDanger  Color = "#EF4444"
)

type Tier string

const (
	TierComplete   Tier = "complete"
	TierAlmost     Tier = "almost"
	TierActivating Tier = "activating"
)

var motivation = map[Tier]string{
	TierComplete:   "You're killing it! Keep this streak alive!",
	TierAlmost:     "Almost there, keep going!",
	TierActivating: "Let's smash some tasks today!",
}

var encouragements = []string{
	"You’re unstoppable today! 🚀",
	"Every small step counts. Keep going! 💪",
	"Consistency is your superpower! ✨",
	"You’re building habits for a lifetime! 🌱",
	"Progress, not perfection. One task at a time! ✅",
	"Today is a great day to win! 🏆",
	"You’re closer than you think. Don’t stop now! 🔥",
	"Great things are done by a series of small things brought together.",
}

type Summary struct {
	Done    int
	Total   int
	Percent int
	Tier    Tier
	Color   Color
}

func (s Summary) Motivation() string {
	return motivation[s.Tier]
}

// Celebrate is true once every task of a non-empty list is done.
func (s Summary) Celebrate() bool {
	return s.Total > 0 && s.Done >= s.Total
}

// Percent is round(100*done/total), and 0 for an empty list.
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	if done < 0 {
		done = 0
	}
	if done > total {
		done = total
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

func TierFor(percent int) Tier {
	switch {
	case percent == 100:
		return TierComplete
	case percent > 60:
		return TierAlmost
	default:
		return TierActivating
	}
}

func ColorFor(percent int) Color {
	switch {
	case percent == 100:
		return ColorSuccess
	case percent > 60:
		return ColorPrimary
	case percent > 30:
		return ColorWarning
	default:
		return ColorDanger
	}
}

func Summarize(tasks []model.Task) Summary {
	done := 0
	for _, t := range tasks {
		if t.Done {
			done++
		}
	}
	pct := Percent(done, len(tasks))
	return Summary{
		Done:    done,
		Total:   len(tasks),
		Percent: pct,
		Tier:    TierFor(pct),
		Color:   ColorFor(pct),
	}
}

// Encouragement rotates through the daily messages by day of month.
func Encouragement(day time.Time) string {
	return encouragements[day.Day()%len(encouragements)]
}

// Streaks are consecutive days of full completion. They come from stored
// history, never from the single-day task list.
type Streaks struct {
	Current int
	Longest int
}

// StreakSource aggregates the day-indexed completion history.
type StreakSource interface {
	Streaks(ctx context.Context) (Streaks, error)
}

func DayLabel(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}
