package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sandeepkv93/sched/internal/model"
	"github.com/sandeepkv93/sched/internal/planner"
)

func sampleRequest() planner.GenerateRequest {
	return planner.NewGenerateRequest("user-1", model.OnboardingAnswers{
		Work:        model.Yes,
		School:      model.No,
		StartTime:   "07:00",
		SleepTime:   "23:00",
		HoursPerDay: 6,
		RecurringEvents: []model.RecurringEvent{
			{Description: "Dance class", Schedule: "Thursday 6-7pm"},
		},
	})
}

func TestBuildPromptIncludesAnswers(t *testing.T) {
	p := BuildPrompt(sampleRequest())
	for _, want := range []string{
		"works: Yes\n",
		"attends_school: No\n",
		"wake_up_time: 07:00\n",
		"sleep_time: 23:00\n",
		"productive_hours: 6\n",
		"- Dance class @ Thursday 6-7pm\n",
	} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p)
		}
	}
	if strings.Contains(p, "optional_commitments") {
		t.Fatal("expected empty commitments to be omitted")
	}
	if strings.Contains(p, "user-1") {
		t.Fatal("prompt must not carry the user id")
	}
}

func TestGenerateScheduleTrimsOutput(t *testing.T) {
	var prompt string
	g := NewWithCompleter(func(_ context.Context, p string) (string, error) {
		prompt = p
		return "\n07:00 - 08:00 Breakfast\n\n", nil
	})
	got, err := g.GenerateSchedule(t.Context(), sampleRequest())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "07:00 - 08:00 Breakfast" {
		t.Fatalf("unexpected schedule %q", got)
	}
	if !strings.Contains(prompt, "wake_up_time: 07:00") {
		t.Fatal("expected completer to receive built prompt")
	}
}

func TestGenerateScheduleWrapsError(t *testing.T) {
	boom := errors.New("rate limited")
	g := NewWithCompleter(func(context.Context, string) (string, error) { return "", boom })
	if _, err := g.GenerateSchedule(t.Context(), sampleRequest()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(Options{}); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}
