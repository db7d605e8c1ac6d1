package views

import (
	"strings"
	"testing"
)

func TestRenderTaskListRows(t *testing.T) {
	out := RenderTaskList(TaskListData{
		Rows: []TaskRowData{
			{Index: 1, Text: "Pay rent", Priority: "High", Duration: "--", Cursor: true},
			{Index: 2, Text: "Stretch", Priority: "Low", Duration: "0h 15m", TimeRange: "07:00 - 07:15", Done: true},
		},
	})
	for _, want := range []string{"tasks (2)", "> 1. [ ] [High] Pay rent --", "[x] [Low]", "07:00 - 07:15"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
	if empty := RenderTaskList(TaskListData{}); !strings.Contains(empty, "(no tasks yet)") {
		t.Fatalf("unexpected empty list: %q", empty)
	}
}

func TestRenderDashboardStreak(t *testing.T) {
	out := RenderDashboard(DashboardData{
		Done: 1, Total: 1, Percent: 100, Color: "#10B981",
		Motivation: "You're killing it! Keep this streak alive!", Celebrate: true,
		StreakKnown: true, Current: 1, CurrentLabel: "day", Longest: 4, LongestLabel: "days",
	})
	for _, want := range []string{"100%", CelebrationText, "1 day in a row", "longest: 4 days"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestRenderPlannerPanelStates(t *testing.T) {
	locked := RenderPlannerPanel(PlannerPanelData{})
	if !strings.Contains(locked, OnboardingPending) {
		t.Fatalf("expected locked planner: %q", locked)
	}

	failed := RenderPlannerPanel(PlannerPanelData{OnboardingDone: true, CanGenerate: true, Error: "Failed to generate schedule. Please try again."})
	if !strings.Contains(failed, "[g] Generate schedule") || !strings.Contains(failed, "Please try again.") {
		t.Fatalf("unexpected failed panel: %q", failed)
	}

	done := RenderPlannerPanel(PlannerPanelData{
		OnboardingDone:    true,
		HasSchedule:       true,
		ScheduleView:      "07:00 wake up",
		Augmentations:     []AugmentationData{{Index: 1, Name: "Gym", Time: "18:00"}},
		FeedbackSubmitted: true,
	})
	for _, want := range []string{"07:00 wake up", "1. Gym @ 18:00", FeedbackThanks} {
		if !strings.Contains(done, want) {
			t.Fatalf("expected %q in %q", want, done)
		}
	}
}

func TestRenderModalShowsError(t *testing.T) {
	out := RenderModal(ModalData{
		Title:  "Edit task",
		Fields: []FormFieldData{{Label: "Task", View: "stretch", Focused: true}},
		Error:  "start time must be HH:MM",
	})
	if !strings.Contains(out, "> Task: stretch") || !strings.Contains(out, "error: start time must be HH:MM") {
		t.Fatalf("unexpected modal: %q", out)
	}
}

func TestRenderMarkdownFallsBackOnBlank(t *testing.T) {
	if RenderMarkdown("   ", 40) != "" {
		t.Fatal("expected blank output for blank input")
	}
	if out := RenderMarkdown("# Plan\n- wake up", 40); !strings.Contains(out, "wake up") {
		t.Fatalf("expected rendered text: %q", out)
	}
}
