package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type DashboardData struct {
	Done          int
	Total         int
	Percent       int
	Color         string
	ProgressView  string
	Motivation    string
	Encouragement string
	Celebrate     bool
	StreakKnown   bool
	Current       int
	CurrentLabel  string
	Longest       int
	LongestLabel  string
}

type TaskRowData struct {
	Index     int
	Text      string
	Priority  string
	TimeRange string
	Duration  string
	Done      bool
	Cursor    bool
}

type TaskListData struct {
	QuickAddView string
	HoursView    string
	MinutesView  string
	AddFocus     bool
	Rows         []TaskRowData
}

type FormFieldData struct {
	Label   string
	View    string
	Focused bool
	Hint    string
}

type ModalData struct {
	Title  string
	Intro  string
	Fields []FormFieldData
	Error  string
	Keys   string
}

type AugmentationData struct {
	Index  int
	Name   string
	Time   string
	Cursor bool
}

type PlannerPanelData struct {
	OnboardingDone    bool
	CanGenerate       bool
	Loading           bool
	SpinnerView       string
	Error             string
	HasSchedule       bool
	ScheduleView      string
	AugmentNameView   string
	AugmentTimeView   string
	Augmentations     []AugmentationData
	FeedbackSubmitted bool
	FeedbackView      string
	Focus             string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

const (
	CelebrationText   = "You did it!"
	FeedbackThanks    = "Thank you for your feedback!"
	OnboardingPending = "Answer a few questions to unlock the AI planner."
)

var (
	highBadge   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	mediumBadge = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FBBF24"))
	lowBadge    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981"))
	doneStyle   = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
)

func PriorityBadge(priority string) string {
	label := "[" + priority + "]"
	switch priority {
	case "High":
		return highBadge.Render(label)
	case "Low":
		return lowBadge.Render(label)
	default:
		return mediumBadge.Render(label)
	}
}

func RenderDashboard(data DashboardData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("today's progress") + "\n")
	pct := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(data.Color)).Render(fmt.Sprintf("%d%%", data.Percent))
	b.WriteString(fmt.Sprintf("%s %s\n", data.ProgressView, pct))
	b.WriteString(fmt.Sprintf("%d of %d tasks done\n", data.Done, data.Total))
	b.WriteString(data.Motivation + "\n")
	if data.Celebrate {
		b.WriteString(lowBadge.Render(CelebrationText) + "\n")
	}
	if data.Encouragement != "" {
		b.WriteString(mutedStyle.Render(data.Encouragement) + "\n")
	}

	b.WriteString("\n" + titleStyle.Render("streak") + "\n")
	if !data.StreakKnown {
		b.WriteString(mutedStyle.Render("(no history yet)"))
		return b.String()
	}
	b.WriteString(fmt.Sprintf("%d %s in a row\n", data.Current, data.CurrentLabel))
	b.WriteString(fmt.Sprintf("longest: %d %s", data.Longest, data.LongestLabel))
	return b.String()
}

func RenderTaskList(data TaskListData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d)\n", titleStyle.Render("tasks"), len(data.Rows))
	b.WriteString("new: " + data.QuickAddView + "\n")
	b.WriteString(fmt.Sprintf("h: %s m: %s\n", data.HoursView, data.MinutesView))
	if data.AddFocus {
		b.WriteString(mutedStyle.Render("[tab]field [enter]add [esc]leave") + "\n")
	} else {
		b.WriteString(mutedStyle.Render("[a]add [space]done [e]edit [d]delete [j/k]move") + "\n")
	}
	if len(data.Rows) == 0 {
		b.WriteString(mutedStyle.Render("(no tasks yet)"))
		return b.String()
	}
	for _, row := range data.Rows {
		b.WriteString(renderTaskRow(row) + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func renderTaskRow(row TaskRowData) string {
	cursor := " "
	if row.Cursor {
		cursor = ">"
	}
	check := "[ ]"
	text := row.Text
	if row.Done {
		check = "[x]"
		text = doneStyle.Render(text)
	}
	line := fmt.Sprintf("%s %d. %s %s %s %s", cursor, row.Index, check, PriorityBadge(row.Priority), text, mutedStyle.Render(row.Duration))
	if row.TimeRange != "" {
		line += " " + mutedStyle.Render(row.TimeRange)
	}
	return line
}

// RenderModal draws a titled form. Each field is prefixed with a cursor
// when focused.
func RenderModal(data ModalData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(data.Title) + "\n")
	if data.Intro != "" {
		b.WriteString(mutedStyle.Render(data.Intro) + "\n")
	}
	b.WriteString("\n")
	for _, f := range data.Fields {
		cursor := " "
		if f.Focused {
			cursor = ">"
		}
		line := fmt.Sprintf("%s %s: %s", cursor, f.Label, f.View)
		if f.Hint != "" {
			line += " " + mutedStyle.Render(f.Hint)
		}
		b.WriteString(line + "\n")
	}
	if data.Error != "" {
		b.WriteString("\n" + errorStyle.Render("error: "+data.Error) + "\n")
	}
	if data.Keys != "" {
		b.WriteString("\n" + mutedStyle.Render(data.Keys))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderPlannerPanel(data PlannerPanelData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("ai planner") + "\n")
	switch {
	case !data.OnboardingDone:
		b.WriteString(OnboardingPending + "\n")
		b.WriteString(mutedStyle.Render("[o]open questionnaire"))
		return b.String()
	case data.Loading:
		b.WriteString(data.SpinnerView + " Generating...\n")
	case data.CanGenerate:
		b.WriteString("[g] Generate schedule\n")
	}
	if data.Error != "" {
		b.WriteString(errorStyle.Render(data.Error) + "\n")
	}
	if !data.HasSchedule {
		if !data.Loading && data.Error == "" {
			b.WriteString(mutedStyle.Render("(no schedule yet)"))
		}
		return strings.TrimSuffix(b.String(), "\n")
	}

	b.WriteString("\n" + data.ScheduleView + "\n")

	b.WriteString("\n" + titleStyle.Render("added to schedule") + "\n")
	focus := func(name string) string {
		if data.Focus == name {
			return ">"
		}
		return " "
	}
	b.WriteString(fmt.Sprintf("%s task: %s\n", focus("aug_name"), data.AugmentNameView))
	b.WriteString(fmt.Sprintf("%s time: %s\n", focus("aug_time"), data.AugmentTimeView))
	if len(data.Augmentations) == 0 {
		b.WriteString(mutedStyle.Render("(none)") + "\n")
	}
	for _, a := range data.Augmentations {
		cursor := " "
		if a.Cursor {
			cursor = ">"
		}
		line := fmt.Sprintf("%s %d. %s", cursor, a.Index, a.Name)
		if a.Time != "" {
			line += " @ " + a.Time
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + titleStyle.Render("feedback") + "\n")
	if data.FeedbackSubmitted {
		b.WriteString(lowBadge.Render(FeedbackThanks))
	} else {
		b.WriteString(focus("feedback") + " " + data.FeedbackView)
	}
	return b.String()
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help (%s):\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
