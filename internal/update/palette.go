package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/sched/internal/commands"
	"github.com/sandeepkv93/sched/internal/planner"
	"github.com/sandeepkv93/sched/internal/views"
)

func (m *Model) openPalette() {
	m.blurAll()
	m.Palette.Active = true
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Focus()
	m.Status = StatusBar{Text: "command palette active"}
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func rowError(n int) error {
	return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no row %d", n)}
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var out tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			m.Tab = TabManual
			t, ok, c := m.addTask(a.Text, a.Hours, a.Minutes)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "task text is required"}
			}
			out = c
			return commands.Result{Message: fmt.Sprintf("added task: %s (%s)", t.Text, t.DurationLabel())}, nil
		},
		Done: func(a commands.IndexArgs) (commands.Result, error) {
			t, ok := m.taskAt(a.Index - 1)
			if !ok {
				return commands.Result{}, rowError(a.Index)
			}
			out = m.toggleTask(t.ID)
			next, _ := m.Tasks.Get(t.ID)
			if next.Done {
				return commands.Result{Message: fmt.Sprintf("done: %s", t.Text)}, nil
			}
			return commands.Result{Message: fmt.Sprintf("reopened: %s", t.Text)}, nil
		},
		Remove: func(a commands.IndexArgs) (commands.Result, error) {
			t, ok := m.taskAt(a.Index - 1)
			if !ok {
				return commands.Result{}, rowError(a.Index)
			}
			out = m.removeTask(t.ID)
			return commands.Result{Message: fmt.Sprintf("deleted: %s", t.Text)}, nil
		},
		Edit: func(a commands.IndexArgs) (commands.Result, error) {
			t, ok := m.taskAt(a.Index - 1)
			if !ok {
				return commands.Result{}, rowError(a.Index)
			}
			m.Tab = TabManual
			m.cursor = a.Index - 1
			m.openEdit(t.ID)
			return commands.Result{Message: fmt.Sprintf("editing: %s", t.Text)}, nil
		},
		Generate: func() (commands.Result, error) {
			m.switchTab(TabPlanner)
			if m.Gate.Open() {
				return commands.Result{Message: "answer the questionnaire to unlock the planner"}, nil
			}
			if !m.Planner.CanGenerate() {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "generation is not available right now"}
			}
			m, out = m.startGeneration()
			return commands.Result{Message: "generating schedule..."}, nil
		},
		Augment: func(a commands.AugmentArgs) (commands.Result, error) {
			if _, ok := m.Planner.Schedule(); !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "generate a schedule first"}
			}
			m.Tab = TabPlanner
			out = m.addAugmentation(a.Name, a.Time)
			m.blurAll()
			return commands.Result{Message: fmt.Sprintf("added to schedule: %s", strings.TrimSpace(a.Name))}, nil
		},
		Unaug: func(a commands.IndexArgs) (commands.Result, error) {
			augs := m.Planner.Augmentations()
			if !m.removeAugmentation(a.Index - 1) {
				return commands.Result{}, rowError(a.Index)
			}
			return commands.Result{Message: fmt.Sprintf("removed from schedule: %s", augs[a.Index-1].Name)}, nil
		},
		Feedback: func(a commands.FeedbackArgs) (commands.Result, error) {
			if _, ok := m.Planner.Schedule(); !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "generate a schedule first"}
			}
			if m.Planner.FeedbackState() != planner.FeedbackOpen {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "feedback already sent for this schedule"}
			}
			m.feedbackArea.SetValue(a.Text)
			out = m.submitFeedback()
			return commands.Result{Message: views.FeedbackThanks}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message}
	m.notify("Command", res.Message, "info")
	return m, out
}
