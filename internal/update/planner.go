package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/sched/internal/planner"
	"github.com/sandeepkv93/sched/internal/views"
	"go.uber.org/zap"
)

func (m Model) handlePlannerKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "g":
		return m.startGeneration()
	case "o":
		if m.Gate.Enter() {
			m.openOnboardingForm()
		}
	case "n", "a":
		if _, ok := m.Planner.Schedule(); !ok {
			m.Status = StatusBar{Text: "generate a schedule first", IsError: true}
			return m, nil
		}
		m.focusAugmentForm(focusAugName)
	case "f":
		if _, ok := m.Planner.Schedule(); !ok || m.Planner.FeedbackState() != planner.FeedbackOpen {
			return m, nil
		}
		m.blurAll()
		m.focus = focusFeedback
		m.feedbackArea.SetValue(m.Planner.FeedbackDraft())
		cmd := m.feedbackArea.Focus()
		return m, cmd
	case "j", "down":
		if m.augCursor < len(m.Planner.Augmentations())-1 {
			m.augCursor++
		}
	case "k", "up":
		if m.augCursor > 0 {
			m.augCursor--
		}
	case "x", "d":
		m.removeAugmentation(m.augCursor)
	case "pgdown", "pgup", "ctrl+d", "ctrl+u":
		var cmd tea.Cmd
		m.scheduleView, cmd = m.scheduleView.Update(msg)
		return m, cmd
	}
	return m, nil
}

// startGeneration issues a generation request for the stored answers. The
// request is refused while one is in flight or before onboarding is done.
func (m Model) startGeneration() (Model, tea.Cmd) {
	answers, _ := m.Gate.Answers()
	ticket, ok := m.Planner.Begin(answers)
	if !ok {
		if !m.Gate.Completed() {
			m.Status = StatusBar{Text: "complete the questionnaire first", IsError: true}
		} else {
			m.Status = StatusBar{Text: "a schedule is already being generated"}
		}
		return m, nil
	}
	m.blurAll()
	m.syncAugmentationAlarms()
	m.scheduleView.SetContent("")
	m.feedbackArea.Reset()
	m.Status = StatusBar{Text: "generating schedule..."}
	m.log.Debug("generation started", zap.Uint64("seq", ticket.Seq))
	return m, tea.Batch(generateCmd(m.deps, ticket, m.timeout), m.genSpinner.Tick)
}

func (m *Model) applyGenerateResult(msg GenerateResultMsg) {
	if !m.Planner.Resolve(msg.Result) {
		m.log.Debug("stale schedule result dropped", zap.Uint64("seq", msg.Result.Seq))
		return
	}
	if msg.Result.Err != nil {
		m.Status = StatusBar{Text: planner.ErrorMessage, IsError: true}
		m.notify("AI Planner", planner.ErrorMessage, "error")
		return
	}
	m.renderSchedule()
	m.augName.SetValue("")
	m.augTime.SetValue("")
	m.augCursor = 0
	m.syncAugmentationAlarms()
	m.Status = StatusBar{Text: "schedule ready"}
	m.notify("AI Planner", "Your schedule is ready.", "info")
}

func (m *Model) renderSchedule() {
	schedule, ok := m.Planner.Schedule()
	if !ok {
		m.scheduleView.SetContent("")
		return
	}
	width := m.width/2 - 6
	if width < 40 {
		width = 40
	}
	m.scheduleView.Width = width + 2
	m.scheduleView.SetContent(views.RenderMarkdown(schedule, width))
	m.scheduleView.GotoTop()
}

func (m *Model) focusAugmentForm(area focusArea) {
	m.blurAll()
	m.focus = area
	if area == focusAugTime {
		m.augTime.Focus()
		return
	}
	m.augName.Focus()
}

func (m Model) handleAugmentFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		if m.focus == focusAugName {
			m.focusAugmentForm(focusAugTime)
		} else {
			m.focusAugmentForm(focusAugName)
		}
		return m, nil
	case "enter":
		cmd := m.addAugmentation(m.augName.Value(), m.augTime.Value())
		return m, cmd
	}
	var cmd tea.Cmd
	if m.focus == focusAugTime {
		m.augTime, cmd = m.augTime.Update(msg)
	} else {
		m.augName, cmd = m.augName.Update(msg)
	}
	return m, cmd
}

// addAugmentation appends to the current schedule and fires the best-effort
// save. A failed save never removes the local entry.
func (m *Model) addAugmentation(name, at string) tea.Cmd {
	aug, ok := m.Planner.AddAugmentation(name, at)
	if !ok {
		if _, has := m.Planner.Schedule(); !has {
			m.Status = StatusBar{Text: "generate a schedule first", IsError: true}
		} else {
			m.Status = StatusBar{Text: "task name is required", IsError: true}
		}
		return nil
	}
	m.augName.SetValue("")
	m.augTime.SetValue("")
	m.focusAugmentForm(focusAugName)
	m.syncAugmentationAlarms()
	m.Status = StatusBar{Text: fmt.Sprintf("added to schedule: %s", aug.Name)}
	return m.saveAugmentationCmd(aug)
}

func (m *Model) removeAugmentation(i int) bool {
	augs := m.Planner.Augmentations()
	if !m.Planner.RemoveAugmentation(i) {
		return false
	}
	m.syncAugmentationAlarms()
	m.Status = StatusBar{Text: fmt.Sprintf("removed from schedule: %s", augs[i].Name)}
	return true
}

func (m Model) handleFeedbackKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		cmd := m.submitFeedback()
		return m, cmd
	}
	var cmd tea.Cmd
	m.feedbackArea, cmd = m.feedbackArea.Update(msg)
	m.Planner.SetDraft(m.feedbackArea.Value())
	return m, cmd
}

// submitFeedback closes the feedback form for the current schedule. The
// save runs in the background and its outcome is only logged.
func (m *Model) submitFeedback() tea.Cmd {
	m.Planner.SetDraft(m.feedbackArea.Value())
	rec, ok := m.Planner.SubmitFeedback(m.now())
	if !ok {
		switch {
		case m.Planner.FeedbackState() == planner.FeedbackSubmitted:
			m.Status = StatusBar{Text: "feedback already sent for this schedule"}
		default:
			m.Status = StatusBar{Text: "feedback needs text and a schedule", IsError: true}
		}
		return nil
	}
	m.feedbackArea.Reset()
	m.blurAll()
	m.Status = StatusBar{Text: views.FeedbackThanks}
	return m.saveFeedbackCmd(rec)
}
