package update

import (
	"strings"

	"github.com/sandeepkv93/sched/internal/planner"
	prog "github.com/sandeepkv93/sched/internal/progress"
	"github.com/sandeepkv93/sched/internal/views"
)

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.commandInput.Value())
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

func (m Model) renderDashboard() string {
	return views.RenderDashboard(views.DashboardData{
		Done:          m.Summary.Done,
		Total:         m.Summary.Total,
		Percent:       m.Summary.Percent,
		Color:         string(m.Summary.Color),
		ProgressView:  m.progressBar.ViewAs(percentFraction(m.Summary.Percent)),
		Motivation:    m.Summary.Motivation(),
		Encouragement: prog.Encouragement(m.now()),
		Celebrate:     m.Summary.Celebrate(),
		StreakKnown:   m.StreaksKnown,
		Current:       m.Streaks.Current,
		CurrentLabel:  prog.DayLabel(m.Streaks.Current),
		Longest:       m.Streaks.Longest,
		LongestLabel:  prog.DayLabel(m.Streaks.Longest),
	})
}

func (m Model) renderTaskPane() string {
	list := m.Tasks.Tasks()
	rows := make([]views.TaskRowData, 0, len(list))
	for i, t := range list {
		tr, _ := t.TimeRange()
		rows = append(rows, views.TaskRowData{
			Index:     i + 1,
			Text:      t.Text,
			Priority:  string(t.Priority),
			TimeRange: tr,
			Duration:  t.DurationLabel(),
			Done:      t.Done,
			Cursor:    i == m.cursor && m.focus == focusNone,
		})
	}
	return views.RenderTaskList(views.TaskListData{
		QuickAddView: m.addText.View(),
		HoursView:    m.addHours.View(),
		MinutesView:  m.addMinutes.View(),
		AddFocus:     m.focus == focusAddText || m.focus == focusAddHours || m.focus == focusAddMinutes,
		Rows:         rows,
	})
}

func (m Model) renderPlannerPane() string {
	schedule, has := m.Planner.Schedule()
	augs := m.Planner.Augmentations()
	items := make([]views.AugmentationData, 0, len(augs))
	for i, a := range augs {
		items = append(items, views.AugmentationData{
			Index:  i + 1,
			Name:   a.Name,
			Time:   a.Time,
			Cursor: i == m.augCursor && m.focus == focusNone,
		})
	}
	scheduleView := m.scheduleView.View()
	if has && strings.TrimSpace(scheduleView) == "" {
		scheduleView = schedule
	}
	focus := ""
	switch m.focus {
	case focusAugName:
		focus = "aug_name"
	case focusAugTime:
		focus = "aug_time"
	case focusFeedback:
		focus = "feedback"
	}
	return views.RenderPlannerPanel(views.PlannerPanelData{
		OnboardingDone:    m.Gate.Completed(),
		CanGenerate:       m.Planner.CanGenerate(),
		Loading:           m.Planner.Loading(),
		SpinnerView:       m.genSpinner.View(),
		Error:             m.Planner.Error(),
		HasSchedule:       has,
		ScheduleView:      scheduleView,
		AugmentNameView:   m.augName.View(),
		AugmentTimeView:   m.augTime.View(),
		Augmentations:     items,
		FeedbackSubmitted: m.Planner.FeedbackState() == planner.FeedbackSubmitted,
		FeedbackView:      m.feedbackArea.View(),
		Focus:             focus,
	})
}

func (m Model) renderEditModal() string {
	fields := []views.FormFieldData{
		{Label: "Task", View: m.editText.View()},
		{Label: "Priority", View: views.PriorityBadge(string(m.edit.Priority)), Hint: "space to change"},
		{Label: "Start time", View: m.editStart.View(), Hint: "HH:MM, blank for none"},
		{Label: "Hours", View: m.editHours.View()},
		{Label: "Minutes", View: m.editMinutes.View()},
	}
	fields[m.edit.Field].Focused = true
	return views.RenderModal(views.ModalData{
		Title:  "Edit task",
		Fields: fields,
		Error:  m.edit.Err,
		Keys:   "[tab]next field [enter]save [esc]cancel",
	})
}

func (m Model) renderOnboardingModal() string {
	fields := []views.FormFieldData{
		{Label: "Do you work?", View: yesNoLabel(string(m.ob.Work)), Hint: "y/n"},
		{Label: "Do you attend school?", View: yesNoLabel(string(m.ob.School)), Hint: "y/n"},
		{Label: "When do you start your day?", View: m.obStart.View(), Hint: "HH:MM"},
		{Label: "When do you go to sleep?", View: m.obSleep.View(), Hint: "HH:MM"},
		{Label: "Productive hours per day", View: m.obHours.View()},
		{Label: "Other commitments", View: m.obCommitments.View()},
		{Label: "Recurring events", View: m.obRecurring.View(), Hint: "name @ when; ..."},
	}
	fields[m.ob.Field].Focused = true
	return views.RenderModal(views.ModalData{
		Title:  "Plan your day with AI",
		Intro:  views.OnboardingPending,
		Fields: fields,
		Error:  m.ob.Err,
		Keys:   "[tab]next field [enter]submit [esc]close",
	})
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.now().UTC(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > 40 {
		m.Notifications = m.Notifications[len(m.Notifications)-40:]
	}
}
