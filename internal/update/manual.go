package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/sched/internal/model"
	"github.com/sandeepkv93/sched/internal/tasks"
)

func (m Model) handleManualKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "a":
		m.focusAddForm(focusAddText)
	case "j", "down":
		if m.cursor < m.Tasks.Len()-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case " ", "x":
		t, ok := m.taskAt(m.cursor)
		if !ok {
			return m, nil
		}
		cmd := m.toggleTask(t.ID)
		return m, cmd
	case "e", "enter":
		t, ok := m.taskAt(m.cursor)
		if !ok {
			return m, nil
		}
		m.openEdit(t.ID)
	case "d", "delete":
		t, ok := m.taskAt(m.cursor)
		if !ok {
			return m, nil
		}
		cmd := m.removeTask(t.ID)
		return m, cmd
	}
	return m, nil
}

func (m *Model) focusAddForm(area focusArea) {
	m.blurAll()
	m.focus = area
	switch area {
	case focusAddText:
		m.addText.Focus()
	case focusAddHours:
		m.addHours.Focus()
	case focusAddMinutes:
		m.addMinutes.Focus()
	}
}

func (m Model) handleAddFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		switch m.focus {
		case focusAddText:
			m.focusAddForm(focusAddHours)
		case focusAddHours:
			m.focusAddForm(focusAddMinutes)
		default:
			m.focusAddForm(focusAddText)
		}
		return m, nil
	case "enter":
		_, ok, cmd := m.addTask(m.addText.Value(), m.addHours.Value(), m.addMinutes.Value())
		if ok {
			m.addText.SetValue("")
			m.addHours.SetValue("")
			m.addMinutes.SetValue("")
			m.focusAddForm(focusAddText)
		}
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusAddText:
		m.addText, cmd = m.addText.Update(msg)
	case focusAddHours:
		m.addHours, cmd = m.addHours.Update(msg)
	case focusAddMinutes:
		m.addMinutes, cmd = m.addMinutes.Update(msg)
	}
	return m, cmd
}

func (m Model) taskAt(i int) (model.Task, bool) {
	list := m.Tasks.Tasks()
	if i < 0 || i >= len(list) {
		return model.Task{}, false
	}
	return list[i], true
}

// addTask appends a task locally first; the returned command stores it.
func (m *Model) addTask(text, hours, minutes string) (model.Task, bool, tea.Cmd) {
	t, ok := m.Tasks.Add(text, hours, minutes)
	if !ok {
		m.Status = StatusBar{Text: "task text is required", IsError: true}
		return model.Task{}, false, nil
	}
	m.refreshSummary()
	m.scheduleTaskAlarm(t)
	m.cursor = m.Tasks.Len() - 1
	m.Status = StatusBar{Text: fmt.Sprintf("added: %s", t.Text)}
	return t, true, tea.Batch(m.saveTaskCmd(t), m.recordDayCmd())
}

func (m *Model) toggleTask(id string) tea.Cmd {
	t, ok := m.Tasks.Toggle(id)
	if !ok {
		return nil
	}
	m.refreshSummary()
	if t.Done {
		m.cancelTaskAlarm(t.ID)
		m.Status = StatusBar{Text: fmt.Sprintf("done: %s", t.Text)}
	} else {
		m.scheduleTaskAlarm(t)
		m.Status = StatusBar{Text: fmt.Sprintf("reopened: %s", t.Text)}
	}
	if m.Summary.Celebrate() {
		m.notify("Progress", "You did it! Every task is done.", "info")
	}
	return tea.Batch(m.saveTaskCmd(t), m.recordDayCmd())
}

func (m *Model) removeTask(id string) tea.Cmd {
	t, ok := m.Tasks.Get(id)
	if !ok || !m.Tasks.Remove(id) {
		return nil
	}
	m.cancelTaskAlarm(id)
	m.refreshSummary()
	m.Status = StatusBar{Text: fmt.Sprintf("deleted: %s", t.Text)}
	return tea.Batch(m.deleteTaskCmd(id), m.recordDayCmd())
}

func (m *Model) openEdit(id string) bool {
	d, ok := m.Tasks.Select(id)
	if !ok {
		return false
	}
	m.blurAll()
	m.edit = editState{Active: true, Field: editFieldText, Priority: d.Priority}
	m.editText.SetValue(d.Text)
	m.editStart.SetValue("")
	if d.StartTime != nil {
		m.editStart.SetValue(d.StartTime.String())
	}
	m.editHours.SetValue(fmt.Sprint(d.DurationMinutes / 60))
	m.editMinutes.SetValue(fmt.Sprint(d.DurationMinutes % 60))
	m.focusEditField(editFieldText)
	return true
}

func (m *Model) focusEditField(field int) {
	m.edit.Field = (field + editFieldCount) % editFieldCount
	m.editText.Blur()
	m.editStart.Blur()
	m.editHours.Blur()
	m.editMinutes.Blur()
	switch m.edit.Field {
	case editFieldText:
		m.editText.Focus()
	case editFieldStart:
		m.editStart.Focus()
	case editFieldHours:
		m.editHours.Focus()
	case editFieldMinutes:
		m.editMinutes.Focus()
	}
}

func (m *Model) closeEdit() {
	m.Tasks.Cancel()
	m.edit = editState{}
	m.editText.Blur()
	m.editStart.Blur()
	m.editHours.Blur()
	m.editMinutes.Blur()
}

func (m Model) handleEditKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeEdit()
		m.Status = StatusBar{Text: "edit cancelled"}
		return m, nil
	case "tab", "down":
		m.focusEditField(m.edit.Field + 1)
		return m, nil
	case "shift+tab", "up":
		m.focusEditField(m.edit.Field - 1)
		return m, nil
	case "enter":
		cmd := m.saveEdit()
		return m, cmd
	}

	if m.edit.Field == editFieldPriority {
		switch msg.String() {
		case " ", "right", "l":
			m.edit.Priority = m.edit.Priority.Next()
		case "left", "h":
			m.edit.Priority = m.edit.Priority.Next().Next()
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.edit.Field {
	case editFieldText:
		m.editText, cmd = m.editText.Update(msg)
	case editFieldStart:
		m.editStart, cmd = m.editStart.Update(msg)
	case editFieldHours:
		m.editHours, cmd = m.editHours.Update(msg)
	case editFieldMinutes:
		m.editMinutes, cmd = m.editMinutes.Update(msg)
	}
	return m, cmd
}

// saveEdit writes the modal fields back to the selected task. A rejected
// draft keeps the modal open with the error shown.
func (m *Model) saveEdit() tea.Cmd {
	start, err := model.ParseOptionalTimeOfDay(m.editStart.Value())
	if err != nil {
		m.edit.Err = "start time must be HH:MM"
		return nil
	}
	id, _ := m.Tasks.Selected()
	saved, err := m.Tasks.Save(tasks.Draft{
		ID:              id,
		Text:            m.editText.Value(),
		Priority:        m.edit.Priority,
		StartTime:       start,
		DurationMinutes: tasks.DurationFrom(m.editHours.Value(), m.editMinutes.Value()),
	})
	if err != nil {
		m.edit.Err = err.Error()
		return nil
	}
	m.closeEdit()
	m.refreshSummary()
	m.scheduleTaskAlarm(saved)
	m.Status = StatusBar{Text: fmt.Sprintf("updated: %s", saved.Text)}
	return m.saveTaskCmd(saved)
}
