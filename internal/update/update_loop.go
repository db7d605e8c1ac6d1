package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/sched/internal/model"
	"github.com/sandeepkv93/sched/internal/views"
	"go.uber.org/zap"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{loadTasksCmd(m.deps, m.repo, m.timeout)}
	if m.alarms != nil {
		cmds = append(cmds, waitForAlarmCmd(m.alarms.C()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.renderSchedule()
		return m, nil
	case SwitchTabMsg:
		m.switchTab(typed.Tab)
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case TasksLoadedMsg:
		return m.applyTasksLoaded(typed)
	case StreaksMsg:
		if typed.Err != nil {
			m.log.Warn("load streaks", zap.String("user_id", m.UserID), zap.Error(typed.Err))
			return m, nil
		}
		m.Streaks = typed.Streaks
		m.StreaksKnown = true
		return m, nil
	case GenerateResultMsg:
		m.applyGenerateResult(typed)
		return m, nil
	case PersistResultMsg:
		return m.applyPersistResult(typed)
	case AlarmMsg:
		m.applyAlarm(typed.Alarm)
		if m.alarms != nil {
			return m, waitForAlarmCmd(m.alarms.C())
		}
		return m, nil
	case spinner.TickMsg:
		if !m.Planner.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.genSpinner, cmd = m.genSpinner.Update(typed)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}
	if m.Palette.Active {
		return m.handlePaletteKey(msg)
	}
	if m.edit.Active {
		return m.handleEditKey(msg)
	}
	if m.Gate.Open() {
		return m.handleOnboardingKey(msg)
	}
	if m.focus != focusNone {
		return m.handleFocusedKey(msg)
	}

	switch keyStr {
	case "/":
		m.openPalette()
		return m, nil
	case m.Keys.Manual:
		m.switchTab(TabManual)
		return m, nil
	case m.Keys.Planner:
		m.switchTab(TabPlanner)
		return m, nil
	case "tab":
		if m.Tab == TabManual {
			m.switchTab(TabPlanner)
		} else {
			m.switchTab(TabManual)
		}
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	}

	if m.Tab == TabPlanner {
		return m.handlePlannerKey(msg)
	}
	return m.handleManualKey(msg)
}

// switchTab changes the visible tab. Entering the planner opens the
// onboarding questionnaire while it is still pending.
func (m *Model) switchTab(tab Tab) {
	switch tab {
	case TabManual, TabPlanner:
	default:
		return
	}
	m.blurAll()
	m.Tab = tab
	if tab == TabPlanner && m.Gate.Enter() {
		m.openOnboardingForm()
	}
}

func (m Model) handleFocusedKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.blurAll()
		return m, nil
	}
	switch m.focus {
	case focusAddText, focusAddHours, focusAddMinutes:
		return m.handleAddFormKey(msg)
	case focusAugName, focusAugTime:
		return m.handleAugmentFormKey(msg)
	case focusFeedback:
		return m.handleFeedbackKey(msg)
	}
	return m, nil
}

func (m *Model) blurAll() {
	m.focus = focusNone
	m.addText.Blur()
	m.addHours.Blur()
	m.addMinutes.Blur()
	m.augName.Blur()
	m.augTime.Blur()
	m.feedbackArea.Blur()
}

func (m Model) applyTasksLoaded(msg TasksLoadedMsg) (Model, tea.Cmd) {
	// A failed read still resolves the user, so later writes are not lost.
	m.UserID = msg.UserID
	if msg.Err != nil {
		m.log.Warn("load tasks", zap.String("user_id", m.UserID), zap.Error(msg.Err))
		m.Status = StatusBar{Text: "could not load saved tasks", IsError: true}
		return m, m.persistUnsaved(nil)
	}
	if m.UserID == "" {
		return m, nil
	}
	// Tasks added before the fetch settled are kept after the stored ones.
	kept := m.Tasks.Load(append(msg.Tasks, m.Tasks.Tasks()...))
	m.log.Info("tasks loaded", zap.String("user_id", m.UserID), zap.Int("count", kept))
	m.refreshSummary()
	for _, t := range m.Tasks.Tasks() {
		m.scheduleTaskAlarm(t)
	}
	return m, tea.Batch(m.persistUnsaved(msg.Tasks), loadStreaksCmd(m.repo, m.UserID, m.timeout))
}

// persistUnsaved writes the in-memory tasks missing from stored, then
// snapshots the day. It is a no-op when nothing is missing.
func (m Model) persistUnsaved(stored []model.Task) tea.Cmd {
	known := make(map[string]bool, len(stored))
	for _, t := range stored {
		known[t.ID] = true
	}
	var cmds []tea.Cmd
	for _, t := range m.Tasks.Tasks() {
		if !known[t.ID] {
			cmds = append(cmds, m.saveTaskCmd(t))
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(append(cmds, m.recordDayCmd())...)
}

func (m Model) applyPersistResult(msg PersistResultMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		switch msg.Op {
		case opManualTask, opFeedback:
			// already logged by the planner
		default:
			m.log.Warn(msg.Op, zap.String("user_id", m.UserID), zap.Error(msg.Err))
		}
		return m, nil
	}
	if msg.Op == opRecordDay {
		return m, loadStreaksCmd(m.repo, m.UserID, m.timeout)
	}
	return m, nil
}

func (m Model) View() string {
	data := views.AppData{
		Header: fmt.Sprintf("sched  %s", m.now().Format("Mon Jan 2")),
		Tabs: []string{
			fmt.Sprintf("[%s] %s", m.Keys.Manual, TabManual),
			fmt.Sprintf("[%s] %s", m.Keys.Planner, TabPlanner),
		},
		LeftPane:     m.renderDashboard(),
		Notification: m.renderNotificationsView(),
	}
	if m.Tab == TabPlanner {
		data.ActiveTab = 1
		data.RightPane = m.renderPlannerPane()
	} else {
		data.RightPane = m.renderTaskPane()
	}
	switch {
	case m.edit.Active:
		data.Modal = m.renderEditModal()
	case m.Gate.Open():
		data.Modal = m.renderOnboardingModal()
	}
	if m.Status.Text != "" {
		data.StatusLine = "status: " + m.Status.Text
		data.StatusError = m.Status.IsError
	}
	switch {
	case m.Palette.Active:
		data.Footer = m.renderCommandPalette()
	case m.HelpVisible:
		data.Footer = m.renderHelpView()
	default:
		data.Footer = fmt.Sprintf("[%s]help [/]command [tab]switch tab [%s]quit", m.Keys.Help, m.Keys.Quit)
	}
	return views.RenderApp(data)
}
