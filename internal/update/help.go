package update

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/sched/internal/views"
)

func bind(keys, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(keys), key.WithHelp(keys, desc))
}

// tabKeyMap feeds bubbles/help: the short view lists the global keys and
// the full view adds one column for the active tab.
type tabKeyMap struct {
	global []key.Binding
	tab    []key.Binding
}

func (k tabKeyMap) ShortHelp() []key.Binding  { return k.global }
func (k tabKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.global, k.tab} }

func (m Model) keyMap() tabKeyMap {
	global := []key.Binding{
		bind(m.Keys.Manual, "manual tasks"),
		bind(m.Keys.Planner, "AI planner"),
		bind("/", "command palette"),
		bind(m.Keys.Help, "toggle help"),
		bind(m.Keys.Quit, "quit"),
	}
	var tab []key.Binding
	switch m.Tab {
	case TabPlanner:
		tab = []key.Binding{
			bind("g", "generate schedule"),
			bind("o", "open questionnaire"),
			bind("n", "add task to schedule"),
			bind("x", "remove selected schedule task"),
			bind("f", "write feedback (ctrl+s sends)"),
			bind("pgup/pgdown", "scroll schedule"),
		}
	default:
		tab = []key.Binding{
			bind("a", "add task"),
			bind("j/k", "move cursor"),
			bind("space", "toggle done"),
			bind("e", "edit task"),
			bind("d", "delete task"),
		}
	}
	return tabKeyMap{global: global, tab: tab}
}

func (m Model) renderHelpView() string {
	km := m.keyMap()
	lines := make([]string, 0, len(km.tab))
	for _, b := range km.tab {
		h := b.Help()
		lines = append(lines, "- "+h.Key+": "+h.Desc)
	}
	hm := m.helpModel
	hm.ShowAll = true
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.Tab),
		Bindings:    lines,
		HelpView:    hm.View(km),
	})
}
