package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sandeepkv93/sched/internal/model"
	"github.com/sandeepkv93/sched/internal/onboarding"
	"github.com/sandeepkv93/sched/internal/planner"
	prog "github.com/sandeepkv93/sched/internal/progress"
	"github.com/sandeepkv93/sched/internal/scheduler"
	"github.com/sandeepkv93/sched/internal/tasks"
	"go.uber.org/zap"
)

type Tab string

const (
	TabManual  Tab = "Manual"
	TabPlanner Tab = "AI Planner"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Manual  string
	Planner string
	Help    string
	Quit    string
}

// TaskRepository persists manual tasks and the day completion history for
// one user.
type TaskRepository interface {
	ListTasks(ctx context.Context, userID string) ([]model.Task, error)
	SaveTask(ctx context.Context, userID string, task model.Task) error
	DeleteTask(ctx context.Context, userID, id string) error
	RecordDay(ctx context.Context, userID string, rec model.DayRecord) error
	Streaks(ctx context.Context, userID string) (prog.Streaks, error)
}

// Options wires the collaborators. Everything except Gate is optional; a
// nil Gate is replaced by a memory-only one.
type Options struct {
	Gate    *onboarding.Gate
	Planner planner.Deps
	Tasks   TaskRepository
	Alarms  *scheduler.Engine
	Logger  *zap.Logger
	Timeout time.Duration
	Now     func() time.Time
}

type focusArea int

const (
	focusNone focusArea = iota
	focusAddText
	focusAddHours
	focusAddMinutes
	focusAugName
	focusAugTime
	focusFeedback
)

const (
	editFieldText = iota
	editFieldPriority
	editFieldStart
	editFieldHours
	editFieldMinutes
	editFieldCount
)

const (
	obFieldWork = iota
	obFieldSchool
	obFieldStart
	obFieldSleep
	obFieldHours
	obFieldCommitments
	obFieldRecurring
	obFieldCount
)

type editState struct {
	Active   bool
	Field    int
	Priority model.Priority
	Err      string
}

type onboardingForm struct {
	Field  int
	Work   model.YesNo
	School model.YesNo
	Err    string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type Model struct {
	Tab           Tab
	Tasks         *tasks.Store
	Summary       prog.Summary
	Streaks       prog.Streaks
	StreaksKnown  bool
	Gate          *onboarding.Gate
	Planner       *planner.Orchestrator
	UserID        string
	Palette       CommandPaletteState
	HelpVisible   bool
	Notifications []Notification
	Status        StatusBar
	Keys          GlobalKeyMap
	Quitting      bool
	LastError     error

	deps    planner.Deps
	repo    TaskRepository
	alarms  *scheduler.Engine
	log     *zap.Logger
	timeout time.Duration
	now     func() time.Time

	cursor    int
	augCursor int
	focus     focusArea
	edit      editState
	ob        onboardingForm
	width     int

	addText       textinput.Model
	addHours      textinput.Model
	addMinutes    textinput.Model
	editText      textinput.Model
	editStart     textinput.Model
	editHours     textinput.Model
	editMinutes   textinput.Model
	obStart       textinput.Model
	obSleep       textinput.Model
	obHours       textinput.Model
	obCommitments textinput.Model
	obRecurring   textinput.Model
	augName       textinput.Model
	augTime       textinput.Model
	feedbackArea  textarea.Model
	commandInput  textinput.Model
	progressBar   progress.Model
	genSpinner    spinner.Model
	helpModel     help.Model
	scheduleView  viewport.Model
}

type SwitchTabMsg struct {
	Tab Tab
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// TasksLoadedMsg carries the initial task fetch for the logged-in user.
// An empty UserID means nobody is logged in and tasks stay local.
type TasksLoadedMsg struct {
	UserID string
	Tasks  []model.Task
	Err    error
}

type StreaksMsg struct {
	Streaks prog.Streaks
	Err     error
}

type GenerateResultMsg struct {
	Result planner.Result
}

// PersistResultMsg reports a fire-and-forget write. Op names the write for
// logging.
type PersistResultMsg struct {
	Op  string
	Err error
}

type AlarmMsg struct {
	Alarm scheduler.Alarm
}

func NewModel(opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	gate := opts.Gate
	if gate == nil {
		store, _ := onboarding.NewFileStore("")
		gate, _ = onboarding.NewGate(context.Background(), store, log)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if opts.Planner.Logger == nil {
		opts.Planner.Logger = log
	}

	m := Model{
		Tab:     TabManual,
		Tasks:   tasks.NewStore(),
		Gate:    gate,
		Planner: planner.NewOrchestrator(gate),
		Keys: GlobalKeyMap{
			Manual:  "1",
			Planner: "2",
			Help:    "?",
			Quit:    "q",
		},
		deps:    opts.Planner,
		repo:    opts.Tasks,
		alarms:  opts.Alarms,
		log:     log,
		timeout: timeout,
		now:     now,
		width:   120,
	}
	m.initBubbleComponents()
	m.refreshSummary()
	m.syncBubbleData()
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Prompt = ""
	return in
}

func (m *Model) initBubbleComponents() {
	m.addText = newInput("what needs doing?", 200)
	m.addHours = newInput("0", 3)
	m.addMinutes = newInput("0", 3)
	m.addHours.Width = 3
	m.addMinutes.Width = 3

	m.editText = newInput("task", 200)
	m.editStart = newInput("HH:MM", 5)
	m.editHours = newInput("0", 3)
	m.editMinutes = newInput("0", 3)

	m.obStart = newInput("07:00", 5)
	m.obSleep = newInput("23:00", 5)
	m.obHours = newInput("1-24", 2)
	m.obCommitments = newInput("optional", 300)
	m.obRecurring = newInput("Dance @ Thu 6-7pm; Gym @ Mon 7am", 400)

	m.augName = newInput("extra task", 200)
	m.augTime = newInput("HH:MM", 20)

	m.feedbackArea = textarea.New()
	m.feedbackArea.Placeholder = "How did this schedule work for you?"
	m.feedbackArea.ShowLineNumbers = false
	m.feedbackArea.SetWidth(56)
	m.feedbackArea.SetHeight(3)

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.Placeholder = "add <task> [1h30m] | done <n> | gen | aug <task> @ <time>"

	m.progressBar = progress.New(progress.WithSolidFill(string(prog.ColorDanger)), progress.WithoutPercentage(), progress.WithWidth(30))
	m.genSpinner = spinner.New()
	m.genSpinner.Spinner = spinner.Dot
	m.helpModel = help.New()
	m.scheduleView = viewport.New(62, 14)
}

// syncBubbleData keeps derived widget state in line with the stores.
func (m *Model) syncBubbleData() {
	if m.Tasks == nil {
		return
	}
	if n := m.Tasks.Len(); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if n := len(m.Planner.Augmentations()); m.augCursor >= n {
		m.augCursor = n - 1
	}
	if m.augCursor < 0 {
		m.augCursor = 0
	}
	m.progressBar.FullColor = string(m.Summary.Color)
	m.Palette.Input = m.commandInput.Value()
}

func (m *Model) refreshSummary() {
	m.Summary = prog.Summarize(m.Tasks.Tasks())
}
