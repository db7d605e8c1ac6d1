package onboarding

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sandeepkv93/sched/internal/model"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type memFlags struct {
	flags  map[string]bool
	setErr error
	sets   int
}

func newMemFlags() *memFlags {
	return &memFlags{flags: map[string]bool{}}
}

func (m *memFlags) Get(_ context.Context, key string) (bool, error) {
	return m.flags[key], nil
}

func (m *memFlags) Set(_ context.Context, key string, value bool) error {
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.flags[key] = value
	return nil
}

type memAnswers struct {
	*memFlags
	saved   *model.OnboardingAnswers
	saveErr error
}

func (m *memAnswers) LoadAnswers(context.Context) (*model.OnboardingAnswers, error) {
	return m.saved, nil
}

func (m *memAnswers) SaveAnswers(_ context.Context, a model.OnboardingAnswers) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = &a
	return nil
}

func (m *memAnswers) ClearAnswers(context.Context) error {
	m.saved = nil
	return nil
}

func validAnswers() model.OnboardingAnswers {
	return model.OnboardingAnswers{
		Work:        model.Yes,
		School:      model.No,
		StartTime:   "07:00",
		SleepTime:   "23:00",
		HoursPerDay: 8,
		RecurringEvents: []model.RecurringEvent{
			{Description: "Dance class", Schedule: "Thursday 6-7pm"},
		},
	}
}

func TestEnterOpensOnlyWhilePending(t *testing.T) {
	store := newMemFlags()
	g, err := NewGate(t.Context(), store, nil)
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	if g.State() != StatePending || g.Open() {
		t.Fatalf("unexpected initial gate: state=%s open=%v", g.State(), g.Open())
	}
	if !g.Enter() {
		t.Fatal("expected modal to open on first visit")
	}
	if err := g.Submit(t.Context(), validAnswers()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if g.Open() || !g.Completed() || !store.flags[FlagKey] {
		t.Fatalf("expected completed and closed, got state=%s open=%v flag=%v", g.State(), g.Open(), store.flags[FlagKey])
	}
	if g.Enter() {
		t.Fatal("expected completed gate to stay closed")
	}
	answers, ok := g.Answers()
	if !ok || answers.HoursPerDay != 8 || len(answers.RecurringEvents) != 1 {
		t.Fatalf("expected answers retained, got %+v %v", answers, ok)
	}
}

func TestCompletedFlagSkipsModal(t *testing.T) {
	store := newMemFlags()
	store.flags[FlagKey] = true
	g, err := NewGate(t.Context(), store, nil)
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	if !g.Completed() || g.Enter() {
		t.Fatal("expected stored flag to suppress the modal")
	}
}

func TestSubmitInvalidKeepsPending(t *testing.T) {
	store := newMemFlags()
	g, _ := NewGate(t.Context(), store, nil)
	g.Enter()
	bad := validAnswers()
	bad.SleepTime = ""
	if err := g.Submit(t.Context(), bad); !errors.Is(err, model.ErrMissingAnswer) {
		t.Fatalf("expected missing answer error, got %v", err)
	}
	if g.Completed() || !g.Open() || store.sets != 0 {
		t.Fatalf("expected pending with modal open and no flag write, got state=%s open=%v sets=%d", g.State(), g.Open(), store.sets)
	}
}

func TestSubmitFlagWriteFailureStaysPending(t *testing.T) {
	store := newMemFlags()
	store.setErr = errors.New("disk full")
	g, _ := NewGate(t.Context(), store, nil)
	g.Enter()
	if err := g.Submit(t.Context(), validAnswers()); err == nil {
		t.Fatal("expected flag write error")
	}
	if g.Completed() || !g.Open() {
		t.Fatal("expected gate to stay pending with modal open")
	}
	if _, ok := g.Answers(); ok {
		t.Fatal("expected no answers retained on failure")
	}
}

func TestDismissReopensNextVisit(t *testing.T) {
	g, _ := NewGate(t.Context(), newMemFlags(), nil)
	g.Enter()
	g.Dismiss()
	if g.Open() {
		t.Fatal("expected dismiss to close modal")
	}
	if !g.Enter() {
		t.Fatal("expected modal to re-open after dismiss")
	}
}

func TestResetClearsFlag(t *testing.T) {
	store := newMemFlags()
	store.flags[FlagKey] = true
	g, _ := NewGate(t.Context(), store, nil)
	if err := g.Reset(t.Context()); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if g.Completed() || store.flags[FlagKey] {
		t.Fatal("expected flag cleared")
	}
	if !g.Enter() {
		t.Fatal("expected modal to open after reset")
	}
}

func TestAnswerStoreFailureIsLoggedOnly(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	store := &memAnswers{memFlags: newMemFlags(), saveErr: errors.New("io")}
	g, _ := NewGate(t.Context(), store, zap.New(core))
	if err := g.Submit(t.Context(), validAnswers()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !g.Completed() {
		t.Fatal("expected completion despite answer save failure")
	}
	if logs.FilterMessage("save onboarding answers").Len() != 1 {
		t.Fatalf("expected one warning, got %d entries", logs.Len())
	}
}

func TestAnswersReloadedFromStore(t *testing.T) {
	a := validAnswers()
	store := &memAnswers{memFlags: newMemFlags(), saved: &a}
	store.flags[FlagKey] = true
	g, _ := NewGate(t.Context(), store, nil)
	got, ok := g.Answers()
	if !ok || got.StartTime != "07:00" {
		t.Fatalf("expected stored answers, got %+v %v", got, ok)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	fs, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	g, err := NewGate(t.Context(), fs, nil)
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	if err := g.Submit(t.Context(), validAnswers()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read state: %v", err)
	}
	if !strings.Contains(string(raw), `"aiOnboardingComplete": true`) {
		t.Fatalf("expected flag in state file, got %s", raw)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected temp file renamed away, stat err=%v", err)
	}

	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	g2, err := NewGate(t.Context(), reopened, nil)
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	if !g2.Completed() {
		t.Fatal("expected completion to survive restart")
	}
	if a, ok := g2.Answers(); !ok || a.Work != model.Yes || len(a.RecurringEvents) != 1 {
		t.Fatalf("expected answers to survive restart, got %+v %v", a, ok)
	}

	if err := g2.Reset(t.Context()); err != nil {
		t.Fatalf("reset: %v", err)
	}
	again, _ := NewFileStore(path)
	if done, _ := again.Get(t.Context(), FlagKey); done {
		t.Fatal("expected reset to persist")
	}
	if a, _ := again.LoadAnswers(t.Context()); a != nil {
		t.Fatalf("expected stored answers cleared by reset, got %+v", a)
	}
	g3, err := NewGate(t.Context(), again, nil)
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	if _, ok := g3.Answers(); ok {
		t.Fatal("expected no answers to prefill after reset")
	}
}

func TestFileStoreEmptyPathIsMemoryOnly(t *testing.T) {
	fs, err := NewFileStore("  ")
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if err := fs.Set(t.Context(), FlagKey, true); err != nil {
		t.Fatalf("set: %v", err)
	}
	if done, _ := fs.Get(t.Context(), FlagKey); !done {
		t.Fatal("expected in-memory flag")
	}
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(path); err == nil {
		t.Fatal("expected corrupt state file to fail")
	}
}
