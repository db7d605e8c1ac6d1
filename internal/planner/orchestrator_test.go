package planner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sandeepkv93/sched/internal/model"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type readyFlag bool

func (r readyFlag) Completed() bool { return bool(r) }

type fakeIdentity struct {
	user *model.User
	err  error
}

func (f fakeIdentity) CurrentUser(context.Context) (*model.User, error) {
	return f.user, f.err
}

type fakeGenerator struct {
	mu       sync.Mutex
	calls    []GenerateRequest
	schedule string
	err      error
}

func (f *fakeGenerator) GenerateSchedule(_ context.Context, req GenerateRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	return f.schedule, f.err
}

type fakeSaver struct {
	tasks    []ManualTaskRequest
	feedback []FeedbackRequest
	err      error
}

func (f *fakeSaver) SaveManualTask(_ context.Context, req ManualTaskRequest) error {
	f.tasks = append(f.tasks, req)
	return f.err
}

func (f *fakeSaver) SaveFeedback(_ context.Context, req FeedbackRequest) error {
	f.feedback = append(f.feedback, req)
	return f.err
}

func answers() model.OnboardingAnswers {
	return model.OnboardingAnswers{
		Work:        model.Yes,
		School:      model.No,
		StartTime:   "07:00",
		SleepTime:   "23:00",
		HoursPerDay: 8,
		Commitments: "Meetings every Tuesday",
		RecurringEvents: []model.RecurringEvent{
			{Description: "Dance class", Schedule: "Thursday 6-7pm"},
		},
	}
}

func loggedIn() fakeIdentity {
	return fakeIdentity{user: &model.User{ID: "user-1", EmailConfirmed: true}}
}

func succeeded(t *testing.T, o *Orchestrator, schedule string) {
	t.Helper()
	ticket, ok := o.Begin(answers())
	if !ok {
		t.Fatal("expected begin to succeed")
	}
	if !o.Resolve(Result{Seq: ticket.Seq, Schedule: schedule}) {
		t.Fatal("expected resolve to apply")
	}
}

func TestBeginRejectedWhileLoading(t *testing.T) {
	o := NewOrchestrator(readyFlag(true))
	first, ok := o.Begin(answers())
	if !ok || o.Status() != StatusLoading {
		t.Fatalf("expected loading, got %s", o.Status())
	}
	if o.CanGenerate() {
		t.Fatal("expected control disabled while loading")
	}
	if _, ok := o.Begin(answers()); ok {
		t.Fatal("expected second begin to be rejected")
	}
	if first.Seq != 1 || len(first.Answers.RecurringEvents) != 1 {
		t.Fatalf("unexpected ticket: %+v", first)
	}
}

func TestBeginRequiresCompletedOnboarding(t *testing.T) {
	o := NewOrchestrator(readyFlag(false))
	if o.CanGenerate() {
		t.Fatal("expected generation locked before onboarding")
	}
	if _, ok := o.Begin(answers()); ok {
		t.Fatal("expected begin to be rejected")
	}
	if o.Status() != StatusIdle {
		t.Fatalf("expected idle, got %s", o.Status())
	}
}

func TestFailedGenerationShowsFixedMessage(t *testing.T) {
	o := NewOrchestrator(readyFlag(true))
	ticket, _ := o.Begin(answers())
	gen := &fakeGenerator{err: errors.New("502 bad gateway")}
	res := Generate(t.Context(), Deps{Identity: loggedIn(), Generator: gen}, ticket)
	if res.Err == nil {
		t.Fatal("expected generation error")
	}
	o.Resolve(res)

	if o.Status() != StatusError || o.Error() != ErrorMessage {
		t.Fatalf("unexpected state: %s %q", o.Status(), o.Error())
	}
	if _, ok := o.Schedule(); ok {
		t.Fatal("expected schedule absent after failure")
	}
	if !o.CanGenerate() {
		t.Fatal("expected control re-enabled after failure")
	}
	if len(gen.calls) != 1 {
		t.Fatalf("expected exactly one generator call, got %d", len(gen.calls))
	}
}

func TestSuccessAfterErrorClearsMessage(t *testing.T) {
	o := NewOrchestrator(readyFlag(true))
	ticket, _ := o.Begin(answers())
	o.Resolve(Result{Seq: ticket.Seq, Err: errors.New("boom")})

	ticket, ok := o.Begin(answers())
	if !ok || o.Error() != "" {
		t.Fatalf("expected retry to clear error, got ok=%v err=%q", ok, o.Error())
	}
	o.Resolve(Result{Seq: ticket.Seq, Schedule: "7:00 Wake up"})
	if s, ok := o.Schedule(); !ok || s != "7:00 Wake up" || o.Status() != StatusSuccess {
		t.Fatalf("unexpected success state: %q %v %s", s, ok, o.Status())
	}
}

func TestMissingIdentitySkipsGenerator(t *testing.T) {
	o := NewOrchestrator(readyFlag(true))
	ticket, _ := o.Begin(answers())
	gen := &fakeGenerator{schedule: "plan"}

	cases := []Identity{fakeIdentity{}, fakeIdentity{err: errors.New("expired")}, nil}
	for _, id := range cases {
		res := Generate(t.Context(), Deps{Identity: id, Generator: gen}, ticket)
		if !errors.Is(res.Err, ErrNotLoggedIn) {
			t.Fatalf("expected ErrNotLoggedIn, got %v", res.Err)
		}
	}
	if len(gen.calls) != 0 {
		t.Fatalf("expected no generator calls, got %d", len(gen.calls))
	}
}

func TestGenerateSendsAnswersAndUser(t *testing.T) {
	gen := &fakeGenerator{schedule: "plan"}
	res := Generate(t.Context(), Deps{Identity: loggedIn(), Generator: gen}, Ticket{Seq: 3, Answers: answers()})
	if res.Err != nil || res.Schedule != "plan" || res.Seq != 3 {
		t.Fatalf("unexpected result: %+v", res)
	}
	req := gen.calls[0]
	if req.UserID != "user-1" || req.Work != model.Yes || req.HoursPerDay != 8 || len(req.RecurringEvents) != 1 {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestGenerateEmptyScheduleIsError(t *testing.T) {
	gen := &fakeGenerator{schedule: "  "}
	res := Generate(t.Context(), Deps{Identity: loggedIn(), Generator: gen}, Ticket{Seq: 1})
	if !errors.Is(res.Err, ErrEmptySchedule) {
		t.Fatalf("expected ErrEmptySchedule, got %v", res.Err)
	}
}

func TestGenerateLogsUnderlyingError(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	gen := &fakeGenerator{err: errors.New("upstream timeout")}
	Generate(t.Context(), Deps{Identity: loggedIn(), Generator: gen, Logger: zap.New(core)}, Ticket{Seq: 1})

	entries := logs.FilterMessage("generate schedule").All()
	if len(entries) != 1 {
		t.Fatalf("expected one error log, got %d", len(entries))
	}
	if entries[0].ContextMap()["user_id"] != "user-1" {
		t.Fatalf("expected user_id field, got %v", entries[0].ContextMap())
	}
}

func TestStaleResultDropped(t *testing.T) {
	o := NewOrchestrator(readyFlag(true))
	first, _ := o.Begin(answers())
	o.Resolve(Result{Seq: first.Seq, Err: errors.New("fail")})
	second, _ := o.Begin(answers())

	if o.Resolve(Result{Seq: first.Seq, Schedule: "late"}) {
		t.Fatal("expected stale result to be dropped")
	}
	if o.Status() != StatusLoading {
		t.Fatalf("expected still loading, got %s", o.Status())
	}
	if !o.Resolve(Result{Seq: second.Seq, Schedule: "fresh"}) {
		t.Fatal("expected latest result to apply")
	}
	if s, _ := o.Schedule(); s != "fresh" {
		t.Fatalf("expected fresh schedule, got %q", s)
	}
	if o.Resolve(Result{Seq: second.Seq, Schedule: "dup"}) {
		t.Fatal("expected duplicate resolve to be dropped")
	}
}

func TestSuccessResetsAugmentationsAndFeedback(t *testing.T) {
	o := NewOrchestrator(readyFlag(true))
	succeeded(t, o, "first")
	o.AddAugmentation("Gym", "18:00")
	o.SetDraft("great")
	if _, ok := o.SubmitFeedback(time.Now()); !ok {
		t.Fatal("expected feedback submit")
	}

	succeeded(t, o, "second")
	if len(o.Augmentations()) != 0 {
		t.Fatalf("expected augmentations reset, got %v", o.Augmentations())
	}
	if o.FeedbackState() != FeedbackOpen || o.FeedbackDraft() != "" {
		t.Fatalf("expected feedback reopened, got %s %q", o.FeedbackState(), o.FeedbackDraft())
	}
}

func TestAugmentationRequiresScheduleAndName(t *testing.T) {
	o := NewOrchestrator(readyFlag(true))
	if _, ok := o.AddAugmentation("Gym", "18:00"); ok {
		t.Fatal("expected augmentation rejected without schedule")
	}
	succeeded(t, o, "plan")
	if _, ok := o.AddAugmentation("  ", "18:00"); ok {
		t.Fatal("expected blank name rejected")
	}
	o.AddAugmentation("Gym", "18:00")
	o.AddAugmentation("Read", "")
	o.AddAugmentation("Call mom", "20:00")
	if !o.RemoveAugmentation(1) || o.RemoveAugmentation(5) || o.RemoveAugmentation(-1) {
		t.Fatal("unexpected remove results")
	}
	got := o.Augmentations()
	if len(got) != 2 || got[0].Name != "Gym" || got[1].Name != "Call mom" {
		t.Fatalf("unexpected augmentations: %+v", got)
	}
}

func TestSaveAugmentationFailureKeepsLocalState(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	o := NewOrchestrator(readyFlag(true))
	succeeded(t, o, "plan")
	aug, _ := o.AddAugmentation("Gym", "18:00")

	saver := &fakeSaver{err: errors.New("500")}
	err := SaveAugmentation(t.Context(), Deps{Identity: loggedIn(), Augmentations: saver, Logger: zap.New(core)}, aug)
	if err == nil {
		t.Fatal("expected save error")
	}
	if len(o.Augmentations()) != 1 {
		t.Fatal("expected augmentation kept after failed save")
	}
	if logs.FilterMessage("save manual task").Len() != 1 {
		t.Fatalf("expected one warning, got %d", logs.Len())
	}
	if len(saver.tasks) != 1 || saver.tasks[0].UserID != "user-1" || saver.tasks[0].Time != "18:00" {
		t.Fatalf("unexpected request: %+v", saver.tasks)
	}
}

func TestSaveAugmentationWithoutUser(t *testing.T) {
	saver := &fakeSaver{}
	err := SaveAugmentation(t.Context(), Deps{Identity: fakeIdentity{}, Augmentations: saver}, model.Augmentation{Name: "x"})
	if !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
	if len(saver.tasks) != 0 {
		t.Fatal("expected no request without a user")
	}
}

func TestFeedbackOneShot(t *testing.T) {
	o := NewOrchestrator(readyFlag(true))
	o.SetDraft("early")
	if _, ok := o.SubmitFeedback(time.Now()); ok {
		t.Fatal("expected feedback rejected without schedule")
	}

	succeeded(t, o, "plan")
	if _, ok := o.SubmitFeedback(time.Now()); ok {
		t.Fatal("expected empty feedback rejected")
	}
	o.SetDraft("  too packed  ")
	now := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	rec, ok := o.SubmitFeedback(now)
	if !ok {
		t.Fatal("expected submit to succeed")
	}
	if rec.Body != "too packed" || rec.Schedule != "plan" || !rec.SubmittedAt.Equal(now) {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if o.FeedbackState() != FeedbackSubmitted || o.FeedbackDraft() != "" {
		t.Fatal("expected submitted with cleared draft")
	}
	if o.SetDraft("again") {
		t.Fatal("expected draft locked after submit")
	}
	if _, ok := o.SubmitFeedback(now); ok {
		t.Fatal("expected second submit rejected")
	}
}

func TestSaveFeedbackAttachesUser(t *testing.T) {
	saver := &fakeSaver{}
	rec := model.FeedbackRecord{Schedule: "plan", Body: "nice", SubmittedAt: time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)}

	if err := SaveFeedback(t.Context(), Deps{Identity: loggedIn(), Feedback: saver}, rec); err != nil {
		t.Fatalf("save feedback: %v", err)
	}
	if err := SaveFeedback(t.Context(), Deps{Identity: fakeIdentity{}, Feedback: saver}, rec); err != nil {
		t.Fatalf("save anonymous feedback: %v", err)
	}
	if got := saver.feedback[0]; got.UserID == nil || *got.UserID != "user-1" || got.Date != "2026-05-01T09:30:00.000Z" {
		t.Fatalf("unexpected request: %+v", got)
	}
	if saver.feedback[1].UserID != nil {
		t.Fatal("expected null user id without identity")
	}
}

func TestSaveFeedbackFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	o := NewOrchestrator(readyFlag(true))
	succeeded(t, o, "plan")
	o.SetDraft("meh")
	rec, _ := o.SubmitFeedback(time.Now())

	err := SaveFeedback(t.Context(), Deps{Feedback: &fakeSaver{err: errors.New("offline")}, Logger: zap.New(core)}, rec)
	if err == nil {
		t.Fatal("expected error")
	}
	if o.FeedbackState() != FeedbackSubmitted {
		t.Fatal("expected local submitted state kept")
	}
	if logs.FilterMessage("save schedule feedback").Len() != 1 {
		t.Fatal("expected warning logged")
	}
}
