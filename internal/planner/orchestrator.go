// Package planner drives the AI schedule lifecycle: generation, ad-hoc
// augmentations on the returned schedule and the one-shot feedback form.
//
// Orchestrator state is owned by the UI event loop. The package level
// functions Generate, SaveAugmentation and SaveFeedback do the blocking
// work and only see value copies.
package planner

import (
	"context"
	"errors"
	"strings"

	"github.com/sandeepkv93/sched/internal/model"
	"go.uber.org/zap"
)

// ErrorMessage is the only generation error text shown to the user.
const ErrorMessage = "Failed to generate schedule. Please try again."

var (
	ErrNotLoggedIn   = errors.New("planner: user not logged in")
	ErrNoGenerator   = errors.New("planner: no schedule generator configured")
	ErrEmptySchedule = errors.New("planner: generator returned an empty schedule")
	ErrNoSaver       = errors.New("planner: no persistence endpoint configured")
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

type FeedbackState string

const (
	FeedbackOpen      FeedbackState = "open"
	FeedbackSubmitted FeedbackState = "submitted"
)

// Readiness reports whether generation is unlocked, normally the
// onboarding gate.
type Readiness interface {
	Completed() bool
}

// Ticket identifies one issued generation request.
type Ticket struct {
	Seq     uint64
	Answers model.OnboardingAnswers
}

// Result is a settled generation request.
type Result struct {
	Seq      uint64
	Schedule string
	Err      error
}

type Orchestrator struct {
	ready Readiness

	status   Status
	schedule string
	has      bool
	errText  string
	seq      uint64

	augmentations []model.Augmentation

	feedback      FeedbackState
	feedbackDraft string
}

func NewOrchestrator(ready Readiness) *Orchestrator {
	return &Orchestrator{ready: ready, status: StatusIdle, feedback: FeedbackOpen}
}

func (o *Orchestrator) Status() Status {
	return o.status
}

func (o *Orchestrator) Loading() bool {
	return o.status == StatusLoading
}

func (o *Orchestrator) Schedule() (string, bool) {
	return o.schedule, o.has
}

// Error is the user facing error text, empty unless status is error.
func (o *Orchestrator) Error() string {
	return o.errText
}

// CanGenerate reports whether the generate control is enabled.
func (o *Orchestrator) CanGenerate() bool {
	if o.status == StatusLoading {
		return false
	}
	return o.ready == nil || o.ready.Completed()
}

// Begin moves to loading and issues a ticket for the async request. It is
// rejected while a request is in flight or before onboarding completes.
func (o *Orchestrator) Begin(answers model.OnboardingAnswers) (Ticket, bool) {
	if !o.CanGenerate() {
		return Ticket{}, false
	}
	o.seq++
	o.status = StatusLoading
	o.errText = ""
	o.schedule = ""
	o.has = false
	o.resetInstance()
	answers.RecurringEvents = append([]model.RecurringEvent(nil), answers.RecurringEvents...)
	return Ticket{Seq: o.seq, Answers: answers}, true
}

// Resolve applies a settled request. Results from any request other than
// the latest issued one are dropped and false is returned.
func (o *Orchestrator) Resolve(r Result) bool {
	if r.Seq != o.seq || o.status != StatusLoading {
		return false
	}
	if r.Err != nil {
		o.status = StatusError
		o.errText = ErrorMessage
		o.schedule = ""
		o.has = false
		return true
	}
	o.status = StatusSuccess
	o.errText = ""
	o.schedule = r.Schedule
	o.has = true
	o.resetInstance()
	return true
}

func (o *Orchestrator) resetInstance() {
	o.augmentations = nil
	o.feedback = FeedbackOpen
	o.feedbackDraft = ""
}

// Generate performs the identity lookup and a single generator call for
// ticket. Failures are logged; callers only surface ErrorMessage.
func Generate(ctx context.Context, deps Deps, ticket Ticket) Result {
	log := deps.logger()
	res := Result{Seq: ticket.Seq}

	user, err := deps.currentUser(ctx)
	switch {
	case err != nil:
		res.Err = errors.Join(ErrNotLoggedIn, err)
	case user == nil || strings.TrimSpace(user.ID) == "":
		res.Err = ErrNotLoggedIn
	case deps.Generator == nil:
		res.Err = ErrNoGenerator
	}
	if res.Err != nil {
		log.Error("generate schedule", zap.Uint64("seq", ticket.Seq), zap.Error(res.Err))
		return res
	}

	schedule, err := deps.Generator.GenerateSchedule(ctx, NewGenerateRequest(user.ID, ticket.Answers))
	if err == nil && strings.TrimSpace(schedule) == "" {
		err = ErrEmptySchedule
	}
	if err != nil {
		log.Error("generate schedule",
			zap.Uint64("seq", ticket.Seq),
			zap.String("user_id", user.ID),
			zap.Error(err))
		res.Err = err
		return res
	}
	log.Info("schedule generated", zap.Uint64("seq", ticket.Seq), zap.String("user_id", user.ID))
	res.Schedule = schedule
	return res
}
