// Package onboarding tracks the one-time AI planner questionnaire.
package onboarding

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/sched/internal/model"
	"go.uber.org/zap"
)

// FlagKey is the durable key that marks the questionnaire as answered.
const FlagKey = "aiOnboardingComplete"

type State string

const (
	StatePending   State = "pending"
	StateCompleted State = "completed"
)

type FlagStore interface {
	Get(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key string, value bool) error
}

// AnswerStore is optionally implemented by a FlagStore that can also keep
// the submitted answers across sessions.
type AnswerStore interface {
	LoadAnswers(ctx context.Context) (*model.OnboardingAnswers, error)
	SaveAnswers(ctx context.Context, answers model.OnboardingAnswers) error
	ClearAnswers(ctx context.Context) error
}

type Gate struct {
	store   FlagStore
	logger  *zap.Logger
	state   State
	open    bool
	answers *model.OnboardingAnswers
}

// NewGate reads the durable flag and, when available, the stored answers.
func NewGate(ctx context.Context, store FlagStore, logger *zap.Logger) (*Gate, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Gate{store: store, logger: logger, state: StatePending}
	done, err := store.Get(ctx, FlagKey)
	if err != nil {
		return nil, fmt.Errorf("onboarding: read flag: %w", err)
	}
	if done {
		g.state = StateCompleted
	}
	if as, ok := store.(AnswerStore); ok {
		answers, err := as.LoadAnswers(ctx)
		if err != nil {
			logger.Warn("load onboarding answers", zap.Error(err))
		} else if answers != nil {
			g.answers = answers
		}
	}
	return g, nil
}

func (g *Gate) State() State {
	return g.state
}

func (g *Gate) Completed() bool {
	return g.state == StateCompleted
}

// Open reports whether the questionnaire modal is visible.
func (g *Gate) Open() bool {
	return g.open
}

// Enter is called whenever the planner view becomes active.
func (g *Gate) Enter() bool {
	if g.state == StatePending {
		g.open = true
	}
	return g.open
}

// Submit validates answers and, on success, durably marks the gate
// completed. A failed flag write leaves the gate pending with the modal
// still open.
func (g *Gate) Submit(ctx context.Context, answers model.OnboardingAnswers) error {
	if err := answers.Validate(); err != nil {
		return err
	}
	if err := g.store.Set(ctx, FlagKey, true); err != nil {
		return fmt.Errorf("onboarding: write flag: %w", err)
	}
	if as, ok := g.store.(AnswerStore); ok {
		if err := as.SaveAnswers(ctx, answers); err != nil {
			g.logger.Warn("save onboarding answers", zap.Error(err))
		}
	}
	kept := answers
	kept.RecurringEvents = append([]model.RecurringEvent(nil), answers.RecurringEvents...)
	g.answers = &kept
	g.state = StateCompleted
	g.open = false
	return nil
}

// Dismiss closes the modal without completing.
func (g *Gate) Dismiss() {
	g.open = false
}

// Answers returns the most recently submitted answers, if any.
func (g *Gate) Answers() (model.OnboardingAnswers, bool) {
	if g.answers == nil {
		return model.OnboardingAnswers{}, false
	}
	out := *g.answers
	out.RecurringEvents = append([]model.RecurringEvent(nil), g.answers.RecurringEvents...)
	return out, true
}

// Reset clears the durable flag and any stored answers so the questionnaire
// shows again, blank, in this and later sessions.
func (g *Gate) Reset(ctx context.Context) error {
	if err := g.store.Set(ctx, FlagKey, false); err != nil {
		return fmt.Errorf("onboarding: clear flag: %w", err)
	}
	if as, ok := g.store.(AnswerStore); ok {
		if err := as.ClearAnswers(ctx); err != nil {
			return fmt.Errorf("onboarding: clear answers: %w", err)
		}
	}
	g.state = StatePending
	g.answers = nil
	return nil
}
