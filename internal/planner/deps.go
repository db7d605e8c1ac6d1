package planner

import (
	"context"

	"github.com/sandeepkv93/sched/internal/model"
	"go.uber.org/zap"
)

type Identity interface {
	// CurrentUser returns nil when nobody is logged in.
	CurrentUser(ctx context.Context) (*model.User, error)
}

type GenerateRequest struct {
	UserID          string                 `json:"userId"`
	Work            model.YesNo            `json:"work"`
	School          model.YesNo            `json:"school"`
	StartTime       string                 `json:"startTime"`
	SleepTime       string                 `json:"sleepTime"`
	HoursPerDay     int                    `json:"hoursPerDay"`
	Commitments     string                 `json:"commitments"`
	RecurringEvents []model.RecurringEvent `json:"recurringEvents"`
}

func NewGenerateRequest(userID string, a model.OnboardingAnswers) GenerateRequest {
	events := append([]model.RecurringEvent{}, a.RecurringEvents...)
	return GenerateRequest{
		UserID:          userID,
		Work:            a.Work,
		School:          a.School,
		StartTime:       a.StartTime,
		SleepTime:       a.SleepTime,
		HoursPerDay:     a.HoursPerDay,
		Commitments:     a.Commitments,
		RecurringEvents: events,
	}
}

type Generator interface {
	GenerateSchedule(ctx context.Context, req GenerateRequest) (string, error)
}

type ManualTaskRequest struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Time   string `json:"time"`
}

type AugmentationSaver interface {
	SaveManualTask(ctx context.Context, req ManualTaskRequest) error
}

type FeedbackRequest struct {
	Schedule string  `json:"schedule"`
	Feedback string  `json:"feedback"`
	Date     string  `json:"date"`
	UserID   *string `json:"userId"`
}

type FeedbackSaver interface {
	SaveFeedback(ctx context.Context, req FeedbackRequest) error
}

// Deps are the collaborators used by the async planner operations. They are
// only touched from command goroutines, never from the event loop.
type Deps struct {
	Identity      Identity
	Generator     Generator
	Augmentations AugmentationSaver
	Feedback      FeedbackSaver
	Logger        *zap.Logger
}

func (d Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

func (d Deps) currentUser(ctx context.Context) (*model.User, error) {
	if d.Identity == nil {
		return nil, nil
	}
	return d.Identity.CurrentUser(ctx)
}
