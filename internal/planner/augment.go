package planner

import (
	"context"
	"strings"
	"time"

	"github.com/sandeepkv93/sched/internal/model"
	"go.uber.org/zap"
)

// AddAugmentation appends a manual task to the current schedule. It is a
// no-op for a blank name or when no schedule is held.
func (o *Orchestrator) AddAugmentation(name, at string) (model.Augmentation, bool) {
	aug := model.Augmentation{Name: strings.TrimSpace(name), Time: strings.TrimSpace(at)}
	if !o.has || aug.Validate() != nil {
		return model.Augmentation{}, false
	}
	o.augmentations = append(o.augmentations, aug)
	return aug, true
}

func (o *Orchestrator) RemoveAugmentation(i int) bool {
	if i < 0 || i >= len(o.augmentations) {
		return false
	}
	o.augmentations = append(o.augmentations[:i], o.augmentations[i+1:]...)
	return true
}

func (o *Orchestrator) Augmentations() []model.Augmentation {
	out := make([]model.Augmentation, len(o.augmentations))
	copy(out, o.augmentations)
	return out
}

// SaveAugmentation persists aug on a best-effort basis. The returned error
// is informational; local state is never rolled back.
func SaveAugmentation(ctx context.Context, deps Deps, aug model.Augmentation) error {
	log := deps.logger()
	user, err := deps.currentUser(ctx)
	if err == nil && (user == nil || user.ID == "") {
		err = ErrNotLoggedIn
	}
	if err == nil && deps.Augmentations == nil {
		err = ErrNoSaver
	}
	if err == nil {
		err = deps.Augmentations.SaveManualTask(ctx, ManualTaskRequest{UserID: user.ID, Name: aug.Name, Time: aug.Time})
	}
	if err != nil {
		log.Warn("save manual task", zap.String("name", aug.Name), zap.Error(err))
		return err
	}
	log.Debug("manual task saved", zap.String("name", aug.Name), zap.String("user_id", user.ID))
	return nil
}

func (o *Orchestrator) FeedbackState() FeedbackState {
	return o.feedback
}

func (o *Orchestrator) FeedbackDraft() string {
	return o.feedbackDraft
}

// SetDraft edits the feedback text while the form is open.
func (o *Orchestrator) SetDraft(text string) bool {
	if o.feedback != FeedbackOpen {
		return false
	}
	o.feedbackDraft = text
	return true
}

// SubmitFeedback closes the feedback form for the current schedule and
// returns the record to persist. Empty text, a missing schedule or an
// already submitted form are rejected.
func (o *Orchestrator) SubmitFeedback(now time.Time) (model.FeedbackRecord, bool) {
	body := strings.TrimSpace(o.feedbackDraft)
	if body == "" || !o.has || o.feedback != FeedbackOpen {
		return model.FeedbackRecord{}, false
	}
	rec := model.FeedbackRecord{Schedule: o.schedule, Body: body, SubmittedAt: now}
	o.feedback = FeedbackSubmitted
	o.feedbackDraft = ""
	return rec, true
}

// SaveFeedback sends rec with the current user id, or a null id when nobody
// is logged in. Failures are logged only.
func SaveFeedback(ctx context.Context, deps Deps, rec model.FeedbackRecord) error {
	log := deps.logger()
	req := FeedbackRequest{
		Schedule: rec.Schedule,
		Feedback: rec.Body,
		Date:     formatFeedbackDate(rec.SubmittedAt),
	}
	if rec.UserID != "" {
		id := rec.UserID
		req.UserID = &id
	} else if user, err := deps.currentUser(ctx); err != nil {
		log.Warn("feedback identity lookup", zap.Error(err))
	} else if user != nil && user.ID != "" {
		id := user.ID
		req.UserID = &id
	}

	var err error
	if deps.Feedback == nil {
		err = ErrNoSaver
	} else {
		err = deps.Feedback.SaveFeedback(ctx, req)
	}
	if err != nil {
		log.Warn("save schedule feedback", zap.Error(err))
		return err
	}
	return nil
}

// feedbackDateLayout is ISO 8601 in UTC with millisecond precision.
const feedbackDateLayout = "2006-01-02T15:04:05.000Z07:00"

func formatFeedbackDate(t time.Time) string {
	return t.UTC().Format(feedbackDateLayout)
}
