package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingAnswer   = errors.New("model: onboarding answer is required")
	ErrInvalidAnswer   = errors.New("model: invalid onboarding answer")
	ErrHoursOutOfRange = errors.New("model: hours per day must be between 1 and 24")
)

type YesNo string

const (
	Yes YesNo = "Yes"
	No  YesNo = "No"
)

func (v YesNo) IsValid() bool {
	return v == Yes || v == No
}

// Toggle flips an unanswered or No value to Yes, and Yes to No.
func (v YesNo) Toggle() YesNo {
	if v == Yes {
		return No
	}
	return Yes
}

// OnboardingAnswers is the questionnaire snapshot sent with a generation
// request. HoursPerDay is zero until answered.
type OnboardingAnswers struct {
	Work            YesNo            `json:"work"`
	School          YesNo            `json:"school"`
	StartTime       string           `json:"startTime"`
	SleepTime       string           `json:"sleepTime"`
	HoursPerDay     int              `json:"hoursPerDay"`
	Commitments     string           `json:"commitments"`
	RecurringEvents []RecurringEvent `json:"recurringEvents"`
}

// Validate checks that work, school, start time, sleep time and hours per
// day are all present.
func (a OnboardingAnswers) Validate() error {
	if a.Work == "" {
		return fmt.Errorf("%w: work", ErrMissingAnswer)
	}
	if !a.Work.IsValid() {
		return fmt.Errorf("%w: work %q", ErrInvalidAnswer, a.Work)
	}
	if a.School == "" {
		return fmt.Errorf("%w: school", ErrMissingAnswer)
	}
	if !a.School.IsValid() {
		return fmt.Errorf("%w: school %q", ErrInvalidAnswer, a.School)
	}
	if strings.TrimSpace(a.StartTime) == "" {
		return fmt.Errorf("%w: start time", ErrMissingAnswer)
	}
	if _, err := ParseTimeOfDay(a.StartTime); err != nil {
		return fmt.Errorf("%w: start time: %w", ErrInvalidAnswer, err)
	}
	if strings.TrimSpace(a.SleepTime) == "" {
		return fmt.Errorf("%w: sleep time", ErrMissingAnswer)
	}
	if _, err := ParseTimeOfDay(a.SleepTime); err != nil {
		return fmt.Errorf("%w: sleep time: %w", ErrInvalidAnswer, err)
	}
	if a.HoursPerDay == 0 {
		return fmt.Errorf("%w: hours per day", ErrMissingAnswer)
	}
	if a.HoursPerDay < 1 || a.HoursPerDay > 24 {
		return fmt.Errorf("%w: %d", ErrHoursOutOfRange, a.HoursPerDay)
	}
	for _, ev := range a.RecurringEvents {
		if err := ev.Validate(); err != nil {
			return err
		}
	}
	return nil
}
