package update

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/sched/internal/model"
	"go.uber.org/zap"
)

// openOnboardingForm resets the questionnaire, prefilled from any answers
// kept by the gate.
func (m *Model) openOnboardingForm() {
	m.ob = onboardingForm{Field: obFieldWork}
	m.obStart.SetValue("")
	m.obSleep.SetValue("")
	m.obHours.SetValue("")
	m.obCommitments.SetValue("")
	m.obRecurring.SetValue("")
	if a, ok := m.Gate.Answers(); ok {
		m.ob.Work = a.Work
		m.ob.School = a.School
		m.obStart.SetValue(a.StartTime)
		m.obSleep.SetValue(a.SleepTime)
		if a.HoursPerDay > 0 {
			m.obHours.SetValue(strconv.Itoa(a.HoursPerDay))
		}
		m.obCommitments.SetValue(a.Commitments)
		m.obRecurring.SetValue(model.FormatRecurringEvents(a.RecurringEvents))
	}
	m.focusOnboardingField(obFieldWork)
}

func (m *Model) onboardingInput(field int) *textinput.Model {
	switch field {
	case obFieldStart:
		return &m.obStart
	case obFieldSleep:
		return &m.obSleep
	case obFieldHours:
		return &m.obHours
	case obFieldCommitments:
		return &m.obCommitments
	case obFieldRecurring:
		return &m.obRecurring
	}
	return nil
}

func (m *Model) focusOnboardingField(field int) {
	if in := m.onboardingInput(m.ob.Field); in != nil {
		in.Blur()
	}
	m.ob.Field = (field + obFieldCount) % obFieldCount
	if in := m.onboardingInput(m.ob.Field); in != nil {
		in.Focus()
	}
}

func (m Model) handleOnboardingKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Gate.Dismiss()
		if in := m.onboardingInput(m.ob.Field); in != nil {
			in.Blur()
		}
		m.Status = StatusBar{Text: "questionnaire closed; it will open again next time"}
		return m, nil
	case "tab", "down":
		m.focusOnboardingField(m.ob.Field + 1)
		return m, nil
	case "shift+tab", "up":
		m.focusOnboardingField(m.ob.Field - 1)
		return m, nil
	case "enter":
		m.submitOnboarding()
		return m, nil
	}

	switch m.ob.Field {
	case obFieldWork, obFieldSchool:
		target := &m.ob.Work
		if m.ob.Field == obFieldSchool {
			target = &m.ob.School
		}
		switch strings.ToLower(msg.String()) {
		case " ", "left", "right":
			*target = target.Toggle()
		case "y":
			*target = model.Yes
		case "n":
			*target = model.No
		}
		return m, nil
	}

	in := m.onboardingInput(m.ob.Field)
	if in == nil {
		return m, nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return m, cmd
}

func (m *Model) onboardingAnswers() (model.OnboardingAnswers, error) {
	hours := 0
	if raw := strings.TrimSpace(m.obHours.Value()); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return model.OnboardingAnswers{}, errors.New("hours per day must be a number")
		}
		hours = n
	}
	events, err := model.ParseRecurringEvents(m.obRecurring.Value())
	if err != nil {
		return model.OnboardingAnswers{}, err
	}
	return model.OnboardingAnswers{
		Work:            m.ob.Work,
		School:          m.ob.School,
		StartTime:       strings.TrimSpace(m.obStart.Value()),
		SleepTime:       strings.TrimSpace(m.obSleep.Value()),
		HoursPerDay:     hours,
		Commitments:     strings.TrimSpace(m.obCommitments.Value()),
		RecurringEvents: events,
	}, nil
}

// submitOnboarding completes the gate. Invalid answers and a failed flag
// write keep the modal open with the error shown.
func (m *Model) submitOnboarding() {
	answers, err := m.onboardingAnswers()
	if err != nil {
		m.ob.Err = err.Error()
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	if err := m.Gate.Submit(ctx, answers); err != nil {
		if !errors.Is(err, model.ErrMissingAnswer) && !errors.Is(err, model.ErrInvalidAnswer) && !errors.Is(err, model.ErrHoursOutOfRange) {
			m.log.Warn("complete onboarding", zap.Error(err))
		}
		m.ob.Err = err.Error()
		return
	}
	if in := m.onboardingInput(m.ob.Field); in != nil {
		in.Blur()
	}
	m.ob.Err = ""
	m.Status = StatusBar{Text: "planner unlocked; press g to generate a schedule"}
}
