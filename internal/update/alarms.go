package update

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/sched/internal/model"
	"github.com/sandeepkv93/sched/internal/scheduler"
	"go.uber.org/zap"
)

func (m *Model) scheduleTaskAlarm(t model.Task) {
	if m.alarms == nil {
		return
	}
	a, ok := scheduler.TaskAlarm(t, m.now())
	if !ok {
		m.alarms.Cancel(scheduler.TaskKey(t.ID))
		return
	}
	if err := m.alarms.Schedule(a); err != nil {
		m.log.Warn("schedule alarm", zap.String("key", a.Key), zap.Error(err))
	}
}

func (m *Model) cancelTaskAlarm(id string) {
	if m.alarms == nil {
		return
	}
	m.alarms.Cancel(scheduler.TaskKey(id))
}

// syncAugmentationAlarms rebuilds augmentation alarms. Their keys are
// positional, so every change re-plans the whole set.
func (m *Model) syncAugmentationAlarms() {
	if m.alarms == nil {
		return
	}
	m.alarms.CancelKind(scheduler.KindAugmentation)
	for _, a := range scheduler.AugmentationAlarms(m.Planner.Augmentations(), m.now()) {
		if err := m.alarms.Schedule(a); err != nil {
			m.log.Warn("schedule alarm", zap.String("key", a.Key), zap.Error(err))
		}
	}
}

func (m *Model) applyAlarm(a scheduler.Alarm) {
	if a.Kind == scheduler.KindTask {
		t, ok := m.Tasks.Get(strings.TrimPrefix(a.Key, scheduler.TaskKey("")))
		if !ok || t.Done {
			return
		}
	}
	text := fmt.Sprintf("starting now: %s (%s)", a.Label, a.At.Format("15:04"))
	m.Status = StatusBar{Text: text}
	m.notify("Reminder", text, "info")
}
