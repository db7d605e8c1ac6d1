package scheduler

import (
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/sched/internal/model"
)

func TaskKey(id string) string {
	return "task:" + id
}

func AugmentationKey(i int) string {
	return "aug:" + strconv.Itoa(i)
}

// At returns the wall-clock instant of tod on the calendar day of day.
func At(day time.Time, tod model.TimeOfDay) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, tod.Hour, tod.Minute, 0, 0, day.Location())
}

// TaskAlarm builds the start alarm for an open task with a start time later
// than now. Done tasks and tasks without a start time get none.
func TaskAlarm(t model.Task, now time.Time) (Alarm, bool) {
	if t.Done || t.StartTime == nil {
		return Alarm{}, false
	}
	at := At(now, *t.StartTime)
	if !at.After(now) {
		return Alarm{}, false
	}
	return Alarm{Key: TaskKey(t.ID), Kind: KindTask, Label: t.Text, At: at}, true
}

// AugmentationAlarms builds alarms for augmentations whose time is a
// parseable clock time later than now. Free-form times are skipped.
func AugmentationAlarms(augs []model.Augmentation, now time.Time) []Alarm {
	out := make([]Alarm, 0, len(augs))
	for i, a := range augs {
		tod, err := model.ParseTimeOfDay(strings.TrimSpace(a.Time))
		if err != nil {
			continue
		}
		at := At(now, tod)
		if !at.After(now) {
			continue
		}
		out = append(out, Alarm{Key: AugmentationKey(i), Kind: KindAugmentation, Label: a.Name, At: at})
	}
	return out
}
