package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/sandeepkv93/sched/internal/model"
)

func TestEngineEmitsInTriggerOrder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.Schedule(Alarm{Key: "later", At: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule later: %v", err)
	}
	if err := engine.Schedule(Alarm{Key: "sooner", At: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule sooner: %v", err)
	}

	first := waitAlarm(t, engine.C(), time.Second)
	second := waitAlarm(t, engine.C(), time.Second)
	if first.Key != "sooner" || second.Key != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.Key, second.Key)
	}
	if engine.Pending() != 0 {
		t.Fatalf("expected empty queue, got %d", engine.Pending())
	}
}

func TestScheduleSameKeyReplaces(t *testing.T) {
	engine := NewEngine(4)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	_ = engine.Schedule(Alarm{Key: "task:1", Label: "old", At: now.Add(time.Hour)})
	_ = engine.Schedule(Alarm{Key: "task:1", Label: "new", At: now.Add(20 * time.Millisecond)})
	if engine.Pending() != 1 {
		t.Fatalf("expected one pending alarm, got %d", engine.Pending())
	}
	got := waitAlarm(t, engine.C(), time.Second)
	if got.Label != "new" {
		t.Fatalf("expected replaced alarm, got %+v", got)
	}
}

func TestCancelPreventsDelivery(t *testing.T) {
	engine := NewEngine(4)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	_ = engine.Schedule(Alarm{Key: "gone", At: now.Add(30 * time.Millisecond)})
	_ = engine.Schedule(Alarm{Key: "kept", At: now.Add(60 * time.Millisecond)})
	if !engine.Cancel("gone") || engine.Cancel("gone") {
		t.Fatal("expected cancel to succeed exactly once")
	}
	got := waitAlarm(t, engine.C(), time.Second)
	if got.Key != "kept" {
		t.Fatalf("expected only kept alarm, got %s", got.Key)
	}
}

func TestCancelKind(t *testing.T) {
	engine := NewEngine(4)
	at := time.Now().Add(time.Hour)
	_ = engine.Schedule(Alarm{Key: "aug:0", Kind: KindAugmentation, At: at})
	_ = engine.Schedule(Alarm{Key: "aug:1", Kind: KindAugmentation, At: at})
	_ = engine.Schedule(Alarm{Key: "task:a", Kind: KindTask, At: at})
	if n := engine.CancelKind(KindAugmentation); n != 2 {
		t.Fatalf("expected 2 cancelled, got %d", n)
	}
	if engine.Pending() != 1 {
		t.Fatalf("expected task alarm to remain, got %d", engine.Pending())
	}
}

func TestEngineNonBlockingDropsWhenConsumerIsSlow(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	at := time.Now().Add(20 * time.Millisecond)
	for i := 0; i < 25; i++ {
		if err := engine.Schedule(Alarm{Key: string(rune('a' + i)), At: at}); err != nil {
			t.Fatalf("schedule alarm: %v", err)
		}
	}

	time.Sleep(120 * time.Millisecond)
	if engine.Dropped() == 0 {
		t.Fatalf("expected dropped alarms > 0, got %d", engine.Dropped())
	}
}

func TestScheduleValidates(t *testing.T) {
	engine := NewEngine(1)
	if err := engine.Schedule(Alarm{Key: "bad"}); !errors.Is(err, ErrInvalidTriggerTime) {
		t.Fatalf("expected ErrInvalidTriggerTime, got %v", err)
	}
	if err := engine.Schedule(Alarm{At: time.Now()}); !errors.Is(err, ErrMissingKey) {
		t.Fatalf("expected ErrMissingKey, got %v", err)
	}
	engine.Stop()
	if err := engine.Schedule(Alarm{Key: "late", At: time.Now()}); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func TestTaskAlarm(t *testing.T) {
	now := time.Date(2026, 4, 2, 10, 0, 0, 0, time.Local)
	later := model.TimeOfDay{Hour: 14, Minute: 30}
	earlier := model.TimeOfDay{Hour: 9, Minute: 0}

	a, ok := TaskAlarm(model.Task{ID: "x", Text: "Call", StartTime: &later}, now)
	if !ok || a.Key != "task:x" || a.At.Hour() != 14 || a.At.Minute() != 30 || a.At.Day() != 2 {
		t.Fatalf("unexpected alarm: %+v %v", a, ok)
	}
	if _, ok := TaskAlarm(model.Task{ID: "y", StartTime: &earlier}, now); ok {
		t.Fatal("expected no alarm for past start time")
	}
	if _, ok := TaskAlarm(model.Task{ID: "z", StartTime: &later, Done: true}, now); ok {
		t.Fatal("expected no alarm for done task")
	}
	if _, ok := TaskAlarm(model.Task{ID: "w"}, now); ok {
		t.Fatal("expected no alarm without start time")
	}
}

func TestAugmentationAlarmsSkipFreeFormTimes(t *testing.T) {
	now := time.Date(2026, 4, 2, 10, 0, 0, 0, time.Local)
	got := AugmentationAlarms([]model.Augmentation{
		{Name: "Gym", Time: "18:00"},
		{Name: "Read", Time: "after dinner"},
		{Name: "Breakfast", Time: "08:00"},
		{Name: "Call", Time: " 9:45 "},
	}, now)
	if len(got) != 1 || got[0].Label != "Gym" || got[0].Key != "aug:0" {
		t.Fatalf("unexpected alarms: %+v", got)
	}
}

func waitAlarm(t *testing.T, ch <-chan Alarm, timeout time.Duration) Alarm {
	t.Helper()
	select {
	case a := <-ch:
		return a
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for alarm")
		return Alarm{}
	}
}
