package scheduler

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// Augmentation alarms are re-planned as a set on every schedule change while
// task alarms keep firing; the two kinds must not interfere.
func TestEngineConcurrentTaskAndAugmentationChurn(t *testing.T) {
	engine := NewEngine(2048)
	engine.Start()
	defer engine.Stop()

	const planners = 6
	const perPlanner = 150
	tasks := planners * perPlanner

	now := time.Now()
	var wg sync.WaitGroup
	wg.Add(planners)
	for p := 0; p < planners; p++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perPlanner; i++ {
				id := fmt.Sprintf("p%d-t%d", p, i)
				task := Alarm{
					Key:   TaskKey(id),
					Kind:  KindTask,
					Label: "task " + id,
					At:    now.Add(time.Duration(20+(p*7+i)%40) * time.Millisecond),
				}
				aug := Alarm{
					Key:   AugmentationKey(p*perPlanner + i),
					Kind:  KindAugmentation,
					Label: "aug " + id,
					At:    now.Add(time.Hour),
				}
				if err := engine.Schedule(task); err != nil {
					t.Errorf("schedule task: %v", err)
					return
				}
				if err := engine.Schedule(aug); err != nil {
					t.Errorf("schedule augmentation: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if n := engine.CancelKind(KindAugmentation); n != tasks {
		t.Fatalf("expected %d augmentation alarms cancelled, got %d", tasks, n)
	}

	seen := make(map[string]bool, tasks)
	deadline := time.After(5 * time.Second)
	for len(seen) < tasks {
		select {
		case <-deadline:
			t.Fatalf("timeout: fired=%d want=%d dropped=%d", len(seen), tasks, engine.Dropped())
		case a := <-engine.C():
			if a.Kind != KindTask {
				t.Fatalf("cancelled alarm fired: %+v", a)
			}
			if seen[a.Key] {
				t.Fatalf("alarm fired twice: %s", a.Key)
			}
			seen[a.Key] = true
		}
	}
	if engine.Pending() != 0 || engine.Dropped() != 0 {
		t.Fatalf("expected empty queue and no drops, pending=%d dropped=%d", engine.Pending(), engine.Dropped())
	}
}
