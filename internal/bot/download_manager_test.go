package bot

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
)

func TestJobTrackerBeginFinish(t *testing.T) {
	tracker := NewJobTracker()

	first := tracker.Begin("aaaaaaaaaaa", 1)
	second := tracker.Begin("aaaaaaaaaaa", 2)
	if first.RequestID == second.RequestID {
		t.Fatalf("request ids are not unique: %s", first.RequestID)
	}
	if tracker.Count() != 2 {
		t.Fatalf("Count = %d, want 2", tracker.Count())
	}

	active := tracker.Active()
	if len(active) != 2 {
		t.Fatalf("len(Active) = %d, want 2", len(active))
	}
	if active[1].StartTime.Before(active[0].StartTime) {
		t.Errorf("Active is not ordered by start time")
	}

	tracker.Finish(first, nil)
	tracker.Finish(second, errors.New("boom"))
	if tracker.Count() != 0 {
		t.Errorf("Count = %d after finish, want 0", tracker.Count())
	}
}

func TestJobTrackerConcurrent(t *testing.T) {
	tracker := NewJobTracker()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(chatID int64) {
			defer wg.Done()
			job := tracker.Begin("bbbbbbbbbbb", chatID)
			_ = tracker.Active()
			tracker.Finish(job, nil)
		}(int64(i))
	}
	wg.Wait()

	if tracker.Count() != 0 {
		t.Errorf("Count = %d, want 0", tracker.Count())
	}
}

func TestGenerateRequestID(t *testing.T) {
	id := GenerateRequestID()
	if len(id) != 16 {
		t.Errorf("len(GenerateRequestID()) = %d, want 16", len(id))
	}
}
