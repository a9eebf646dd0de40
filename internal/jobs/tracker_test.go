package jobs

import (
	"errors"
	"testing"

	"biolens/internal/rag"
)

func TestTrackerLifecycle(t *testing.T) {
	tracker := NewTracker()

	job := tracker.Create("biology.pdf")
	if job.ID == "" {
		t.Fatal("Create should assign an id")
	}
	if job.Status != StatusQueued {
		t.Errorf("new job status = %v, want queued", job.Status)
	}
	if job.Source != "biology.pdf" {
		t.Errorf("job source = %q", job.Source)
	}

	tracker.Start(job.ID)
	got, ok := tracker.Get(job.ID)
	if !ok {
		t.Fatal("job disappeared after Start")
	}
	if got.Status != StatusRunning {
		t.Errorf("status = %v, want running", got.Status)
	}

	result := rag.IngestResult{ChunksCreated: 42, TypeCounts: map[string]int{"concept": 42}}
	tracker.Complete(job.ID, result)
	got, _ = tracker.Get(job.ID)
	if got.Status != StatusDone {
		t.Errorf("status = %v, want done", got.Status)
	}
	if got.Result == nil || got.Result.ChunksCreated != 42 {
		t.Errorf("result = %+v", got.Result)
	}
}

func TestTrackerFail(t *testing.T) {
	tracker := NewTracker()
	job := tracker.Create("broken.pdf")

	tracker.Start(job.ID)
	tracker.Fail(job.ID, errors.New("extraction failed"))

	got, ok := tracker.Get(job.ID)
	if !ok {
		t.Fatal("job missing")
	}
	if got.Status != StatusFailed {
		t.Errorf("status = %v, want failed", got.Status)
	}
	if got.Error == "" {
		t.Error("failed job should carry the error message")
	}
	if got.Result != nil {
		t.Errorf("failed job should have no result, got %+v", got.Result)
	}
}

func TestTrackerGetUnknown(t *testing.T) {
	tracker := NewTracker()
	if _, ok := tracker.Get("nope"); ok {
		t.Error("unknown id should not resolve")
	}
}

func TestTrackerGetReturnsSnapshot(t *testing.T) {
	tracker := NewTracker()
	job := tracker.Create("book.pdf")

	got, _ := tracker.Get(job.ID)
	got.Status = StatusFailed

	again, _ := tracker.Get(job.ID)
	if again.Status != StatusQueued {
		t.Errorf("mutating a snapshot leaked into the tracker: %v", again.Status)
	}
}
