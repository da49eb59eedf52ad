package registry

import (
	"errors"
	"sync"
	"testing"

	"github.com/ytget/yt-webdl/internal/model"
)

func testSource() model.Source {
	return model.Source{URL: "https://youtube.com/watch?v=test", Kind: model.KindMediaVideo}
}

func TestCreate(t *testing.T) {
	reg := New()

	job := reg.Create(testSource(), []int{2, 1})

	if job.ID == "" {
		t.Fatal("expected a job id")
	}
	if job.Status != model.StatusQueued {
		t.Errorf("new job status = %s, expected queued", job.Status)
	}
	if job.Progress == nil || *job.Progress != 0 {
		t.Error("new job should start at zero progress")
	}
	if job.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if len(job.Selection) != 2 || job.Selection[0] != 2 {
		t.Errorf("selection not preserved: %v", job.Selection)
	}
	if reg.Len() != 1 {
		t.Errorf("expected 1 stored job, got %d", reg.Len())
	}
}

func TestCreate_UniqueIDs(t *testing.T) {
	reg := New()
	seen := make(map[string]bool)

	for i := 0; i < 200; i++ {
		job := reg.Create(testSource(), nil)
		if seen[job.ID] {
			t.Fatalf("duplicate job id: %s", job.ID)
		}
		seen[job.ID] = true
	}
}

func TestRead_NotFound(t *testing.T) {
	reg := New()

	_, err := reg.Read("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRead_ReturnsSnapshot(t *testing.T) {
	reg := New()
	job := reg.Create(testSource(), nil)

	snap, err := reg.Read(job.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Mutating the snapshot must not touch the stored record
	snap.Status = model.StatusError
	snap.Error = "tampered"

	fresh, _ := reg.Read(job.ID)
	if fresh.Status != model.StatusQueued || fresh.Error != "" {
		t.Error("snapshot mutation leaked into the registry")
	}
}

func TestMutate(t *testing.T) {
	reg := New()
	job := reg.Create(testSource(), nil)

	ok := reg.Mutate(job.ID, func(j *model.Job) {
		j.Advance(model.StatusStarting)
	})
	if !ok {
		t.Fatal("expected mutate to find the job")
	}

	snap, _ := reg.Read(job.ID)
	if snap.Status != model.StatusStarting {
		t.Errorf("expected starting, got %s", snap.Status)
	}
}

func TestMutate_MissingIDIsNoOp(t *testing.T) {
	reg := New()

	called := false
	ok := reg.Mutate("missing", func(j *model.Job) {
		called = true
	})
	if ok {
		t.Error("expected mutate to report a missing job")
	}
	if called {
		t.Error("mutation fn must not run for a missing job")
	}
}

func TestMutate_ConcurrentWritersAreSerialized(t *testing.T) {
	reg := New()
	job := reg.Create(testSource(), nil)

	const writers = 50
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			reg.Mutate(job.ID, func(j *model.Job) {
				j.ETASec++
			})
		}()
	}
	wg.Wait()

	snap, _ := reg.Read(job.ID)
	if snap.ETASec != writers {
		t.Errorf("lost updates: counter = %d, expected %d", snap.ETASec, writers)
	}
}
