package progress

import (
	"testing"

	"github.com/ytget/yt-webdl/internal/model"
)

func newJob() *model.Job {
	return &model.Job{ID: "job-1", Status: model.StatusStarting}
}

func TestApply_DownloadingKnownTotal(t *testing.T) {
	job := newJob()

	Apply(job, Event{Status: EventDownloading, DownloadedBytes: 50, TotalBytes: 100})

	if job.Status != model.StatusDownloading {
		t.Errorf("status = %s, expected downloading", job.Status)
	}
	if job.Progress == nil || *job.Progress != 50 {
		t.Errorf("progress = %v, expected 50", job.Progress)
	}
}

func TestApply_DownloadingRoundsToTwoDecimals(t *testing.T) {
	job := newJob()

	Apply(job, Event{Status: EventDownloading, DownloadedBytes: 1, TotalBytes: 3})

	if job.Progress == nil || *job.Progress != 33.33 {
		t.Errorf("progress = %v, expected 33.33", job.Progress)
	}
}

func TestApply_UnknownTotalYieldsNil(t *testing.T) {
	job := newJob()

	Apply(job, Event{Status: EventDownloading, DownloadedBytes: 1024})

	if job.Progress != nil {
		t.Errorf("progress = %v, expected nil for unknown total", *job.Progress)
	}
	if job.Status != model.StatusDownloading {
		t.Errorf("status = %s, expected downloading", job.Status)
	}
}

func TestApply_ProgressNeverExceedsHundred(t *testing.T) {
	job := newJob()

	Apply(job, Event{Status: EventDownloading, DownloadedBytes: 150, TotalBytes: 100})

	if job.Progress == nil || *job.Progress != 100 {
		t.Errorf("progress = %v, expected capped at 100", job.Progress)
	}
}

func TestApply_FinishedWithoutItemScope(t *testing.T) {
	job := newJob()

	Apply(job, Event{Status: EventFinished})

	if job.Status != model.StatusProcessing {
		t.Errorf("status = %s, expected processing", job.Status)
	}
	if job.Progress == nil || *job.Progress != 100 {
		t.Errorf("progress = %v, expected 100", job.Progress)
	}
}

func TestApply_ItemScopedEvents(t *testing.T) {
	job := newJob()

	Apply(job, Event{
		Status:          EventDownloading,
		DownloadedBytes: 25,
		TotalBytes:      100,
		PlaylistIndex:   2,
		Title:           "Second Entry",
		Filename:        "/tmp/job/second.mp4",
	})

	item, ok := job.Items[2]
	if !ok {
		t.Fatal("expected item 2 to be created")
	}
	if item.Title != "Second Entry" {
		t.Errorf("item title = %q", item.Title)
	}
	if item.Filename != "second.mp4" {
		t.Errorf("item filename = %q, expected base name", item.Filename)
	}
	if item.Status != model.ItemStatusDownloading {
		t.Errorf("item status = %s", item.Status)
	}
	if item.Progress == nil || *item.Progress != 25 {
		t.Errorf("item progress = %v, expected 25", item.Progress)
	}

	// Byte counters of the active item mirror into the job level
	if job.Progress == nil || *job.Progress != 25 {
		t.Errorf("job progress = %v, expected 25", job.Progress)
	}
}

func TestApply_ItemFinishedLeavesJobProgressAlone(t *testing.T) {
	job := newJob()
	Apply(job, Event{Status: EventDownloading, DownloadedBytes: 30, TotalBytes: 100, PlaylistIndex: 1})

	Apply(job, Event{Status: EventFinished, PlaylistIndex: 1})

	item := job.Items[1]
	if item.Progress == nil || *item.Progress != 100 {
		t.Errorf("item progress = %v, expected 100", item.Progress)
	}
	if item.Status != model.ItemStatusProcessing {
		t.Errorf("item status = %s, expected processing", item.Status)
	}
	if job.Status != model.StatusDownloading {
		t.Errorf("job status = %s, one finished item must not finish the job", job.Status)
	}
	if job.Progress == nil || *job.Progress != 30 {
		t.Errorf("job progress = %v, expected untouched 30", job.Progress)
	}
}

func TestApply_ItemTitleIsSticky(t *testing.T) {
	job := newJob()
	Apply(job, Event{Status: EventDownloading, PlaylistIndex: 1, Title: "Original"})
	Apply(job, Event{Status: EventDownloading, PlaylistIndex: 1, Title: "Renamed"})

	if job.Items[1].Title != "Original" {
		t.Errorf("item title = %q, expected first title to stick", job.Items[1].Title)
	}
}

func TestApply_PostProcessing(t *testing.T) {
	job := newJob()

	Apply(job, Event{Status: EventPostProcessing, PlaylistIndex: 1})

	if job.Status != model.StatusProcessing {
		t.Errorf("status = %s, expected processing", job.Status)
	}
	if job.Items[1].Status != model.ItemStatusProcessing {
		t.Errorf("item status = %s, expected processing", job.Items[1].Status)
	}
}

func TestApply_TerminalJobDropsEvents(t *testing.T) {
	for _, terminal := range []model.JobStatus{model.StatusCompleted, model.StatusError} {
		p := 100.0
		job := &model.Job{ID: "job-1", Status: terminal, Progress: &p}

		Apply(job, Event{Status: EventDownloading, DownloadedBytes: 1, TotalBytes: 2})

		if job.Status != terminal {
			t.Errorf("terminal status %s changed to %s", terminal, job.Status)
		}
		if *job.Progress != 100 {
			t.Errorf("terminal progress mutated to %v", *job.Progress)
		}
		if len(job.Items) != 0 {
			t.Error("terminal job grew items")
		}
	}
}

func TestApply_TelemetryFields(t *testing.T) {
	job := newJob()

	Apply(job, Event{Status: EventDownloading, DownloadedBytes: 10, TotalBytes: 100, ETASec: 42, Speed: "1.5MB/s"})

	if job.ETASec != 42 {
		t.Errorf("eta = %d, expected 42", job.ETASec)
	}
	if job.Speed != "1.5MB/s" {
		t.Errorf("speed = %q", job.Speed)
	}
}
