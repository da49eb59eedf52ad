package progress

import (
	"math"
	"path/filepath"

	"github.com/ytget/yt-webdl/internal/model"
)

// EventStatus mirrors the phases the download engine reports
type EventStatus string

const (
	EventDownloading    EventStatus = "downloading"
	EventFinished       EventStatus = "finished"
	EventPostProcessing EventStatus = "postprocessing"
)

// Event is one raw progress report from the engine. PlaylistIndex is
// 1-based when the source expanded to a collection, 0 otherwise.
type Event struct {
	Status          EventStatus
	DownloadedBytes int64
	TotalBytes      int64 // 0 when the engine cannot determine the total
	PlaylistIndex   int
	Title           string
	Filename        string
	ETASec          int
	Speed           string
}

// Apply folds one engine event into the job record. Events for jobs that
// already reached a terminal state are dropped.
func Apply(job *model.Job, ev Event) {
	if job.Status.IsTerminal() {
		return
	}

	var item *model.Item
	if ev.PlaylistIndex > 0 {
		item = job.Item(ev.PlaylistIndex)
		if ev.Title != "" && item.Title == "" {
			item.Title = ev.Title
		}
		if ev.Filename != "" {
			item.Filename = filepath.Base(ev.Filename)
		}
	}

	switch ev.Status {
	case EventDownloading:
		job.Advance(model.StatusDownloading)
		job.Progress = percent(ev.DownloadedBytes, ev.TotalBytes)
		if ev.ETASec > 0 {
			job.ETASec = ev.ETASec
		}
		if ev.Speed != "" {
			job.Speed = ev.Speed
		}
		if item != nil {
			item.Progress = percent(ev.DownloadedBytes, ev.TotalBytes)
			advanceItem(item, model.ItemStatusDownloading)
		}

	case EventFinished:
		if item != nil {
			item.Progress = fullProgress()
			advanceItem(item, model.ItemStatusProcessing)
			return
		}
		job.Progress = fullProgress()
		job.Advance(model.StatusProcessing)

	case EventPostProcessing:
		job.Advance(model.StatusProcessing)
		if item != nil {
			advanceItem(item, model.ItemStatusProcessing)
		}
	}
}

// percent converts byte counters into a percentage rounded to two
// decimals, or nil when the total is unknown. A value is never fabricated.
func percent(downloaded, total int64) *float64 {
	if total <= 0 {
		return nil
	}
	p := float64(downloaded) / float64(total) * 100
	if p > 100 {
		p = 100
	}
	p = math.Round(p*100) / 100
	return &p
}

func fullProgress() *float64 {
	p := 100.0
	return &p
}

// advanceItem moves an item status forward, never backward
func advanceItem(item *model.Item, s model.ItemStatus) {
	if s.Rank() > item.Status.Rank() {
		item.Status = s
	}
}
