package model

import (
	"sort"
	"time"
)

// Kind selects the requested output family
type Kind string

const (
	// KindMedia requests an audio-only deliverable
	KindMedia Kind = "media"

	// KindMediaVideo requests a video deliverable
	KindMediaVideo Kind = "media+video"
)

// Valid reports whether the kind is one of the accepted request kinds
func (k Kind) Valid() bool {
	return k == KindMedia || k == KindMediaVideo
}

// Source describes what a job was asked to fetch. Immutable after creation.
type Source struct {
	URL        string `json:"url"`
	Kind       Kind   `json:"kind"`
	Resolution string `json:"resolution,omitempty"` // optional height ceiling, e.g. "720p"
}

// Item tracks one entry of a collection-type source, keyed by its
// playlist index in the parent job.
type Item struct {
	Title    string     `json:"title"`
	Progress *float64   `json:"progress"` // percent, nil when total size unknown
	Status   ItemStatus `json:"status"`
	Filename string     `json:"filename,omitempty"`
}

// Output describes the final deliverable. Present only on completed jobs.
type Output struct {
	Filename   string   `json:"filename"`
	PublishURL string   `json:"publish_url"`
	QRImage    string   `json:"qr_image,omitempty"` // PNG data URL
	IsArchive  bool     `json:"is_archive"`
	Files      []string `json:"files,omitempty"` // members when IsArchive
}

// Job is the record of one submitted request for its whole life
type Job struct {
	ID        string        `json:"id"`
	Source    Source        `json:"source"`
	Selection []int         `json:"selection,omitempty"`
	Status    JobStatus     `json:"status"`
	Progress  *float64      `json:"progress"` // percent, nil when unknown
	Items     map[int]*Item `json:"items,omitempty"`
	Error     string        `json:"error,omitempty"`
	Output    *Output       `json:"output,omitempty"`

	// Runtime telemetry from the most recent engine event
	ETASec int    `json:"eta_sec,omitempty"`
	Speed  string `json:"speed,omitempty"`

	CreatedAt   time.Time `json:"created_at"`
	CompletedAt time.Time `json:"completed_at,omitzero"`
}

// Advance moves the job status forward. Transitions that would regress or
// leave a terminal state are ignored, which makes repeated or out-of-order
// applications safe.
func (j *Job) Advance(s JobStatus) {
	if j.Status.IsTerminal() {
		return
	}
	if s.Rank() <= j.Status.Rank() && s != j.Status {
		return
	}
	j.Status = s
}

// Item returns the sub-record for the given index, creating it on first use
func (j *Job) Item(index int) *Item {
	if j.Items == nil {
		j.Items = make(map[int]*Item)
	}
	item, ok := j.Items[index]
	if !ok {
		item = &Item{Status: ItemStatusQueued}
		j.Items[index] = item
	}
	return item
}

// ItemIndices returns the observed item indices in ascending order
func (j *Job) ItemIndices() []int {
	indices := make([]int, 0, len(j.Items))
	for idx := range j.Items {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices
}

// MultiItem reports whether the job has expanded to a collection source
func (j *Job) MultiItem() bool {
	return len(j.Items) >= 2 || len(j.Selection) >= 2
}

// Clone returns a deep copy of the record so pollers never observe a job
// mid-mutation.
func (j *Job) Clone() *Job {
	c := *j
	if j.Selection != nil {
		c.Selection = append([]int(nil), j.Selection...)
	}
	if j.Progress != nil {
		p := *j.Progress
		c.Progress = &p
	}
	if j.Items != nil {
		c.Items = make(map[int]*Item, len(j.Items))
		for idx, item := range j.Items {
			ic := *item
			if item.Progress != nil {
				p := *item.Progress
				ic.Progress = &p
			}
			c.Items[idx] = &ic
		}
	}
	if j.Output != nil {
		oc := *j.Output
		if j.Output.Files != nil {
			oc.Files = append([]string(nil), j.Output.Files...)
		}
		c.Output = &oc
	}
	return &c
}
