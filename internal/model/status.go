package model

// JobStatus represents the lifecycle state of a download job
type JobStatus string

const (
	// StatusQueued means the job was accepted but its worker has not started
	StatusQueued JobStatus = "queued"

	// StatusStarting means the worker is preparing the job directory
	StatusStarting JobStatus = "starting"

	// StatusDownloading means the engine is fetching bytes
	StatusDownloading JobStatus = "downloading"

	// StatusProcessing means the engine finished and post-processing is running
	StatusProcessing JobStatus = "processing"

	// StatusCompleted means the deliverable is ready
	StatusCompleted JobStatus = "completed"

	// StatusError means the job failed with a terminal error
	StatusError JobStatus = "error"
)

// statusRank orders statuses so transitions can only move forward.
var statusRank = map[JobStatus]int{
	StatusQueued:      0,
	StatusStarting:    1,
	StatusDownloading: 2,
	StatusProcessing:  3,
	StatusCompleted:   4,
	StatusError:       4,
}

// String returns the string representation of JobStatus
func (s JobStatus) String() string {
	return string(s)
}

// Rank returns the position of the status in the lifecycle ordering.
// Both terminal states share the highest rank.
func (s JobStatus) Rank() int {
	return statusRank[s]
}

// IsTerminal returns true if no further mutation may occur
func (s JobStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusError
}

// ItemStatus represents the status of a single item within a collection job.
// Items have no terminal state of their own; completion is implied by the
// parent job reaching StatusCompleted.
type ItemStatus string

const (
	ItemStatusQueued      ItemStatus = "queued"
	ItemStatusDownloading ItemStatus = "downloading"
	ItemStatusProcessing  ItemStatus = "processing"
)

var itemStatusRank = map[ItemStatus]int{
	ItemStatusQueued:      0,
	ItemStatusDownloading: 1,
	ItemStatusProcessing:  2,
}

// String returns the string representation of ItemStatus
func (s ItemStatus) String() string {
	return string(s)
}

// Rank returns the position of the item status in its local ordering
func (s ItemStatus) Rank() int {
	return itemStatusRank[s]
}
