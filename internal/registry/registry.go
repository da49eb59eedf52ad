package registry

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ytget/yt-webdl/internal/model"
)

// ErrNotFound is returned when a job id is unknown to the registry
var ErrNotFound = errors.New("job not found")

// Registry is the concurrent-safe store of job records. Every read and
// write passes through its mutex, so no caller ever observes a torn
// record. Records live here for the process lifetime; eviction is an
// external concern.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*model.Job
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		jobs: make(map[string]*model.Job),
	}
}

// Create registers a new job in the queued state and returns a snapshot
// of it. It never blocks on I/O and never fails.
func (r *Registry) Create(src model.Source, selection []int) *model.Job {
	job := &model.Job{
		ID:        newJobID(),
		Source:    src,
		Selection: append([]int(nil), selection...),
		Status:    model.StatusQueued,
		Progress:  new(float64),
		CreatedAt: time.Now(),
	}

	r.mu.Lock()
	r.jobs[job.ID] = job
	r.mu.Unlock()

	return job.Clone()
}

// Read returns an immutable snapshot of the job, or ErrNotFound
func (r *Registry) Read(id string) (*model.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return job.Clone(), nil
}

// Mutate applies fn to the record under exclusive access and reports
// whether the job existed. Mutating a missing id is a silent no-op: the
// owning worker may outlive an evicted record and nobody is waiting on
// it after eviction.
func (r *Registry) Mutate(id string, fn func(*model.Job)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return false
	}
	fn(job)
	return true
}

// Len returns the number of records currently held
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}

// newJobID generates a unique job identifier
func newJobID() string {
	return uuid.NewString()
}
