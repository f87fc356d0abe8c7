package jobs

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clipforge/video-highlights/internal/types"
)

// Registry holds all live jobs. One orchestrator goroutine writes a given
// job, any number of pollers read it, and the reaper deletes it; a single
// mutex keeps each job's fields consistent as a unit so pollers never see
// a torn status/step/progress combination.
type Registry struct {
	mu   sync.Mutex
	jobs map[string]*Job
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*Job)}
}

// Create registers a new queued job with a scratch directory of its own
// under workRoot and returns a snapshot of it.
func (r *Registry) Create(workRoot string) Job {
	now := time.Now()
	id := uuid.New().String()
	j := &Job{
		ID:        id,
		Status:    types.StatusQueued,
		Message:   "waiting to start",
		CreatedAt: now,
		UpdatedAt: now,
		WorkDir:   filepath.Join(workRoot, id),
	}

	r.mu.Lock()
	r.jobs[j.ID] = j
	r.mu.Unlock()
	return *j
}

// Get returns a snapshot of a job, or false if it is unknown or reaped.
func (r *Registry) Get(id string) (Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

// Advance moves a job to a processing stage. Step and progress are clamped
// monotonic so pollers never observe a regression; writes against a
// terminal job are dropped.
func (r *Registry) Advance(id string, step int, progress float64, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok || j.Terminal() {
		return
	}
	j.Status = types.StatusProcessing
	if step > j.Step {
		j.Step = step
	}
	if progress > j.Progress {
		j.Progress = progress
	}
	j.Message = message
	j.UpdatedAt = time.Now()
}

// Complete marks a job done with its packaged archive.
func (r *Registry) Complete(id, archivePath string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok || j.Terminal() {
		return
	}
	j.Status = types.StatusDone
	j.Progress = 1
	j.Message = "completed"
	j.OutputArchive = archivePath
	j.UpdatedAt = time.Now()
}

// Fail moves a job to the error state from any non-terminal state.
// Progress freezes at its last value; the message becomes the hint.
func (r *Registry) Fail(id, hint string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok || j.Terminal() {
		return
	}
	j.Status = types.StatusError
	j.Error = hint
	j.Message = hint
	j.UpdatedAt = time.Now()
}

// StaleJobs returns snapshots of jobs whose last update is older than ttl.
func (r *Registry) StaleJobs(ttl time.Duration) []Job {
	cutoff := time.Now().Add(-ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Job
	for _, j := range r.jobs {
		if j.UpdatedAt.Before(cutoff) {
			out = append(out, *j)
		}
	}
	return out
}

// Remove deletes a job entry. The caller is responsible for its workDir.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.jobs, id)
	r.mu.Unlock()
}

// Len returns the number of live jobs.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}
