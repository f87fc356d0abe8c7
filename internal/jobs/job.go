package jobs

import (
	"time"

	"github.com/clipforge/video-highlights/internal/types"
)

// Job is the central mutable entity: lifecycle state, progress, and the
// artifacts of one pipeline run. Instances are owned by the registry;
// callers only ever see value snapshots.
type Job struct {
	ID            string
	Status        string
	Step          int
	Progress      float64
	Message       string
	Error         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	WorkDir       string
	OutputArchive string
}

// Terminal reports whether the job reached a final state.
func (j *Job) Terminal() bool {
	return j.Status == types.StatusDone || j.Status == types.StatusError
}

// DownloadReady reports whether the packaged archive can be served.
func (j *Job) DownloadReady() bool {
	return j.Status == types.StatusDone && j.OutputArchive != ""
}
