package handlers

import (
	"log"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/clipforge/video-highlights/internal/jobs"
)

// ProgressHandler pushes job status over a websocket so clients do not
// have to poll. The payload matches GET /jobs/:id.
type ProgressHandler struct {
	registry *jobs.Registry
	interval time.Duration
}

// NewProgressHandler creates a progress streamer over the registry.
func NewProgressHandler(registry *jobs.Registry) *ProgressHandler {
	return &ProgressHandler{registry: registry, interval: time.Second}
}

// Handle streams status updates until the job reaches a terminal state,
// is reaped, or the client disconnects. Only changed states are sent.
func (h *ProgressHandler) Handle(c *websocket.Conn) {
	defer c.Close()

	jobID := c.Params("id")
	var last jobs.Job
	sentAny := false

	for {
		job, ok := h.registry.Get(jobID)
		if !ok {
			c.WriteJSON(map[string]string{"error": "Job not found"})
			return
		}

		if !sentAny || job.Status != last.Status || job.Step != last.Step ||
			job.Progress != last.Progress || job.Message != last.Message {
			if err := c.WriteJSON(statusBody(job)); err != nil {
				log.Printf("WebSocket write failed for job %s: %v", jobID, err)
				return
			}
			last = job
			sentAny = true
		}

		if job.Terminal() {
			return
		}
		time.Sleep(h.interval)
	}
}
