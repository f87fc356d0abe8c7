package handlers

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/clipforge/video-highlights/internal/jobs"
	"github.com/clipforge/video-highlights/internal/pipeline"
)

// JobHandler exposes the job API: submit, poll, download.
type JobHandler struct {
	registry     *jobs.Registry
	orchestrator *pipeline.Orchestrator
	workRoot     string
}

// NewJobHandler creates a job handler rooted at workRoot for scratch dirs.
func NewJobHandler(registry *jobs.Registry, orchestrator *pipeline.Orchestrator, workRoot string) *JobHandler {
	return &JobHandler{
		registry:     registry,
		orchestrator: orchestrator,
		workRoot:     workRoot,
	}
}

// SubmitRequest is the POST /jobs body.
type SubmitRequest struct {
	URL           string `json:"url"`
	Goal          string `json:"goal"`
	Length        string `json:"length"`
	SubtitleStyle string `json:"subtitleStyle"`
	BurnIn        bool   `json:"burnIn"`
	Language      string `json:"language"`
}

// Submit validates the reference URL, registers a job, and starts the
// pipeline in the background. Responds 202 with the job id.
func (h *JobHandler) Submit(c *fiber.Ctx) error {
	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if !validReference(req.URL) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A valid http(s) video URL is required",
		})
	}

	job := h.registry.Create(h.workRoot)
	h.orchestrator.Launch(job, pipeline.Request{
		URL:           req.URL,
		Goal:          req.Goal,
		Length:        req.Length,
		SubtitleStyle: req.SubtitleStyle,
		BurnIn:        req.BurnIn,
		Language:      req.Language,
	})

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"jobId": job.ID,
	})
}

// Status reports the current state of one job.
func (h *JobHandler) Status(c *fiber.Ctx) error {
	job, ok := h.registry.Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job not found",
		})
	}
	return c.JSON(statusBody(job))
}

// Download streams the packaged archive once the job is done.
func (h *JobHandler) Download(c *fiber.Ctx) error {
	job, ok := h.registry.Get(c.Params("id"))
	if !ok || !job.DownloadReady() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No archive available for this job",
		})
	}
	return c.Download(job.OutputArchive, filepath.Base(job.OutputArchive))
}

func statusBody(job jobs.Job) fiber.Map {
	return fiber.Map{
		"id":            job.ID,
		"status":        job.Status,
		"step":          job.Step,
		"message":       job.Message,
		"progress":      job.Progress,
		"downloadReady": job.DownloadReady(),
	}
}

// validReference accepts absolute http(s) URLs with a host. Everything
// else is rejected synchronously and never enters the pipeline.
func validReference(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
