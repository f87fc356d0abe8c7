package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"unicode"

	"github.com/clipforge/video-highlights/internal/archive"
	"github.com/clipforge/video-highlights/internal/captions"
	"github.com/clipforge/video-highlights/internal/highlights"
	"github.com/clipforge/video-highlights/internal/jobs"
	"github.com/clipforge/video-highlights/internal/media"
	"github.com/clipforge/video-highlights/internal/source"
	"github.com/clipforge/video-highlights/internal/transcription"
	"github.com/clipforge/video-highlights/internal/types"
)

// ContentProvider retrieves source media and its metadata.
type ContentProvider interface {
	Metadata(ctx context.Context, url string) (types.MediaInfo, error)
	Download(ctx context.Context, url, destPath string) error
}

// TranscriptProvider fetches platform captions for a reference.
type TranscriptProvider interface {
	Transcript(ctx context.Context, url, language string) ([]types.TranscriptSegment, error)
}

// SpeechToText is the fallback transcription capability.
type SpeechToText interface {
	Configured() bool
	Transcribe(ctx context.Context, audioPath, language string) ([]types.TranscriptSegment, error)
}

// Engine is the transcoding capability: probe dimensions, extract audio,
// render a prepared clip spec.
type Engine interface {
	Probe(ctx context.Context, input string) (width, height int, err error)
	ExtractAudio(ctx context.Context, input, output string) error
	Render(ctx context.Context, spec media.RenderSpec) error
}

// Uploader optionally publishes the finished archive to remote storage.
type Uploader interface {
	UploadArchive(archivePath string) (string, error)
}

var (
	_ ContentProvider    = (*source.Downloader)(nil)
	_ TranscriptProvider = (*source.Downloader)(nil)
	_ SpeechToText       = (*transcription.Client)(nil)
	_ Engine             = (*media.Engine)(nil)
)

// Request carries the validated submission parameters for one job.
type Request struct {
	URL           string
	Goal          string
	Length        string
	SubtitleStyle string
	BurnIn        bool
	Language      string
}

// Fixed number of clips per job.
const clipCount = 3

// Orchestrator drives one job end-to-end: retrieval, transcript with
// speech-to-text fallback, highlight selection, per-clip rendering, and
// packaging. It is the only writer of a job after submission.
type Orchestrator struct {
	registry    *jobs.Registry
	content     ContentProvider
	transcripts TranscriptProvider
	stt         SpeechToText
	engine      Engine
	uploader    Uploader // nil when Drive upload is not configured
	sem         chan struct{}
}

// New creates an orchestrator. maxConcurrent <= 0 means unbounded: every
// submission runs immediately.
func New(registry *jobs.Registry, content ContentProvider, transcripts TranscriptProvider,
	stt SpeechToText, engine Engine, uploader Uploader, maxConcurrent int) *Orchestrator {
	o := &Orchestrator{
		registry:    registry,
		content:     content,
		transcripts: transcripts,
		stt:         stt,
		engine:      engine,
		uploader:    uploader,
	}
	if maxConcurrent > 0 {
		o.sem = make(chan struct{}, maxConcurrent)
	}
	return o
}

// Launch runs the job in the background and returns immediately.
func (o *Orchestrator) Launch(job jobs.Job, req Request) {
	go func() {
		if o.sem != nil {
			o.sem <- struct{}{}
			defer func() { <-o.sem }()
		}
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC processing job %s: %v\n%s", job.ID, r, string(debug.Stack()))
				o.registry.Fail(job.ID, "internal error while processing the job")
			}
		}()
		o.run(job, req)
	}()
}

func (o *Orchestrator) run(job jobs.Job, req Request) {
	ctx := context.Background()
	id := job.ID

	if err := os.MkdirAll(job.WorkDir, 0755); err != nil {
		o.registry.Fail(id, "could not create the job work directory")
		return
	}

	// Stage 0: retrieval.
	o.registry.Advance(id, types.StepRetrieval, 0.05, "retrieving source media")
	info, err := o.content.Metadata(ctx, req.URL)
	if err != nil {
		o.registry.Fail(id, retrievalHint(err))
		return
	}
	sourcePath := filepath.Join(job.WorkDir, "source.mp4")
	if err := o.content.Download(ctx, req.URL, sourcePath); err != nil {
		o.registry.Fail(id, retrievalHint(err))
		return
	}

	// Stage 1: transcript, speech-to-text as fallback.
	o.registry.Advance(id, types.StepTranscript, 0.25, "fetching transcript")
	segments, err := o.acquireTranscript(ctx, id, req, sourcePath)
	if err != nil {
		o.registry.Fail(id, transcriptHint(err))
		return
	}

	duration := info.Duration
	if duration <= 0 && len(segments) > 0 {
		duration = segments[len(segments)-1].End()
	}

	// Stage 2: highlight selection.
	o.registry.Advance(id, types.StepSelection, 0.45, "selecting highlights")
	windows := highlights.Select(segments, duration, highlights.Params{
		TargetDuration: types.TargetSeconds(req.Length),
		Count:          clipCount,
		Scorer:         highlights.ScorerForGoal(req.Goal),
	})
	windows = dropDegenerate(windows, duration)
	if len(windows) == 0 {
		o.registry.Fail(id, "the video is too short to cut highlight clips from")
		return
	}

	// Stage 3: probe once, geometry once, then render each clip.
	o.registry.Advance(id, types.StepRendering, 0.5, "preparing renderer")
	srcW, srcH, err := o.engine.Probe(ctx, sourcePath)
	if err != nil {
		o.registry.Fail(id, "could not read the source video dimensions")
		return
	}
	filterOps := media.FilterOps(srcW, srcH)
	style := media.StyleByName(req.SubtitleStyle)
	baseName := sanitizeTitle(info.Title)

	var entries []archive.Entry
	for i, win := range windows {
		progress := 0.5 + 0.4*float64(i)/float64(len(windows))
		o.registry.Advance(id, types.StepRendering, progress,
			fmt.Sprintf("rendering clip %d/%d", i+1, len(windows)))

		cues := captions.Window(segments, win.Start, win.End)
		clipBase := fmt.Sprintf("%s_clip%02d", baseName, win.ID)
		srtPath := filepath.Join(job.WorkDir, clipBase+".srt")
		vttPath := filepath.Join(job.WorkDir, clipBase+".vtt")
		if err := os.WriteFile(srtPath, []byte(captions.RenderSRT(cues)), 0644); err != nil {
			o.registry.Fail(id, "could not write caption files")
			return
		}
		if err := os.WriteFile(vttPath, []byte(captions.RenderVTT(cues)), 0644); err != nil {
			o.registry.Fail(id, "could not write caption files")
			return
		}

		spec := media.RenderSpec{
			Input:     sourcePath,
			Start:     win.Start,
			Duration:  win.Duration,
			FilterOps: filterOps,
			Style:     style,
			Output:    filepath.Join(job.WorkDir, clipBase+".mp4"),
		}
		if req.BurnIn {
			spec.CaptionPath = srtPath
		}
		if err := o.engine.Render(ctx, spec); err != nil {
			log.Printf("Job %s: render failed for clip %d: %v", id, win.ID, err)
			o.registry.Fail(id, fmt.Sprintf("rendering clip %d failed", win.ID))
			return
		}

		entries = append(entries,
			archive.Entry{Path: spec.Output, Name: clipBase + ".mp4"},
			archive.Entry{Path: srtPath, Name: clipBase + ".srt"},
			archive.Entry{Path: vttPath, Name: clipBase + ".vtt"},
		)
	}

	// Stage 4: packaging.
	o.registry.Advance(id, types.StepPackaging, 0.92, "packaging clips")
	archivePath := filepath.Join(job.WorkDir, baseName+"_clips.zip")
	if err := archive.WriteZip(archivePath, entries); err != nil {
		log.Printf("Job %s: packaging failed: %v", id, err)
		o.registry.Fail(id, "packaging the clips failed")
		return
	}

	if o.uploader != nil {
		if link, err := o.uploader.UploadArchive(archivePath); err != nil {
			log.Printf("Job %s: Drive upload failed: %v", id, err)
		} else {
			log.Printf("Job %s: archive uploaded: %s", id, link)
		}
	}

	o.registry.Complete(id, archivePath)
	log.Printf("Job %s completed: %d clips in %s", id, len(windows), archivePath)
}

// acquireTranscript prefers the direct transcript provider and falls back
// to speech-to-text only when that yields nothing and a credential exists.
func (o *Orchestrator) acquireTranscript(ctx context.Context, id string, req Request, sourcePath string) ([]types.TranscriptSegment, error) {
	segments, err := o.transcripts.Transcript(ctx, req.URL, req.Language)
	if err == nil && len(segments) > 0 {
		return segments, nil
	}
	if err != nil && !errors.Is(err, source.ErrNoTranscript) {
		log.Printf("Job %s: transcript provider failed: %v", id, err)
	}

	if o.stt == nil || !o.stt.Configured() {
		return nil, source.ErrNoTranscript
	}

	o.registry.Advance(id, types.StepTranscript, 0.3, "transcribing audio")
	audioPath := filepath.Join(filepath.Dir(sourcePath), "audio.m4a")
	if err := o.engine.ExtractAudio(ctx, sourcePath, audioPath); err != nil {
		return nil, fmt.Errorf("extract audio: %w", err)
	}
	segments, err = o.stt.Transcribe(ctx, audioPath, req.Language)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, source.ErrNoTranscript
	}
	return segments, nil
}

// dropDegenerate removes zero-length and out-of-range windows and trims
// windows that overrun the media's end so the declared duration matches
// what actually gets rendered. The selector does not validate durations;
// that responsibility lives here.
func dropDegenerate(windows []types.HighlightWindow, total float64) []types.HighlightWindow {
	var out []types.HighlightWindow
	for _, w := range windows {
		if w.Duration <= 0 || w.Start < 0 {
			continue
		}
		if total > 0 && w.Start >= total {
			continue
		}
		if total > 0 && w.End > total {
			w.End = total
			w.Duration = w.End - w.Start
		}
		out = append(out, w)
	}
	return out
}

func retrievalHint(err error) string {
	if errors.Is(err, source.ErrAccessDenied) {
		return "The source platform blocked the download. Configure a cookies file " +
			"(downloader.cookies_file) so requests are authenticated."
	}
	return "Retrieving the source media failed. Check that the URL points to an accessible video."
}

func transcriptHint(err error) string {
	switch {
	case errors.Is(err, transcription.ErrPayloadTooLarge):
		return err.Error()
	case errors.Is(err, source.ErrNoTranscript):
		return "No transcript is available for this video and no speech-to-text " +
			"credential is configured."
	default:
		return "Transcribing the video failed."
	}
}

// sanitizeTitle reduces a media title to a safe archive/file base name.
func sanitizeTitle(title string) string {
	var b strings.Builder
	prevUnder := false
	for _, r := range strings.TrimSpace(title) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
			prevUnder = false
		default:
			if !prevUnder && b.Len() > 0 {
				b.WriteByte('_')
				prevUnder = true
			}
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		return "clips"
	}
	if runes := []rune(name); len(runes) > 60 {
		name = string(runes[:60])
	}
	return strings.Trim(name, "_")
}
