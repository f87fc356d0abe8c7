package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
)

// Engine shells out to ffmpeg/ffprobe. It is the concrete transcoding
// capability the render coordinator drives; paths default to whatever is
// on PATH.
type Engine struct {
	ffmpeg  string
	ffprobe string
}

// NewEngine creates an Engine using the given binary paths.
func NewEngine(ffmpegPath, ffprobePath string) *Engine {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Engine{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

// Render executes one clip render from a prepared spec.
func (e *Engine) Render(ctx context.Context, spec RenderSpec) error {
	cmd := exec.CommandContext(ctx, e.ffmpeg, spec.Args()...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg render: %w\n%s", err, string(out))
	}
	return nil
}

// ExtractAudio produces a mono 16kHz AAC track for the speech-to-text
// fallback. Low bitrate keeps typical podcasts under the upload limit.
func (e *Engine) ExtractAudio(ctx context.Context, input, output string) error {
	cmd := exec.CommandContext(ctx, e.ffmpeg,
		"-y",
		"-i", input,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-b:a", "48k",
		output,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w\n%s", err, string(out))
	}
	return nil
}

// Probe returns the width and height of the first video stream.
func (e *Engine) Probe(ctx context.Context, input string) (width, height int, err error) {
	cmd := exec.CommandContext(ctx, e.ffprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "json",
		input,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, 0, fmt.Errorf("ffprobe: %w\n%s", err, string(out))
	}

	var probe struct {
		Streams []struct {
			Width  int `json:"width"`
			Height int `json:"height"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(out, &probe); err != nil {
		return 0, 0, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(probe.Streams) == 0 || probe.Streams[0].Width == 0 {
		return 0, 0, fmt.Errorf("no video stream in %s", input)
	}
	return probe.Streams[0].Width, probe.Streams[0].Height, nil
}
