package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/clipforge/video-highlights/internal/types"
)

// ErrAccessDenied marks a retrieval failure caused by a platform-side block
// (bot checks, sign-in walls, 403s) rather than a bad reference.
var ErrAccessDenied = errors.New("source access denied")

// ErrNoTranscript is returned when the provider has no captions for the
// reference in the requested language.
var ErrNoTranscript = errors.New("no transcript available")

// Downloader retrieves source media and platform captions via yt-dlp.
type Downloader struct {
	binary      string
	cookiesFile string
}

// NewDownloader creates a Downloader. An empty binary path uses yt-dlp
// from PATH; cookiesFile is optional and passed through when set.
func NewDownloader(binary, cookiesFile string) *Downloader {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &Downloader{binary: binary, cookiesFile: cookiesFile}
}

// ytdlpInfo is the subset of yt-dlp's --dump-json output we read.
type ytdlpInfo struct {
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
}

// Metadata fetches the media title and duration without downloading.
func (d *Downloader) Metadata(ctx context.Context, url string) (types.MediaInfo, error) {
	args := d.withCookies("--dump-json", "--no-download", url)
	out, err := exec.CommandContext(ctx, d.binary, args...).CombinedOutput()
	if err != nil {
		return types.MediaInfo{}, classify(err, out)
	}

	var info ytdlpInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return types.MediaInfo{}, fmt.Errorf("parse media metadata: %w", err)
	}
	return types.MediaInfo{Title: info.Title, Duration: info.Duration}, nil
}

// Download fetches the highest-quality combined audio+video MP4 into
// destPath.
func (d *Downloader) Download(ctx context.Context, url, destPath string) error {
	args := d.withCookies(
		"-f", "best[ext=mp4]/best",
		"--no-playlist",
		"-o", destPath,
		url,
	)
	out, err := exec.CommandContext(ctx, d.binary, args...).CombinedOutput()
	if err != nil {
		return classify(err, out)
	}
	return nil
}

// Transcript fetches platform captions (manual preferred, auto-generated
// accepted) as json3 and parses them into ordered segments. Returns
// ErrNoTranscript when the platform has none.
func (d *Downloader) Transcript(ctx context.Context, url, language string) ([]types.TranscriptSegment, error) {
	if language == "" {
		language = "en"
	}
	tmpDir, err := os.MkdirTemp("", "captions-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	args := d.withCookies(
		"--skip-download",
		"--write-subs", "--write-auto-subs",
		"--sub-format", "json3",
		"--sub-langs", language+",-live_chat",
		"-o", filepath.Join(tmpDir, "subs"),
		url,
	)
	out, err := exec.CommandContext(ctx, d.binary, args...).CombinedOutput()
	if err != nil {
		return nil, classify(err, out)
	}

	matches, _ := filepath.Glob(filepath.Join(tmpDir, "subs*.json3"))
	if len(matches) == 0 {
		return nil, ErrNoTranscript
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		return nil, err
	}
	segments, err := ParseJSON3(data)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, ErrNoTranscript
	}
	return segments, nil
}

// ParseJSON3 converts YouTube's json3 caption events into transcript
// segments ordered by offset.
func ParseJSON3(data []byte) ([]types.TranscriptSegment, error) {
	var doc struct {
		Events []struct {
			StartMs    float64 `json:"tStartMs"`
			DurationMs float64 `json:"dDurationMs"`
			Segs       []struct {
				UTF8 string `json:"utf8"`
			} `json:"segs"`
		} `json:"events"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse json3 captions: %w", err)
	}

	var out []types.TranscriptSegment
	for _, ev := range doc.Events {
		var parts []string
		for _, s := range ev.Segs {
			parts = append(parts, s.UTF8)
		}
		text := strings.TrimSpace(strings.Join(parts, ""))
		if text == "" {
			continue
		}
		out = append(out, types.TranscriptSegment{
			Text:     text,
			Offset:   ev.StartMs / 1000,
			Duration: ev.DurationMs / 1000,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out, nil
}

func (d *Downloader) withCookies(args ...string) []string {
	if d.cookiesFile == "" {
		return args
	}
	return append([]string{"--cookies", d.cookiesFile}, args...)
}

// classify inspects yt-dlp output for platform-side block markers so the
// orchestrator can surface an authentication hint instead of raw stderr.
func classify(err error, output []byte) error {
	text := strings.ToLower(string(output))
	for _, marker := range []string{
		"sign in to confirm",
		"confirm you're not a bot",
		"http error 403",
		"requested format is not available",
		"use --cookies",
	} {
		if strings.Contains(text, marker) {
			return fmt.Errorf("%w: %s", ErrAccessDenied, firstLine(string(output)))
		}
	}
	return fmt.Errorf("yt-dlp: %v: %s", err, firstLine(string(output)))
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(strings.ToLower(line), "error") || strings.Contains(strings.ToLower(line), "sign in") {
			return line
		}
	}
	if i := strings.IndexByte(s, '\n'); i > 0 {
		return s[:i]
	}
	return s
}
