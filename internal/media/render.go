package media

import (
	"fmt"
	"strconv"
	"strings"
)

// RenderSpec carries everything the transcoding engine needs for one clip:
// trim, geometry, optional caption burn-in, and the output path. The
// coordinator's contract is correctness of these parameters; encoding
// itself belongs to the engine.
type RenderSpec struct {
	Input       string
	Start       float64
	Duration    float64
	FilterOps   []string
	CaptionPath string // empty when burn-in is off
	Style       SubtitleStyle
	Output      string
}

// FilterChain joins the geometry ops and, when burn-in is requested, the
// subtitle overlay into one ffmpeg -vf expression.
func (r RenderSpec) FilterChain() string {
	ops := r.FilterOps
	if r.CaptionPath != "" {
		overlay := fmt.Sprintf("subtitles=%s:force_style='%s'",
			escapeFilterPath(r.CaptionPath), r.Style.forceStyle())
		ops = append(append([]string{}, ops...), overlay)
	}
	return strings.Join(ops, ",")
}

// Args builds the full ffmpeg argument list for the clip.
func (r RenderSpec) Args() []string {
	args := []string{
		"-y",
		"-ss", formatSeconds(r.Start),
		"-t", formatSeconds(r.Duration),
		"-i", r.Input,
	}
	if chain := r.FilterChain(); chain != "" {
		args = append(args, "-vf", chain)
	}
	args = append(args,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "+faststart",
		r.Output,
	)
	return args
}

func (s SubtitleStyle) forceStyle() string {
	return fmt.Sprintf(
		"FontName=%s,FontSize=%d,PrimaryColour=%s,OutlineColour=%s,Bold=%d,Outline=%d,Shadow=%d,Alignment=%d",
		s.FontName, s.FontSize, s.PrimaryHex, s.OutlineHex,
		s.Bold, s.Outline, s.Shadow, s.Alignment,
	)
}

// escapeFilterPath makes a filesystem path safe inside an ffmpeg filter
// expression: backslashes become forward slashes, colons and single quotes
// get escaped. ffmpeg parses the filter graph before the filename, so an
// unescaped drive colon or quote truncates the path.
func escapeFilterPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.ReplaceAll(p, ":", "\\:")
	p = strings.ReplaceAll(p, "'", "\\'")
	return p
}

func formatSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
