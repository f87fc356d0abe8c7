package captions

import (
	"fmt"
	"strings"

	"github.com/clipforge/video-highlights/internal/types"
)

// Cue is one caption entry re-based to clip-local time.
type Cue struct {
	Start float64
	End   float64
	Text  string
}

// Fragments shorter than this after clipping to the window are dropped;
// they flash for a frame or two and read as glitches.
const minCueDuration = 0.08

// Window slices a transcript into clip-local cues for [start,end).
// Both caption formats are rendered from the slice this returns, which is
// what keeps them consistent with each other.
func Window(segments []types.TranscriptSegment, start, end float64) []Cue {
	var out []Cue
	for _, seg := range segments {
		if seg.Offset >= end || seg.End() <= start {
			continue
		}
		localStart := seg.Offset
		if localStart < start {
			localStart = start
		}
		localEnd := seg.End()
		if localEnd > end {
			localEnd = end
		}
		localStart -= start
		localEnd -= start
		if localEnd-localStart < minCueDuration {
			continue
		}
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		out = append(out, Cue{Start: localStart, End: localEnd, Text: text})
	}
	return out
}

// RenderSRT renders cues in SubRip format: 1-based index per clip,
// comma-separated milliseconds.
func RenderSRT(cues []Cue) string {
	var b strings.Builder
	for i, c := range cues {
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", srtTime(c.Start), srtTime(c.End))
		b.WriteString(c.Text)
		b.WriteString("\n\n")
	}
	return b.String()
}

// RenderVTT renders cues in WebVTT format: header plus dot-separated
// milliseconds, no cue numbering.
func RenderVTT(cues []Cue) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, c := range cues {
		fmt.Fprintf(&b, "%s --> %s\n", vttTime(c.Start), vttTime(c.End))
		b.WriteString(c.Text)
		b.WriteString("\n\n")
	}
	return b.String()
}

func srtTime(sec float64) string {
	h, m, s, ms := splitTime(sec)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

func vttTime(sec float64) string {
	h, m, s, ms := splitTime(sec)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

func splitTime(sec float64) (h, m, s, ms int) {
	if sec < 0 {
		sec = 0
	}
	total := int(sec*1000 + 0.5)
	ms = total % 1000
	total /= 1000
	s = total % 60
	total /= 60
	m = total % 60
	h = total / 60
	return
}
