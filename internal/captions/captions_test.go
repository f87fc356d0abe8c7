package captions

import (
	"strings"
	"testing"

	"github.com/clipforge/video-highlights/internal/types"
)

func TestWindow_RebasesToClipLocalTime(t *testing.T) {
	// Window [10,34): one segment ends before it, one starts after it, and
	// two straddle its edges.
	segs := []types.TranscriptSegment{
		{Text: "before", Offset: 2, Duration: 3},
		{Text: "straddles in", Offset: 8, Duration: 4},
		{Text: "inside", Offset: 12, Duration: 3},
		{Text: "straddles out", Offset: 32, Duration: 5},
		{Text: "after", Offset: 40, Duration: 2},
	}

	cues := Window(segs, 10, 34)
	if len(cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(cues))
	}

	want := []Cue{
		{Start: 0, End: 2, Text: "straddles in"},
		{Start: 2, End: 5, Text: "inside"},
		{Start: 22, End: 24, Text: "straddles out"},
	}
	for i, w := range want {
		if cues[i] != w {
			t.Fatalf("cue %d: got %+v, want %+v", i, cues[i], w)
		}
	}
}

func TestWindow_DropsSubPerceptibleFragments(t *testing.T) {
	segs := []types.TranscriptSegment{
		{Text: "blink", Offset: 9.95, Duration: 0.1}, // 0.05s inside the window
		{Text: "keep", Offset: 11, Duration: 0.08},
		{Text: "keep too", Offset: 12, Duration: 2},
	}
	cues := Window(segs, 10, 30)
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[0].Text != "keep" || cues[1].Text != "keep too" {
		t.Fatalf("unexpected cues: %+v", cues)
	}
}

func TestRender_FormatsStayConsistent(t *testing.T) {
	segs := []types.TranscriptSegment{
		{Text: "first line", Offset: 11, Duration: 2.5},
		{Text: "second line", Offset: 14, Duration: 3},
		{Text: "third line", Offset: 18.25, Duration: 1.75},
	}
	cues := Window(segs, 10, 34)

	srt := RenderSRT(cues)
	vtt := RenderVTT(cues)

	srtCues := strings.Count(srt, " --> ")
	vttCues := strings.Count(vtt, " --> ")
	if srtCues != len(cues) || vttCues != len(cues) {
		t.Fatalf("cue counts diverge: srt=%d vtt=%d want %d", srtCues, vttCues, len(cues))
	}

	// Same timestamps modulo the millisecond separator.
	srtNorm := strings.ReplaceAll(srt, ",", ".")
	for _, line := range strings.Split(vtt, "\n") {
		if strings.Contains(line, " --> ") && !strings.Contains(srtNorm, line) {
			t.Fatalf("vtt cue timing %q missing from srt track", line)
		}
	}

	if !strings.HasPrefix(vtt, "WEBVTT\n") {
		t.Fatalf("vtt output missing header: %q", vtt[:20])
	}
	if !strings.HasPrefix(srt, "1\n") {
		t.Fatalf("srt numbering must restart at 1, got %q", srt[:10])
	}
	if !strings.Contains(srt, "\n2\n") || !strings.Contains(srt, "\n3\n") {
		t.Fatal("srt indices not sequential")
	}
}

func TestTimeFormatting(t *testing.T) {
	tests := []struct {
		sec     float64
		wantSRT string
		wantVTT string
	}{
		{0, "00:00:00,000", "00:00:00.000"},
		{1.5, "00:00:01,500", "00:00:01.500"},
		{61.25, "00:01:01,250", "00:01:01.250"},
		{3661.001, "01:01:01,001", "01:01:01.001"},
	}
	for _, tt := range tests {
		if got := srtTime(tt.sec); got != tt.wantSRT {
			t.Errorf("srtTime(%v) = %q, want %q", tt.sec, got, tt.wantSRT)
		}
		if got := vttTime(tt.sec); got != tt.wantVTT {
			t.Errorf("vttTime(%v) = %q, want %q", tt.sec, got, tt.wantVTT)
		}
	}
}
