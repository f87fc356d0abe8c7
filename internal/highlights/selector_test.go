package highlights

import (
	"fmt"
	"testing"

	"github.com/clipforge/video-highlights/internal/types"
)

// talkTranscript builds an evenly paced transcript: one segment every
// stride seconds, each lasting stride seconds.
func talkTranscript(total, stride float64, text string) []types.TranscriptSegment {
	var segs []types.TranscriptSegment
	for off := 0.0; off+stride <= total; off += stride {
		segs = append(segs, types.TranscriptSegment{Text: text, Offset: off, Duration: stride})
	}
	return segs
}

func TestSelect_CountAndBounds(t *testing.T) {
	const total = 2400.0 // 40 minutes
	segs := talkTranscript(total, 4, "people keep talking about interesting things here")

	for _, target := range []float64{24, 45, 75} {
		t.Run(fmt.Sprintf("target_%v", target), func(t *testing.T) {
			wins := Select(segs, total, Params{TargetDuration: target, Count: 3})
			if len(wins) != 3 {
				t.Fatalf("expected 3 windows, got %d", len(wins))
			}
			for _, w := range wins {
				if w.End-w.Start != target || w.Duration != target {
					t.Fatalf("window %d: duration %v != target %v", w.ID, w.Duration, target)
				}
				if w.Start < 0 || w.Start > total-target {
					t.Fatalf("window %d: start %v out of [0, %v]", w.ID, w.Start, total-target)
				}
			}
		})
	}
}

func TestSelect_IDsSequential(t *testing.T) {
	segs := talkTranscript(2400, 4, "talk")
	wins := Select(segs, 2400, Params{TargetDuration: 24, Count: 3})
	for i, w := range wins {
		if w.ID != i+1 {
			t.Fatalf("window %d has id %d", i, w.ID)
		}
	}
}

func TestSelect_SpacingBetweenScoredPicks(t *testing.T) {
	const total, target = 2400.0, 24.0
	segs := talkTranscript(total, 4, "this is the most important secret, remember it!")

	wins := Select(segs, total, Params{TargetDuration: target, Count: 3, Scorer: ScorerForGoal("highlights")})
	if len(wins) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(wins))
	}
	// Dense transcript, all scored picks: pairwise spacing must hold.
	minGap := 0.6 * target
	for i := range wins {
		for j := i + 1; j < len(wins); j++ {
			d := wins[i].Start - wins[j].Start
			if d < 0 {
				d = -d
			}
			if d < minGap {
				t.Fatalf("windows %d and %d only %v apart (min %v)", wins[i].ID, wins[j].ID, d, minGap)
			}
		}
	}
}

func TestSelect_FallbackFillsSparseTranscript(t *testing.T) {
	const total, target = 1000.0, 24.0
	// One lone segment: the greedy pass can accept at most one candidate.
	segs := []types.TranscriptSegment{{Text: "hello", Offset: 100, Duration: 4}}

	wins := Select(segs, total, Params{TargetDuration: target, Count: 3})
	if len(wins) != 3 {
		t.Fatalf("expected 3 windows after fallback, got %d", len(wins))
	}
	maxStart := total - target - 1
	for _, w := range wins {
		if w.Start < 0 || w.Start > maxStart {
			t.Fatalf("fallback window start %v outside [0, %v]", w.Start, maxStart)
		}
	}
}

func TestSelect_EmptyTranscriptUsesFallbackOnly(t *testing.T) {
	wins := Select(nil, 600, Params{TargetDuration: 24, Count: 3})
	if len(wins) != 3 {
		t.Fatalf("expected 3 fallback windows, got %d", len(wins))
	}
	want := []float64{600 * 0.12, 600 * 0.45, 600 * 0.72}
	for i, w := range wins {
		if w.Start != want[i] {
			t.Fatalf("fallback %d: start %v, want %v", i, w.Start, want[i])
		}
		if w.Score != 0 {
			t.Fatalf("fallback %d: score %v, want 0", i, w.Score)
		}
	}
}

func TestSelect_ClampedFallbacksStillFillCount(t *testing.T) {
	// 30s of media with a 24s target: maxStart is 5, so the 0.45 and 0.72
	// positions both clamp to 5. The count promise still holds.
	wins := Select(nil, 30, Params{TargetDuration: 24, Count: 3})
	if len(wins) != 3 {
		t.Fatalf("expected 3 windows (total > target), got %d", len(wins))
	}
	want := []float64{30 * 0.12, 5, 5}
	for i, w := range wins {
		if w.Start != want[i] {
			t.Fatalf("window %d: start %v, want %v", i, w.Start, want[i])
		}
	}
}

func TestSelect_ShortMediaClampsToZero(t *testing.T) {
	// Media shorter than the target: every fallback position clamps to 0
	// and the requested count is still delivered.
	wins := Select(nil, 10, Params{TargetDuration: 24, Count: 3})
	if len(wins) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(wins))
	}
	for _, w := range wins {
		if w.Start != 0 {
			t.Fatalf("window %d: expected clamped start 0, got %v", w.ID, w.Start)
		}
	}
}

func TestSelect_TieBreakPreservesOffsetOrder(t *testing.T) {
	// Identical text everywhere: every candidate scores the same, so the
	// first accepted window must be the earliest eligible anchor.
	segs := talkTranscript(2400, 10, "same words each time")
	wins := Select(segs, 2400, Params{TargetDuration: 24, Count: 3})
	if len(wins) == 0 {
		t.Fatal("no windows selected")
	}
	if wins[0].Start != 10 {
		t.Fatalf("first pick start %v, want earliest eligible anchor 10", wins[0].Start)
	}
	for i := 1; i < len(wins); i++ {
		if wins[i].Start <= wins[i-1].Start {
			t.Fatalf("tied picks out of offset order: %v after %v", wins[i].Start, wins[i-1].Start)
		}
	}
}

func TestSelect_AnchorsRespectOffsetFloor(t *testing.T) {
	// Segments before 5s never anchor a window.
	segs := []types.TranscriptSegment{
		{Text: "intro", Offset: 0, Duration: 4},
		{Text: "early", Offset: 2, Duration: 4},
		{Text: "body", Offset: 30, Duration: 4},
	}
	wins := Select(segs, 600, Params{TargetDuration: 24, Count: 1})
	if len(wins) != 1 {
		t.Fatalf("expected 1 window, got %d", len(wins))
	}
	if wins[0].Start != 30 {
		t.Fatalf("start %v, want 30 (anchors under 5s skipped)", wins[0].Start)
	}
}
