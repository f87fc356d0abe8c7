package highlights

import (
	"sort"
	"strings"

	"github.com/clipforge/video-highlights/internal/types"
)

// Candidate is a scored window over the transcript. Transient: discarded
// once selection finishes.
type Candidate struct {
	Start float64
	End   float64
	Score float64
}

// Params controls window selection.
type Params struct {
	TargetDuration float64
	Count          int
	Scorer         Scorer
}

// Relative positions used to top up the selection when scored candidates
// cannot fill the requested count (sparse or very short transcripts).
var fallbackPositions = []float64{0.12, 0.45, 0.72}

// Windows earlier than this are skipped as candidate anchors; intros rarely
// make good clips and it keeps the first window clear of channel bumpers.
const minAnchorOffset = 5.0

// minStartGapFactor is the fraction of the target duration two accepted
// windows must be apart (by start time). Fallback windows ignore it.
const minStartGapFactor = 0.6

// Select picks p.Count highlight windows from an ordered transcript.
// Every returned window spans exactly p.TargetDuration and starts within
// [0, totalDuration-targetDuration]. Scored picks are pairwise separated by
// at least 0.6*targetDuration in start time; fallback top-ups are not, and
// may repeat a start when clamping leaves them nowhere else to go.
func Select(segments []types.TranscriptSegment, totalDuration float64, p Params) []types.HighlightWindow {
	if p.Count <= 0 || p.TargetDuration <= 0 {
		return nil
	}
	scorer := p.Scorer
	if scorer == nil {
		scorer = ScorerForGoal("")
	}

	maxStart := totalDuration - p.TargetDuration - 1
	if maxStart < 0 {
		maxStart = 0
	}

	candidates := buildCandidates(segments, maxStart, p.TargetDuration, scorer)

	// Stable keeps the original offset order among equal scores.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	minGap := minStartGapFactor * p.TargetDuration
	var picked []Candidate
	for _, c := range candidates {
		if len(picked) >= p.Count {
			break
		}
		if tooClose(picked, c.Start, minGap) {
			continue
		}
		picked = append(picked, c)
	}

	// Best-effort guarantee: always deliver the requested number of clips,
	// even when the spacing rule starves the greedy pass. Clamping may land
	// fallbacks on the same start; the count promise wins over variety.
	for _, rel := range fallbackPositions {
		if len(picked) >= p.Count {
			break
		}
		start := clamp(rel*totalDuration, 0, maxStart)
		picked = append(picked, Candidate{Start: start, End: start + p.TargetDuration})
	}

	windows := make([]types.HighlightWindow, 0, len(picked))
	for i, c := range picked {
		windows = append(windows, types.HighlightWindow{
			ID:       i + 1,
			Start:    c.Start,
			End:      c.End,
			Duration: c.End - c.Start,
			Score:    c.Score,
		})
	}
	return windows
}

// buildCandidates anchors one window at every segment offset within
// [minAnchorOffset, maxStart] and scores the text of all segments
// overlapping that window.
func buildCandidates(segments []types.TranscriptSegment, maxStart, target float64, scorer Scorer) []Candidate {
	var out []Candidate
	for _, seg := range segments {
		if seg.Offset < minAnchorOffset || seg.Offset > maxStart {
			continue
		}
		start := seg.Offset
		end := start + target

		var parts []string
		for _, other := range segments {
			if other.Offset < end && other.End() > start {
				parts = append(parts, other.Text)
			}
		}
		text := strings.Join(parts, " ")
		out = append(out, Candidate{Start: start, End: end, Score: scorer.Score(text)})
	}
	return out
}

func tooClose(picked []Candidate, start, minGap float64) bool {
	for _, p := range picked {
		d := p.Start - start
		if d < 0 {
			d = -d
		}
		if d < minGap {
			return true
		}
	}
	return false
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
