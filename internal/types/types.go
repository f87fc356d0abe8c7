package types

// Job status constants
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusDone       = "done"
	StatusError      = "error"
)

// Pipeline stage indices, reported as Job.Step
const (
	StepRetrieval = iota
	StepTranscript
	StepSelection
	StepRendering
	StepPackaging
)

// Selection goal constants
const (
	GoalHighlights = "highlights"
	GoalStory      = "story"
	GoalTutorial   = "tutorial"
)

// Clip length presets mapped to target seconds
const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

// TargetSeconds maps a length preset to the clip duration in seconds.
// Unknown values fall back to the medium preset.
func TargetSeconds(length string) float64 {
	switch length {
	case LengthShort:
		return 24
	case LengthLong:
		return 75
	default:
		return 45
	}
}

// TranscriptSegment is one timestamped unit of transcript text.
// Segments are ordered by Offset; neighbours may overlap slightly.
type TranscriptSegment struct {
	Text     string  `json:"text"`
	Offset   float64 `json:"offset"`
	Duration float64 `json:"duration"`
}

// End returns the absolute end time of a segment.
func (s TranscriptSegment) End() float64 {
	return s.Offset + s.Duration
}

// HighlightWindow is a selected clip window within the source media.
type HighlightWindow struct {
	ID       int     `json:"id"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
	Score    float64 `json:"score"`
}

// MediaInfo is the metadata the content provider reports for a source.
type MediaInfo struct {
	Title    string
	Duration float64
}
