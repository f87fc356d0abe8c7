package highlights

import "testing"

func TestKeywordScorer(t *testing.T) {
	tests := []struct {
		name string
		goal string
		text string
		want float64
	}{
		{"empty", "highlights", "", 0},
		{"plain words", "highlights", "four plain words here", 4},
		{"punctuation", "highlights", "wow! really?", 2 + 2*2},
		{"keyword hit", "highlights", "the secret ingredient", 3 + 2},
		{"distinct keywords count once", "highlights", "secret secret secret", 3 + 2},
		{"case insensitive", "tutorial", "FIRST you do this", 4 + 2},
		{"goal mismatch", "tutorial", "an amazing secret", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScorerForGoal(tt.goal).Score(tt.text)
			if got != tt.want {
				t.Fatalf("Score(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestScorerForGoal_FallsBackToHighlights(t *testing.T) {
	unknown := ScorerForGoal("does-not-exist")
	known := ScorerForGoal("highlights")
	text := "this secret is important!"
	if unknown.Score(text) != known.Score(text) {
		t.Fatal("unknown goal must use the highlights heuristic")
	}
}
