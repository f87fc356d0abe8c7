package highlights

import "strings"

// Scorer ranks a window's aggregated transcript text. Higher is better.
// Selection logic never depends on how the score is produced, only on its
// ordering, so goal-specific heuristics stay swappable.
type Scorer interface {
	Score(text string) float64
}

// Keyword lists per selection goal. Matching is substring-based and
// case-insensitive; each distinct hit counts once.
var (
	hookWords = []string{
		"amazing", "incredible", "secret", "important", "mistake",
		"never", "always", "best", "worst", "crazy", "shocking",
		"you won't believe", "here's why", "the truth",
	}
	storyWords = []string{
		"then", "suddenly", "realized", "decided", "because",
		"but then", "turned out", "that's when", "eventually",
		"at first", "in the end", "looking back",
	}
	tutorialWords = []string{
		"first", "second", "next", "step", "how to", "make sure",
		"you need", "start by", "simply", "click", "install", "create",
	}
)

// keywordScorer implements the fixed heuristic: word count, plus two points
// per exclamation or question mark, plus two points per distinct keyword hit.
type keywordScorer struct {
	keywords []string
}

func (ks keywordScorer) Score(text string) float64 {
	score := float64(len(strings.Fields(text)))
	score += 2 * float64(strings.Count(text, "!")+strings.Count(text, "?"))

	lower := strings.ToLower(text)
	for _, kw := range ks.keywords {
		if strings.Contains(lower, kw) {
			score += 2
		}
	}
	return score
}

// ScorerForGoal returns the scoring strategy for a selection goal.
// Unknown goals fall back to the highlights heuristic.
func ScorerForGoal(goal string) Scorer {
	switch goal {
	case "story":
		return keywordScorer{keywords: storyWords}
	case "tutorial":
		return keywordScorer{keywords: tutorialWords}
	default:
		return keywordScorer{keywords: hookWords}
	}
}
