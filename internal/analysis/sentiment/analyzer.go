package sentiment

import "strings"

// Signal is the outcome classification for one user utterance.
type Signal string

const (
	Positive Signal = "positive"
	Negative Signal = "negative"
	Neutral  Signal = "neutral"
)

// Decision carries the classification plus the raw keyword score.
type Decision struct {
	Signal Signal
	Score  int
}

var keywordBuckets = map[Signal][]string{
	Positive: {
		"yes", "correct", "good", "thank", "helpful",
		"great", "perfect", "exactly", "brilliant", "appreciate",
	},
	Negative: {
		"wrong", "incorrect", "bad", "useless", "no,",
		"not helpful", "doesn't", "failed", "nonsense",
	},
}

// Assess scans a user utterance for feedback keywords and decides whether
// the interaction should count as successful.
func Assess(utterance string) Decision {
	normalized := strings.TrimSpace(strings.ToLower(utterance))
	if normalized == "" {
		return Decision{Signal: Neutral}
	}

	scores := make(map[Signal]int)
	for signal, keywords := range keywordBuckets {
		for _, word := range keywords {
			if strings.Contains(normalized, word) {
				scores[signal] += 3
			}
		}
	}

	switch {
	case scores[Positive] > scores[Negative]:
		return Decision{Signal: Positive, Score: scores[Positive]}
	case scores[Negative] > scores[Positive]:
		return Decision{Signal: Negative, Score: scores[Negative]}
	default:
		return Decision{Signal: Neutral}
	}
}

// successIndicators are the fixed markers that count an interaction as
// successful. Presence of any one is enough; negative wording elsewhere in
// the utterance does not cancel it.
var successIndicators = []string{"yes", "correct", "good", "thank", "helpful"}

// Successful reports whether the utterance signals a successful interaction.
func Successful(utterance string) bool {
	normalized := strings.ToLower(utterance)
	for _, indicator := range successIndicators {
		if strings.Contains(normalized, indicator) {
			return true
		}
	}
	return false
}
