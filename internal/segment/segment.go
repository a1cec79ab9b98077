// Package segment identifies candidate exam questions in extracted
// document text. It is a heuristic, recall-oriented regex scan: precision
// is traded for simplicity, and no grammar-level parsing is attempted.
package segment

import "strings"

const (
	// MinQuestionLen is the minimum trimmed length for a candidate to
	// survive filtering.
	MinQuestionLen = 5
	// MaxQuestions caps the number of questions returned per document.
	MaxQuestions = 50
)

// indicators are substrings that mark a candidate as an actual question
// (checked against the lowercased candidate). A literal '?' also counts.
var indicators = []string{
	"what", "how", "why", "explain", "define", "describe", "write",
	"solve", "calculate", "prove", "show", "compare", "discuss",
	"analyze", "evaluate", "draw", "construct", "implement",
}

// Questions scans documentText with the ordered pattern table and returns
// the surviving candidates: trimmed, deduplicated by exact string equality,
// longer than MinQuestionLen, containing an indicator word or a '?', and
// truncated to MaxQuestions. The function is pure; calling it twice on the
// same input yields the same output.
func Questions(documentText string) []string {
	var candidates []string
	for _, p := range patterns {
		candidates = append(candidates, p.Regexp.FindAllString(documentText, -1)...)
	}

	seen := make(map[string]bool, len(candidates))
	var questions []string
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if seen[c] {
			continue
		}
		seen[c] = true
		if len(c) <= MinQuestionLen {
			continue
		}
		if !looksLikeQuestion(c) {
			continue
		}
		questions = append(questions, c)
		if len(questions) == MaxQuestions {
			break
		}
	}
	return questions
}

func looksLikeQuestion(candidate string) bool {
	lower := strings.ToLower(candidate)
	if strings.Contains(lower, "?") {
		return true
	}
	for _, ind := range indicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}
