package segment

import "regexp"

// Pattern is one exam-question numbering convention. The table below is
// matched in order, and match order is preserved in the output: all hits
// from pattern 1 come before any hit from pattern 2, even when pattern 2's
// hit appears earlier in the document. That is a known property of the
// scan, kept deliberately (callers rely on stable output, not document
// order).
type Pattern struct {
	Name        string
	Description string
	Regexp      *regexp.Regexp
}

// Patterns returns a copy of the ordered pattern table, mainly for
// auditing and per-pattern tests.
func Patterns() []Pattern {
	out := make([]Pattern, len(patterns))
	copy(out, patterns)
	return out
}

var patterns = []Pattern{
	{
		Name:        "numbered",
		Description: "Plain numeric: 1. Explain the water cycle.",
		Regexp:      regexp.MustCompile(`\d+\.\s*[A-Z][^.!?]*[.!?]`),
	},
	{
		Name:        "lettered",
		Description: "Lettered sub-part: a) Define entropy.",
		Regexp:      regexp.MustCompile(`[a-z]\)\s*[A-Z][^.!?]*[.!?]`),
	},
	{
		Name:        "roman-paren",
		Description: "Roman sub-part: i) What is a monad.",
		Regexp:      regexp.MustCompile(`[ivx]+\)\s*[A-Z][^.!?]*[.!?]`),
	},
	{
		Name:        "roman-dot",
		Description: "Roman sub-part: ii. Describe the process.",
		Regexp:      regexp.MustCompile(`[ivx]+\.\s*[A-Z][^.!?]*[.!?]`),
	},
	{
		Name:        "q-numbered",
		Description: "Q form: Q1. Solve for x.",
		Regexp:      regexp.MustCompile(`(?i)Q\d+\.\s*[A-Z][^.!?]*[.!?]`),
	},
	{
		Name:        "question-numbered",
		Description: "Question form: Question 2. Prove the theorem.",
		Regexp:      regexp.MustCompile(`(?i)Question\s*\d+\.\s*[A-Z][^.!?]*[.!?]`),
	},
	{
		Name:        "part",
		Description: "Part form: Part A. Compare the two models.",
		Regexp:      regexp.MustCompile(`(?i)Part\s*[A-Z]\.\s*[A-Z][^.!?]*[.!?]`),
	},
	{
		Name:        "section",
		Description: "Section form: Section B. Discuss normalization.",
		Regexp:      regexp.MustCompile(`(?i)Section\s*[A-Z]\.\s*[A-Z][^.!?]*[.!?]`),
	},
	{
		Name:        "paren-letter",
		Description: "Parenthesized letter: (a) Write short notes.",
		Regexp:      regexp.MustCompile(`\([a-z]\)\s*[A-Z][^.!?]*[.!?]`),
	},
	{
		Name:        "paren-number",
		Description: "Parenthesized number: (1) Calculate the mean.",
		Regexp:      regexp.MustCompile(`\(\d+\)\s*[A-Z][^.!?]*[.!?]`),
	},
	{
		Name:        "numbered-interrogative",
		Description: "Numeric ending in a question mark: 3. Why does it work?",
		Regexp:      regexp.MustCompile(`\d+\.\s*[^.!?]*\?`),
	},
	{
		Name:        "lettered-interrogative",
		Description: "Lettered sub-part ending in a question mark.",
		Regexp:      regexp.MustCompile(`[a-z]\)\s*[^.!?]*\?`),
	},
	{
		Name:        "roman-paren-interrogative",
		Description: "Roman sub-part i) ending in a question mark.",
		Regexp:      regexp.MustCompile(`[ivx]+\)\s*[^.!?]*\?`),
	},
	{
		Name:        "roman-dot-interrogative",
		Description: "Roman sub-part i. ending in a question mark.",
		Regexp:      regexp.MustCompile(`[ivx]+\.\s*[^.!?]*\?`),
	},
	{
		Name:        "q-interrogative",
		Description: "Q form ending in a question mark.",
		Regexp:      regexp.MustCompile(`(?i)Q\d+\.\s*[^.!?]*\?`),
	},
	{
		Name:        "question-interrogative",
		Description: "Question form ending in a question mark.",
		Regexp:      regexp.MustCompile(`(?i)Question\s*\d+\.\s*[^.!?]*\?`),
	},
	{
		Name:        "part-interrogative",
		Description: "Part form ending in a question mark.",
		Regexp:      regexp.MustCompile(`(?i)Part\s*[A-Z]\.\s*[^.!?]*\?`),
	},
	{
		Name:        "section-interrogative",
		Description: "Section form ending in a question mark.",
		Regexp:      regexp.MustCompile(`(?i)Section\s*[A-Z]\.\s*[^.!?]*\?`),
	},
	{
		Name:        "paren-letter-interrogative",
		Description: "Parenthesized letter ending in a question mark.",
		Regexp:      regexp.MustCompile(`\([a-z]\)\s*[^.!?]*\?`),
	},
	{
		Name:        "paren-number-interrogative",
		Description: "Parenthesized number ending in a question mark.",
		Regexp:      regexp.MustCompile(`\(\d+\)\s*[^.!?]*\?`),
	},
}
