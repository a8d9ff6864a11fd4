package compact

import (
	"unicode/utf8"

	"github.com/tailored-agentic-units/turnlog/core/history"
)

// charsPerToken is the approximate character-to-token ratio used for budget
// accounting. Exactness is not required here; the budget only decides when a
// checkpoint is worth generating.
const charsPerToken = 4

// EstimateTokens estimates the token cost of a string. Rune count is used so
// multi-byte text is not over-charged.
func EstimateTokens(s string) int {
	if s == "" {
		return 0
	}
	return utf8.RuneCountInString(s) / charsPerToken
}

// CostSince sums the estimated token cost of every turn strictly after the
// latest checkpoint. The checkpoint itself is cost-zero at creation, so a
// freshly compacted log re-accumulates cost from zero.
func CostSince(log history.Log) int {
	start := 0
	if _, at, ok := log.LastCheckpoint(); ok {
		start = at + 1
	}

	total := 0
	for _, t := range log.Turns[start:] {
		total += EstimateTokens(t.Content)
	}
	return total
}
