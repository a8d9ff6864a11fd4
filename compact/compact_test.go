package compact_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/turnlog/compact"
	"github.com/tailored-agentic-units/turnlog/core/history"
	"github.com/tailored-agentic-units/turnlog/generate"
	"github.com/tailored-agentic-units/turnlog/generate/mock"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{name: "empty", in: "", want: 0},
		{name: "below one token", in: "abc", want: 0},
		{name: "exact", in: "abcdefgh", want: 2},
		{name: "multi-byte counted as runes", in: strings.Repeat("é", 8), want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compact.EstimateTokens(tt.in))
		})
	}
}

func TestCostSince_WholeLogWithoutCheckpoint(t *testing.T) {
	var log history.Log
	log.Append(history.NewTurn(history.RoleUser, strings.Repeat("a", 400)))
	log.Append(history.NewTurn(history.RoleAssistant, strings.Repeat("b", 400)))

	assert.Equal(t, 200, compact.CostSince(log))
}

func TestCostSince_ResetsAtCheckpoint(t *testing.T) {
	var log history.Log
	log.Append(history.NewTurn(history.RoleUser, strings.Repeat("a", 4000)))
	log.Append(history.NewCheckpoint(strings.Repeat("s", 4000), history.SeqRange{First: 1, Last: 1}))

	// The checkpoint itself is cost-zero at creation.
	assert.Equal(t, 0, compact.CostSince(log))

	log.Append(history.NewTurn(history.RoleUser, strings.Repeat("c", 400)))
	assert.Equal(t, 100, compact.CostSince(log))
}

func TestShouldCompact(t *testing.T) {
	var log history.Log
	log.Append(history.NewTurn(history.RoleUser, strings.Repeat("a", 4000))) // ~1000 tokens

	assert.True(t, compact.ShouldCompact(log, 500))
	assert.False(t, compact.ShouldCompact(log, 2000))
}

func TestShouldCompact_DisabledBudget(t *testing.T) {
	var log history.Log
	log.Append(history.NewTurn(history.RoleUser, strings.Repeat("a", 100_000)))

	assert.False(t, compact.ShouldCompact(log, 0))
	assert.False(t, compact.ShouldCompact(log, -1))
}

func TestShouldCompact_AfterCompaction(t *testing.T) {
	var log history.Log
	log.Append(history.NewTurn(history.RoleUser, strings.Repeat("a", 40_000)))

	require.True(t, compact.ShouldCompact(log, 1000))

	log.Append(history.NewCheckpoint("summary", history.SeqRange{First: 1, Last: 1}))
	assert.False(t, compact.ShouldCompact(log, 1000),
		"a fresh checkpoint resets the accumulated cost")
}

func TestGenerateCheckpoint(t *testing.T) {
	var log history.Log
	log.Append(history.NewTurn(history.RoleUser, "refactor the parser"))
	log.Append(history.NewTurn(history.RoleAssistant, "done, split into two passes"))

	gen := mock.New(mock.WithCompletion(generate.Completion{
		Content: "User asked for a parser refactor; it was split into two passes.",
	}))

	cp, err := compact.GenerateCheckpoint(context.Background(), gen, log)
	require.NoError(t, err)

	assert.True(t, cp.IsCheckpoint())
	assert.Equal(t, "User asked for a parser refactor; it was split into two passes.", cp.Content)
	require.NotNil(t, cp.Covers)
	assert.Equal(t, history.SeqRange{First: 1, Last: 2}, *cp.Covers)
	// The checkpoint is unsequenced; the session assigns Seq on commit.
	assert.Zero(t, cp.Seq)

	// The summary request carries the span transcript.
	require.Len(t, gen.LastTurns(), 1)
	prompt := gen.LastTurns()[0].Content
	assert.Contains(t, prompt, "refactor the parser")
	assert.Contains(t, prompt, "done, split into two passes")
}

func TestGenerateCheckpoint_SpanStartsAfterLatestCheckpoint(t *testing.T) {
	var log history.Log
	log.Append(history.NewTurn(history.RoleUser, "old question"))
	log.Append(history.NewCheckpoint("old summary", history.SeqRange{First: 1, Last: 1}))
	log.Append(history.NewTurn(history.RoleUser, "new question"))
	log.Append(history.NewTurn(history.RoleAssistant, "new answer"))

	gen := mock.New()
	cp, err := compact.GenerateCheckpoint(context.Background(), gen, log)
	require.NoError(t, err)

	assert.Equal(t, history.SeqRange{First: 3, Last: 4}, *cp.Covers)
	prompt := gen.LastTurns()[0].Content
	assert.NotContains(t, prompt, "old question",
		"turns already covered by a checkpoint are not re-summarized")
}

func TestGenerateCheckpoint_SuccessiveRangesDoNotOverlap(t *testing.T) {
	var log history.Log
	log.Append(history.NewTurn(history.RoleUser, "first question"))
	log.Append(history.NewTurn(history.RoleAssistant, "first answer"))

	first, err := compact.GenerateCheckpoint(context.Background(), mock.New(), log)
	require.NoError(t, err)
	log.Append(first)

	log.Append(history.NewTurn(history.RoleUser, "second question"))
	log.Append(history.NewTurn(history.RoleAssistant, "second answer"))

	second, err := compact.GenerateCheckpoint(context.Background(), mock.New(), log)
	require.NoError(t, err)

	assert.Greater(t, second.Covers.First, first.Covers.Last,
		"checkpoint ranges must be strictly increasing and non-overlapping")
}

func TestGenerateCheckpoint_EmptySpan(t *testing.T) {
	var log history.Log
	log.Append(history.NewTurn(history.RoleUser, "question"))
	log.Append(history.NewCheckpoint("summary", history.SeqRange{First: 1, Last: 1}))

	_, err := compact.GenerateCheckpoint(context.Background(), mock.New(), log)
	assert.ErrorIs(t, err, compact.ErrEmptySpan)
}

func TestGenerateCheckpoint_CollaboratorError(t *testing.T) {
	var log history.Log
	log.Append(history.NewTurn(history.RoleUser, "question"))

	wantErr := errors.New("upstream unavailable")
	gen := mock.New(mock.WithError(wantErr))

	_, err := compact.GenerateCheckpoint(context.Background(), gen, log)
	assert.ErrorIs(t, err, wantErr)
}

func TestGenerateCheckpoint_EmptyCompletion(t *testing.T) {
	var log history.Log
	log.Append(history.NewTurn(history.RoleUser, "question"))

	gen := mock.New(mock.WithCompletion(generate.Completion{}))
	_, err := compact.GenerateCheckpoint(context.Background(), gen, log)
	assert.ErrorIs(t, err, generate.ErrEmptyCompletion)
}

func TestGenerateCheckpoint_DoesNotModifyLog(t *testing.T) {
	var log history.Log
	log.Append(history.NewTurn(history.RoleUser, "question"))
	log.Append(history.NewTurn(history.RoleAssistant, "answer"))
	before := log.Clone()

	_, err := compact.GenerateCheckpoint(context.Background(), mock.New(), log)
	require.NoError(t, err)
	assert.Equal(t, before.Turns, log.Turns)
}
