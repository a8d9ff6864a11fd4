package prune_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/turnlog/core/history"
	"github.com/tailored-agentic-units/turnlog/prune"
)

// toolLog builds a log alternating user, assistant-with-invocation, and tool
// result turns, with rounds numbered from 1.
func toolLog(rounds int, payload string) history.Log {
	var log history.Log
	for i := 1; i <= rounds; i++ {
		log.Append(history.NewTurn(history.RoleUser, "question"))
		assistant := history.NewTurn(history.RoleAssistant, "checking")
		assistant.Invocations = []history.ToolInvocation{{ID: "inv", Name: "read_file"}}
		log.Append(assistant)
		log.Append(history.NewToolResult("inv", payload, false))
	}
	return log
}

func TestPrune_ReplacesOldToolResults(t *testing.T) {
	payload := strings.Repeat("x", 2048)
	log := toolLog(3, payload) // 9 turns

	pruned := prune.Prune(log, 4)

	// Turns 0-4 are outside the window; the tool results among them (index 2)
	// are truncated. The tool result at index 5 sits inside the window.
	require.Equal(t, 9, pruned.Len())
	assert.True(t, pruned.Turns[2].Truncated)
	assert.Equal(t, prune.Placeholder(len(payload)), pruned.Turns[2].Content)
	assert.False(t, pruned.Turns[5].Truncated)
	assert.Equal(t, payload, pruned.Turns[5].Content)
	assert.False(t, pruned.Turns[8].Truncated)
}

func TestPrune_PlaceholderFormat(t *testing.T) {
	assert.Equal(t, "[truncated, 2048 bytes]", prune.Placeholder(2048))
	assert.Equal(t, "[truncated, 0 bytes]", prune.Placeholder(0))
}

func TestPrune_OnlyToolTurnsAffected(t *testing.T) {
	log := toolLog(3, "payload")
	pruned := prune.Prune(log, 2)

	for i, turn := range pruned.Turns {
		if turn.Role != history.RoleTool {
			assert.Equal(t, log.Turns[i].Content, turn.Content,
				"non-tool turn %d must keep its content", i)
			assert.False(t, turn.Truncated)
		}
	}
}

func TestPrune_PreservesOrderAndSequence(t *testing.T) {
	log := toolLog(3, "payload")
	pruned := prune.Prune(log, 2)

	require.Equal(t, log.Len(), pruned.Len())
	for i := range pruned.Turns {
		assert.Equal(t, log.Turns[i].Seq, pruned.Turns[i].Seq)
		assert.Equal(t, log.Turns[i].Role, pruned.Turns[i].Role)
	}
	assert.Equal(t, log.NextSeq, pruned.NextSeq)
}

func TestPrune_Deterministic(t *testing.T) {
	log := toolLog(4, strings.Repeat("y", 512))

	first := prune.Prune(log, 3)
	second := prune.Prune(log, 3)

	assert.Equal(t, first.Turns, second.Turns)
}

func TestPrune_Idempotent(t *testing.T) {
	log := toolLog(4, strings.Repeat("y", 512))

	once := prune.Prune(log, 3)
	twice := prune.Prune(once, 3)

	// Already-truncated placeholders are not re-measured and re-wrapped.
	assert.Equal(t, once.Turns, twice.Turns)
}

func TestPrune_SkipsShortConversations(t *testing.T) {
	var log history.Log
	log.Append(history.NewTurn(history.RoleUser, "question"))
	assistant := history.NewTurn(history.RoleAssistant, "checking")
	assistant.Invocations = []history.ToolInvocation{{ID: "inv", Name: "grep"}}
	log.Append(assistant)
	log.Append(history.NewToolResult("inv", strings.Repeat("z", 4096), false))

	pruned := prune.Prune(log, 1)

	// One user turn is below the activity threshold; nothing is touched.
	assert.Equal(t, log.Turns, pruned.Turns)
}

func TestPrune_DisabledWindow(t *testing.T) {
	log := toolLog(3, "payload")

	assert.Equal(t, log.Turns, prune.Prune(log, 0).Turns)
	assert.Equal(t, log.Turns, prune.Prune(log, -5).Turns)
}

func TestPrune_WindowCoversWholeLog(t *testing.T) {
	log := toolLog(2, "payload")
	pruned := prune.Prune(log, log.Len())
	assert.Equal(t, log.Turns, pruned.Turns)
}

func TestPrune_DoesNotModifyInput(t *testing.T) {
	log := toolLog(3, strings.Repeat("x", 100))
	before := log.Clone()

	prune.Prune(log, 2)

	assert.Equal(t, before.Turns, log.Turns)
}
