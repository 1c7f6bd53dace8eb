package sessionparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractText_PlainStringShape(t *testing.T) {
	assert.Equal(t, "hello", extractText([]byte(`"hello"`)))
}

func TestExtractText_BlockArrayShapeJoinsTextBlocks(t *testing.T) {
	raw := `[{"type":"text","text":"line one"},{"type":"tool_use","name":"Bash"},{"type":"text","text":"line two"}]`
	assert.Equal(t, "line one\nline two", extractText([]byte(raw)))
}

func TestExtractText_EmptyInput(t *testing.T) {
	assert.Equal(t, "", extractText(nil))
}

func TestCountToolCalls_CountsAndDetectsSubAgent(t *testing.T) {
	raw := `[{"type":"tool_use","name":"Bash"},{"type":"tool_use","name":"Task"}]`
	count, hasSubAgent := countToolCalls([]byte(raw))
	assert.Equal(t, 2, count)
	assert.True(t, hasSubAgent)
}

func TestCountToolCalls_NoToolUseBlocks(t *testing.T) {
	raw := `[{"type":"text","text":"hi"}]`
	count, hasSubAgent := countToolCalls([]byte(raw))
	assert.Equal(t, 0, count)
	assert.False(t, hasSubAgent)
}
