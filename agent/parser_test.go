package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkerParser_ToolStep(t *testing.T) {
	p := NewMarkerParser()

	reply := `THOUGHT: I need to compute this.
ACTION: calculator
ACTION_INPUT: {"expression": "2 + 2"}`

	step := p.Parse(reply, 1)

	assert.Equal(t, 1, step.Number)
	assert.Equal(t, "I need to compute this.", step.Thought)
	assert.Equal(t, "calculator", step.Action)
	assert.Equal(t, "2 + 2", step.ActionInput["expression"])
	assert.False(t, step.IsFinal)
}

func TestMarkerParser_CaseInsensitiveMarkers(t *testing.T) {
	p := NewMarkerParser()

	reply := `thought: lowercase works too
action: datetime
action_input: {}`

	step := p.Parse(reply, 3)

	assert.Equal(t, "lowercase works too", step.Thought)
	assert.Equal(t, "datetime", step.Action)
}

func TestMarkerParser_Finish(t *testing.T) {
	p := NewMarkerParser()

	reply := `THOUGHT: Done now.
ACTION: FINISH
ACTION_INPUT: {"answer": "The result is 4."}`

	step := p.Parse(reply, 2)

	require.True(t, step.IsFinal)
	assert.Empty(t, step.Action)
	assert.Equal(t, "The result is 4.", step.FinalAnswer)
}

func TestMarkerParser_FinishWithMalformedInput(t *testing.T) {
	p := NewMarkerParser()

	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{
			name:  "broken json falls back to thought",
			reply: "THOUGHT: my conclusion\nACTION: FINISH\nACTION_INPUT: {\"answer\": broken",
			want:  "my conclusion",
		},
		{
			name:  "no input no thought falls back to reply",
			reply: "ACTION: finish",
			want:  "ACTION: finish",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step := p.Parse(tt.reply, 1)
			require.True(t, step.IsFinal)
			assert.Equal(t, tt.want, step.FinalAnswer)
			assert.NotEmpty(t, step.FinalAnswer)
		})
	}
}

func TestMarkerParser_UnparseableInputPreservedRaw(t *testing.T) {
	p := NewMarkerParser()

	reply := "THOUGHT: try\nACTION: calculator\nACTION_INPUT: {\"expression\": \"1 +"

	step := p.Parse(reply, 1)

	assert.Equal(t, "calculator", step.Action)
	require.Contains(t, step.ActionInput, RawInputKey)
	assert.Contains(t, step.ActionInput[RawInputKey], "expression")
}

func TestMarkerParser_NestedBracesInInput(t *testing.T) {
	p := NewMarkerParser()

	reply := `ACTION: write_file
ACTION_INPUT: {"path": "out.json", "content": "{\"nested\": true}"}`

	step := p.Parse(reply, 1)

	assert.Equal(t, "out.json", step.ActionInput["path"])
	assert.Equal(t, `{"nested": true}`, step.ActionInput["content"])
}

func TestMarkerParser_NoMarkers(t *testing.T) {
	p := NewMarkerParser()

	step := p.Parse("just rambling text without structure", 1)

	assert.False(t, step.IsFinal)
	assert.Empty(t, step.Action)
}

func TestMarkerParser_Idempotent(t *testing.T) {
	p := NewMarkerParser()

	reply := `THOUGHT: check
ACTION: FINISH
ACTION_INPUT: {"answer": "stable"}`

	first := p.Parse(reply, 5)
	second := p.Parse(reply, 5)

	assert.Equal(t, first, second)
}

func TestJSONParser_ToolStep(t *testing.T) {
	p := NewJSONParser()

	reply := `{"action": "tool", "tool_name": "calculator", "parameters": {"expression": "6*7"}}`

	step := p.Parse(reply, 1)

	assert.Equal(t, "calculator", step.Action)
	assert.Equal(t, "6*7", step.ActionInput["expression"])
	assert.False(t, step.IsFinal)
}

func TestJSONParser_Answer(t *testing.T) {
	p := NewJSONParser()

	step := p.Parse(`{"action": "answer", "content": "42"}`, 2)

	require.True(t, step.IsFinal)
	assert.Equal(t, "42", step.FinalAnswer)
}

func TestJSONParser_Think(t *testing.T) {
	p := NewJSONParser()

	step := p.Parse(`{"action": "think", "content": "hmm"}`, 1)

	assert.False(t, step.IsFinal)
	assert.Empty(t, step.Action)
	assert.Equal(t, "hmm", step.Thought)
}

func TestJSONParser_EmbeddedObject(t *testing.T) {
	p := NewJSONParser()

	reply := "Sure, here you go:\n{\"action\": \"answer\", \"content\": \"embedded\"}\nHope that helps!"

	step := p.Parse(reply, 1)

	require.True(t, step.IsFinal)
	assert.Equal(t, "embedded", step.FinalAnswer)
}

func TestJSONParser_PlainTextBecomesFinal(t *testing.T) {
	p := NewJSONParser()

	step := p.Parse("I cannot format JSON today.", 4)

	require.True(t, step.IsFinal)
	assert.Equal(t, "I cannot format JSON today.", step.FinalAnswer)
	assert.Equal(t, 4, step.Number)
}

func TestJSONParser_UnknownActionTerminates(t *testing.T) {
	p := NewJSONParser()

	step := p.Parse(`{"action": "shrug", "content": "whatever"}`, 1)

	require.True(t, step.IsFinal)
	assert.Equal(t, "whatever", step.FinalAnswer)
}

func TestParser_InstructionsNonEmpty(t *testing.T) {
	parsers := []Parser{NewMarkerParser(), NewJSONParser()}
	for _, p := range parsers {
		assert.NotEmpty(t, p.Instructions())
	}
}
