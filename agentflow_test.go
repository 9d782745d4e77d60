package agentflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentflow/model"
)

func TestNew_Defaults(t *testing.T) {
	f := New()

	require.NotNil(t, f.Tools())
	assert.Positive(t, f.Tools().Len(), "builtin tools registered")
	require.NotNil(t, f.Orchestrator())
}

func TestNewAgent_SharesToolsAndRegisters(t *testing.T) {
	f := New()

	llm := model.NewScriptedModel(
		"THOUGHT: done\nACTION: FINISH\nACTION_INPUT: {\"answer\": \"hi\"}",
	)
	a := f.NewAgent("helper", "A test assistant", llm)

	assert.Equal(t, "helper", a.Name())
	assert.Same(t, f.Tools(), a.Tools())
	assert.Equal(t, []string{"helper"}, f.Orchestrator().Agents())
}

func TestRun_SingleTask(t *testing.T) {
	f := New()

	llm := model.NewScriptedModel(
		"THOUGHT: done\nACTION: FINISH\nACTION_INPUT: {\"answer\": \"42\"}",
	)
	f.NewAgent("solver", "Solves things", llm)

	result := f.Run(context.Background(), "", "what is the answer")

	assert.True(t, result.Success)
	assert.Equal(t, "42", result.Results["task"])
}

func TestRunPipeline_EndToEnd(t *testing.T) {
	f := New()

	llm := model.NewScriptedModel(
		"THOUGHT: done\nACTION: FINISH\nACTION_INPUT: {\"answer\": \"step output\"}",
	)
	f.NewAgent("worker", "Does the work", llm)

	result := f.RunPipeline(context.Background(), []string{"first", "second"})

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.TasksCompleted)
}

func TestRunDebate_RequiresTwoAgents(t *testing.T) {
	f := New()

	llm := model.NewScriptedModel(
		"THOUGHT: done\nACTION: FINISH\nACTION_INPUT: {\"answer\": \"x\"}",
	)
	f.NewAgent("solo", "Lonely debater", llm)

	result := f.RunDebate(context.Background(), "topic", 1)

	assert.False(t, result.Success)
	assert.Zero(t, result.TotalTasks)
}
