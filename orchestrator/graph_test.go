package orchestrator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_AddAndGet(t *testing.T) {
	g := NewGraph()
	g.AddTask(NewTask("a", "first"))
	g.AddTask(NewTask("b", "second", "a"))

	task, ok := g.Get("b")
	require.True(t, ok)
	assert.Equal(t, "second", task.Description)
	assert.Equal(t, []string{"a"}, task.Dependencies)
	assert.Equal(t, []string{"a", "b"}, g.IDs())
	assert.Equal(t, 2, g.Len())
}

func TestGraph_ReplaceKeepsOrder(t *testing.T) {
	g := NewGraph()
	g.AddTask(NewTask("a", "v1"))
	g.AddTask(NewTask("b", "other"))
	g.AddTask(NewTask("a", "v2"))

	assert.Equal(t, []string{"a", "b"}, g.IDs())

	task, _ := g.Get("a")
	assert.Equal(t, "v2", task.Description)
}

func TestGraph_CanRun(t *testing.T) {
	g := NewGraph()
	g.AddTask(NewTask("a", "first"))
	g.AddTask(NewTask("b", "second", "a"))
	g.AddTask(NewTask("c", "dangling", "missing"))

	assert.True(t, g.CanRun("a"))
	assert.False(t, g.CanRun("b"), "incomplete dependency")
	assert.False(t, g.CanRun("c"), "unknown dependency")
	assert.False(t, g.CanRun("nope"), "unknown task")

	a, _ := g.Get("a")
	a.Status = StatusCompleted
	assert.True(t, g.CanRun("b"))

	a.Status = StatusFailed
	assert.False(t, g.CanRun("b"), "failed dependency is not met")
}

func TestGraph_DependencyContext(t *testing.T) {
	g := NewGraph()

	a := NewTask("a", "first")
	a.Status = StatusCompleted
	a.Result = "result of a"
	g.AddTask(a)

	b := NewTask("b", "blocked")
	g.AddTask(b)

	c := NewTask("c", "third", "a", "b")
	g.AddTask(c)

	got := g.DependencyContext("c")
	assert.Contains(t, got, "Previous results:")
	assert.Contains(t, got, "[a]: result of a")
	assert.NotContains(t, got, "[b]", "incomplete dependencies are skipped")

	assert.Empty(t, g.DependencyContext("a"), "no dependencies")
	assert.Empty(t, g.DependencyContext("b"))
}

func TestGraph_DependencyContextTruncates(t *testing.T) {
	g := NewGraph()

	a := NewTask("a", "big")
	a.Status = StatusCompleted
	a.Result = strings.Repeat("x", 2000)
	g.AddTask(a)

	g.AddTask(NewTask("b", "uses a", "a"))

	got := g.DependencyContext("b")
	assert.Less(t, len(got), 600)
}

func TestGraph_Clear(t *testing.T) {
	g := NewGraph()
	g.AddTask(NewTask("a", "first"))
	g.Clear()

	assert.Zero(t, g.Len())
	assert.Empty(t, g.IDs())
}
