package orchestrator

import (
	"fmt"
	"strings"
	"sync"

	"github.com/hupe1980/agentflow/internal/util"
)

// dependencyExcerpt bounds how much of each upstream result is carried into a
// downstream task's prompt.
const dependencyExcerpt = 500

// Graph holds the tasks of one workflow keyed by ID, preserving registration
// order. It records dependency edges but performs no topological sorting;
// execution order is the caller's contract and CanRun is the safety check.
type Graph struct {
	mu    sync.RWMutex
	order []string
	tasks map[string]*Task
}

// NewGraph creates an empty task graph.
func NewGraph() *Graph {
	return &Graph{tasks: make(map[string]*Task)}
}

// AddTask registers a task. Re-adding an ID replaces the task in place.
func (g *Graph) AddTask(t *Task) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.tasks[t.ID]; !exists {
		g.order = append(g.order, t.ID)
	}
	g.tasks[t.ID] = t
}

// Get returns the task with the given ID.
func (g *Graph) Get(id string) (*Task, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	t, ok := g.tasks[id]
	return t, ok
}

// IDs returns the task IDs in registration order.
func (g *Graph) IDs() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Len returns the number of registered tasks.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.tasks)
}

// Clear removes all tasks.
func (g *Graph) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.order = nil
	g.tasks = make(map[string]*Task)
}

// CanRun reports whether every dependency of the task has completed. Unknown
// dependency IDs count as unmet.
func (g *Graph) CanRun(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	t, ok := g.tasks[id]
	if !ok {
		return false
	}

	for _, dep := range t.Dependencies {
		d, ok := g.tasks[dep]
		if !ok || !d.Completed() {
			return false
		}
	}
	return true
}

// DependencyContext renders the completed upstream results of a task as a
// prompt fragment, truncated per result. Returns "" when the task has no
// completed dependencies.
func (g *Graph) DependencyContext(id string) string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	t, ok := g.tasks[id]
	if !ok || len(t.Dependencies) == 0 {
		return ""
	}

	var lines []string
	for _, dep := range t.Dependencies {
		d, ok := g.tasks[dep]
		if !ok || !d.Completed() {
			continue
		}
		lines = append(lines, fmt.Sprintf("- [%s]: %s", d.ID, util.Truncate(d.Result, dependencyExcerpt)))
	}

	if len(lines) == 0 {
		return ""
	}

	return "Previous results:\n" + strings.Join(lines, "\n")
}
