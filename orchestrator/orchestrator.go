package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/agentflow/internal/util"
	"github.com/hupe1980/agentflow/logging"
)

// summaryExcerpt bounds the per-task excerpt in a workflow summary.
const summaryExcerpt = 200

// Fixed failure reasons recorded on tasks the scheduler could not run.
const (
	reasonDepsNotMet   = "Dependencies not met"
	reasonNoAgents     = "No agents available"
	reasonUnknownTask  = "Unknown task"
	reasonNeedTwoAgent = "Need at least 2 agents for debate"
)

// Agent is the worker contract the orchestrator schedules against. Run is
// expected to contain its own failures and return a degraded answer; an error
// return is still isolated to the task that produced it.
type Agent interface {
	Name() string
	Run(ctx context.Context, task string) (string, error)
}

// Options configures an Orchestrator.
type Options struct {
	Logger logging.Logger
}

// Orchestrator coordinates multiple agents over task graphs. Tasks execute
// strictly in the order the caller supplies; dependency readiness is verified
// per task and an unready or failed task never aborts the rest of the
// workflow.
type Orchestrator struct {
	mu      sync.Mutex
	agents  map[string]Agent
	order   []string
	graph   *Graph
	history []WorkflowResult
	logger  logging.Logger
}

// New creates an Orchestrator.
func New(optFns ...func(o *Options)) *Orchestrator {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Orchestrator{
		agents: make(map[string]Agent),
		graph:  NewGraph(),
		logger: opts.Logger,
	}
}

// AddAgent registers an agent under its name. The first registered agent is
// the default for tasks without an assignment.
func (o *Orchestrator) AddAgent(a Agent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, exists := o.agents[a.Name()]; !exists {
		o.order = append(o.order, a.Name())
	}
	o.agents[a.Name()] = a
}

// Agent returns the registered agent with the given name.
func (o *Orchestrator) Agent(name string) (Agent, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	a, ok := o.agents[name]
	return a, ok
}

// RemoveAgent unregisters an agent by name. Tasks still assigned to it fall
// back to the default agent on their next run.
func (o *Orchestrator) RemoveAgent(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.agents[name]; !ok {
		return
	}

	delete(o.agents, name)
	for i, n := range o.order {
		if n == name {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
}

// Agents returns the registered agent names in registration order.
func (o *Orchestrator) Agents() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.order))
	copy(out, o.order)
	return out
}

// Graph exposes the current task graph for task registration.
func (o *Orchestrator) Graph() *Graph {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.graph
}

// History returns the results of all completed workflows.
func (o *Orchestrator) History() []WorkflowResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]WorkflowResult, len(o.history))
	copy(out, o.history)
	return out
}

// RunSequential executes the given task IDs one by one in caller order. When
// taskIDs is empty, all registered tasks run in registration order. Each
// task's readiness is checked just before it runs; a task whose dependencies
// have not completed fails with a fixed reason and execution continues.
func (o *Orchestrator) RunSequential(ctx context.Context, taskIDs ...string) WorkflowResult {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(taskIDs) == 0 {
		taskIDs = o.graph.IDs()
	}

	start := time.Now()
	result := WorkflowResult{
		ID:         uuid.NewString(),
		TotalTasks: len(taskIDs),
		Results:    make(map[string]string),
	}

	o.logger.Info("workflow.start", "workflow", result.ID, "tasks", len(taskIDs))

	var summaryLines []string

	for _, id := range taskIDs {
		task, ok := o.graph.Get(id)
		if !ok {
			o.logger.Warn("workflow.unknown_task", "workflow", result.ID, "task", id)
			result.TasksFailed++
			summaryLines = append(summaryLines, fmt.Sprintf("[%s] FAILED: %s", id, reasonUnknownTask))
			continue
		}

		o.runTask(ctx, task)

		// Only completed tasks enter Results; failure reasons stay on the
		// task and in the summary.
		if task.Completed() {
			result.TasksCompleted++
			result.Results[id] = task.Result
			summaryLines = append(summaryLines, fmt.Sprintf("[%s] %s", id, util.Truncate(task.Result, summaryExcerpt)))
		} else {
			result.TasksFailed++
			summaryLines = append(summaryLines, fmt.Sprintf("[%s] FAILED: %s", id, util.Truncate(task.Result, summaryExcerpt)))
		}
	}

	result.Success = result.TasksFailed == 0
	result.Summary = strings.Join(summaryLines, "\n")
	result.Duration = time.Since(start)

	o.logger.Info("workflow.done",
		"workflow", result.ID,
		"completed", result.TasksCompleted,
		"failed", result.TasksFailed,
		"duration_ms", result.Duration.Milliseconds(),
	)

	o.history = append(o.history, result)
	return result
}

// runTask executes a single task against its assigned (or the default) agent.
// All failure modes are recorded on the task; nothing propagates.
func (o *Orchestrator) runTask(ctx context.Context, task *Task) {
	if !o.graph.CanRun(task.ID) {
		task.Status = StatusFailed
		task.Result = reasonDepsNotMet
		o.logger.Warn("workflow.deps_not_met", "task", task.ID)
		return
	}

	agent, ok := o.resolveAgent(task.AssignedAgent)
	if !ok {
		task.Status = StatusFailed
		task.Result = reasonNoAgents
		o.logger.Warn("workflow.no_agent", "task", task.ID, "assigned", task.AssignedAgent)
		return
	}

	task.Status = StatusRunning
	o.logger.Debug("workflow.task.start", "task", task.ID, "agent", agent.Name())

	prompt := task.Description
	if depCtx := o.graph.DependencyContext(task.ID); depCtx != "" {
		prompt = depCtx + "\n\nTask: " + task.Description
	}

	answer, err := agent.Run(ctx, prompt)
	task.CompletedAt = time.Now()

	if err != nil {
		task.Status = StatusFailed
		task.Result = "Error: " + err.Error()
		o.logger.Error("workflow.task.failed", "task", task.ID, "agent", agent.Name(), "error", err.Error())
		return
	}

	task.Status = StatusCompleted
	task.Result = answer
	o.logger.Debug("workflow.task.done", "task", task.ID, "agent", agent.Name())
}

// resolveAgent maps an assignment to a registered agent. Unassigned or unknown
// names fall back to the first registered agent.
func (o *Orchestrator) resolveAgent(name string) (Agent, bool) {
	if name != "" {
		if a, ok := o.agents[name]; ok {
			return a, true
		}
	}
	if len(o.order) == 0 {
		return nil, false
	}
	return o.agents[o.order[0]], true
}

// RunPipeline resets the graph and chains the given task descriptions as
// step_1..step_n, each depending on its predecessor, then runs them
// sequentially. Optional agentNames assign an agent to each step by position;
// steps without an assignment fall back to the default agent.
func (o *Orchestrator) RunPipeline(ctx context.Context, descriptions []string, agentNames ...string) WorkflowResult {
	o.mu.Lock()

	o.graph.Clear()

	ids := make([]string, 0, len(descriptions))
	for i, desc := range descriptions {
		id := fmt.Sprintf("step_%d", i+1)

		var deps []string
		if i > 0 {
			deps = []string{ids[i-1]}
		}

		task := NewTask(id, desc, deps...)
		if i < len(agentNames) {
			task.AssignedAgent = agentNames[i]
		}

		o.graph.AddTask(task)
		ids = append(ids, id)
	}

	o.mu.Unlock()
	return o.RunSequential(ctx, ids...)
}

// RunSingle runs one ad-hoc task on the named agent (or the default when name
// is empty) without touching the task graph.
func (o *Orchestrator) RunSingle(ctx context.Context, agentName, prompt string) WorkflowResult {
	o.mu.Lock()

	start := time.Now()
	result := WorkflowResult{
		ID:         uuid.NewString(),
		TotalTasks: 1,
		Results:    make(map[string]string),
	}

	agent, ok := o.resolveAgent(agentName)
	if !ok {
		o.mu.Unlock()
		result.TasksFailed = 1
		result.Summary = reasonNoAgents
		result.Duration = time.Since(start)
		o.appendHistory(result)
		return result
	}
	o.mu.Unlock()

	answer, err := agent.Run(ctx, prompt)
	result.Duration = time.Since(start)

	if err != nil {
		result.TasksFailed = 1
		result.Summary = "Error: " + err.Error()
	} else {
		result.Success = true
		result.TasksCompleted = 1
		result.Results["task"] = answer
		result.Summary = util.Truncate(answer, summaryExcerpt)
	}

	o.appendHistory(result)
	return result
}

// RunDebate stages a multi-round debate: each debater responds once per
// round, every contribution depending on the previous one so later speakers
// see the chain of prior arguments. Optional agentNames selects the debaters;
// by default all registered agents participate. Requires at least two.
func (o *Orchestrator) RunDebate(ctx context.Context, topic string, rounds int, agentNames ...string) WorkflowResult {
	o.mu.Lock()

	names := agentNames
	if len(names) == 0 {
		names = make([]string, len(o.order))
		copy(names, o.order)
	}

	if len(names) < 2 {
		o.mu.Unlock()
		result := WorkflowResult{
			ID:          uuid.NewString(),
			TasksFailed: 1,
			Results:     make(map[string]string),
			Summary:     reasonNeedTwoAgent,
		}
		o.appendHistory(result)
		return result
	}

	if rounds < 1 {
		rounds = 1
	}

	o.graph.Clear()

	var ids []string
	var prev string

	for round := 1; round <= rounds; round++ {
		for _, name := range names {
			id := fmt.Sprintf("round_%d_%s", round, name)

			var desc string
			var deps []string
			if prev == "" {
				desc = fmt.Sprintf("Share your perspective on: %s\nYou are starting the debate.", topic)
			} else {
				desc = fmt.Sprintf("Continue the debate on: %s\nRespond to the previous arguments. Add new insights or respectfully counter.", topic)
				deps = []string{prev}
			}

			task := NewTask(id, desc, deps...)
			task.AssignedAgent = name
			o.graph.AddTask(task)

			ids = append(ids, id)
			prev = id
		}
	}

	o.mu.Unlock()
	return o.RunSequential(ctx, ids...)
}

// Status snapshots the current task statuses keyed by task ID.
func (o *Orchestrator) Status() map[string]TaskStatus {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make(map[string]TaskStatus, o.graph.Len())
	for _, id := range o.graph.IDs() {
		if t, ok := o.graph.Get(id); ok {
			out[id] = t.Status
		}
	}
	return out
}

// Reset clears the task graph and the workflow history. Registered agents
// are kept.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.graph.Clear()
	o.history = nil
}

func (o *Orchestrator) appendHistory(result WorkflowResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.history = append(o.history, result)
}
