package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hupe1980/agentflow/internal/util"
	"github.com/hupe1980/agentflow/logging"
	"github.com/hupe1980/agentflow/memory"
	"github.com/hupe1980/agentflow/model"
	"github.com/hupe1980/agentflow/tool"
)

// DefaultMaxSteps bounds the reasoning loop when no explicit limit is set.
const DefaultMaxSteps = 10

// memoryExcerpt bounds how much of a tool result or answer is remembered.
const memoryExcerpt = 500

// Fallback strings returned when a run cannot produce a real answer. The loop
// never returns an empty string or an error for loop-internal failures.
const (
	fallbackNoResult   = "No result"
	fallbackIncomplete = "Could not complete the task"
	fallbackNoReply    = "I couldn't generate a response."
)

// Memory is the context collaborator consumed by the loop: it seeds each run
// with prior context and records completed interactions.
type Memory interface {
	Remember(content, category string, importance float64)
	GetContext() string
}

// Options configures an Agent instance.
type Options struct {
	// Role describes the agent's purpose; included in the system prompt.
	Role string
	// Tools is the action catalog. Defaults to a registry with the builtin set.
	Tools *tool.Registry
	// Memory seeds and records run context. Defaults to an in-memory Manager.
	Memory Memory
	// MaxSteps bounds the think/act/observe loop (default DefaultMaxSteps).
	MaxSteps int
	// Parser selects the response convention (default MarkerParser).
	Parser Parser
	// Logger receives run telemetry. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Agent drives the think -> act -> observe cycle against a model gateway and
// a tool registry, accumulating a step history per run.
//
// An agent never executes two runs concurrently; Run and Chat serialize on an
// internal mutex. The conversation transcript is rebuilt for every Run call,
// while memory persists across runs.
type Agent struct {
	mu       sync.Mutex
	name     string
	role     string
	llm      model.Model
	tools    *tool.Registry
	memory   Memory
	maxSteps int
	parser   Parser
	logger   logging.Logger
	history  []Step
}

// New creates an Agent with sensible defaults: the builtin tool set, an
// in-memory memory manager, the marker (ReAct) parser and a 10-step budget.
func New(name string, llm model.Model, optFns ...func(o *Options)) *Agent {
	opts := Options{
		Role:     "A helpful AI assistant",
		MaxSteps: DefaultMaxSteps,
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Tools == nil {
		opts.Tools = tool.NewRegistry()
		opts.Tools.RegisterAll(tool.Builtins()...)
	}
	if opts.Memory == nil {
		opts.Memory = memory.NewManager()
	}
	if opts.Parser == nil {
		opts.Parser = NewMarkerParser()
	}
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = DefaultMaxSteps
	}

	return &Agent{
		name:     name,
		role:     opts.Role,
		llm:      llm,
		tools:    opts.Tools,
		memory:   opts.Memory,
		maxSteps: opts.MaxSteps,
		parser:   opts.Parser,
		logger:   opts.Logger,
	}
}

// Name returns the agent's name.
func (a *Agent) Name() string { return a.name }

// Role returns the agent's role description.
func (a *Agent) Role() string { return a.role }

// Tools exposes the agent's tool registry for host-side registration.
func (a *Agent) Tools() *tool.Registry { return a.tools }

// Run executes the reasoning loop on a task and returns the final answer.
//
// The loop degrades instead of failing: transport errors terminate the run
// early with a partial result, unknown tools become corrective observations,
// unparseable replies trigger a format reminder, and step exhaustion returns
// the last recorded thought. The returned error is always nil; the signature
// keeps the scheduler boundary able to isolate misbehaving implementations.
func (a *Agent) Run(ctx context.Context, task string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.logger.Info("agent.run.start", "agent", a.name, "task", util.Truncate(task, 120))

	a.memory.Remember("Task: "+task, "task", 0.8)

	messages := []model.Message{
		model.SystemMessage(a.systemPrompt()),
		model.UserMessage(a.userPrompt(task)),
	}

	a.history = nil

	for stepNum := 1; stepNum <= a.maxSteps; stepNum++ {
		reply, err := a.llm.Chat(ctx, messages)
		if err != nil {
			a.logger.Error("agent.run.transport_error", "agent", a.name, "step", stepNum, "error", err.Error())
			break
		}
		if reply == "" {
			a.logger.Warn("agent.run.empty_reply", "agent", a.name, "step", stepNum)
			break
		}

		step := a.parser.Parse(reply, stepNum)

		if step.IsFinal {
			a.history = append(a.history, step)
			a.logger.Info("agent.run.final", "agent", a.name, "steps", stepNum)
			a.memory.Remember(
				"Completed: "+task+" -> "+util.Truncate(step.FinalAnswer, memoryExcerpt),
				"answer", 0.9,
			)
			return step.FinalAnswer, nil
		}

		if step.Action != "" {
			step.Observation = a.executeAction(ctx, &step)
			a.history = append(a.history, step)

			messages = append(messages,
				model.AssistantMessage(reply),
				model.UserMessage("OBSERVATION: "+step.Observation+"\n\nContinue your reasoning."),
			)
			continue
		}

		// No action parsed: recoverable, ask the model to retry the format.
		a.history = append(a.history, step)
		a.logger.Debug("agent.run.format_retry", "agent", a.name, "step", stepNum)
		messages = append(messages,
			model.AssistantMessage(reply),
			model.UserMessage("Please follow the expected response format:\n\n"+a.parser.Instructions()),
		)
	}

	a.logger.Warn("agent.run.exhausted", "agent", a.name, "steps", len(a.history))

	if len(a.history) == 0 {
		return fallbackNoResult, nil
	}

	last := a.history[len(a.history)-1]
	if last.FinalAnswer != "" {
		return last.FinalAnswer, nil
	}
	if last.Thought != "" {
		return last.Thought, nil
	}
	return fallbackIncomplete, nil
}

// executeAction resolves and invokes the step's tool, returning the textual
// observation fed back to the model. Tool names are lowercased before lookup
// so models that capitalize a name still dispatch. A missing tool is a
// recoverable step, not a failure: the observation lists the known names
// instead.
func (a *Agent) executeAction(ctx context.Context, step *Step) string {
	name := strings.ToLower(step.Action)

	if _, ok := a.tools.Lookup(name); !ok {
		a.logger.Warn("agent.run.unknown_tool", "agent", a.name, "tool", name)
		return fmt.Sprintf(
			"Tool %q not found. Available tools: %s",
			step.Action, strings.Join(a.tools.Names(), ", "),
		)
	}

	res := a.tools.Invoke(ctx, name, step.ActionInput)
	if !res.Success {
		a.memory.Remember("Tool "+name+" failed: "+util.Truncate(res.Error, memoryExcerpt), "tool_result", 0.5)
		return "Error: " + res.Error
	}

	a.memory.Remember("Tool "+name+": "+util.Truncate(res.Output, memoryExcerpt), "tool_result", 0.5)
	return "Result: " + res.Output
}

// Chat is the reduced path bypassing the action loop: one gateway call with
// identity, role and memory context as the system prompt.
func (a *Agent) Chat(ctx context.Context, message string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.memory.Remember("User: "+message, "conversation", 0.5)

	messages := []model.Message{
		model.SystemMessage(fmt.Sprintf("You are %s, %s.\n%s", a.name, a.role, a.memory.GetContext())),
		model.UserMessage(message),
	}

	reply, err := a.llm.Chat(ctx, messages)
	if err != nil {
		a.logger.Error("agent.chat.transport_error", "agent", a.name, "error", err.Error())
		return fallbackNoReply, nil
	}
	if reply == "" {
		return fallbackNoReply, nil
	}

	a.memory.Remember("Assistant: "+util.Truncate(reply, memoryExcerpt), "conversation", 0.5)
	return reply, nil
}

// History returns a copy of the last run's steps.
func (a *Agent) History() []Step {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Step, len(a.history))
	copy(out, a.history)
	return out
}

// Reset clears the run history and, when the memory implementation supports
// it, the short-term memory.
func (a *Agent) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.history = nil
	if resettable, ok := a.memory.(interface{ Reset() }); ok {
		resettable.Reset()
	}
}

func (a *Agent) systemPrompt() string {
	return fmt.Sprintf(
		"You are %s, %s.\n\n%s\n\n%s",
		a.name, a.role, a.tools.Describe(), a.parser.Instructions(),
	)
}

func (a *Agent) userPrompt(task string) string {
	return fmt.Sprintf(
		"Task: %s\n\n%s\n\nBegin your reasoning. Work step by step until done.",
		task, a.memory.GetContext(),
	)
}
