// Package agentflow provides a high-level façade over the agent reasoning
// loop, the tool registry, layered memory and the multi-agent orchestrator.
// Most applications interact with this package by:
//  1. Creating an AgentFlow via New() (optionally overriding the defaults)
//  2. Registering one or more agents built on a model gateway
//  3. Running single tasks, sequential workflows, pipelines or debates
//
// All defaults are safe for local development and testing: an in-memory
// layered memory, the builtin tool set and a no-op logger. Production hosts
// typically supply a structured logger and a real model provider from
// model/openai or model/anthropic.
package agentflow

import (
	"context"

	"github.com/hupe1980/agentflow/agent"
	"github.com/hupe1980/agentflow/logging"
	"github.com/hupe1980/agentflow/model"
	"github.com/hupe1980/agentflow/orchestrator"
	"github.com/hupe1980/agentflow/tool"
)

// Options configures the AgentFlow instance.
type Options struct {
	// Tools is shared by agents created through this façade unless an agent
	// brings its own registry. Defaults to the builtin set.
	Tools *tool.Registry

	// MaxSteps bounds each agent's reasoning loop (defaults to
	// agent.DefaultMaxSteps).
	MaxSteps int

	// Parser selects the response convention for created agents (defaults to
	// the marker/ReAct parser).
	Parser agent.Parser

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// AgentFlow is the high-level façade aggregating agents and the orchestrator.
type AgentFlow struct {
	opts         Options
	orchestrator *orchestrator.Orchestrator
}

// New creates a new AgentFlow instance with optional overrides.
func New(optFns ...func(o *Options)) *AgentFlow {
	opts := Options{
		MaxSteps: agent.DefaultMaxSteps,
		Logger:   logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Tools == nil {
		opts.Tools = tool.NewRegistry(func(o *tool.RegistryOptions) {
			o.Logger = opts.Logger
		})
		opts.Tools.RegisterAll(tool.Builtins()...)
	}

	o := orchestrator.New(func(oo *orchestrator.Options) {
		oo.Logger = opts.Logger
	})

	return &AgentFlow{opts: opts, orchestrator: o}
}

// NewAgent creates an agent wired with the façade's shared tools, parser and
// logger, registers it with the orchestrator and returns it.
func (f *AgentFlow) NewAgent(name, role string, llm model.Model) *agent.Agent {
	a := agent.New(name, llm, func(o *agent.Options) {
		o.Role = role
		o.Tools = f.opts.Tools
		o.MaxSteps = f.opts.MaxSteps
		o.Parser = f.opts.Parser
		o.Logger = f.opts.Logger
	})

	f.orchestrator.AddAgent(a)
	return a
}

// RegisterAgent adds an externally constructed agent to the orchestrator.
func (f *AgentFlow) RegisterAgent(a orchestrator.Agent) {
	f.orchestrator.AddAgent(a)
}

// Tools exposes the shared tool registry for host-side registration.
func (f *AgentFlow) Tools() *tool.Registry { return f.opts.Tools }

// Orchestrator exposes the underlying orchestrator for task graph access.
func (f *AgentFlow) Orchestrator() *orchestrator.Orchestrator { return f.orchestrator }

// Run executes one ad-hoc task on the named agent (empty name selects the
// first registered agent).
func (f *AgentFlow) Run(ctx context.Context, agentName, task string) orchestrator.WorkflowResult {
	return f.orchestrator.RunSingle(ctx, agentName, task)
}

// RunPipeline chains the given task descriptions into a linear workflow,
// each step seeing the previous step's result. Optional agentNames assign an
// agent per step by position.
func (f *AgentFlow) RunPipeline(ctx context.Context, descriptions []string, agentNames ...string) orchestrator.WorkflowResult {
	return f.orchestrator.RunPipeline(ctx, descriptions, agentNames...)
}

// RunDebate stages a multi-round debate between the named agents, or all
// registered agents when none are given.
func (f *AgentFlow) RunDebate(ctx context.Context, topic string, rounds int, agentNames ...string) orchestrator.WorkflowResult {
	return f.orchestrator.RunDebate(ctx, topic, rounds, agentNames...)
}
