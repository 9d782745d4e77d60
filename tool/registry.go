package tool

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/agentflow/logging"
)

// RegistryOptions configures a Registry instance.
type RegistryOptions struct {
	// Logger receives invocation telemetry. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Registry owns the set of tools available to an agent. Registration uses
// last-write-wins semantics by name; registration order is preserved for
// display purposes only and never affects dispatch.
//
// Concurrency: protected by RWMutex; Invoke is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	tools  map[string]Tool
	logger logging.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Registry{
		tools:  make(map[string]Tool),
		logger: opts.Logger,
	}
}

// Register inserts or overwrites a tool by name. Overwriting keeps the name's
// original display position.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
}

// RegisterAll registers multiple tools in order.
func (r *Registry) RegisterAll(tools ...Tool) {
	for _, t := range tools {
		r.Register(t)
	}
}

// Lookup returns the tool registered under name, if any. Pure read.
func (r *Registry) Lookup(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Names returns all registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len reports the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Describe renders a human-readable tool listing for inclusion in a system
// prompt, one line per tool in registration order.
func (r *Registry) Describe() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lines := []string{"Available Tools:"}
	for _, name := range r.order {
		lines = append(lines, fmt.Sprintf("  - %s: %s", name, r.tools[name].Description()))
	}
	return strings.Join(lines, "\n")
}

// Invoke executes the named tool and always returns a Result; it never returns
// a Go error and recovers panics raised by tool implementations. Unknown names
// yield a TOOL_NOT_FOUND failure, implementation failures an EXECUTION_ERROR.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]string) (res Result) {
	tool, ok := r.Lookup(name)
	if !ok {
		err := NewToolError(name, fmt.Sprintf("tool %q not found", name), CodeNotFound)
		r.logger.Warn("tool.invoke.not_found", "tool", name)
		return Result{Success: false, Error: err.Error()}
	}

	defer func() {
		if rec := recover(); rec != nil {
			err := NewToolError(name, fmt.Sprintf("panic: %v", rec), CodeExecution)
			r.logger.Error("tool.invoke.panic", "tool", name, "panic", fmt.Sprintf("%v", rec))
			res = Result{Success: false, Error: err.Error()}
		}
	}()

	start := time.Now()

	output, err := tool.Call(ctx, args)
	if err != nil {
		if toolErr, ok := err.(*ToolError); ok {
			r.logger.Error("tool.invoke.error", "tool", name, "error", toolErr.Message)
			return Result{Success: false, Error: toolErr.Error()}
		}

		wrapped := NewToolError(name, err.Error(), CodeExecution)
		r.logger.Error("tool.invoke.error", "tool", name, "error", err.Error())
		return Result{Success: false, Error: wrapped.Error()}
	}

	r.logger.Info("tool.invoke.success", "tool", name, "duration_ms", time.Since(start).Milliseconds())

	return Result{Success: true, Output: output}
}
