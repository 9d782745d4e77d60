package tool

import (
	"context"
	"fmt"
)

// Error codes attached to ToolError for uniform downstream handling.
const (
	// CodeNotFound marks an invocation of a name absent from the registry.
	CodeNotFound = "TOOL_NOT_FOUND"
	// CodeExecution marks a failure raised by the tool implementation itself.
	CodeExecution = "EXECUTION_ERROR"
)

// Tool defines the interface for extending agent capabilities with external functions.
//
// Tools are registered with a Registry to enable structured action dispatch:
// an agent loop resolves a model-requested action name against the registry
// and feeds the textual result back into its reasoning transcript.
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions (snake_case recommended)
//   - Define a JSON-Schema-like parameter map for LLM guidance
//   - Be thread-safe if used concurrently
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description of what this tool does.
	// This description is provided to the LLM to help it understand when and how to use the tool.
	Description() string

	// Parameters returns a JSON-Schema-like map describing the expected arguments.
	Parameters() map[string]any

	// Call executes the tool with string arguments parsed from the model's
	// action input. The returned string becomes the agent's observation.
	Call(ctx context.Context, args map[string]string) (string, error)
}

// ToolError represents errors that occur during tool lookup or execution.
type ToolError struct {
	Tool    string `json:"tool"`    // Name of the tool that failed
	Message string `json:"message"` // Error message
	Code    string `json:"code"`    // Error code for categorization
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}

// Result is the value returned by every Registry.Invoke call. Invocation never
// surfaces a Go error or panic to the caller; failures are carried in Error.
type Result struct {
	Success bool   `json:"success"`
	Output  string `json:"output"`
	Error   string `json:"error,omitempty"`
}
