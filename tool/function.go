package tool

import "context"

// FuncTool is a generic adapter that exposes a plain Go function as a Tool.
//
// A FuncTool has no internal mutable state after construction and is safe for
// concurrent use by multiple goroutines. The parameters map should follow the
// minimal JSON-Schema shape used across the project (type, properties,
// required).
type FuncTool struct {
	name        string
	description string
	parameters  map[string]any
	fn          func(ctx context.Context, args map[string]string) (string, error)
}

// NewFuncTool constructs a FuncTool from explicit schema and function.
//
// Example:
//
//	echo := NewFuncTool(
//	  "echo",
//	  "Echo the input back",
//	  map[string]any{
//	    "type": "object",
//	    "properties": map[string]any{
//	      "text": map[string]any{"type": "string", "description": "Text to echo"},
//	    },
//	    "required": []string{"text"},
//	  },
//	  func(_ context.Context, args map[string]string) (string, error) {
//	    return args["text"], nil
//	  },
//	)
func NewFuncTool(
	name, description string,
	parameters map[string]any,
	fn func(ctx context.Context, args map[string]string) (string, error),
) *FuncTool {
	return &FuncTool{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          fn,
	}
}

// Name returns the unique tool name used in action dispatch.
func (t *FuncTool) Name() string { return t.name }

// Description returns the short natural language description exposed to models.
func (t *FuncTool) Description() string { return t.description }

// Parameters returns the (minimal) JSON schema describing expected arguments.
func (t *FuncTool) Parameters() map[string]any { return t.parameters }

// Call invokes the wrapped function.
func (t *FuncTool) Call(ctx context.Context, args map[string]string) (string, error) {
	return t.fn(ctx, args)
}
