package tool

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoTool(name string) Tool {
	return NewFuncTool(name, "Echo the text argument", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{"type": "string"},
		},
		"required": []string{"text"},
	}, func(_ context.Context, args map[string]string) (string, error) {
		return args["text"], nil
	})
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewRegistry()
	reg.Register(echoTool("echo"))

	got, ok := reg.Lookup("echo")
	require.True(t, ok)
	assert.Equal(t, "echo", got.Name())

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistry_OverwriteKeepsOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Register(echoTool("a"))
	reg.Register(echoTool("b"))

	replacement := NewFuncTool("a", "Replacement", map[string]any{"type": "object"},
		func(_ context.Context, _ map[string]string) (string, error) {
			return "replaced", nil
		})
	reg.Register(replacement)

	assert.Equal(t, []string{"a", "b"}, reg.Names())

	res := reg.Invoke(context.Background(), "a", nil)
	require.True(t, res.Success)
	assert.Equal(t, "replaced", res.Output)
}

func TestRegistry_InvokeNotFound(t *testing.T) {
	reg := NewRegistry()

	res := reg.Invoke(context.Background(), "nonexistent", map[string]string{})
	assert.False(t, res.Success)
	assert.Empty(t, res.Output)
	assert.Contains(t, res.Error, CodeNotFound)
	assert.Contains(t, res.Error, "nonexistent")
}

func TestRegistry_InvokeExecutionError(t *testing.T) {
	reg := NewRegistry()
	reg.Register(NewFuncTool("boom", "Always fails", map[string]any{"type": "object"},
		func(_ context.Context, _ map[string]string) (string, error) {
			return "", errors.New("kaboom")
		}))

	res := reg.Invoke(context.Background(), "boom", nil)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, CodeExecution)
	assert.Contains(t, res.Error, "kaboom")
}

func TestRegistry_InvokeToolErrorPassthrough(t *testing.T) {
	reg := NewRegistry()
	reg.Register(NewFuncTool("custom", "Fails with custom code", map[string]any{"type": "object"},
		func(_ context.Context, _ map[string]string) (string, error) {
			return "", NewToolError("custom", "quota exceeded", "RATE_LIMITED")
		}))

	res := reg.Invoke(context.Background(), "custom", nil)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "RATE_LIMITED")
	assert.Contains(t, res.Error, "quota exceeded")
}

func TestRegistry_InvokeRecoversPanic(t *testing.T) {
	reg := NewRegistry()
	reg.Register(NewFuncTool("panicky", "Panics", map[string]any{"type": "object"},
		func(_ context.Context, _ map[string]string) (string, error) {
			panic("unexpected state")
		}))

	var res Result
	assert.NotPanics(t, func() {
		res = reg.Invoke(context.Background(), "panicky", nil)
	})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, CodeExecution)
	assert.Contains(t, res.Error, "unexpected state")
}

func TestRegistry_Describe(t *testing.T) {
	reg := NewRegistry()
	for i := 0; i < 3; i++ {
		reg.Register(echoTool(fmt.Sprintf("tool_%d", i)))
	}

	desc := reg.Describe()
	assert.Contains(t, desc, "Available Tools:")
	// Registration order preserved in the listing.
	assert.Regexp(t, `(?s)tool_0.*tool_1.*tool_2`, desc)
}
