package model

import (
	"context"
	"fmt"
	"sync"
)

// Message roles understood by every provider adapter.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of an ordered conversation transcript.
// Unified across vendors so downstream logic does not need per-provider branching.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SystemMessage builds a system role message.
func SystemMessage(content string) Message { return Message{Role: RoleSystem, Content: content} }

// UserMessage builds a user role message.
func UserMessage(content string) Message { return Message{Role: RoleUser, Content: content} }

// AssistantMessage builds an assistant role message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// Config carries provider-agnostic generation settings. API keys are resolved
// by the host at the composition boundary (environment, secret store, ...);
// adapters never read the environment themselves beyond what their SDK does
// when no explicit key is supplied.
type Config struct {
	Provider    string  // "openai", "anthropic", "mock", ...
	Model       string  // provider specific model identifier
	APIKey      string  // optional explicit key; empty defers to the SDK default chain
	BaseURL     string  // optional endpoint override
	Temperature float64 // sampling temperature
	MaxTokens   int64   // maximum completion tokens
}

// DefaultConfig returns a baseline configuration suitable for local testing.
func DefaultConfig() Config {
	return Config{
		Provider:    "mock",
		Temperature: 0.7,
		MaxTokens:   2048,
	}
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// Model is the minimal gateway interface required to drive an agent loop.
// Chat sends the full ordered transcript and returns a single assistant reply.
// Implementations must wrap any failure to obtain a reply (network, timeout,
// malformed response) in *TransportError.
type Model interface {
	Chat(ctx context.Context, messages []Message) (string, error)

	// Info returns information about the model implementation.
	Info() Info
}

// TransportError wraps any failure to obtain a reply from a model provider.
// Agent loops treat it as a terminal condition for the current run, degrading
// to a partial result instead of propagating it.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("model transport error (%s): %v", e.Provider, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As chains.
func (e *TransportError) Unwrap() error { return e.Err }

// NewTransportError wraps err with provider context.
func NewTransportError(provider string, err error) *TransportError {
	return &TransportError{Provider: provider, Err: err}
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Replies are keyed by the content of the last message in the transcript.
type MockModel struct {
	mu        sync.RWMutex
	info      Info
	responses map[string]string
}

// NewMockModel constructs a MockModel.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: "mock"},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// Chat implements Model. Unknown prompts yield a generic echo reply.
func (m *MockModel) Chat(_ context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", NewTransportError("mock", fmt.Errorf("no messages provided"))
	}

	last := messages[len(messages)-1].Content

	m.mu.RLock()
	defer m.mu.RUnlock()

	if reply, ok := m.responses[last]; ok {
		return reply, nil
	}

	return fmt.Sprintf("Mock response to: %s", last), nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }

// ScriptedModel replays a fixed sequence of replies regardless of input. Once
// the script is exhausted it keeps returning the last entry, so loop tests can
// rely on deterministic step counts.
type ScriptedModel struct {
	mu      sync.Mutex
	info    Info
	script  []string
	pos     int
	calls   int
	failErr error
}

// NewScriptedModel constructs a ScriptedModel from an ordered reply script.
func NewScriptedModel(replies ...string) *ScriptedModel {
	return &ScriptedModel{
		info:   Info{Name: "scripted", Provider: "mock"},
		script: replies,
	}
}

// FailWith makes every subsequent Chat call return the given error wrapped as
// a TransportError.
func (m *ScriptedModel) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

// Calls reports how many Chat invocations the model has served.
func (m *ScriptedModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Chat implements Model.
func (m *ScriptedModel) Chat(_ context.Context, _ []Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++

	if m.failErr != nil {
		return "", NewTransportError("mock", m.failErr)
	}

	if len(m.script) == 0 {
		return "", nil
	}

	reply := m.script[m.pos]
	if m.pos < len(m.script)-1 {
		m.pos++
	}

	return reply, nil
}

// Info implements Model.
func (m *ScriptedModel) Info() Info { return m.info }
