package agent

// Step is one entry in an agent's reasoning chain. Steps are created by a
// Parser, enriched with an observation after tool execution and then appended
// to the run history; they are never mutated afterwards.
type Step struct {
	// Number is 1-based and monotonic within a run.
	Number int `json:"step"`
	// Thought is the model's free-form reasoning text (possibly empty).
	Thought string `json:"thought"`
	// Action is the requested tool name; empty means no action was parsed.
	Action string `json:"action,omitempty"`
	// ActionInput carries the parsed action parameters. When the model emitted
	// malformed JSON the raw text is preserved under the RawInputKey sentinel.
	ActionInput map[string]string `json:"action_input,omitempty"`
	// Observation is the textual tool result fed back to the model.
	Observation string `json:"observation,omitempty"`
	// IsFinal marks the terminal step of a run.
	IsFinal bool `json:"is_final"`
	// FinalAnswer is present iff IsFinal; parsers guarantee it is non-empty.
	FinalAnswer string `json:"final_answer,omitempty"`
}

// RawInputKey is the sentinel ActionInput key holding unparseable action input
// text, so malformed model output is preserved instead of discarded.
const RawInputKey = "raw"
