package agent

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// FinishKeyword is the terminal action name that ends a run.
const FinishKeyword = "FINISH"

// Parser turns one raw assistant reply into a structured Step. Parsing never
// fails: untrusted model output degrades to a step without an action (marker
// mode) or to a final answer (JSON mode), and the loop decides how to react.
type Parser interface {
	// Parse extracts a Step from the reply. Implementations must guarantee a
	// non-empty FinalAnswer whenever IsFinal is set.
	Parse(reply string, stepNumber int) Step

	// Instructions returns the response-format block for the system prompt
	// matching this parser's expectations.
	Instructions() string
}

var (
	thoughtRe = regexp.MustCompile(`(?is)THOUGHT:\s*(.+?)(?:ACTION:|$)`)
	actionRe  = regexp.MustCompile(`(?i)ACTION:\s*(\w+)`)
	inputRe   = regexp.MustCompile(`(?i)ACTION_INPUT:`)
)

// MarkerParser implements the ReAct convention: THOUGHT / ACTION /
// ACTION_INPUT markers (case-insensitive) with a FINISH terminal action.
type MarkerParser struct{}

// NewMarkerParser creates a MarkerParser.
func NewMarkerParser() *MarkerParser { return &MarkerParser{} }

// Parse implements Parser.
func (p *MarkerParser) Parse(reply string, stepNumber int) Step {
	step := Step{Number: stepNumber}

	if m := thoughtRe.FindStringSubmatch(reply); m != nil {
		step.Thought = strings.TrimSpace(m[1])
	}

	if m := actionRe.FindStringSubmatch(reply); m != nil {
		step.Action = strings.TrimSpace(m[1])
	}

	if raw, ok := extractActionInput(reply); ok {
		if input, ok := decodeObject(raw); ok {
			step.ActionInput = input
		} else {
			step.ActionInput = map[string]string{RawInputKey: raw}
		}
	}

	if strings.EqualFold(step.Action, FinishKeyword) {
		step.IsFinal = true
		step.Action = ""

		if answer, ok := step.ActionInput["answer"]; ok && answer != "" {
			step.FinalAnswer = answer
		} else if step.Thought != "" {
			step.FinalAnswer = step.Thought
		} else {
			step.FinalAnswer = reply
		}
	}

	return step
}

// Instructions implements Parser.
func (p *MarkerParser) Instructions() string {
	return `## How to respond:

For EACH step, you MUST use this EXACT format:

THOUGHT: [Your reasoning about what to do next]
ACTION: [tool_name]
ACTION_INPUT: {"param": "value"}

When you have the final answer, use:

THOUGHT: [Your final reasoning]
ACTION: FINISH
ACTION_INPUT: {"answer": "Your complete final answer here"}

## Rules:
1. ALWAYS start with THOUGHT
2. Use tools when you need real data
3. You can use multiple tools in sequence
4. ALWAYS end with ACTION: FINISH
5. If a tool fails, try a different approach`
}

// extractActionInput locates the first balanced JSON object following the
// ACTION_INPUT marker. Balance tracking respects strings and escapes, so
// nested objects and braces inside values are handled.
func extractActionInput(reply string) (string, bool) {
	loc := inputRe.FindStringIndex(reply)
	if loc == nil {
		return "", false
	}

	rest := reply[loc[1]:]
	start := strings.IndexByte(rest, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(rest); i++ {
		c := rest[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return rest[start : i+1], true
			}
		}
	}

	// Unbalanced: hand back the tail so the raw fallback preserves it.
	return rest[start:], true
}

// decodeObject flattens a JSON object into string-valued parameters. Non-string
// scalar values keep their textual form; nested structures keep raw JSON.
func decodeObject(raw string) (map[string]string, bool) {
	if !gjson.Valid(raw) {
		return nil, false
	}

	parsed := gjson.Parse(raw)
	if !parsed.IsObject() {
		return nil, false
	}

	out := make(map[string]string)
	parsed.ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.String {
			out[key.String()] = value.String()
		} else {
			out[key.String()] = value.Raw
		}
		return true
	})
	return out, true
}

// JSONParser implements the simple convention used by prompt styles that ask
// for a bare JSON object per reply: {"action": "tool"|"answer"|"think", ...}.
// Decoding degrades in stages: strict parse of the whole reply, then the
// first-{ to last-} substring, then the entire reply as a final answer.
type JSONParser struct{}

// NewJSONParser creates a JSONParser.
func NewJSONParser() *JSONParser { return &JSONParser{} }

// Parse implements Parser.
func (p *JSONParser) Parse(reply string, stepNumber int) Step {
	candidate := strings.TrimSpace(reply)

	if obj, ok := parseObject(candidate); ok {
		return stepFromObject(obj, reply, stepNumber)
	}

	start := strings.IndexByte(candidate, '{')
	end := strings.LastIndexByte(candidate, '}')
	if start >= 0 && end > start {
		if obj, ok := parseObject(candidate[start : end+1]); ok {
			return stepFromObject(obj, reply, stepNumber)
		}
	}

	return Step{Number: stepNumber, IsFinal: true, FinalAnswer: reply}
}

// Instructions implements Parser.
func (p *JSONParser) Instructions() string {
	return `To use a tool, respond with EXACTLY this JSON format:
{"action": "tool", "tool_name": "tool_name_here", "parameters": {"param1": "value1"}}

When you have the final answer:
{"action": "answer", "content": "your final answer here"}

When you need to think:
{"action": "think", "content": "your thought process"}

Rules:
1. Always respond with valid JSON
2. Think before answering
3. If you don't know, say so honestly
4. Use tools when they can help`
}

func parseObject(candidate string) (gjson.Result, bool) {
	if !gjson.Valid(candidate) {
		return gjson.Result{}, false
	}
	parsed := gjson.Parse(candidate)
	if !parsed.IsObject() {
		return gjson.Result{}, false
	}
	return parsed, true
}

func stepFromObject(obj gjson.Result, reply string, stepNumber int) Step {
	step := Step{Number: stepNumber}

	switch obj.Get("action").String() {
	case "tool":
		step.Action = obj.Get("tool_name").String()
		if params := obj.Get("parameters"); params.IsObject() {
			input, _ := decodeObject(params.Raw)
			step.ActionInput = input
		}
		step.Thought = obj.Get("content").String()
	case "think":
		step.Thought = obj.Get("content").String()
	default:
		// "answer" or anything unrecognized terminates with the content,
		// falling back to the raw reply.
		step.IsFinal = true
		step.FinalAnswer = obj.Get("content").String()
		if step.FinalAnswer == "" {
			step.FinalAnswer = reply
		}
	}

	return step
}
