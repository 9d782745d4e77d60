// Package agent implements the reasoning-loop state machine: a model-driven
// think -> act -> observe cycle that parses free-form replies into structured
// steps, dispatches tool invocations and terminates on a FINISH action or
// step exhaustion. Two response conventions are supported behind the Parser
// interface: marker-delimited (MarkerParser, the ReAct style) and bare-JSON
// (JSONParser).
package agent
