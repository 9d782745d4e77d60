// Package tool implements the action dispatch subsystem that lets agents
// invoke named capabilities (computations, file access, side effects) with
// consistent error handling. The Registry maps names to Tool implementations
// and guarantees that every invocation returns a Result value; tool failures
// never surface as errors or panics to the agent loop.
package tool
