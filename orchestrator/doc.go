// Package orchestrator coordinates multiple agents over dependency-annotated
// task graphs. Execution is deliberately simple: tasks run one at a time in
// the order the caller supplies, each guarded by a readiness check on its
// dependencies. Failures are isolated per task and aggregated into a
// WorkflowResult instead of aborting the workflow.
package orchestrator
