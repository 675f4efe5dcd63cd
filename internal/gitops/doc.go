// Package gitops implements the named git operations used by the merge workflow.
//
// Each Repository method issues one git invocation through a GitExecutor,
// inspects the ExecutionResult, and either returns a success value or an
// OperationError whose Category identifies the failure. Launch failures from
// the executor are propagated unchanged.
package gitops
