package execshell

import "strings"

// ExecutionResult captures the observable results of one completed process invocation.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// IsFailed reports whether the process exited with a non-zero status.
func (result ExecutionResult) IsFailed() bool {
	return result.ExitCode != 0
}

// CombinedOutput returns standard output immediately followed by standard error.
func (result ExecutionResult) CombinedOutput() string {
	return result.StandardOutput + result.StandardError
}

// TrimmedStandardOutput returns standard output without surrounding whitespace.
func (result ExecutionResult) TrimmedStandardOutput() string {
	return strings.TrimSpace(result.StandardOutput)
}
