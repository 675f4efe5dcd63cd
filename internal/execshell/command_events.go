package execshell

// CommandEventObserver receives lifecycle notifications for every command the ShellExecutor runs.
// Implementations must not retain the command details beyond the call.
type CommandEventObserver interface {
	// CommandStarted is invoked before the process is spawned.
	CommandStarted(command ShellCommand)
	// CommandCompleted is invoked once the process exited and both output streams were drained.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed is invoked when the process could not be started.
	CommandExecutionFailed(command ShellCommand, failure error)
}

type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
