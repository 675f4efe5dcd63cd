package execshell

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

const (
	commandGitNameConstant                     = "git"
	loggerNotConfiguredMessageConstant         = "shell executor logger not configured"
	commandRunnerNotConfiguredMessageConstant  = "shell executor command runner not configured"
	executableNotFoundMessageConstant          = "executable not found"
	commandExecutionErrorTemplateConstant      = "unable to start %s: %v"
	executableNotFoundWrapTemplateConstant     = "%w: %w"
	commandLineTemplateConstant                = "%s %s"
	logFieldCommandNameConstant                = "command_name"
	logFieldCommandLineConstant                = "command_line"
	logFieldWorkingDirectoryConstant           = "working_directory"
	logFieldExitCodeConstant                   = "exit_code"
	logFieldOutputConstant                     = "output"
	logFieldArgumentCountConstant              = "argument_count"
	logFieldDiscardedArgumentCountConstant     = "discarded_argument_count"
	discardedArgumentsDebugMessageConstant     = "discarded empty command arguments"
	commandArgumentsLogJoinSeparatorConstant   = " "
	executionFailureLogCommandFallbackConstant = "command"
)

// CommandName identifies an external executable.
type CommandName string

// CommandGit runs the git executable resolved from PATH.
const CommandGit CommandName = CommandName(commandGitNameConstant)

// CommandDetails describes a single invocation of an executable.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand combines an executable name with invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// CommandRunner spawns processes for shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// ErrLoggerNotConfigured indicates the executor was constructed without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCommandRunnerNotConfigured indicates the executor was constructed without a runner.
var ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)

// ErrExecutableNotFound indicates the executable could not be resolved from PATH.
var ErrExecutableNotFound = errors.New(executableNotFoundMessageConstant)

// CommandExecutionError reports that a process could not be started at all.
// A process that starts and exits with a non-zero status never produces this error.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the launch failure.
func (executionError CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, formatCommandLine(executionError.Command), executionError.Cause)
}

// Unwrap exposes the underlying launch failure.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}

// ShellExecutor runs commands through a CommandRunner and records every invocation.
type ShellExecutor struct {
	logger    *zap.Logger
	runner    CommandRunner
	observer  CommandEventObserver
	formatter CommandMessageFormatter
}

// NewShellExecutor constructs an executor that logs through the provided logger.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner) (*ShellExecutor, error) {
	return NewShellExecutorWithObserver(logger, runner, nil)
}

// NewShellExecutorWithObserver constructs an executor that additionally notifies observer about command lifecycle events.
func NewShellExecutorWithObserver(logger *zap.Logger, runner CommandRunner, observer CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	if observer == nil {
		observer = noopCommandEventObserver{}
	}
	return &ShellExecutor{
		logger:    logger,
		runner:    runner,
		observer:  observer,
		formatter: CommandMessageFormatter{},
	}, nil
}

// Execute runs the command and returns its result. Non-zero exit codes are returned as results,
// not errors; an error is returned only when the process could not be started.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	sanitizedArguments := sanitizeArguments(command.Details.Arguments)
	if discarded := len(command.Details.Arguments) - len(sanitizedArguments); discarded > 0 {
		executor.logger.Debug(discardedArgumentsDebugMessageConstant, zap.Int(logFieldDiscardedArgumentCountConstant, discarded))
	}
	command.Details.Arguments = sanitizedArguments

	commandFields := []zap.Field{
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.String(logFieldCommandLineConstant, formatCommandLine(command)),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
		zap.Int(logFieldArgumentCountConstant, len(command.Details.Arguments)),
	}

	executor.logger.Info(executor.formatter.BuildStartedMessage(command), commandFields...)
	executor.observer.CommandStarted(command)

	executionResult, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		executionError := newCommandExecutionError(command, runError)
		executor.logger.Error(
			executor.formatter.BuildExecutionFailureMessage(command, executionError.Cause),
			append(commandFields, zap.Error(executionError.Cause))...,
		)
		executor.observer.CommandExecutionFailed(command, executionError)
		return ExecutionResult{}, executionError
	}

	resultFields := append(commandFields,
		zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
		zap.String(logFieldOutputConstant, executionResult.CombinedOutput()),
	)
	if executionResult.IsFailed() {
		executor.logger.Warn(executor.formatter.BuildFailureMessage(command, executionResult), resultFields...)
	} else {
		executor.logger.Info(executor.formatter.BuildSuccessMessage(command), resultFields...)
	}
	executor.observer.CommandCompleted(command, executionResult)

	return executionResult, nil
}

// ExecuteGit runs git with the provided details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

func newCommandExecutionError(command ShellCommand, runError error) CommandExecutionError {
	cause := runError
	if errors.Is(runError, exec.ErrNotFound) && !errors.Is(runError, ErrExecutableNotFound) {
		cause = fmt.Errorf(executableNotFoundWrapTemplateConstant, ErrExecutableNotFound, runError)
	}
	return CommandExecutionError{Command: command, Cause: cause}
}

func sanitizeArguments(arguments []string) []string {
	sanitized := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		if len(strings.TrimSpace(argument)) == 0 {
			continue
		}
		sanitized = append(sanitized, argument)
	}
	return sanitized
}

func formatCommandLine(command ShellCommand) string {
	commandName := strings.TrimSpace(string(command.Name))
	if len(commandName) == 0 {
		commandName = executionFailureLogCommandFallbackConstant
	}
	if len(command.Details.Arguments) == 0 {
		return commandName
	}
	return fmt.Sprintf(commandLineTemplateConstant, commandName, strings.Join(command.Details.Arguments, commandArgumentsLogJoinSeparatorConstant))
}
