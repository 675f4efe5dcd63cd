package ui

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/mergeflow/internal/execshell"
)

const (
	commandEchoMessageTemplateConstant             = "> %s"
	commandFailedExitCodeMessageTemplateConstant   = "%s exited with code %d"
	commandExecutionFailureMessageTemplateConstant = "%s could not start: %s"
	unknownFailureMessageConstant                  = "unknown error"
	emptyStringConstant                            = ""
)

// CommandEventFormatter builds the terminal transcript lines shown for each git invocation.
type CommandEventFormatter struct {
	commandFormatter execshell.CommandMessageFormatter
}

// BuildEchoMessage renders the command line the way a shell prompt would show it.
func (formatter CommandEventFormatter) BuildEchoMessage(command execshell.ShellCommand) string {
	return fmt.Sprintf(commandEchoMessageTemplateConstant, formatter.commandFormatter.FormatCommandLine(command))
}

// BuildOutputMessage returns the combined process output without surrounding whitespace.
func (formatter CommandEventFormatter) BuildOutputMessage(result execshell.ExecutionResult) string {
	return strings.TrimSpace(result.CombinedOutput())
}

// BuildFailureMessage describes a command that returned a non-zero exit code.
func (formatter CommandEventFormatter) BuildFailureMessage(command execshell.ShellCommand, result execshell.ExecutionResult) string {
	return fmt.Sprintf(commandFailedExitCodeMessageTemplateConstant, formatter.commandFormatter.FormatCommandLine(command), result.ExitCode)
}

// BuildExecutionFailureMessage describes a command whose process could not be started.
func (formatter CommandEventFormatter) BuildExecutionFailureMessage(command execshell.ShellCommand, failure error) string {
	failureMessage := unknownFailureMessageConstant
	if failure != nil {
		failureMessage = failure.Error()
	}
	return fmt.Sprintf(commandExecutionFailureMessageTemplateConstant, formatter.commandFormatter.FormatCommandLine(command), failureMessage)
}

// ConsoleCommandEventLogger echoes git invocations and their output through a message-only console logger.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter CommandEventFormatter
}

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger, formatter: CommandEventFormatter{}}
}

// CommandStarted implements execshell.CommandEventObserver by echoing the command line.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildEchoMessage(command))
}

// CommandCompleted implements execshell.CommandEventObserver by echoing captured output and any failing exit code.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	if outputMessage := eventLogger.formatter.BuildOutputMessage(result); outputMessage != emptyStringConstant {
		eventLogger.logger.Info(outputMessage)
	}
	if result.IsFailed() {
		eventLogger.logger.Warn(eventLogger.formatter.BuildFailureMessage(command, result))
	}
}

// CommandExecutionFailed implements execshell.CommandEventObserver by logging launch failures.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Error(eventLogger.formatter.BuildExecutionFailureMessage(command, failure))
}
