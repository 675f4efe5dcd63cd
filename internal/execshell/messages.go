package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	optionPrefixConstant                    = "-"
)

const (
	gitRevParseSubcommandNameConstant   = "rev-parse"
	gitWorkTreeFlagConstant             = "--is-inside-work-tree"
	gitVerifyFlagConstant               = "--verify"
	gitStatusSubcommandNameConstant     = "status"
	gitCheckoutSubcommandNameConstant   = "checkout"
	gitBranchSubcommandNameConstant     = "branch"
	gitShowCurrentFlagConstant          = "--show-current"
	gitFetchSubcommandNameConstant      = "fetch"
	gitResetSubcommandNameConstant      = "reset"
	gitMergeSubcommandNameConstant      = "merge"
	gitAbortFlagConstant                = "--abort"
	gitPushSubcommandNameConstant       = "push"
	gitForEachRefSubcommandNameConstant = "for-each-ref"
)

const (
	gitWorkTreeStartTemplateConstant                 = "Analyzing repository at %s"
	gitWorkTreeSuccessTemplateConstant               = "%s is a Git repository"
	gitWorkTreeFailureTemplateConstant               = "Could not confirm %s is a Git repository (exit code %d%s)"
	gitWorkTreeExecutionFailureTemplateConstant      = "Could not analyze %s: %s"
	gitRevisionStartTemplateConstant                 = "Verifying %s in %s"
	gitRevisionSuccessTemplateConstant               = "%s in %s resolved to %s"
	gitRevisionFailureTemplateConstant               = "Failed to verify %s in %s (exit code %d%s)"
	gitRevisionExecutionFailureTemplateConstant      = "Unable to verify %s in %s: %s"
	gitStatusStartTemplateConstant                   = "Reviewing working tree status in %s"
	gitStatusSuccessTemplateConstant                 = "Collected working tree status for %s"
	gitStatusFailureTemplateConstant                 = "Failed to review working tree status in %s (exit code %d%s)"
	gitStatusExecutionFailureTemplateConstant        = "Unable to review working tree status in %s: %s"
	gitCheckoutStartTemplateConstant                 = "Switching %s to branch %s"
	gitCheckoutSuccessTemplateConstant               = "%s now on branch %s"
	gitCheckoutFailureTemplateConstant               = "Failed to switch %s to branch %s (exit code %d%s)"
	gitCheckoutExecutionFailureTemplateConstant      = "Unable to switch %s to branch %s: %s"
	gitCurrentBranchStartTemplateConstant            = "Identifying current branch in %s"
	gitCurrentBranchSuccessTemplateConstant          = "Current branch in %s is %s"
	gitCurrentBranchDetachedTemplateConstant         = "%s is in a detached HEAD state"
	gitCurrentBranchFailureTemplateConstant          = "Failed to identify current branch in %s (exit code %d%s)"
	gitCurrentBranchExecutionFailureTemplate         = "Unable to identify current branch in %s: %s"
	gitFetchStartTemplateConstant                    = "Fetching %s from %s in %s"
	gitFetchSuccessTemplateConstant                  = "Fetched %s from %s in %s"
	gitFetchFailureTemplateConstant                  = "Failed to fetch %s from %s in %s (exit code %d%s)"
	gitFetchExecutionFailureTemplateConstant         = "Unable to fetch %s from %s in %s: %s"
	gitFetchAllReferencesLabelConstant               = "all references"
	gitResetStartTemplateConstant                    = "Resetting %s to %s"
	gitResetSuccessTemplateConstant                  = "%s now matches %s"
	gitResetFailureTemplateConstant                  = "Failed to reset %s to %s (exit code %d%s)"
	gitResetExecutionFailureTemplateConstant         = "Unable to reset %s to %s: %s"
	gitMergeStartTemplateConstant                    = "Merging %s in %s"
	gitMergeSuccessTemplateConstant                  = "Merged %s in %s"
	gitMergeFailureTemplateConstant                  = "Failed to merge %s in %s (exit code %d%s)"
	gitMergeExecutionFailureTemplateConstant         = "Unable to merge %s in %s: %s"
	gitMergeAbortStartTemplateConstant               = "Aborting in-progress merge in %s"
	gitMergeAbortSuccessTemplateConstant             = "Aborted in-progress merge in %s"
	gitMergeAbortFailureTemplateConstant             = "Failed to abort merge in %s (exit code %d%s)"
	gitMergeAbortExecutionFailureTemplateConstant    = "Unable to abort merge in %s: %s"
	gitPushStartTemplateConstant                     = "Pushing %s to %s from %s"
	gitPushSuccessTemplateConstant                   = "Pushed %s to %s from %s"
	gitPushFailureTemplateConstant                   = "Failed to push %s to %s from %s (exit code %d%s)"
	gitPushExecutionFailureTemplateConstant          = "Unable to push %s to %s from %s: %s"
	gitLocalBranchesStartTemplateConstant            = "Listing local branches in %s"
	gitLocalBranchesSuccessTemplateConstant          = "Listed local branches in %s"
	gitLocalBranchesFailureTemplateConstant          = "Failed to list local branches in %s (exit code %d%s)"
	gitLocalBranchesExecutionFailureTemplateConstant = "Unable to list local branches in %s: %s"
)

// messageTemplates groups the four lifecycle templates of one git operation.
type messageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing a command that could not be started.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

// FormatCommandLine renders the command as it would be typed, prefixed with the executable name.
func (formatter CommandMessageFormatter) FormatCommandLine(command ShellCommand) string {
	return formatCommandLine(command)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
	return formatter.describeGitMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	switch strings.TrimSpace(arguments[0]) {
	case gitRevParseSubcommandNameConstant:
		if containsArgument(arguments, gitWorkTreeFlagConstant) {
			return formatter.render(stage, result, failure, messageTemplates{
				start:            gitWorkTreeStartTemplateConstant,
				success:          gitWorkTreeSuccessTemplateConstant,
				failure:          gitWorkTreeFailureTemplateConstant,
				executionFailure: gitWorkTreeExecutionFailureTemplateConstant,
			}, workingDirectory)
		}
		if containsArgument(arguments, gitVerifyFlagConstant) {
			reference := formatter.ensureValue(formatter.extractPositional(arguments))
			if stage == messageStageSuccess {
				return fmt.Sprintf(gitRevisionSuccessTemplateConstant, reference, workingDirectory, formatter.ensureValue(result.TrimmedStandardOutput()))
			}
			return formatter.render(stage, result, failure, messageTemplates{
				start:            gitRevisionStartTemplateConstant,
				failure:          gitRevisionFailureTemplateConstant,
				executionFailure: gitRevisionExecutionFailureTemplateConstant,
			}, reference, workingDirectory)
		}
	case gitStatusSubcommandNameConstant:
		return formatter.render(stage, result, failure, messageTemplates{
			start:            gitStatusStartTemplateConstant,
			success:          gitStatusSuccessTemplateConstant,
			failure:          gitStatusFailureTemplateConstant,
			executionFailure: gitStatusExecutionFailureTemplateConstant,
		}, workingDirectory)
	case gitCheckoutSubcommandNameConstant:
		branchName := formatter.ensureValue(formatter.extractPositional(arguments))
		return formatter.render(stage, result, failure, messageTemplates{
			start:            gitCheckoutStartTemplateConstant,
			success:          gitCheckoutSuccessTemplateConstant,
			failure:          gitCheckoutFailureTemplateConstant,
			executionFailure: gitCheckoutExecutionFailureTemplateConstant,
		}, workingDirectory, branchName)
	case gitBranchSubcommandNameConstant:
		if containsArgument(arguments, gitShowCurrentFlagConstant) {
			if stage == messageStageSuccess {
				currentBranch := result.TrimmedStandardOutput()
				if len(currentBranch) == 0 {
					return fmt.Sprintf(gitCurrentBranchDetachedTemplateConstant, workingDirectory)
				}
				return fmt.Sprintf(gitCurrentBranchSuccessTemplateConstant, workingDirectory, currentBranch)
			}
			return formatter.render(stage, result, failure, messageTemplates{
				start:            gitCurrentBranchStartTemplateConstant,
				failure:          gitCurrentBranchFailureTemplateConstant,
				executionFailure: gitCurrentBranchExecutionFailureTemplate,
			}, workingDirectory)
		}
	case gitFetchSubcommandNameConstant:
		return formatter.describeGitFetchMessage(arguments, workingDirectory, result, failure, stage)
	case gitResetSubcommandNameConstant:
		target := formatter.ensureValue(formatter.extractPositional(arguments))
		return formatter.render(stage, result, failure, messageTemplates{
			start:            gitResetStartTemplateConstant,
			success:          gitResetSuccessTemplateConstant,
			failure:          gitResetFailureTemplateConstant,
			executionFailure: gitResetExecutionFailureTemplateConstant,
		}, workingDirectory, target)
	case gitMergeSubcommandNameConstant:
		if containsArgument(arguments, gitAbortFlagConstant) {
			return formatter.render(stage, result, failure, messageTemplates{
				start:            gitMergeAbortStartTemplateConstant,
				success:          gitMergeAbortSuccessTemplateConstant,
				failure:          gitMergeAbortFailureTemplateConstant,
				executionFailure: gitMergeAbortExecutionFailureTemplateConstant,
			}, workingDirectory)
		}
		sourceBranch := formatter.ensureValue(formatter.extractPositional(arguments))
		return formatter.render(stage, result, failure, messageTemplates{
			start:            gitMergeStartTemplateConstant,
			success:          gitMergeSuccessTemplateConstant,
			failure:          gitMergeFailureTemplateConstant,
			executionFailure: gitMergeExecutionFailureTemplateConstant,
		}, sourceBranch, workingDirectory)
	case gitPushSubcommandNameConstant:
		remoteName := formatter.ensureValue(formatter.argumentAtIndex(arguments, 1))
		branchName := formatter.ensureValue(formatter.argumentAtIndex(arguments, 2))
		return formatter.render(stage, result, failure, messageTemplates{
			start:            gitPushStartTemplateConstant,
			success:          gitPushSuccessTemplateConstant,
			failure:          gitPushFailureTemplateConstant,
			executionFailure: gitPushExecutionFailureTemplateConstant,
		}, branchName, remoteName, workingDirectory)
	case gitForEachRefSubcommandNameConstant:
		return formatter.render(stage, result, failure, messageTemplates{
			start:            gitLocalBranchesStartTemplateConstant,
			success:          gitLocalBranchesSuccessTemplateConstant,
			failure:          gitLocalBranchesFailureTemplateConstant,
			executionFailure: gitLocalBranchesExecutionFailureTemplateConstant,
		}, workingDirectory)
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitFetchMessage(arguments []string, workingDirectory string, result ExecutionResult, failure error, stage messageStage) string {
	positionalArguments := make([]string, 0, len(arguments))
	for _, argument := range arguments[1:] {
		trimmedArgument := strings.TrimSpace(argument)
		if len(trimmedArgument) == 0 || strings.HasPrefix(trimmedArgument, optionPrefixConstant) {
			continue
		}
		positionalArguments = append(positionalArguments, trimmedArgument)
	}

	remoteName := fallbackUnknownValueLabelConstant
	references := gitFetchAllReferencesLabelConstant
	if len(positionalArguments) > 0 {
		remoteName = positionalArguments[0]
	}
	if len(positionalArguments) > 1 {
		references = strings.Join(positionalArguments[1:], commandArgumentsJoinSeparatorConstant)
	}

	return formatter.render(stage, result, failure, messageTemplates{
		start:            gitFetchStartTemplateConstant,
		success:          gitFetchSuccessTemplateConstant,
		failure:          gitFetchFailureTemplateConstant,
		executionFailure: gitFetchExecutionFailureTemplateConstant,
	}, references, remoteName, workingDirectory)
}

// render applies the stage template to values; failure templates receive the exit code and
// standard error suffix, execution failure templates receive the failure description.
func (formatter CommandMessageFormatter) render(stage messageStage, result ExecutionResult, failure error, templates messageTemplates, values ...any) string {
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, values...)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, values...)
	case messageStageFailure:
		failureValues := append(append([]any{}, values...), result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		return fmt.Sprintf(templates.failure, failureValues...)
	case messageStageExecutionFailure:
		executionFailureValues := append(append([]any{}, values...), formatter.describeFailure(failure))
		return fmt.Sprintf(templates.executionFailure, executionFailureValues...)
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	return fmt.Sprintf(commandLabelTemplateConstant, formatCommandLine(command), formatter.formatWorkingDirectorySuffix(command))
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index >= 0 && index < len(arguments) {
		return arguments[index]
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

// extractPositional returns the last argument that is not an option.
func (formatter CommandMessageFormatter) extractPositional(arguments []string) string {
	for index := len(arguments) - 1; index > 0; index-- {
		argument := strings.TrimSpace(arguments[index])
		if len(argument) == 0 || strings.HasPrefix(argument, optionPrefixConstant) {
			continue
		}
		return argument
	}
	return emptyStringConstant
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}
