package mergeflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/temirov/mergeflow/internal/execshell"
	"github.com/temirov/mergeflow/internal/gitops"
	"github.com/temirov/mergeflow/internal/ui"
	"github.com/temirov/mergeflow/internal/utils"
	"github.com/temirov/mergeflow/internal/utils/flags"
	pathutils "github.com/temirov/mergeflow/internal/utils/path"
)

const (
	commandUseNameConstant                  = "merge"
	commandUsageTemplateConstant            = commandUseNameConstant + " [target...]"
	commandExampleTemplateConstant          = "mergeflow merge main release --source feature/login"
	commandShortDescriptionConstant         = "Merge a branch into one or more target branches and push them"
	commandLongDescriptionConstant          = "merge checks out every target branch in order, resets it to the remote tip, merges the source branch, and pushes the result. The source defaults to the current branch. The run stops at the first failing step and, unless disabled, switches back to the branch that was checked out when it started."
	sourceFlagNameConstant                  = "source"
	sourceFlagUsageConstant                 = "Branch to merge (defaults to the current branch)."
	targetFlagNameConstant                  = "target"
	targetFlagUsageConstant                 = "Target branch to merge into; repeat for several targets."
	repositoryFlagNameConstant              = "repository"
	repositoryFlagUsageConstant             = "Repository path (defaults to the enclosing repository of the working directory)."
	remoteFlagNameConstant                  = "remote"
	remoteFlagUsageConstant                 = "Remote used for fetch, reset, and push."
	returnFlagNameConstant                  = "return"
	returnFlagUsageConstant                 = "Switch back to the original branch when the run ends."
	assumeYesFlagNameConstant               = "yes"
	assumeYesFlagShorthandConstant          = "y"
	assumeYesFlagUsageConstant              = "Skip the confirmation prompt."
	reportFlagNameConstant                  = "report"
	reportFlagUsageConstant                 = "Summary format."
	timeoutFlagNameConstant                 = "timeout"
	timeoutFlagUsageConstant                = "Abort the run after this duration (0 disables the limit)."
	unsupportedReportFormatTemplateConstant = "unsupported report format %q: %w"
	unsupportedReportFormatMessageConstant  = "unsupported report format"
	workingDirectoryErrorTemplateConstant   = "unable to determine working directory: %w"
	reportEncodingErrorTemplateConstant     = "unable to encode merge report: %w"
	logMessageRepositoryResolvedConstant    = "resolved repository path"
	logMessageRootDiscoveryFailedConstant   = "repository root discovery failed; using working directory"
	logMessageConfigurationSourceConstant   = "merge configuration source"
	logMessagePartialReportFailedConstant   = "unable to write summary of merged targets"
	logFieldConfigurationFileConstant       = "config_file"
	logFieldLogFileConstant                 = "log_file"
	logFieldRepositoryPathConstant          = "repository_path"
	logFieldRemoteNameConstant              = "remote_name"
	completionTimeoutConstant               = 5 * time.Second
)

// ErrUnsupportedReportFormat indicates the requested summary format is unknown.
var ErrUnsupportedReportFormat = errors.New(unsupportedReportFormatMessageConstant)

var supportedReportFormats = []string{ReportFormatText, ReportFormatYAML}

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// PrompterFactory supplies the confirmation prompter for a command invocation; nil disables prompting.
type PrompterFactory func(command *cobra.Command) ConfirmationPrompter

// CommandBuilder assembles the merge command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConsoleLoggerProvider        LoggerProvider
	GitExecutor                  gitops.GitExecutor
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	PrompterFactory              PrompterFactory
	WorkingDirectory             string
}

// Build constructs the merge command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	defaults := DefaultCommandConfiguration()

	command := &cobra.Command{
		Use:               commandUsageTemplateConstant,
		Short:             commandShortDescriptionConstant,
		Long:              commandLongDescriptionConstant,
		Example:           commandExampleTemplateConstant,
		Args:              cobra.ArbitraryArgs,
		RunE:              builder.run,
		ValidArgsFunction: builder.completeBranches,
	}

	command.Flags().String(sourceFlagNameConstant, defaults.SourceBranch, sourceFlagUsageConstant)
	command.Flags().StringArray(targetFlagNameConstant, nil, targetFlagUsageConstant)
	command.Flags().String(repositoryFlagNameConstant, defaults.RepositoryPath, repositoryFlagUsageConstant)
	command.Flags().String(remoteFlagNameConstant, defaults.RemoteName, remoteFlagUsageConstant)
	command.Flags().Bool(returnFlagNameConstant, defaults.ReturnToOriginal, returnFlagUsageConstant)
	command.Flags().BoolP(assumeYesFlagNameConstant, assumeYesFlagShorthandConstant, defaults.AssumeYes, assumeYesFlagUsageConstant)
	command.Flags().String(reportFlagNameConstant, defaults.ReportFormat, flags.FormatChoiceUsage(defaults.ReportFormat, supportedReportFormats, reportFlagUsageConstant))
	command.Flags().Duration(timeoutFlagNameConstant, defaults.Timeout, timeoutFlagUsageConstant)

	if registrationError := command.RegisterFlagCompletionFunc(targetFlagNameConstant, builder.completeBranches); registrationError != nil {
		return nil, registrationError
	}
	if registrationError := command.RegisterFlagCompletionFunc(sourceFlagNameConstant, builder.completeBranches); registrationError != nil {
		return nil, registrationError
	}

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration, configurationError := builder.resolveCommandConfiguration(command, arguments)
	if configurationError != nil {
		return configurationError
	}

	logger := builder.resolveLogger()
	if invocationMetadata, available := utils.NewCommandContextAccessor().InvocationMetadata(command.Context()); available {
		logger.Debug(
			logMessageConfigurationSourceConstant,
			zap.String(logFieldConfigurationFileConstant, invocationMetadata.ConfigurationFilePath),
			zap.String(logFieldLogFileConstant, invocationMetadata.LogFilePath),
		)
	}

	repository, repositoryError := builder.buildRepository(configuration, logger)
	if repositoryError != nil {
		return repositoryError
	}

	service, serviceError := NewService(Dependencies{
		Repository: repository,
		Prompter:   builder.resolvePrompter(command, configuration),
		Logger:     logger,
	})
	if serviceError != nil {
		return serviceError
	}

	executionContext := command.Context()
	if executionContext == nil {
		executionContext = context.Background()
	}
	if configuration.Timeout > 0 {
		var cancel context.CancelFunc
		executionContext, cancel = context.WithTimeout(executionContext, configuration.Timeout)
		defer cancel()
	}

	result, mergeError := service.Merge(executionContext, Options{
		SourceBranch:     configuration.SourceBranch,
		TargetBranches:   configuration.TargetBranches,
		ReturnToOriginal: configuration.ReturnToOriginal,
		AssumeYes:        configuration.AssumeYes,
	})

	if mergeError != nil {
		var operationError gitops.OperationError
		if errors.As(mergeError, &operationError) && operationError.HasContext() {
			fmt.Fprintln(command.ErrOrStderr(), strings.TrimSpace(operationError.Context))
		}
		if len(result.MergedTargets) > 0 {
			if reportError := builder.writeReport(command, configuration.ReportFormat, result); reportError != nil {
				logger.Warn(logMessagePartialReportFailedConstant, zap.Error(reportError))
			}
		}
		return mergeError
	}

	return builder.writeReport(command, configuration.ReportFormat, result)
}

func (builder *CommandBuilder) resolveCommandConfiguration(command *cobra.Command, arguments []string) (CommandConfiguration, error) {
	configuration := builder.resolveConfiguration()
	flagSet := command.Flags()

	if flagSet.Changed(sourceFlagNameConstant) {
		configuration.SourceBranch, _ = flagSet.GetString(sourceFlagNameConstant)
	}
	if flagSet.Changed(repositoryFlagNameConstant) {
		configuration.RepositoryPath, _ = flagSet.GetString(repositoryFlagNameConstant)
	}
	if flagSet.Changed(remoteFlagNameConstant) {
		configuration.RemoteName, _ = flagSet.GetString(remoteFlagNameConstant)
	}
	if flagSet.Changed(returnFlagNameConstant) {
		configuration.ReturnToOriginal, _ = flagSet.GetBool(returnFlagNameConstant)
	}
	if flagSet.Changed(assumeYesFlagNameConstant) {
		configuration.AssumeYes, _ = flagSet.GetBool(assumeYesFlagNameConstant)
	}
	if flagSet.Changed(reportFlagNameConstant) {
		configuration.ReportFormat, _ = flagSet.GetString(reportFlagNameConstant)
	}
	if flagSet.Changed(timeoutFlagNameConstant) {
		configuration.Timeout, _ = flagSet.GetDuration(timeoutFlagNameConstant)
	}

	requestedTargets := append([]string{}, arguments...)
	if flagSet.Changed(targetFlagNameConstant) {
		flagTargets, _ := flagSet.GetStringArray(targetFlagNameConstant)
		requestedTargets = append(requestedTargets, flagTargets...)
	}
	if len(requestedTargets) > 0 {
		configuration.TargetBranches = requestedTargets
	}

	configuration = configuration.Sanitize()

	reportFormat, supported := flags.MatchChoice(configuration.ReportFormat, supportedReportFormats)
	if !supported {
		return CommandConfiguration{}, fmt.Errorf(unsupportedReportFormatTemplateConstant, configuration.ReportFormat, ErrUnsupportedReportFormat)
	}
	configuration.ReportFormat = reportFormat

	repositoryPath, pathError := builder.resolveRepositoryPath(configuration.RepositoryPath)
	if pathError != nil {
		return CommandConfiguration{}, pathError
	}
	configuration.RepositoryPath = repositoryPath

	return configuration, nil
}

func (builder *CommandBuilder) resolveRepositoryPath(configuredPath string) (string, error) {
	if len(configuredPath) > 0 {
		return pathutils.NewRepositoryPathResolver(nil).Resolve(configuredPath)
	}
	return builder.discoverRepositoryPath()
}

func (builder *CommandBuilder) discoverRepositoryPath() (string, error) {
	workingDirectory := strings.TrimSpace(builder.WorkingDirectory)
	if len(workingDirectory) == 0 {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return "", fmt.Errorf(workingDirectoryErrorTemplateConstant, workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	repositoryRoot, discoveryError := gitops.DiscoverRepositoryRoot(workingDirectory)
	if discoveryError != nil {
		builder.resolveLogger().Debug(logMessageRootDiscoveryFailedConstant, zap.String(logFieldRepositoryPathConstant, workingDirectory), zap.Error(discoveryError))
		return workingDirectory, nil
	}
	return repositoryRoot, nil
}

func (builder *CommandBuilder) buildRepository(configuration CommandConfiguration, logger *zap.Logger) (*gitops.Repository, error) {
	gitExecutor, executorError := builder.resolveGitExecutor(logger)
	if executorError != nil {
		return nil, executorError
	}

	logger.Debug(
		logMessageRepositoryResolvedConstant,
		zap.String(logFieldRepositoryPathConstant, configuration.RepositoryPath),
		zap.String(logFieldRemoteNameConstant, configuration.RemoteName),
	)

	return gitops.NewRepository(gitExecutor, gitops.RepositoryOptions{
		RepositoryPath: configuration.RepositoryPath,
		RemoteName:     configuration.RemoteName,
	})
}

func (builder *CommandBuilder) resolveGitExecutor(logger *zap.Logger) (gitops.GitExecutor, error) {
	if builder.GitExecutor != nil {
		return builder.GitExecutor, nil
	}

	var eventObserver execshell.CommandEventObserver
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		eventObserver = ui.NewConsoleCommandEventLogger(builder.resolveConsoleLogger())
	}

	shellExecutor, creationError := execshell.NewShellExecutorWithObserver(logger, execshell.NewOSCommandRunner(), eventObserver)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

func (builder *CommandBuilder) resolvePrompter(command *cobra.Command, configuration CommandConfiguration) ConfirmationPrompter {
	if configuration.AssumeYes {
		return nil
	}
	if builder.PrompterFactory != nil {
		return builder.PrompterFactory(command)
	}
	if !ui.IsTerminal(os.Stdin) || !ui.IsTerminal(os.Stdout) {
		return nil
	}
	return NewSurveyConfirmationPrompter(os.Stdin, os.Stdout, command.ErrOrStderr())
}

func (builder *CommandBuilder) writeReport(command *cobra.Command, reportFormat string, result Result) error {
	outputWriter := command.OutOrStdout()

	if reportFormat == ReportFormatYAML {
		encoder := yaml.NewEncoder(outputWriter)
		if encodeError := encoder.Encode(result); encodeError != nil {
			return fmt.Errorf(reportEncodingErrorTemplateConstant, encodeError)
		}
		if closeError := encoder.Close(); closeError != nil {
			return fmt.Errorf(reportEncodingErrorTemplateConstant, closeError)
		}
		return nil
	}

	summary := ui.MergeSummary{SourceBranch: result.SourceBranch}
	for _, targetResult := range result.MergedTargets {
		summary.TargetBranches = append(summary.TargetBranches, targetResult.TargetBranch)
	}
	if result.ReturnedToOriginal {
		summary.ReturnedBranch = result.OriginalBranch
	}
	return ui.NewSummaryRenderer(ui.IsTerminal(outputWriter)).Render(outputWriter, summary)
}

func (builder *CommandBuilder) completeBranches(command *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	configuration := builder.resolveConfiguration()
	if command != nil && command.Flags().Changed(repositoryFlagNameConstant) {
		configuration.RepositoryPath, _ = command.Flags().GetString(repositoryFlagNameConstant)
		configuration = configuration.Sanitize()
	}
	repositoryPath, pathError := builder.resolveRepositoryPath(configuration.RepositoryPath)
	if pathError != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	configuration.RepositoryPath = repositoryPath

	repository, repositoryError := builder.buildRepository(configuration, zap.NewNop())
	if repositoryError != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	completionContext := context.Background()
	if command != nil && command.Context() != nil {
		completionContext = command.Context()
	}
	completionContext, cancel := context.WithTimeout(completionContext, completionTimeoutConstant)
	defer cancel()

	branchNames, listError := repository.GetLocalBranches(completionContext)
	if listError != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	candidates := make([]string, 0, len(branchNames))
	for _, branchName := range branchNames {
		if strings.HasPrefix(branchName, toComplete) {
			candidates = append(candidates, branchName)
		}
	}
	return candidates, cobra.ShellCompDirectiveNoFileComp
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveConsoleLogger() *zap.Logger {
	if builder.ConsoleLoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.ConsoleLoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
