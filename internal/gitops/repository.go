package gitops

//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=repository.go -destination=mocks/git_executor.gen.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/mergeflow/internal/execshell"
)

const (
	// DefaultRemoteNameConstant is used when RepositoryOptions omit a remote.
	DefaultRemoteNameConstant = "origin"

	gitExecutorMissingMessageConstant           = "git executor not configured"
	branchNameRequiredMessageConstant           = "branch name must be provided"
	uncommittedChangesMessageConstant           = "There are uncommitted changes in the current branch."
	fetchFailedMessageTemplateConstant          = "Failed to fetch the '%s' branch."
	resetFailedMessageTemplateConstant          = "Failed to reset the '%s' branch."
	mergeConflictMessageTemplateConstant        = "Merge conflict detected for branch '%s'."
	mergeFailedMessageTemplateConstant          = "Merge failed for branch '%s'."
	pushFailedMessageTemplateConstant           = "Failed to push the '%s' branch."
	branchNotFoundMessageTemplateConstant       = "Branch '%s' does not exist."
	operationExecutionErrorTemplateConstant     = "git %s: %w"
	remoteReferenceTemplateConstant             = "%s/%s"
	mergeConflictMarkerConstant                 = "CONFLICT"
	branchListSeparatorConstant                 = "\n"
	gitStatusSubcommandConstant                 = "status"
	gitPorcelainFlagConstant                    = "--porcelain"
	gitCheckoutSubcommandConstant               = "checkout"
	gitFetchSubcommandConstant                  = "fetch"
	gitResetSubcommandConstant                  = "reset"
	gitHardFlagConstant                         = "--hard"
	gitMergeSubcommandConstant                  = "merge"
	gitAbortFlagConstant                        = "--abort"
	gitPushSubcommandConstant                   = "push"
	gitBranchSubcommandConstant                 = "branch"
	gitShowCurrentFlagConstant                  = "--show-current"
	gitForEachRefSubcommandConstant             = "for-each-ref"
	gitSortByCommitterDateFlagConstant          = "--sort=-committerdate"
	gitShortRefNameFormatFlagConstant           = "--format=%(refname:short)"
	gitLocalHeadsNamespaceConstant              = "refs/heads/"
	gitRevParseSubcommandConstant               = "rev-parse"
	gitVerifyFlagConstant                       = "--verify"
	gitInsideWorkTreeFlagConstant               = "--is-inside-work-tree"
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
	gitMergeAutoEditEnvironmentNameConstant     = "GIT_MERGE_AUTOEDIT"
	gitMergeAutoEditEnvironmentDisableConstant  = "no"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrBranchNameRequired indicates an operation was invoked with an empty branch name.
var ErrBranchNameRequired = errors.New(branchNameRequiredMessageConstant)

// GitExecutor runs git with the provided details.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryOptions locate the repository and the remote the operations work against.
type RepositoryOptions struct {
	RepositoryPath string
	RemoteName     string
}

// Repository exposes the git operations of the merge workflow for a single working tree.
type Repository struct {
	executor       GitExecutor
	repositoryPath string
	remoteName     string
}

// NewRepository constructs a Repository bound to the provided executor.
func NewRepository(executor GitExecutor, options RepositoryOptions) (*Repository, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}

	remoteName := strings.TrimSpace(options.RemoteName)
	if len(remoteName) == 0 {
		remoteName = DefaultRemoteNameConstant
	}

	return &Repository{
		executor:       executor,
		repositoryPath: strings.TrimSpace(options.RepositoryPath),
		remoteName:     remoteName,
	}, nil
}

// RepositoryPath returns the working directory git runs in; empty means the process working directory.
func (repository *Repository) RepositoryPath() string {
	return repository.repositoryPath
}

// RemoteName returns the remote used by fetch, reset, and push.
func (repository *Repository) RemoteName() string {
	return repository.remoteName
}

// CheckUncommitted fails with ErrUncommittedChanges when the working tree has any modification.
func (repository *Repository) CheckUncommitted(executionContext context.Context) error {
	result, executionError := repository.run(executionContext, gitStatusSubcommandConstant, gitPorcelainFlagConstant)
	if executionError != nil {
		return executionError
	}
	if len(result.TrimmedStandardOutput()) > 0 {
		return NewOperationError(ErrUncommittedChanges, uncommittedChangesMessageConstant, "")
	}
	return nil
}

// Checkout switches to branchName. Its outcome is not classified; the combined output is returned as is.
func (repository *Repository) Checkout(executionContext context.Context, branchName string) (string, error) {
	trimmedBranchName, validationError := requireBranchName(branchName)
	if validationError != nil {
		return "", validationError
	}
	result, executionError := repository.run(executionContext, gitCheckoutSubcommandConstant, trimmedBranchName)
	if executionError != nil {
		return "", executionError
	}
	return result.CombinedOutput(), nil
}

// Fetch downloads branchName from the configured remote.
func (repository *Repository) Fetch(executionContext context.Context, branchName string) (string, error) {
	trimmedBranchName, validationError := requireBranchName(branchName)
	if validationError != nil {
		return "", validationError
	}
	result, executionError := repository.run(executionContext, gitFetchSubcommandConstant, repository.remoteName, trimmedBranchName)
	if executionError != nil {
		return "", executionError
	}
	if result.IsFailed() {
		return "", NewOperationError(ErrFetchFailed, fmt.Sprintf(fetchFailedMessageTemplateConstant, trimmedBranchName), result.CombinedOutput())
	}
	return result.CombinedOutput(), nil
}

// ResetHard moves the current branch to the remote tip of branchName, discarding local state.
func (repository *Repository) ResetHard(executionContext context.Context, branchName string) (string, error) {
	trimmedBranchName, validationError := requireBranchName(branchName)
	if validationError != nil {
		return "", validationError
	}
	remoteReference := fmt.Sprintf(remoteReferenceTemplateConstant, repository.remoteName, trimmedBranchName)
	result, executionError := repository.run(executionContext, gitResetSubcommandConstant, gitHardFlagConstant, remoteReference)
	if executionError != nil {
		return "", executionError
	}
	if result.IsFailed() {
		return "", NewOperationError(ErrResetFailed, fmt.Sprintf(resetFailedMessageTemplateConstant, trimmedBranchName), result.CombinedOutput())
	}
	return result.CombinedOutput(), nil
}

// Merge merges sourceBranch into the checked-out targetBranch. On failure the in-progress merge
// is aborted before the error is returned; the abort outcome is not inspected.
func (repository *Repository) Merge(executionContext context.Context, sourceBranch string, targetBranch string) (string, error) {
	trimmedSourceBranch, validationError := requireBranchName(sourceBranch)
	if validationError != nil {
		return "", validationError
	}
	trimmedTargetBranch := strings.TrimSpace(targetBranch)

	result, executionError := repository.run(executionContext, gitMergeSubcommandConstant, trimmedSourceBranch)
	if executionError != nil {
		return "", executionError
	}
	if !result.IsFailed() {
		return result.CombinedOutput(), nil
	}

	_, _ = repository.run(executionContext, gitMergeSubcommandConstant, gitAbortFlagConstant)

	if strings.Contains(result.TrimmedStandardOutput(), mergeConflictMarkerConstant) {
		return "", NewOperationError(ErrMergeConflict, fmt.Sprintf(mergeConflictMessageTemplateConstant, trimmedTargetBranch), result.CombinedOutput())
	}
	return "", NewOperationError(ErrMergeFailed, fmt.Sprintf(mergeFailedMessageTemplateConstant, trimmedTargetBranch), result.CombinedOutput())
}

// Push publishes branchName to the configured remote.
func (repository *Repository) Push(executionContext context.Context, branchName string) (string, error) {
	trimmedBranchName, validationError := requireBranchName(branchName)
	if validationError != nil {
		return "", validationError
	}
	result, executionError := repository.run(executionContext, gitPushSubcommandConstant, repository.remoteName, trimmedBranchName)
	if executionError != nil {
		return "", executionError
	}
	if result.IsFailed() {
		return "", NewOperationError(ErrPushFailed, fmt.Sprintf(pushFailedMessageTemplateConstant, trimmedBranchName), result.CombinedOutput())
	}
	return result.CombinedOutput(), nil
}

// GetCurrentBranch returns the checked-out branch name; it is empty in a detached HEAD state.
func (repository *Repository) GetCurrentBranch(executionContext context.Context) (string, error) {
	result, executionError := repository.run(executionContext, gitBranchSubcommandConstant, gitShowCurrentFlagConstant)
	if executionError != nil {
		return "", executionError
	}
	return result.TrimmedStandardOutput(), nil
}

// GetLocalBranches lists local branch names, most recently committed first.
func (repository *Repository) GetLocalBranches(executionContext context.Context) ([]string, error) {
	result, executionError := repository.run(
		executionContext,
		gitForEachRefSubcommandConstant,
		gitSortByCommitterDateFlagConstant,
		gitShortRefNameFormatFlagConstant,
		gitLocalHeadsNamespaceConstant,
	)
	if executionError != nil {
		return nil, executionError
	}

	branchNames := make([]string, 0)
	for _, line := range strings.Split(result.TrimmedStandardOutput(), branchListSeparatorConstant) {
		trimmedLine := strings.TrimSpace(line)
		if len(trimmedLine) == 0 {
			continue
		}
		branchNames = append(branchNames, trimmedLine)
	}
	return branchNames, nil
}

// CheckBranchExists fails with ErrBranchNotFound when branchName does not resolve to a revision.
func (repository *Repository) CheckBranchExists(executionContext context.Context, branchName string) error {
	trimmedBranchName, validationError := requireBranchName(branchName)
	if validationError != nil {
		return validationError
	}
	result, executionError := repository.run(executionContext, gitRevParseSubcommandConstant, gitVerifyFlagConstant, trimmedBranchName)
	if executionError != nil {
		return executionError
	}
	if result.IsFailed() {
		return NewOperationError(ErrBranchNotFound, fmt.Sprintf(branchNotFoundMessageTemplateConstant, trimmedBranchName), "")
	}
	return nil
}

// IsRepository reports whether the repository path lies inside a git working tree.
// Every failure, including a failure to start git, is reported as false.
func (repository *Repository) IsRepository(executionContext context.Context) bool {
	result, executionError := repository.run(executionContext, gitRevParseSubcommandConstant, gitInsideWorkTreeFlagConstant)
	if executionError != nil {
		return false
	}
	return !result.IsFailed()
}

func (repository *Repository) run(executionContext context.Context, arguments ...string) (execshell.ExecutionResult, error) {
	result, executionError := repository.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repository.repositoryPath,
		EnvironmentVariables: map[string]string{
			gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableConstant,
			gitMergeAutoEditEnvironmentNameConstant:  gitMergeAutoEditEnvironmentDisableConstant,
		},
	})
	if executionError != nil {
		return execshell.ExecutionResult{}, fmt.Errorf(operationExecutionErrorTemplateConstant, strings.Join(arguments, " "), executionError)
	}
	return result, nil
}

func requireBranchName(branchName string) (string, error) {
	trimmedBranchName := strings.TrimSpace(branchName)
	if len(trimmedBranchName) == 0 {
		return "", ErrBranchNameRequired
	}
	return trimmedBranchName, nil
}
