package mergeflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/mergeflow/internal/gitops"
)

const (
	repositoryMissingMessageConstant         = "repository operations not configured"
	targetBranchesRequiredMessageConstant    = "at least one target branch must be provided"
	targetMatchesSourceMessageConstant       = "target branch matches the source branch"
	sourceBranchUnresolvedMessageConstant    = "source branch could not be determined; check out a branch or provide one explicitly"
	mergeDeclinedMessageConstant             = "merge cancelled"
	checkoutFailedMessageConstant            = "checkout failed"
	notRepositoryMessageConstant             = "The current directory is not a git repository."
	checkoutMismatchMessageTemplateConstant  = "Failed to check out the '%s' branch."
	targetMatchesSourceErrorTemplateConstant = "%w: %s"
	confirmationFailureTemplateConstant      = "confirmation failed: %w"
	confirmationPromptTemplateConstant       = "Merge '%s' into %s and push the result?"
	targetListSeparatorConstant              = ", "
	logMessageWorkflowStartedConstant        = "starting merge workflow"
	logMessageTargetMergedConstant           = "merged source branch into target"
	logMessageWorkflowHaltedConstant         = "merge workflow halted"
	logMessageReturnFailedConstant           = "unable to return to the original branch"
	logFieldSourceBranchConstant             = "source_branch"
	logFieldTargetBranchConstant             = "target_branch"
	logFieldTargetBranchesConstant           = "target_branches"
	logFieldOriginalBranchConstant           = "original_branch"
)

// ErrRepositoryNotConfigured indicates the repository dependency was missing.
var ErrRepositoryNotConfigured = errors.New(repositoryMissingMessageConstant)

// ErrTargetBranchesRequired indicates no target branch was supplied.
var ErrTargetBranchesRequired = errors.New(targetBranchesRequiredMessageConstant)

// ErrTargetMatchesSource indicates a target branch equals the source branch.
var ErrTargetMatchesSource = errors.New(targetMatchesSourceMessageConstant)

// ErrSourceBranchUnresolved indicates no source was given and HEAD is detached.
var ErrSourceBranchUnresolved = errors.New(sourceBranchUnresolvedMessageConstant)

// ErrMergeDeclined indicates the user rejected the confirmation prompt.
var ErrMergeDeclined = errors.New(mergeDeclinedMessageConstant)

// ErrCheckoutFailed indicates a target branch was not checked out after switching to it.
var ErrCheckoutFailed = errors.New(checkoutFailedMessageConstant)

// RepositoryOperations describes the git operations the workflow drives.
type RepositoryOperations interface {
	IsRepository(executionContext context.Context) bool
	CheckUncommitted(executionContext context.Context) error
	GetCurrentBranch(executionContext context.Context) (string, error)
	CheckBranchExists(executionContext context.Context, branchName string) error
	Checkout(executionContext context.Context, branchName string) (string, error)
	Fetch(executionContext context.Context, branchName string) (string, error)
	ResetHard(executionContext context.Context, branchName string) (string, error)
	Merge(executionContext context.Context, sourceBranch string, targetBranch string) (string, error)
	Push(executionContext context.Context, branchName string) (string, error)
}

// ConfirmationPrompter asks the user to approve an action.
type ConfirmationPrompter interface {
	Confirm(prompt string) (bool, error)
}

// Dependencies enumerates collaborators required by the service.
type Dependencies struct {
	Repository RepositoryOperations
	Prompter   ConfirmationPrompter
	Logger     *zap.Logger
}

// Options configure a merge workflow run.
type Options struct {
	SourceBranch     string
	TargetBranches   []string
	ReturnToOriginal bool
	AssumeYes        bool
}

// TargetResult records the merge of the source into a single target.
type TargetResult struct {
	TargetBranch string `yaml:"target"`
	MergeOutput  string `yaml:"merge_output,omitempty"`
}

// Result captures the outcome of a workflow run. MergedTargets lists only targets that were pushed.
type Result struct {
	SourceBranch       string         `yaml:"source"`
	OriginalBranch     string         `yaml:"original_branch"`
	MergedTargets      []TargetResult `yaml:"merged_targets"`
	ReturnedToOriginal bool           `yaml:"returned_to_original"`
}

// Service merges one source branch into a sequence of target branches and publishes each target.
type Service struct {
	repository RepositoryOperations
	prompter   ConfirmationPrompter
	logger     *zap.Logger
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Repository == nil {
		return nil, ErrRepositoryNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		repository: dependencies.Repository,
		prompter:   dependencies.Prompter,
		logger:     logger,
	}, nil
}

// Merge validates the repository state and then, for each target in order, checks it out,
// synchronizes it with the remote, merges the source, and pushes. The first failure halts the run.
func (service *Service) Merge(executionContext context.Context, options Options) (Result, error) {
	if !service.repository.IsRepository(executionContext) {
		return Result{}, gitops.NewOperationError(gitops.ErrNotRepository, notRepositoryMessageConstant, "")
	}

	if uncommittedError := service.repository.CheckUncommitted(executionContext); uncommittedError != nil {
		return Result{}, uncommittedError
	}

	originalBranch, currentBranchError := service.repository.GetCurrentBranch(executionContext)
	if currentBranchError != nil {
		return Result{}, currentBranchError
	}

	sourceBranch := strings.TrimSpace(options.SourceBranch)
	if len(sourceBranch) == 0 {
		sourceBranch = originalBranch
	}
	if len(sourceBranch) == 0 {
		return Result{}, ErrSourceBranchUnresolved
	}

	targetBranches, validationError := service.validateBranches(executionContext, sourceBranch, options.TargetBranches)
	if validationError != nil {
		return Result{}, validationError
	}

	if !options.AssumeYes && service.prompter != nil {
		prompt := fmt.Sprintf(confirmationPromptTemplateConstant, sourceBranch, strings.Join(targetBranches, targetListSeparatorConstant))
		confirmed, promptError := service.prompter.Confirm(prompt)
		if promptError != nil {
			return Result{}, fmt.Errorf(confirmationFailureTemplateConstant, promptError)
		}
		if !confirmed {
			return Result{}, ErrMergeDeclined
		}
	}

	service.logger.Info(
		logMessageWorkflowStartedConstant,
		zap.String(logFieldSourceBranchConstant, sourceBranch),
		zap.Strings(logFieldTargetBranchesConstant, targetBranches),
		zap.String(logFieldOriginalBranchConstant, originalBranch),
	)

	result := Result{SourceBranch: sourceBranch, OriginalBranch: originalBranch, MergedTargets: make([]TargetResult, 0, len(targetBranches))}

	for _, targetBranch := range targetBranches {
		targetResult, targetError := service.mergeIntoTarget(executionContext, sourceBranch, targetBranch)
		if targetError != nil {
			service.logger.Warn(
				logMessageWorkflowHaltedConstant,
				zap.String(logFieldSourceBranchConstant, sourceBranch),
				zap.String(logFieldTargetBranchConstant, targetBranch),
				zap.Error(targetError),
			)
			if options.ReturnToOriginal {
				result.ReturnedToOriginal, _ = service.returnToOriginal(executionContext, originalBranch)
			}
			return result, targetError
		}
		result.MergedTargets = append(result.MergedTargets, targetResult)
		service.logger.Info(
			logMessageTargetMergedConstant,
			zap.String(logFieldSourceBranchConstant, sourceBranch),
			zap.String(logFieldTargetBranchConstant, targetBranch),
		)
	}

	if options.ReturnToOriginal {
		returned, returnError := service.returnToOriginal(executionContext, originalBranch)
		if returnError != nil {
			return result, returnError
		}
		result.ReturnedToOriginal = returned
	}

	return result, nil
}

func (service *Service) validateBranches(executionContext context.Context, sourceBranch string, rawTargets []string) ([]string, error) {
	targetBranches := sanitizeBranchNames(rawTargets)
	if len(targetBranches) == 0 {
		return nil, ErrTargetBranchesRequired
	}

	for _, targetBranch := range targetBranches {
		if targetBranch == sourceBranch {
			return nil, fmt.Errorf(targetMatchesSourceErrorTemplateConstant, ErrTargetMatchesSource, targetBranch)
		}
	}

	if existenceError := service.repository.CheckBranchExists(executionContext, sourceBranch); existenceError != nil {
		return nil, existenceError
	}
	for _, targetBranch := range targetBranches {
		if existenceError := service.repository.CheckBranchExists(executionContext, targetBranch); existenceError != nil {
			return nil, existenceError
		}
	}

	return targetBranches, nil
}

func (service *Service) mergeIntoTarget(executionContext context.Context, sourceBranch string, targetBranch string) (TargetResult, error) {
	checkoutOutput, checkoutError := service.repository.Checkout(executionContext, targetBranch)
	if checkoutError != nil {
		return TargetResult{}, checkoutError
	}

	if verificationError := service.confirmCheckedOut(executionContext, targetBranch, checkoutOutput); verificationError != nil {
		return TargetResult{}, verificationError
	}

	if _, fetchError := service.repository.Fetch(executionContext, targetBranch); fetchError != nil {
		return TargetResult{}, fetchError
	}

	if _, resetError := service.repository.ResetHard(executionContext, targetBranch); resetError != nil {
		return TargetResult{}, resetError
	}

	mergeOutput, mergeError := service.repository.Merge(executionContext, sourceBranch, targetBranch)
	if mergeError != nil {
		return TargetResult{}, mergeError
	}

	if _, pushError := service.repository.Push(executionContext, targetBranch); pushError != nil {
		return TargetResult{}, pushError
	}

	return TargetResult{TargetBranch: targetBranch, MergeOutput: strings.TrimSpace(mergeOutput)}, nil
}

func (service *Service) returnToOriginal(executionContext context.Context, originalBranch string) (bool, error) {
	if len(originalBranch) == 0 {
		return false, nil
	}
	checkoutOutput, checkoutError := service.repository.Checkout(executionContext, originalBranch)
	if checkoutError == nil {
		checkoutError = service.confirmCheckedOut(executionContext, originalBranch, checkoutOutput)
	}
	if checkoutError != nil {
		service.logger.Warn(logMessageReturnFailedConstant, zap.String(logFieldOriginalBranchConstant, originalBranch), zap.Error(checkoutError))
		return false, checkoutError
	}
	return true, nil
}

// confirmCheckedOut re-reads HEAD because checkout results are never classified.
func (service *Service) confirmCheckedOut(executionContext context.Context, branchName string, checkoutOutput string) error {
	currentBranch, currentBranchError := service.repository.GetCurrentBranch(executionContext)
	if currentBranchError != nil {
		return currentBranchError
	}
	if currentBranch != branchName {
		return gitops.NewOperationError(ErrCheckoutFailed, fmt.Sprintf(checkoutMismatchMessageTemplateConstant, branchName), checkoutOutput)
	}
	return nil
}

func sanitizeBranchNames(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, candidate := range raw {
		trimmed := strings.TrimSpace(candidate)
		if len(trimmed) == 0 {
			continue
		}
		if _, duplicate := seen[trimmed]; duplicate {
			continue
		}
		seen[trimmed] = struct{}{}
		sanitized = append(sanitized, trimmed)
	}
	return sanitized
}
