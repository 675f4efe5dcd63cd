package gitops

import "errors"

const (
	uncommittedChangesCategoryConstant = "uncommitted changes"
	fetchFailedCategoryConstant        = "fetch failed"
	resetFailedCategoryConstant        = "reset failed"
	mergeConflictCategoryConstant      = "merge conflict"
	mergeFailedCategoryConstant        = "merge failed"
	pushFailedCategoryConstant         = "push failed"
	branchNotFoundCategoryConstant     = "branch not found"
	notRepositoryCategoryConstant      = "not a git repository"
)

// Failure categories carried by OperationError. Match them with errors.Is.
var (
	ErrUncommittedChanges = errors.New(uncommittedChangesCategoryConstant)
	ErrFetchFailed        = errors.New(fetchFailedCategoryConstant)
	ErrResetFailed        = errors.New(resetFailedCategoryConstant)
	ErrMergeConflict      = errors.New(mergeConflictCategoryConstant)
	ErrMergeFailed        = errors.New(mergeFailedCategoryConstant)
	ErrPushFailed         = errors.New(pushFailedCategoryConstant)
	ErrBranchNotFound     = errors.New(branchNotFoundCategoryConstant)
	ErrNotRepository      = errors.New(notRepositoryCategoryConstant)
)

// OperationError reports a git operation whose result was classified as a failure.
// Context holds the captured process output when it helps diagnose the failure.
type OperationError struct {
	Category error
	Message  string
	Context  string
}

// NewOperationError constructs an OperationError for the provided category.
func NewOperationError(category error, message string, context string) OperationError {
	return OperationError{Category: category, Message: message, Context: context}
}

// Error returns the human-readable message.
func (operationError OperationError) Error() string {
	if len(operationError.Message) == 0 && operationError.Category != nil {
		return operationError.Category.Error()
	}
	return operationError.Message
}

// Unwrap exposes the failure category.
func (operationError OperationError) Unwrap() error {
	return operationError.Category
}

// HasContext reports whether captured process output accompanies the error.
func (operationError OperationError) HasContext() bool {
	return len(operationError.Context) > 0
}
