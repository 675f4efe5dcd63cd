package pathutils

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	repositoryPathRequiredMessageConstant = "repository path is required"
	absolutePathErrorTemplateConstant     = "unable to resolve repository path %q: %w"
)

// ErrRepositoryPathRequired indicates a blank repository path was supplied.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// RepositoryPathResolver normalizes user-supplied repository paths.
type RepositoryPathResolver struct {
	homeExpander *HomeExpander
}

// NewRepositoryPathResolver constructs a resolver; a nil expander falls back to the operating system home directory.
func NewRepositoryPathResolver(homeExpander *HomeExpander) *RepositoryPathResolver {
	if homeExpander == nil {
		homeExpander = NewHomeExpander()
	}
	return &RepositoryPathResolver{homeExpander: homeExpander}
}

// Resolve trims the candidate, expands a leading tilde, and returns a cleaned absolute path.
func (resolver *RepositoryPathResolver) Resolve(candidatePath string) (string, error) {
	trimmedPath := strings.TrimSpace(candidatePath)
	if len(trimmedPath) == 0 {
		return "", ErrRepositoryPathRequired
	}

	expander := NewHomeExpander()
	if resolver != nil && resolver.homeExpander != nil {
		expander = resolver.homeExpander
	}

	absolutePath, absoluteError := filepath.Abs(expander.Expand(trimmedPath))
	if absoluteError != nil {
		return "", fmt.Errorf(absolutePathErrorTemplateConstant, trimmedPath, absoluteError)
	}
	return absolutePath, nil
}
