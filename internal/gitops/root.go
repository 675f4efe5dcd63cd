package gitops

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

const (
	startPathRequiredMessageConstant            = "start path must be provided"
	repositoryRootOpenErrorTemplateConstant     = "unable to open repository at %s: %w"
	repositoryRootWorktreeErrorTemplateConstant = "unable to resolve working tree for %s: %w"
	startPathResolveErrorTemplateConstant       = "unable to resolve path %s: %w"
)

// ErrStartPathRequired indicates repository root discovery was invoked without a path.
var ErrStartPathRequired = errors.New(startPathRequiredMessageConstant)

// DiscoverRepositoryRoot walks upward from startPath and returns the top-level directory of the
// enclosing working tree. Upward detection only recognizes .git directories, so a startPath that is
// itself a bare repository is reopened directly and rejected with git.ErrIsBareRepository.
// Paths outside any repository fail with git.ErrRepositoryNotExists.
func DiscoverRepositoryRoot(startPath string) (string, error) {
	trimmedStartPath := strings.TrimSpace(startPath)
	if len(trimmedStartPath) == 0 {
		return "", ErrStartPathRequired
	}

	absoluteStartPath, absoluteError := filepath.Abs(trimmedStartPath)
	if absoluteError != nil {
		return "", fmt.Errorf(startPathResolveErrorTemplateConstant, trimmedStartPath, absoluteError)
	}

	repository, openError := git.PlainOpenWithOptions(absoluteStartPath, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(openError, git.ErrRepositoryNotExists) {
		if bareRepository, bareOpenError := git.PlainOpen(absoluteStartPath); bareOpenError == nil {
			repository, openError = bareRepository, nil
		}
	}
	if openError != nil {
		return "", fmt.Errorf(repositoryRootOpenErrorTemplateConstant, absoluteStartPath, openError)
	}

	worktree, worktreeError := repository.Worktree()
	if worktreeError != nil {
		return "", fmt.Errorf(repositoryRootWorktreeErrorTemplateConstant, absoluteStartPath, worktreeError)
	}

	return worktree.Filesystem.Root(), nil
}
