package mergeflow_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/mergeflow/internal/mergeflow"
)

const (
	endToEndDefaultBranchConstant = "master"
	endToEndFeatureBranchConstant = "feature"
	endToEndTrackedFileConstant   = "README.md"
	endToEndAuthorNameConstant    = "Merge Flow"
	endToEndAuthorEmailConstant   = "mergeflow@example.com"
	endToEndRemoteNameConstant    = "origin"
)

func prepareGitEnvironment(t *testing.T) {
	t.Helper()
	if _, lookupError := exec.LookPath("git"); lookupError != nil {
		t.Skip("git executable not available")
	}
	t.Setenv("GIT_AUTHOR_NAME", endToEndAuthorNameConstant)
	t.Setenv("GIT_AUTHOR_EMAIL", endToEndAuthorEmailConstant)
	t.Setenv("GIT_COMMITTER_NAME", endToEndAuthorNameConstant)
	t.Setenv("GIT_COMMITTER_EMAIL", endToEndAuthorEmailConstant)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("HOME", t.TempDir())
}

func commitReadme(t *testing.T, repository *git.Repository, workPath string, contents string) plumbing.Hash {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(workPath, endToEndTrackedFileConstant), []byte(contents), 0o644))
	worktree, worktreeError := repository.Worktree()
	require.NoError(t, worktreeError)
	_, addError := worktree.Add(endToEndTrackedFileConstant)
	require.NoError(t, addError)

	commitHash, commitError := worktree.Commit(contents, &git.CommitOptions{
		Author: &object.Signature{Name: endToEndAuthorNameConstant, Email: endToEndAuthorEmailConstant, When: time.Now()},
	})
	require.NoError(t, commitError)
	return commitHash
}

func TestMergeCommandEndToEnd(t *testing.T) {
	prepareGitEnvironment(t)

	rootPath := t.TempDir()
	originPath := filepath.Join(rootPath, "origin.git")
	workPath := filepath.Join(rootPath, "work")

	originRepository, originError := git.PlainInit(originPath, true)
	require.NoError(t, originError)
	workRepository, workError := git.PlainInit(workPath, false)
	require.NoError(t, workError)

	commitReadme(t, workRepository, workPath, "base\n")

	worktree, worktreeError := workRepository.Worktree()
	require.NoError(t, worktreeError)
	require.NoError(t, worktree.Checkout(&git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(endToEndFeatureBranchConstant), Create: true}))
	featureHash := commitReadme(t, workRepository, workPath, "base\nfeature\n")

	_, remoteError := workRepository.CreateRemote(&gitconfig.RemoteConfig{Name: endToEndRemoteNameConstant, URLs: []string{originPath}})
	require.NoError(t, remoteError)
	require.NoError(t, workRepository.Push(&git.PushOptions{
		RemoteName: endToEndRemoteNameConstant,
		RefSpecs:   []gitconfig.RefSpec{"refs/heads/*:refs/heads/*"},
	}))

	observedCore, observedLogs := observer.New(zapcore.InfoLevel)
	builder := mergeflow.CommandBuilder{
		LoggerProvider:               func() *zap.Logger { return zap.NewNop() },
		ConsoleLoggerProvider:        func() *zap.Logger { return zap.New(observedCore) },
		HumanReadableLoggingProvider: func() bool { return true },
	}
	command, buildError := builder.Build()
	require.NoError(t, buildError)

	standardOutput := &bytes.Buffer{}
	command.SetOut(standardOutput)
	command.SetErr(&bytes.Buffer{})
	command.SetArgs([]string{endToEndDefaultBranchConstant, "--repository", workPath, "--yes"})
	command.SilenceUsage = true

	require.NoError(t, command.Execute())
	require.Equal(t, "MERGED: feature -> master\nRETURNED: feature\n", standardOutput.String())

	originReference, referenceError := originRepository.Reference(plumbing.NewBranchReferenceName(endToEndDefaultBranchConstant), true)
	require.NoError(t, referenceError)
	require.Equal(t, featureHash, originReference.Hash())

	headReference, headError := workRepository.Head()
	require.NoError(t, headError)
	require.Equal(t, plumbing.NewBranchReferenceName(endToEndFeatureBranchConstant), headReference.Name())

	require.Equal(t, 1, observedLogs.FilterMessage("> git push origin master").Len())
}
