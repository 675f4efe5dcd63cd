package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildStartedMessageForFetchIncludesRemoteAndReferences(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"fetch", "origin", "release"},
			WorkingDirectory: "/workspace/repo",
		},
	}

	require.Equal(t, "Fetching release from origin in /workspace/repo", formatter.BuildStartedMessage(command))
}

func TestBuildStartedMessageForFetchWithoutReferencesUsesAllReferencesLabel(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name:    CommandGit,
		Details: CommandDetails{Arguments: []string{"fetch", "--prune", "origin"}, WorkingDirectory: "/workspace/repo"},
	}

	require.Equal(t, "Fetching all references from origin in /workspace/repo", formatter.BuildStartedMessage(command))
}

func TestGitMessagesDescribeMergeWorkflowSteps(t *testing.T) {
	formatter := CommandMessageFormatter{}
	testCases := []struct {
		name      string
		arguments []string
		result    ExecutionResult
		failure   error
		stage     messageStage
		expected  string
	}{
		{
			name:      "status_start",
			arguments: []string{"status", "--porcelain"},
			stage:     messageStageStart,
			expected:  "Reviewing working tree status in /repo",
		},
		{
			name:      "checkout_success",
			arguments: []string{"checkout", "release"},
			stage:     messageStageSuccess,
			expected:  "/repo now on branch release",
		},
		{
			name:      "reset_failure",
			arguments: []string{"reset", "--hard", "origin/release"},
			result:    ExecutionResult{ExitCode: 128, StandardError: "fatal: ambiguous argument\n"},
			stage:     messageStageFailure,
			expected:  "Failed to reset /repo to origin/release (exit code 128: fatal: ambiguous argument)",
		},
		{
			name:      "merge_start",
			arguments: []string{"merge", "feature"},
			stage:     messageStageStart,
			expected:  "Merging feature in /repo",
		},
		{
			name:      "merge_abort_success",
			arguments: []string{"merge", "--abort"},
			stage:     messageStageSuccess,
			expected:  "Aborted in-progress merge in /repo",
		},
		{
			name:      "push_failure_without_stderr",
			arguments: []string{"push", "origin", "release"},
			result:    ExecutionResult{ExitCode: 1},
			stage:     messageStageFailure,
			expected:  "Failed to push release to origin from /repo (exit code 1)",
		},
		{
			name:      "current_branch_success",
			arguments: []string{"branch", "--show-current"},
			result:    ExecutionResult{StandardOutput: "feature\n"},
			stage:     messageStageSuccess,
			expected:  "Current branch in /repo is feature",
		},
		{
			name:      "current_branch_detached",
			arguments: []string{"branch", "--show-current"},
			stage:     messageStageSuccess,
			expected:  "/repo is in a detached HEAD state",
		},
		{
			name:      "verify_failure",
			arguments: []string{"rev-parse", "--verify", "missing"},
			result:    ExecutionResult{ExitCode: 128, StandardError: "fatal: Needed a single revision"},
			stage:     messageStageFailure,
			expected:  "Failed to verify missing in /repo (exit code 128: fatal: Needed a single revision)",
		},
		{
			name:      "work_tree_execution_failure",
			arguments: []string{"rev-parse", "--is-inside-work-tree"},
			failure:   errors.New("executable not found"),
			stage:     messageStageExecutionFailure,
			expected:  "Could not analyze /repo: executable not found",
		},
		{
			name:      "local_branches_start",
			arguments: []string{"for-each-ref", "--sort=-committerdate", "--format=%(refname:short)", "refs/heads/"},
			stage:     messageStageStart,
			expected:  "Listing local branches in /repo",
		},
		{
			name:      "unknown_subcommand_falls_back_to_generic",
			arguments: []string{"gc", "--auto"},
			stage:     messageStageStart,
			expected:  "Running git gc --auto (in /repo)",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			command := ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: testCase.arguments, WorkingDirectory: "/repo"}}
			require.Equal(t, testCase.expected, formatter.buildMessage(command, testCase.result, testCase.failure, testCase.stage))
		})
	}
}

func TestGitMessagesUseCurrentDirectoryLabelWithoutWorkingDirectory(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"status", "--porcelain"}}}

	require.Equal(t, "Collected working tree status for current directory", formatter.BuildSuccessMessage(command))
}

func TestGenericMessageForNonGitCommand(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{Name: CommandName("sh"), Details: CommandDetails{Arguments: []string{"-c", "exit 3"}}}

	require.Equal(t, "sh -c exit 3 failed with exit code 3", formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 3}))
}
