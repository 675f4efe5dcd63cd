package execshell_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/mergeflow/internal/execshell"
)

func TestExecutionResultIsFailed(testInstance *testing.T) {
	for _, exitCode := range []int{-1, 1, 2, 128, 255} {
		require.True(testInstance, execshell.ExecutionResult{ExitCode: exitCode}.IsFailed(), fmt.Sprintf("exit code %d", exitCode))
	}
	require.False(testInstance, execshell.ExecutionResult{ExitCode: 0, StandardError: "warning: noise"}.IsFailed())
}

func TestExecutionResultCombinedOutput(testInstance *testing.T) {
	testCases := []struct {
		name           string
		result         execshell.ExecutionResult
		expectedOutput string
	}{
		{
			name:           "standard_output_only",
			result:         execshell.ExecutionResult{StandardOutput: "Already up to date.\n"},
			expectedOutput: "Already up to date.\n",
		},
		{
			name:           "standard_error_only",
			result:         execshell.ExecutionResult{StandardError: "fatal: could not resolve host\n"},
			expectedOutput: "fatal: could not resolve host\n",
		},
		{
			name:           "both_streams_with_trailing_newline",
			result:         execshell.ExecutionResult{StandardOutput: "Auto-merging a.txt\n", StandardError: "error: failed\n"},
			expectedOutput: "Auto-merging a.txt\nerror: failed\n",
		},
		{
			name:           "both_streams_without_trailing_newline",
			result:         execshell.ExecutionResult{StandardOutput: "Auto-merging a.txt", StandardError: "error: failed"},
			expectedOutput: "Auto-merging a.txterror: failed",
		},
		{
			name:           "empty",
			result:         execshell.ExecutionResult{},
			expectedOutput: "",
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedOutput, testCase.result.CombinedOutput())
		})
	}
}

func TestExecutionResultTrimmedStandardOutput(testInstance *testing.T) {
	result := execshell.ExecutionResult{StandardOutput: "  \n main \n\t"}
	require.Equal(testInstance, "main", result.TrimmedStandardOutput())
	require.Empty(testInstance, execshell.ExecutionResult{StandardOutput: " \n\t "}.TrimmedStandardOutput())
}
