package gitops_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/require"

	"github.com/temirov/mergeflow/internal/gitops"
)

func TestDiscoverRepositoryRootFromNestedDirectory(testInstance *testing.T) {
	repositoryRoot := testInstance.TempDir()
	_, initError := git.PlainInit(repositoryRoot, false)
	require.NoError(testInstance, initError)

	nestedDirectory := filepath.Join(repositoryRoot, "cmd", "tool")
	require.NoError(testInstance, os.MkdirAll(nestedDirectory, 0o755))

	discoveredRoot, discoveryError := gitops.DiscoverRepositoryRoot(nestedDirectory)
	require.NoError(testInstance, discoveryError)

	expectedRoot, evalError := filepath.EvalSymlinks(repositoryRoot)
	require.NoError(testInstance, evalError)
	actualRoot, actualEvalError := filepath.EvalSymlinks(discoveredRoot)
	require.NoError(testInstance, actualEvalError)
	require.Equal(testInstance, expectedRoot, actualRoot)
}

func TestDiscoverRepositoryRootFailures(testInstance *testing.T) {
	testCases := []struct {
		name          string
		startPath     func(testInstance *testing.T) string
		expectedError error
	}{
		{
			name:          "blank_path",
			startPath:     func(*testing.T) string { return "  " },
			expectedError: gitops.ErrStartPathRequired,
		},
		{
			name:          "outside_repository",
			startPath:     func(testInstance *testing.T) string { return testInstance.TempDir() },
			expectedError: git.ErrRepositoryNotExists,
		},
		{
			name: "bare_repository",
			startPath: func(testInstance *testing.T) string {
				barePath := filepath.Join(testInstance.TempDir(), "origin.git")
				_, bareInitError := git.PlainInit(barePath, true)
				require.NoError(testInstance, bareInitError)
				return barePath
			},
			expectedError: git.ErrIsBareRepository,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			discoveredRoot, discoveryError := gitops.DiscoverRepositoryRoot(testCase.startPath(testInstance))
			require.ErrorIs(testInstance, discoveryError, testCase.expectedError)
			require.Empty(testInstance, discoveredRoot)
		})
	}
}
