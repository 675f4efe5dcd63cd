package ui_test

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/temirov/mergeflow/internal/ui"
)

func TestSummaryRendererPlainOutput(testInstance *testing.T) {
	testCases := []struct {
		name           string
		summary        ui.MergeSummary
		expectedOutput string
	}{
		{
			name:           "single_target",
			summary:        ui.MergeSummary{SourceBranch: "feature-x", TargetBranches: []string{"main"}},
			expectedOutput: "MERGED: feature-x -> main\n",
		},
		{
			name:           "multiple_targets_with_return",
			summary:        ui.MergeSummary{SourceBranch: "feature-x", TargetBranches: []string{"main", "release"}, ReturnedBranch: "feature-x"},
			expectedOutput: "MERGED: feature-x -> main\nMERGED: feature-x -> release\nRETURNED: feature-x\n",
		},
		{
			name:           "nothing_merged",
			summary:        ui.MergeSummary{SourceBranch: "feature-x"},
			expectedOutput: "",
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			require.NoError(testInstance, ui.NewSummaryRenderer(false).Render(outputBuffer, testCase.summary))
			require.Equal(testInstance, testCase.expectedOutput, outputBuffer.String())
		})
	}
}

func TestSummaryRendererStyledOutput(testInstance *testing.T) {
	testCases := []struct {
		name         string
		colorProfile termenv.Profile
		expectEscape bool
	}{
		{name: "true_color", colorProfile: termenv.TrueColor, expectEscape: true},
		{name: "ascii", colorProfile: termenv.Ascii, expectEscape: false},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			renderer := ui.NewSummaryRenderer(true).WithColorProfile(testCase.colorProfile)
			require.NoError(testInstance, renderer.Render(outputBuffer, ui.MergeSummary{SourceBranch: "feature-x", TargetBranches: []string{"main"}, ReturnedBranch: "feature-x"}))

			output := outputBuffer.String()
			require.Contains(testInstance, output, "MERGED:")
			require.Contains(testInstance, output, " feature-x -> main\n")
			require.Contains(testInstance, output, "RETURNED:")
			require.Equal(testInstance, testCase.expectEscape, strings.Contains(output, "\x1b["))
		})
	}
}

func TestIsTerminalRejectsNonFiles(testInstance *testing.T) {
	require.False(testInstance, ui.IsTerminal(&bytes.Buffer{}))
	require.False(testInstance, ui.IsTerminal(nil))

	temporaryFile, creationError := os.CreateTemp(testInstance.TempDir(), "summary")
	require.NoError(testInstance, creationError)
	defer temporaryFile.Close()
	require.False(testInstance, ui.IsTerminal(temporaryFile))
}
