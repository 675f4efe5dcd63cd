package mergeflow

import (
	"errors"
	"io"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// SurveyConfirmationPrompter asks yes/no questions on an interactive terminal.
type SurveyConfirmationPrompter struct {
	input       terminal.FileReader
	output      terminal.FileWriter
	errorOutput io.Writer
}

// NewSurveyConfirmationPrompter constructs a prompter bound to the provided terminal streams.
func NewSurveyConfirmationPrompter(input terminal.FileReader, output terminal.FileWriter, errorOutput io.Writer) *SurveyConfirmationPrompter {
	return &SurveyConfirmationPrompter{input: input, output: output, errorOutput: errorOutput}
}

// Confirm shows the prompt with a "no" default. An interrupt counts as declining.
func (prompter *SurveyConfirmationPrompter) Confirm(prompt string) (bool, error) {
	confirmed := false
	askError := survey.AskOne(
		&survey.Confirm{Message: prompt, Default: false},
		&confirmed,
		survey.WithStdio(prompter.input, prompter.output, prompter.errorOutput),
	)
	if errors.Is(askError, terminal.InterruptErr) {
		return false, nil
	}
	if askError != nil {
		return false, askError
	}
	return confirmed, nil
}
