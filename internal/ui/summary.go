package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

const (
	mergedLineTemplateConstant        = "%s %s -> %s\n"
	mergedLabelConstant               = "MERGED:"
	returnedLineTemplateConstant      = "%s %s\n"
	returnedLabelConstant             = "RETURNED:"
	summaryWriteErrorTemplateConstant = "unable to write merge summary: %w"
	successColorConstant              = "#50C878"
	mutedColorConstant                = "#AAAAAA"
)

// MergeSummary lists what a merge workflow run published.
type MergeSummary struct {
	SourceBranch   string
	TargetBranches []string
	ReturnedBranch string
}

// SummaryRenderer writes MergeSummary lines, optionally styled for a terminal.
type SummaryRenderer struct {
	styled       bool
	colorProfile termenv.Profile
}

// NewSummaryRenderer constructs a renderer that styles labels only when styled is true.
// Colors follow the environment's profile, so NO_COLOR and dumb terminals get plain labels.
func NewSummaryRenderer(styled bool) SummaryRenderer {
	return SummaryRenderer{styled: styled, colorProfile: termenv.EnvColorProfile()}
}

// WithColorProfile returns a copy of the renderer that styles labels using colorProfile.
func (renderer SummaryRenderer) WithColorProfile(colorProfile termenv.Profile) SummaryRenderer {
	renderer.colorProfile = colorProfile
	return renderer
}

// Render writes one MERGED line per target and a RETURNED line when the run switched back.
func (renderer SummaryRenderer) Render(writer io.Writer, summary MergeSummary) error {
	styleRenderer := lipgloss.NewRenderer(writer)
	styleRenderer.SetColorProfile(renderer.colorProfile)
	successLabelStyle := styleRenderer.NewStyle().Bold(true).Foreground(lipgloss.Color(successColorConstant))
	mutedLabelStyle := styleRenderer.NewStyle().Foreground(lipgloss.Color(mutedColorConstant))

	for _, targetBranch := range summary.TargetBranches {
		if _, writeError := fmt.Fprintf(writer, mergedLineTemplateConstant, renderer.label(successLabelStyle, mergedLabelConstant), summary.SourceBranch, targetBranch); writeError != nil {
			return fmt.Errorf(summaryWriteErrorTemplateConstant, writeError)
		}
	}
	if len(summary.ReturnedBranch) == 0 {
		return nil
	}
	if _, writeError := fmt.Fprintf(writer, returnedLineTemplateConstant, renderer.label(mutedLabelStyle, returnedLabelConstant), summary.ReturnedBranch); writeError != nil {
		return fmt.Errorf(summaryWriteErrorTemplateConstant, writeError)
	}
	return nil
}

func (renderer SummaryRenderer) label(style lipgloss.Style, text string) string {
	if !renderer.styled {
		return text
	}
	return style.Render(text)
}

// IsTerminal reports whether the writer or reader is an interactive terminal.
func IsTerminal(stream any) bool {
	file, isFile := stream.(*os.File)
	if !isFile || file == nil {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
