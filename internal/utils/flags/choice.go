// Package flags formats and validates enumerated command flag values.
package flags

import (
	"fmt"
	"strings"
)

const (
	choicePlaceholderPrefixConstant  = "<"
	choicePlaceholderSuffixConstant  = ">"
	choiceSeparatorConstant          = "|"
	choiceUsageEmptyTemplateConstant = "`%s`"
	choiceUsageFullTemplateConstant  = "`%s` %s"
)

// FormatChoiceUsage renders "`<a|B|c>` description" where the default choice is upper-cased.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	normalizedDefault := normalizeChoice(defaultChoice)

	displayedChoices := make([]string, 0, len(choices))
	for _, choice := range distinctChoices(choices) {
		if normalizeChoice(choice) == normalizedDefault {
			choice = strings.ToUpper(choice)
		}
		displayedChoices = append(displayedChoices, choice)
	}

	placeholder := choicePlaceholderPrefixConstant + strings.Join(displayedChoices, choiceSeparatorConstant) + choicePlaceholderSuffixConstant
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplateConstant, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplateConstant, placeholder, description)
}

// MatchChoice returns the canonical spelling of value among choices, ignoring case and surrounding whitespace.
func MatchChoice(value string, choices []string) (string, bool) {
	normalizedValue := normalizeChoice(value)
	if len(normalizedValue) == 0 {
		return "", false
	}
	for _, choice := range distinctChoices(choices) {
		if normalizeChoice(choice) == normalizedValue {
			return choice, true
		}
	}
	return "", false
}

func distinctChoices(choices []string) []string {
	distinct := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		normalizedChoice := normalizeChoice(trimmedChoice)
		if len(normalizedChoice) == 0 {
			continue
		}
		if _, exists := seen[normalizedChoice]; exists {
			continue
		}
		seen[normalizedChoice] = struct{}{}
		distinct = append(distinct, trimmedChoice)
	}
	return distinct
}

func normalizeChoice(choice string) string {
	return strings.ToLower(strings.TrimSpace(choice))
}
