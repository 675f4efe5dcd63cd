package mergeflow

import (
	"strings"
	"time"
)

const (
	// ReportFormatText prints one MERGED line per published target.
	ReportFormatText = "text"
	// ReportFormatYAML prints the workflow result as a YAML document.
	ReportFormatYAML = "yaml"

	repositoryConfigurationKeyConstant       = "repository"
	remoteConfigurationKeyConstant           = "remote"
	sourceConfigurationKeyConstant           = "source"
	targetsConfigurationKeyConstant          = "targets"
	returnToOriginalConfigurationKeyConstant = "return_to_original"
	assumeYesConfigurationKeyConstant        = "assume_yes"
	reportConfigurationKeyConstant           = "report"
	timeoutConfigurationKeyConstant          = "timeout"
	configurationKeySeparatorConstant        = "."
	defaultRemoteNameConstant                = "origin"
)

// CommandConfiguration captures configuration values for the merge command.
type CommandConfiguration struct {
	RepositoryPath   string        `mapstructure:"repository"`
	RemoteName       string        `mapstructure:"remote"`
	SourceBranch     string        `mapstructure:"source"`
	TargetBranches   []string      `mapstructure:"targets"`
	ReturnToOriginal bool          `mapstructure:"return_to_original"`
	AssumeYes        bool          `mapstructure:"assume_yes"`
	ReportFormat     string        `mapstructure:"report"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

// DefaultCommandConfiguration provides baseline configuration values for the merge command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		RepositoryPath:   "",
		RemoteName:       defaultRemoteNameConstant,
		SourceBranch:     "",
		TargetBranches:   nil,
		ReturnToOriginal: true,
		AssumeYes:        false,
		ReportFormat:     ReportFormatText,
		Timeout:          0,
	}
}

// DefaultConfigurationValues exposes the defaults as flat viper keys beneath prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		qualifyConfigurationKey(prefix, repositoryConfigurationKeyConstant):       defaults.RepositoryPath,
		qualifyConfigurationKey(prefix, remoteConfigurationKeyConstant):           defaults.RemoteName,
		qualifyConfigurationKey(prefix, sourceConfigurationKeyConstant):           defaults.SourceBranch,
		qualifyConfigurationKey(prefix, targetsConfigurationKeyConstant):          []string{},
		qualifyConfigurationKey(prefix, returnToOriginalConfigurationKeyConstant): defaults.ReturnToOriginal,
		qualifyConfigurationKey(prefix, assumeYesConfigurationKeyConstant):        defaults.AssumeYes,
		qualifyConfigurationKey(prefix, reportConfigurationKeyConstant):           defaults.ReportFormat,
		qualifyConfigurationKey(prefix, timeoutConfigurationKeyConstant):          defaults.Timeout.String(),
	}
}

// Sanitize trims configuration values and restores defaults for blank remote and report settings.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.RepositoryPath = strings.TrimSpace(configuration.RepositoryPath)
	sanitized.RemoteName = strings.TrimSpace(configuration.RemoteName)
	if len(sanitized.RemoteName) == 0 {
		sanitized.RemoteName = defaultRemoteNameConstant
	}
	sanitized.SourceBranch = strings.TrimSpace(configuration.SourceBranch)
	sanitized.TargetBranches = sanitizeBranchNames(configuration.TargetBranches)
	sanitized.ReportFormat = strings.ToLower(strings.TrimSpace(configuration.ReportFormat))
	if len(sanitized.ReportFormat) == 0 {
		sanitized.ReportFormat = ReportFormatText
	}
	if sanitized.Timeout < 0 {
		sanitized.Timeout = 0
	}

	return sanitized
}

func qualifyConfigurationKey(prefix string, key string) string {
	trimmedPrefix := strings.TrimSpace(prefix)
	if len(trimmedPrefix) == 0 {
		return key
	}
	return trimmedPrefix + configurationKeySeparatorConstant + key
}
