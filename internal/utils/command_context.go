package utils

import "context"

const invocationMetadataContextKeyConstant = invocationContextKey("invocationMetadata")

type invocationContextKey string

// InvocationMetadata records where the running command sourced its configuration and where diagnostics go.
type InvocationMetadata struct {
	ConfigurationFilePath string
	LogFilePath           string
}

// CommandContextAccessor stores InvocationMetadata in cobra command contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithInvocationMetadata returns a child of parentContext carrying metadata.
func (accessor CommandContextAccessor) WithInvocationMetadata(parentContext context.Context, metadata InvocationMetadata) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, invocationMetadataContextKeyConstant, metadata)
}

// InvocationMetadata reports the metadata attached by WithInvocationMetadata, if any.
func (accessor CommandContextAccessor) InvocationMetadata(executionContext context.Context) (InvocationMetadata, bool) {
	if executionContext == nil {
		return InvocationMetadata{}, false
	}
	metadata, available := executionContext.Value(invocationMetadataContextKeyConstant).(InvocationMetadata)
	return metadata, available
}
