// Package mergeflow merges a source branch into one or more target branches.
//
// For every target the Service checks the branch out, resets it to the remote
// tip, merges the source, and pushes the result, stopping at the first failure.
// CommandBuilder exposes the workflow as the "merge" Cobra command.
package mergeflow
