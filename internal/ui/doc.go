// Package ui renders human-readable console feedback for the merge workflow.
//
// ConsoleCommandEventLogger echoes each git invocation as "> git <args>"
// followed by its captured output, while detailed telemetry continues to flow
// through the structured diagnostic logger.
package ui
