// Package execshell runs external executables and captures their results.
//
// OSCommandRunner spawns a child process with both output streams buffered in
// memory. ShellExecutor wraps a CommandRunner with zap logging and command
// event notifications, dropping empty argument tokens and reporting non-zero
// exit codes as ordinary ExecutionResult values. Only a failure to start the
// process at all surfaces as a CommandExecutionError.
package execshell
