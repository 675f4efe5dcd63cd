// Package utils exposes reusable helpers consumed by the CLI.
//
// It houses the Viper-backed ConfigurationLoader, the zap LoggerFactory with its
// console output pairing, and the command context accessor for configuration metadata.
package utils
