// Package cli assembles the mergeflow command-line interface: the Cobra root
// command with its persistent configuration and logging flags, the layered
// configuration loader, and the merge subcommand.
package cli
