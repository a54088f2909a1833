// Package cli holds helpers shared by the gateway's subcommands: typed
// errors with exit codes, signal-aware contexts, output rendering and a
// step reporter for multi-step diagnostics.
package cli
