// Package model defines the domain types and value objects for railyard.
//
// This package contains pure data structures with no external dependencies:
// block positions and allocations, wagon slots and plans, and the load mode
// enumeration. Results are transient; nothing here is persisted between runs.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
