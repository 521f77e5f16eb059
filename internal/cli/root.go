// Package cli implements the cobra-based CLI commands for railyard.
//
// Each subcommand (block, load, validate) is defined in its own file within
// this package. This file defines the root command that serves as the parent
// for all subcommands and handles global flags.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/railyard/internal/model"
	"github.com/shinji-kodama/railyard/internal/report"
)

// Global flag variables shared across all subcommands. They are bound to
// persistent flags on the root command and reset every time NewRootCommand
// runs.
var (
	// outputFormat is the raw --output value: text, json or yaml.
	outputFormat string

	// jsonOutput is the --json shorthand for --output json.
	jsonOutput bool

	// verbose enables [verbose] progress lines and rule tracing on stderr.
	verbose bool

	// logFile, when set, receives rule tracing as JSON records.
	logFile string
)

// Version, Commit and Date are injected from the main package at build time.
var (
	// Version is the semantic version of the binary (e.g. "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
//
// The root command itself does not perform any action. It provides help
// text and global flags for the block, load and validate subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		// Use is the one-line usage pattern shown in help output.
		Use:   "railyard",
		Short: "Greedy container allocation for yard blocks and rail wagons",
		Long: `railyard assigns shipping containers to yard block stack positions and to
rail wagon load slots using fixed greedy priority policies.

A run is described by a manifest file (YAML or JSON with comments) that names
the mode (block, twenty, forty or mixed) and carries its input.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// A bad manifest is not a usage mistake, so the help text would only
		// bury the message.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors itself. Execute
		// prints them in text or JSON depending on the output flags.
		SilenceErrors: true,

		// Version is displayed when the --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	// PersistentFlags are inherited by every subcommand, so --output, --json
	// and --verbose work the same after block, load or validate.
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json, yaml")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (same as --output json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Append rule decisions as JSON records to this file")

	// Each subcommand lives in its own file and returns a *cobra.Command.
	rootCmd.AddCommand(NewBlockCommand())
	rootCmd.AddCommand(NewLoadCommand())
	rootCmd.AddCommand(NewValidateCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes. CLIError values
// carry their own exit code; any other error exits with 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		// errors.As also finds a CLIError wrapped by another error.
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		// Anything else (flag parsing, unexpected I/O) exits with code 1.
		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError writes an error to stderr, as JSON when structured output was
// requested. stdout is reserved for command results.
func printError(message string, underlying error) {
	if IsJSONOutput() {
		// Shape: {"error": {"message": ..., "detail": ...}}. detail is the
		// wrapped error and is omitted when there is none.
		errObj := map[string]interface{}{
			"message": message,
		}
		if underlying != nil {
			errObj["detail"] = underlying.Error()
		}
		data, _ := json.MarshalIndent(map[string]interface{}{"error": errObj}, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
		return
	}

	// Text format: "Error: <message>[: <detail>]" on stderr.
	if underlying != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	}
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput reports whether results are rendered as JSON.
func IsJSONOutput() bool {
	f, err := resolveFormat()
	return err == nil && f == report.FormatJSON
}

// resolveFormat combines --json and --output. --json wins when both are set.
func resolveFormat() (report.Format, error) {
	if jsonOutput {
		return report.FormatJSON, nil
	}
	f, err := report.ParseFormat(outputFormat)
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, "invalid --output value", err)
	}
	return f, nil
}
