package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/railyard/internal/manifest"
	"github.com/shinji-kodama/railyard/internal/model"
	"github.com/shinji-kodama/railyard/internal/report"
)

// NewValidateCommand creates the "validate" cobra command.
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [manifest]",
		Short: "Check a manifest without running an allocator",
		Long: `Check a manifest for errors and report tiers that are not sorted
heaviest first. Exits with code 3 when the manifest is invalid.

Examples:
  railyard validate
  railyard validate forty.jsonc --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args)
		},
	}
	return cmd
}

// validateResult is the structured output of the validate command.
type validateResult struct {
	Path     string                     `json:"path" yaml:"path"`
	Name     string                     `json:"name" yaml:"name"`
	Mode     model.LoadMode             `json:"mode" yaml:"mode"`
	Valid    bool                       `json:"valid" yaml:"valid"`
	Errors   []manifest.ValidationError `json:"errors" yaml:"errors"`
	Warnings []manifest.ValidationError `json:"warnings" yaml:"warnings"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat()
	if err != nil {
		return err
	}

	m, err := loadManifest(args)
	if err != nil {
		return err
	}

	result := validateResult{
		Path:     m.Path(),
		Name:     m.Name,
		Mode:     m.Mode,
		Errors:   append([]manifest.ValidationError{}, manifest.Validate(m)...),
		Warnings: append([]manifest.ValidationError{}, manifest.OrderingWarnings(m)...),
	}
	result.Valid = len(result.Errors) == 0

	err = writeOutput(cmd, "", func(w io.Writer) error {
		if format == report.FormatText {
			return printValidateText(w, result)
		}
		return report.WriteStructured(w, format, result)
	})
	if err != nil {
		return err
	}

	if !result.Valid {
		return model.NewCLIError(model.ExitInvalidManifest,
			fmt.Sprintf("manifest has %d validation error(s)", len(result.Errors)))
	}
	return nil
}

// printValidateText prints a status line followed by one line per finding.
//
//	Manifest invalid: railyard.yaml (mode twenty)
//	  error    pairingLimit: must be positive, got 0
//	  warning  twenty.heavy: tier is not sorted heaviest first; set sortTiers or reorder it
func printValidateText(w io.Writer, r validateResult) error {
	status := "OK"
	if !r.Valid {
		status = "invalid"
	}
	if _, err := fmt.Fprintf(w, "Manifest %s: %s (mode %s)\n", status, r.Path, r.Mode); err != nil {
		return err
	}

	for _, e := range r.Errors {
		if _, err := fmt.Fprintf(w, "  %-8s %s: %s\n", "error", e.Field, e.Message); err != nil {
			return err
		}
	}
	for _, e := range r.Warnings {
		if _, err := fmt.Fprintf(w, "  %-8s %s: %s\n", "warning", e.Field, e.Message); err != nil {
			return err
		}
	}
	return nil
}
