package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/railyard/internal/manifest"
	"github.com/shinji-kodama/railyard/internal/model"
	"github.com/shinji-kodama/railyard/internal/report"
)

// loadManifest loads the manifest named by the first argument, or searches
// the current directory when no argument is given.
func loadManifest(args []string) (*manifest.Manifest, error) {
	var path string
	if len(args) > 0 {
		path = args[0]
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
		}
		path, err = manifest.Find(cwd)
		if err != nil {
			return nil, err
		}
	}

	VerboseLog("Using manifest %s", path)
	return manifest.Load(path)
}

// invalidManifestError folds validation errors into one CLIError.
func invalidManifestError(errs []manifest.ValidationError) error {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return model.NewCLIError(model.ExitInvalidManifest, "invalid manifest: "+strings.Join(msgs, "; "))
}

// writeOutput renders a result to stdout, or to a file when out is set.
func writeOutput(cmd *cobra.Command, out string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}

	if out == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}

	if err := report.WriteFile(out, buf.Bytes()); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to write output", err)
	}
	VerboseLog("Wrote %s", out)
	return nil
}
