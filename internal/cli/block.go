package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/railyard/internal/block"
	"github.com/shinji-kodama/railyard/internal/manifest"
	"github.com/shinji-kodama/railyard/internal/model"
	"github.com/shinji-kodama/railyard/internal/report"
)

// blockFlags holds the flag values for the block command. Dimensions set on
// the command line replace the manifest's.
type blockFlags struct {
	stackHeight int
	maxBays     int
	maxRows     int
	out         string
}

// NewBlockCommand creates the "block" cobra command.
func NewBlockCommand() *cobra.Command {
	flags := &blockFlags{}

	cmd := &cobra.Command{
		Use:   "block [manifest]",
		Short: "Assign stack positions in a yard block",
		Long: `Assign consecutive stack positions to each category of a block manifest.

Categories are served in manifest order. Each receives ceil(count / stack height)
positions, filling rows of a bay before moving to the next bay.

Examples:
  railyard block
  railyard block berth-4.yaml --max-bays 6
  railyard block berth-4.yaml -o yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBlock(cmd, args, flags)
		},
	}

	cmd.Flags().IntVar(&flags.stackHeight, "stack-height", 0, "Containers per stack (overrides the manifest)")
	cmd.Flags().IntVar(&flags.maxBays, "max-bays", 0, "Number of bays (overrides the manifest)")
	cmd.Flags().IntVar(&flags.maxRows, "max-rows", 0, "Rows per bay (overrides the manifest)")
	cmd.Flags().StringVar(&flags.out, "out", "", "Write the result to this file instead of stdout")

	return cmd
}

func runBlock(cmd *cobra.Command, args []string, flags *blockFlags) error {
	format, err := resolveFormat()
	if err != nil {
		return err
	}

	m, err := loadManifest(args)
	if err != nil {
		return err
	}
	if m.Mode != model.ModeBlock {
		VerboseLog("Manifest mode is %s; running the block allocator on its block section", m.Mode)
		m.Mode = model.ModeBlock
	}
	applyBlockOverrides(cmd, m, flags)

	if errs := manifest.Validate(m); len(errs) > 0 {
		return invalidManifestError(errs)
	}

	b, categories, err := m.BlockInput()
	if err != nil {
		return model.WrapCLIError(model.ExitInvalidManifest, "invalid manifest", err)
	}
	allocator, err := block.NewAllocator(b)
	if err != nil {
		return model.WrapCLIError(model.ExitInvalidManifest, "invalid block", err)
	}

	geometry := allocator.Block()

	alloc, err := allocator.Allocate(categories)
	if err != nil {
		if errors.Is(err, model.ErrCapacityExceeded) {
			// The partial allocation goes to the command's stderr so stdout
			// never carries an incomplete result.
			if verbose {
				stderr := cmd.ErrOrStderr()
				fmt.Fprintf(stderr, "Allocation before the failure:\n")
				_ = report.WriteAllocation(stderr, report.FormatText, m.Name, alloc, geometry)
				fmt.Fprintf(stderr, "Not allocated: %s\n", strings.Join(unallocated(categories, alloc), ", "))
			}
			return model.WrapCLIError(model.ExitCapacityExceeded, "block allocation failed", err)
		}
		return model.WrapCLIError(model.ExitGeneralError, "block allocation failed", err)
	}
	VerboseLog("Allocated %d of %d stacks", alloc.Stacks(), geometry.Capacity())

	return writeOutput(cmd, flags.out, func(w io.Writer) error {
		return report.WriteAllocation(w, format, m.Name, alloc, geometry)
	})
}

// unallocated returns the names of the input categories missing from alloc,
// in input order.
func unallocated(categories []model.CategoryCount, alloc model.Allocation) []string {
	var names []string
	for _, c := range categories {
		if _, ok := alloc.Lookup(c.Name); !ok {
			names = append(names, c.Name)
		}
	}
	return names
}

// applyBlockOverrides copies explicitly set dimension flags into the
// manifest, creating an empty block section if needed.
func applyBlockOverrides(cmd *cobra.Command, m *manifest.Manifest, flags *blockFlags) {
	changed := cmd.Flags().Changed
	if !changed("stack-height") && !changed("max-bays") && !changed("max-rows") {
		return
	}
	if m.Block == nil {
		m.Block = &manifest.BlockSection{}
	}
	if changed("stack-height") {
		m.Block.StackHeight = flags.stackHeight
	}
	if changed("max-bays") {
		m.Block.MaxBays = flags.maxBays
	}
	if changed("max-rows") {
		m.Block.MaxRows = flags.maxRows
	}
}
