package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/railyard/internal/loader"
	"github.com/shinji-kodama/railyard/internal/manifest"
	"github.com/shinji-kodama/railyard/internal/model"
	"github.com/shinji-kodama/railyard/internal/report"
)

// loadFlags holds the flag values for the load command. Flags set on the
// command line replace the manifest's knobs.
type loadFlags struct {
	wagons       int
	weightLimit  float64
	pairingLimit float64
	strict       bool
	sort         bool
	out          string
}

// NewLoadCommand creates the "load" cobra command.
func NewLoadCommand() *cobra.Command {
	flags := &loadFlags{}

	cmd := &cobra.Command{
		Use:   "load [manifest]",
		Short: "Plan wagon loads for 20ft, 40ft or mixed containers",
		Long: `Plan wagon loads with the loader selected by the manifest mode.

  twenty  pairs 20ft containers from heavy, medium and light tiers
  forty   pairs lower and upper 40ft tiers, then loads leftover singles
  mixed   loads 20ft pairs with a 40ft balancer, then 40ft pairs and singles

Containers consumed without being loaded are reported as drops.

Examples:
  railyard load twenty.yaml
  railyard load forty.jsonc --wagons 12 --strict
  railyard load mixed.yaml --sort --json --out plans/mixed.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, args, flags)
		},
	}

	cmd.Flags().IntVar(&flags.wagons, "wagons", 0, "Number of wagons to load (overrides the manifest)")
	cmd.Flags().Float64Var(&flags.weightLimit, "weight-limit", 0, "Maximum weight per wagon (overrides the manifest)")
	cmd.Flags().Float64Var(&flags.pairingLimit, "pairing-limit", 0, "Maximum weight difference of a same-tier 20ft pair (overrides the manifest)")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "Never load or consume containers over the weight limit where the default would")
	cmd.Flags().BoolVar(&flags.sort, "sort", false, "Sort every tier heaviest first before loading")
	cmd.Flags().StringVar(&flags.out, "out", "", "Write the plan to this file instead of stdout")

	return cmd
}

func runLoad(cmd *cobra.Command, args []string, flags *loadFlags) error {
	format, err := resolveFormat()
	if err != nil {
		return err
	}

	m, err := loadManifest(args)
	if err != nil {
		return err
	}
	applyLoadOverrides(cmd, m, flags)

	if errs := manifest.Validate(m); len(errs) > 0 {
		return invalidManifestError(errs)
	}
	if !m.Mode.IsWagon() {
		return model.NewCLIError(model.ExitInvalidManifest,
			fmt.Sprintf("mode %s has no wagon loader; use the block command", m.Mode))
	}
	for _, w := range manifest.OrderingWarnings(m) {
		VerboseLog("Warning: %s: %s", w.Field, w.Message)
	}

	logger, closeLog, err := newRuleLogger(cmd.ErrOrStderr())
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to set up logging", err)
	}
	defer func() { _ = closeLog() }()

	opts := m.Options()
	opts.Logger = logger

	plan, err := runLoader(m, opts)
	if err != nil {
		return model.WrapCLIError(model.ExitInvalidManifest, "load failed", err)
	}
	VerboseLog("Loaded %d of %d wagons, %d drop records", plan.Loaded(), opts.WagonCount, len(plan.Dropped()))

	return writeOutput(cmd, flags.out, func(w io.Writer) error {
		return report.WritePlan(w, format, m.Name, plan)
	})
}

// runLoader dispatches to the loader for the manifest mode. Each call builds
// fresh queues from the manifest.
func runLoader(m *manifest.Manifest, opts loader.Options) (model.Plan, error) {
	switch m.Mode {
	case model.ModeTwenty:
		tiers, err := m.TwentyTiers()
		if err != nil {
			return model.Plan{}, err
		}
		return loader.LoadTwenty(tiers, opts)
	case model.ModeForty:
		tiers, err := m.FortyTiers()
		if err != nil {
			return model.Plan{}, err
		}
		return loader.LoadForty(tiers, opts)
	case model.ModeMixed:
		tiers, err := m.MixedTiers()
		if err != nil {
			return model.Plan{}, err
		}
		return loader.LoadMixed(tiers, opts)
	default:
		return model.Plan{}, fmt.Errorf("no wagon loader for mode %q", m.Mode)
	}
}

// applyLoadOverrides copies explicitly set flags into the manifest, so
// --strict=false and --sort=false switch off what the manifest enables.
func applyLoadOverrides(cmd *cobra.Command, m *manifest.Manifest, flags *loadFlags) {
	changed := cmd.Flags().Changed
	if changed("wagons") {
		m.Wagons = flags.wagons
	}
	if changed("weight-limit") {
		m.WeightLimit = flags.weightLimit
	}
	if changed("pairing-limit") {
		m.PairingLimit = flags.pairingLimit
	}
	if changed("strict") {
		m.Strict = flags.strict
	}
	if changed("sort") {
		m.SortTiers = flags.sort
	}
}
