package loader

import (
	"log/slog"

	"github.com/shinji-kodama/railyard/internal/model"
)

// Step is the outcome of applying a Rule.
type Step struct {
	// Slot is the record to append when Emit is set. An empty Source is
	// filled with the rule name.
	Slot model.WagonSlot

	// Emit appends Slot to the plan. Drop records are emitted too.
	Emit bool

	// Stop ends the run (priority mode) or the current phase (phase mode).
	Stop bool
}

// Rule is one eligibility rule of a loader: a predicate over the loader's
// tiers and the action taken when it holds. Apply must consume at least one
// container or return Stop, which bounds every run by the total number of
// queued containers.
type Rule[T any] struct {
	Name  string
	Match func(T) bool
	Apply func(T) Step
}

// emit builds a Step that appends a slot of the given shape.
func emit(kind model.SlotKind, weights ...float64) Step {
	return Step{
		Slot: model.WagonSlot{Kind: kind, Weights: weights},
		Emit: true,
	}
}

// firstMatch evaluates rules top to bottom and applies the first that
// matches, once per wagon, until the wagon count is reached, no rule
// matches, or a rule asks to stop.
func firstMatch[T any](rules []Rule[T], tiers T, opts Options) model.Plan {
	var plan model.Plan
	log := opts.logger()

	for plan.Loaded() < opts.WagonCount {
		fired := false
		for _, r := range rules {
			if !r.Match(tiers) {
				continue
			}
			fired = true
			step := r.Apply(tiers)
			record(&plan, log, r.Name, step)
			if step.Stop {
				return plan
			}
			break
		}
		if !fired {
			log.Debug("no rule matches", slog.Int("loaded", plan.Loaded()))
			break
		}
	}

	return plan
}

// drain applies each rule repeatedly while it matches, in order. A rule
// returning Stop ends its own phase; the next phase still runs.
func drain[T any](phases []Rule[T], tiers T, opts Options) model.Plan {
	var plan model.Plan
	log := opts.logger()

	for _, r := range phases {
		for plan.Loaded() < opts.WagonCount && r.Match(tiers) {
			step := r.Apply(tiers)
			record(&plan, log, r.Name, step)
			if step.Stop {
				break
			}
		}
	}

	return plan
}

func record(plan *model.Plan, log *slog.Logger, rule string, step Step) {
	if !step.Emit {
		log.Debug("rule declined", slog.String("rule", rule))
		return
	}
	if step.Slot.Source == "" {
		step.Slot.Source = rule
	}
	plan.Append(step.Slot)
	log.Debug("rule fired",
		slog.String("rule", rule),
		slog.String("kind", step.Slot.Kind.String()),
		slog.Any("weights", step.Slot.Weights),
		slog.Any("violations", step.Slot.Violations),
	)
}
