package loader

import (
	"fmt"
	"math"

	"github.com/shinji-kodama/railyard/internal/model"
	"github.com/shinji-kodama/railyard/internal/queue"
)

// Violation labels recorded on slots and drops.
const (
	ViolationOverWeight = "over-weight-limit"
	ViolationInverted   = "lower-not-heavier"
)

// TwentyTiers are the three weight tiers of 20ft containers, each ordered
// heaviest first.
type TwentyTiers struct {
	Heavy  *queue.Deque // tier A
	Medium *queue.Deque // tier B
	Light  *queue.Deque // tier C
}

// twentyRules returns the twenty-foot rules in priority order.
func twentyRules(opts Options) []Rule[*TwentyTiers] {
	return []Rule[*TwentyTiers]{
		{
			Name:  "heavy-pair",
			Match: func(t *TwentyTiers) bool { return sameTierPair(t.Heavy, opts) },
			Apply: func(t *TwentyTiers) Step { return popPair(t.Heavy, t.Heavy) },
		},
		{
			Name:  "heavy-medium",
			Match: func(t *TwentyTiers) bool { return crossTierPair(t.Heavy, t.Medium, opts) },
			Apply: func(t *TwentyTiers) Step { return popPair(t.Heavy, t.Medium) },
		},
		{
			Name:  "medium-pair",
			Match: func(t *TwentyTiers) bool { return sameTierPair(t.Medium, opts) },
			Apply: func(t *TwentyTiers) Step { return popPair(t.Medium, t.Medium) },
		},
		{
			Name:  "medium-light",
			Match: func(t *TwentyTiers) bool { return crossTierPair(t.Medium, t.Light, opts) },
			Apply: func(t *TwentyTiers) Step { return popPair(t.Medium, t.Light) },
		},
		{
			Name: "light-single",
			Match: func(t *TwentyTiers) bool {
				w, ok := t.Light.Front()
				if !ok {
					return false
				}
				return !opts.Strict || w <= opts.WeightLimit
			},
			Apply: func(t *TwentyTiers) Step {
				w, _ := t.Light.PopFront()
				if w <= opts.WeightLimit {
					return emit(model.SlotSingle, w)
				}
				// Consumed but not loaded; loading ends here.
				step := emit(model.SlotDrop, w)
				step.Slot.Violations = []string{ViolationOverWeight}
				step.Stop = true
				return step
			},
		},
	}
}

// LoadTwenty loads 20ft containers onto wagons.
//
// Each wagon takes the first rule that matches, in this order:
//  1. heavy-pair: two heavy containers within the pairing limit
//  2. heavy-medium: one heavy and one medium
//  3. medium-pair: two medium containers within the pairing limit
//  4. medium-light: one medium and one light
//  5. light-single: one light container alone
//
// Rules 1-4 also require the pair to fit the weight limit. Loading stops when
// WagonCount wagons are loaded or no rule matches; the plan may be shorter
// than WagonCount. The tiers are consumed in place.
func LoadTwenty(tiers *TwentyTiers, opts Options) (model.Plan, error) {
	if err := opts.validateTwenty(); err != nil {
		return model.Plan{}, fmt.Errorf("twenty-foot loader: %w", err)
	}
	if tiers == nil {
		tiers = &TwentyTiers{}
	}
	return firstMatch(twentyRules(opts), tiers, opts), nil
}

// sameTierPair reports whether the two front containers of d may be paired:
// their weight difference is strictly under the pairing limit and their sum
// fits the weight limit.
func sameTierPair(d *queue.Deque, opts Options) bool {
	a, ok := d.At(0)
	if !ok {
		return false
	}
	b, ok := d.At(1)
	if !ok {
		return false
	}
	return math.Abs(a-b) < opts.PairingLimit && a+b <= opts.WeightLimit
}

// crossTierPair reports whether the fronts of two tiers fit one wagon.
func crossTierPair(first, second *queue.Deque, opts Options) bool {
	a, ok := first.Front()
	if !ok {
		return false
	}
	b, ok := second.Front()
	if !ok {
		return false
	}
	return a+b <= opts.WeightLimit
}

// popPair pops the front of first, then the front of second, as a pair.
// Passing the same tier twice takes its two front containers.
func popPair(first, second *queue.Deque) Step {
	a, _ := first.PopFront()
	b, _ := second.PopFront()
	return emit(model.SlotPair, a, b)
}
