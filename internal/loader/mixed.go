package loader

import (
	"fmt"

	"github.com/shinji-kodama/railyard/internal/model"
	"github.com/shinji-kodama/railyard/internal/queue"
)

// MixedTiers are the inputs of the mixed loader: one queue of 20ft
// containers and four 40ft tiers. Every queue is ordered heaviest first;
// Balancer is consumed from its light end.
type MixedTiers struct {
	Twenty    *queue.Deque
	Singles   *queue.Deque
	PairLower *queue.Deque
	PairUpper *queue.Deque
	Balancer  *queue.Deque
}

func mixedPhases(opts Options) []Rule[*MixedTiers] {
	return []Rule[*MixedTiers]{
		{
			Name: "twenty-balancer",
			Match: func(t *MixedTiers) bool {
				return t.Twenty.Len() >= 2 && !t.Balancer.Empty()
			},
			Apply: func(t *MixedTiers) Step {
				first, _ := t.Twenty.At(0)
				second, _ := t.Twenty.At(1)
				balancer, _ := t.Balancer.Back()

				pair := first + second
				if pair+balancer > opts.WeightLimit || pair <= balancer {
					// The two 20ft containers stay at the front; no other
					// balancer is tried.
					return Step{Stop: true}
				}

				_, _ = t.Twenty.PopFront()
				_, _ = t.Twenty.PopFront()
				_, _ = t.Balancer.PopBack()
				return emit(model.SlotTwentyPairBalancer, first, second, balancer)
			},
		},
		{
			Name: "forty-pair",
			Match: func(t *MixedTiers) bool {
				return !t.PairLower.Empty() && !t.PairUpper.Empty()
			},
			Apply: func(t *MixedTiers) Step {
				lower, _ := t.PairLower.PopFront()
				upper, _ := t.PairUpper.PopFront()
				if lower+upper <= opts.WeightLimit {
					return emit(model.SlotPair, lower, upper)
				}
				// Both containers leave their tiers for good.
				step := emit(model.SlotDrop, lower, upper)
				step.Slot.Violations = []string{ViolationOverWeight}
				return step
			},
		},
		{
			Name:  "forty-single",
			Match: func(t *MixedTiers) bool { return !t.Singles.Empty() },
			Apply: func(t *MixedTiers) Step {
				w, _ := t.Singles.PopFront()
				return singleOrDrop(w, opts)
			},
		},
	}
}

// LoadMixed loads a mix of 20ft and 40ft containers in three phases:
//  1. twenty-balancer: the two heaviest 20ft containers with the lightest
//     balancer, while the trio fits the weight limit and the 20ft pair
//     outweighs the balancer; the first failure ends the phase
//  2. forty-pair: PairLower under PairUpper; over-limit pairs are dropped
//  3. forty-single: Singles alone; over-limit containers are dropped
//
// All phase 1 slots precede phase 2 slots, which precede phase 3 slots.
// Strict has no effect here since every path already honors the limit.
// The tiers are consumed in place.
func LoadMixed(tiers *MixedTiers, opts Options) (model.Plan, error) {
	if err := opts.validate(); err != nil {
		return model.Plan{}, fmt.Errorf("mixed loader: %w", err)
	}
	if tiers == nil {
		tiers = &MixedTiers{}
	}
	return drain(mixedPhases(opts), tiers, opts), nil
}
