package loader

import (
	"fmt"

	"github.com/shinji-kodama/railyard/internal/model"
	"github.com/shinji-kodama/railyard/internal/queue"
)

// FortyTiers are the four 40ft tiers. The first pair is loaded before the
// second; within a pair the lower tier goes under the upper tier.
type FortyTiers struct {
	FirstLower  *queue.Deque
	FirstUpper  *queue.Deque
	SecondLower *queue.Deque
	SecondUpper *queue.Deque
}

// fortyPhases returns the forty-foot phases in load order.
func fortyPhases(opts Options) []Rule[*FortyTiers] {
	return []Rule[*FortyTiers]{
		tierPairPhase("first-pair", func(t *FortyTiers) (*queue.Deque, *queue.Deque) {
			return t.FirstLower, t.FirstUpper
		}, opts),
		tierPairPhase("second-pair", func(t *FortyTiers) (*queue.Deque, *queue.Deque) {
			return t.SecondLower, t.SecondUpper
		}, opts),
		leftoverSinglePhase("first-lower-single", func(t *FortyTiers) *queue.Deque { return t.FirstLower }, opts),
		leftoverSinglePhase("second-lower-single", func(t *FortyTiers) *queue.Deque { return t.SecondLower }, opts),
	}
}

// tierPairPhase pairs the fronts of a lower and an upper tier. The preferred
// shape is a lower container heavier than the upper one with the sum inside
// the weight limit. Without Strict the pair is loaded even when that check
// fails and the failures are listed as violations; with Strict it is
// dropped.
func tierPairPhase(name string, pick func(*FortyTiers) (*queue.Deque, *queue.Deque), opts Options) Rule[*FortyTiers] {
	return Rule[*FortyTiers]{
		Name: name,
		Match: func(t *FortyTiers) bool {
			lower, upper := pick(t)
			return !lower.Empty() && !upper.Empty()
		},
		Apply: func(t *FortyTiers) Step {
			lowerQ, upperQ := pick(t)
			lower, _ := lowerQ.PopFront()
			upper, _ := upperQ.PopFront()

			var violations []string
			if lower <= upper {
				violations = append(violations, ViolationInverted)
			}
			if lower+upper > opts.WeightLimit {
				violations = append(violations, ViolationOverWeight)
			}

			kind := model.SlotPair
			if opts.Strict && len(violations) > 0 {
				kind = model.SlotDrop
			}
			step := emit(kind, lower, upper)
			step.Slot.Violations = violations
			return step
		},
	}
}

// leftoverSinglePhase loads what is left in a lower tier one container per
// wagon. Containers over the weight limit are consumed and dropped.
func leftoverSinglePhase(name string, pick func(*FortyTiers) *queue.Deque, opts Options) Rule[*FortyTiers] {
	return Rule[*FortyTiers]{
		Name:  name,
		Match: func(t *FortyTiers) bool { return !pick(t).Empty() },
		Apply: func(t *FortyTiers) Step {
			w, _ := pick(t).PopFront()
			return singleOrDrop(w, opts)
		},
	}
}

// singleOrDrop emits w as a single when it fits the weight limit and as a
// drop otherwise.
func singleOrDrop(w float64, opts Options) Step {
	if w <= opts.WeightLimit {
		return emit(model.SlotSingle, w)
	}
	step := emit(model.SlotDrop, w)
	step.Slot.Violations = []string{ViolationOverWeight}
	return step
}

// LoadForty loads 40ft containers onto wagons in three phases:
//  1. first-pair: FirstLower under FirstUpper while both have containers
//  2. second-pair: SecondLower under SecondUpper likewise
//  3. leftovers of FirstLower, then SecondLower, as singles
//
// Every phase stops once WagonCount wagons are loaded. The tiers are
// consumed in place.
func LoadForty(tiers *FortyTiers, opts Options) (model.Plan, error) {
	if err := opts.validate(); err != nil {
		return model.Plan{}, fmt.Errorf("forty-foot loader: %w", err)
	}
	if tiers == nil {
		tiers = &FortyTiers{}
	}
	return drain(fortyPhases(opts), tiers, opts), nil
}
