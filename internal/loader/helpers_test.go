package loader

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/shinji-kodama/railyard/internal/model"
	"github.com/stretchr/testify/assert"
)

// weightGen produces reproducible tiers for property tests.
type weightGen struct {
	r *rand.Rand
}

func newWeightGen(seed uint64) *weightGen {
	return &weightGen{r: rand.New(rand.NewPCG(seed, seed*31+1))}
}

// tier returns up to maxLen weights in [lo, hi), rounded to half tonnes and
// sorted heaviest first.
func (g *weightGen) tier(maxLen int, lo, hi float64) []float64 {
	n := g.r.IntN(maxLen + 1)
	out := make([]float64, n)
	for i := range out {
		w := lo + g.r.Float64()*(hi-lo)
		out[i] = float64(int(w*2)) / 2
	}
	slices.SortFunc(out, func(a, b float64) int { return cmp.Compare(b, a) })
	return out
}

func concat(parts ...[]float64) []float64 {
	var out []float64
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// assertConsumedOnce checks that every container taken from the input
// appears in exactly one slot of the plan, loaded or dropped.
func assertConsumedOnce(t *testing.T, input, remaining []float64, plan model.Plan) {
	t.Helper()

	counts := map[float64]int{}
	for _, w := range input {
		counts[w]++
	}
	for _, w := range remaining {
		counts[w]--
	}
	for _, s := range plan.Slots {
		for _, w := range s.Weights {
			counts[w]--
		}
	}
	for w, n := range counts {
		assert.Zero(t, n, "weight %g consumed %d times more than it was emitted", w, n)
	}
}
