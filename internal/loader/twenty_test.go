package loader

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/shinji-kodama/railyard/internal/model"
	"github.com/shinji-kodama/railyard/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleTwentyTiers() *TwentyTiers {
	return &TwentyTiers{
		Heavy:  queue.New(24, 23.5, 23, 22.5),
		Medium: queue.New(19, 18.5, 18, 17.5),
		Light:  queue.New(4, 3.8, 3.5, 3.2),
	}
}

func twentyOpts(wagons int) Options {
	return Options{WagonCount: wagons, WeightLimit: 61, PairingLimit: 20}
}

// TestLoadTwenty_TwoWagons checks the reference scenario: two wagons both
// load heavy pairs and the other tiers stay untouched.
func TestLoadTwenty_TwoWagons(t *testing.T) {
	tiers := exampleTwentyTiers()

	plan, err := LoadTwenty(tiers, twentyOpts(2))
	require.NoError(t, err)
	require.Len(t, plan.Slots, 2)

	assert.Equal(t, model.WagonSlot{Kind: model.SlotPair, Weights: []float64{24, 23.5}, Source: "heavy-pair"}, plan.Slots[0])
	assert.Equal(t, model.WagonSlot{Kind: model.SlotPair, Weights: []float64{23, 22.5}, Source: "heavy-pair"}, plan.Slots[1])

	assert.True(t, tiers.Heavy.Empty())
	assert.Equal(t, []float64{19, 18.5, 18, 17.5}, tiers.Medium.Items())
	assert.Equal(t, []float64{4, 3.8, 3.5, 3.2}, tiers.Light.Items())
}

// TestLoadTwenty_RunsOutOfRules verifies that loading stops early, with fewer
// wagons than requested, once every tier is exhausted.
func TestLoadTwenty_RunsOutOfRules(t *testing.T) {
	tiers := exampleTwentyTiers()

	plan, err := LoadTwenty(tiers, twentyOpts(10))
	require.NoError(t, err)
	require.Len(t, plan.Slots, 8)

	sources := make([]string, 0, len(plan.Slots))
	for _, s := range plan.Slots {
		sources = append(sources, s.Source)
	}
	assert.Equal(t, []string{
		"heavy-pair", "heavy-pair",
		"medium-pair", "medium-pair",
		"light-single", "light-single", "light-single", "light-single",
	}, sources)
	assert.Equal(t, []float64{19, 18.5}, plan.Slots[2].Weights)
	assert.Equal(t, model.SlotSingle, plan.Slots[7].Kind)
	assert.Equal(t, []float64{3.2}, plan.Slots[7].Weights)
}

// TestLoadTwenty_RulePriority exercises each rule in isolation.
func TestLoadTwenty_RulePriority(t *testing.T) {
	tests := []struct {
		name      string
		tiers     *TwentyTiers
		limit     float64
		wantSlots []model.WagonSlot
		wantLeft  [3][]float64
	}{
		{
			name:  "heavy-medium when only one heavy",
			tiers: &TwentyTiers{Heavy: queue.New(30), Medium: queue.New(25), Light: queue.New()},
			limit: 61,
			wantSlots: []model.WagonSlot{
				{Kind: model.SlotPair, Weights: []float64{30, 25}, Source: "heavy-medium"},
			},
			wantLeft: [3][]float64{{}, {}, {}},
		},
		{
			name:  "pairing limit is strict",
			tiers: &TwentyTiers{Heavy: queue.New(24, 4), Medium: queue.New(19), Light: queue.New()},
			limit: 61,
			wantSlots: []model.WagonSlot{
				{Kind: model.SlotPair, Weights: []float64{24, 19}, Source: "heavy-medium"},
			},
			wantLeft: [3][]float64{{4}, {}, {}},
		},
		{
			name:  "heavy pair over weight limit falls through",
			tiers: &TwentyTiers{Heavy: queue.New(31, 30.5), Medium: queue.New(10), Light: queue.New()},
			limit: 61,
			wantSlots: []model.WagonSlot{
				{Kind: model.SlotPair, Weights: []float64{31, 10}, Source: "heavy-medium"},
			},
			wantLeft: [3][]float64{{30.5}, {}, {}},
		},
		{
			name:  "medium-light",
			tiers: &TwentyTiers{Heavy: queue.New(), Medium: queue.New(19), Light: queue.New(4)},
			limit: 61,
			wantSlots: []model.WagonSlot{
				{Kind: model.SlotPair, Weights: []float64{19, 4}, Source: "medium-light"},
			},
			wantLeft: [3][]float64{{}, {}, {}},
		},
		{
			name:      "nothing fits",
			tiers:     &TwentyTiers{Heavy: queue.New(40), Medium: queue.New(30), Light: queue.New()},
			limit:     61,
			wantSlots: nil,
			wantLeft:  [3][]float64{{40}, {30}, {}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := LoadTwenty(tt.tiers, Options{WagonCount: 5, WeightLimit: tt.limit, PairingLimit: 20})
			require.NoError(t, err)
			assert.Equal(t, tt.wantSlots, plan.Slots)
			assert.Equal(t, tt.wantLeft[0], tt.tiers.Heavy.Items())
			assert.Equal(t, tt.wantLeft[1], tt.tiers.Medium.Items())
			assert.Equal(t, tt.wantLeft[2], tt.tiers.Light.Items())
		})
	}
}

// TestLoadTwenty_LightSingleOverLimit covers the fallback rule with a light
// container heavier than the weight limit, in both modes.
func TestLoadTwenty_LightSingleOverLimit(t *testing.T) {
	t.Run("permissive consumes and stops", func(t *testing.T) {
		tiers := &TwentyTiers{Light: queue.New(12, 4)}
		plan, err := LoadTwenty(tiers, Options{WagonCount: 5, WeightLimit: 10, PairingLimit: 20})
		require.NoError(t, err)

		require.Len(t, plan.Slots, 1)
		assert.Equal(t, model.SlotDrop, plan.Slots[0].Kind)
		assert.Equal(t, []float64{12}, plan.Slots[0].Weights)
		assert.Equal(t, []string{ViolationOverWeight}, plan.Slots[0].Violations)
		assert.Equal(t, 0, plan.Loaded())
		assert.Equal(t, []float64{4}, tiers.Light.Items(), "loading ends after the drop")
	})

	t.Run("strict leaves the queue untouched", func(t *testing.T) {
		tiers := &TwentyTiers{Light: queue.New(12, 4)}
		plan, err := LoadTwenty(tiers, Options{WagonCount: 5, WeightLimit: 10, PairingLimit: 20, Strict: true})
		require.NoError(t, err)

		assert.Empty(t, plan.Slots)
		assert.Equal(t, []float64{12, 4}, tiers.Light.Items())
	})
}

// TestLoadTwenty_InvalidOptions rejects non-positive knobs.
func TestLoadTwenty_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"zero wagons", Options{WagonCount: 0, WeightLimit: 61, PairingLimit: 20}},
		{"zero weight limit", Options{WagonCount: 1, WeightLimit: 0, PairingLimit: 20}},
		{"negative pairing limit", Options{WagonCount: 1, WeightLimit: 61, PairingLimit: -1}},
		{"NaN weight limit", Options{WagonCount: 1, WeightLimit: math.NaN(), PairingLimit: 20}},
		{"infinite weight limit", Options{WagonCount: 1, WeightLimit: math.Inf(1), PairingLimit: 20}},
		{"NaN pairing limit", Options{WagonCount: 1, WeightLimit: 61, PairingLimit: math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTwenty(exampleTwentyTiers(), tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "twenty-foot loader")
		})
	}
}

// TestLoadTwenty_NilTiers treats missing tiers as empty.
func TestLoadTwenty_NilTiers(t *testing.T) {
	plan, err := LoadTwenty(nil, twentyOpts(3))
	require.NoError(t, err)
	assert.Empty(t, plan.Slots)

	plan, err = LoadTwenty(&TwentyTiers{Light: queue.New(2)}, twentyOpts(3))
	require.NoError(t, err)
	assert.Equal(t, 1, plan.Loaded())
}

// TestLoadTwenty_Properties checks no double use, weight limit adherence on
// rules 1-4 and termination over pseudo-random tiers.
func TestLoadTwenty_Properties(t *testing.T) {
	gen := newWeightGen(7)
	gated := map[string]bool{"heavy-pair": true, "heavy-medium": true, "medium-pair": true, "medium-light": true}

	for i := 0; i < 200; i++ {
		heavy, medium, light := gen.tier(8, 20, 35), gen.tier(8, 4, 20), gen.tier(8, 0, 4)
		tiers := &TwentyTiers{Heavy: queue.New(heavy...), Medium: queue.New(medium...), Light: queue.New(light...)}
		opts := Options{WagonCount: 1 + i%12, WeightLimit: 45 + float64(i%20), PairingLimit: 1 + float64(i%10)}

		plan, err := LoadTwenty(tiers, opts)
		require.NoError(t, err)

		total := len(heavy) + len(medium) + len(light)
		assert.LessOrEqual(t, len(plan.Slots), total, "every slot consumes at least one container")
		assert.LessOrEqual(t, plan.Loaded(), opts.WagonCount)

		input := concat(heavy, medium, light)
		remaining := concat(tiers.Heavy.Items(), tiers.Medium.Items(), tiers.Light.Items())
		assertConsumedOnce(t, input, remaining, plan)

		for _, s := range plan.Slots {
			if gated[s.Source] {
				assert.LessOrEqual(t, s.Total(), opts.WeightLimit, "rule %s exceeded the limit", s.Source)
			}
		}
	}
}

// TestLoadTwenty_LogsRuleFirings verifies that each firing is logged when a
// logger is supplied.
func TestLoadTwenty_LogsRuleFirings(t *testing.T) {
	var buf bytes.Buffer
	opts := twentyOpts(1)
	opts.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := LoadTwenty(exampleTwentyTiers(), opts)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "rule=heavy-pair")
	assert.Contains(t, buf.String(), "kind=pair")
}
