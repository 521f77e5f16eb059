package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadMode_IsValid checks that only defined modes pass validation.
func TestLoadMode_IsValid(t *testing.T) {
	assert.True(t, ModeBlock.IsValid())
	assert.True(t, ModeTwenty.IsValid())
	assert.True(t, ModeForty.IsValid())
	assert.True(t, ModeMixed.IsValid())
	assert.False(t, LoadMode("forty-five").IsValid())
	assert.False(t, LoadMode("").IsValid())
}

// TestLoadMode_IsWagon verifies that only the three loaders produce plans.
func TestLoadMode_IsWagon(t *testing.T) {
	assert.False(t, ModeBlock.IsWagon())
	assert.True(t, ModeTwenty.IsWagon())
	assert.True(t, ModeForty.IsWagon())
	assert.True(t, ModeMixed.IsWagon())
}

// TestParseLoadMode verifies string-to-mode conversion, including case
// normalization and error cases.
func TestParseLoadMode(t *testing.T) {
	tests := []struct {
		input    string
		expected LoadMode
		hasError bool
	}{
		{"block", ModeBlock, false},
		{"twenty", ModeTwenty, false},
		{"Forty", ModeForty, false},
		{" MIXED ", ModeMixed, false},
		{"rail", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseLoadMode(tt.input)
			if tt.hasError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

// TestAllocation_Lookup covers category lookup and the stack total.
func TestAllocation_Lookup(t *testing.T) {
	alloc := Allocation{
		{Category: "V1", Positions: []Position{{1, 1}, {1, 2}}},
		{Category: "V2", Positions: []Position{{1, 3}}},
	}

	pos, ok := alloc.Lookup("V2")
	require.True(t, ok)
	assert.Equal(t, []Position{{1, 3}}, pos)

	_, ok = alloc.Lookup("V9")
	assert.False(t, ok)

	assert.Equal(t, 3, alloc.Stacks())
}

// TestPosition_String verifies the "(bay,row)" format used in text reports.
func TestPosition_String(t *testing.T) {
	assert.Equal(t, "(2,5)", Position{Bay: 2, Row: 5}.String())
}

// TestWagonSlot_Roles checks the role accessors for each slot shape.
func TestWagonSlot_Roles(t *testing.T) {
	pair := WagonSlot{Kind: SlotPair, Weights: []float64{28, 25}}
	upper, ok := pair.Upper()
	require.True(t, ok)
	assert.Equal(t, 28.0, pair.Lower())
	assert.Equal(t, 25.0, upper)
	assert.Equal(t, 53.0, pair.Total())
	_, ok = pair.Balancer()
	assert.False(t, ok)

	single := WagonSlot{Kind: SlotSingle, Weights: []float64{4}}
	_, ok = single.Upper()
	assert.False(t, ok, "a single has no upper container")

	bundle := WagonSlot{Kind: SlotTwentyPairBalancer, Weights: []float64{24, 23.5, 12}}
	b, ok := bundle.Balancer()
	require.True(t, ok)
	assert.Equal(t, 12.0, b)
	assert.Equal(t, 59.5, bundle.Total())

	assert.Equal(t, 0.0, WagonSlot{}.Lower())
}

// TestPlan_Views verifies that drop records are kept in the stream but never
// counted as wagons or weight.
func TestPlan_Views(t *testing.T) {
	var plan Plan
	plan.Append(WagonSlot{Kind: SlotPair, Weights: []float64{26, 23.5}})
	plan.Append(WagonSlot{Kind: SlotDrop, Weights: []float64{40, 30}})
	plan.Append(WagonSlot{Kind: SlotSingle, Weights: []float64{27}})

	assert.Len(t, plan.Slots, 3)
	assert.Equal(t, 2, plan.Loaded())
	assert.Len(t, plan.Wagons(), 2)
	require.Len(t, plan.Dropped(), 1)
	assert.Equal(t, []float64{40, 30}, plan.Dropped()[0].Weights)
	assert.InDelta(t, 76.5, plan.TotalWeight(), 1e-9)
}

// TestErrCapacityExceeded_Wrapping verifies the sentinel survives wrapping.
func TestErrCapacityExceeded_Wrapping(t *testing.T) {
	err := fmt.Errorf("%w: category %q", ErrCapacityExceeded, "V2")
	assert.True(t, errors.Is(err, ErrCapacityExceeded))

	cliErr := WrapCLIError(ExitCapacityExceeded, "allocation failed", err)
	assert.True(t, errors.Is(cliErr, ErrCapacityExceeded))
}

// TestCLIError verifies the custom error type used for exit code mapping.
func TestCLIError(t *testing.T) {
	t.Run("simple error", func(t *testing.T) {
		err := NewCLIError(ExitManifestNotFound, "manifest not found")
		assert.Equal(t, ExitManifestNotFound, err.Code)
		assert.Equal(t, "manifest not found", err.Error())
		assert.Nil(t, err.Unwrap())
	})

	t.Run("wrapped error", func(t *testing.T) {
		inner := errors.New("unexpected token")
		err := WrapCLIError(ExitInvalidManifest, "failed to parse manifest", inner)
		assert.Equal(t, ExitInvalidManifest, err.Code)
		assert.Contains(t, err.Error(), "unexpected token")
		assert.Equal(t, inner, err.Unwrap())
		assert.True(t, errors.Is(err, inner))
	})
}
