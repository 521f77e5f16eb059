package loader

import (
	"fmt"
	"io"
	"log/slog"
	"math"
)

// Options are the caller-visible knobs shared by the wagon loaders.
type Options struct {
	// WagonCount is the maximum number of loaded wagon slots to produce.
	WagonCount int

	// WeightLimit is the maximum total weight a wagon slot may carry.
	WeightLimit float64

	// PairingLimit is the maximum weight difference between two containers
	// of the same tier loaded as a pair. Only the twenty-foot loader uses it.
	PairingLimit float64

	// Strict makes the loaders honor the weight limit on paths that
	// otherwise load or consume regardless of it: twenty-foot light singles
	// and forty-foot tier pairs. The default reproduces the permissive
	// behavior.
	Strict bool

	// Logger receives one debug record per rule firing. Nil discards.
	Logger *slog.Logger
}

// validate checks the knobs every loader needs.
func (o Options) validate() error {
	if o.WagonCount < 1 {
		return fmt.Errorf("wagon count must be positive, got %d", o.WagonCount)
	}
	if !(o.WeightLimit > 0) || math.IsInf(o.WeightLimit, 0) {
		return fmt.Errorf("weight limit must be positive and finite, got %g", o.WeightLimit)
	}
	return nil
}

// validateTwenty additionally requires a pairing limit.
func (o Options) validateTwenty() error {
	if err := o.validate(); err != nil {
		return err
	}
	if !(o.PairingLimit > 0) || math.IsInf(o.PairingLimit, 0) {
		return fmt.Errorf("pairing limit must be positive and finite, got %g", o.PairingLimit)
	}
	return nil
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}
