package manifest

import (
	"fmt"
	"math"
	"strings"

	"github.com/shinji-kodama/railyard/internal/model"
	"github.com/shinji-kodama/railyard/internal/queue"
)

// ValidationError is one problem found in a manifest.
type ValidationError struct {
	// Field is the manifest path of the offending value (e.g. "twenty.heavy[2]").
	Field string `json:"field" yaml:"field"`

	Message string `json:"message" yaml:"message"`
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("manifest validation error: %s: %s", e.Field, e.Message)
}

// namedTier is a weight list with its manifest path.
type namedTier struct {
	field   string
	weights []float64
}

// tiers returns the weight lists of the section selected by the mode, in
// manifest order. It returns nil for block mode or a missing section.
func (m *Manifest) tiers() []namedTier {
	switch m.Mode {
	case model.ModeTwenty:
		if s := m.Twenty; s != nil {
			return []namedTier{
				{"twenty.heavy", s.Heavy},
				{"twenty.medium", s.Medium},
				{"twenty.light", s.Light},
			}
		}
	case model.ModeForty:
		if s := m.Forty; s != nil {
			return []namedTier{
				{"forty.firstLower", s.FirstLower},
				{"forty.firstUpper", s.FirstUpper},
				{"forty.secondLower", s.SecondLower},
				{"forty.secondUpper", s.SecondUpper},
			}
		}
	case model.ModeMixed:
		if s := m.Mixed; s != nil {
			return []namedTier{
				{"mixed.twenty", s.Twenty},
				{"mixed.singles", s.Singles},
				{"mixed.pairLower", s.PairLower},
				{"mixed.pairUpper", s.PairUpper},
				{"mixed.balancer", s.Balancer},
			}
		}
	}
	return nil
}

// Validate checks that the manifest can drive a run of its mode. It returns
// every problem found; an empty result means the manifest is valid.
//
// Limits must be finite: NaN compares false against everything and would slip
// past every weight gate of the loaders.
//
// Checks performed:
//   - mode is one of block, twenty, forty, mixed
//   - the section for the mode is present
//   - wagon count and weight limit are positive for the wagon modes, and the
//     pairing limit for twenty
//   - block dimensions are positive, category names unique and counts
//     non-negative
//   - every container weight is finite and non-negative
func Validate(m *Manifest) []ValidationError {
	var errs []ValidationError
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if !m.Mode.IsValid() {
		add("mode", "unknown mode %q (expected block, twenty, forty or mixed)", m.Mode)
		return errs
	}

	if m.Mode.IsWagon() {
		if m.Wagons < 1 {
			add("wagons", "must be positive, got %d", m.Wagons)
		}
		if !(m.WeightLimit > 0) || math.IsInf(m.WeightLimit, 0) {
			add("weightLimit", "must be positive and finite, got %g", m.WeightLimit)
		}
		if m.Mode == model.ModeTwenty && (!(m.PairingLimit > 0) || math.IsInf(m.PairingLimit, 0)) {
			add("pairingLimit", "must be positive and finite, got %g", m.PairingLimit)
		}
	}

	switch {
	case m.Mode == model.ModeBlock && m.Block == nil,
		m.Mode == model.ModeTwenty && m.Twenty == nil,
		m.Mode == model.ModeForty && m.Forty == nil,
		m.Mode == model.ModeMixed && m.Mixed == nil:
		add(string(m.Mode), "section is required for mode %s", m.Mode)
		return errs
	}

	if m.Mode == model.ModeBlock {
		errs = append(errs, validateBlock(m.Block)...)
	}

	for _, t := range m.tiers() {
		for i, w := range t.weights {
			field := fmt.Sprintf("%s[%d]", t.field, i)
			switch {
			case math.IsNaN(w) || math.IsInf(w, 0):
				add(field, "weight must be a finite number, got %g", w)
			case w < 0:
				add(field, "weight must not be negative, got %g", w)
			}
		}
	}

	return errs
}

func validateBlock(b *BlockSection) []ValidationError {
	var errs []ValidationError

	dims := []struct {
		field string
		value int
	}{
		{"block.stackHeight", b.StackHeight},
		{"block.maxBays", b.MaxBays},
		{"block.maxRows", b.MaxRows},
	}
	for _, d := range dims {
		if d.value < 1 {
			errs = append(errs, ValidationError{Field: d.field, Message: fmt.Sprintf("must be positive, got %d", d.value)})
		}
	}

	seen := make(map[string]bool, len(b.Categories))
	for i, c := range b.Categories {
		field := fmt.Sprintf("block.categories[%d]", i)
		name := strings.TrimSpace(c.Name)
		switch {
		case name == "":
			errs = append(errs, ValidationError{Field: field + ".name", Message: "category name is required"})
		case seen[name]:
			errs = append(errs, ValidationError{Field: field + ".name", Message: fmt.Sprintf("duplicate category %q", name)})
		}
		seen[name] = true
		if c.Count < 0 {
			errs = append(errs, ValidationError{Field: field + ".count", Message: fmt.Sprintf("must not be negative, got %d", c.Count)})
		}
	}

	return errs
}

// OrderingWarnings reports tiers that are not sorted heaviest first. The
// loaders take "front" to mean "heaviest", so an unsorted tier changes which
// containers are paired. Tiers are sorted at load time when SortTiers is set,
// in which case no warnings are returned.
func OrderingWarnings(m *Manifest) []ValidationError {
	if m.SortTiers {
		return nil
	}

	var warnings []ValidationError
	for _, t := range m.tiers() {
		if !queue.New(t.weights...).IsDescending() {
			warnings = append(warnings, ValidationError{
				Field:   t.field,
				Message: "tier is not sorted heaviest first; set sortTiers or reorder it",
			})
		}
	}
	return warnings
}
