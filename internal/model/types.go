// Package model defines the domain types for the railyard allocators.
//
// These types are the data passed between the allocation packages
// (block, loader), the manifest loader and the report renderer. They carry
// no behavior beyond small derived views (totals, lookups) and validation.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// LoadMode selects which allocator a run uses. The modes are alternative
// strategies; the caller picks one depending on the container mix at hand.
type LoadMode string

const (
	// ModeBlock assigns yard block stack positions to container categories.
	ModeBlock LoadMode = "block"

	// ModeTwenty loads 20ft containers from three weight tiers.
	ModeTwenty LoadMode = "twenty"

	// ModeForty loads 40ft containers from two lower/upper tier pairs.
	ModeForty LoadMode = "forty"

	// ModeMixed loads 20ft pairs with 40ft balancers, then 40ft pairs and singles.
	ModeMixed LoadMode = "mixed"
)

// String returns the string representation of LoadMode.
func (m LoadMode) String() string {
	return string(m)
}

// IsValid checks whether the LoadMode value is one of the predefined modes.
func (m LoadMode) IsValid() bool {
	switch m {
	case ModeBlock, ModeTwenty, ModeForty, ModeMixed:
		return true
	default:
		return false
	}
}

// IsWagon reports whether the mode produces a wagon Plan rather than a
// block Allocation.
func (m LoadMode) IsWagon() bool {
	return m == ModeTwenty || m == ModeForty || m == ModeMixed
}

// ParseLoadMode converts a string to a LoadMode.
// Returns an error if the string does not match any valid mode.
func ParseLoadMode(s string) (LoadMode, error) {
	mode := LoadMode(strings.ToLower(strings.TrimSpace(s)))
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid load mode: %q (valid: block, twenty, forty, mixed)", s)
	}
	return mode, nil
}

// ErrCapacityExceeded is returned (wrapped) by the block allocator when the
// bay/row grid cannot hold every requested stack. Test with errors.Is.
var ErrCapacityExceeded = errors.New("block capacity exceeded")

// Position identifies one stack slot in a yard block. Both indices are 1-based.
type Position struct {
	// Bay is the block column. Bays fill one after another.
	Bay int `json:"bay" yaml:"bay"`

	// Row is the position within a bay, from 1 to the block's MaxRows.
	Row int `json:"row" yaml:"row"`
}

// String formats the position as "(bay,row)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Bay, p.Row)
}

// CategoryCount is one entry of the ordered category input of the block
// allocator: a category label and how many containers it holds.
type CategoryCount struct {
	// Name labels the category (e.g. a vessel or port of discharge).
	// Names are unique within one input.
	Name string `json:"name" yaml:"name"`

	// Count is the number of containers; zero needs no stacks.
	Count int `json:"count" yaml:"count"`
}

// CategoryStacks holds the stack positions assigned to one category, in
// assignment order.
type CategoryStacks struct {
	Category  string     `json:"category" yaml:"category"`
	Positions []Position `json:"positions" yaml:"positions"`
}

// Allocation is the block allocator result. It preserves the caller's
// category order.
type Allocation []CategoryStacks

// Lookup returns the positions assigned to the named category. The second
// result is false for categories the allocator never reached, which is how
// callers find what a capacity failure left out.
func (a Allocation) Lookup(category string) ([]Position, bool) {
	for _, cs := range a {
		if cs.Category == category {
			return cs.Positions, true
		}
	}
	return nil, false
}

// Stacks returns the total number of positions assigned across categories.
func (a Allocation) Stacks() int {
	n := 0
	for _, cs := range a {
		n += len(cs.Positions)
	}
	return n
}

// SlotKind describes the shape of a WagonSlot.
type SlotKind string

const (
	// SlotPair is a double-stack slot holding two containers. Weights[0] is
	// the lower (or first) container and Weights[1] the upper (or second).
	SlotPair SlotKind = "pair"

	// SlotSingle is a single-stack slot holding one container.
	SlotSingle SlotKind = "single"

	// SlotTwentyPairBalancer holds two 20ft containers (Weights[0], Weights[1])
	// bundled with one 40ft balancer container (Weights[2]).
	SlotTwentyPairBalancer SlotKind = "twenty-pair-balancer"

	// SlotDrop records containers that were consumed from their queues but not
	// loaded. A drop never occupies a wagon.
	SlotDrop SlotKind = "drop"
)

// String returns the string representation of SlotKind.
func (k SlotKind) String() string {
	return string(k)
}

// WagonSlot is one record of a loader's result stream.
type WagonSlot struct {
	// Kind is the slot shape; it fixes the meaning of each Weights index.
	Kind SlotKind `json:"kind" yaml:"kind"`

	// Weights holds the container weights in role order (see SlotKind).
	Weights []float64 `json:"weights" yaml:"weights"`

	// Source names the rule or phase that produced the record.
	Source string `json:"source" yaml:"source"`

	// Violations lists preference checks the slot failed but was emitted
	// regardless of (e.g. "over-weight-limit"). Empty for clean slots.
	Violations []string `json:"violations,omitempty" yaml:"violations,omitempty"`
}

// Loaded reports whether the slot occupies a wagon.
func (s WagonSlot) Loaded() bool {
	return s.Kind != SlotDrop
}

// Total returns the summed weight of every container in the slot.
func (s WagonSlot) Total() float64 {
	var sum float64
	for _, w := range s.Weights {
		sum += w
	}
	return sum
}

// Lower returns the first (lower) container weight.
func (s WagonSlot) Lower() float64 {
	if len(s.Weights) == 0 {
		return 0
	}
	return s.Weights[0]
}

// Upper returns the second container weight of a pair, and false for any
// other slot shape.
func (s WagonSlot) Upper() (float64, bool) {
	if s.Kind != SlotPair || len(s.Weights) < 2 {
		return 0, false
	}
	return s.Weights[1], true
}

// Balancer returns the 40ft balancer weight of a twenty-pair-balancer slot.
func (s WagonSlot) Balancer() (float64, bool) {
	if s.Kind != SlotTwentyPairBalancer || len(s.Weights) < 3 {
		return 0, false
	}
	return s.Weights[2], true
}

// Plan is the ordered result of a loader run. Order reflects processing
// sequence and is significant.
type Plan struct {
	// Slots holds loaded slots and drop records interleaved in the order the
	// loader produced them. Use Wagons or Dropped for a filtered view.
	Slots []WagonSlot `json:"slots" yaml:"slots"`
}

// Append adds a slot to the end of the stream.
func (p *Plan) Append(s WagonSlot) {
	p.Slots = append(p.Slots, s)
}

// Loaded returns the number of slots that occupy a wagon.
func (p Plan) Loaded() int {
	n := 0
	for _, s := range p.Slots {
		if s.Loaded() {
			n++
		}
	}
	return n
}

// Wagons returns the loaded slots in order, without drop records.
func (p Plan) Wagons() []WagonSlot {
	out := make([]WagonSlot, 0, len(p.Slots))
	for _, s := range p.Slots {
		if s.Loaded() {
			out = append(out, s)
		}
	}
	return out
}

// Dropped returns the drop records in order.
func (p Plan) Dropped() []WagonSlot {
	var out []WagonSlot
	for _, s := range p.Slots {
		if !s.Loaded() {
			out = append(out, s)
		}
	}
	return out
}

// TotalWeight sums the weight of every loaded slot.
func (p Plan) TotalWeight() float64 {
	var sum float64
	for _, s := range p.Slots {
		if s.Loaded() {
			sum += s.Total()
		}
	}
	return sum
}

// ExitCode defines the CLI process exit codes. Scripts can use them to tell
// an unusable manifest apart from a block that is simply too small.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitManifestNotFound indicates no manifest file was found.
	ExitManifestNotFound ExitCode = 2

	// ExitInvalidManifest indicates the manifest could not be parsed or
	// failed validation.
	ExitInvalidManifest ExitCode = 3

	// ExitCapacityExceeded indicates the block grid could not hold every
	// requested stack.
	ExitCapacityExceeded ExitCode = 4
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
