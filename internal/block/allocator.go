package block

import (
	"fmt"

	"github.com/shinji-kodama/railyard/internal/model"
)

// Block describes the geometry of a yard block.
type Block struct {
	// StackHeight is the maximum number of containers per stack.
	StackHeight int `json:"stackHeight" yaml:"stackHeight"`

	// MaxBays is the number of bays in the block.
	MaxBays int `json:"maxBays" yaml:"maxBays"`

	// MaxRows is the number of rows in every bay.
	MaxRows int `json:"maxRows" yaml:"maxRows"`
}

// Validate checks that every dimension is positive.
func (b Block) Validate() error {
	if b.StackHeight < 1 {
		return fmt.Errorf("stack height must be positive, got %d", b.StackHeight)
	}
	if b.MaxBays < 1 {
		return fmt.Errorf("max bays must be positive, got %d", b.MaxBays)
	}
	if b.MaxRows < 1 {
		return fmt.Errorf("max rows must be positive, got %d", b.MaxRows)
	}
	return nil
}

// Capacity returns the number of stacks the block can hold.
func (b Block) Capacity() int {
	return b.MaxBays * b.MaxRows
}

// Cursor is the next free stack position. The allocator threads one Cursor
// value through every category of a call; there is no shared state between
// calls.
type Cursor struct {
	Bay int
	Row int
}

// Start returns the cursor at the first position of a block, (1,1).
func Start() Cursor {
	return Cursor{Bay: 1, Row: 1}
}

// Next returns the position after c in row-major order: the row advances,
// and past maxRows it wraps to row 1 of the next bay.
func (c Cursor) Next(maxRows int) Cursor {
	c.Row++
	if c.Row > maxRows {
		c.Row = 1
		c.Bay++
	}
	return c
}

// Position converts the cursor to a model.Position.
func (c Cursor) Position() model.Position {
	return model.Position{Bay: c.Bay, Row: c.Row}
}

// StacksNeeded returns how many stacks of the given height hold count
// containers, i.e. ceil(count / height). It does not overflow for counts
// near math.MaxInt.
func StacksNeeded(count, height int) int {
	if count <= 0 {
		return 0
	}
	n := count / height
	if count%height != 0 {
		n++
	}
	return n
}

// Allocator assigns sequential stack positions to container categories.
//
// Positions are handed out in row-major order (all rows of bay 1, then bay 2,
// and so on) from a single cursor shared across categories, so each category
// occupies a contiguous run and no position is ever reused within a call.
type Allocator struct {
	block Block
}

// NewAllocator creates an Allocator for the given block geometry.
// Returns an error if any dimension is not positive.
func NewAllocator(b Block) (*Allocator, error) {
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("invalid block: %w", err)
	}
	return &Allocator{block: b}, nil
}

// Block returns the geometry the allocator was created with.
func (a *Allocator) Block() Block {
	return a.block
}

// Remaining returns how many stack positions are still free at cursor c.
func (a *Allocator) Remaining(c Cursor) int {
	used := (c.Bay-1)*a.block.MaxRows + (c.Row - 1)
	if used >= a.block.Capacity() {
		return 0
	}
	return a.block.Capacity() - used
}

// Allocate assigns ceil(count / StackHeight) positions to every category, in
// the order given.
//
// Algorithm:
//  1. Start the cursor at (1,1).
//  2. For each category, for each stack it needs: fail if the cursor bay is
//     past MaxBays, otherwise record the cursor position and advance it.
//
// On failure the returned error wraps model.ErrCapacityExceeded and the
// returned Allocation holds the categories that completed before the failing
// one. The categories slice is never modified.
func (a *Allocator) Allocate(categories []model.CategoryCount) (model.Allocation, error) {
	allocation := make(model.Allocation, 0, len(categories))
	cursor := Start()

	for _, cat := range categories {
		if cat.Count < 0 {
			return allocation, fmt.Errorf("category %q has negative container count %d", cat.Name, cat.Count)
		}

		var (
			stacks []model.Position
			err    error
		)
		stacks, cursor, err = a.allocateCategory(cat, cursor)
		if err != nil {
			return allocation, err
		}

		allocation = append(allocation, model.CategoryStacks{
			Category:  cat.Name,
			Positions: stacks,
		})
	}

	return allocation, nil
}

// allocateCategory assigns the stacks of a single category starting at
// cursor and returns the advanced cursor.
func (a *Allocator) allocateCategory(cat model.CategoryCount, cursor Cursor) ([]model.Position, Cursor, error) {
	needed := StacksNeeded(cat.Count, a.block.StackHeight)
	// Never reserve more than the block can still hold; a huge count fails
	// on the capacity check below instead.
	positions := make([]model.Position, 0, min(needed, a.Remaining(cursor)))

	for i := 0; i < needed; i++ {
		if cursor.Bay > a.block.MaxBays {
			return nil, cursor, fmt.Errorf("%w: category %q needs stack %d of %d but the block holds %d bays x %d rows",
				model.ErrCapacityExceeded, cat.Name, i+1, needed, a.block.MaxBays, a.block.MaxRows)
		}
		positions = append(positions, cursor.Position())
		cursor = cursor.Next(a.block.MaxRows)
	}

	return positions, cursor, nil
}
