// Package block implements stack position allocation for a yard block.
//
// A block is a grid of bays and rows; each cell holds one stack of up to
// StackHeight containers. Categories are given in priority order and each
// receives ceil(count / StackHeight) consecutive positions:
//
//	(1,1) (1,2) ... (1,MaxRows) (2,1) ...
//
// The cursor is an explicit value threaded through the call, advanced by the
// pure Cursor.Next step. When the grid runs out the allocator fails with an
// error wrapping model.ErrCapacityExceeded.
package block
