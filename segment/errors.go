// Package segment maintains the tree of named, index-bounded segments created
// over a pen data series.
package segment

import "errors"

var (
	// ErrValidation indicates a rejected segment operation: empty name, empty
	// range, a removed parent, or removing the root or a locked segment.
	ErrValidation = errors.New("invalid segment operation")

	// ErrNotFound indicates a segment id that is not in the tree.
	ErrNotFound = errors.New("segment not found")
)
