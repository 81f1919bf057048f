// Package pendata holds the time-ordered pen sample array of a recording, the
// run tables derived from it, and the time-to-index lookups used to select and
// segment it.
package pendata

import "errors"

// Data errors
var (
	// ErrData indicates malformed sample input: no rows, non-finite values,
	// times that are not strictly ascending, or a series table that does not
	// partition the samples.
	ErrData = errors.New("invalid pen data")

	// ErrRange indicates an index range that is empty or out of bounds.
	ErrRange = errors.New("index range out of bounds")
)
