package atmosphere

import "errors"

var (
	// ErrInvalidConfig reports a malformed AtmosParams. Nothing is allocated when it is returned.
	ErrInvalidConfig = errors.New("atmosphere: invalid configuration")

	// ErrAllocation reports that an output table could not be allocated. Any tables allocated
	// before the failure are dropped.
	ErrAllocation = errors.New("atmosphere: table allocation failed")

	// ErrCanceled reports that the bake context was cancelled before every table was filled.
	ErrCanceled = errors.New("atmosphere: bake canceled")

	// ErrClosed reports a Bake call on a closed Baker, or a bake aborted because Close was called
	// while it was running.
	ErrClosed = errors.New("atmosphere: baker closed")
)
