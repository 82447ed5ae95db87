package tracking

import "github.com/pkg/errors"

var (
	// ErrEmptyPath indicates Follow was given no points.
	ErrEmptyPath = errors.New("tracking: path is empty")

	// ErrShortPolyline indicates a polyline with fewer than two points.
	ErrShortPolyline = errors.New("tracking: polyline needs at least two points")

	// ErrFollowTimeout indicates a follow loop gave up before reaching the end.
	ErrFollowTimeout = errors.New("tracking: timed out before reaching the end of the path")
)
