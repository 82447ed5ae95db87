package path

import "github.com/pkg/errors"

var (
	// ErrEmptyRoute indicates a route without segments.
	ErrEmptyRoute = errors.New("path: route has no segments")

	// ErrDegenerateSegment indicates a segment whose three control points coincide.
	ErrDegenerateSegment = errors.New("path: segment has zero length")

	// ErrNonFinitePoint indicates a NaN or infinite control point.
	ErrNonFinitePoint = errors.New("path: control point is not finite")

	// ErrInvalidLimits indicates non-positive or NaN planner limits.
	ErrInvalidLimits = errors.New("path: invalid planner limits")

	// ErrStalledProfile indicates two consecutive points with zero velocity
	// separated by a positive distance, which would take infinite time.
	ErrStalledProfile = errors.New("path: profile stalls between points")
)
