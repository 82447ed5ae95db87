// Package units holds the angle and distance conversions shared by the
// chassis, the planner and the trackers.
package units

import "math"

func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// Restrain wraps v into [lo, hi] by whole multiples of hi-lo. Values already
// inside the range, including the bounds themselves, are returned unchanged.
// NaN and infinities pass through.
func Restrain(v, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	span := hi - lo
	if span <= 0 {
		return v
	}
	if v > hi {
		v -= span * math.Ceil((v-hi)/span)
	}
	if v < lo {
		v += span * math.Ceil((lo-v)/span)
	}
	return v
}

// WrapDeg restrains a heading difference to [-180, 180].
func WrapDeg(deg float64) float64 {
	return Restrain(deg, -180, 180)
}

// WrapRad restrains an angle to [-pi, pi].
func WrapRad(rad float64) float64 {
	return Restrain(rad, -math.Pi, math.Pi)
}

// ModDeg maps any angle into [0, 360).
func ModDeg(deg float64) float64 {
	return math.Mod(math.Mod(deg, 360)+360, 360)
}

// Sign returns -1 for negative values and +1 otherwise, so a zero radius
// is treated as a clockwise turn.
func Sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// Bearing returns the compass heading in degrees from (fromX, fromY) to
// (toX, toY): 0 faces +y and angles grow clockwise. It points from the first
// point to the second, the reverse of atan2(from - to).
func Bearing(fromX, fromY, toX, toY float64) float64 {
	return ModDeg(RadToDeg(math.Atan2(toX-fromX, toY-fromY)))
}

// DegreesToDistance converts wheel rotation in degrees to travelled
// distance for a wheel of the given diameter behind an external gear ratio
// (wheel turns per sensor turn).
func DegreesToDistance(wheelDiameter, gearRatio float64) float64 {
	return math.Pi * wheelDiameter * gearRatio / 360
}
