package common

import "math"

// Spin is the authored rotation direction between two keyframes.
type Spin int

const (
	SpinCounterClockwise Spin = -1
	SpinNone             Spin = 0
	SpinClockwise        Spin = 1
)

const (
	fullTurnRadians = 2 * math.Pi
	fullTurnDegrees = 360.0
)

// Lerp returns a when t is 0 and exactly b when t is 1.
func Lerp(a, b, t float64) float64 {
	if t == 1 {
		return b
	}
	return a + t*(b-a)
}

// LerpAngle interpolates two radian angles in the direction given by spin.
// A zero spin holds a.
func LerpAngle(a, b float64, spin Spin, t float64) float64 {
	return lerpAngle(a, b, spin, t, fullTurnRadians)
}

// LerpAngleDegrees is LerpAngle for angles in degrees.
func LerpAngleDegrees(a, b float64, spin Spin, t float64) float64 {
	return lerpAngle(a, b, spin, t, fullTurnDegrees)
}

func lerpAngle(a, b float64, spin Spin, t, turn float64) float64 {
	switch {
	case spin > 0:
		if b < a {
			b += turn
		}
	case spin < 0:
		if b > a {
			b -= turn
		}
	default:
		return a
	}
	return Lerp(a, b, t)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
