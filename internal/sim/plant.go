package sim

import (
	"math"

	"github.com/san-kum/motionlab/internal/dynamo"
)

// State layout for the differential-drive plant.
const (
	IdxX = iota
	IdxY
	IdxTheta
	IdxVL
	IdxVR
	IdxSL
	IdxSR
	stateDim
)

// Control layout: target wheel speed and response rate (1/s) per side.
const (
	CtlTargetL = iota
	CtlTargetR
	CtlRateL
	CtlRateR
	controlDim
)

// Plant is a differential drive with a first-order lag between each side's
// commanded and actual wheel speed. Theta is a compass heading in radians,
// so a faster left side turns clockwise.
type Plant struct {
	TrackWidth float64
}

func (p *Plant) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	vl, vr := x[IdxVL], x[IdxVR]
	v := (vl + vr) / 2
	theta := x[IdxTheta]

	dx := make(dynamo.State, stateDim)
	dx[IdxX] = v * math.Sin(theta)
	dx[IdxY] = v * math.Cos(theta)
	dx[IdxTheta] = (vl - vr) / p.TrackWidth
	dx[IdxVL] = (u[CtlTargetL] - vl) * u[CtlRateL]
	dx[IdxVR] = (u[CtlTargetR] - vr) * u[CtlRateR]
	dx[IdxSL] = vl
	dx[IdxSR] = vr
	return dx
}

func (p *Plant) StateDim() int   { return stateDim }
func (p *Plant) ControlDim() int { return controlDim }
