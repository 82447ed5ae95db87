package dynamo

import "math"

// State is a plant state vector; the plant defines the layout.
type State []float64

// Control is the input vector held constant across one step.
type Control []float64

func (s State) Clone() State {
	return append(State(nil), s...)
}

// Finite reports whether no entry is NaN or infinite.
func (s State) Finite() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Axpy stores x + h*k into dst, which must be as long as x.
func Axpy(dst, x State, h float64, k State) State {
	for i := range x {
		dst[i] = x[i] + h*k[i]
	}
	return dst
}

// System is a continuous-time plant dx/dt = f(x, u, t).
type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

// Integrator advances a System by one fixed step of dt seconds.
type Integrator interface {
	Step(sys System, x State, u Control, t, dt float64) State
}
