package integrators

import (
	"github.com/pkg/errors"

	"github.com/san-kum/motionlab/internal/dynamo"
)

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t float64, dt float64) dynamo.State {
	return dynamo.Axpy(make(dynamo.State, len(x)), x, dt, dyn.Derive(x, u, t))
}

// New returns the integrator registered under name.
func New(name string) (dynamo.Integrator, error) {
	switch name {
	case "rk4", "":
		return NewRK4(), nil
	case "euler":
		return NewEuler(), nil
	default:
		return nil, errors.Errorf("integrators: unknown integrator %q", name)
	}
}
