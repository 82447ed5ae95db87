package control

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// DefaultCycle is the control period of every closed loop in the stack.
const DefaultCycle = 10 * time.Millisecond

// ErrUnknownParam is returned by SetParam for names other than Kp, Ki and Kd.
var ErrUnknownParam = errors.New("control: unknown parameter")

// Gains configures a PID. MinOutput and MaxOutput bound every output, and
// CycleTime is the interval the caller promises to invoke Output at.
type Gains struct {
	Kp                float64       `yaml:"kp" json:"kp"`
	Ki                float64       `yaml:"ki" json:"ki"`
	Kd                float64       `yaml:"kd" json:"kd"`
	IntegralTolerance float64       `yaml:"integral_tolerance" json:"integral_tolerance"`
	SettleTolerance   float64       `yaml:"settle_tolerance" json:"settle_tolerance"`
	SettleTime        time.Duration `yaml:"settle_time" json:"settle_time"`
	MinOutput         float64       `yaml:"min_output" json:"min_output"`
	MaxOutput         float64       `yaml:"max_output" json:"max_output"`
	CycleTime         time.Duration `yaml:"cycle_time" json:"cycle_time"`
}

// Validate reports every inconsistency in g at once.
func (g Gains) Validate() error {
	var err error
	if g.MinOutput > g.MaxOutput {
		err = multierr.Append(err, errors.Errorf("control: min output %.3f exceeds max output %.3f", g.MinOutput, g.MaxOutput))
	}
	if g.IntegralTolerance < 0 {
		err = multierr.Append(err, errors.Errorf("control: negative integral tolerance %.3f", g.IntegralTolerance))
	}
	if g.SettleTolerance < 0 {
		err = multierr.Append(err, errors.Errorf("control: negative settle tolerance %.3f", g.SettleTolerance))
	}
	if g.SettleTime < 0 {
		err = multierr.Append(err, errors.Errorf("control: negative settle time %v", g.SettleTime))
	}
	if g.CycleTime <= 0 {
		err = multierr.Append(err, errors.Errorf("control: cycle time must be positive, got %v", g.CycleTime))
	}
	return err
}

type PID struct {
	gains       Gains
	prevErr     float64
	integral    float64
	timeSettled time.Duration
}

func NewPID(g Gains) *PID {
	return &PID{gains: g}
}

// Output runs one control cycle with integral reset on overshoot.
func (p *PID) Output(err float64) float64 {
	return p.OutputWithOvershoot(err, true)
}

// OutputWithOvershoot runs one control cycle. When stopOnOvershoot is set the
// integral is cleared every time the error changes sign.
func (p *PID) OutputWithOvershoot(err float64, stopOnOvershoot bool) float64 {
	g := p.gains

	if (stopOnOvershoot && err*p.prevErr < 0) || math.Abs(err) > g.IntegralTolerance {
		p.integral = 0
	} else {
		p.integral += err
	}

	u := g.Kp*err + g.Ki*p.integral + g.Kd*(err-p.prevErr)
	p.prevErr = err

	if math.Abs(err) < g.SettleTolerance {
		p.timeSettled += g.CycleTime
	} else {
		p.timeSettled = 0
	}

	return Clamp(u, g.MinOutput, g.MaxOutput)
}

func (p *PID) IsSettled() bool {
	return p.timeSettled >= p.gains.SettleTime
}

// Reset clears integral, derivative and settle state
func (p *PID) Reset() {
	p.prevErr = 0
	p.integral = 0
	p.timeSettled = 0
}

func (p *PID) Gains() Gains { return p.gains }

func (p *PID) Integral() float64 { return p.integral }

func (p *PID) TimeSettled() time.Duration { return p.timeSettled }

// GetParams returns tunable parameters for live adjustment
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp": p.gains.Kp,
		"Ki": p.gains.Ki,
		"Kd": p.gains.Kd,
	}
}

// SetParam adjusts a PID gain
func (p *PID) SetParam(name string, value float64) error {
	switch name {
	case "Kp":
		p.gains.Kp = value
	case "Ki":
		p.gains.Ki = value
	case "Kd":
		p.gains.Kd = value
	default:
		return errors.Wrap(ErrUnknownParam, name)
	}
	return nil
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
