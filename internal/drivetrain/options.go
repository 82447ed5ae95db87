package drivetrain

import (
	"time"

	"github.com/san-kum/motionlab/internal/control"
)

type moveOptions struct {
	timeout     time.Duration
	turnTimeout time.Duration
	gains       *control.Gains
	heading     *float64
	headingKp   *float64
}

// MoveOption customises a single motion.
type MoveOption func(*moveOptions)

// WithTimeout bounds the motion. Without it the motion runs until settled.
func WithTimeout(d time.Duration) MoveOption {
	return func(o *moveOptions) { o.timeout = d }
}

// WithTurnTimeout bounds the turn phase of DriveTo and DriveToReverse.
func WithTurnTimeout(d time.Duration) MoveOption {
	return func(o *moveOptions) { o.turnTimeout = d }
}

// WithGains replaces the stored gains for this motion.
func WithGains(g control.Gains) MoveOption {
	return func(o *moveOptions) { o.gains = &g }
}

// WithHeading makes DriveFor hold the given compass heading.
func WithHeading(deg float64) MoveOption {
	return func(o *moveOptions) { o.heading = &deg }
}

// WithHeadingKp overrides the heading-hold gain.
func WithHeadingKp(kp float64) MoveOption {
	return func(o *moveOptions) { o.headingKp = &kp }
}

func collect(opts []MoveOption) moveOptions {
	o := moveOptions{timeout: NoTimeout, turnTimeout: NoTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o moveOptions) gainsOr(def control.Gains) control.Gains {
	if o.gains != nil {
		return *o.gains
	}
	return def
}
