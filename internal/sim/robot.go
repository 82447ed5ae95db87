package sim

import (
	"sync"
	"time"

	"github.com/san-kum/motionlab/internal/dynamo"
	"github.com/san-kum/motionlab/internal/hardware"
	"github.com/san-kum/motionlab/internal/integrators"
	"github.com/san-kum/motionlab/internal/units"
)

// Observer is notified after every Sleep with the new time, pose and the
// commanded wheel speeds.
type Observer interface {
	OnStep(t float64, pose hardware.Pose, left, right float64)
}

type command struct {
	target float64 // wheel speed
	rate   float64 // 1/s
}

// Robot is a simulated differential-drive robot. Its clock only advances
// through Sleep, so control loops run deterministically and as fast as the
// host allows.
type Robot struct {
	mu        sync.Mutex
	params    Params
	plant     *Plant
	integ     dynamo.Integrator
	x         dynamo.State
	elapsed   time.Duration
	steps     int
	fault     error
	cmd       [2]command
	observers []Observer

	poses   *hardware.PoseCell
	left    *Motor
	right   *Motor
	imu     *IMU
	tracker *TrackingWheel
}

func NewRobot(params Params) (*Robot, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	integ, err := integrators.New(params.Integrator)
	if err != nil {
		return nil, err
	}

	r := &Robot{
		params: params,
		plant:  &Plant{TrackWidth: params.TrackWidth},
		integ:  integ,
		x:      make(dynamo.State, stateDim),
		poses:  hardware.NewPoseCell(hardware.Pose{}),
	}
	r.left = &Motor{robot: r, side: hardware.Left}
	r.right = &Motor{robot: r, side: hardware.Right}
	r.imu = &IMU{robot: r}
	r.tracker = &TrackingWheel{robot: r}
	r.coastAll()
	return r, nil
}

func (r *Robot) Params() Params { return r.params }

func (r *Robot) Left() *Motor { return r.left }

func (r *Robot) Right() *Motor { return r.right }

func (r *Robot) IMU() *IMU { return r.imu }

func (r *Robot) TrackingWheel() *TrackingWheel { return r.tracker }

func (r *Robot) Poses() *hardware.PoseCell { return r.poses }

// Drive returns a fresh drive owning both simulated motor groups.
func (r *Robot) Drive() *hardware.Drive {
	return hardware.NewDrive(r.left, r.right)
}

func (r *Robot) AddObserver(o Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, o)
}

// Place teleports the robot to pose at rest. Encoders keep their
// accumulated values; the IMU reads the new heading.
func (r *Robot) Place(pose hardware.Pose) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.x[IdxX] = pose.X
	r.x[IdxY] = pose.Y
	r.x[IdxTheta] = units.DegToRad(pose.Heading)
	r.x[IdxVL] = 0
	r.x[IdxVR] = 0
	r.fault = nil
	r.poses.Store(r.poseLocked())
}

// Pose returns the ground-truth pose.
func (r *Robot) Pose() hardware.Pose {
	return r.poses.Pose()
}

// Elapsed returns simulated time.
func (r *Robot) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.elapsed
}

// Sleep advances the simulation by d.
func (r *Robot) Sleep(d time.Duration) {
	r.mu.Lock()
	for remaining := d; remaining > 0; {
		h := min(r.params.Step, remaining)
		u := dynamo.Control{r.cmd[0].target, r.cmd[1].target, r.cmd[0].rate, r.cmd[1].rate}
		next := r.integ.Step(r.plant, r.x, u, r.elapsed.Seconds(), h.Seconds())
		if next.Finite() {
			r.x = next
		} else if r.fault == nil {
			r.fault = &dynamo.StepError{Step: r.steps, Time: r.elapsed.Seconds(), State: next, Wrapped: dynamo.ErrInvalidState}
		}
		r.steps++
		r.elapsed += h
		remaining -= h
	}
	pose := r.poseLocked()
	r.poses.Store(pose)
	t := r.elapsed.Seconds()
	left, right := r.cmd[0].target, r.cmd[1].target
	observers := append([]Observer(nil), r.observers...)
	r.mu.Unlock()

	for _, o := range observers {
		o.OnStep(t, pose, left, right)
	}
}

// Fault returns the first integration step that produced an invalid state,
// or nil. The robot holds its last valid state after a fault.
func (r *Robot) Fault() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fault
}

// WheelSpeeds returns the actual left and right wheel speeds.
func (r *Robot) WheelSpeeds() (float64, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.x[IdxVL], r.x[IdxVR]
}

func (r *Robot) poseLocked() hardware.Pose {
	return hardware.Pose{
		X:       r.x[IdxX],
		Y:       r.x[IdxY],
		Heading: units.ModDeg(units.RadToDeg(r.x[IdxTheta])),
	}
}

func (r *Robot) coastAll() {
	for i := range r.cmd {
		r.cmd[i] = command{target: 0, rate: 1 / r.params.CoastTimeConstant}
	}
}

func (r *Robot) setCommand(side hardware.Side, c command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmd[side] = c
}

func (r *Robot) distance(side hardware.Side) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if side == hardware.Right {
		return r.x[IdxSR]
	}
	return r.x[IdxSL]
}
