package sim

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/san-kum/motionlab/internal/hardware"
)

// Sample is one recorded simulation step.
type Sample struct {
	Time    float64 `json:"time"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
	Left    float64 `json:"left"`
	Right   float64 `json:"right"`
}

// Recorder is an Observer that keeps every step.
type Recorder struct {
	mu      sync.Mutex
	samples []Sample
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) OnStep(t float64, pose hardware.Pose, left, right float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, Sample{
		Time:    t,
		X:       pose.X,
		Y:       pose.Y,
		Heading: pose.Heading,
		Left:    left,
		Right:   right,
	})
}

// Samples returns a copy of everything recorded so far.
func (r *Recorder) Samples() []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Sample(nil), r.samples...)
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = nil
}

// Paced advances the robot and then waits on a real clock, so a live view
// sees motion at Speed times real time.
type Paced struct {
	Robot *Robot
	Clock clock.Clock
	Speed float64
}

func NewPaced(robot *Robot, speed float64) *Paced {
	if speed <= 0 {
		speed = 1
	}
	return &Paced{Robot: robot, Clock: clock.New(), Speed: speed}
}

func (p *Paced) Sleep(d time.Duration) {
	p.Robot.Sleep(d)
	p.Clock.Sleep(time.Duration(float64(d) / p.Speed))
}
