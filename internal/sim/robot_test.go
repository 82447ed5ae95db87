package sim

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/san-kum/motionlab/internal/dynamo"
	"github.com/san-kum/motionlab/internal/hardware"
)

func newTestRobot(t *testing.T) *Robot {
	t.Helper()
	r, err := NewRobot(DefaultParams())
	if err != nil {
		t.Fatalf("new robot: %v", err)
	}
	return r
}

func TestRobotDrivesStraight(t *testing.T) {
	r := newTestRobot(t)

	if err := r.Drive().Tank(6, 6, hardware.Voltage); err != nil {
		t.Fatal(err)
	}
	r.Sleep(time.Second)

	pose := r.Pose()
	if pose.Y <= 0 {
		t.Errorf("expected forward motion along +y, got %v", pose)
	}
	if math.Abs(pose.X) > 1e-9 {
		t.Errorf("expected no lateral drift, got x=%f", pose.X)
	}
	if math.Abs(r.IMU().Rotation()) > 1e-9 {
		t.Errorf("expected no rotation, got %f", r.IMU().Rotation())
	}

	half := DefaultParams().MaxWheelSpeed() / 2
	vl, vr := r.WheelSpeeds()
	if math.Abs(vl-half) > 0.01*half || math.Abs(vr-half) > 0.01*half {
		t.Errorf("expected wheel speeds near %f, got %f/%f", half, vl, vr)
	}
}

func TestRobotTurnsClockwiseWhenLeftLeads(t *testing.T) {
	r := newTestRobot(t)

	if err := r.Drive().Tank(6, -6, hardware.Voltage); err != nil {
		t.Fatal(err)
	}
	r.Sleep(200 * time.Millisecond)

	if rot := r.IMU().Rotation(); rot <= 0 {
		t.Errorf("expected clockwise rotation, got %f", rot)
	}
	if h := r.IMU().Heading(); h < 0 || h >= 360 {
		t.Errorf("heading out of range: %f", h)
	}
}

func TestRobotVelocityMode(t *testing.T) {
	r := newTestRobot(t)
	p := r.Params()

	if err := r.Left().Spin(hardware.Forward, 200, hardware.Velocity); err != nil {
		t.Fatal(err)
	}
	if err := r.Right().Spin(hardware.Reverse, -200, hardware.Velocity); err != nil {
		t.Fatal(err)
	}
	r.Sleep(time.Second)

	want := p.RPMToSpeed(200)
	vl, vr := r.WheelSpeeds()
	if math.Abs(vl-want) > 0.01*want || math.Abs(vr-want) > 0.01*want {
		t.Errorf("expected %f on both sides, got %f/%f", want, vl, vr)
	}
}

func TestRobotEncoders(t *testing.T) {
	r := newTestRobot(t)

	if err := r.Drive().Tank(12, 12, hardware.Voltage); err != nil {
		t.Fatal(err)
	}
	r.Sleep(500 * time.Millisecond)

	travelled := r.Pose().Y
	motor := hardware.MotorTracking(r.Left(), r.Left().DegreesToDistance())
	wheel := hardware.RotationTracking(r.TrackingWheel(), r.TrackingWheel().DegreesToDistance())

	if math.Abs(motor.Distance()-travelled) > 1e-6 {
		t.Errorf("motor encoder: expected %f, got %f", travelled, motor.Distance())
	}
	if math.Abs(wheel.Distance()-travelled) > 1e-6 {
		t.Errorf("tracking wheel: expected %f, got %f", travelled, wheel.Distance())
	}
}

func TestRobotStopHoldsQuickly(t *testing.T) {
	r := newTestRobot(t)

	_ = r.Drive().Tank(12, 12, hardware.Voltage)
	r.Sleep(time.Second)
	_ = r.Drive().Stop(hardware.Hold)
	r.Sleep(300 * time.Millisecond)

	vl, vr := r.WheelSpeeds()
	if math.Abs(vl) > 0.01 || math.Abs(vr) > 0.01 {
		t.Errorf("expected robot stopped, got %f/%f", vl, vr)
	}
}

func TestRobotRejectsNaN(t *testing.T) {
	r := newTestRobot(t)
	if err := r.Left().Spin(hardware.Forward, math.NaN(), hardware.Voltage); err == nil {
		t.Error("expected error for NaN command")
	}
}

func TestRobotFaultKeepsLastValidState(t *testing.T) {
	r := newTestRobot(t)
	if r.Fault() != nil {
		t.Fatal("fresh robot should not be faulted")
	}

	r.mu.Lock()
	r.x[IdxVL] = math.Inf(1)
	r.mu.Unlock()
	r.Sleep(50 * time.Millisecond)

	var stepErr *dynamo.StepError
	if err := r.Fault(); !errors.As(err, &stepErr) || !errors.Is(err, dynamo.ErrInvalidState) {
		t.Fatalf("expected an invalid state step error, got %v", err)
	}
	if stepErr.Step != 0 {
		t.Errorf("expected the first step to fault, got %d", stepErr.Step)
	}
	if p := r.Pose(); p.X != 0 || p.Y != 0 {
		t.Errorf("pose should not move on a fault, got %v", p)
	}

	r.Place(hardware.Pose{})
	if r.Fault() != nil {
		t.Error("Place should clear the fault")
	}
}

func TestPlace(t *testing.T) {
	r := newTestRobot(t)
	r.Place(hardware.Pose{X: 10, Y: -5, Heading: 90})

	if p := r.Pose(); p.X != 10 || p.Y != -5 || math.Abs(p.Heading-90) > 1e-9 {
		t.Errorf("unexpected pose %v", p)
	}

	_ = r.Drive().Tank(6, 6, hardware.Voltage)
	r.Sleep(500 * time.Millisecond)
	if p := r.Pose(); p.X <= 10 || math.Abs(p.Y+5) > 1e-6 {
		t.Errorf("expected motion along +x facing 90, got %v", p)
	}
}

func TestRecorder(t *testing.T) {
	r := newTestRobot(t)
	rec := NewRecorder()
	r.AddObserver(rec)

	for i := 0; i < 5; i++ {
		r.Sleep(10 * time.Millisecond)
	}

	samples := rec.Samples()
	if len(samples) != 5 {
		t.Fatalf("expected 5 samples, got %d", len(samples))
	}
	if math.Abs(samples[4].Time-0.05) > 1e-9 {
		t.Errorf("expected t=0.05, got %f", samples[4].Time)
	}
	if r.Elapsed() != 50*time.Millisecond {
		t.Errorf("expected 50ms elapsed, got %v", r.Elapsed())
	}
}

func TestPaced(t *testing.T) {
	r := newTestRobot(t)
	mock := clock.NewMock()
	p := &Paced{Robot: r, Clock: mock, Speed: 1}

	done := make(chan struct{})
	go func() {
		p.Sleep(10 * time.Millisecond)
		close(done)
	}()

	for {
		select {
		case <-done:
			if r.Elapsed() != 10*time.Millisecond {
				t.Errorf("expected 10ms simulated, got %v", r.Elapsed())
			}
			return
		default:
			mock.Add(10 * time.Millisecond)
			time.Sleep(time.Millisecond)
		}
	}
}

func TestIMUCalibrate(t *testing.T) {
	r := newTestRobot(t)
	if err := r.IMU().Calibrate(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.IMU().Calibrate(ctx); err == nil {
		t.Error("expected cancelled calibration to fail")
	}
}

func TestParamsValidate(t *testing.T) {
	p := DefaultParams()
	p.TrackWidth = 0
	p.Step = 0
	if _, err := NewRobot(p); err == nil {
		t.Error("expected invalid params to be rejected")
	}
}
