package hardware

import (
	"errors"
	"math"
	"sync"
	"testing"
)

type fakeGroup struct {
	degrees float64
	last    float64
	unit    SpinUnit
	stopped BrakeMode
	stops   int
}

func (f *fakeGroup) Position(unit AngleUnit) float64 {
	if unit == Turns {
		return f.degrees / 360
	}
	return f.degrees
}

func (f *fakeGroup) Spin(dir Direction, magnitude float64, unit SpinUnit) error {
	f.last = dir.Sign() * magnitude
	f.unit = unit
	return nil
}

func (f *fakeGroup) Stop(mode BrakeMode) error {
	f.stopped = mode
	f.stops++
	return nil
}

func TestDistanceSource(t *testing.T) {
	g := &fakeGroup{degrees: 720}
	tests := []struct {
		name string
		src  DistanceSource
		kind TrackingKind
	}{
		{"rotation", RotationTracking(g, 0.5), RotationSensor},
		{"encoder", EncoderTracking(g, 0.5), ShaftEncoder},
		{"motor", MotorTracking(g, 0.5), MotorEncoder},
	}

	for _, tt := range tests {
		if tt.src.Kind() != tt.kind {
			t.Errorf("%s: expected kind %v, got %v", tt.name, tt.kind, tt.src.Kind())
		}
		if got := tt.src.Distance(); got != 360 {
			t.Errorf("%s: expected 360, got %f", tt.name, got)
		}
	}

	var zero DistanceSource
	if zero.Valid() || zero.Distance() != 0 {
		t.Error("zero source should be invalid and report 0")
	}
}

func TestDriveLease(t *testing.T) {
	d := NewDrive(&fakeGroup{}, &fakeGroup{})

	release, err := d.Acquire("turn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Owner() != "turn" {
		t.Errorf("expected owner turn, got %q", d.Owner())
	}

	if _, err := d.Acquire("drive"); !errors.Is(err, ErrDriveBusy) {
		t.Errorf("expected ErrDriveBusy, got %v", err)
	}

	release()
	release()

	release2, err := d.Acquire("drive")
	if err != nil {
		t.Fatalf("expected lease after release, got %v", err)
	}
	release2()
}

func TestDriveLeaseConcurrent(t *testing.T) {
	d := NewDrive(&fakeGroup{}, &fakeGroup{})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := d.Acquire("worker"); err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if granted != 1 {
		t.Errorf("expected exactly one lease, got %d", granted)
	}
}

func TestDriveTankAndStop(t *testing.T) {
	l, r := &fakeGroup{}, &fakeGroup{}
	d := NewDrive(l, r)

	if err := d.Tank(6, -4, Voltage); err != nil {
		t.Fatal(err)
	}
	if l.last != 6 || r.last != -4 {
		t.Errorf("expected 6/-4, got %f/%f", l.last, r.last)
	}
	if err := d.Stop(Hold); err != nil {
		t.Fatal(err)
	}
	if l.stopped != Hold || r.stopped != Hold {
		t.Error("expected both sides held")
	}
	if d.Side(Right) != r || d.Side(Left) != l {
		t.Error("Side returned the wrong group")
	}
}

func TestPoseCell(t *testing.T) {
	c := NewPoseCell(Pose{X: 1, Y: 2, Heading: 90})
	if p := c.Pose(); p.X != 1 || p.Y != 2 || p.Heading != 90 {
		t.Errorf("unexpected pose %v", p)
	}

	c.Store(Pose{X: 3})
	if c.Pose().X != 3 {
		t.Errorf("expected x 3, got %f", c.Pose().X)
	}

	var empty PoseCell
	if empty.Pose() != (Pose{}) {
		t.Error("expected zero pose from empty cell")
	}
}

func TestPoseDistance(t *testing.T) {
	p := Pose{X: 0, Y: 0}
	if d := p.DistanceTo(3, 4); math.Abs(d-5) > 1e-12 {
		t.Errorf("expected 5, got %f", d)
	}
	var provider PoseProvider = PoseFunc(func() Pose { return Pose{Y: 1} })
	if provider.Pose().Y != 1 {
		t.Error("PoseFunc did not forward")
	}
}
