package control

import (
	"math"
	"testing"
	"time"
)

func testGains() Gains {
	return Gains{
		Kp:                1,
		Ki:                0.5,
		Kd:                0,
		IntegralTolerance: 10,
		SettleTolerance:   1,
		SettleTime:        50 * time.Millisecond,
		MinOutput:         -100,
		MaxOutput:         100,
		CycleTime:         10 * time.Millisecond,
	}
}

func TestPIDProportional(t *testing.T) {
	g := Gains{Kp: 2, MinOutput: -100, MaxOutput: 100, CycleTime: 10 * time.Millisecond}
	pid := NewPID(g)

	if out := pid.Output(3); out != 6 {
		t.Errorf("expected 6, got %f", out)
	}
}

func TestPIDIntegralAccumulates(t *testing.T) {
	pid := NewPID(testGains())

	const e = 2.0
	for n := 1; n <= 5; n++ {
		pid.Output(e)
		if got := pid.Integral(); math.Abs(got-float64(n)*e) > 1e-12 {
			t.Errorf("after %d cycles expected integral %f, got %f", n, float64(n)*e, got)
		}
	}
}

func TestPIDIntegralResetOutsideTolerance(t *testing.T) {
	pid := NewPID(testGains())

	pid.Output(2)
	pid.Output(2)
	pid.Output(50)
	if pid.Integral() != 0 {
		t.Errorf("expected integral reset, got %f", pid.Integral())
	}
}

func TestPIDIntegralResetOnSignChange(t *testing.T) {
	tests := []struct {
		name            string
		stopOnOvershoot bool
		expected        float64
	}{
		{"stop on overshoot", true, 0},
		{"keep through overshoot", false, 3},
	}

	for _, tt := range tests {
		pid := NewPID(testGains())
		pid.OutputWithOvershoot(4, tt.stopOnOvershoot)
		pid.OutputWithOvershoot(-1, tt.stopOnOvershoot)
		if got := pid.Integral(); got != tt.expected {
			t.Errorf("%s: expected integral %f, got %f", tt.name, tt.expected, got)
		}
	}
}

func TestPIDDerivative(t *testing.T) {
	g := Gains{Kd: 3, MinOutput: -100, MaxOutput: 100, CycleTime: 10 * time.Millisecond}
	pid := NewPID(g)

	if out := pid.Output(1); out != 3 {
		t.Errorf("expected 3 on first cycle, got %f", out)
	}
	if out := pid.Output(4); out != 9 {
		t.Errorf("expected 9, got %f", out)
	}
}

func TestPIDClamp(t *testing.T) {
	g := testGains()
	g.Kp = 1000
	pid := NewPID(g)

	if out := pid.Output(5); out != g.MaxOutput {
		t.Errorf("expected clamp to %f, got %f", g.MaxOutput, out)
	}
	if out := pid.Output(-5); out != g.MinOutput {
		t.Errorf("expected clamp to %f, got %f", g.MinOutput, out)
	}
}

func TestPIDSettle(t *testing.T) {
	pid := NewPID(testGains())

	for i := 0; i < 4; i++ {
		pid.Output(0.5)
		if pid.IsSettled() {
			t.Fatalf("settled too early after %d cycles", i+1)
		}
	}
	pid.Output(0.5)
	if !pid.IsSettled() {
		t.Errorf("expected settled after 50ms, timeSettled=%v", pid.TimeSettled())
	}

	pid.Output(5)
	if pid.TimeSettled() != 0 {
		t.Errorf("expected settle timer reset, got %v", pid.TimeSettled())
	}
	if pid.IsSettled() {
		t.Error("should not be settled after leaving tolerance")
	}
}

func TestPIDReset(t *testing.T) {
	pid := NewPID(testGains())
	pid.Output(2)
	pid.Output(2)
	pid.Reset()

	if pid.Integral() != 0 || pid.TimeSettled() != 0 {
		t.Errorf("expected cleared state, got integral=%f settled=%v", pid.Integral(), pid.TimeSettled())
	}
	// derivative term sees a zero previous error again
	g := Gains{Kd: 1, MinOutput: -10, MaxOutput: 10, CycleTime: time.Millisecond}
	p := NewPID(g)
	p.Output(3)
	p.Reset()
	if out := p.Output(3); out != 3 {
		t.Errorf("expected 3 after reset, got %f", out)
	}
}

func TestSetParam(t *testing.T) {
	pid := NewPID(testGains())

	if err := pid.SetParam("Kp", 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pid.GetParams()["Kp"] != 4 {
		t.Errorf("expected Kp 4, got %f", pid.GetParams()["Kp"])
	}
	if err := pid.SetParam("Target", 1); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

func TestGainsValidate(t *testing.T) {
	if err := testGains().Validate(); err != nil {
		t.Errorf("expected valid gains, got %v", err)
	}

	bad := testGains()
	bad.MinOutput = 5
	bad.MaxOutput = -5
	bad.CycleTime = 0
	if err := bad.Validate(); err == nil {
		t.Error("expected validation error")
	}
}
