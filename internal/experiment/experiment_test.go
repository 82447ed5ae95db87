package experiment

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/san-kum/motionlab/internal/config"
	"github.com/san-kum/motionlab/internal/hardware"
	"github.com/san-kum/motionlab/internal/units"
)

func newExperiment(t *testing.T, route string) *Experiment {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Route = route
	e, err := New(cfg, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	return e
}

func TestFollowRecordsRun(t *testing.T) {
	e := newExperiment(t, "curve")
	p, err := e.PlanNamed("curve")
	require.NoError(t, err)

	run := e.Follow(context.Background(), p)
	require.NoError(t, run.Err)
	assert.True(t, run.Completed())
	assert.Equal(t, KindFollow, run.Kind)
	assert.Equal(t, "curve", run.Route)
	assert.NotEmpty(t, run.Trace)
	assert.Positive(t, run.Elapsed)
	assert.Less(t, run.Metrics["final_error"], 3.0)
	assert.Contains(t, run.Metrics, "cross_track_rms")

	meta := run.Metadata(e.Config().Planner)
	assert.Equal(t, len(p), meta.Points)
	assert.True(t, meta.Completed)
	assert.Empty(t, meta.Error)
	assert.InDelta(t, run.Elapsed.Seconds(), meta.Elapsed, 1e-9)
}

func TestFollowStanley(t *testing.T) {
	e := newExperiment(t, "straight")
	p, err := e.PlanNamed("straight")
	require.NoError(t, err)

	run := e.FollowStanley(context.Background(), p)
	require.NoError(t, run.Err)
	assert.Equal(t, KindStanley, run.Kind)
	assert.InDelta(t, 48, run.Final.Y, 4)
	assert.InDelta(t, 0, run.Final.X, 1)
}

func TestMoveTurn(t *testing.T) {
	e := newExperiment(t, "curve")

	run := e.Move(context.Background(), "turn", []float64{90})
	require.NoError(t, run.Err)
	assert.Equal(t, "turn", run.Route)
	assert.InDelta(t, 0, units.WrapDeg(run.Final.Heading-90), 2)
}

func TestMoveRejectsBadInput(t *testing.T) {
	e := newExperiment(t, "curve")

	run := e.Move(context.Background(), "moonwalk", nil)
	assert.Equal(t, ErrUnknownPrimitive, errors.Cause(run.Err))
	assert.False(t, run.Completed())
	assert.NotEmpty(t, run.Metadata(e.Config().Planner).Error)

	run = e.Move(context.Background(), "drive-to", []float64{1})
	assert.Equal(t, ErrPrimitiveArgs, errors.Cause(run.Err))
}

func TestPrimitivesRegistry(t *testing.T) {
	prims := Primitives()
	require.Len(t, prims, 15)
	for i := 1; i < len(prims); i++ {
		assert.Less(t, prims[i-1].Name, prims[i].Name)
	}

	arc, err := LookupPrimitive("arc-to-left")
	require.NoError(t, err)
	assert.Equal(t, "arc-to-left radius heading", arc.Usage())
}

func TestResetReturnsToStart(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Start = hardware.Pose{X: 5, Y: -3, Heading: 90}
	e, err := New(cfg, nil)
	require.NoError(t, err)
	assertPose(t, cfg.Start, e.Robot().Pose())

	run := e.Move(context.Background(), "drive", []float64{6})
	require.NoError(t, run.Err)
	assert.InDelta(t, 11, run.Final.X, 1)

	e.Reset()
	assertPose(t, cfg.Start, e.Robot().Pose())
}

func assertPose(t *testing.T, want, got hardware.Pose) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)
	assert.InDelta(t, 0, units.WrapDeg(want.Heading-got.Heading), 1e-9)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Planner.PointSpacing = 0
	_, err := New(cfg, nil)
	assert.Error(t, err)
}

func TestTrackByName(t *testing.T) {
	e := newExperiment(t, "curve")

	run, err := e.Track(context.Background(), TrackerStanley, "straight")
	require.NoError(t, err)
	assert.Equal(t, KindStanley, run.Kind)
	assert.Equal(t, "straight", run.Route)
	assert.True(t, run.Completed())

	_, err = e.Track(context.Background(), "pure-pursuit", "straight")
	assert.True(t, errors.Is(err, ErrUnknownTracker))

	_, err = e.Track(context.Background(), TrackerRamsete, "nowhere")
	assert.True(t, errors.Is(err, config.ErrUnknownRoute))
}
