package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/san-kum/motionlab/internal/config"
	"github.com/san-kum/motionlab/internal/experiment"
	"github.com/san-kum/motionlab/internal/units"
)

const routineYAML = `
name: straight-and-turn
description: drive the straight preset, face right, then push forward
steps:
  - follow: straight
  - move: turn-to
    args: [90]
  - move: drive
    args: [12]
`

func writeRoutine(t *testing.T, body string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "routine.yaml")
	require.NoError(t, os.WriteFile(file, []byte(body), 0644))
	return file
}

func TestRunRoutine(t *testing.T) {
	routine, err := LoadRoutine(writeRoutine(t, routineYAML))
	require.NoError(t, err)
	require.Len(t, routine.Steps, 3)
	assert.Equal(t, "follow straight", routine.Steps[0].String())

	exp, err := experiment.New(config.DefaultConfig(), zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)

	runs, err := RunRoutine(context.Background(), exp, routine, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, experiment.KindFollow, runs[0].Kind)
	assert.Equal(t, "straight", runs[0].Route)
	assert.Equal(t, experiment.KindMove, runs[2].Kind)

	final := runs[2].Final
	assert.InDelta(t, 12, final.X, 2)
	assert.InDelta(t, 48, final.Y, 3)
	assert.InDelta(t, 0, units.WrapDeg(final.Heading-90), 3)
}

func TestRunRoutineStopsAtFailure(t *testing.T) {
	routine := &Routine{Name: "bad", Steps: []Step{
		{Move: "turn", Args: []float64{10}},
		{Move: "drive-to", Args: []float64{1}},
		{Move: "turn", Args: []float64{10}},
	}}
	exp, err := experiment.New(config.DefaultConfig(), nil)
	require.NoError(t, err)

	runs, err := RunRoutine(context.Background(), exp, routine, nil)
	require.Error(t, err)
	assert.Len(t, runs, 2)
	assert.True(t, errors.Is(err, experiment.ErrPrimitiveArgs))
}

func TestRoutineValidate(t *testing.T) {
	_, err := LoadRoutine(writeRoutine(t, "name: empty\n"))
	assert.Error(t, err)

	r := &Routine{Name: "x", Steps: []Step{
		{},
		{Follow: "straight", Move: "turn"},
		{Move: "moonwalk"},
	}}
	err = r.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidStep))
	assert.True(t, errors.Is(err, experiment.ErrUnknownPrimitive))

	_, err = LoadRoutine(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMonteCarlo(t *testing.T) {
	mc := MonteCarloConfig{
		Route:         "straight",
		Tracker:       experiment.TrackerRamsete,
		Trials:        3,
		PositionNoise: 1,
		HeadingNoise:  3,
		Seed:          7,
	}
	results, err := RunMonteCarlo(context.Background(), config.DefaultConfig(), mc, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.NotEqual(t, results[0].Start, results[1].Start)
	for _, r := range results {
		assert.LessOrEqual(t, r.Start.X*r.Start.X, 1.0)
		assert.True(t, r.Completed)
	}

	again, err := RunMonteCarlo(context.Background(), config.DefaultConfig(), mc, nil)
	require.NoError(t, err)
	assert.Equal(t, results[2].Start, again[2].Start)

	stats := Summarize(results)
	assert.Equal(t, 3, stats.Completed)
	assert.Zero(t, stats.Failed)
	assert.Less(t, stats.MeanError, 3.0)
	assert.GreaterOrEqual(t, stats.MaxError, stats.MeanError)
}

func TestMonteCarloRejects(t *testing.T) {
	_, err := RunMonteCarlo(context.Background(), config.DefaultConfig(), MonteCarloConfig{Route: "straight"}, nil)
	assert.Error(t, err)

	_, err = RunMonteCarlo(context.Background(), config.DefaultConfig(),
		MonteCarloConfig{Route: "straight", Tracker: "pure-pursuit", Trials: 1}, nil)
	assert.True(t, errors.Is(err, experiment.ErrUnknownTracker))
}

func TestSummarizeSingle(t *testing.T) {
	s := Summarize([]MonteCarloResult{{FinalError: 2, Completed: false}})
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 2.0, s.MeanError)
	assert.Zero(t, s.StdError)
}
