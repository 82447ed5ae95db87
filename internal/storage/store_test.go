package storage

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"

	"github.com/san-kum/motionlab/internal/hardware"
	"github.com/san-kum/motionlab/internal/path"
	"github.com/san-kum/motionlab/internal/sim"
)

func newTestStore(t *testing.T) (*Store, *clock.Mock, string) {
	t.Helper()
	dir := t.TempDir()
	mock := clock.NewMock()
	mock.Set(time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC))
	st := New(dir, WithClock(mock))
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	return st, mock, dir
}

func samplePath() path.Path {
	return path.Path{
		{X: 0, Y: 0, Heading: 0, T: 0, Radius: math.Inf(1)},
		{X: 0.1, Y: 1.02, Heading: 0.05, T: 0.02, ArcLength: 1.0249, Radius: 31.7, AngularVelocity: 0.21, Velocity: 6.9, Time: 0.297},
		{X: 0.4, Y: 2.03, Heading: 0.11, T: 0.04, ArcLength: 1.0125, Radius: -18.25, AngularVelocity: -0.4, Velocity: 0, Time: 0.591},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st, _, _ := newTestStore(t)

	trace := []sim.Sample{
		{Time: 0, X: 0, Y: 0, Heading: 0},
		{Time: 0.001, X: 0, Y: 0.003, Heading: 0.01, Left: 2.5, Right: 2.4},
	}
	meta := RunMetadata{
		Kind:            "follow",
		Route:           "s-curve",
		Planned:         0.591,
		Elapsed:         0.62,
		MaxVelocity:     48,
		MaxAcceleration: Float(math.Inf(1)),
		PointSpacing:    1,
		Final:           hardware.Pose{X: 0.4, Y: 2, Heading: 6.2},
		Completed:       true,
		Metrics:         map[string]float64{"cross_track_rms": 0.12},
	}

	runID, err := st.Save(meta, samplePath(), trace)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID != "follow_s-curve_20240309-143000" {
		t.Errorf("unexpected run id %q", runID)
	}

	got, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	want := meta
	want.ID = runID
	want.Timestamp = time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)
	want.Points = 3
	if diff := cmp.Diff(&want, got); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}
	if !math.IsInf(float64(got.MaxAcceleration), 1) {
		t.Errorf("infinite acceleration lost, got %v", got.MaxAcceleration)
	}

	p, err := st.LoadPath(runID)
	if err != nil {
		t.Fatalf("load path failed: %v", err)
	}
	if diff := cmp.Diff(samplePath(), p); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}

	gotTrace, err := st.LoadTrace(runID)
	if err != nil {
		t.Fatalf("load trace failed: %v", err)
	}
	if diff := cmp.Diff(trace, gotTrace); diff != "" {
		t.Errorf("trace mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreList(t *testing.T) {
	st, mock, _ := newTestStore(t)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	first, err := st.Save(RunMetadata{Kind: "move"}, nil, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	mock.Add(time.Minute)
	second, err := st.Save(RunMetadata{Kind: "follow", Route: "hook"}, samplePath(), nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	ids := make([]string, len(runs))
	for i, r := range runs {
		ids[i] = r.ID
	}
	if diff := cmp.Diff([]string{first, second}, ids); diff != "" {
		t.Errorf("runs out of order (-want +got):\n%s", diff)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestStoreSameSecondGetsDistinctIDs(t *testing.T) {
	st, _, _ := newTestStore(t)

	a, err := st.Save(RunMetadata{Kind: "stanley", Route: "my route"}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := st.Save(RunMetadata{Kind: "stanley", Route: "my route"}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatalf("expected distinct ids, both %q", a)
	}
	if b != a+"-2" {
		t.Errorf("expected %q, got %q", a+"-2", b)
	}
	if a != "stanley_my-route_20240309-143000" {
		t.Errorf("unsafe characters should be replaced, got %q", a)
	}
}

func TestStoreFileStructure(t *testing.T) {
	st, _, dir := newTestStore(t)

	runID, err := st.Save(RunMetadata{Kind: "follow"}, samplePath(), nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "path.csv", "trace.csv"} {
		if _, err := os.Stat(filepath.Join(dir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	trace, err := st.LoadTrace(runID)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]sim.Sample(nil), trace, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("expected empty trace:\n%s", diff)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	st, _, _ := newTestStore(t)
	_, err := st.Load("nope")
	if errors.Cause(err) != ErrRunNotFound {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadPath("nope"); err == nil {
		t.Error("expected error loading missing path")
	}
}
