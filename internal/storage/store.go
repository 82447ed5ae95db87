// Package storage keeps finished runs on disk, one directory per run holding
// metadata.json, path.csv and trace.csv.
package storage

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"github.com/san-kum/motionlab/internal/hardware"
	"github.com/san-kum/motionlab/internal/path"
	"github.com/san-kum/motionlab/internal/sim"
)

const (
	metadataFile = "metadata.json"
	pathFile     = "path.csv"
	traceFile    = "trace.csv"
)

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
	clock   clock.Clock
}

type Option func(*Store)

// WithClock sets the clock used to timestamp and name runs.
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

func New(baseDir string, opts ...Option) *Store {
	s := &Store{baseDir: baseDir, clock: clock.New()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Float is a float64 that survives JSON when infinite.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return json.Marshal(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return json.Marshal(v)
}

func (f *Float) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*f = Float(v)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return errors.Wrap(err, "storage: float")
	}
	v, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return errors.Wrap(err, "storage: float")
	}
	*f = Float(v)
	return nil
}

type RunMetadata struct {
	ID              string             `json:"id"`
	Kind            string             `json:"kind"`
	Route           string             `json:"route"`
	Timestamp       time.Time          `json:"timestamp"`
	Points          int                `json:"points"`
	Planned         float64            `json:"planned_duration"`
	Elapsed         float64            `json:"elapsed"`
	MaxVelocity     Float              `json:"max_velocity"`
	MaxAcceleration Float              `json:"max_acceleration"`
	PointSpacing    Float              `json:"point_spacing"`
	Final           hardware.Pose      `json:"final"`
	Completed       bool               `json:"completed"`
	Error           string             `json:"error,omitempty"`
	Metrics         map[string]float64 `json:"metrics"`
}

var unsafeID = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Save writes a run and returns its ID. ID and Timestamp in meta are filled
// in by the store.
func (s *Store) Save(meta RunMetadata, p path.Path, trace []sim.Sample) (string, error) {
	if err := s.Init(); err != nil {
		return "", errors.Wrap(err, "storage: init")
	}

	now := s.clock.Now()
	name := meta.Kind
	if meta.Route != "" {
		name += "_" + meta.Route
	}
	base := unsafeID.ReplaceAllString(name, "-") + "_" + now.UTC().Format("20060102-150405")

	runID, runDir, err := s.reserve(base)
	if err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	if meta.Points == 0 {
		meta.Points = len(p)
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, pathFile), pathHeader, pathRows(p)); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, traceFile), traceHeader, traceRows(trace)); err != nil {
		return "", err
	}
	return runID, nil
}

// reserve creates a fresh run directory, suffixing the name when a run was
// already saved in the same second.
func (s *Store) reserve(base string) (string, string, error) {
	for i := 1; ; i++ {
		id := base
		if i > 1 {
			id = fmt.Sprintf("%s-%d", base, i)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", errors.Wrapf(err, "storage: create %s", id)
		}
	}
}

func writeJSON(file string, v any) error {
	f, err := os.Create(file)
	if err != nil {
		return errors.Wrap(err, "storage: create metadata")
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "storage: encode metadata")
	}
	return nil
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, errors.Wrap(err, "storage: list")
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrRunNotFound, runID)
		}
		return nil, errors.Wrap(err, "storage: read metadata")
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "storage: decode metadata for %s", runID)
	}
	return &meta, nil
}

func (s *Store) LoadPath(runID string) (path.Path, error) {
	rows, err := readCSV(filepath.Join(s.baseDir, runID, pathFile), len(pathHeader))
	if err != nil {
		return nil, errors.Wrapf(err, "storage: path of %s", runID)
	}
	p := make(path.Path, len(rows))
	for i, r := range rows {
		p[i] = path.ProfiledPoint{
			X: r[0], Y: r[1], Heading: r[2], T: r[3], ArcLength: r[4],
			Radius: r[5], AngularVelocity: r[6], Velocity: r[7], Time: r[8],
		}
	}
	return p, nil
}

func (s *Store) LoadTrace(runID string) ([]sim.Sample, error) {
	rows, err := readCSV(filepath.Join(s.baseDir, runID, traceFile), len(traceHeader))
	if err != nil {
		return nil, errors.Wrapf(err, "storage: trace of %s", runID)
	}
	trace := make([]sim.Sample, len(rows))
	for i, r := range rows {
		trace[i] = sim.Sample{Time: r[0], X: r[1], Y: r[2], Heading: r[3], Left: r[4], Right: r[5]}
	}
	return trace, nil
}
