package storage

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/san-kum/motionlab/internal/path"
	"github.com/san-kum/motionlab/internal/sim"
)

var (
	pathHeader  = []string{"x", "y", "heading", "t", "arc_length", "radius", "angular_velocity", "velocity", "time"}
	traceHeader = []string{"time", "x", "y", "heading", "left", "right"}
)

func pathRows(p path.Path) [][]float64 {
	rows := make([][]float64, len(p))
	for i, pt := range p {
		rows[i] = []float64{pt.X, pt.Y, pt.Heading, pt.T, pt.ArcLength, pt.Radius, pt.AngularVelocity, pt.Velocity, pt.Time}
	}
	return rows
}

func traceRows(trace []sim.Sample) [][]float64 {
	rows := make([][]float64, len(trace))
	for i, s := range trace {
		rows[i] = []float64{s.Time, s.X, s.Y, s.Heading, s.Left, s.Right}
	}
	return rows
}

// writeCSV writes floats in shortest round-trip form; +Inf radii come back
// unchanged.
func writeCSV(file string, header []string, rows [][]float64) error {
	f, err := os.Create(file)
	if err != nil {
		return errors.Wrap(err, "storage: create csv")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return errors.Wrap(err, "storage: write csv")
	}
	record := make([]string, len(header))
	for _, row := range rows {
		for j, v := range row {
			record[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return errors.Wrap(err, "storage: write csv")
		}
	}
	w.Flush()
	return errors.Wrap(w.Error(), "storage: flush csv")
}

func readCSV(file string, width int) ([][]float64, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = width
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return [][]float64{}, nil
	}

	rows := make([][]float64, 0, len(records)-1)
	for i, record := range records[1:] {
		row := make([]float64, width)
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "row %d column %d", i+1, j)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}
