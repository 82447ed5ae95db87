package export

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/san-kum/motionlab/internal/path"
	"github.com/san-kum/motionlab/internal/sim"
	"github.com/san-kum/motionlab/internal/storage"
)

type Point struct {
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Heading         float64 `json:"heading"`
	Time            float64 `json:"time"`
	ArcLength       float64 `json:"arc_length"`
	Curvature       float64 `json:"curvature"`
	Velocity        float64 `json:"velocity"`
	AngularVelocity float64 `json:"angular_velocity"`
}

type Data struct {
	Run   storage.RunMetadata `json:"run"`
	Path  []Point             `json:"path"`
	Trace []sim.Sample        `json:"trace"`
}

func NewData(meta storage.RunMetadata, p path.Path, trace []sim.Sample) Data {
	pts := make([]Point, len(p))
	for i, pt := range p {
		pts[i] = Point{
			X:               pt.X,
			Y:               pt.Y,
			Heading:         pt.Heading,
			Time:            pt.Time,
			ArcLength:       pt.ArcLength,
			Curvature:       pt.Curvature(),
			Velocity:        pt.Velocity,
			AngularVelocity: pt.AngularVelocity,
		}
	}
	if trace == nil {
		trace = []sim.Sample{}
	}
	return Data{Run: meta, Path: pts, Trace: trace}
}

// WriteJSON writes data indented.
func WriteJSON(w io.Writer, data Data) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(data), "export: encode json")
}
