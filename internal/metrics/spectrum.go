package metrics

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/motionlab/internal/control"
	"github.com/san-kum/motionlab/internal/hardware"
	"github.com/san-kum/motionlab/internal/path"
	"github.com/san-kum/motionlab/internal/tracking"
)

// minSpectrumSamples is the shortest run Oscillation will analyse.
const minSpectrumSamples = 16

// Oscillation is the dominant frequency, in Hz, of the lateral error. A
// well damped follower has little energy away from zero; weaving shows up
// as a clear peak.
type Oscillation struct {
	rate float64
	errs []float64
}

// NewOscillation analyses errors sampled once per control cycle.
func NewOscillation() *Oscillation {
	return &Oscillation{rate: 1 / control.DefaultCycle.Seconds()}
}

func (o *Oscillation) Name() string { return "cross_track_oscillation_hz" }

func (o *Oscillation) OnCommand(target path.ProfiledPoint, pose hardware.Pose, _ tracking.Command) {
	_, right, _ := tracking.LocalError(target, pose)
	o.errs = append(o.errs, right)
}

func (o *Oscillation) Value() float64 {
	freq, _ := DominantFrequency(o.errs, o.rate)
	return freq
}

func (o *Oscillation) Reset() { o.errs = o.errs[:0] }

// PowerSpectrum returns the magnitude of the first half of the spectrum of
// data after removing its mean.
func PowerSpectrum(data []float64) []float64 {
	mean := stat.Mean(data, nil)
	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}
	spectrum := fft.FFTReal(centered)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency of the strongest non-zero bin and
// its magnitude. Short or flat signals report zero.
func DominantFrequency(data []float64, rate float64) (float64, float64) {
	if len(data) < minSpectrumSamples {
		return 0, 0
	}
	ps := PowerSpectrum(data)
	peak, bin := 0.0, 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > peak {
			peak, bin = ps[i], i
		}
	}
	if peak < 1e-9 {
		return 0, 0
	}
	return float64(bin) * rate / float64(len(data)), peak
}
