package hardware

// TrackingKind identifies which sensor a DistanceSource reads.
type TrackingKind int

const (
	RotationSensor TrackingKind = iota
	ShaftEncoder
	MotorEncoder
)

func (k TrackingKind) String() string {
	switch k {
	case ShaftEncoder:
		return "shaft encoder"
	case MotorEncoder:
		return "motor encoder"
	default:
		return "rotation sensor"
	}
}

// DistanceSource is the forward-distance feedback for straight drives. It is
// built by exactly one of RotationTracking, EncoderTracking or MotorTracking.
type DistanceSource struct {
	kind  TrackingKind
	enc   Encoder
	ratio float64
}

// RotationTracking reads a tracking wheel on a rotation sensor. ratio converts
// sensor degrees to distance.
func RotationTracking(sensor Encoder, ratio float64) DistanceSource {
	return DistanceSource{kind: RotationSensor, enc: sensor, ratio: ratio}
}

// EncoderTracking reads a tracking wheel on an optical shaft encoder.
func EncoderTracking(enc Encoder, ratio float64) DistanceSource {
	return DistanceSource{kind: ShaftEncoder, enc: enc, ratio: ratio}
}

// MotorTracking reads the integrated encoders of a drive motor group.
func MotorTracking(group MotorGroup, ratio float64) DistanceSource {
	return DistanceSource{kind: MotorEncoder, enc: group, ratio: ratio}
}

func (d DistanceSource) Kind() TrackingKind { return d.kind }

// Valid reports whether the source was built by one of the constructors.
func (d DistanceSource) Valid() bool { return d.enc != nil }

// Distance returns the distance travelled since the sensor was zeroed.
func (d DistanceSource) Distance() float64 {
	if d.enc == nil {
		return 0
	}
	return d.enc.Position(Degrees) * d.ratio
}
