package experiment

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/san-kum/motionlab/internal/drivetrain"
)

var (
	ErrUnknownPrimitive = errors.New("experiment: unknown primitive")
	ErrPrimitiveArgs    = errors.New("experiment: wrong number of arguments")
)

// Primitive is a chassis motion callable by name.
type Primitive struct {
	Name string
	Args []string
	run  func(ctx context.Context, c *drivetrain.Chassis, args []float64) (time.Duration, error)
}

func (p Primitive) Usage() string {
	return strings.TrimSpace(p.Name + " " + strings.Join(p.Args, " "))
}

func (p Primitive) check(args []float64) error {
	if len(args) != len(p.Args) {
		return errors.Wrapf(ErrPrimitiveArgs, "%s wants %d, got %d", p.Usage(), len(p.Args), len(args))
	}
	return nil
}

var primitives = map[string]Primitive{}

func register(p Primitive) {
	primitives[p.Name] = p
}

func init() {
	register(Primitive{Name: "drive", Args: []string{"distance"},
		run: func(ctx context.Context, c *drivetrain.Chassis, a []float64) (time.Duration, error) {
			return c.DriveFor(ctx, a[0])
		}})
	register(Primitive{Name: "turn", Args: []string{"degrees"},
		run: func(ctx context.Context, c *drivetrain.Chassis, a []float64) (time.Duration, error) {
			return c.TurnFor(ctx, a[0])
		}})
	register(Primitive{Name: "turn-to", Args: []string{"heading"},
		run: func(ctx context.Context, c *drivetrain.Chassis, a []float64) (time.Duration, error) {
			return c.TurnTo(ctx, a[0])
		}})
	register(Primitive{Name: "turn-to-point", Args: []string{"x", "y"},
		run: func(ctx context.Context, c *drivetrain.Chassis, a []float64) (time.Duration, error) {
			return c.TurnToPosition(ctx, a[0], a[1])
		}})
	register(Primitive{Name: "turn-to-point-reverse", Args: []string{"x", "y"},
		run: func(ctx context.Context, c *drivetrain.Chassis, a []float64) (time.Duration, error) {
			return c.TurnToPositionReverse(ctx, a[0], a[1])
		}})
	register(Primitive{Name: "drive-to", Args: []string{"x", "y"},
		run: func(ctx context.Context, c *drivetrain.Chassis, a []float64) (time.Duration, error) {
			return c.DriveTo(ctx, a[0], a[1])
		}})
	register(Primitive{Name: "drive-to-reverse", Args: []string{"x", "y"},
		run: func(ctx context.Context, c *drivetrain.Chassis, a []float64) (time.Duration, error) {
			return c.DriveToReverse(ctx, a[0], a[1])
		}})

	for _, dir := range []drivetrain.Direction{drivetrain.TurnRight, drivetrain.TurnLeft} {
		register(Primitive{Name: "swing-" + dir.String(), Args: []string{"degrees"},
			run: func(ctx context.Context, c *drivetrain.Chassis, a []float64) (time.Duration, error) {
				return c.SwingFor(ctx, dir, a[0])
			}})
		register(Primitive{Name: "swing-to-" + dir.String(), Args: []string{"heading"},
			run: func(ctx context.Context, c *drivetrain.Chassis, a []float64) (time.Duration, error) {
				return c.SwingTo(ctx, dir, a[0])
			}})
		register(Primitive{Name: "arc-" + dir.String(), Args: []string{"radius", "degrees"},
			run: func(ctx context.Context, c *drivetrain.Chassis, a []float64) (time.Duration, error) {
				return c.ArcFor(ctx, dir, a[0], a[1])
			}})
		register(Primitive{Name: "arc-to-" + dir.String(), Args: []string{"radius", "heading"},
			run: func(ctx context.Context, c *drivetrain.Chassis, a []float64) (time.Duration, error) {
				return c.ArcTo(ctx, dir, a[0], a[1])
			}})
	}
}

func LookupPrimitive(name string) (Primitive, error) {
	p, ok := primitives[name]
	if !ok {
		return Primitive{}, errors.Wrap(ErrUnknownPrimitive, name)
	}
	return p, nil
}

// Primitives lists every registered primitive by name.
func Primitives() []Primitive {
	out := make([]Primitive, 0, len(primitives))
	for _, p := range primitives {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
