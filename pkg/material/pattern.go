package material

import (
	"fmt"
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// PatternKind selects the procedural surface pattern
type PatternKind int

const (
	// PatternNone uses the primitive's flat color
	PatternNone PatternKind = iota
	// PatternChecker is a black/white checkerboard in the surface's own UV frame.
	// This is the canonical scheme.
	PatternChecker
	// PatternGrid floors world X/Z and alternates between the surface color and
	// the alternate color (or the surface color darkened to 30%)
	PatternGrid
)

// gridDarken scales the surface color on odd grid cells without an AltColor
const gridDarken = 0.3

func (k PatternKind) String() string {
	switch k {
	case PatternNone:
		return "none"
	case PatternChecker:
		return "checker"
	case PatternGrid:
		return "grid"
	default:
		return fmt.Sprintf("PatternKind(%d)", int(k))
	}
}

// ParsePatternKind converts a scene-file or flag name to a PatternKind
func ParsePatternKind(name string) (PatternKind, error) {
	switch name {
	case "", "none":
		return PatternNone, nil
	case "checker", "checkerboard":
		return PatternChecker, nil
	case "grid":
		return PatternGrid, nil
	default:
		return PatternNone, fmt.Errorf("unknown pattern %q", name)
	}
}

// Pattern is a procedural color source evaluated at a hit point
type Pattern struct {
	Kind  PatternKind
	Scale float64 // checker frequency multiplier, or grid cell size; <= 0 means 1
}

// Enabled reports whether the pattern overrides the flat color
func (p Pattern) Enabled() bool {
	return p.Kind != PatternNone
}

func (p Pattern) scale() float64 {
	if p.Scale <= 0 {
		return 1
	}
	return p.Scale
}

// BaseColor resolves the surface color at point
func (p Pattern) BaseColor(point, normal, color core.Vec3, altColor *core.Vec3) core.Vec3 {
	switch p.Kind {
	case PatternChecker:
		return checker(point, normal, p.scale())
	case PatternGrid:
		if gridEven(point, p.scale()) {
			return color
		}
		if altColor != nil {
			return *altColor
		}
		return color.Multiply(gridDarken)
	default:
		return color
	}
}

// SurfaceBasis returns two unit vectors orthogonal to normal and to each other
func SurfaceBasis(normal core.Vec3) (u, v core.Vec3) {
	reference := core.NewVec3(1, 0, 0)
	if math.Abs(normal.X) >= 0.9 {
		reference = core.NewVec3(0, 1, 0)
	}
	u = normal.Cross(reference).Normalize()
	v = normal.Cross(u).Normalize()
	return u, v
}

func checker(point, normal core.Vec3, scale float64) core.Vec3 {
	u, v := SurfaceBasis(normal)
	pu := math.Floor(point.Dot(u) * scale)
	pv := math.Floor(point.Dot(v) * scale)
	if isEven(pu) != isEven(pv) {
		return core.Black
	}
	return core.White
}

// gridEven floors |x|/size and |z|/size so the grid mirrors about both axes
func gridEven(point core.Vec3, size float64) bool {
	x := math.Floor(math.Abs(point.X / size))
	z := math.Floor(math.Abs(point.Z / size))
	return isEven(x + z)
}

func isEven(f float64) bool {
	return math.Mod(f, 2) == 0
}
