package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/material"
)

// ErrInvalidPrimitive is returned by Validate for degenerate shapes
var ErrInvalidPrimitive = errors.New("invalid primitive")

// Kind tags which shape a Primitive holds
type Kind int

const (
	KindSphere Kind = iota
	KindPlane
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindPlane:
		return "plane"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Primitive is a closed union of intersectable shapes plus their surface description.
// Exactly one of Sphere or Plane is meaningful, selected by Kind.
type Primitive struct {
	Kind   Kind
	Sphere Sphere
	Plane  Plane

	Color    core.Vec3
	AltColor *core.Vec3 // optional second color for PatternGrid
	Pattern  material.Pattern
	Material material.Material
}

// NewSpherePrimitive wraps a sphere with its color and material
func NewSpherePrimitive(center core.Vec3, radius float64, color core.Vec3, mat material.Material) Primitive {
	return Primitive{
		Kind:     KindSphere,
		Sphere:   NewSphere(center, radius),
		Color:    color,
		Material: mat,
	}
}

// NewPlanePrimitive wraps a plane with its color and material
func NewPlanePrimitive(point, normal core.Vec3, color core.Vec3, mat material.Material) Primitive {
	return Primitive{
		Kind:     KindPlane,
		Plane:    NewPlane(point, normal),
		Color:    color,
		Material: mat,
	}
}

// WithPattern returns a copy of p using the given pattern
func (p Primitive) WithPattern(pattern material.Pattern, altColor *core.Vec3) Primitive {
	p.Pattern = pattern
	p.AltColor = altColor
	return p
}

// Intersect returns the ray parameter of the hit, if any. Only t > 0 is reported.
func (p *Primitive) Intersect(ray core.Ray) (float64, bool) {
	switch p.Kind {
	case KindSphere:
		return p.Sphere.Intersect(ray)
	case KindPlane:
		return p.Plane.Intersect(ray)
	default:
		return 0, false
	}
}

// NormalAt returns the unit outward normal at a point on the surface
func (p *Primitive) NormalAt(point core.Vec3) core.Vec3 {
	switch p.Kind {
	case KindSphere:
		return p.Sphere.NormalAt(point)
	case KindPlane:
		return p.Plane.Normal
	default:
		return core.Vec3{}
	}
}

// BaseColor resolves the primitive's pattern or flat color at a hit point
func (p *Primitive) BaseColor(point, normal core.Vec3) core.Vec3 {
	return p.Pattern.BaseColor(point, normal, p.Color, p.AltColor)
}

// Validate checks the shape parameters and the material
func (p *Primitive) Validate() error {
	var errs []error
	switch p.Kind {
	case KindSphere:
		if !(p.Sphere.Radius > 0) || math.IsInf(p.Sphere.Radius, 0) || !p.Sphere.Center.IsFinite() {
			errs = append(errs, fmt.Errorf("%w: sphere needs a finite center and radius > 0, got radius %g", ErrInvalidPrimitive, p.Sphere.Radius))
		}
	case KindPlane:
		if math.Abs(p.Plane.Normal.Length()-1) > 1e-9 || !p.Plane.Point.IsFinite() {
			errs = append(errs, fmt.Errorf("%w: plane needs a finite point and non-zero normal", ErrInvalidPrimitive))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: unknown kind %s", ErrInvalidPrimitive, p.Kind))
	}
	if !p.Color.IsFinite() {
		errs = append(errs, fmt.Errorf("%w: non-finite color %v", ErrInvalidPrimitive, p.Color))
	}
	if err := p.Material.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
