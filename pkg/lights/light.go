package lights

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
)

// ErrInvalidLight is returned by Validate for unusable light parameters
var ErrInvalidLight = errors.New("invalid light")

// PointLight is an infinitesimal light with a scalar intensity
type PointLight struct {
	Position  core.Vec3
	Intensity float64
}

// NewPointLight creates a new point light
func NewPointLight(position core.Vec3, intensity float64) PointLight {
	return PointLight{Position: position, Intensity: intensity}
}

// Validate checks the light has a finite position and non-negative intensity
func (l PointLight) Validate() error {
	if !l.Position.IsFinite() {
		return fmt.Errorf("%w: non-finite position %v", ErrInvalidLight, l.Position)
	}
	if math.IsNaN(l.Intensity) || math.IsInf(l.Intensity, 0) || l.Intensity < 0 {
		return fmt.Errorf("%w: intensity %g must be finite and >= 0", ErrInvalidLight, l.Intensity)
	}
	return nil
}

// Occluder answers closest-hit queries for shadow rays. Scenes implement it.
type Occluder interface {
	ClosestHit(ray core.Ray) (geometry.Intersection, bool)
}
