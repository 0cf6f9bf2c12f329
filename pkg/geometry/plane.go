package geometry

import (
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// parallelEpsilon is the |D·N| below which a ray is treated as parallel to a plane
const parallelEpsilon = 1e-4

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point  core.Vec3 // A point on the plane
	Normal core.Vec3 // Unit normal
}

// NewPlane creates a new plane
func NewPlane(point, normal core.Vec3) Plane {
	return Plane{
		Point:  point,
		Normal: normal.Normalize(),
	}
}

// Intersect returns t = (P - O)·N / (D·N) for t > 0
func (p Plane) Intersect(ray core.Ray) (float64, bool) {
	denominator := ray.Direction.Dot(p.Normal)
	if math.Abs(denominator) < parallelEpsilon {
		return 0, false
	}

	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if !(t > 0) {
		return 0, false
	}
	return t, true
}
