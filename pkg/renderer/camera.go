package renderer

import (
	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// Camera is a fixed pinhole looking down +z with a 90 degree field of view
// in each axis. There is no transform; only the origin can move.
type Camera struct {
	Origin core.Vec3
}

// NewCamera creates a camera at origin
func NewCamera(origin core.Vec3) *Camera {
	return &Camera{Origin: origin}
}

// GetRay generates the primary ray through pixel (x, y) of a width×height image.
// y grows downward, matching image rows.
func (c *Camera) GetRay(x, y, width, height int) core.Ray {
	return c.GetRayAt(float64(x), float64(y), width, height)
}

// GetRayAt is GetRay for sub-pixel positions, for callers that supersample
func (c *Camera) GetRayAt(x, y float64, width, height int) core.Ray {
	ndcX := 2*x/float64(width) - 1
	ndcY := 1 - 2*y/float64(height)
	return core.NewRay(c.Origin, core.NewVec3(ndcX, ndcY, 1).Normalize())
}
