package integrator

import (
	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor returns the [0,1] color seen along a primary ray. Implementations
	// must be safe for concurrent use on a read-only scene.
	RayColor(ray core.Ray, scene *scene.Scene) core.Vec3
}
