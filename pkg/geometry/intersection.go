package geometry

import (
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// Intersection is the nearest hit of a ray against a primitive list
type Intersection struct {
	Distance  float64
	Primitive *Primitive
	Index     int       // position of Primitive in the scanned slice
	Point     core.Vec3 // ray.At(Distance)
	Normal    core.Vec3 // unit outward normal, not flipped toward the ray
}

// ClosestHit tests every primitive and keeps the smallest positive t.
//
// Candidates are compared with a strict less-than, so when two primitives
// report exactly the same distance the one earlier in prims wins. That order
// is deterministic but carries no physical meaning.
func ClosestHit(ray core.Ray, prims []Primitive) (Intersection, bool) {
	closest := math.Inf(1)
	index := -1

	for i := range prims {
		if t, ok := prims[i].Intersect(ray); ok && t < closest {
			closest = t
			index = i
		}
	}

	if index < 0 {
		return Intersection{}, false
	}

	prim := &prims[index]
	point := ray.At(closest)
	return Intersection{
		Distance:  closest,
		Primitive: prim,
		Index:     index,
		Point:     point,
		Normal:    prim.NormalAt(point),
	}, true
}
