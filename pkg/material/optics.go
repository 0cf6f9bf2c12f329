package material

import (
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// edgeBoostStrength scales the (1-cos)^5 grazing-angle boost applied to Fresnel
const edgeBoostStrength = 0.2

// Reflect mirrors v about n. The result is normalized.
func Reflect(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n))).Normalize()
}

// Refract bends incident through a boundary from index n1 into n2 using Snell's law.
// The normal must face against incident. Returns false on total internal reflection.
func Refract(incident, normal core.Vec3, n1, n2 float64) (core.Vec3, bool) {
	n := n1 / n2
	cosI := -normal.Dot(incident)
	sin2T := n * n * (1.0 - cosI*cosI)
	if sin2T > 1.0 {
		return core.Vec3{}, false
	}
	cosT := math.Sqrt(1.0 - sin2T)
	return incident.Multiply(n).Add(normal.Multiply(n*cosI - cosT)).Normalize(), true
}

// Fresnel returns the unpolarized dielectric reflectance: the average of the
// orthogonal and parallel terms, 1 on total internal reflection, clamped to [0,1].
func Fresnel(incident, normal core.Vec3, n1, n2 float64) float64 {
	cosI := math.Min(1, math.Abs(normal.Dot(incident)))
	n := n1 / n2
	sin2T := n * n * (1.0 - cosI*cosI)
	if sin2T > 1.0 {
		return 1.0
	}

	cosT := math.Sqrt(1.0 - sin2T)
	rOrth := (n1*cosI - n2*cosT) / (n1*cosI + n2*cosT)
	rPar := (n2*cosI - n1*cosT) / (n2*cosI + n1*cosT)
	r := (rOrth*rOrth + rPar*rPar) / 2.0
	if math.IsNaN(r) {
		// 0/0 at exactly grazing incidence with matched indices
		return 1.0
	}
	return math.Max(0, math.Min(1, r))
}

// EdgeBoost is the Schlick-like multiplier applied to Fresnel at grazing angles
func EdgeBoost(cosTheta float64) float64 {
	return 1 + math.Pow(1-cosTheta, 5)*edgeBoostStrength
}
