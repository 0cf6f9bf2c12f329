package integrator

import (
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/material"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
	"github.com/df07/go-recursive-raytracer/pkg/shading"
)

const (
	// offset applied to secondary ray origins to avoid self-intersection
	rayOffset = 1e-3

	viewWeight       = 0.2
	dispersionFactor = 0.02
	tintInside       = 0.4
	tintOutside      = 0.15
)

// Config contains recursion parameters
type Config struct {
	MaxDepth   int     // frames at or beyond this depth contribute black
	InitialIOR float64 // index of refraction the camera sits in
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		MaxDepth:   5,
		InitialIOR: 1.0,
	}
}

// State is one recursion frame of the tracer
type State struct {
	Depth  int
	IOR    float64
	Inside bool
}

// WhittedIntegrator implements recursive Whitted-style ray tracing: local
// Phong shading plus mirror reflection and Fresnel-weighted refraction.
type WhittedIntegrator struct {
	shader *shading.Shader
	config Config
}

// NewWhittedIntegrator creates a new recursive integrator
func NewWhittedIntegrator(shader *shading.Shader, config Config) *WhittedIntegrator {
	if config.MaxDepth < 1 {
		config.MaxDepth = DefaultConfig().MaxDepth
	}
	if config.InitialIOR <= 0 {
		config.InitialIOR = DefaultConfig().InitialIOR
	}
	return &WhittedIntegrator{shader: shader, config: config}
}

// Config returns the integrator's recursion parameters
func (w *WhittedIntegrator) Config() Config {
	return w.config
}

// RayColor traces a primary ray from outside every object
func (w *WhittedIntegrator) RayColor(ray core.Ray, s *scene.Scene) core.Vec3 {
	return w.Trace(ray, s, State{Depth: 0, IOR: w.config.InitialIOR, Inside: false})
}

// Trace returns the color for one recursion frame, clamped to [0,1]
func (w *WhittedIntegrator) Trace(ray core.Ray, s *scene.Scene, state State) core.Vec3 {
	if state.Depth >= w.config.MaxDepth {
		return core.Black
	}

	hit, isHit := s.ClosestHit(ray)
	if !isHit {
		return core.Black
	}

	viewDir := ray.Origin.Subtract(hit.Point).Normalize()
	localColor := w.shader.Shade(hit, viewDir, s.GetLights(), s)

	mat := hit.Primitive.Material
	var result core.Vec3
	switch {
	case mat.IsLocal():
		result = localColor
	case mat.IsRefractive():
		result = w.refract(ray, s, state, hit.Point, hit.Normal, hit.Primitive.Color, mat)
	default:
		result = w.reflect(ray, s, state, hit.Point, hit.Normal, localColor, mat.Reflectivity)
	}

	return result.Clamp(0, 1)
}

// reflect blends the local color with a single mirror bounce
func (w *WhittedIntegrator) reflect(ray core.Ray, s *scene.Scene, state State, point, normal, localColor core.Vec3, reflectivity float64) core.Vec3 {
	reflectDir := material.Reflect(ray.Direction, normal)
	child := core.NewRay(point.Add(normal.Multiply(rayOffset)), reflectDir)
	reflected := w.Trace(child, s, State{Depth: state.Depth + 1, IOR: state.IOR, Inside: state.Inside})

	return localColor.Multiply(1 - reflectivity).Add(reflected.Multiply(reflectivity))
}

// refract splits the ray at a dielectric boundary. The local Phong color does
// not contribute; the surface color only tints the transmitted light.
func (w *WhittedIntegrator) refract(ray core.Ray, s *scene.Scene, state State, point, normal, surfaceColor core.Vec3, mat material.Material) core.Vec3 {
	n1, n2 := 1.0, mat.IOR
	if state.Inside {
		n1, n2 = mat.IOR, 1.0
		normal = normal.Negate()
	}

	direction := ray.Direction
	cosI := math.Abs(direction.Dot(normal))
	fresnel := material.Fresnel(direction, normal, n1, n2) * material.EdgeBoost(cosI)

	reflectDir := material.Reflect(direction, normal)
	reflectRay := core.NewRay(point.Add(reflectDir.Multiply(rayOffset)), reflectDir)
	reflected := w.Trace(reflectRay, s, State{Depth: state.Depth + 1, IOR: n1, Inside: state.Inside})

	var result core.Vec3
	refractDir, ok := material.Refract(direction, normal, n1, n2)
	if !ok {
		// total internal reflection
		result = reflected
	} else {
		refractRay := core.NewRay(point.Add(refractDir.Multiply(rayOffset)), refractDir)
		refracted := w.Trace(refractRay, s, State{Depth: state.Depth + 1, IOR: n2, Inside: !state.Inside})

		reflectWeight, refractWeight := SplitWeights(fresnel, cosI)
		result = reflected.Multiply(reflectWeight).Add(refracted.Multiply(refractWeight)).Clamp(0, 1)

		if state.Inside {
			result = result.Map(func(i int, c float64) float64 {
				return math.Min(1, c*(1+float64(i-1)*dispersionFactor))
			})
		}
	}

	if surfaceColor != core.White {
		result = tint(result, surfaceColor, state.Inside, ray.Origin.Distance(point))
	}
	return result
}

// SplitWeights returns the reflected and refracted weights for a boundary
// hit. fresnel already includes the edge boost; cosI is |D·N|. The weights
// always sum to 1.
func SplitWeights(fresnel, cosI float64) (reflect, refract float64) {
	viewFactor := (1 - cosI) * (1 - cosI)
	reflect = fresnel + viewFactor*viewWeight
	if math.IsNaN(reflect) {
		reflect = 1
	}
	reflect = math.Max(0, math.Min(1, reflect))
	return reflect, 1 - reflect
}

// tint pulls the transmitted color toward the surface color, more strongly
// inside the medium and less so the further the ray has travelled through it
func tint(c, surfaceColor core.Vec3, inside bool, travelled float64) core.Vec3 {
	strength := tintOutside
	pathLength := 0.0
	if inside {
		strength = tintInside
		pathLength = travelled * 0.5
	}
	attenuation := math.Exp(-pathLength)

	filter := core.White.Subtract(core.White.Subtract(surfaceColor).Multiply(strength * attenuation))
	return c.MultiplyVec(filter)
}
