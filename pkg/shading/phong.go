// Package shading evaluates local (non-recursive) Phong illumination at a hit.
package shading

import (
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/lights"
	"github.com/df07/go-recursive-raytracer/pkg/material"
)

// Config toggles the optional parts of the lighting model
type Config struct {
	// Attenuation divides each light's contribution by 1 + AttenuationK*d²
	Attenuation  bool
	AttenuationK float64
}

// DefaultConfig returns the unattenuated lighting model
func DefaultConfig() Config {
	return Config{Attenuation: false, AttenuationK: 0.1}
}

// Shader computes local Phong color with shadowing
type Shader struct {
	shadows lights.ShadowQuery
	config  Config
}

// NewShader creates a shader using the given shadow policy
func NewShader(shadows lights.ShadowQuery, config Config) *Shader {
	if shadows == nil {
		shadows = lights.SoftShadow{Softness: 1}
	}
	return &Shader{shadows: shadows, config: config}
}

// Shade returns the local color at hit, clamped to [0,1] but not quantized.
// viewDir is the unit vector from the surface toward the viewer.
func (s *Shader) Shade(hit geometry.Intersection, viewDir core.Vec3, lightList []lights.PointLight, occ lights.Occluder) core.Vec3 {
	prim := hit.Primitive
	phong := prim.Material.Phong
	normal := hit.Normal
	point := hit.Point

	baseColor := prim.BaseColor(point, normal)
	result := baseColor.Multiply(phong.Ambient)

	for _, light := range lightList {
		toLight := light.Position.Subtract(point)
		distanceToLight := toLight.Length()
		lightDir := toLight.Normalize()

		shadowFactor := s.shadows.Factor(point, normal, light.Position, occ)
		if shadowFactor <= 0 {
			continue
		}

		diffuseFactor := math.Max(0, normal.Dot(lightDir)) * phong.Diffuse * shadowFactor
		diffuse := baseColor.Multiply(diffuseFactor)

		// specular highlights are colorless
		reflectDir := reflectAbout(lightDir, normal)
		specularFactor := math.Pow(math.Max(0, reflectDir.Dot(viewDir)), phong.Shininess) * phong.Specular * shadowFactor
		specular := core.White.Multiply(specularFactor)

		scale := light.Intensity
		if s.config.Attenuation {
			scale /= 1 + s.config.AttenuationK*distanceToLight*distanceToLight
		}
		result = result.Add(diffuse.Add(specular).Multiply(scale))
	}

	return result.Clamp(0, 1)
}

// reflectAbout mirrors the surface-to-light direction about the normal: 2(N·L)N - L
func reflectAbout(lightDir, normal core.Vec3) core.Vec3 {
	return material.Reflect(lightDir, normal).Negate()
}
