package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/lights"
	"github.com/df07/go-recursive-raytracer/pkg/material"
)

// Scene holds the primitives and lights for a render. It must not be
// modified while a render is in progress; workers share it without locking.
type Scene struct {
	Name       string
	Primitives []geometry.Primitive // scene order decides exact-distance ties
	Lights     []lights.PointLight
	Camera     CameraConfig
	Render     RenderConfig
}

// CameraConfig positions the fixed pinhole camera
type CameraConfig struct {
	Origin core.Vec3
}

// RenderConfig carries per-scene render recommendations. Zero fields fall
// back to DefaultRenderConfig.
type RenderConfig struct {
	Width       int
	Height      int
	MaxDepth    int
	Shadow      string // hard, soft, soft08 or area
	Attenuation bool
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Width:    400,
		Height:   300,
		MaxDepth: 5,
		Shadow:   "soft",
	}
}

// MergeRenderConfig overlays the non-zero fields of override onto base.
// Attenuation can only be switched on here; callers that need to turn it
// off assign the field directly.
func MergeRenderConfig(base, override RenderConfig) RenderConfig {
	result := base
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.Height != 0 {
		result.Height = override.Height
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	if override.Shadow != "" {
		result.Shadow = override.Shadow
	}
	if override.Attenuation {
		result.Attenuation = true
	}
	return result
}

// ClosestHit returns the nearest intersection of ray with the scene
func (s *Scene) ClosestHit(ray core.Ray) (geometry.Intersection, bool) {
	return geometry.ClosestHit(ray, s.Primitives)
}

// GetLights returns the scene's lights
func (s *Scene) GetLights() []lights.PointLight {
	return s.Lights
}

// Add appends a primitive at the end of the scene order
func (s *Scene) Add(p geometry.Primitive) *Scene {
	s.Primitives = append(s.Primitives, p)
	return s
}

// AddLight appends a point light
func (s *Scene) AddLight(position core.Vec3, intensity float64) *Scene {
	s.Lights = append(s.Lights, lights.NewPointLight(position, intensity))
	return s
}

// Validate checks every primitive and light, reporting all problems at once
func (s *Scene) Validate() error {
	var errs []error
	for i := range s.Primitives {
		if err := s.Primitives[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("primitive %d (%s): %w", i, s.Primitives[i].Kind, err))
		}
	}
	for i, l := range s.Lights {
		if err := l.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("light %d: %w", i, err))
		}
	}
	if s.Render.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max depth must be >= 1, got %d", s.Render.MaxDepth))
	}
	if s.Render.Shadow != "" {
		if _, err := lights.NewShadowQuery(s.Render.Shadow); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// GetPrimitiveCount returns the number of primitives in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Primitives)
}

// OverridePattern switches every plane that already carries a pattern to
// kind, keeping its scale and colors. Spheres are left alone.
func (s *Scene) OverridePattern(kind material.PatternKind) {
	for i := range s.Primitives {
		p := &s.Primitives[i]
		if p.Kind == geometry.KindPlane && p.Pattern.Enabled() {
			p.Pattern.Kind = kind
		}
	}
}
