package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/material"
)

// ErrUnknownScene is returned by Lookup for names without a built-in scene
var ErrUnknownScene = errors.New("unknown scene")

var builtins = map[string]func() *Scene{
	"reflection": NewReflectionScene,
	"plane":      NewPlaneScene,
	"glass":      NewGlassScene,
}

// Names lists the built-in scenes in sorted order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup builds the named built-in scene
func Lookup(name string) (*Scene, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return build(), nil
}

// NewReflectionScene creates a grid-patterned reflective floor with three
// partially reflective spheres lit by a key and a fill light
func NewReflectionScene() *Scene {
	shiny := material.Phong{Ambient: 0.2, Diffuse: 0.7, Specular: 0.5, Shininess: 32}
	floorPhong := material.Phong{Ambient: 0.2, Diffuse: 0.6, Specular: 0.4, Shininess: 50}
	altGray := core.NewVec3(0.3, 0.3, 0.3)

	s := &Scene{
		Name:   "reflection",
		Camera: CameraConfig{Origin: core.NewVec3(0, 1, -6)},
		Render: DefaultRenderConfig(),
	}

	floor := geometry.NewPlanePrimitive(
		core.NewVec3(0, -2, 0), core.NewVec3(0, 1, 0),
		core.NewVec3(0.8, 0.8, 0.8),
		material.NewReflective(floorPhong, 0.4),
	).WithPattern(material.Pattern{Kind: material.PatternGrid, Scale: 2.0}, &altGray)

	s.Add(floor).
		Add(geometry.NewSpherePrimitive(core.NewVec3(0, 0, 0), 1.0, core.NewVec3(1.0, 0.2, 0.2), material.NewReflective(shiny, 0.3))).
		Add(geometry.NewSpherePrimitive(core.NewVec3(2, 1, 2), 1.2, core.NewVec3(0.2, 0.2, 1.0), material.NewReflective(shiny, 0.3))).
		Add(geometry.NewSpherePrimitive(core.NewVec3(-1.5, -1, 1), 0.7, core.NewVec3(0.2, 1.0, 0.2), material.NewReflective(shiny, 0.3)))

	s.AddLight(core.NewVec3(5, 10, -5), 0.7).
		AddLight(core.NewVec3(-5, 8, 5), 0.3)

	return s
}

// NewPlaneScene creates a black and white UV checkerboard floor under two
// matte spheres with distance-attenuated lighting and hard shadows
func NewPlaneScene() *Scene {
	matte := material.Phong{Ambient: 0.1, Diffuse: 0.8, Specular: 0.3, Shininess: 20}

	s := &Scene{
		Name:   "plane",
		Camera: CameraConfig{Origin: core.NewVec3(0, 0.5, -4)},
		Render: RenderConfig{
			Width:       400,
			Height:      300,
			MaxDepth:    5,
			Shadow:      "hard",
			Attenuation: true,
		},
	}

	floor := geometry.NewPlanePrimitive(
		core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0),
		core.White,
		material.NewDiffuse(material.Phong{Ambient: 0.2, Diffuse: 0.8, Specular: 0.1, Shininess: 10}),
	).WithPattern(material.Pattern{Kind: material.PatternChecker, Scale: 1.0}, nil)

	s.Add(floor).
		Add(geometry.NewSpherePrimitive(core.NewVec3(-0.8, 0, 2), 1.0, core.NewVec3(0.9, 0.5, 0.1), material.NewDiffuse(matte))).
		Add(geometry.NewSpherePrimitive(core.NewVec3(1.2, -0.4, 1), 0.6, core.NewVec3(0.1, 0.6, 0.9), material.NewDiffuse(matte)))

	s.AddLight(core.NewVec3(2, 4, -2), 1.5)

	return s
}

// NewGlassScene creates a glass sphere in front of a matte and a mirrored
// sphere over a grid floor, exercising refraction and total internal reflection
func NewGlassScene() *Scene {
	glassPhong := material.Phong{Ambient: 0.05, Diffuse: 0.1, Specular: 0.9, Shininess: 120}
	shiny := material.DefaultPhong()

	s := &Scene{
		Name:   "glass",
		Camera: CameraConfig{Origin: core.NewVec3(0, 1, -7)},
		Render: RenderConfig{
			Width:    400,
			Height:   300,
			MaxDepth: 6,
			Shadow:   "area",
		},
	}

	floor := geometry.NewPlanePrimitive(
		core.NewVec3(0, -1.5, 0), core.NewVec3(0, 1, 0),
		core.NewVec3(0.9, 0.9, 0.9),
		material.NewReflective(material.Phong{Ambient: 0.2, Diffuse: 0.7, Specular: 0.2, Shininess: 30}, 0.2),
	).WithPattern(material.Pattern{Kind: material.PatternGrid, Scale: 1.0}, nil)

	s.Add(floor).
		Add(geometry.NewSpherePrimitive(core.NewVec3(0, 0, 0), 1.0, core.NewVec3(0.9, 0.95, 1.0), material.NewRefractive(glassPhong, 1.5))).
		Add(geometry.NewSpherePrimitive(core.NewVec3(-1.5, 0, 3), 1.2, core.NewVec3(1.0, 0.3, 0.2), material.NewDiffuse(shiny))).
		Add(geometry.NewSpherePrimitive(core.NewVec3(2, 0.2, 2.5), 1.0, core.White, material.NewReflective(shiny, 0.8))).
		Add(geometry.NewSpherePrimitive(core.NewVec3(1.4, -0.9, -0.6), 0.6, core.White, material.NewReflectiveRefractive(glassPhong, 0.1, 1.33)))

	s.AddLight(core.NewVec3(4, 8, -6), 0.8).
		AddLight(core.NewVec3(-6, 6, -2), 0.3)

	return s
}
