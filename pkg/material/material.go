package material

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidMaterial is returned by Validate for unusable material parameters
var ErrInvalidMaterial = errors.New("invalid material")

// Kind selects how the tracer continues a ray after local shading
type Kind int

const (
	// Diffuse surfaces only receive local Phong shading
	Diffuse Kind = iota
	// Reflective surfaces blend a mirror ray by Reflectivity
	Reflective
	// Refractive surfaces split into Fresnel-weighted reflected and refracted rays
	Refractive
	// ReflectiveRefractive is refractive glass that also carries a reflectivity
	// coefficient. The tracer treats it as Refractive; Fresnel governs the split.
	ReflectiveRefractive
)

func (k Kind) String() string {
	switch k {
	case Diffuse:
		return "diffuse"
	case Reflective:
		return "reflective"
	case Refractive:
		return "refractive"
	case ReflectiveRefractive:
		return "reflective-refractive"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Phong holds the local illumination coefficients
type Phong struct {
	Ambient   float64 // [0,1]
	Diffuse   float64 // [0,1]
	Specular  float64 // [0,1]
	Shininess float64 // >= 0
}

// DefaultPhong matches the coefficients used by the demo scenes
func DefaultPhong() Phong {
	return Phong{Ambient: 0.2, Diffuse: 0.7, Specular: 0.5, Shininess: 32}
}

// Material describes how a surface is shaded and how rays continue from it
type Material struct {
	Kind         Kind
	Phong        Phong
	Reflectivity float64 // [0,1], used by Reflective
	IOR          float64 // > 0, only consulted when the kind is refractive
}

// NewDiffuse creates a purely local (non-recursive) material
func NewDiffuse(phong Phong) Material {
	return Material{Kind: Diffuse, Phong: phong}
}

// NewReflective creates a mirror-like material blending reflection by coefficient
func NewReflective(phong Phong, reflectivity float64) Material {
	return Material{Kind: Reflective, Phong: phong, Reflectivity: reflectivity}
}

// NewRefractive creates a transparent material with the given index of refraction
func NewRefractive(phong Phong, ior float64) Material {
	return Material{Kind: Refractive, Phong: phong, IOR: ior}
}

// NewReflectiveRefractive creates a transparent material that also records a reflectivity
func NewReflectiveRefractive(phong Phong, reflectivity, ior float64) Material {
	return Material{Kind: ReflectiveRefractive, Phong: phong, Reflectivity: reflectivity, IOR: ior}
}

// FromFlags maps the flag style description (reflectivity, isRefractive, ior)
// used by scene files onto a Kind.
func FromFlags(phong Phong, reflectivity float64, isRefractive bool, ior float64) Material {
	switch {
	case isRefractive && reflectivity > 0:
		return NewReflectiveRefractive(phong, reflectivity, ior)
	case isRefractive:
		return NewRefractive(phong, ior)
	case reflectivity > 0:
		return NewReflective(phong, reflectivity)
	default:
		return NewDiffuse(phong)
	}
}

// IsRefractive reports whether the tracer spawns refracted rays from this material
func (m Material) IsRefractive() bool {
	return m.Kind == Refractive || m.Kind == ReflectiveRefractive
}

// IsReflective reports whether the tracer blends a mirror ray by Reflectivity
func (m Material) IsReflective() bool {
	return m.Kind == Reflective && m.Reflectivity > 0
}

// IsLocal reports whether shading stops after the Phong term
func (m Material) IsLocal() bool {
	return !m.IsRefractive() && !m.IsReflective()
}

// Validate checks coefficient ranges and, for refractive kinds, the IOR
func (m Material) Validate() error {
	var errs []error
	unit := func(name string, v float64) {
		if math.IsNaN(v) || v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%w: %s %g outside [0,1]", ErrInvalidMaterial, name, v))
		}
	}
	unit("ambient", m.Phong.Ambient)
	unit("diffuse", m.Phong.Diffuse)
	unit("specular", m.Phong.Specular)
	unit("reflectivity", m.Reflectivity)

	if math.IsNaN(m.Phong.Shininess) || m.Phong.Shininess < 0 || math.IsInf(m.Phong.Shininess, 0) {
		errs = append(errs, fmt.Errorf("%w: shininess %g must be finite and >= 0", ErrInvalidMaterial, m.Phong.Shininess))
	}
	if m.IsRefractive() && (!(m.IOR > 0) || math.IsInf(m.IOR, 0)) {
		errs = append(errs, fmt.Errorf("%w: %s material needs a finite ior > 0, got %g", ErrInvalidMaterial, m.Kind, m.IOR))
	}
	if m.Kind < Diffuse || m.Kind > ReflectiveRefractive {
		errs = append(errs, fmt.Errorf("%w: unknown kind %s", ErrInvalidMaterial, m.Kind))
	}
	return errors.Join(errs...)
}
