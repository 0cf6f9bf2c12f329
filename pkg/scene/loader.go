package scene

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/material"
)

const SceneFileHelp = `
Scene files are TOML. Objects are tested in file order, which only matters
when two objects are hit at exactly the same distance.

  name = "demo"

  [camera]
    origin = [0, 1, -6]

  [render]            # all optional
    width = 400
    height = 300
    max_depth = 5
    shadow = "soft"   # hard, soft, soft08, area
    attenuation = false

  [[light]]
    position = [5, 10, -5]
    intensity = 0.7

  [[object]]
    type = "sphere"
    center = [0, 0, 0]
    radius = 1.0
    color = [1.0, 0.2, 0.2]
    [object.material]
      ambient = 0.2
      diffuse = 0.7
      specular = 0.5
      shininess = 32
      reflectivity = 0.3
      refractive = false
      ior = 1.5

  [[object]]
    type = "plane"
    point = [0, -2, 0]
    normal = [0, 1, 0]
    color = [0.8, 0.8, 0.8]
    alt_color = [0.3, 0.3, 0.3]
    pattern = "grid"      # none, checker, grid
    pattern_scale = 2.0
`

type sceneFile struct {
	Name    string       `toml:"name"`
	Camera  cameraFile   `toml:"camera"`
	Render  renderFile   `toml:"render"`
	Lights  []lightFile  `toml:"light"`
	Objects []objectFile `toml:"object"`
}

type cameraFile struct {
	Origin []float64 `toml:"origin"`
}

type renderFile struct {
	Width       int    `toml:"width,omitempty"`
	Height      int    `toml:"height,omitempty"`
	MaxDepth    int    `toml:"max_depth,omitempty"`
	Shadow      string `toml:"shadow,omitempty"`
	Attenuation bool   `toml:"attenuation"`
}

type lightFile struct {
	Position  []float64 `toml:"position"`
	Intensity float64   `toml:"intensity"`
}

type objectFile struct {
	Type         string       `toml:"type"`
	Center       []float64    `toml:"center,omitempty"`
	Radius       float64      `toml:"radius,omitempty"`
	Point        []float64    `toml:"point,omitempty"`
	Normal       []float64    `toml:"normal,omitempty"`
	Color        []float64    `toml:"color"`
	AltColor     []float64    `toml:"alt_color,omitempty"`
	Pattern      string       `toml:"pattern,omitempty"`
	PatternScale float64      `toml:"pattern_scale,omitempty"`
	Material     materialFile `toml:"material"`
}

type materialFile struct {
	Ambient      float64 `toml:"ambient"`
	Diffuse      float64 `toml:"diffuse"`
	Specular     float64 `toml:"specular"`
	Shininess    float64 `toml:"shininess"`
	Reflectivity float64 `toml:"reflectivity"`
	Refractive   bool    `toml:"refractive"`
	IOR          float64 `toml:"ior,omitempty"`
}

// LoadFile reads and validates a TOML scene file. The scene is named after
// the file when the file does not set a name.
func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Load decodes and validates a TOML scene description
func Load(r io.Reader) (*Scene, error) {
	var file sceneFile
	md, err := toml.NewDecoder(r).Decode(&file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown scene keys: %s", strings.Join(keys, ", "))
	}

	s, err := file.build()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (f sceneFile) build() (*Scene, error) {
	var errs []error
	vec := func(field string, v []float64) core.Vec3 {
		if len(v) != 3 {
			errs = append(errs, fmt.Errorf("%s: expected 3 components, got %d", field, len(v)))
			return core.Vec3{}
		}
		return core.NewVec3(v[0], v[1], v[2])
	}

	s := &Scene{
		Name: f.Name,
		Render: MergeRenderConfig(DefaultRenderConfig(), RenderConfig{
			Width:       f.Render.Width,
			Height:      f.Render.Height,
			MaxDepth:    f.Render.MaxDepth,
			Shadow:      f.Render.Shadow,
			Attenuation: f.Render.Attenuation,
		}),
	}
	if f.Camera.Origin != nil {
		s.Camera.Origin = vec("camera.origin", f.Camera.Origin)
	}

	for i, l := range f.Lights {
		s.AddLight(vec(fmt.Sprintf("light[%d].position", i), l.Position), l.Intensity)
	}

	for i, o := range f.Objects {
		field := func(name string) string { return fmt.Sprintf("object[%d].%s", i, name) }

		m := o.Material
		mat := material.FromFlags(material.Phong{
			Ambient:   m.Ambient,
			Diffuse:   m.Diffuse,
			Specular:  m.Specular,
			Shininess: m.Shininess,
		}, m.Reflectivity, m.Refractive, m.IOR)
		color := vec(field("color"), o.Color)

		var prim geometry.Primitive
		switch o.Type {
		case "sphere":
			prim = geometry.NewSpherePrimitive(vec(field("center"), o.Center), o.Radius, color, mat)
		case "plane":
			prim = geometry.NewPlanePrimitive(vec(field("point"), o.Point), vec(field("normal"), o.Normal), color, mat)
		default:
			errs = append(errs, fmt.Errorf("%s: %w: unknown type %q", field("type"), geometry.ErrInvalidPrimitive, o.Type))
			continue
		}

		kind, err := material.ParsePatternKind(o.Pattern)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field("pattern"), err))
		}
		var alt *core.Vec3
		if o.AltColor != nil {
			c := vec(field("alt_color"), o.AltColor)
			alt = &c
		}
		s.Add(prim.WithPattern(material.Pattern{Kind: kind, Scale: o.PatternScale}, alt))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return s, nil
}

// Encode writes s as a TOML scene file that Load reads back
func Encode(w io.Writer, s *Scene) error {
	file := sceneFile{
		Name:   s.Name,
		Camera: cameraFile{Origin: floats(s.Camera.Origin)},
		Render: renderFile{
			Width:       s.Render.Width,
			Height:      s.Render.Height,
			MaxDepth:    s.Render.MaxDepth,
			Shadow:      s.Render.Shadow,
			Attenuation: s.Render.Attenuation,
		},
	}
	for _, l := range s.Lights {
		file.Lights = append(file.Lights, lightFile{Position: floats(l.Position), Intensity: l.Intensity})
	}
	for _, p := range s.Primitives {
		o := objectFile{
			Type:         p.Kind.String(),
			Color:        floats(p.Color),
			Pattern:      p.Pattern.Kind.String(),
			PatternScale: p.Pattern.Scale,
			Material: materialFile{
				Ambient:      p.Material.Phong.Ambient,
				Diffuse:      p.Material.Phong.Diffuse,
				Specular:     p.Material.Phong.Specular,
				Shininess:    p.Material.Phong.Shininess,
				Reflectivity: p.Material.Reflectivity,
				Refractive:   p.Material.IsRefractive(),
				IOR:          p.Material.IOR,
			},
		}
		if p.AltColor != nil {
			o.AltColor = floats(*p.AltColor)
		}
		switch p.Kind {
		case geometry.KindSphere:
			o.Center = floats(p.Sphere.Center)
			o.Radius = p.Sphere.Radius
		case geometry.KindPlane:
			o.Point = floats(p.Plane.Point)
			o.Normal = floats(p.Plane.Normal)
		}
		file.Objects = append(file.Objects, o)
	}

	if err := toml.NewEncoder(w).Encode(file); err != nil {
		return fmt.Errorf("failed to encode scene: %w", err)
	}
	return nil
}

func floats(v core.Vec3) []float64 {
	return []float64{v.X, v.Y, v.Z}
}

// Resolve returns a built-in scene by name, or loads a .toml file by path
func Resolve(nameOrPath string) (*Scene, error) {
	if strings.HasSuffix(nameOrPath, ".toml") {
		return LoadFile(nameOrPath)
	}
	return Lookup(nameOrPath)
}
