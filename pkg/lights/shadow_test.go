package lights

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/material"
)

// primitiveList implements Occluder over a plain slice
type primitiveList []geometry.Primitive

func (p primitiveList) ClosestHit(ray core.Ray) (geometry.Intersection, bool) {
	return geometry.ClosestHit(ray, p)
}

var matte = material.NewDiffuse(material.DefaultPhong())

func occluderAt(z float64) primitiveList {
	return primitiveList{
		geometry.NewSpherePrimitive(core.NewVec3(0, 0, z), 0.5, core.White, matte),
	}
}

var (
	shadePoint = core.NewVec3(0, 0, 0)
	upNormal   = core.NewVec3(0, 0, 1)
	lightPos   = core.NewVec3(0, 0, 10)
)

func TestHardShadow(t *testing.T) {
	if f := (HardShadow{}).Factor(shadePoint, upNormal, lightPos, primitiveList{}); f != 1 {
		t.Errorf("Expected fully lit in an empty scene, got %f", f)
	}
	if f := (HardShadow{}).Factor(shadePoint, upNormal, lightPos, occluderAt(5)); f != 0 {
		t.Errorf("Expected fully shadowed behind an occluder, got %f", f)
	}
	// occluder beyond the light does not count
	if f := (HardShadow{}).Factor(shadePoint, upNormal, lightPos, occluderAt(20)); f != 1 {
		t.Errorf("Expected occluder behind the light to be ignored, got %f", f)
	}
}

func TestSoftShadow_MatchesFormula(t *testing.T) {
	soft := SoftShadow{Softness: 1}
	f := soft.Factor(shadePoint, upNormal, lightPos, occluderAt(5))

	// shadow ray starts at z=1e-3 and hits the sphere surface at z=4.5
	hitDist := 4.5 - ShadowBias
	want := 1 - hitDist/10
	if math.Abs(f-want) > 1e-9 {
		t.Errorf("Expected soft factor %f, got %f", want, f)
	}

	lighter := SoftShadow{Softness: 0.8}.Factor(shadePoint, upNormal, lightPos, occluderAt(5))
	if lighter <= f {
		t.Errorf("Expected 0.8 variant to be lighter: %f vs %f", lighter, f)
	}
}

func TestSoftShadow_Monotonic(t *testing.T) {
	soft := SoftShadow{Softness: 1}
	prev := -1.0
	// sweeping the occluder from the point toward the light only darkens
	for z := 1.0; z <= 9.0; z += 0.5 {
		f := soft.Factor(shadePoint, upNormal, lightPos, occluderAt(z))
		if f < 0 || f > 1 {
			t.Fatalf("Shadow factor %f outside [0,1]", f)
		}
		if prev >= 0 && f > prev+1e-12 {
			t.Fatalf("Shadow factor increased from %f to %f as occluder distance grew", prev, f)
		}
		prev = f
	}
}

func TestSoftFactor_Clamped(t *testing.T) {
	if f := SoftFactor(20, 10, 1); f != 0 {
		t.Errorf("Expected clamp to 0, got %f", f)
	}
	if f := SoftFactor(-1, 10, 1); f != 1 {
		t.Errorf("Expected clamp to 1, got %f", f)
	}
}

func TestAreaShadow(t *testing.T) {
	area := NewAreaShadow()

	if f := area.Factor(shadePoint, upNormal, lightPos, primitiveList{}); f != 1 {
		t.Errorf("Expected fully lit in an empty scene, got %f", f)
	}

	occ := occluderAt(5)
	f := area.Factor(shadePoint, upNormal, lightPos, occ)
	if f < 0 || f > 1 {
		t.Fatalf("Area shadow factor %f outside [0,1]", f)
	}

	// at distance 10 the distance factor is 1, leaving only the base term
	base := area.Base.Factor(shadePoint, upNormal, lightPos, occ)
	if math.Abs(f-base*0.7) > 1e-12 {
		t.Errorf("Expected %f, got %f", base*0.7, f)
	}

	near := core.NewVec3(0, 0, 4)
	fNear := area.Factor(shadePoint, upNormal, near, occluderAt(2))
	baseNear := area.Base.Factor(shadePoint, upNormal, near, occluderAt(2))
	if fNear <= baseNear*0.7 {
		t.Errorf("Expected the area term to contribute for a close light: %f <= %f", fNear, baseNear*0.7)
	}
}

func TestNewShadowQuery(t *testing.T) {
	for _, mode := range []string{"", "hard", "soft", "soft08", "area"} {
		if q, err := NewShadowQuery(mode); err != nil || q == nil {
			t.Errorf("NewShadowQuery(%q) = %v, %v", mode, q, err)
		}
	}
	if _, err := NewShadowQuery("raytraced"); err == nil {
		t.Error("Expected error for unknown shadow mode")
	}
}

func TestPointLight_Validate(t *testing.T) {
	if err := NewPointLight(core.NewVec3(5, 10, 5), 0.7).Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := NewPointLight(core.NewVec3(5, 10, 5), -1).Validate(); !errors.Is(err, ErrInvalidLight) {
		t.Errorf("Expected ErrInvalidLight, got %v", err)
	}
	if err := NewPointLight(core.NewVec3(math.NaN(), 0, 0), 1).Validate(); !errors.Is(err, ErrInvalidLight) {
		t.Errorf("Expected ErrInvalidLight, got %v", err)
	}
}
