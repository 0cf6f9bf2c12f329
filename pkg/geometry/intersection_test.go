package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/material"
)

var matte = material.NewDiffuse(material.DefaultPhong())

func TestClosestHit_PicksNearest(t *testing.T) {
	prims := []Primitive{
		NewSpherePrimitive(core.NewVec3(0, 0, 10), 1, core.White, matte),
		NewSpherePrimitive(core.NewVec3(0, 0, 4), 1, core.White, matte),
		NewPlanePrimitive(core.NewVec3(0, 0, 20), core.NewVec3(0, 0, -1), core.White, matte),
	}
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))

	hit, ok := ClosestHit(ray, prims)
	if !ok {
		t.Fatal("Expected hit, but got miss")
	}
	if hit.Index != 1 || hit.Primitive != &prims[1] {
		t.Errorf("Expected nearest primitive 1, got %d", hit.Index)
	}
	if math.Abs(hit.Distance-3) > 1e-12 {
		t.Errorf("Expected distance 3, got %f", hit.Distance)
	}
	if hit.Point.Subtract(core.NewVec3(0, 0, 3)).Length() > 1e-12 {
		t.Errorf("Expected point (0,0,3), got %v", hit.Point)
	}
	if hit.Normal.Subtract(core.NewVec3(0, 0, -1)).Length() > 1e-12 {
		t.Errorf("Expected normal (0,0,-1), got %v", hit.Normal)
	}
}

func TestClosestHit_TieKeepsSceneOrder(t *testing.T) {
	prims := []Primitive{
		NewPlanePrimitive(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 0), matte),
		NewPlanePrimitive(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1), core.NewVec3(0, 1, 0), matte),
	}
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))

	hit, ok := ClosestHit(ray, prims)
	if !ok {
		t.Fatal("Expected hit, but got miss")
	}
	if hit.Index != 0 {
		t.Errorf("Expected the first primitive to win an exact tie, got %d", hit.Index)
	}
}

func TestClosestHit_None(t *testing.T) {
	prims := []Primitive{
		NewSpherePrimitive(core.NewVec3(0, 0, -10), 1, core.White, matte),
	}
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))

	if _, ok := ClosestHit(ray, prims); ok {
		t.Error("Expected no intersection")
	}
	if _, ok := ClosestHit(ray, nil); ok {
		t.Error("Expected no intersection against an empty scene")
	}
}

func TestClosestHit_NormalsAreUnit(t *testing.T) {
	prims := []Primitive{
		NewSpherePrimitive(core.NewVec3(0, 0, 6), 2, core.White, matte),
		NewPlanePrimitive(core.NewVec3(0, -2, 0), core.NewVec3(0, 3, 0), core.White, matte),
	}
	origin := core.NewVec3(0, 1, -3)

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			dir := core.NewVec3(float64(x)/8-1, 1-float64(y)/8, 1).Normalize()
			hit, ok := ClosestHit(core.NewRay(origin, dir), prims)
			if !ok {
				continue
			}
			if hit.Distance <= 0 {
				t.Fatalf("Expected positive distance, got %f", hit.Distance)
			}
			if math.Abs(hit.Normal.Length()-1) > 1e-6 {
				t.Fatalf("Expected unit normal, got length %f", hit.Normal.Length())
			}
		}
	}
}

func TestPrimitive_Validate(t *testing.T) {
	glass := material.NewRefractive(material.DefaultPhong(), 0)

	tests := []struct {
		name    string
		prim    Primitive
		wantErr error
	}{
		{"valid sphere", NewSpherePrimitive(core.NewVec3(0, 0, 0), 1, core.White, matte), nil},
		{"zero radius", NewSpherePrimitive(core.NewVec3(0, 0, 0), 0, core.White, matte), ErrInvalidPrimitive},
		{"zero normal", NewPlanePrimitive(core.NewVec3(0, 0, 0), core.Vec3{}, core.White, matte), ErrInvalidPrimitive},
		{"bad material", NewSpherePrimitive(core.NewVec3(0, 0, 0), 1, core.White, glass), material.ErrInvalidMaterial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.prim.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
