package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

func TestSphere_Intersect_NearRoot(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0)
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))

	tHit, ok := sphere.Intersect(ray)
	if !ok {
		t.Fatal("Expected hit, but got miss")
	}
	if math.Abs(tHit-4) > 1e-12 {
		t.Errorf("Expected t=4, got t=%f", tHit)
	}
}

func TestSphere_Intersect_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0)

	tests := []struct {
		name      string
		origin    core.Vec3
		direction core.Vec3
	}{
		{"aimed away", core.NewVec3(0, 0, -5), core.NewVec3(0, 0, -1)},
		{"passes beside", core.NewVec3(2, 0, -5), core.NewVec3(0, 0, 1)},
		{"perpendicular", core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0)},
		// Only the near root is used; a ray starting inside reports nothing.
		{"origin inside", core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.origin, tt.direction)
			if tHit, ok := sphere.Intersect(ray); ok {
				t.Errorf("Expected miss, but got hit at t=%f", tHit)
			}
		})
	}
}

func TestSphere_Intersect_Glancing(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0)
	ray := core.NewRay(core.NewVec3(1, 0, -2), core.NewVec3(0, 0, 1))

	tHit, ok := sphere.Intersect(ray)
	if !ok {
		t.Fatal("Expected glancing hit, but got miss")
	}

	expectedPoint := core.NewVec3(1, 0, 0)
	if ray.At(tHit).Subtract(expectedPoint).Length() > 1e-9 {
		t.Errorf("Expected hit point %v, got %v", expectedPoint, ray.At(tHit))
	}
}

func TestSphere_NormalAt_UnitLength(t *testing.T) {
	sphere := NewSphere(core.NewVec3(1, -2, 3), 2.5)

	for i := 0; i < 64; i++ {
		theta := float64(i) * 0.37
		phi := float64(i) * 0.11
		dir := core.NewVec3(math.Sin(theta)*math.Cos(phi), math.Sin(theta)*math.Sin(phi), math.Cos(theta))
		point := sphere.Center.Add(dir.Multiply(sphere.Radius))

		n := sphere.NormalAt(point)
		if math.Abs(n.Length()-1) > 1e-6 {
			t.Fatalf("Normal at %v has length %f", point, n.Length())
		}
		if n.Subtract(dir).Length() > 1e-9 {
			t.Fatalf("Expected outward normal %v, got %v", dir, n)
		}
	}
}
