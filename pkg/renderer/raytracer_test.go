package renderer

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
)

// constantIntegrator returns the same color for every ray
type constantIntegrator struct {
	color core.Vec3
	delay time.Duration
}

func (c constantIntegrator) RayColor(ray core.Ray, s *scene.Scene) core.Vec3 {
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	return c.color
}

func TestRender_ParallelMatchesSerial(t *testing.T) {
	for _, name := range scene.Names() {
		t.Run(name, func(t *testing.T) {
			s, err := scene.Lookup(name)
			if err != nil {
				t.Fatal(err)
			}

			serial, err := NewSceneRaytracer(s, Config{Width: 48, Height: 36, TileSize: 48, NumWorkers: 1}, nil)
			if err != nil {
				t.Fatal(err)
			}
			parallel, err := NewSceneRaytracer(s, Config{Width: 48, Height: 36, TileSize: 7, NumWorkers: 8}, nil)
			if err != nil {
				t.Fatal(err)
			}

			a, _, err := serial.Render(context.Background())
			if err != nil {
				t.Fatalf("Serial render failed: %v", err)
			}
			b, stats, err := parallel.Render(context.Background())
			if err != nil {
				t.Fatalf("Parallel render failed: %v", err)
			}

			if !bytes.Equal(a.Pix, b.Pix) {
				t.Error("Expected parallel render to match serial render exactly")
			}
			if stats.TotalPixels != 48*36 {
				t.Errorf("Expected %d pixels, got %d", 48*36, stats.TotalPixels)
			}
			if stats.Tiles != 7*6 {
				t.Errorf("Expected 42 tiles, got %d", stats.Tiles)
			}
		})
	}
}

func TestRender_ProducesImage(t *testing.T) {
	rt, err := NewSceneRaytracer(scene.NewReflectionScene(), Config{Width: 40, Height: 30}, nil)
	if err != nil {
		t.Fatal(err)
	}
	img, _, err := rt.Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 30 {
		t.Fatalf("Unexpected image size %v", img.Bounds())
	}
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 255 {
			t.Fatalf("Expected opaque alpha, got %d at byte %d", img.Pix[i], i)
		}
	}
	lum := CalculateAverageLuminance(img)
	if lum <= 0 || lum >= 1 {
		t.Errorf("Expected a partially lit image, got average luminance %f", lum)
	}
}

func TestRender_NonFinite(t *testing.T) {
	s := &scene.Scene{}
	nan := constantIntegrator{color: core.NewVec3(math.NaN(), 0, 0)}

	lenient := NewRaytracer(s, nan, Config{Width: 4, Height: 4, TileSize: 2}, nil)
	img, stats, err := lenient.Render(context.Background())
	if err != nil {
		t.Fatalf("Expected lenient render to succeed, got %v", err)
	}
	if stats.NonFinite != 16 {
		t.Errorf("Expected 16 non-finite pixels, got %d", stats.NonFinite)
	}
	if c := img.RGBAAt(1, 1); c.R != 0 || c.G != 0 || c.B != 0 || c.A != 255 {
		t.Errorf("Expected opaque black, got %v", c)
	}

	strict := NewRaytracer(s, nan, Config{Width: 4, Height: 4, TileSize: 2, StrictFinite: true}, nil)
	if _, _, err := strict.Render(context.Background()); !errors.Is(err, core.ErrNonFiniteColor) {
		t.Errorf("Expected ErrNonFiniteColor, got %v", err)
	}
}

func TestRender_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rt := NewRaytracer(&scene.Scene{}, constantIntegrator{color: core.White}, Config{Width: 8, Height: 8}, nil)
	if _, _, err := rt.Render(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestRender_TileBudget(t *testing.T) {
	slow := constantIntegrator{color: core.White, delay: 2 * time.Millisecond}
	rt := NewRaytracer(&scene.Scene{}, slow, Config{Width: 4, Height: 4, TileSize: 4, NumWorkers: 1, TileBudget: time.Millisecond}, nil)

	if _, _, err := rt.Render(context.Background()); !errors.Is(err, ErrTileBudgetExceeded) {
		t.Errorf("Expected ErrTileBudgetExceeded, got %v", err)
	}
}

func TestNewSceneRaytracer(t *testing.T) {
	s := scene.NewReflectionScene()
	rt, err := NewSceneRaytracer(s, Config{}, core.NopLogger{})
	if err != nil {
		t.Fatal(err)
	}
	if rt.Config().Width != s.Render.Width || rt.Config().Height != s.Render.Height {
		t.Errorf("Expected scene size %dx%d, got %dx%d", s.Render.Width, s.Render.Height, rt.Config().Width, rt.Config().Height)
	}

	s.Render.Shadow = "fuzzy"
	if _, err := NewSceneRaytracer(s, Config{}, nil); err == nil {
		t.Error("Expected error for unknown shadow mode")
	}
}

func TestTracePixel_MatchesRender(t *testing.T) {
	rt, err := NewSceneRaytracer(scene.NewPlaneScene(), Config{Width: 20, Height: 16}, nil)
	if err != nil {
		t.Fatal(err)
	}
	img, _, err := rt.Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	for _, p := range [][2]int{{0, 0}, {10, 8}, {19, 15}, {3, 12}} {
		ray, color := rt.TracePixel(float64(p[0]), float64(p[1]))
		if ray.Origin != scene.NewPlaneScene().Camera.Origin {
			t.Errorf("Expected ray from camera origin, got %v", ray.Origin)
		}
		if got, want := img.RGBAAt(p[0], p[1]), core.ToRGBA(color); got != want {
			t.Errorf("Pixel %v: rendered %v, traced %v", p, got, want)
		}
	}
}
