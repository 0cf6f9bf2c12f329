package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/integrator"
	"github.com/df07/go-recursive-raytracer/pkg/lights"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
	"github.com/df07/go-recursive-raytracer/pkg/shading"
)

// ErrTileBudgetExceeded is returned when a tile runs past Config.TileBudget
var ErrTileBudgetExceeded = errors.New("tile render budget exceeded")

// Config contains rendering configuration
type Config struct {
	Width        int
	Height       int
	TileSize     int           // Edge length of square tiles in pixels
	NumWorkers   int           // Concurrent tiles; 0 means runtime.NumCPU()
	StrictFinite bool          // Fail on NaN/Inf pixels instead of writing black
	TileBudget   time.Duration // Wall-clock limit per tile; 0 disables it
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:      400,
		Height:     300,
		TileSize:   32,
		NumWorkers: runtime.NumCPU(),
	}
}

// Raytracer renders a scene into an image, one tile per worker at a time
type Raytracer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	camera     *Camera
	config     Config
	logger     core.Logger
}

// NewRaytracer creates a new raytracer. Zero config fields take defaults.
func NewRaytracer(s *scene.Scene, integ integrator.Integrator, config Config, logger core.Logger) *Raytracer {
	defaults := DefaultConfig()
	if config.Width <= 0 {
		config.Width = defaults.Width
	}
	if config.Height <= 0 {
		config.Height = defaults.Height
	}
	if config.TileSize <= 0 {
		config.TileSize = defaults.TileSize
	}
	if config.NumWorkers <= 0 {
		config.NumWorkers = defaults.NumWorkers
	}
	if logger == nil {
		logger = core.NopLogger{}
	}

	return &Raytracer{
		scene:      s,
		integrator: integ,
		camera:     NewCamera(s.Camera.Origin),
		config:     config,
		logger:     logger,
	}
}

// NewSceneRaytracer wires the shadow policy, shader and integrator described
// by the scene's render settings. Width and height in config override the
// scene's recommendation when set.
func NewSceneRaytracer(s *scene.Scene, config Config, logger core.Logger) (*Raytracer, error) {
	renderConfig := scene.MergeRenderConfig(scene.DefaultRenderConfig(), s.Render)

	shadows, err := lights.NewShadowQuery(renderConfig.Shadow)
	if err != nil {
		return nil, err
	}
	shadingConfig := shading.DefaultConfig()
	shadingConfig.Attenuation = renderConfig.Attenuation
	shader := shading.NewShader(shadows, shadingConfig)

	integ := integrator.NewWhittedIntegrator(shader, integrator.Config{
		MaxDepth:   renderConfig.MaxDepth,
		InitialIOR: 1.0,
	})

	if config.Width <= 0 {
		config.Width = renderConfig.Width
	}
	if config.Height <= 0 {
		config.Height = renderConfig.Height
	}
	return NewRaytracer(s, integ, config, logger), nil
}

// Config returns the effective render configuration
func (rt *Raytracer) Config() Config {
	return rt.config
}

// TracePixel returns the primary ray and unquantized color at a sub-pixel position
func (rt *Raytracer) TracePixel(x, y float64) (core.Ray, core.Vec3) {
	ray := rt.camera.GetRayAt(x, y, rt.config.Width, rt.config.Height)
	return ray, rt.integrator.RayColor(ray, rt.scene)
}

// Render traces every pixel once. Tiles write disjoint regions of the shared
// image, so no locking is needed. The first tile error cancels the rest.
func (rt *Raytracer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	start := time.Now()
	img := image.NewRGBA(image.Rect(0, 0, rt.config.Width, rt.config.Height))
	tiles := NewTileGrid(rt.config.Width, rt.config.Height, rt.config.TileSize)

	stats := RenderStats{
		TotalPixels: rt.config.Width * rt.config.Height,
		Tiles:       len(tiles),
		Workers:     min(rt.config.NumWorkers, len(tiles)),
	}

	var nonFinite atomic.Int64
	var warnOnce sync.Once

	g, tileCtx := errgroup.WithContext(ctx)
	g.SetLimit(rt.config.NumWorkers)

	for _, tile := range tiles {
		if tileCtx.Err() != nil {
			break
		}
		tile := tile
		g.Go(func() error {
			return rt.renderTile(tileCtx, tile, img, &nonFinite, &warnOnce)
		})
	}

	err := g.Wait()
	stats.NonFinite = int(nonFinite.Load())
	stats.Duration = time.Since(start)
	if err == nil {
		// tiles skipped after cancellation report nothing
		err = ctx.Err()
	}
	if err != nil {
		return nil, stats, err
	}

	rt.logger.Printf("Rendered %dx%d in %d tiles with %d workers (%v)\n",
		rt.config.Width, rt.config.Height, stats.Tiles, stats.Workers, stats.Duration)
	return img, stats, nil
}

// renderTile renders one tile, checking for cancellation and the time budget
// between rows
func (rt *Raytracer) renderTile(ctx context.Context, tile *Tile, img *image.RGBA, nonFinite *atomic.Int64, warnOnce *sync.Once) error {
	start := time.Now()
	bounds := tile.Bounds

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if rt.config.TileBudget > 0 && time.Since(start) > rt.config.TileBudget {
			return fmt.Errorf("tile %d %v: %w", tile.ID, bounds, ErrTileBudgetExceeded)
		}

		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ray := rt.camera.GetRay(x, y, rt.config.Width, rt.config.Height)
			color := rt.integrator.RayColor(ray, rt.scene)

			if err := core.CheckFinite(color); err != nil {
				if rt.config.StrictFinite {
					return fmt.Errorf("pixel (%d, %d): %w", x, y, err)
				}
				nonFinite.Add(1)
				warnOnce.Do(func() {
					rt.logger.Printf("Warning: pixel (%d, %d): %v; writing black\n", x, y, err)
				})
				color = core.Black
			}

			img.SetRGBA(x, y, core.ToRGBA(color))
		}
	}
	return nil
}
