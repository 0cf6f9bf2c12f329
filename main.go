package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/material"
	"github.com/df07/go-recursive-raytracer/pkg/renderer"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
)

// Config holds the command line options
type Config struct {
	SceneType   string
	Width       int
	Height      int
	MaxDepth    int
	Shadow      string
	Attenuation *bool // nil keeps the scene's setting
	Pattern     string
	Workers     int
	Strict      bool
	Output      string
	Help        bool
}

func main() {
	config := parseFlags()

	if config.Help {
		showHelp()
		return
	}

	if err := run(config, core.NewDefaultLogger()); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() Config {
	config := Config{}
	var attenuation bool
	flag.StringVar(&config.SceneType, "scene", "reflection", "Built-in scene name or path to a .toml scene file")
	flag.IntVar(&config.Width, "width", 0, "Image width (0 uses the scene's setting)")
	flag.IntVar(&config.Height, "height", 0, "Image height (0 uses the scene's setting)")
	flag.IntVar(&config.MaxDepth, "max-depth", 0, "Maximum recursion depth (0 uses the scene's setting)")
	flag.StringVar(&config.Shadow, "shadow", "", "Shadow mode: hard, soft, soft08 or area")
	flag.BoolVar(&attenuation, "attenuation", false, "Attenuate lights by distance (-attenuation=false disables it for scenes that enable it)")
	flag.StringVar(&config.Pattern, "pattern", "", "Override patterned planes: checker or grid")
	flag.IntVar(&config.Workers, "workers", 0, "Number of parallel workers (0 = auto-detect)")
	flag.BoolVar(&config.Strict, "strict", false, "Fail on NaN or infinite pixel colors")
	flag.StringVar(&config.Output, "output", "", "Output PNG path (default output/<scene>/render_<timestamp>.png)")
	flag.BoolVar(&config.Help, "help", false, "Show help information")
	flag.Parse()

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "attenuation" {
			config.Attenuation = &attenuation
		}
	})
	return config
}

func showHelp() {
	fmt.Println("Recursive Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, name := range scene.Names() {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println("  <file>.toml - load a scene file")
	fmt.Print(scene.SceneFileHelp, "\n")
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png")
}

// run renders one image according to config and writes it as PNG
func run(config Config, logger core.Logger) error {
	logger.Printf("Starting Recursive Raytracer...\n")

	sceneObj, err := createScene(config.SceneType)
	if err != nil {
		return err
	}
	if err := applyOverrides(sceneObj, config); err != nil {
		return err
	}

	raytracer, err := renderer.NewSceneRaytracer(sceneObj, renderer.Config{
		Width:        config.Width,
		Height:       config.Height,
		NumWorkers:   config.Workers,
		StrictFinite: config.Strict,
	}, logger)
	if err != nil {
		return err
	}

	rc := raytracer.Config()
	logger.Printf("Rendering %q at %dx%d (max depth %d, %s shadows)\n",
		sceneObj.Name, rc.Width, rc.Height, sceneObj.Render.MaxDepth, sceneObj.Render.Shadow)

	img, stats, err := raytracer.Render(context.Background())
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	if stats.NonFinite > 0 {
		logger.Printf("Warning: %d pixels had non-finite colors\n", stats.NonFinite)
	}
	logger.Printf("Average luminance: %.4f\n", renderer.CalculateAverageLuminance(img))

	filename := config.Output
	if filename == "" {
		filename = outputPath(sceneObj.Name, time.Now())
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("error saving PNG: %w", err)
	}

	logger.Printf("Render saved as %s\n", filename)
	return nil
}

// createScene resolves a built-in scene name or a .toml scene file
func createScene(sceneType string) (*scene.Scene, error) {
	if sceneType == "" {
		return nil, fmt.Errorf("scene type must not be empty")
	}
	s, err := scene.Resolve(sceneType)
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(sceneType), filepath.Ext(sceneType))
	}
	return s, nil
}

// applyOverrides folds command line render settings into the scene
func applyOverrides(s *scene.Scene, config Config) error {
	if config.MaxDepth < 0 {
		return fmt.Errorf("max-depth must be >= 1, got %d", config.MaxDepth)
	}
	s.Render = scene.MergeRenderConfig(scene.MergeRenderConfig(scene.DefaultRenderConfig(), s.Render), scene.RenderConfig{
		MaxDepth: config.MaxDepth,
		Shadow:   config.Shadow,
	})
	if config.Attenuation != nil {
		s.Render.Attenuation = *config.Attenuation
	}

	if config.Pattern != "" {
		kind, err := material.ParsePatternKind(config.Pattern)
		if err != nil {
			return err
		}
		s.OverridePattern(kind)
	}

	return s.Validate()
}

func outputPath(sceneName string, now time.Time) string {
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", sceneName, fmt.Sprintf("render_%s.png", timestamp))
}
