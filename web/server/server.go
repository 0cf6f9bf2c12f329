package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/material"
	"github.com/df07/go-recursive-raytracer/pkg/renderer"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
)

// Request limits shared by the render and inspect endpoints
const (
	minSize     = 16
	maxSize     = 2000
	maxMaxDepth = 20
)

// Server handles web requests for the recursive raytracer
type Server struct {
	port int
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{port: port}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene       string `json:"scene"`       // Built-in scene name
	Width       int    `json:"width"`       // Image width
	Height      int    `json:"height"`      // Image height
	MaxDepth    int    `json:"maxDepth"`    // Recursion limit
	Shadow      string `json:"shadow"`      // hard, soft, soft08 or area
	Attenuation *bool  `json:"attenuation"` // Distance attenuation of lights, nil keeps the scene's
	Pattern     string `json:"pattern"`     // Optional plane pattern override
}

// Stats represents render statistics
type Stats struct {
	TotalPixels int     `json:"totalPixels"`
	Tiles       int     `json:"tiles"`
	Workers     int     `json:"workers"`
	NonFinite   int     `json:"nonFinite"`
	Luminance   float64 `json:"averageLuminance"`
}

// Handler returns the server's routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir("static/")))

	// API endpoints
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/render-stream", s.handleRenderStream)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string][]string{"scenes": scene.Names()})
}

// handleRender renders a single frame and returns it as PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	raytracer, err := renderer.NewSceneRaytracer(sceneObj, renderer.Config{Width: req.Width, Height: req.Height}, core.NopLogger{})
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	startTime := time.Now()
	img, stats, err := raytracer.Render(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Render error: %v", err))
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode image: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Ms", strconv.FormatInt(time.Since(startTime).Milliseconds(), 10))
	w.Header().Set("X-Render-Tiles", strconv.Itoa(stats.Tiles))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{}

	if sceneName := query.Get("scene"); sceneName != "" {
		req.Scene = sceneName
	} else {
		req.Scene = "reflection" // Default scene
	}

	// Parse and validate all parameters using helper functions
	var err error
	if req.Width, err = parseIntParam(query, "width", 400, minSize, maxSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 300, minSize, maxSize); err != nil {
		return nil, err
	}
	// 0 keeps the scene's own setting
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", 0, 1, maxMaxDepth); err != nil {
		return nil, err
	}
	if query.Has("attenuation") {
		attenuation, err := parseBoolParam(query, "attenuation", false)
		if err != nil {
			return nil, err
		}
		req.Attenuation = &attenuation
	}

	req.Shadow = query.Get("shadow")
	switch req.Shadow {
	case "", "hard", "soft", "soft08", "area":
	default:
		return nil, fmt.Errorf("shadow must be one of hard, soft, soft08, area, got: %s", req.Shadow)
	}

	req.Pattern = query.Get("pattern")
	if _, err := material.ParsePatternKind(req.Pattern); err != nil {
		return nil, err
	}

	// Performance warning
	if req.Width*req.Height > 800*600 && req.MaxDepth > 10 {
		log.Printf("Render warning: Large image with deep recursion may render slowly")
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %f and %f, got: %f", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses a boolean parameter from URL query
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene builds the requested built-in scene with the request's render
// overrides applied. Scene files are not reachable over HTTP.
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := scene.Lookup(req.Scene)
	if err != nil {
		return nil, err
	}

	sceneObj.Render = scene.MergeRenderConfig(scene.MergeRenderConfig(scene.DefaultRenderConfig(), sceneObj.Render), scene.RenderConfig{
		MaxDepth: req.MaxDepth,
		Shadow:   req.Shadow,
	})
	if req.Attenuation != nil {
		sceneObj.Render.Attenuation = *req.Attenuation
	}
	if req.Pattern != "" {
		kind, err := material.ParsePatternKind(req.Pattern)
		if err != nil {
			return nil, err
		}
		sceneObj.OverridePattern(kind)
	}
	return sceneObj, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "reflection" // Default scene
	}

	sceneObj, err := scene.Lookup(sceneName)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	config := scene.MergeRenderConfig(scene.DefaultRenderConfig(), sceneObj.Render)
	response := map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":       config.Width,
			"height":      config.Height,
			"maxDepth":    config.MaxDepth,
			"shadow":      config.Shadow,
			"attenuation": config.Attenuation,
		},
		"limits": map[string]interface{}{
			"width": map[string]int{
				"min": minSize,
				"max": maxSize,
			},
			"height": map[string]int{
				"min": minSize,
				"max": maxSize,
			},
			"maxDepth": map[string]int{
				"min": 1,
				"max": maxMaxDepth,
			},
		},
		"primitives": sceneObj.GetPrimitiveCount(),
		"lights":     len(sceneObj.Lights),
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// writeJSONError writes {"error": message} with the given status
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
