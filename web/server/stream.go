package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/renderer"
)

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "error", "complete"
	Data string `json:"data"` // JSON-encoded data or plain message
}

// CompleteUpdate is the final event of a streamed render
type CompleteUpdate struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// handleRenderStream renders a frame while streaming the renderer's log as
// SSE console events, then sends the image in a final complete event
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	// A single goroutine owns the response writer
	sseEventChan := make(chan SSEEvent, 100)
	var writer sync.WaitGroup
	writer.Add(1)
	go func() {
		defer writer.Done()
		s.writeSSEEvents(w, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		writer.Wait()
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		sseEventChan <- SSEEvent{Type: "error", Data: fmt.Sprintf("Invalid request: %v", err)}
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		sseEventChan <- SSEEvent{Type: "error", Data: err.Error()}
		return
	}

	consoleChan, webLogger := s.setupConsoleLogging()
	var forwarder sync.WaitGroup
	forwarder.Add(1)
	go func() {
		defer forwarder.Done()
		s.streamConsoleMessages(consoleChan, sseEventChan)
	}()

	startTime := time.Now()
	raytracer, err := renderer.NewSceneRaytracer(sceneObj, renderer.Config{Width: req.Width, Height: req.Height}, webLogger)
	var update CompleteUpdate
	if err == nil {
		webLogger.Printf("Rendering %s at %dx%d\n", req.Scene, req.Width, req.Height)
		update, err = s.renderUpdate(r, raytracer, startTime)
	}

	// the renderer has returned, so nothing logs after this point
	close(consoleChan)
	forwarder.Wait()

	if err != nil {
		sseEventChan <- SSEEvent{Type: "error", Data: fmt.Sprintf("Render error: %v", err)}
		return
	}

	data, err := json.Marshal(update)
	if err != nil {
		sseEventChan <- SSEEvent{Type: "error", Data: err.Error()}
		return
	}
	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: string(data)}:
	case <-ctx.Done():
	}
}

// renderUpdate runs the render and packages the result for the client
func (s *Server) renderUpdate(r *http.Request, raytracer *renderer.Raytracer, startTime time.Time) (CompleteUpdate, error) {
	img, stats, err := raytracer.Render(r.Context())
	if err != nil {
		return CompleteUpdate{}, err
	}
	imageData, err := s.imageToBase64PNG(img)
	if err != nil {
		return CompleteUpdate{}, fmt.Errorf("failed to encode image: %w", err)
	}

	return CompleteUpdate{
		ImageData: imageData,
		Stats: Stats{
			TotalPixels: stats.TotalPixels,
			Tiles:       stats.Tiles,
			Workers:     stats.Workers,
			NonFinite:   stats.NonFinite,
			Luminance:   renderer.CalculateAverageLuminance(img),
		},
		ElapsedMs: time.Since(startTime).Milliseconds(),
	}, nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// writeSSEEvents writes events until the channel is closed. Write errors
// mean the client went away; remaining events are drained and dropped.
func (s *Server) writeSSEEvents(w http.ResponseWriter, sseEventChan <-chan SSEEvent) {
	connected := true
	for event := range sseEventChan {
		if !connected {
			continue
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
			connected = false
			continue
		}
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
	}
}

// streamConsoleMessages forwards console messages until consoleChan is closed
func (s *Server) streamConsoleMessages(consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}
		sseEventChan <- SSEEvent{Type: "console", Data: string(data)}
	}
}
