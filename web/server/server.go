// Package server exposes the progressive renderer over HTTP. Renders stream
// to the client as Server-Sent Events, one event per refinement pass, so the
// preview sharpens live while parameters are adjusted.
package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/skysim/go-geodesic-raytracer/pkg/geodesic"
	"github.com/skysim/go-geodesic-raytracer/pkg/log"
	"github.com/skysim/go-geodesic-raytracer/pkg/metric"
	"github.com/skysim/go-geodesic-raytracer/pkg/renderer"
	"github.com/skysim/go-geodesic-raytracer/pkg/scene"
)

var logger = log.New("server")

// Server handles web requests for the progressive renderer
type Server struct {
	port      int
	staticDir string
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{port: port, staticDir: "static/"}
}

// RenderRequest represents a render request from the client. Each request is
// a complete parameter snapshot: the scene it builds is immutable for the
// duration of the render, so parameter changes mid-render simply start a new
// request.
type RenderRequest struct {
	Scene    string  `json:"scene"`    // Preset ID (e.g. "default")
	Mass     float64 `json:"mass"`     // Black hole mass
	Spin     float64 `json:"spin"`     // Dimensionless spin
	Quality  string  `json:"quality"`  // "fast" or "accurate"
	MaxSteps int     `json:"maxSteps"` // Integration step budget per ray
	Width    int     `json:"width"`    // Image width
	Height   int     `json:"height"`   // Image height
	Passes   int     `json:"passes"`   // Progressive refinement passes
	Disk     bool    `json:"disk"`     // Render the accretion disk
}

// ProgressUpdate represents a single progressive update sent via SSE
type ProgressUpdate struct {
	PassNumber  int    `json:"passNumber"`
	TotalPasses int    `json:"totalPasses"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG
	Stats       Stats  `json:"stats"`
	IsComplete  bool   `json:"isComplete"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalRays       int     `json:"totalRays"`
	Captured        int     `json:"captured"`
	Escaped         int     `json:"escaped"`
	BudgetExhausted int     `json:"budgetExhausted"`
	AverageSteps    float64 `json:"averageSteps"`
	MaxStepsUsed    int     `json:"maxStepsUsed"`
}

// Start starts the web server
func (s *Server) Start() error {
	mux := s.Handler()
	addr := fmt.Sprintf(":%d", s.port)
	logger.Noticef("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, mux)
}

// Handler builds the route table, exposed separately for tests.
func (s *Server) Handler() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	return mux
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScenes lists the available scene presets
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"scenes": scene.ListScenes()})
}

// handleRender handles progressive rendering requests with SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, err := s.buildScene(req)
	if err != nil {
		s.sendSSEError(w, err.Error())
		return
	}

	raytracer, err := renderer.NewProgressiveRaytracer(sceneObj, renderer.ProgressiveConfig{
		TileSize:  64,
		MaxPasses: req.Passes,
	}, logger)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Failed to build renderer: %v", err))
		return
	}

	// Use request context to detect client disconnection
	ctx := r.Context()
	startTime := time.Now()

	passChan, errChan := raytracer.RenderProgressive(ctx)
	for result := range passChan {
		imageData, err := s.imageToBase64PNG(result.Image)
		if err != nil {
			s.sendSSEError(w, fmt.Sprintf("Failed to encode image: %v", err))
			return
		}

		update := ProgressUpdate{
			PassNumber:  result.PassNumber,
			TotalPasses: req.Passes,
			ImageData:   imageData,
			Stats: Stats{
				TotalRays:       result.Stats.TotalRays,
				Captured:        result.Stats.Captured,
				Escaped:         result.Stats.Escaped,
				BudgetExhausted: result.Stats.BudgetExhausted,
				AverageSteps:    result.Stats.AverageSteps,
				MaxStepsUsed:    result.Stats.MaxStepsUsed,
			},
			IsComplete: result.IsLast,
			ElapsedMs:  time.Since(startTime).Milliseconds(),
		}

		if err := s.sendSSEUpdate(w, update); err != nil {
			return
		}
	}

	if err := <-errChan; err != nil {
		s.sendSSEError(w, fmt.Sprintf("Render error: %v", err))
		return
	}

	s.sendSSEEvent(w, "complete", "Rendering completed")
}

// buildScene creates the immutable scene snapshot for a request.
func (s *Server) buildScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := scene.CreateScene(req.Scene, scene.CameraConfig{
		Width:       req.Width,
		AspectRatio: float64(req.Width) / float64(req.Height),
	})
	if err != nil {
		return nil, err
	}

	sceneObj.BlackHole = metric.NewBlackHole(req.Mass, req.Spin)
	sceneObj.Disk = scene.NewDiskConfig(sceneObj.BlackHole)
	sceneObj.Disk.Enabled = req.Disk

	quality := geodesic.Fast
	if strings.ToLower(req.Quality) == "accurate" {
		quality = geodesic.Accurate
	}
	sceneObj.Render = scene.RenderConfig{
		Quality:  quality,
		MaxSteps: req.MaxSteps,
		Passes:   req.Passes,
	}
	return sceneObj, nil
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}
	query := r.URL.Query()

	req.Scene = query.Get("scene")
	if req.Scene == "" {
		req.Scene = "default"
	}

	req.Quality = query.Get("quality")
	if req.Quality == "" {
		req.Quality = "fast"
	}
	switch strings.ToLower(req.Quality) {
	case "fast", "accurate":
	default:
		return nil, fmt.Errorf("quality must be fast or accurate, got: %s", req.Quality)
	}

	var err error
	if req.Mass, err = parseFloatParam(query, "mass", 1.0, 0.1, 5.0); err != nil {
		return nil, err
	}
	if req.Spin, err = parseFloatParam(query, "spin", 0.7, -1.0, 1.0); err != nil {
		return nil, err
	}
	if req.MaxSteps, err = parseIntParam(query, "maxSteps", 450, 50, 1000); err != nil {
		return nil, err
	}
	if req.Width, err = parseIntParam(query, "width", 800, 100, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 450, 100, 2000); err != nil {
		return nil, err
	}
	if req.Passes, err = parseIntParam(query, "passes", 4, 1, 16); err != nil {
		return nil, err
	}

	req.Disk = query.Get("disk") != "false"

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
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// sendSSEUpdate sends a progress update via SSE
func (s *Server) sendSSEUpdate(w http.ResponseWriter, update ProgressUpdate) error {
	data, err := json.Marshal(update)
	if err != nil {
		return err
	}
	return s.sendSSEEvent(w, "progress", string(data))
}

// sendSSEError sends an error via SSE
func (s *Server) sendSSEError(w http.ResponseWriter, message string) error {
	return s.sendSSEEvent(w, "error", message)
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if flusher, ok := w.(http.Flusher); ok {
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
		return nil
	}
	return fmt.Errorf("streaming not supported")
}

// handleSceneConfig returns the default parameters and their limits, used by
// the UI to build its sliders.
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	response := map[string]interface{}{
		"defaults": map[string]interface{}{
			"mass":     1.0,
			"spin":     0.7,
			"quality":  "fast",
			"maxSteps": 450,
			"passes":   4,
			"disk":     true,
		},
		"limits": map[string]interface{}{
			"mass":     map[string]float64{"min": 0.1, "max": 5.0},
			"spin":     map[string]float64{"min": -1.0, "max": 1.0},
			"maxSteps": map[string]int{"min": 50, "max": 1000},
			"width":    map[string]int{"min": 100, "max": 2000},
			"height":   map[string]int{"min": 100, "max": 2000},
			"passes":   map[string]int{"min": 1, "max": 16},
		},
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
