// Package server exposes the conversion pipeline over HTTP for previewing
// generated workouts before uploading them.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"wahoo2garmin/generator"
	"wahoo2garmin/garmin"
	"wahoo2garmin/workout"
)

// Uploader is the slice of the Garmin client the server needs; nil disables
// the upload endpoint.
type Uploader interface {
	UploadWorkout(ctx context.Context, w *workout.Workout) (string, error)
}

type Server struct {
	llm        generator.LLMClient
	uploader   Uploader
	log        *zap.SugaredLogger
	maxRetries int
	workDir    string
	store      *conversionStore
}

type conversion struct {
	ID       string
	Workout  *workout.Workout
	Artifact string
}

type conversionStore struct {
	mu          sync.Mutex
	conversions map[string]*conversion
}

func newStore() *conversionStore {
	return &conversionStore{conversions: make(map[string]*conversion)}
}

func (s *conversionStore) set(id string, c *conversion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversions[id] = c
}

func (s *conversionStore) get(id string) (*conversion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversions[id]
	return c, ok
}

func New(llm generator.LLMClient, uploader Uploader, cfg garmin.Config, log *zap.SugaredLogger) (*Server, error) {
	if llm == nil {
		return nil, errors.New("llm client required")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	workDir, err := os.MkdirTemp("", "wahoo2garmin-")
	if err != nil {
		return nil, err
	}
	return &Server{
		llm:        llm,
		uploader:   uploader,
		log:        log,
		maxRetries: cfg.MaxRetries,
		workDir:    workDir,
		store:      newStore(),
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/conversions", s.handleConvert)
	mux.HandleFunc("/api/conversions/", s.handleConversionByID)
	mux.HandleFunc("/", s.handleIndex)
	return s.logMiddleware(mux)
}

// --- Handlers ---

type convertReq struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

type conversionResp struct {
	ConversionID string         `json:"conversion_id"`
	Workout      map[string]any `json:"workout"`
	SummaryHTML  string         `json:"summary_html"`
	Artifact     string         `json:"artifact"`
}

type uploadResult struct {
	WorkoutID string `json:"workout_id"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req convertReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	sport, err := workout.ParseSport(req.Type)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := newConversionID()
	sink := generator.NewFileSink(filepath.Join(s.workDir, id+".workout"))
	conv, err := generator.NewConverter(s.llm, sink, s.log, s.maxRetries)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 120*time.Second)
	defer cancel()
	result, err := conv.ConvertWithRetry(ctx, req.Text, sport)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	artifact, err := sink.ReadArtifact()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.store.set(id, &conversion{ID: id, Workout: result, Artifact: artifact})
	s.writeConversion(w, id, result, artifact)
}

func (s *Server) handleConversionByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/conversions/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		http.NotFound(w, r)
		return
	}
	c, ok := s.store.get(id)
	if !ok {
		http.Error(w, "conversion not found", http.StatusNotFound)
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		s.writeConversion(w, c.ID, c.Workout, c.Artifact)
	case action == "upload" && r.Method == http.MethodPost:
		if s.uploader == nil {
			http.Error(w, "upload not configured", http.StatusServiceUnavailable)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
		defer cancel()
		workoutID, err := s.uploader.UploadWorkout(ctx, c.Workout)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		writeJSON(w, uploadResult{WorkoutID: workoutID})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

func (s *Server) writeConversion(w http.ResponseWriter, id string, result *workout.Workout, artifact string) {
	html, err := renderSummary(result)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, conversionResp{
		ConversionID: id,
		Workout:      result.ToMap(),
		SummaryHTML:  html,
		Artifact:     artifact,
	})
}

// --- Helpers ---

func renderSummary(w *workout.Workout) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(w.Summary()), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func newConversionID() string {
	return strings.ReplaceAll(time.Now().Format("20060102T150405.000000000"), ".", "")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debugw("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

const indexHTML = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>wahoo2garmin</title></head>
<body>
<h1>wahoo2garmin</h1>
<p>POST workout text to <code>/api/conversions</code> as
<code>{"text": "...", "type": "swimming"}</code> (type optional) to preview
the converted workout, then <code>POST /api/conversions/{id}/upload</code>
to send it to Garmin Connect.</p>
</body>
</html>
`
