package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/aria"
	"github.com/aretw0/aria/internal/logging"
	"github.com/aretw0/aria/internal/presentation/graph"
	"github.com/aretw0/aria/pkg/domain"
	"github.com/aretw0/aria/pkg/history"
	"github.com/aretw0/aria/pkg/runner"
	"github.com/aretw0/aria/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxInputSize bounds the body of a command submission.
const MaxInputSize = 4096

// Server exposes the consoles of a session.Manager over HTTP.
type Server struct {
	Sessions *session.Manager
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithGatherer serves /metrics from g. Without it /metrics is not mounted.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// WithLogger configures request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// CommandRequest is the body of POST /sessions/{id}/commands.
type CommandRequest struct {
	Input string `json:"input"`
}

// SessionResponse describes one session.
type SessionResponse struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Prompt  string        `json:"prompt"`
	Busy    bool          `json:"busy"`
	Running string        `json:"running,omitempty"`
	Lines   []domain.Line `json:"lines"`
}

// CommandInfo describes one registered command.
type CommandInfo struct {
	Token       string             `json:"token"`
	Kind        domain.CommandKind `json:"kind"`
	Description string             `json:"description,omitempty"`
}

// NewHandler creates the HTTP handler for the session manager.
func NewHandler(sessions *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		Sessions: sessions,
		Logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})
	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/commands", s.SubmitCommand)
			r.Get("/commands", s.ListCommands)
			r.Get("/events", s.SubscribeEvents)
			r.Get("/graph", s.GetGraph)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": s.Sessions.List()}, s.Logger)
}

// CreateSession handles POST /sessions with a random ID.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	id := session.NewID()
	console, _, err := s.Sessions.GetOrCreate(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse(id, console), s.Logger)
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	console, err := s.Sessions.Get(id)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(id, console), s.Logger)
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubmitCommand handles POST /sessions/{id}/commands, creating the session on first use.
// The response is 202 whatever the console does with the input: the outcome is in
// the transcript.
func (s *Server) SubmitCommand(w http.ResponseWriter, r *http.Request) {
	var body CommandRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxInputSize)).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("SubmitCommand: Invalid request body", "err", err)
		return
	}
	input, err := runner.SanitizeInput(body.Input)
	if err != nil {
		http.Error(w, fmt.Sprintf("input rejected: %v", err), http.StatusBadRequest)
		s.Logger.Warn("SubmitCommand: Input rejected", "err", err, "size", len(body.Input))
		return
	}

	id := chi.URLParam(r, "id")
	console, _, err := s.Sessions.GetOrCreate(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}

	console.SubmitCommand(input)
	writeJSON(w, http.StatusAccepted, sessionResponse(id, console), s.Logger)
}

// ListCommands handles GET /sessions/{id}/commands.
func (s *Server) ListCommands(w http.ResponseWriter, r *http.Request) {
	console, err := s.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	entries := console.Commands()
	out := make([]CommandInfo, len(entries))
	for i, e := range entries {
		out[i] = CommandInfo{Token: e.Token, Kind: e.Kind, Description: e.Description}
	}
	writeJSON(w, http.StatusOK, out, s.Logger)
}

// GetGraph handles GET /sessions/{id}/graph, a Mermaid diagram of the console with
// the typed commands and the running pipeline highlighted.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	console, err := s.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	c := graph.Console{
		Prompt:   console.Prompt(),
		Commands: console.Commands(),
		Aliases:  console.Aliases(),
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(c, graph.NewOverlay(c, console.CurrentState())))
}

// SubscribeEvents handles GET /sessions/{id}/events (SSE). The first event is a
// snapshot of the session; every history change follows as a "change" event. The
// snapshot and the stream are taken together, so no change appears in both. A client
// too slow to keep up is resynced with the changes it missed.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	id := chi.URLParam(r, "id")
	console, err := s.Sessions.Get(id)
	if err != nil {
		s.fail(w, err)
		return
	}

	follower := history.NewFollower(console)
	defer follower.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.Logger.Info("SSE: Subscribing to Session Updates", "session_id", id)
	snapshot := sessionResponse(id, console)
	snapshot.Lines = follower.Lines()
	if snapshot.Lines == nil {
		snapshot.Lines = []domain.Line{}
	}
	writeEvent(w, "snapshot", snapshot)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE Client Disconnected", "session_id", id)
			return
		case change, ok := <-follower.Changes():
			batch, alive := follower.Receive(change, ok)
			if !alive {
				writeEvent(w, "closed", map[string]string{"id": id})
				flusher.Flush()
				return
			}
			if !ok {
				s.Logger.Warn("SSE: client fell behind, resyncing", "session_id", id, "missed", len(batch))
			}
			for _, c := range batch {
				writeEvent(w, "change", c)
			}
			flusher.Flush()
		}
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, session.ErrLimit), errors.Is(err, session.ErrClosed):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		s.Logger.Error("request failed", "err", err)
	}
}

func sessionResponse(id string, c *aria.Console) SessionResponse {
	state := c.CurrentState()
	lines := state.Lines
	if lines == nil {
		lines = []domain.Line{}
	}
	return SessionResponse{
		ID:      id,
		Name:    c.Name(),
		Prompt:  c.Prompt(),
		Busy:    state.Busy,
		Running: state.Running,
		Lines:   lines,
	}
}

func writeEvent(w http.ResponseWriter, event string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}
