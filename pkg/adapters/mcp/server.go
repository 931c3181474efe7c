package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/aria"
	"github.com/aretw0/aria/internal/logging"
	"github.com/aretw0/aria/pkg/domain"
	"github.com/aretw0/aria/pkg/runner"
	"github.com/aretw0/aria/pkg/script"
	"github.com/aretw0/aria/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DefaultSession is used by tools called without a session_id.
const DefaultSession = "default"

// TranscriptResponse is the structured result of the transcript tools.
type TranscriptResponse struct {
	SessionID string        `json:"session_id" jsonschema_description:"The console session"`
	Busy      bool          `json:"busy" jsonschema_description:"True while a pipeline is running; new commands are ignored"`
	Running   string        `json:"running,omitempty" jsonschema_description:"Name of the running pipeline"`
	Lines     []domain.Line `json:"lines" jsonschema_description:"Transcript lines"`
}

// CommandsResponse lists the commands of a session.
type CommandsResponse struct {
	SessionID string          `json:"session_id"`
	Commands  []CommandResult `json:"commands"`
}

// CommandResult describes one registered command.
type CommandResult struct {
	Token       string             `json:"token"`
	Kind        domain.CommandKind `json:"kind"`
	Description string             `json:"description,omitempty"`
}

// Server exposes the consoles of a session.Manager as MCP tools.
type Server struct {
	sessions  *session.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for the Server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		sessions:  sessions,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("aria-mcp", strings.TrimSpace(aria.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: submit_command
	submitTool := mcp.NewTool("submit_command",
		mcp.WithDescription("Type one command into the console. Returns the lines it appended. "+
			"Commands sent while a pipeline runs are ignored."),
		mcp.WithString("input", mcp.Required(), mcp.Description("The command line, e.g. help")),
		mcp.WithString("session_id", mcp.Description("Console session (default: \"default\")")),
		mcp.WithOutputSchema[TranscriptResponse](),
	)
	s.mcpServer.AddTool(submitTool, mcp.NewStructuredToolHandler(s.handleSubmit))

	// TOOL: read_transcript
	readTool := mcp.NewTool("read_transcript",
		mcp.WithDescription("Read the full console transcript and busy flag."),
		mcp.WithString("session_id", mcp.Description("Console session (default: \"default\")")),
		mcp.WithBoolean("wait", mcp.Description("Wait for the running pipeline to finish first")),
		mcp.WithOutputSchema[TranscriptResponse](),
	)
	s.mcpServer.AddTool(readTool, mcp.NewStructuredToolHandler(s.handleRead))

	// TOOL: list_commands
	listTool := mcp.NewTool("list_commands",
		mcp.WithDescription("List the commands the console recognizes."),
		mcp.WithString("session_id", mcp.Description("Console session (default: \"default\")")),
		mcp.WithOutputSchema[CommandsResponse](),
	)
	s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleList))
}

func (s *Server) handleSubmit(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TranscriptResponse, error) {
	id := sessionID(args)
	input, _ := args["input"].(string)

	clean, err := runner.SanitizeInput(input)
	if err != nil {
		s.logger.Warn("MCP submit: Input rejected", "err", err, "size", len(input))
		return TranscriptResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	console, _, err := s.sessions.GetOrCreate(ctx, id)
	if err != nil {
		return TranscriptResponse{}, err
	}

	// Only what this submission appended: nothing when rejected or cleared, never
	// lines from a pipeline that was already running.
	outcome := console.Submit(clean)
	state := console.CurrentState()
	return TranscriptResponse{SessionID: id, Busy: state.Busy, Running: state.Running, Lines: outcome.Lines}, nil
}

func (s *Server) handleRead(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TranscriptResponse, error) {
	id := sessionID(args)
	console, _, err := s.sessions.GetOrCreate(ctx, id)
	if err != nil {
		return TranscriptResponse{}, err
	}

	if wait, _ := args["wait"].(bool); wait {
		if err := console.Wait(ctx); err != nil {
			return TranscriptResponse{}, fmt.Errorf("wait failed: %w", err)
		}
	}
	return transcript(id, console), nil
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CommandsResponse, error) {
	id := sessionID(args)
	console, _, err := s.sessions.GetOrCreate(ctx, id)
	if err != nil {
		return CommandsResponse{}, err
	}

	entries := console.Commands()
	out := CommandsResponse{SessionID: id, Commands: make([]CommandResult, len(entries))}
	for i, e := range entries {
		out.Commands[i] = CommandResult{Token: e.Token, Kind: e.Kind, Description: e.Description}
	}
	return out, nil
}

func (s *Server) registerResources() {
	// EXPOSE: aria://scripts
	s.mcpServer.AddResource(mcp.NewResource("aria://scripts", "Builtin console scripts",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(script.Builtins())
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "aria://scripts",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func transcript(id string, c *aria.Console) TranscriptResponse {
	state := c.CurrentState()
	lines := state.Lines
	if lines == nil {
		lines = []domain.Line{}
	}
	return TranscriptResponse{SessionID: id, Busy: state.Busy, Running: state.Running, Lines: lines}
}

func sessionID(args map[string]interface{}) string {
	if id, ok := args["session_id"].(string); ok && strings.TrimSpace(id) != "" {
		return strings.TrimSpace(id)
	}
	return DefaultSession
}
