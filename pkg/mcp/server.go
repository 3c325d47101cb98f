package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gameplay-tools/gameplay-mcp/pkg/api/types"
	"github.com/gameplay-tools/gameplay-mcp/pkg/gateway"
	"github.com/gameplay-tools/gameplay-mcp/pkg/httputil"
	"github.com/gameplay-tools/gameplay-mcp/pkg/logging"
	"github.com/gameplay-tools/gameplay-mcp/pkg/metrics"
)

// ServerName is reported to MCP clients during initialize.
const ServerName = "gameplay-mcp"

// ServerVersion is the gateway version. It is overridden at build time.
var ServerVersion = "dev"

// Server exposes the tool registry over HTTP: MCP JSON-RPC, plain tool
// dispatch, a liveness check and self-metrics.
type Server struct {
	config     *Config
	gateway    *gateway.Gateway
	metrics    *metrics.Metrics
	sessions   *SessionManager
	tools      *ToolRegistry
	httpServer *http.Server
	listener   net.Listener
	stopCh     chan struct{}
	mu         sync.RWMutex
	running    bool
	log        *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		s.log = logging.OrNop(log)
	}
}

// WithMetrics records tool calls into m and serves it on /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewServer creates a new server dispatching to gw.
func NewServer(cfg *Config, gw *gateway.Gateway, opts ...Option) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{
		config:   cfg,
		gateway:  gw,
		sessions: NewSessionManager(cfg),
		stopCh:   make(chan struct{}),
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.tools = NewToolRegistry(gw, s.metrics, s.log)
	return s
}

// Start starts the HTTP server. The listener is bound before Start returns.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("server is already running")
	}

	if err := s.config.Validate(); err != nil {
		return fmt.Errorf("invalid server config: %w", err)
	}

	ln, err := net.Listen("tcp", s.config.Address())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Address(), err)
	}
	s.listener = ln

	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.sessions.StartCleanupRoutine(time.Minute, s.stopCh)

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("server error", "error", err)
		}
	}()

	s.running = true
	s.log.Info("server started", "address", ln.Addr().String(), "tools", len(s.tools.List()))
	return nil
}

// Addr returns the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	close(s.stopCh)

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.sessions.Close()
	s.running = false
	s.log.Info("server stopped")
	return nil
}

// Handler returns the HTTP handler. This is useful for testing without
// starting the HTTP server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.config.Path, s.handleMCP)
	mux.HandleFunc("POST "+s.config.Path+"/tools", s.handleToolCall)
	mux.HandleFunc("GET "+s.config.Path+"/tools", s.handleToolList)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	return s.withMiddleware(mux)
}

// Tools returns the tool registry.
func (s *Server) Tools() *ToolRegistry {
	return s.tools
}

// Sessions returns the session manager.
func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

// withMiddleware wraps the handler with CORS and origin validation.
func (s *Server) withMiddleware(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && !s.isOriginAllowed(origin) {
			http.Error(w, "Origin not allowed", http.StatusForbidden)
			return
		}

		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Mcp-Session-Id, MCP-Protocol-Version")
		w.Header().Set("Access-Control-Expose-Headers", "Mcp-Session-Id")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		handler.ServeHTTP(w, r)
	})
}

// isOriginAllowed checks if the origin is in the allowed list.
func (s *Server) isOriginAllowed(origin string) bool {
	for _, allowed := range s.config.AllowedOrigins {
		if allowed == "*" || matchOrigin(origin, allowed) {
			return true
		}
	}
	return false
}

// matchOrigin matches an origin against a pattern (supports * wildcard for port).
func matchOrigin(origin, pattern string) bool {
	if origin == pattern {
		return true
	}

	// Handle wildcard patterns like "http://localhost:*"
	if strings.HasSuffix(pattern, ":*") {
		prefix := strings.TrimSuffix(pattern, "*")
		if strings.HasPrefix(origin, prefix) {
			rest := origin[len(prefix):]
			for _, c := range rest {
				if c < '0' || c > '9' {
					return false
				}
			}
			return len(rest) > 0
		}
	}

	return false
}

// handleHealth is the liveness check. It never consults the upstreams.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, types.HealthResponse{Status: "ok"})
}

// handleToolList lists the dispatchable tools.
func (s *Server) handleToolList(w http.ResponseWriter, _ *http.Request) {
	defs := s.tools.List()
	resp := types.ToolListResponse{Tools: make([]types.ToolInfo, 0, len(defs)), Count: len(defs)}
	for _, def := range defs {
		resp.Tools = append(resp.Tools, types.ToolInfo{Name: def.Name, Description: def.Description})
	}
	httputil.WriteOK(w, resp)
}

// handleToolCall dispatches one tool call and answers with its envelope.
// Every envelope is a 200; only an undecodable body is rejected.
func (s *Server) handleToolCall(w http.ResponseWriter, r *http.Request) {
	var req types.ToolCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "invalid_body", "request body is not valid JSON: "+err.Error())
		return
	}

	requestID := uuid.NewString()
	s.log.Debug("tool call received", "request_id", requestID, "tool", req.Tool)
	env := s.tools.Call(r.Context(), req.Tool, req.Arguments)
	w.Header().Set("X-Request-Id", requestID)
	httputil.WriteOK(w, env)
}

// handleMCP is the main handler for MCP requests.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleJSONRPC(w, r)
	case http.MethodDelete:
		s.handleSessionDelete(w, r)
	default:
		httputil.WriteMethodNotAllowed(w, http.MethodPost, http.MethodDelete)
	}
}

// handleJSONRPC handles JSON-RPC POST requests.
func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	req, parseErr := ParseRequest(r.Body)
	if parseErr != nil {
		s.writeResponse(w, ErrorResponse(nil, parseErr))
		return
	}

	var session *MCPSession

	// Initialize is special - creates a new session
	if req.Method == "initialize" {
		var err error
		session, err = s.sessions.Create()
		if err != nil {
			s.writeResponse(w, ErrorResponse(req.ID, InternalError(err)))
			return
		}
		w.Header().Set("Mcp-Session-Id", session.ID)
	} else {
		sessionID := r.Header.Get("Mcp-Session-Id")
		if sessionID == "" {
			s.writeResponse(w, ErrorResponse(req.ID, SessionRequiredError()))
			return
		}
		session = s.sessions.Get(sessionID)
		if session == nil {
			s.writeResponse(w, ErrorResponse(req.ID, SessionExpiredError(sessionID)))
			return
		}
		session.Touch()
	}

	result, rpcErr := s.dispatch(r.Context(), session, req)

	if req.IsNotification() {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	if rpcErr != nil {
		s.writeResponse(w, ErrorResponse(req.ID, rpcErr))
		return
	}
	s.writeResponse(w, SuccessResponse(req.ID, result))
}

// dispatch routes the request to the appropriate handler.
func (s *Server) dispatch(ctx context.Context, session *MCPSession, req *JSONRPCRequest) (interface{}, *JSONRPCError) {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(session, req.Params)
	case "initialized", "notifications/initialized":
		return s.handleInitialized(session)
	case "ping":
		return map[string]interface{}{}, nil
	case "tools/list":
		return s.handleToolsList(session)
	case "tools/call":
		return s.handleToolsCall(ctx, session, req.Params)
	default:
		return nil, MethodNotFoundError(req.Method)
	}
}

// handleInitialize handles the initialize request.
func (s *Server) handleInitialize(session *MCPSession, params json.RawMessage) (interface{}, *JSONRPCError) {
	initParams, err := UnmarshalParamsRequired[InitializeParams](params)
	if err != nil {
		return nil, err
	}

	if !IsProtocolVersionSupported(initParams.ProtocolVersion) {
		return nil, ProtocolVersionError(initParams.ProtocolVersion)
	}

	session.initialize(initParams.ProtocolVersion, initParams)

	return &InitializeResult{
		ProtocolVersion: initParams.ProtocolVersion,
		Capabilities: ServerCapabilities{
			Tools: &ToolsCapability{ListChanged: false},
		},
		ServerInfo: ServerInfo{
			Name:    ServerName,
			Version: ServerVersion,
		},
		Instructions: "Every tool answers with a JSON envelope {ok, data, error}. " +
			"Check ok before reading data.",
	}, nil
}

// handleInitialized handles the initialized notification.
func (s *Server) handleInitialized(session *MCPSession) (interface{}, *JSONRPCError) {
	if session.GetState() != SessionStateInitialized {
		return nil, NotInitializedError()
	}
	session.SetState(SessionStateReady)
	return nil, nil
}

// handleToolsList returns the list of available tools.
func (s *Server) handleToolsList(session *MCPSession) (interface{}, *JSONRPCError) {
	if session.GetState() != SessionStateReady {
		return nil, NotInitializedError()
	}

	return &ToolsListResult{
		Tools: s.tools.List(),
	}, nil
}

// handleToolsCall executes a tool. Tool failures, including unknown tools,
// are reported in the result rather than as JSON-RPC errors.
func (s *Server) handleToolsCall(ctx context.Context, session *MCPSession, params json.RawMessage) (interface{}, *JSONRPCError) {
	if session.GetState() != SessionStateReady {
		return nil, NotInitializedError()
	}

	callParams, err := UnmarshalParamsRequired[ToolCallParams](params)
	if err != nil {
		return nil, err
	}

	return ToolResultEnvelope(s.tools.Call(ctx, callParams.Name, callParams.Arguments)), nil
}

// handleSessionDelete handles session termination.
func (s *Server) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get("Mcp-Session-Id")
	if sessionID == "" {
		httputil.WriteBadRequest(w, "session_required", "Mcp-Session-Id header is required")
		return
	}

	s.sessions.Delete(sessionID)
	w.WriteHeader(http.StatusNoContent)
}

// writeResponse writes a JSON-RPC response. JSON-RPC errors are returned
// with 200 OK.
func (s *Server) writeResponse(w http.ResponseWriter, resp *JSONRPCResponse) {
	httputil.WriteOK(w, resp)
}
