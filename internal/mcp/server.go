// Package mcp implements the tools-only Model Context Protocol (MCP) server.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"gitlab.com/rhoshambo/ha-llm-tools/internal/homeassistant"
	"gitlab.com/rhoshambo/ha-llm-tools/internal/logging"
)

const (
	// ServerName is the name reported in the MCP initialize response.
	ServerName = "ha-llm-tools"
	// ServerVersion is the version reported in the MCP initialize response.
	ServerVersion = "1.0.0"
	// ProtocolVersion is the MCP protocol version supported.
	ProtocolVersion = "2024-11-05"
)

// Server serves tool calls over JSON-RPC 2.0 on HTTP.
type Server struct {
	session     homeassistant.Session
	registry    *Registry
	httpServer  *http.Server
	port        int
	logger      *logging.Logger
	mu          sync.RWMutex
	initialized bool
}

// NewServer creates a new MCP server instance.
func NewServer(session homeassistant.Session, registry *Registry, port int, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.New(logging.LevelInfo)
	}
	return &Server{
		session:  session,
		registry: registry,
		port:     port,
		logger:   logger,
	}
}

// Start starts the HTTP server and blocks until it shuts down.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRPC)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("Tool server starting", "port", s.port)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("Tool server shutting down...")
	return s.httpServer.Shutdown(ctx)
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("Health check request", "remote_addr", r.RemoteAddr)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// handleRPC handles JSON-RPC requests.
func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	if r.Method != http.MethodPost {
		s.logger.Warn("Invalid HTTP method", "method", r.Method, "remote_addr", r.RemoteAddr)
		s.writeError(w, nil, InvalidRequest, "method not allowed", nil)
		return
	}

	defer func() { _ = r.Body.Close() }()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Error("Failed to read request body", "remote_addr", r.RemoteAddr, "error", err)
		s.writeError(w, nil, ParseError, "failed to read request body", nil)
		return
	}

	s.logger.Trace("Request received", "remote_addr", r.RemoteAddr, "body", string(body))

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		s.logger.Error("Invalid JSON", "remote_addr", r.RemoteAddr, "error", err)
		s.writeError(w, nil, ParseError, "invalid JSON", err.Error())
		return
	}

	if req.JSONRPC != JSONRPCVersion {
		s.logger.Warn("Invalid JSON-RPC version", "remote_addr", r.RemoteAddr, "version", req.JSONRPC)
		s.writeError(w, req.ID, InvalidRequest, "invalid jsonrpc version", nil)
		return
	}

	resp := s.handleRequest(r.Context(), &req)

	s.logResponse(&req, resp, time.Since(startTime))
	s.writeResponse(w, resp)
}

// logResponse logs the response at appropriate levels.
func (s *Server) logResponse(req *Request, resp *Response, duration time.Duration) {
	if resp == nil {
		// Notification - no response
		s.logger.Debug("Notification processed", "method", req.Method, "duration", duration)
		return
	}

	if resp.Error != nil {
		s.logger.Error("Request failed",
			"method", req.Method,
			"id", formatID(req.ID),
			"error_code", resp.Error.Code,
			"error_message", resp.Error.Message,
			"duration", duration)
		return
	}

	s.logger.Info("Request completed", "method", req.Method, "id", formatID(req.ID), "duration", duration)

	if s.logger.IsTraceEnabled() {
		if respJSON, err := json.MarshalIndent(resp.Result, "", "  "); err == nil {
			s.logger.Trace("Response result", "result", string(respJSON))
		}
	}
}

// formatID formats a request ID for logging.
func formatID(id json.RawMessage) string {
	if id == nil {
		return "<notification>"
	}
	return string(id)
}

// handleRequest routes the request to the appropriate handler.
func (s *Server) handleRequest(ctx context.Context, req *Request) *Response {
	switch req.Method {
	case MethodInitialize:
		return s.handleInitialize(req)
	case MethodInitialized:
		return s.handleInitialized(req)
	case MethodPing:
		return s.handlePing(req)
	case MethodToolsList:
		return s.handleToolsList(req)
	case MethodToolsCall:
		return s.handleToolsCall(ctx, req)
	default:
		s.logger.Warn("Unknown method requested", "method", req.Method)
		return NewErrorResponse(req.ID, MethodNotFound, fmt.Sprintf("method not found: %s", req.Method), nil)
	}
}

// handleInitialize handles the initialize request.
func (s *Server) handleInitialize(req *Request) *Response {
	var params InitializeParams
	if req.Params != nil {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return NewErrorResponse(req.ID, InvalidParams, "invalid initialize params", err.Error())
		}
	}

	s.logger.Info("MCP client connected",
		"client_name", params.ClientInfo.Name,
		"client_version", params.ClientInfo.Version,
		"protocol_version", params.ProtocolVersion)

	result := InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities: ServerCapabilities{
			Tools: &ToolsCapability{ListChanged: false},
		},
		ServerInfo: Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		Instructions: "Home Assistant tool server - controls and queries smart home devices by their human-readable names.",
	}

	return NewSuccessResponse(req.ID, result)
}

// handleInitialized handles the initialized notification.
// Per JSON-RPC 2.0, notifications (requests without id) get no response.
func (s *Server) handleInitialized(req *Request) *Response {
	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()

	s.logger.Info("MCP client initialization complete")

	if req.ID == nil {
		return nil
	}
	return NewSuccessResponse(req.ID, struct{}{})
}

// handlePing handles ping requests.
func (s *Server) handlePing(req *Request) *Response {
	s.logger.Debug("Ping received")
	return NewSuccessResponse(req.ID, PingResult{})
}

// handleToolsList handles tools/list requests.
func (s *Server) handleToolsList(req *Request) *Response {
	tools := s.registry.ListTools()
	s.logger.Debug("Listed tools", "count", len(tools))
	return NewSuccessResponse(req.ID, ToolsListResult{Tools: tools})
}

// handleToolsCall handles tools/call requests.
func (s *Server) handleToolsCall(ctx context.Context, req *Request) *Response {
	var params ToolsCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return NewErrorResponse(req.ID, InvalidParams, "invalid tools/call params", err.Error())
	}

	s.logger.Info("Tool call", "tool", params.Name)

	if s.logger.IsTraceEnabled() {
		if argsJSON, err := json.MarshalIndent(params.Arguments, "", "  "); err == nil {
			s.logger.Trace("Tool call arguments", "arguments", string(argsJSON))
		}
	}

	handler, exists := s.registry.GetHandler(params.Name)
	if !exists {
		s.logger.Warn("Tool not found", "tool", params.Name)
		return NewErrorResponse(req.ID, ToolNotFound, fmt.Sprintf("tool not found: %s", params.Name), nil)
	}

	result, err := handler(ctx, s.session, params.Arguments)
	if err != nil {
		s.logger.Error("Tool execution failed", "tool", params.Name, "error", err)
		return NewErrorResponse(req.ID, ToolExecutionErr, fmt.Sprintf("tool execution failed: %s", err.Error()), nil)
	}

	s.logger.Debug("Tool call successful", "tool", params.Name, "is_error", result.IsError)
	return NewSuccessResponse(req.ID, result)
}

// writeResponse writes a JSON-RPC response.
// For notifications (nil response), no response is written.
func (s *Server) writeResponse(w http.ResponseWriter, resp *Response) {
	if resp == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("Failed to write response", "error", err)
	}
}

// writeError writes a JSON-RPC error response.
func (s *Server) writeError(w http.ResponseWriter, id json.RawMessage, code ErrorCode, message string, data any) {
	s.writeResponse(w, NewErrorResponse(id, code, message, data))
}

// IsInitialized returns whether the server has been initialized by a client.
func (s *Server) IsInitialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// Session returns the Home Assistant session used by handlers.
func (s *Server) Session() homeassistant.Session {
	return s.session
}
