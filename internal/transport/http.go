package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/agencydesk/internal/domain/session"
)

// MCPHandler handles MCP method dispatch.
type MCPHandler interface {
	Handle(ctx context.Context, p session.Principal, sessionID, method string, params json.RawMessage) (any, error)
}

// codedError is an error carrying a machine-readable code.
type codedError interface {
	error
	CodeValue() string
}

// Options configures the router.
type Options struct {
	// Auth authenticates /rpc requests. Nil leaves them unauthenticated,
	// which only works if the handler does not need a principal.
	Auth func(http.Handler) http.Handler
	// MCP is mounted at /mcp when set. It authenticates on its own.
	MCP    http.Handler
	Logger *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	handler MCPHandler
	logger  *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(handler MCPHandler, opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{handler: handler, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", srv.handleHealth)

	r.Group(func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(opts.Auth)
		}
		r.Use(SessionMiddleware)
		r.Post("/rpc", srv.handleRPC)
	})

	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
		r.Handle("/mcp/*", opts.MCP)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if errors.Is(err, errMalformed) {
		WriteError(w, nil, ErrParseCode, "parse error", nil)
		return
	}
	if err != nil {
		WriteError(w, nil, ErrInvalidReq, "invalid request", nil)
		return
	}

	p, ok := PrincipalFromContext(r.Context())
	if !ok || p.TenantID == "" {
		http.Error(w, "missing principal", http.StatusUnauthorized)
		return
	}

	sessionID, _ := SessionIDFromContext(r.Context())

	result, err := s.handler.Handle(r.Context(), p, sessionID, req.Method, req.Params)
	if req.IsNotification() {
		if err != nil {
			s.logger.Warn("notification failed", "method", req.Method, "tenant_id", p.TenantID, "error", err)
		}
		w.WriteHeader(http.StatusAccepted)
		return
	}
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		code, message, data := errorObject(err)
		if code == ErrInternal {
			s.logger.Error("rpc failed", "method", req.Method, "tenant_id", p.TenantID, "error", err)
		}
		WriteError(w, req.ID, code, message, data)
		return
	}

	WriteResult(w, req.ID, result)
}

// errorObject maps a handler error onto a JSON-RPC error. Coded errors keep
// their payload in data so clients can branch on the code.
func errorObject(err error) (int, string, any) {
	var coded codedError
	if !errors.As(err, &coded) {
		return ErrInternal, err.Error(), nil
	}
	switch coded.CodeValue() {
	case "METHOD_NOT_FOUND":
		return ErrMethodNotFound, coded.Error(), coded
	case "INVALID_PARAMS":
		return ErrInvalidParams, coded.Error(), coded
	case "INTERNAL":
		return ErrInternal, coded.Error(), coded
	}
	return ErrApplication, coded.Error(), coded
}
