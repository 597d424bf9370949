// Package gateway implements the JSON-RPC 2.0 server addressed by
// tool-calling agents, over stdio or an arbitrary connection.
package gateway

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/vetgate/vetgate/internal/audit"
	"github.com/vetgate/vetgate/internal/metrics"
	"github.com/vetgate/vetgate/internal/ratelimit"
	"github.com/vetgate/vetgate/internal/tools"
)

// Server is the gateway server.
type Server struct {
	handler *handler
	mu      sync.Mutex // protects stdout writes
}

// NewServer creates a gateway server over the given tool registry.
// The auditor may be nil, which disables invocation auditing.
func NewServer(
	reg *tools.Registry,
	limiter *ratelimit.Limiter,
	collector *metrics.Collector,
	auditor *audit.Logger,
	name, version string,
) *Server {
	return &Server{
		handler: newHandler(reg, limiter, collector, auditor, name, version),
	}
}

// Bootstrap marks the session initialized without an initialize
// exchange. The HTTP surface uses this because each request is an
// independent caller with no session handshake.
func (s *Server) Bootstrap(client string) {
	s.handler.mu.Lock()
	s.handler.state = stateInitialized
	s.handler.client = client
	s.handler.mu.Unlock()
}

// RunStdio runs the server over stdin/stdout.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.run(ctx, os.Stdin, os.Stdout)
}

// RunConn runs the server over an arbitrary reader/writer pair.
func (s *Server) RunConn(ctx context.Context, r io.Reader, w io.Writer) error {
	return s.run(ctx, r, w)
}

func (s *Server) run(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		resp := s.Dispatch(ctx, line, "")
		if resp == nil {
			continue // notification, no response needed
		}

		if err := s.writeResponse(w, resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
	return scanner.Err()
}

// Dispatch parses one JSON-RPC message and routes it. A non-empty
// identity overrides the session client as the rate-limit key, which
// the HTTP surface uses to keep callers independent. A nil return
// means the message was a notification.
func (s *Server) Dispatch(ctx context.Context, line []byte, identity string) *Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return &Response{
			JSONRPC: "2.0",
			Error: &RPCError{
				Code:    CodeParseError,
				Message: "invalid JSON: " + err.Error(),
			},
		}
	}

	if req.Method == "" {
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &RPCError{
				Code:    CodeInvalidRequest,
				Message: "missing method",
			},
		}
	}

	// Notifications have no ID; don't send a response.
	if req.ID == nil {
		s.handleNotification(req)
		return nil
	}

	var result json.RawMessage
	var rpcErr *RPCError

	switch req.Method {
	case "initialize":
		result, rpcErr = s.handler.handleInitialize(ctx, req.Params)
	case "ping":
		result, _ = json.Marshal(map[string]any{})
	case "tools/list":
		result, rpcErr = s.handler.handleToolsList(ctx, identity)
	case "tools/call":
		result, rpcErr = s.handler.handleToolsCall(ctx, req.Params, identity)
	default:
		rpcErr = &RPCError{
			Code:    CodeMethodNotFound,
			Message: fmt.Sprintf("unknown method: %s", req.Method),
		}
	}

	resp := &Response{JSONRPC: "2.0", ID: req.ID}
	if rpcErr != nil {
		resp.Error = rpcErr
	} else {
		resp.Result = result
	}
	return resp
}

func (s *Server) handleNotification(req Request) {
	switch req.Method {
	case "notifications/initialized":
		slog.Info("client initialized")
	default:
		slog.Debug("unhandled notification", "method", req.Method)
	}
}

// Metrics returns the collector snapshot for the status surfaces.
func (s *Server) Metrics() metrics.Snapshot {
	return s.handler.collector.Snapshot()
}

func (s *Server) writeResponse(w io.Writer, resp *Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
