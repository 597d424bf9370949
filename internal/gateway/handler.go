package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/vetgate/vetgate/internal/audit"
	"github.com/vetgate/vetgate/internal/metrics"
	"github.com/vetgate/vetgate/internal/ratelimit"
	"github.com/vetgate/vetgate/internal/store"
	"github.com/vetgate/vetgate/internal/tools"
	"github.com/vetgate/vetgate/internal/upstream"
	"github.com/vetgate/vetgate/internal/validate"
)

const protocolVersion = "2024-11-05"

// Session lifecycle states. tools/* methods are rejected until the
// client has completed initialize.
type sessionState int

const (
	stateUninitialized sessionState = iota
	stateInitialized
	stateServing
)

// handler contains the logic for each JSON-RPC method.
type handler struct {
	registry  *tools.Registry
	limiter   *ratelimit.Limiter
	collector *metrics.Collector
	auditor   *audit.Logger // nil = audit disabled

	name    string
	version string

	mu     sync.Mutex
	state  sessionState
	client string // from initialize clientInfo, rate-limit identity fallback
}

func newHandler(
	reg *tools.Registry,
	limiter *ratelimit.Limiter,
	collector *metrics.Collector,
	auditor *audit.Logger,
	name, version string,
) *handler {
	return &handler{
		registry:  reg,
		limiter:   limiter,
		collector: collector,
		auditor:   auditor,
		name:      name,
		version:   version,
	}
}

func (h *handler) handleInitialize(
	_ context.Context, params json.RawMessage,
) (json.RawMessage, *RPCError) {
	var p InitializeParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, &RPCError{Code: CodeInvalidParams, Message: err.Error()}
		}
	}

	h.mu.Lock()
	h.state = stateInitialized
	if p.ClientInfo.Name != "" {
		h.client = p.ClientInfo.Name
	}
	h.mu.Unlock()

	result := InitializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities: ServerCapability{
			Tools: &ToolCapability{ListChanged: false},
		},
		ServerInfo: ServerInfo{Name: h.name, Version: h.version},
	}

	data, err := json.Marshal(result)
	if err != nil {
		return nil, &RPCError{Code: CodeInternalError, Message: err.Error()}
	}
	return data, nil
}

// requireInitialized rejects tools/* methods before initialize and
// advances the session to serving on first use.
func (h *handler) requireInitialized() *RPCError {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state == stateUninitialized {
		return &RPCError{
			Code:    CodeInvalidRequest,
			Message: "server not initialized",
		}
	}
	h.state = stateServing
	return nil
}

func (h *handler) identity(override string) string {
	if override != "" {
		return override
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.client != "" {
		return h.client
	}
	return "anonymous"
}

// gate applies the rate limiter for one inbound call. A rejection
// reports the remaining wait and consumes no budget.
func (h *handler) gate(caller string) *RPCError {
	if h.limiter.Allow(caller) {
		return nil
	}
	wait := h.limiter.RemainingTime(caller)
	return &RPCError{
		Code:    CodeRateLimited,
		Message: "rate limit exceeded",
		Data: map[string]any{
			"retry_after_sec": int(math.Ceil(wait.Seconds())),
		},
	}
}

func (h *handler) handleToolsList(_ context.Context, identity string) (json.RawMessage, *RPCError) {
	if rpcErr := h.requireInitialized(); rpcErr != nil {
		return nil, rpcErr
	}
	if rpcErr := h.gate(h.identity(identity)); rpcErr != nil {
		return nil, rpcErr
	}

	data, err := json.Marshal(map[string]any{"tools": h.registry.List()})
	if err != nil {
		return nil, &RPCError{Code: CodeInternalError, Message: err.Error()}
	}
	return data, nil
}

func (h *handler) handleToolsCall(
	ctx context.Context, params json.RawMessage, identity string,
) (json.RawMessage, *RPCError) {
	start := time.Now()

	if rpcErr := h.requireInitialized(); rpcErr != nil {
		return nil, rpcErr
	}

	var req CallToolRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, &RPCError{Code: CodeInvalidParams, Message: err.Error()}
	}
	if req.Name == "" {
		return nil, &RPCError{Code: CodeInvalidParams, Message: "missing tool name"}
	}

	// The limiter gates the call before any routing or execution.
	caller := h.identity(identity)
	if rpcErr := h.gate(caller); rpcErr != nil {
		elapsed := time.Since(start)
		h.collector.Record(req.Name, false, elapsed)
		h.record(ctx, caller, req, nil, rpcErr, elapsed)
		return nil, rpcErr
	}

	toolFn, ok := h.registry.Handler(req.Name)
	if !ok {
		return nil, &RPCError{
			Code:    CodeMethodNotFound,
			Message: fmt.Sprintf("unknown tool: %s", req.Name),
		}
	}

	args := map[string]any{}
	if len(req.Arguments) > 0 {
		if err := json.Unmarshal(req.Arguments, &args); err != nil {
			rpcErr := &RPCError{
				Code:    CodeInvalidParams,
				Message: "arguments must be a JSON object",
			}
			elapsed := time.Since(start)
			h.collector.Record(req.Name, false, elapsed)
			h.record(ctx, caller, req, nil, rpcErr, elapsed)
			return nil, rpcErr
		}
	}

	res, err := toolFn(ctx, args)
	elapsed := time.Since(start)

	if err != nil {
		rpcErr := classifyError(err)
		h.collector.Record(req.Name, false, elapsed)
		h.record(ctx, caller, req, nil, rpcErr, elapsed)
		slog.Warn("tool call failed",
			"tool", req.Name, "client", caller,
			"code", rpcErr.Code, "error", err)
		return nil, rpcErr
	}

	payload, merr := json.Marshal(res)
	if merr != nil {
		rpcErr := &RPCError{Code: CodeInternalError, Message: merr.Error()}
		h.collector.Record(req.Name, false, elapsed)
		h.record(ctx, caller, req, nil, rpcErr, elapsed)
		return nil, rpcErr
	}

	h.collector.Record(req.Name, res.Success, elapsed)
	h.record(ctx, caller, req, res, nil, elapsed)

	result := CallToolResult{
		Content: []ToolContent{{Type: "text", Text: string(payload)}},
		IsError: !res.Success,
	}
	data, merr := json.Marshal(result)
	if merr != nil {
		return nil, &RPCError{Code: CodeInternalError, Message: merr.Error()}
	}
	return data, nil
}

// classifyError maps executor errors onto JSON-RPC error codes.
func classifyError(err error) *RPCError {
	var verr *validate.Error
	if errors.As(err, &verr) {
		return &RPCError{
			Code:    CodeInvalidParams,
			Message: verr.Error(),
			Data:    map[string]any{"field": verr.Field},
		}
	}
	if errors.Is(err, upstream.ErrTimeout) {
		return &RPCError{Code: CodeTimeout, Message: err.Error()}
	}
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		return &RPCError{
			Code:    CodeUpstreamError,
			Message: apiErr.Error(),
			Data:    map[string]any{"status": apiErr.StatusCode},
		}
	}
	var supp *upstream.SuppressedError
	if errors.As(err, &supp) {
		return &RPCError{Code: CodeUpstreamError, Message: supp.Error()}
	}
	var terr *upstream.TransportError
	if errors.As(err, &terr) {
		return &RPCError{Code: CodeUpstreamError, Message: terr.Error()}
	}
	return &RPCError{Code: CodeInternalError, Message: err.Error()}
}

// record writes an audit entry for a completed or rejected call.
// Audit failures are logged, never surfaced to the caller.
func (h *handler) record(
	ctx context.Context, caller string, req CallToolRequest,
	res *tools.Result, rpcErr *RPCError, elapsed time.Duration,
) {
	if h.auditor == nil {
		return
	}

	rec := &store.InvocationRecord{
		Client:    caller,
		Tool:      req.Name,
		Params:    req.Arguments,
		Status:    store.StatusSuccess,
		LatencyMs: elapsed.Milliseconds(),
	}
	if rpcErr != nil {
		rec.Status = store.StatusError
		rec.ErrorCode = rpcErr.Code
		rec.ErrorMessage = rpcErr.Message
	} else if res != nil {
		if !res.Success {
			rec.Status = store.StatusError
			rec.ErrorMessage = res.Error
		}
		if cached, ok := res.Meta["cached"].(bool); ok {
			rec.CacheHit = cached
		}
	}

	if err := h.auditor.Record(ctx, rec); err != nil {
		slog.Error("audit record", "tool", req.Name, "error", err)
	}
}
