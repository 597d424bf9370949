package api

import (
	"io"
	"net"
	"net/http"

	"github.com/vetgate/vetgate/internal/gateway"
)

const maxRPCBody = 1 << 20 // 1 MiB

type rpcHandler struct {
	gateway *gateway.Server
}

// post accepts one JSON-RPC message per request. The caller's IP is the
// rate-limit identity, so HTTP clients are limited independently.
func (h *rpcHandler) post(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRPCBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body")
		return
	}
	defer r.Body.Close()

	resp := h.gateway.Dispatch(r.Context(), body, clientIP(r))
	if resp == nil {
		// Notification: acknowledged, nothing to return.
		w.WriteHeader(http.StatusAccepted)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
