package api

import (
	"net/http"
	"strconv"

	"github.com/vetgate/vetgate/internal/store"
)

type auditHandler struct {
	store store.AuditStore
}

func (h *auditHandler) query(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.InvocationFilter{
		Tool:   q.Get("tool"),
		Client: q.Get("client"),
		Status: q.Get("status"),
		Limit:  50,
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			filter.Offset = n
		}
	}

	records, total, err := h.store.QueryInvocations(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to query invocations")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"records": records,
		"total":   total,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}
