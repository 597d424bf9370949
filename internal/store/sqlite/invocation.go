package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vetgate/vetgate/internal/store"
)

const timeFormat = time.RFC3339

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeFormat, s)
	return t
}

func (d *DB) InsertInvocation(ctx context.Context, r *store.InvocationRecord) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}

	params := "{}"
	if len(r.Params) > 0 {
		params = string(r.Params)
	}

	_, err := d.db.ExecContext(ctx, `
		INSERT INTO invocations
			(id, timestamp, client, tool, params, status,
			 error_code, error_message, latency_ms, cache_hit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, formatTime(r.Timestamp), r.Client, r.Tool, params, r.Status,
		r.ErrorCode, r.ErrorMessage, r.LatencyMs, boolToInt(r.CacheHit),
	)
	return err
}

func (d *DB) QueryInvocations(
	ctx context.Context, f store.InvocationFilter,
) ([]store.InvocationRecord, int, error) {
	where, args := buildInvocationWhere(f)

	var total int
	countQ := "SELECT COUNT(*) FROM invocations" + where
	if err := d.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	dataQ := `SELECT id, timestamp, client, tool, params, status,
		error_code, error_message, latency_ms, cache_hit
		FROM invocations` + where +
		` ORDER BY timestamp DESC LIMIT ? OFFSET ?`
	dataArgs := append(args, limit, f.Offset)

	rows, err := d.db.QueryContext(ctx, dataQ, dataArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []store.InvocationRecord
	for rows.Next() {
		var r store.InvocationRecord
		var ts, params string
		var cacheHit int
		err := rows.Scan(
			&r.ID, &ts, &r.Client, &r.Tool, &params, &r.Status,
			&r.ErrorCode, &r.ErrorMessage, &r.LatencyMs, &cacheHit,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invocation row: %w", err)
		}
		r.Timestamp = parseTime(ts)
		r.Params = json.RawMessage(params)
		r.CacheHit = cacheHit != 0
		out = append(out, r)
	}
	return out, total, rows.Err()
}

func buildInvocationWhere(f store.InvocationFilter) (string, []any) {
	var conds []string
	var args []any
	if f.Tool != "" {
		conds = append(conds, "tool = ?")
		args = append(args, f.Tool)
	}
	if f.Client != "" {
		conds = append(conds, "client = ?")
		args = append(args, f.Client)
	}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
