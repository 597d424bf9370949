// Package audit records tool invocations with parameter redaction.
package audit

import (
	"context"
	"fmt"

	"github.com/vetgate/vetgate/internal/store"
)

// Logger writes invocation records with parameter redaction applied.
type Logger struct {
	store store.AuditStore
	hints []string
}

// NewLogger creates an audit Logger. Extra hints extend the built-in
// redaction patterns with deployment-specific key names.
func NewLogger(auditStore store.AuditStore, hints []string) *Logger {
	return &Logger{store: auditStore, hints: hints}
}

// Record redacts sensitive parameters and inserts the record.
func (l *Logger) Record(ctx context.Context, rec *store.InvocationRecord) error {
	if len(rec.Params) > 0 {
		rec.Params = Redact(rec.Params, l.hints)
	}
	if err := l.store.InsertInvocation(ctx, rec); err != nil {
		return fmt.Errorf("insert invocation: %w", err)
	}
	return nil
}
