package audit

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/vetgate/vetgate/internal/store"
)

func TestRedact_GlobalPatterns(t *testing.T) {
	in := json.RawMessage(`{"api_key":"sk-123","name":"Rex","cpf":"12345678909"}`)
	out := Redact(in, nil)

	var obj map[string]any
	if err := json.Unmarshal(out, &obj); err != nil {
		t.Fatal(err)
	}
	if obj["api_key"] != "[REDACTED]" {
		t.Fatalf("api_key = %v", obj["api_key"])
	}
	if obj["cpf"] != "[REDACTED]" {
		t.Fatalf("cpf = %v", obj["cpf"])
	}
	if obj["name"] != "Rex" {
		t.Fatalf("name should survive, got %v", obj["name"])
	}
}

func TestRedact_Hints(t *testing.T) {
	in := json.RawMessage(`{"phone":"11988887777","species":"dog"}`)
	out := Redact(in, []string{"phone"})

	if !strings.Contains(string(out), "[REDACTED]") {
		t.Fatalf("phone not redacted: %s", out)
	}
	if !strings.Contains(string(out), "dog") {
		t.Fatalf("species should survive: %s", out)
	}
}

func TestRedact_NestedObjects(t *testing.T) {
	in := json.RawMessage(`{"client":{"cpf":"12345678909","name":"Ana"}}`)
	out := Redact(in, nil)

	var obj map[string]map[string]any
	if err := json.Unmarshal(out, &obj); err != nil {
		t.Fatal(err)
	}
	if obj["client"]["cpf"] != "[REDACTED]" {
		t.Fatalf("nested cpf = %v", obj["client"]["cpf"])
	}
	if obj["client"]["name"] != "Ana" {
		t.Fatalf("nested name = %v", obj["client"]["name"])
	}
}

func TestRedact_NonObjectPassthrough(t *testing.T) {
	for _, in := range []string{`"just a string"`, `[1,2,3]`, ``} {
		out := Redact(json.RawMessage(in), nil)
		if string(out) != in {
			t.Fatalf("%q changed to %q", in, out)
		}
	}
}

type captureStore struct {
	last *store.InvocationRecord
}

func (s *captureStore) InsertInvocation(_ context.Context, r *store.InvocationRecord) error {
	s.last = r
	return nil
}

func (s *captureStore) QueryInvocations(
	context.Context, store.InvocationFilter,
) ([]store.InvocationRecord, int, error) {
	return nil, 0, nil
}

func TestLogger_RedactsBeforeInsert(t *testing.T) {
	cs := &captureStore{}
	l := NewLogger(cs, []string{"phone"})

	rec := &store.InvocationRecord{
		Tool:   "create_client",
		Params: json.RawMessage(`{"cpf":"12345678909","phone":"11988887777","name":"Ana"}`),
		Status: store.StatusSuccess,
	}
	if err := l.Record(context.Background(), rec); err != nil {
		t.Fatal(err)
	}
	if cs.last == nil {
		t.Fatal("record not inserted")
	}
	stored := string(cs.last.Params)
	if strings.Contains(stored, "12345678909") || strings.Contains(stored, "11988887777") {
		t.Fatalf("sensitive values stored: %s", stored)
	}
	if !strings.Contains(stored, "Ana") {
		t.Fatalf("name should survive: %s", stored)
	}
}
