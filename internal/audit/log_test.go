package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"parlor.chat/internal/identity"
	"parlor.chat/internal/obs"
)

func TestLogEvent(t *testing.T) {
	logger := obs.Logger()
	original := logger.Writer()
	logger.SetFlags(0)
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(original)

	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-123")
	ctx = identity.ContextWithIdentity(ctx, identity.Identity{UID: "user-42"})

	entry, err := LogEvent(ctx, "admin.user.ban", map[string]any{"target": "user-7"})
	if err != nil {
		t.Fatalf("LogEvent failed: %v", err)
	}
	if entry.ActorUID != "user-42" {
		t.Fatalf("unexpected actor: %q", entry.ActorUID)
	}

	line := buf.String()
	if line == "" {
		t.Fatal("expected log output")
	}

	var logged map[string]any
	if err := json.Unmarshal([]byte(line), &logged); err != nil {
		t.Fatalf("log not valid JSON: %v", err)
	}
	if logged["type"] != "audit" {
		t.Fatalf("unexpected type: %v", logged["type"])
	}
	if logged["event"] != "admin.user.ban" {
		t.Fatalf("unexpected event: %v", logged["event"])
	}
	if logged["request_id"] != "req-123" {
		t.Fatalf("unexpected request id: %v", logged["request_id"])
	}
	if logged["actor_uid"] != "user-42" {
		t.Fatalf("unexpected actor uid: %v", logged["actor_uid"])
	}
	fields, ok := logged["fields"].(map[string]any)
	if !ok || fields["target"] != "user-7" {
		t.Fatalf("fields missing or incorrect: %v", logged["fields"])
	}
}

func TestLogEventRequiresName(t *testing.T) {
	if _, err := LogEvent(context.Background(), "  ", nil); err == nil {
		t.Fatal("expected error for empty event name")
	}
}
