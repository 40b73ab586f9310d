package audit

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"parlor.chat/internal/identity"
	"parlor.chat/internal/obs"
)

type ctxKey string

const requestIDKey ctxKey = "audit_request_id"

// WithRequestID attaches the request identifier to the context for audit
// logging.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// requestIDFromContext extracts the audit request id from context if present.
func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// Entry is one audit event as written to the log and fanned out to
// event-stream subscribers.
type Entry struct {
	Timestamp time.Time      `json:"ts"`
	Type      string         `json:"type"`
	Event     string         `json:"event"`
	RequestID string         `json:"request_id,omitempty"`
	ActorUID  string         `json:"actor_uid,omitempty"`
	Fields    map[string]any `json:"fields"`
}

// LogEvent writes an audit entry enriched with request and actor context
// and returns it for further fan-out.
func LogEvent(ctx context.Context, event string, fields map[string]any) (Entry, error) {
	event = strings.TrimSpace(event)
	if event == "" {
		return Entry{}, errors.New("event name is required")
	}
	entry := Entry{
		Timestamp: time.Now().UTC(),
		Type:      "audit",
		Event:     event,
		RequestID: requestIDFromContext(ctx),
		Fields:    map[string]any{},
	}
	if id, ok := identity.FromContext(ctx); ok {
		entry.ActorUID = id.UID
	}
	for k, v := range fields {
		entry.Fields[k] = v
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return Entry{}, err
	}
	obs.Logger().Println(string(data))
	return entry, nil
}
