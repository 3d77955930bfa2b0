package portalsession

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/bytedance/sonic"
)

// Audit event types emitted by the manager.
const (
	// EventSessionSaved is an exported constant or variable used by the session manager.
	EventSessionSaved = "session_saved"
	// EventSessionRestored is an exported constant or variable used by the session manager.
	EventSessionRestored = "session_restored"
	// EventDecodeFailure is an exported constant or variable used by the session manager.
	EventDecodeFailure = "decode_failure"
	// EventLogout is an exported constant or variable used by the session manager.
	EventLogout = "logout"
	// EventLogoutRedirect is an exported constant or variable used by the session manager.
	EventLogoutRedirect = "logout_redirect"
	// EventLogoutCompensated is an exported constant or variable used by the session manager.
	EventLogoutCompensated = "logout_compensated"
	// EventRefreshExpired is an exported constant or variable used by the session manager.
	EventRefreshExpired = "refresh_expired"
	// EventPermissionSync is an exported constant or variable used by the session manager.
	EventPermissionSync = "permission_sync"
	// EventPermissionSyncFailed is an exported constant or variable used by the session manager.
	EventPermissionSyncFailed = "permission_sync_failed"
)

type AuditEvent struct {
	Timestamp   time.Time         `json:"timestamp"`
	EventType   string            `json:"event_type"`
	DeveloperID string            `json:"developer_id,omitempty"`
	PortalID    string            `json:"portal_id,omitempty"`
	Success     bool              `json:"success"`
	Error       string            `json:"error,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, AuditEvent) {}

type ChannelSink struct {
	events chan AuditEvent
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan AuditEvent, buffer),
	}
}

func (s *ChannelSink) Emit(ctx context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Events() <-chan AuditEvent {
	return s.events
}

type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

func (s *JSONWriterSink) Emit(ctx context.Context, event AuditEvent) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := sonic.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}
