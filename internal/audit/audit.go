package audit

import (
	"context"
	"time"

	"github.com/emrgen/compliance/internal/model"
	"github.com/emrgen/compliance/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Action is what the principal did to the document.
type Action string

const (
	ActionUpload   Action = "UPLOAD"
	ActionView     Action = "VIEW"
	ActionDownload Action = "DOWNLOAD"
	ActionActivate Action = "ACTIVATE"
	ActionArchive  Action = "ARCHIVE"
	ActionDelete   Action = "DELETE"
	ActionLink     Action = "LINK"
	ActionUnlink   Action = "UNLINK"
)

// Event is one access-log record. AccessLevel carries the resolver verdict
// under which the action was allowed, so the log answers not only who did
// what but on what grant.
type Event struct {
	PrincipalID string
	DocumentID  string
	VersionID   *string
	Action      Action
	AccessLevel string
	At          time.Time
}

// Sink records access events. Implementations are fire and forget; they must
// never fail the operation being recorded.
type Sink interface {
	Record(ctx context.Context, event Event)
}

// StoreSink persists events to the access_log table. Write failures are
// logged and dropped.
type StoreSink struct {
	store store.AccessLogStore
}

var _ Sink = (*StoreSink)(nil)

func NewStoreSink(store store.AccessLogStore) *StoreSink {
	return &StoreSink{store: store}
}

func (s *StoreSink) Record(ctx context.Context, event Event) {
	at := event.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	entry := &model.AccessLogEntry{
		ID:          uuid.New().String(),
		PrincipalID: event.PrincipalID,
		DocumentID:  event.DocumentID,
		VersionID:   event.VersionID,
		Action:      string(event.Action),
		AccessLevel: event.AccessLevel,
		CreatedAt:   at,
	}

	if err := s.store.CreateAccessLogEntry(ctx, entry); err != nil {
		logrus.Errorf("failed to record access log event %s for document %s: %v", event.Action, event.DocumentID, err)
	}
}

// MemorySink collects events in memory for tests.
type MemorySink struct {
	Events []Event
}

var _ Sink = (*MemorySink)(nil)

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Record(ctx context.Context, event Event) {
	s.Events = append(s.Events, event)
}
