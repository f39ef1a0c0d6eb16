// Package audit provides the change-trail for mutating operations.
// Entries record who changed what; the storage layer may compress large
// change payloads.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"stockpilot/internal/core/id"
)

// Action is the type of audited operation.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"

	// ActionAdjust marks a manual inventory quantity overwrite that
	// bypasses the movement ledger.
	ActionAdjust Action = "adjust"
)

// Entry is one audit-trail record.
type Entry struct {
	ID       id.ID  `db:"id" json:"id"`
	Action   Action `db:"action" json:"action"`
	Entity   string `db:"entity" json:"entity"`
	EntityID string `db:"entity_id" json:"entityId"`
	ActorID  string `db:"actor_id" json:"actorId"`

	// Changes holds the JSON payload describing the mutation
	Changes json.RawMessage `db:"changes" json:"changes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewEntry creates an Entry with generated ID and timestamp.
func NewEntry(action Action, entity, entityID, actorID string, changes any) (*Entry, error) {
	var payload json.RawMessage
	if changes != nil {
		b, err := json.Marshal(changes)
		if err != nil {
			return nil, err
		}
		payload = b
	}
	return &Entry{
		ID:        id.New(),
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		ActorID:   actorID,
		Changes:   payload,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Recorder persists audit entries. Implementations must not fail the
// business operation: recording is best-effort and errors are logged by
// the caller.
type Recorder interface {
	Record(ctx context.Context, entry *Entry) error
}

// NopRecorder discards entries. Used in tests and when auditing is disabled.
type NopRecorder struct{}

func (NopRecorder) Record(ctx context.Context, entry *Entry) error { return nil }
