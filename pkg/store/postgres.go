package store

import (
	"context"
	"encoding/json"
	"log"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scamshield/scamshield/pkg/bus"
)

// Execer is the slice of pgxpool.Pool the event writer needs; tests can
// substitute a fake.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ Execer = (*pgxpool.Pool)(nil)

// EventWriter copies bus events into Postgres as they are emitted. The bus
// history stays authoritative for the running process; the table is an
// audit trail that survives restarts. Writes are best-effort: a failed
// insert is logged and never interrupts delivery.
type EventWriter struct {
	pool Execer
}

// NewEventWriter wraps a Postgres pool.
func NewEventWriter(pool Execer) *EventWriter {
	return &EventWriter{pool: pool}
}

// Bind subscribes the writer to every event type it records.
func (w *EventWriter) Bind(b *bus.Bus) {
	for _, t := range []bus.EventType{
		bus.EventScamDetected,
		bus.EventScamConfirmed,
		bus.EventHoneypotEngaged,
		bus.EventRecoveryInitiated,
		bus.EventThreatIntelligence,
	} {
		b.Subscribe(t, w.record)
	}
}

const insertEventSQL = `
	INSERT INTO events (event_type, conversation_id, occurred_at, source_service, payload)
	VALUES ($1, $2, $3, $4, $5)
`

func (w *EventWriter) record(event bus.Event) {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		log.Printf("[STORE] marshal event payload %s: %v", event.EventType, err)
		return
	}

	_, err = w.pool.Exec(context.Background(), insertEventSQL,
		string(event.EventType), event.ConversationID, event.Timestamp,
		event.SourceService, payload)
	if err != nil {
		log.Printf("[STORE] insert event %s (conversation %s): %v",
			event.EventType, event.ConversationID, err)
	}
}
