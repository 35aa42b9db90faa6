package detect

import (
	"testing"

	"github.com/scamshield/scamshield/pkg/bus"
	"github.com/scamshield/scamshield/pkg/schema"
)

func TestHistoricalUnknownSenderScoresZero(t *testing.T) {
	d := NewHistoricalDetector()
	if got := d.Analyze(makeInput("hello, first contact ever")); got != 0.0 {
		t.Errorf("empty knowledge base should score 0.0, got %f", got)
	}
}

func TestHistoricalBadActorShortCircuits(t *testing.T) {
	d := NewHistoricalDetector()
	d.RegisterBadActor("scammer-1")

	if got := d.Analyze(makeInput("totally innocent message")); got != 0.95 {
		t.Errorf("known bad actor: got %f, want 0.95", got)
	}
}

func TestHistoricalTacticMatch(t *testing.T) {
	d := NewHistoricalDetector()
	d.RegisterPattern(Pattern{
		ConversationID: "old",
		SenderID:       "other-scammer",
		Tactics:        []string{"account locked", "verify now"},
		Keywords:       []string{"urgent"},
	})

	input := makeInput("your account locked, verify now please")
	input.SenderMetadata.UserID = "someone-new"

	score := d.Analyze(input)
	if score < 0.3 || score > 0.8 {
		t.Errorf("reused tactics should score in (0.3, 0.8], got %f", score)
	}
}

func TestHistoricalLearnsOnlyFromConfirmedEvents(t *testing.T) {
	d := NewHistoricalDetector()
	b := bus.New()
	d.Bind(b)

	input := makeInput("urgent, send payment now, account locked")
	input.SenderMetadata.UserID = "fraudster-7"

	// Scoring alone must never mutate the knowledge base.
	d.Analyze(input)
	if stats := d.Stats(); stats["bad_actors"] != 0 || stats["patterns"] != 0 {
		t.Fatalf("scoring mutated the knowledge base: %v", stats)
	}

	b.Emit(bus.Event{
		EventType:      bus.EventScamConfirmed,
		ConversationID: input.ConversationID,
		SourceService:  schema.ServiceScamDetection,
		Payload: map[string]any{
			"sender_id": "fraudster-7",
			"pattern":   SnapshotPattern(input),
		},
	})

	stats := d.Stats()
	if stats["bad_actors"] != 1 {
		t.Errorf("expected 1 bad actor after confirmation, got %d", stats["bad_actors"])
	}
	if stats["patterns"] != 1 {
		t.Errorf("expected 1 stored pattern after confirmation, got %d", stats["patterns"])
	}

	if got := d.Analyze(input); got != 0.95 {
		t.Errorf("sender should now be a known bad actor scoring 0.95, got %f", got)
	}
}

func TestSnapshotPattern(t *testing.T) {
	input := makeInput("URGENT: verify now or your account locked forever")
	p := SnapshotPattern(input)

	if !p.ContainsUrgency {
		t.Error("snapshot should flag urgency")
	}
	if !p.ContainsRequest {
		t.Error("snapshot should flag a request (verify)")
	}
	if p.MessageCount != 1 {
		t.Errorf("message count: got %d, want 1", p.MessageCount)
	}
	if len(p.Tactics) == 0 {
		t.Error("snapshot should record fired tactic phrases")
	}
}
