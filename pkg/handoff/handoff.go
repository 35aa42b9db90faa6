// Package handoff turns confirmed verdicts into SCAM_CONFIRMED events.
// The router labels the scam type from the detector breakdown with a fixed
// rule chain and publishes the confirmation on the event bus; it never
// publishes for a verdict whose handoff flag is unset.
package handoff

import (
	"log"

	"github.com/scamshield/scamshield/pkg/bus"
	"github.com/scamshield/scamshield/pkg/detect"
	"github.com/scamshield/scamshield/pkg/schema"
)

// RecommendedAction is the action attached to every confirmation.
const RecommendedAction = "honeypot_engagement"

// Router publishes confirmed scams to the event bus.
type Router struct {
	bus *bus.Bus
}

// NewRouter builds a router bound to a bus.
func NewRouter(b *bus.Bus) *Router {
	return &Router{bus: b}
}

// Route inspects a verdict and, if its handoff flag is set, classifies the
// scam type and emits a SCAM_CONFIRMED event. It returns the confirmation
// event, or nil when the verdict does not trigger a handoff. The event
// payload carries the sender id and a pattern snapshot of the conversation
// so the historical detector can learn from it.
func (r *Router) Route(input schema.DetectorInput, verdict schema.Verdict) *schema.ConfirmedEvent {
	if !verdict.HandoffTriggered {
		return nil
	}

	confirmed := &schema.ConfirmedEvent{
		ConversationID:    verdict.ConversationID,
		ScamProbability:   verdict.ScamProbability,
		RiskLevel:         verdict.RiskLevel,
		Breakdown:         verdict.Breakdown,
		ScamType:          ClassifyScamType(verdict.Breakdown),
		RecommendedAction: RecommendedAction,
		Metadata:          verdict.Metadata,
	}

	log.Printf("[HANDOFF] confirmed scam %s type=%s probability=%.1f",
		confirmed.ConversationID, confirmed.ScamType, confirmed.ScamProbability)

	r.bus.Emit(bus.Event{
		EventType:      bus.EventScamConfirmed,
		ConversationID: confirmed.ConversationID,
		SourceService:  schema.ServiceScamDetection,
		Payload: map[string]any{
			"scam_probability":   confirmed.ScamProbability,
			"risk_level":         string(confirmed.RiskLevel),
			"detector_breakdown": confirmed.Breakdown,
			"scam_type":          confirmed.ScamType,
			"recommended_action": confirmed.RecommendedAction,
			"sender_id":          input.SenderMetadata.UserID,
			"pattern":            detect.SnapshotPattern(input),
		},
	})

	return confirmed
}

// ClassifyScamType labels the scam from the detector breakdown. The rules
// are checked in priority order and the first match wins.
func ClassifyScamType(b schema.DetectorBreakdown) string {
	switch {
	case b.IdentityMismatchScore > 0.7:
		return schema.ScamTypeImpersonation
	case b.LinguisticScore > 0.7 && b.BehavioralScore > 0.7:
		return schema.ScamTypeSocialEngineering
	case b.LinkInfrastructureScore > 0.7:
		return schema.ScamTypePhishing
	case b.LinguisticScore > 0.7:
		return schema.ScamTypeRomanceAdvanceFee
	default:
		return schema.ScamTypeUnknown
	}
}
