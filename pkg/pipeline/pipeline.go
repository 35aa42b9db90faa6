// Package pipeline wires the detection stages together: detectors run
// concurrently over the conversation, fusion classifies the breakdown, and
// confirmed verdicts are routed to the event bus for engagement.
package pipeline

import (
	"errors"
	"log"

	"github.com/scamshield/scamshield/pkg/bus"
	"github.com/scamshield/scamshield/pkg/detect"
	"github.com/scamshield/scamshield/pkg/fusion"
	"github.com/scamshield/scamshield/pkg/handoff"
	"github.com/scamshield/scamshield/pkg/schema"
)

// ErrInvalidInput is returned for requests missing a conversation id or
// messages.
var ErrInvalidInput = errors.New("conversation_id and at least one message are required")

// Service runs the full detection pipeline for one conversation at a time.
// It is safe for concurrent use; per-request state never escapes Analyze.
type Service struct {
	detectors *detect.Set
	fusion    *fusion.Engine
	router    *handoff.Router
	bus       *bus.Bus
}

// NewService assembles the pipeline over shared components.
func NewService(detectors *detect.Set, engine *fusion.Engine, router *handoff.Router, b *bus.Bus) *Service {
	return &Service{
		detectors: detectors,
		fusion:    engine,
		router:    router,
		bus:       b,
	}
}

// Analyze scores a conversation and returns its verdict. Every analysis
// emits a SCAM_DETECTED event; confirmed verdicts additionally go through
// the handoff router, which publishes SCAM_CONFIRMED.
func (s *Service) Analyze(input schema.DetectorInput) (schema.Verdict, error) {
	if input.ConversationID == "" || len(input.Messages) == 0 {
		return schema.Verdict{}, ErrInvalidInput
	}

	breakdown := s.detectors.Run(input)
	verdict := s.fusion.Fuse(input, breakdown)

	log.Printf("[PIPELINE] conversation=%s probability=%.1f level=%s",
		verdict.ConversationID, verdict.ScamProbability, verdict.RiskLevel)

	s.bus.Emit(bus.Event{
		EventType:      bus.EventScamDetected,
		ConversationID: verdict.ConversationID,
		SourceService:  schema.ServiceScamDetection,
		Payload: map[string]any{
			"scam_probability":   verdict.ScamProbability,
			"risk_level":         string(verdict.RiskLevel),
			"detector_breakdown": verdict.Breakdown,
			"handoff_triggered":  verdict.HandoffTriggered,
		},
	})

	// Routing is best-effort: the verdict returned to the caller is final
	// whether or not downstream handling succeeds.
	s.router.Route(input, verdict)

	return verdict, nil
}
