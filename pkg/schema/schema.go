// Package schema defines the shared data model for the scam intelligence
// engine: conversation input, detector breakdowns, verdicts, and the
// confirmation event handed to the engagement pipeline. These types are the
// contract between the detection pipeline, the event bus, and every
// downstream consumer.
package schema

import "time"

// RiskLevel classifies a fused scam probability into a severity tier.
type RiskLevel string

const (
	RiskSafe       RiskLevel = "safe"
	RiskSuspicious RiskLevel = "suspicious"
	RiskHigh       RiskLevel = "high"
	RiskConfirmed  RiskLevel = "confirmed"
)

// Rank returns the ordinal position of the risk level
// (safe < suspicious < high < confirmed). Unknown levels rank as safe.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskConfirmed:
		return 3
	case RiskHigh:
		return 2
	case RiskSuspicious:
		return 1
	default:
		return 0
	}
}

// Scam type labels produced by the handoff router.
const (
	ScamTypePhishing          = "phishing"
	ScamTypeImpersonation     = "impersonation"
	ScamTypeSocialEngineering = "social_engineering"
	ScamTypeRomanceAdvanceFee = "romance_or_advance_fee"
	ScamTypeUnknown           = "unknown"
)

// Detector names used as weight keys in configuration.
const (
	DetectorLinguistic         = "linguistic"
	DetectorBehavioral         = "behavioral"
	DetectorLinkInfrastructure = "link_infrastructure"
	DetectorIdentityMismatch   = "identity_mismatch"
	DetectorHistorical         = "historical"
)

// Service names stamped on event envelopes.
const (
	ServiceScamDetection = "scam_detection"
	ServiceHoneypot      = "honeypot"
)

// Message is a single conversation message. Immutable once created;
// conversations are ordered by timestamp.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SenderMetadata describes what is known about the conversation's sender.
// Attached per conversation, not per message. Zero values mean "unknown".
type SenderMetadata struct {
	UserID             string `json:"user_id"`
	AccountAgeDays     int    `json:"account_age_days,omitempty"`
	VerificationStatus string `json:"verification_status,omitempty"` // "verified" | "unverified" | ""
	PreviousReports    int    `json:"previous_reports,omitempty"`
}

// DetectorInput is the validated unit of work passed to every detector.
// The HTTP layer guarantees ConversationID is set and Messages is non-empty.
type DetectorInput struct {
	ConversationID string         `json:"conversation_id"`
	Messages       []Message      `json:"messages"`
	SenderMetadata SenderMetadata `json:"sender_metadata"`
}

// DetectorBreakdown holds the five normalized detector scores.
// Every field lies in [0.0, 1.0]. Produced fresh per fusion call.
type DetectorBreakdown struct {
	LinguisticScore         float64 `json:"linguistic_score"`
	BehavioralScore         float64 `json:"behavioral_score"`
	LinkInfrastructureScore float64 `json:"link_infrastructure_score"`
	IdentityMismatchScore   float64 `json:"identity_mismatch_score"`
	HistoricalScore         float64 `json:"historical_score"`
}

// Verdict is the result of fusing a detector breakdown.
// Invariant: HandoffTriggered is true if and only if RiskLevel is confirmed.
type Verdict struct {
	ConversationID   string            `json:"conversation_id"`
	ScamProbability  float64           `json:"scam_probability"` // 0-100
	RiskLevel        RiskLevel         `json:"risk_level"`
	Breakdown        DetectorBreakdown `json:"breakdown"`
	HandoffTriggered bool              `json:"handoff_triggered"`
	Metadata         map[string]any    `json:"metadata,omitempty"`
}

// ConfirmedEvent is emitted at most once per triggering verdict and carries
// everything the engagement pipeline needs to take over the conversation.
type ConfirmedEvent struct {
	ConversationID    string            `json:"conversation_id"`
	ScamProbability   float64           `json:"scam_probability"`
	RiskLevel         RiskLevel         `json:"risk_level"`
	Breakdown         DetectorBreakdown `json:"detector_breakdown"`
	ScamType          string            `json:"scam_type"`
	RecommendedAction string            `json:"recommended_action"`
	Metadata          map[string]any    `json:"metadata,omitempty"`
}
