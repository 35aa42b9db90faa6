// Package fusion combines the five detector scores into a single scam
// probability and risk tier. Weights and thresholds are injected at
// construction; loading them is the configuration layer's job.
//
// Fusion is fail-closed: if anything goes wrong internally, the engine
// returns probability 0, tier safe, handoff false. The system must never
// fail open into a false handoff.
package fusion

import (
	"fmt"
	"log"

	"github.com/scamshield/scamshield/pkg/schema"
)

// Weights maps detector names (schema.Detector* constants) to their share
// of the fused score. Weights need not sum to 1; the average is normalized
// by their sum. An empty map falls back to a simple unweighted average.
type Weights map[string]float64

// Thresholds are the monotonic risk-tier cutoffs on the 0-100 scale.
type Thresholds struct {
	Confirmed  float64 `yaml:"confirmed"`
	High       float64 `yaml:"high"`
	Suspicious float64 `yaml:"suspicious"`
}

// DefaultWeights gives each detector an equal share.
func DefaultWeights() Weights {
	return Weights{
		schema.DetectorLinguistic:         0.2,
		schema.DetectorBehavioral:         0.2,
		schema.DetectorLinkInfrastructure: 0.2,
		schema.DetectorIdentityMismatch:   0.2,
		schema.DetectorHistorical:         0.2,
	}
}

// DefaultThresholds returns the standard cutoffs: confirmed >= 85,
// high >= 70, suspicious >= 30, else safe.
func DefaultThresholds() Thresholds {
	return Thresholds{Confirmed: 85, High: 70, Suspicious: 30}
}

// Engine fuses detector breakdowns into verdicts.
type Engine struct {
	weights    Weights
	thresholds Thresholds
}

// NewEngine builds a fusion engine. A nil or empty weights map selects the
// unweighted-average fallback; zero-value thresholds are replaced by the
// defaults.
func NewEngine(weights Weights, thresholds Thresholds) *Engine {
	if thresholds == (Thresholds{}) {
		thresholds = DefaultThresholds()
	}
	return &Engine{weights: weights, thresholds: thresholds}
}

// Fuse computes the weighted probability for one conversation and
// classifies it. The returned verdict always satisfies
// HandoffTriggered == (RiskLevel == confirmed).
func (e *Engine) Fuse(input schema.DetectorInput, breakdown schema.DetectorBreakdown) schema.Verdict {
	verdict, err := e.fuse(input, breakdown)
	if err != nil {
		log.Printf("[FUSION] error fusing %s, failing closed: %v", input.ConversationID, err)
		return schema.Verdict{
			ConversationID:   input.ConversationID,
			ScamProbability:  0,
			RiskLevel:        schema.RiskSafe,
			Breakdown:        breakdown,
			HandoffTriggered: false,
		}
	}
	return verdict
}

func (e *Engine) fuse(input schema.DetectorInput, breakdown schema.DetectorBreakdown) (verdict schema.Verdict, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during fusion: %v", r)
		}
	}()

	probability := e.weightedAverage(breakdown) * 100
	level := e.Classify(probability)

	return schema.Verdict{
		ConversationID:   input.ConversationID,
		ScamProbability:  probability,
		RiskLevel:        level,
		Breakdown:        breakdown,
		HandoffTriggered: level == schema.RiskConfirmed,
		Metadata: map[string]any{
			"sender_id":     input.SenderMetadata.UserID,
			"message_count": len(input.Messages),
		},
	}, nil
}

func (e *Engine) weightedAverage(breakdown schema.DetectorBreakdown) float64 {
	scores := map[string]float64{
		schema.DetectorLinguistic:         breakdown.LinguisticScore,
		schema.DetectorBehavioral:         breakdown.BehavioralScore,
		schema.DetectorLinkInfrastructure: breakdown.LinkInfrastructureScore,
		schema.DetectorIdentityMismatch:   breakdown.IdentityMismatchScore,
		schema.DetectorHistorical:         breakdown.HistoricalScore,
	}

	weightedSum := 0.0
	weightSum := 0.0
	for name, score := range scores {
		weight := e.weights[name]
		weightedSum += score * weight
		weightSum += weight
	}

	if weightSum > 0 {
		return weightedSum / weightSum
	}

	// No weights configured: simple average.
	total := 0.0
	for _, score := range scores {
		total += score
	}
	return total / float64(len(scores))
}

// Classify maps a 0-100 probability to a risk tier. Classification is
// monotonic in the probability.
func (e *Engine) Classify(probability float64) schema.RiskLevel {
	switch {
	case probability >= e.thresholds.Confirmed:
		return schema.RiskConfirmed
	case probability >= e.thresholds.High:
		return schema.RiskHigh
	case probability >= e.thresholds.Suspicious:
		return schema.RiskSuspicious
	default:
		return schema.RiskSafe
	}
}
