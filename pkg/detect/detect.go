// Package detect implements the five independent signal detectors that feed
// the risk fusion engine. Every detector maps a conversation plus sender
// metadata to a normalized suspicion score in [0.0, 1.0].
//
// Detectors are fail-soft: any internal failure is recovered, logged, and
// converted to a neutral 0.0 — a broken detector must never abort the
// pipeline. All regex patterns are compiled once at package init.
package detect

import (
	"log"
	"strings"
	"sync"

	"github.com/scamshield/scamshield/pkg/schema"
)

// Detector scores one conversation. Implementations other than Historical
// are stateless and safe for concurrent use.
type Detector interface {
	Name() string
	Analyze(input schema.DetectorInput) float64
}

// Set is the fixed collection of detectors feeding one fusion engine.
type Set struct {
	Linguistic Detector
	Behavioral Detector
	Link       Detector
	Identity   Detector
	Historical *HistoricalDetector
}

// NewSet builds the standard detector set. The historical detector learns
// only when bound to an event bus; see HistoricalDetector.Bind.
func NewSet() *Set {
	return &Set{
		Linguistic: NewLinguisticDetector(),
		Behavioral: NewBehavioralDetector(),
		Link:       NewLinkDetector(),
		Identity:   NewIdentityDetector(),
		Historical: NewHistoricalDetector(),
	}
}

// Run executes all five detectors concurrently and assembles the breakdown.
// Detectors are order-insensitive and independent; the only shared state is
// the historical knowledge base, which guards itself.
func (s *Set) Run(input schema.DetectorInput) schema.DetectorBreakdown {
	var breakdown schema.DetectorBreakdown
	var wg sync.WaitGroup

	run := func(d Detector, dst *float64) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			*dst = safeScore(d, input)
		}()
	}

	run(s.Linguistic, &breakdown.LinguisticScore)
	run(s.Behavioral, &breakdown.BehavioralScore)
	run(s.Link, &breakdown.LinkInfrastructureScore)
	run(s.Identity, &breakdown.IdentityMismatchScore)
	run(s.Historical, &breakdown.HistoricalScore)
	wg.Wait()

	return breakdown
}

// safeScore runs one detector, recovering panics to the neutral score and
// clamping the result into [0, 1].
func safeScore(d Detector, input schema.DetectorInput) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[DETECT] %s detector failed on %s: %v",
				d.Name(), input.ConversationID, r)
			score = 0.0
		}
	}()
	return clamp01(d.Analyze(input))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// fullText lowercases and joins all message content, the shared input shape
// for the text-level detectors.
func fullText(messages []schema.Message) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		parts = append(parts, m.Content)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// jaccard computes token-set overlap between two strings in [0, 1].
func jaccard(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0.0
	}

	intersection := 0
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			intersection++
		}
	}
	union := len(ta) + len(tb) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		set[tok] = struct{}{}
	}
	return set
}
