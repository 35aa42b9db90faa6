package detect

import (
	"strings"

	"github.com/scamshield/scamshield/pkg/schema"
)

// pressureKeywords flag demands for immediate action. A message counts at
// most once regardless of how many keywords it contains.
var pressureKeywords = []string{
	"immediately", "urgent", "now", "must", "required", "don't delay", "act fast",
}

// BehavioralDetector scores conversation dynamics: message frequency,
// instruction repetition, script rigidity (ignoring questions), and
// pressure-tactic density. Sub-scores combine with fixed weights
// 0.30/0.25/0.25/0.20.
type BehavioralDetector struct {
	repetitionThreshold float64
	rigidityThreshold   float64
}

func NewBehavioralDetector() *BehavioralDetector {
	return &BehavioralDetector{
		repetitionThreshold: 0.6,
		rigidityThreshold:   0.3,
	}
}

func (d *BehavioralDetector) Name() string { return schema.DetectorBehavioral }

func (d *BehavioralDetector) Analyze(input schema.DetectorInput) float64 {
	messages := input.Messages
	if len(messages) == 0 {
		return 0.0
	}

	frequency := d.messageFrequency(messages)
	repetition := d.instructionRepetition(messages)
	rigidity := d.scriptRigidity(messages)
	pressure := d.pressureTactics(messages)

	score := frequency*0.30 + repetition*0.25 + rigidity*0.25 + pressure*0.20
	return clamp01(score)
}

// messageFrequency tiers the per-sender average inter-message interval:
// under 2 minutes scores 0.8, under 5 scores 0.5, otherwise 0.1. The worst
// sender dominates.
func (d *BehavioralDetector) messageFrequency(messages []schema.Message) float64 {
	if len(messages) < 2 {
		return 0.0
	}

	bySender := make(map[string][]schema.Message)
	for _, m := range messages {
		bySender[m.Sender] = append(bySender[m.Sender], m)
	}

	best := 0.0
	for _, msgs := range bySender {
		if len(msgs) < 2 {
			continue
		}

		totalMinutes := 0.0
		for i := 1; i < len(msgs); i++ {
			totalMinutes += msgs[i].Timestamp.Sub(msgs[i-1].Timestamp).Minutes()
		}
		avg := totalMinutes / float64(len(msgs)-1)

		var score float64
		switch {
		case avg < 2:
			score = 0.8
		case avg < 5:
			score = 0.5
		default:
			score = 0.1
		}
		if score > best {
			best = score
		}
	}
	return best
}

// instructionRepetition counts message pairs whose token-Jaccard similarity
// exceeds the repetition threshold, normalized by the number of possible
// pairs.
func (d *BehavioralDetector) instructionRepetition(messages []schema.Message) float64 {
	if len(messages) < 3 {
		return 0.0
	}

	duplicates := 0
	for i := 0; i < len(messages); i++ {
		for j := i + 1; j < len(messages); j++ {
			if jaccard(messages[i].Content, messages[j].Content) > d.repetitionThreshold {
				duplicates++
			}
		}
	}

	maxPairs := len(messages) * (len(messages) - 1) / 2
	if maxPairs == 0 {
		return 0.0
	}
	return clamp01(float64(duplicates) / float64(maxPairs))
}

// scriptRigidity flags adjacent cross-sender pairs where a question is
// answered with unrelated content — the signature of a scammer working
// through a script.
func (d *BehavioralDetector) scriptRigidity(messages []schema.Message) float64 {
	if len(messages) < 3 {
		return 0.0
	}

	rigid := 0
	responsePairs := 0
	for i := 0; i < len(messages)-1; i++ {
		cur, next := messages[i], messages[i+1]
		if cur.Sender == next.Sender {
			continue
		}
		responsePairs++
		if strings.Contains(cur.Content, "?") &&
			jaccard(cur.Content, next.Content) < d.rigidityThreshold {
			rigid++
		}
	}

	if responsePairs == 0 {
		return 0.0
	}
	return clamp01(float64(rigid) / float64(responsePairs))
}

// pressureTactics is the ratio of messages containing at least one pressure
// keyword.
func (d *BehavioralDetector) pressureTactics(messages []schema.Message) float64 {
	hits := 0
	for _, m := range messages {
		content := strings.ToLower(m.Content)
		for _, kw := range pressureKeywords {
			if strings.Contains(content, kw) {
				hits++
				break
			}
		}
	}
	return clamp01(float64(hits) / float64(len(messages)))
}
