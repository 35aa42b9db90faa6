package detect

import (
	"log"
	"strings"
	"sync"

	"github.com/scamshield/scamshield/pkg/bus"
	"github.com/scamshield/scamshield/pkg/schema"
)

// Feature keywords used for pattern snapshots. These drive the boolean
// flags stored with every confirmed scam and re-derived at scoring time.
var (
	snapshotUrgencyWords = []string{"urgent", "asap", "quick", "now", "immediately"}
	snapshotRequestWords = []string{"need", "send", "transfer", "pay", "click", "verify"}
)

// Pattern is the feature snapshot of a confirmed scam conversation, stored
// by the historical detector and compared against future conversations.
type Pattern struct {
	ConversationID  string   `json:"conversation_id"`
	SenderID        string   `json:"sender_id"`
	MessageCount    int      `json:"message_count"`
	TotalLength     int      `json:"total_length"`
	ContainsUrgency bool     `json:"contains_urgency"`
	ContainsRequest bool     `json:"contains_request"`
	Tactics         []string `json:"tactics,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
}

// SnapshotPattern extracts the storable feature snapshot from a
// conversation: counts, length, boolean tactic flags, and the concrete
// phrases that fired, so future conversations can be matched on them.
func SnapshotPattern(input schema.DetectorInput) Pattern {
	text := fullText(input.Messages)

	p := Pattern{
		ConversationID:  input.ConversationID,
		SenderID:        input.SenderMetadata.UserID,
		MessageCount:    len(input.Messages),
		TotalLength:     len(text),
		ContainsUrgency: containsAny(text, snapshotUrgencyWords),
		ContainsRequest: containsAny(text, snapshotRequestWords),
	}

	for _, w := range snapshotUrgencyWords {
		if strings.Contains(text, w) {
			p.Keywords = append(p.Keywords, w)
		}
	}
	for _, w := range snapshotRequestWords {
		if strings.Contains(text, w) {
			p.Keywords = append(p.Keywords, w)
		}
	}
	for _, phrase := range tacticPhrases {
		if strings.Contains(text, phrase) {
			p.Tactics = append(p.Tactics, phrase)
		}
	}
	return p
}

// tacticPhrases are multi-word scam moves worth remembering verbatim; a
// future conversation reusing one is matched by tacticScore.
var tacticPhrases = []string{
	"account locked", "account suspended", "verify now", "click here",
	"act now", "limited time", "confirm identity", "update payment",
	"suspicious activity", "pay now",
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// HistoricalDetector scores conversations against accumulated scam
// intelligence: known bad actors, tactics, keywords, and feature-pattern
// similarity. It is the single piece of cross-request mutable state in the
// detector layer; the knowledge base is written only from the confirmed-scam
// subscription and every access goes through the mutex.
type HistoricalDetector struct {
	mu sync.RWMutex

	knownBadActors map[string]struct{}
	knownTactics   map[string]int
	knownKeywords  map[string]struct{}
	patterns       []Pattern
}

func NewHistoricalDetector() *HistoricalDetector {
	return &HistoricalDetector{
		knownBadActors: make(map[string]struct{}),
		knownTactics:   make(map[string]int),
		knownKeywords:  make(map[string]struct{}),
	}
}

func (d *HistoricalDetector) Name() string { return schema.DetectorHistorical }

// Bind subscribes the detector to confirmed-scam events so it learns from
// every handoff. Learning happens only through this subscription (or the
// explicit Register methods); scoring never mutates the knowledge base.
func (d *HistoricalDetector) Bind(b *bus.Bus) {
	b.Subscribe(bus.EventScamConfirmed, d.handleConfirmed)
}

func (d *HistoricalDetector) handleConfirmed(event bus.Event) {
	senderID, _ := event.Payload["sender_id"].(string)
	if senderID != "" {
		d.RegisterBadActor(senderID)
	}

	pattern, ok := event.Payload["pattern"].(Pattern)
	if !ok {
		log.Printf("[HISTORICAL] confirmed event for %s carried no pattern snapshot",
			event.ConversationID)
		return
	}
	d.RegisterPattern(pattern)
}

// RegisterBadActor blacklists a sender id.
func (d *HistoricalDetector) RegisterBadActor(actorID string) {
	if actorID == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.knownBadActors[actorID] = struct{}{}
	log.Printf("[HISTORICAL] registered bad actor %s", actorID)
}

// RegisterPattern stores a confirmed scam snapshot and indexes its tactics
// and keywords for fast lookup.
func (d *HistoricalDetector) RegisterPattern(p Pattern) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.patterns = append(d.patterns, p)
	for _, tactic := range p.Tactics {
		d.knownTactics[strings.ToLower(tactic)]++
	}
	for _, kw := range p.Keywords {
		d.knownKeywords[strings.ToLower(kw)] = struct{}{}
	}
	log.Printf("[HISTORICAL] registered pattern from %s (%d total)",
		p.ConversationID, len(d.patterns))
}

// Analyze checks the knowledge base in short-circuit order: exact bad-actor
// match, known tactics, known keywords, then nearest-pattern similarity.
func (d *HistoricalDetector) Analyze(input schema.DetectorInput) float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if _, bad := d.knownBadActors[input.SenderMetadata.UserID]; bad {
		return 0.95
	}

	text := fullText(input.Messages)

	if score := d.tacticScore(text); score > 0 {
		return score
	}
	if score := d.keywordScore(text); score > 0 {
		return score
	}
	return d.patternScore(input, text)
}

func (d *HistoricalDetector) tacticScore(text string) float64 {
	if len(d.knownTactics) == 0 {
		return 0.0
	}
	matched := 0
	for tactic := range d.knownTactics {
		if strings.Contains(text, tactic) {
			matched++
		}
	}
	if matched == 0 {
		return 0.0
	}
	score := 0.3 * float64(matched)
	if score > 0.8 {
		return 0.8
	}
	return score
}

func (d *HistoricalDetector) keywordScore(text string) float64 {
	if len(d.knownKeywords) == 0 {
		return 0.0
	}
	count := 0
	for kw := range d.knownKeywords {
		if strings.Contains(text, kw) {
			count++
		}
	}
	if count == 0 {
		return 0.0
	}
	score := 0.1 * float64(count)
	if score > 0.7 {
		return 0.7
	}
	return score
}

// patternScore blends boolean-flag agreement with the message-count ratio
// against the nearest stored pattern, capped at 0.6.
func (d *HistoricalDetector) patternScore(input schema.DetectorInput, text string) float64 {
	if len(d.patterns) == 0 {
		return 0.0
	}

	current := Pattern{
		MessageCount:    len(input.Messages),
		TotalLength:     len(text),
		ContainsUrgency: containsAny(text, snapshotUrgencyWords),
		ContainsRequest: containsAny(text, snapshotRequestWords),
	}

	best := 0.0
	for _, p := range d.patterns {
		if sim := patternSimilarity(current, p); sim > best {
			best = sim
		}
	}
	if best > 0.6 {
		return 0.6
	}
	return best
}

func patternSimilarity(a, b Pattern) float64 {
	similarity := 0.0
	comparisons := 0

	if a.ContainsUrgency == b.ContainsUrgency {
		similarity += 0.25
	}
	comparisons++
	if a.ContainsRequest == b.ContainsRequest {
		similarity += 0.25
	}
	comparisons++

	if a.MessageCount > 0 && b.MessageCount > 0 {
		lo, hi := a.MessageCount, b.MessageCount
		if lo > hi {
			lo, hi = hi, lo
		}
		similarity += 0.25 * float64(lo) / float64(hi)
		comparisons++
	}

	return similarity / float64(comparisons)
}

// Stats summarizes the knowledge base, for diagnostics endpoints.
func (d *HistoricalDetector) Stats() map[string]int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return map[string]int{
		"patterns":   len(d.patterns),
		"bad_actors": len(d.knownBadActors),
		"tactics":    len(d.knownTactics),
		"keywords":   len(d.knownKeywords),
	}
}
