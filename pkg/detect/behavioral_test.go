package detect

import (
	"testing"
	"time"

	"github.com/scamshield/scamshield/pkg/schema"
)

func timedMessages(sender string, gap time.Duration, contents ...string) []schema.Message {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	out := make([]schema.Message, len(contents))
	for i, content := range contents {
		out[i] = schema.Message{
			ID:        "m" + string(rune('0'+i)),
			Sender:    sender,
			Content:   content,
			Timestamp: base.Add(time.Duration(i) * gap),
		}
	}
	return out
}

func TestMessageFrequencyTiers(t *testing.T) {
	d := NewBehavioralDetector()

	testCases := []struct {
		name string
		gap  time.Duration
		want float64
	}{
		{"rapid fire", time.Minute, 0.8},
		{"moderate", 3 * time.Minute, 0.5},
		{"relaxed", 30 * time.Minute, 0.1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			msgs := timedMessages("s1", tc.gap, "one", "two", "three")
			if got := d.messageFrequency(msgs); got != tc.want {
				t.Errorf("gap %v: got %f, want %f", tc.gap, got, tc.want)
			}
		})
	}
}

func TestInstructionRepetition(t *testing.T) {
	d := NewBehavioralDetector()

	repeated := timedMessages("s1", 10*time.Minute,
		"send the payment to this account now",
		"send the payment to this account now",
		"send the payment to this account now",
	)
	if got := d.instructionRepetition(repeated); got != 1.0 {
		t.Errorf("identical messages: got %f, want 1.0", got)
	}

	varied := timedMessages("s1", 10*time.Minute,
		"hello there",
		"how is the weather today",
		"my cat likes cardboard boxes",
	)
	if got := d.instructionRepetition(varied); got != 0.0 {
		t.Errorf("varied messages: got %f, want 0.0", got)
	}
}

func TestScriptRigidity(t *testing.T) {
	d := NewBehavioralDetector()

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	msgs := []schema.Message{
		{ID: "m0", Sender: "victim", Content: "why do you need my account number?", Timestamp: base},
		{ID: "m1", Sender: "scammer", Content: "send payment immediately to unlock reward", Timestamp: base.Add(10 * time.Minute)},
		{ID: "m2", Sender: "victim", Content: "that seems odd", Timestamp: base.Add(20 * time.Minute)},
	}

	if got := d.scriptRigidity(msgs); got <= 0 {
		t.Errorf("ignored question should register rigidity, got %f", got)
	}
}

func TestPressureTactics(t *testing.T) {
	d := NewBehavioralDetector()

	msgs := timedMessages("s1", 10*time.Minute,
		"you must act fast",
		"this is urgent",
		"just checking in",
		"hello again",
	)
	if got := d.pressureTactics(msgs); got != 0.5 {
		t.Errorf("got %f, want 0.5", got)
	}
}

func TestBehavioralAnalyzeEmptyConversation(t *testing.T) {
	d := NewBehavioralDetector()
	if got := d.Analyze(schema.DetectorInput{ConversationID: "c"}); got != 0.0 {
		t.Errorf("empty conversation: got %f, want 0.0", got)
	}
}
