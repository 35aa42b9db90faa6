package detect

import (
	"testing"
)

func TestLinguisticDetector(t *testing.T) {
	d := NewLinguisticDetector()

	testCases := []struct {
		name     string
		messages []string
		min, max float64
	}{
		{
			name:     "benign support chat",
			messages: []string{"hi, I wanted to ask about my order", "it arrived yesterday, thanks"},
			min:      0.0,
			max:      0.1,
		},
		{
			name: "urgency and fear loaded",
			messages: []string{
				"URGENT: act now, your account suspended, verify now immediately",
				"suspicious activity on file, this is your final warning, hurry",
			},
			min: 0.3,
			max: 1.0,
		},
		{
			name: "authority and reward",
			messages: []string{
				"this is the irs calling on behalf of the federal government, you have won a prize of $50000",
			},
			min: 0.1,
			max: 1.0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			score := d.Analyze(makeInput(tc.messages...))
			if score < tc.min || score > tc.max {
				t.Errorf("score %f outside [%f, %f]", score, tc.min, tc.max)
			}
		})
	}
}

func TestLinguisticScoreMonotonicInSignals(t *testing.T) {
	d := NewLinguisticDetector()

	mild := d.Analyze(makeInput("please verify your account"))
	loaded := d.Analyze(makeInput(
		"URGENT act now immediately, final warning, your account will be suspended and you will lose access, this is the bank security team, claim your prize of $90000"))

	if loaded <= mild {
		t.Errorf("loaded message %f should outscore mild %f", loaded, mild)
	}
}

func TestCategoryScoreCapped(t *testing.T) {
	// Many urgency hits must still cap the category at 1.0.
	text := "urgent urgent act now act now immediately immediately expires today final warning last chance"
	if got := categoryScore(text, urgencyPatterns, 0.25); got > 1.0 {
		t.Errorf("category score %f exceeds cap", got)
	}
}

func BenchmarkLinguisticAnalyze(b *testing.B) {
	d := NewLinguisticDetector()
	input := makeInput(
		"URGENT act now immediately, your account suspended, verify now",
		"congratulations you won a prize of $90000, claim it before it expires today",
	)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = d.Analyze(input)
	}
}
