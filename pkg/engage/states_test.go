package engage

import "testing"

func TestNextStateTable(t *testing.T) {
	testCases := []struct {
		name    string
		current State
		message string
		want    State
	}{
		{"initial urgency", StateInitial, "act now, this is urgent", StateConfused},
		{"initial payment", StateInitial, "you need to pay the fee", StateTrusting},
		{"initial neutral", StateInitial, "hello there", StateInitial},
		{"confused credentials", StateConfused, "give me your otp", StateExit},
		{"confused urgency", StateConfused, "do it immediately", StateStalling},
		{"confused neutral", StateConfused, "how are you", StateConfused},
		{"trusting credentials", StateTrusting, "what is your password", StateExit},
		{"trusting urgency", StateTrusting, "quick, hurry up", StateStalling},
		{"trusting neutral", StateTrusting, "nice weather", StateTrusting},
		{"stalling credentials", StateStalling, "enter your pin", StateExit},
		{"stalling anything else", StateStalling, "urgent! pay the bank now", StateStalling},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextState(tc.current, tc.message); got != tc.want {
				t.Errorf("NextState(%s, %q) = %s, want %s", tc.current, tc.message, got, tc.want)
			}
		})
	}
}

func TestExitIsAbsorbing(t *testing.T) {
	messages := []string{
		"hello", "urgent, act now", "pay immediately", "give me your password", "",
	}
	for _, msg := range messages {
		if got := NextState(StateExit, msg); got != StateExit {
			t.Errorf("Exit must absorb %q, got %s", msg, got)
		}
	}
}
