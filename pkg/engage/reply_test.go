package engage

import (
	"strings"
	"testing"
)

func TestReplyDeterministic(t *testing.T) {
	persona := Lookup(PersonaElderlyPensioner)
	first := Reply(persona, StateConfused)
	for i := 0; i < 5; i++ {
		if got := Reply(persona, StateConfused); got != first {
			t.Fatalf("reply diverged on run %d: %q != %q", i, got, first)
		}
	}
}

func TestReplyGreetingMatchesTone(t *testing.T) {
	testCases := []struct {
		key    PersonaKey
		prefix string
	}{
		{PersonaElderlyPensioner, "Hello dear"},
		{PersonaMiddleClassEmployee, "Good day"},
		{PersonaStudent, "Hey"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.key), func(t *testing.T) {
			reply := Reply(Lookup(tc.key), StateInitial)
			if !strings.HasPrefix(reply, tc.prefix) {
				t.Errorf("reply %q should open with %q", reply, tc.prefix)
			}
		})
	}
}

func TestReplyPerState(t *testing.T) {
	persona := Lookup(PersonaMiddleClassEmployee)

	testCases := []struct {
		state    State
		fragment string
	}{
		{StateInitial, "How can I help you today?"},
		{StateConfused, "Can you explain again?"},
		{StateTrusting, "I trust you"},
		{StateStalling, "Let's talk later."},
		{StateExit, "Goodbye."},
	}

	for _, tc := range testCases {
		t.Run(string(tc.state), func(t *testing.T) {
			reply := Reply(persona, tc.state)
			if !strings.Contains(reply, tc.fragment) {
				t.Errorf("reply for %s should contain %q, got %q", tc.state, tc.fragment, reply)
			}
		})
	}
}

func TestPersonaForScamType(t *testing.T) {
	testCases := []struct {
		scamType string
		want     PersonaKey
	}{
		{"social_engineering", PersonaMiddleClassEmployee},
		{"romance_or_advance_fee", PersonaStudent},
		{"phishing", PersonaElderlyPensioner},
		{"impersonation", PersonaElderlyPensioner},
		{"unknown", PersonaElderlyPensioner},
	}

	for _, tc := range testCases {
		if got := PersonaForScamType(tc.scamType); got != tc.want {
			t.Errorf("PersonaForScamType(%s) = %s, want %s", tc.scamType, got, tc.want)
		}
	}
}
