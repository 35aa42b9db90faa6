package engage

import "strings"

// State is the per-conversation position in the engagement machine.
// StateExit is absorbing: every transition out of it returns StateExit.
type State string

const (
	StateInitial  State = "initial"
	StateConfused State = "confused"
	StateTrusting State = "trusting"
	StateStalling State = "stalling"
	StateExit     State = "exit"
)

// Keyword categories driving the transition table.
var (
	urgencyKeywords    = []string{"urgent", "now", "immediately", "quick", "fast"}
	paymentKeywords    = []string{"pay", "transfer", "send money", "bank", "account"}
	credentialKeywords = []string{"password", "otp", "pin", "cvv", "login"}
)

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// NextState computes the transition for one scammer message. The table
// simulates victim behavior: urgency breeds confusion and stalling, payment
// talk builds false trust, and any credential request ends the conversation.
func NextState(current State, scammerMessage string) State {
	lower := strings.ToLower(scammerMessage)

	hasUrgency := containsAny(lower, urgencyKeywords)
	hasPayment := containsAny(lower, paymentKeywords)
	hasCredentials := containsAny(lower, credentialKeywords)

	switch current {
	case StateInitial:
		switch {
		case hasUrgency:
			return StateConfused
		case hasPayment:
			return StateTrusting
		default:
			return StateInitial
		}
	case StateConfused:
		switch {
		case hasCredentials:
			return StateExit
		case hasUrgency:
			return StateStalling
		default:
			return StateConfused
		}
	case StateTrusting:
		switch {
		case hasCredentials:
			return StateExit
		case hasUrgency:
			return StateStalling
		default:
			return StateTrusting
		}
	case StateStalling:
		if hasCredentials {
			return StateExit
		}
		return StateStalling
	case StateExit:
		return StateExit
	default:
		return current
	}
}
