package engage

import "strings"

// Refusal is the fixed in-character message returned whenever the safety
// gate trips. It never varies, so tests and downstream consumers can rely
// on it verbatim.
const Refusal = "I'm sorry, I can't help with that right now. Maybe later?"

// forbiddenKeywords name requests for sensitive data or money movement.
// Any match is a hard stop regardless of conversation state.
var forbiddenKeywords = []string{
	"otp", "pin", "password", "cvv",
	"send money", "transfer", "upi", "pay now",
}

// CheckSafety scans a message for forbidden content. It returns
// (true, "") when the message is safe and (false, Refusal) when it is not.
func CheckSafety(text string) (bool, string) {
	lower := strings.ToLower(text)
	for _, keyword := range forbiddenKeywords {
		if strings.Contains(lower, keyword) {
			return false, Refusal
		}
	}
	return true, ""
}
