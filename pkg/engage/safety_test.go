package engage

import "testing"

func TestCheckSafety(t *testing.T) {
	testCases := []struct {
		name string
		text string
		safe bool
	}{
		{"plain chat", "hello, how is your day going", true},
		{"otp request", "please share the OTP you received", false},
		{"pin embedded", "what is your PIN number", false},
		{"password", "send me your password", false},
		{"cvv", "I need the CVV from your card", false},
		{"money transfer", "you must send money today", false},
		{"transfer keyword", "wire TRANSFER to this account", false},
		{"upi handle", "pay via upi to this id", false},
		{"pay now", "PAY NOW or lose access", false},
		{"mentions payment without keywords", "the invoice is attached", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			safe, refusal := CheckSafety(tc.text)
			if safe != tc.safe {
				t.Errorf("CheckSafety(%q) safe=%v, want %v", tc.text, safe, tc.safe)
			}
			if !safe && refusal != Refusal {
				t.Errorf("refusal message changed: %q", refusal)
			}
			if safe && refusal != "" {
				t.Errorf("safe text should carry no refusal, got %q", refusal)
			}
		})
	}
}
