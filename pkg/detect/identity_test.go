package detect

import (
	"testing"

	"github.com/scamshield/scamshield/pkg/schema"
)

func TestBrandImpersonation(t *testing.T) {
	d := NewIdentityDetector()

	testCases := []struct {
		name string
		text string
		want float64
	}{
		{
			name: "brand without domain",
			text: "hello, this is apple support, verify at http://secure-help.tk",
			want: 0.75,
		},
		{
			name: "brand with legitimate domain",
			text: "visit apple.com to check your apple support case",
			want: 0.0,
		},
		{
			name: "no brand mention",
			text: "hello, how are you today",
			want: 0.0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := d.brandImpersonation(tc.text); got != tc.want {
				t.Errorf("got %f, want %f", got, tc.want)
			}
		})
	}
}

func TestCredentialAnomalies(t *testing.T) {
	d := NewIdentityDetector()

	input := makeInput("I am an authorized bank representative, act now")
	input.SenderMetadata = schema.SenderMetadata{
		UserID:             "scammer-1",
		AccountAgeDays:     2,
		VerificationStatus: "unverified",
	}

	score := d.credentialAnomalies(fullText(input.Messages), input.Messages, input.SenderMetadata)
	if score != 1.0 {
		t.Errorf("new unverified authority claimer: got %f, want 1.0 (0.7 + 0.5 clamped)", score)
	}

	verified := schema.SenderMetadata{UserID: "ok", AccountAgeDays: 900, VerificationStatus: "verified"}
	score = d.credentialAnomalies(fullText(input.Messages), input.Messages, verified)
	if score != 0.0 {
		t.Errorf("established verified sender: got %f, want 0.0", score)
	}
}

func TestExtractClaims(t *testing.T) {
	claims := extractClaims("hello, i am john from the bank. later: this is officer smith, do not ignore")
	if len(claims) != 2 {
		t.Fatalf("expected 2 claims, got %d: %v", len(claims), claims)
	}
}

func TestClaimConsistencyContradiction(t *testing.T) {
	d := NewIdentityDetector()

	msgs := makeInput(
		"i am john smith from account security.",
		"i am john davis from account recovery.",
	).Messages

	if got := d.claimConsistency(msgs); got <= 0 {
		t.Errorf("contradicting claims should score positive, got %f", got)
	}
}
