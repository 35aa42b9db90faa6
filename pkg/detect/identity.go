package detect

import (
	"regexp"
	"strings"

	"github.com/scamshield/scamshield/pkg/schema"
)

// brandProfile pairs the names a brand is known by with the domains a
// legitimate message from it would reference.
type brandProfile struct {
	names   []string
	domains []string
}

var brandProfiles = map[string]brandProfile{
	"apple": {
		names:   []string{"apple", "apple support", "apple store"},
		domains: []string{"apple.com", "appleid.apple.com"},
	},
	"microsoft": {
		names:   []string{"microsoft", "microsoft support", "windows"},
		domains: []string{"microsoft.com", "outlook.microsoft.com"},
	},
	"amazon": {
		names:   []string{"amazon", "amazon support", "aws"},
		domains: []string{"amazon.com", "aws.amazon.com"},
	},
	"paypal": {
		names:   []string{"paypal", "paypal support"},
		domains: []string{"paypal.com"},
	},
	"google": {
		names:   []string{"google", "google support"},
		domains: []string{"google.com", "gmail.com"},
	},
}

// authorityClaims are keywords that assert institutional standing.
var authorityClaims = []string{
	"bank", "government", "federal", "official", "authorized", "representative",
}

var (
	iAmPattern    = regexp.MustCompile(`(?i)i\s+(?:am|'m)\s+([a-zA-Z ]+?)(?:\.|,|;|\n|$)`)
	thisIsPattern = regexp.MustCompile(`(?i)this\s+is\s+([a-zA-Z ]+?)(?:\.|,|;|\n|$)`)
)

// IdentityDetector finds mismatches between who a sender claims to be and
// the evidence: brand mentions without the brand's domain, authority claims
// from brand-new or unverified accounts, and self-contradicting identity
// assertions. Sub-scores combine 0.35/0.35/0.30.
type IdentityDetector struct{}

func NewIdentityDetector() *IdentityDetector {
	return &IdentityDetector{}
}

func (d *IdentityDetector) Name() string { return schema.DetectorIdentityMismatch }

func (d *IdentityDetector) Analyze(input schema.DetectorInput) float64 {
	if len(input.Messages) == 0 {
		return 0.0
	}
	text := fullText(input.Messages)

	brand := d.brandImpersonation(text)
	credential := d.credentialAnomalies(text, input.Messages, input.SenderMetadata)
	consistency := d.claimConsistency(input.Messages)

	score := brand*0.35 + credential*0.35 + consistency*0.30
	return clamp01(score)
}

// brandImpersonation scores 0.75 when a known brand is named but none of its
// legitimate domains appear anywhere in the conversation.
func (d *IdentityDetector) brandImpersonation(text string) float64 {
	score := 0.0
	for _, profile := range brandProfiles {
		for _, name := range profile.names {
			if !strings.Contains(text, name) {
				continue
			}
			domainFound := false
			for _, domain := range profile.domains {
				if strings.Contains(text, domain) {
					domainFound = true
					break
				}
			}
			if !domainFound && score < 0.75 {
				score = 0.75
			}
			break
		}
	}
	return score
}

// credentialAnomalies boosts when authority claims come from accounts that
// are new or unverified, plus a boost when messages carry multiple distinct
// signatures.
func (d *IdentityDetector) credentialAnomalies(text string, messages []schema.Message, meta schema.SenderMetadata) float64 {
	score := 0.0

	claimsAuthority := false
	for _, kw := range authorityClaims {
		if strings.Contains(text, kw) {
			claimsAuthority = true
			break
		}
	}

	if claimsAuthority {
		if meta.AccountAgeDays > 0 && meta.AccountAgeDays < 30 {
			score += 0.7
		}
		if meta.VerificationStatus == "unverified" {
			score += 0.5
		}
	}

	signatures := make(map[string]struct{})
	for _, m := range messages {
		if sig := lastLineSignature(m.Content); sig != "" {
			signatures[sig] = struct{}{}
		}
	}
	if len(signatures) > 1 {
		score += 0.4
	}

	return clamp01(score)
}

// lastLineSignature pulls a plausible sign-off from the final line of a
// message. Long lines are message body, not a signature.
func lastLineSignature(content string) string {
	lines := strings.Split(content, "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if len(last) > 2 && len(last) < 50 {
		return last
	}
	return ""
}

// claimConsistency extracts "I am X" / "this is X" assertions and flags
// pairs whose similarity falls strictly between 0.3 and 0.8 — similar
// enough to be about the same thing, different enough to contradict.
func (d *IdentityDetector) claimConsistency(messages []schema.Message) float64 {
	if len(messages) < 2 {
		return 0.0
	}

	var claims []string
	for _, m := range messages {
		claims = append(claims, extractClaims(m.Content)...)
	}
	if len(claims) < 2 {
		return 0.0
	}

	contradictions := 0
	for i := 0; i < len(claims); i++ {
		for j := i + 1; j < len(claims); j++ {
			sim := jaccard(claims[i], claims[j])
			if sim > 0.3 && sim < 0.8 {
				contradictions++
			}
		}
	}

	comparisons := len(claims) * (len(claims) - 1) / 2
	if comparisons == 0 {
		return 0.0
	}
	return clamp01(float64(contradictions) / float64(comparisons))
}

func extractClaims(text string) []string {
	var claims []string
	for _, m := range iAmPattern.FindAllStringSubmatch(text, -1) {
		claims = append(claims, strings.TrimSpace(m[1]))
	}
	for _, m := range thisIsPattern.FindAllStringSubmatch(text, -1) {
		claims = append(claims, strings.TrimSpace(m[1]))
	}
	return claims
}
