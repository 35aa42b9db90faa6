package detect

import (
	"math"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/scamshield/scamshield/pkg/schema"
)

// noURLBaseline is returned when a conversation contains no links at all.
const noURLBaseline = 0.1

var urlPattern = regexp.MustCompile(`https?://[a-zA-Z0-9\-._~:/?#\[\]@!$&'()*+,;=%]+`)

// ipv4Prefix matches domains that are literal IP addresses.
var ipv4Prefix = regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+`)

// suspiciousTLDs are top-level domains disproportionately used for phishing
// infrastructure (free or near-free registration).
var suspiciousTLDs = []string{
	".tk", ".ml", ".ga", ".cf", ".xyz", ".download", ".review",
}

// legitimateDomains is the fixed brand list checked for lookalikes.
var legitimateDomains = []string{
	"apple.com", "microsoft.com", "google.com", "amazon.com",
	"paypal.com", "bank.com", "facebook.com", "twitter.com",
}

// lookalikeSubstitutions maps digits commonly substituted for letters in
// typosquatted domains.
var lookalikeSubstitutions = map[rune]rune{
	'0': 'o', '1': 'l', '5': 's', '3': 'e', '4': 'a',
}

// LinkDetector analyzes URLs and domains for scam infrastructure markers:
// throwaway TLDs, high-entropy (machine-generated) names, brand lookalikes,
// and structural red flags. The most suspicious URL dominates the score.
type LinkDetector struct{}

func NewLinkDetector() *LinkDetector {
	return &LinkDetector{}
}

func (d *LinkDetector) Name() string { return schema.DetectorLinkInfrastructure }

func (d *LinkDetector) Analyze(input schema.DetectorInput) float64 {
	if len(input.Messages) == 0 {
		return 0.0
	}

	var urls []string
	for _, m := range input.Messages {
		urls = append(urls, urlPattern.FindAllString(m.Content, -1)...)
	}
	if len(urls) == 0 {
		return noURLBaseline
	}

	worst := 0.0
	for _, u := range urls {
		if score := d.scoreURL(u); score > worst {
			worst = score
		}
	}
	return clamp01(worst)
}

func (d *LinkDetector) scoreURL(rawURL string) float64 {
	domain := extractDomain(rawURL)
	if domain == "" {
		return 0.5
	}

	score := tldScore(domain)*0.3 +
		entropyScore(domain)*0.25 +
		lookalikeScore(domain)*0.25 +
		structuralScore(domain)*0.2
	return clamp01(score)
}

// extractDomain strips protocol, path, and port from a URL.
func extractDomain(rawURL string) string {
	s := rawURL
	if idx := strings.Index(s, "://"); idx >= 0 {
		s = s[idx+3:]
	}
	if idx := strings.IndexByte(s, '/'); idx >= 0 {
		s = s[:idx]
	}
	if idx := strings.IndexByte(s, ':'); idx >= 0 {
		s = s[:idx]
	}
	return strings.ToLower(strings.TrimPrefix(s, "www."))
}

func tldScore(domain string) float64 {
	for _, tld := range suspiciousTLDs {
		if strings.HasSuffix(domain, tld) {
			return 0.7
		}
	}
	// Unusually long TLDs are also a weak signal.
	if idx := strings.LastIndexByte(domain, '.'); idx >= 0 {
		if len(domain)-idx > 6 {
			return 0.4
		}
	}
	return 0.0
}

// entropyScore measures character randomness of the registrable name.
// Machine-generated domains score high; the score only engages above the
// midpoint to avoid penalizing ordinary words.
func entropyScore(domain string) float64 {
	name := domain
	if idx := strings.LastIndexByte(domain, '.'); idx >= 0 {
		name = domain[:idx]
	}
	if name == "" {
		return 0.0
	}

	normalized := math.Min(1.0, shannonEntropy(name)/4.0)
	if normalized <= 0.5 {
		return 0.0
	}
	return normalized
}

// shannonEntropy returns bits per character of the input.
func shannonEntropy(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	counts := make(map[rune]float64)
	total := 0.0
	for _, r := range s {
		counts[r]++
		total++
	}

	entropy := 0.0
	for _, count := range counts {
		p := count / total
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// lookalikeScore checks the registrable name against the brand list after
// normalizing unicode forms and common character substitutions.
func lookalikeScore(domain string) float64 {
	name := domain
	if idx := strings.LastIndexByte(domain, '.'); idx >= 0 {
		name = domain[:idx]
	}

	for _, legit := range legitimateDomains {
		legitName := strings.TrimSuffix(legit, ".com")
		if idx := strings.LastIndexByte(legit, '.'); idx >= 0 {
			legitName = legit[:idx]
		}
		if isLookalike(name, legitName) {
			return 0.8
		}
	}
	return 0.0
}

// isLookalike detects typosquats: character-substitution normalization plus
// a length-bounded positional overlap against the legitimate name.
func isLookalike(name, legit string) bool {
	if name == legit {
		return false
	}
	if len(name) < len(legit)-1 || len(name) > len(legit)+1 {
		return false
	}

	normalized := normalizeLookalike(name)
	legitNorm := normalizeLookalike(legit)

	matching := 0
	for i := 0; i < len(normalized) && i < len(legitNorm); i++ {
		if normalized[i] == legitNorm[i] {
			matching++
		}
	}
	longest := len(name)
	if len(legit) > longest {
		longest = len(legit)
	}
	return float64(matching)/float64(longest) > 0.85
}

// normalizeLookalike folds unicode compatibility forms, then applies the
// digit-for-letter substitution map.
func normalizeLookalike(s string) string {
	folded := norm.NFKC.String(strings.ToLower(s))
	return strings.Map(func(r rune) rune {
		if sub, ok := lookalikeSubstitutions[r]; ok {
			return sub
		}
		return r
	}, folded)
}

// structuralScore sums red flags: literal IP host, deep subdomain chains,
// excessive length, and digit-heavy names.
func structuralScore(domain string) float64 {
	score := 0.0

	if ipv4Prefix.MatchString(domain) {
		score += 0.8
	}
	if strings.Count(domain, ".") > 3 {
		score += 0.3
	}
	if len(domain) > 50 {
		score += 0.2
	}

	digits := 0
	for _, r := range domain {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if len(domain) > 0 && float64(digits)/float64(len(domain)) > 0.3 {
		score += 0.2
	}

	return clamp01(score)
}
