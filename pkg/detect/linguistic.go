package detect

import (
	"regexp"

	"github.com/scamshield/scamshield/pkg/schema"
)

// Manipulation pattern library, compiled once at package init.
// Each category is scored as min(1, matches x perMatch) and the categories
// combine with fixed weights: urgency 0.35, fear 0.30, authority 0.20,
// reward 0.15.
var (
	urgencyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`urgent|immediately|right now|asap|don't wait`),
		regexp.MustCompile(`limited time|act now|expires? (today|tonight|this week)`),
		regexp.MustCompile(`hurry|quickly|rush`),
	}

	fearPatterns = []*regexp.Regexp{
		regexp.MustCompile(`account (locked|closed|compromised|suspended)`),
		regexp.MustCompile(`action required|verify|confirm identity|update payment`),
		regexp.MustCompile(`suspicious activity|unauthorized|fraud|hacked`),
		regexp.MustCompile(`click here|verify now|confirm immediately`),
	}

	authorityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`federal|irs|fbi|bank|microsoft|apple|google|amazon|paypal`),
		regexp.MustCompile(`official|authorized|representative|agent`),
		regexp.MustCompile(`on behalf of|department of`),
	}

	rewardPatterns = []*regexp.Regexp{
		regexp.MustCompile(`congratulations|won|prize|claim|reward`),
		regexp.MustCompile(`free (money|cash|gift|payment)`),
		regexp.MustCompile(`unclaimed|inheritance|settlement`),
		regexp.MustCompile(`instant (approval|cash|reward)`),
		regexp.MustCompile(`\$\d{4,}|millions? (of )?dollars`),
	}
)

// LinguisticDetector scores conversations for manipulation tactics:
// urgency and time pressure, fear appeals, authority impersonation, and
// reward baiting.
type LinguisticDetector struct{}

func NewLinguisticDetector() *LinguisticDetector {
	return &LinguisticDetector{}
}

func (d *LinguisticDetector) Name() string { return schema.DetectorLinguistic }

func (d *LinguisticDetector) Analyze(input schema.DetectorInput) float64 {
	if len(input.Messages) == 0 {
		return 0.0
	}
	text := fullText(input.Messages)

	urgency := categoryScore(text, urgencyPatterns, 0.25)
	fear := categoryScore(text, fearPatterns, 0.20)
	authority := categoryScore(text, authorityPatterns, 0.25)
	reward := categoryScore(text, rewardPatterns, 0.30)

	score := urgency*0.35 + fear*0.30 + authority*0.20 + reward*0.15
	return clamp01(score)
}

// categoryScore counts how many patterns in the category match and scales
// by the per-match constant, capped at 1.0.
func categoryScore(text string, patterns []*regexp.Regexp, perMatch float64) float64 {
	matches := 0
	for _, p := range patterns {
		if p.MatchString(text) {
			matches++
		}
	}
	score := float64(matches) * perMatch
	if score > 1.0 {
		return 1.0
	}
	return score
}
