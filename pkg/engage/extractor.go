package engage

import "regexp"

// Entities is the structured intelligence harvested from a scammer
// message. Each list is deduplicated with first-seen order preserved.
type Entities struct {
	Phones         []string `json:"phones"`
	PaymentHandles []string `json:"payment_handles"`
	URLs           []string `json:"urls"`
	BankNumbers    []string `json:"bank_numbers"`
}

// IsEmpty reports whether nothing was extracted.
func (e Entities) IsEmpty() bool {
	return len(e.Phones) == 0 && len(e.PaymentHandles) == 0 &&
		len(e.URLs) == 0 && len(e.BankNumbers) == 0
}

var (
	phonePattern  = regexp.MustCompile(`\b(?:\+91[-\s]?)?[6-9]\d{9}\b`)
	handlePattern = regexp.MustCompile(`\b[a-zA-Z0-9.\-_]{2,}@[a-zA-Z]{2,}\b`)
	urlEntPattern = regexp.MustCompile(`https?://[^\s]+`)
	bankPattern   = regexp.MustCompile(`\b\d{12,18}\b`)
)

// Extract pulls phone numbers, payment handles, URLs, and bank account
// numbers out of free text. Pure function: no state, no side effects.
func Extract(text string) Entities {
	return Entities{
		Phones:         dedupe(phonePattern.FindAllString(text, -1)),
		PaymentHandles: dedupe(handlePattern.FindAllString(text, -1)),
		URLs:           dedupe(urlEntPattern.FindAllString(text, -1)),
		BankNumbers:    dedupe(bankPattern.FindAllString(text, -1)),
	}
}

func dedupe(matches []string) []string {
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
