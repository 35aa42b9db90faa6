package engage

import "github.com/scamshield/scamshield/pkg/schema"

// PersonaKey selects one of the fixed honeypot personas. The set is
// closed; dispatch on it is exhaustive by construction.
type PersonaKey string

const (
	PersonaElderlyPensioner    PersonaKey = "elderly_pensioner"
	PersonaMiddleClassEmployee PersonaKey = "middle_class_employee"
	PersonaStudent             PersonaKey = "student"
)

// Valid reports whether the key names a known persona.
func (k PersonaKey) Valid() bool {
	switch k {
	case PersonaElderlyPensioner, PersonaMiddleClassEmployee, PersonaStudent:
		return true
	}
	return false
}

// Persona is a static victim profile. Profiles are immutable; the registry
// never changes at runtime.
type Persona struct {
	Name            string
	Tone            string
	LanguageStyle   string
	EmotionalTraits string
	BehavioralHints string
}

// Lookup returns the profile for a persona key. Unknown keys fall back to
// the elderly pensioner so an engagement never starts without a persona.
func Lookup(key PersonaKey) Persona {
	switch key {
	case PersonaMiddleClassEmployee:
		return Persona{
			Name:            "Middle Class Employee",
			Tone:            "professional and friendly",
			LanguageStyle:   "concise and direct",
			EmotionalTraits: "ambitious, pragmatic, anxious about financial loss",
			BehavioralHints: "delays by checking details, expresses confusion about urgent requests, shows fear of job-related consequences, values efficiency but hesitates on sensitive topics",
		}
	case PersonaStudent:
		return Persona{
			Name:            "Student",
			Tone:            "casual and enthusiastic",
			LanguageStyle:   "informal and relatable",
			EmotionalTraits: "curious, optimistic, scared of debt or family issues",
			BehavioralHints: "delays by consulting 'parents' or 'friends', shows confusion about complex terms, expresses fear of academic or financial repercussions, enjoys interactive discussions but hesitates on personal data",
		}
	default:
		return Persona{
			Name:            "Elderly Pensioner",
			Tone:            "gentle and reassuring",
			LanguageStyle:   "simple and clear",
			EmotionalTraits: "cautious, nostalgic, fearful of losing savings",
			BehavioralHints: "shows confusion about technology, delays by asking for clarification, expresses fear of scams, prefers slow-paced conversations",
		}
	}
}

// PersonaForScamType picks the persona used for automated engagement.
// Social-engineering scripts target employed victims, advance-fee and
// romance scripts target students, everything else gets the pensioner.
func PersonaForScamType(scamType string) PersonaKey {
	switch scamType {
	case schema.ScamTypeSocialEngineering:
		return PersonaMiddleClassEmployee
	case schema.ScamTypeRomanceAdvanceFee:
		return PersonaStudent
	default:
		return PersonaElderlyPensioner
	}
}
