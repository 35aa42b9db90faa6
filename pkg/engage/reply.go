package engage

import "strings"

// Reply renders the deterministic template reply for a persona in a state.
// No randomness and no external calls; identical inputs always produce an
// identical reply, which keeps the honeypot auditable.
func Reply(persona Persona, state State) string {
	hints := strings.Split(persona.BehavioralHints, ", ")

	base := "Hello, this is " + persona.Name + ". "

	var reply string
	switch state {
	case StateInitial:
		reply = base + "How can I help you today?"
	case StateConfused:
		hint := ""
		if len(hints) > 0 {
			hint = hints[0]
		}
		reply = base + "I'm a bit confused. " + hint + " Can you explain again?"
	case StateTrusting:
		reply = base + "I trust you, but I need to check something first."
	case StateStalling:
		hint := ""
		if len(hints) > 1 {
			hint = hints[1]
		}
		reply = base + "I'm busy right now. " + hint + " Let's talk later."
	case StateExit:
		reply = base + "I think I need to go now. Goodbye."
	default:
		reply = base + "I'm not sure what to say."
	}

	// Tone shapes the greeting so each persona opens differently.
	switch {
	case strings.Contains(persona.Tone, "gentle"):
		reply = strings.Replace(reply, "Hello", "Hello dear", 1)
	case strings.Contains(persona.Tone, "professional"):
		reply = strings.Replace(reply, "Hello", "Good day", 1)
	case strings.Contains(persona.Tone, "casual"):
		reply = strings.Replace(reply, "Hello", "Hey", 1)
	}

	return reply
}
