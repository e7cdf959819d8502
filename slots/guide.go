package slots

import "strings"

// Guide tells the user which required slots still need a value.
type Guide struct {
	messages Messages
	log      Logger
}

// NewGuide returns a guide using the given catalog.
func NewGuide(messages Messages, log Logger) *Guide {
	return &Guide{messages: messages.withDefaults(), log: orNop(log)}
}

// Message builds the prompt for missing. With one slot it names that slot;
// with several it enumerates them comma-joined in the given order.
func (g *Guide) Message(missing []string) (string, bool) {
	switch len(missing) {
	case 0:
		return "", false
	case 1:
		return render(g.messages.MissingOne, "slot", missing[0]), true
	default:
		return render(g.messages.MissingMany, "slots", strings.Join(missing, ", ")), true
	}
}

// Prompt sends the message for missing through d. It reports whether a
// message was sent.
func (g *Guide) Prompt(d Dispatcher, missing []string) bool {
	msg, ok := g.Message(missing)
	if !ok {
		return false
	}
	d.Utter(msg)
	g.log.Info("guiding user to complete slots", "missing", missing)
	return true
}

// ShouldGuide reports whether a turn needs a completion prompt: either every
// slot is demanded and some remain, or nothing at all was validated.
func ShouldGuide(requireAll bool, res Result) bool {
	return (requireAll && len(res.Missing) > 0) || len(res.Valid) == 0
}
