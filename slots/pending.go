package slots

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category groups intents by how they affect a pending request.
type Category string

const (
	CategorySearch         Category = "search"
	CategoryAffirmation    Category = "affirmation"
	CategoryDenial         Category = "denial"
	CategoryAcknowledgment Category = "acknowledgment"
	CategoryOther          Category = "other"
)

// ParseCategory accepts the canonical names plus the Spanish group names used
// in intent configuration files.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "search", "busqueda", "búsqueda":
		return CategorySearch, nil
	case "affirmation", "afirmacion", "afirmación", "confirmacion", "confirmación":
		return CategoryAffirmation, nil
	case "denial", "negacion", "negación":
		return CategoryDenial, nil
	case "acknowledgment", "acknowledgement", "thanks", "agradecimiento":
		return CategoryAcknowledgment, nil
	case "other", "otro", "small_talk", "":
		return CategoryOther, nil
	default:
		return CategoryOther, fmt.Errorf("unknown intent category %q", s)
	}
}

// State is the pending-request flag of one conversation.
type State int

const (
	StateNone State = iota
	StatePending
)

func (s State) String() string {
	if s == StatePending {
		return "pending"
	}
	return "none"
}

// SlotValue is the value stored in the dialogue-state slot: true when a
// request is pending, nil otherwise.
func (s State) SlotValue() any {
	if s == StatePending {
		return true
	}
	return nil
}

// MarshalJSON encodes the state as its slot value.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.SlotValue())
}

// UnmarshalJSON accepts any slot value understood by StateFromSlot.
func (s *State) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = StateFromSlot(v)
	return nil
}

// StateFromSlot reads the dialogue-state slot. Only a truthy value counts as
// pending; nil, false and unknown values read as none.
func StateFromSlot(v any) State {
	switch t := v.(type) {
	case bool:
		if t {
			return StatePending
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "yes", "si", "sí", "pending":
			return StatePending
		}
	case float64:
		if t != 0 {
			return StatePending
		}
	case int:
		if t != 0 {
			return StatePending
		}
	}
	return StateNone
}

// Transition describes what one turn did to the pending flag.
type Transition struct {
	From State `json:"from"`
	To   State `json:"to"`
	// Superseded is set when a new search replaced a pending request.
	Superseded bool `json:"superseded,omitempty"`
	// Completed is set when an affirmation or thanks resolved the request.
	Completed bool `json:"completed,omitempty"`
	// Revert asks the dialogue layer to discard the current user utterance.
	Revert bool `json:"revert,omitempty"`
	// FallThrough marks a confirmation-like turn with nothing pending.
	FallThrough bool `json:"fall_through,omitempty"`
}

// Changed reports whether the flag moved.
func (t Transition) Changed() bool { return t.From != t.To }

// PendingTracker is the state machine over a conversation's pending flag. It
// holds no per-conversation data; callers pass the current state in and store
// the resulting state themselves.
type PendingTracker struct {
	messages Messages
	log      Logger
}

// NewPendingTracker returns a tracker using the given catalog.
func NewPendingTracker(messages Messages, log Logger) *PendingTracker {
	return &PendingTracker{messages: messages.withDefaults(), log: orNop(log)}
}

// Step applies one turn of category cat to current. validCount is the number
// of entities validated in the turn and only matters for searches.
func (p *PendingTracker) Step(d Dispatcher, current State, cat Category, validCount int) Transition {
	t := Transition{From: current, To: current}
	switch cat {
	case CategorySearch:
		if validCount == 0 {
			return t
		}
		if current == StatePending {
			t.Superseded = true
			utter(d, p.messages.Superseded)
			p.log.Info("pending request superseded by new search")
		}
		t.To = StatePending
	case CategoryAffirmation, CategoryAcknowledgment:
		if current != StatePending {
			t.FallThrough = true
			return t
		}
		t.To = StateNone
		t.Completed = true
		utter(d, p.messages.Completed)
		p.log.Info("pending request completed", "category", string(cat))
	case CategoryDenial:
		if current != StatePending {
			t.FallThrough = true
			return t
		}
		t.To = StateNone
		t.Revert = true
		utter(d, p.messages.DenialClarify)
		p.log.Info("pending request denied, reverting utterance")
	}
	return t
}

// Acknowledge sends the small-talk reply for a confirmation-like turn that had
// nothing pending.
func (p *PendingTracker) Acknowledge(d Dispatcher, cat Category) {
	switch cat {
	case CategoryAffirmation:
		utter(d, p.messages.AckAffirm)
	case CategoryDenial:
		utter(d, p.messages.AckDeny)
	case CategoryAcknowledgment:
		utter(d, p.messages.AckThanks)
	}
}

func utter(d Dispatcher, text string) {
	if d != nil {
		d.Utter(text)
	}
}
