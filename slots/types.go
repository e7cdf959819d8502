package slots

// RawEntity is an entity as extracted by the external classifier for a single turn.
type RawEntity struct {
	Entity string `json:"entity" yaml:"entity"`
	Value  string `json:"value" yaml:"value"`
	Role   string `json:"role,omitempty" yaml:"role,omitempty"`
	Group  string `json:"group,omitempty" yaml:"group,omitempty"`
}

// ValidatedEntity is a raw value accepted for a required slot.
type ValidatedEntity struct {
	Slot  string `json:"slot"`
	Value string `json:"value"`
}

// ValidationError records a value that failed lookup for its slot.
// Suggestions are ordered by descending similarity, at most three by default.
type ValidationError struct {
	OriginalValue string   `json:"original_value"`
	Slot          string   `json:"slot"`
	Suggestions   []string `json:"suggestions"`
}

// Result is the outcome of validating one turn.
type Result struct {
	Valid   []ValidatedEntity `json:"valid"`
	Errors  []ValidationError `json:"errors"`
	Missing []string          `json:"missing"`
	// Failed is set when validation aborted on an internal fault.
	Failed bool `json:"failed,omitempty"`
}

// HasSlot reports whether at least one entity was validated for slot.
func (r Result) HasSlot(slot string) bool {
	for _, v := range r.Valid {
		if v.Slot == slot {
			return true
		}
	}
	return false
}

// ValidSlots returns the distinct slots that received a value, in validation order.
func (r Result) ValidSlots() []string {
	seen := make(map[string]struct{}, len(r.Valid))
	out := make([]string, 0, len(r.Valid))
	for _, v := range r.Valid {
		if _, ok := seen[v.Slot]; ok {
			continue
		}
		seen[v.Slot] = struct{}{}
		out = append(out, v.Slot)
	}
	return out
}

// Turn is the input handed over by the dialogue layer for one user message.
type Turn struct {
	ConversationID string      `json:"conversation_id"`
	Intent         string      `json:"intent"`
	Text           string      `json:"text"`
	Entities       []RawEntity `json:"entities"`
	Pending        State       `json:"pending"`
}

// SlotEvent is a slot mutation for the dialogue-state store. A nil Value clears the slot.
type SlotEvent struct {
	Slot  string `json:"slot"`
	Value any    `json:"value"`
}

// TurnResult holds everything a turn produced, in emission order.
type TurnResult struct {
	Category   Category    `json:"category"`
	Messages   []string    `json:"messages"`
	Events     []SlotEvent `json:"events"`
	Revert     bool        `json:"revert"`
	Validation *Result     `json:"validation,omitempty"`
	Transition Transition  `json:"transition"`
	Failed     bool        `json:"failed,omitempty"`
}
