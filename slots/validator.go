package slots

import (
	"runtime/debug"
	"strings"
)

// ValidatorOptions tunes suggestion behaviour and output.
type ValidatorOptions struct {
	MaxSuggestions int
	MinSimilarity  float64
	Messages       Messages
	Logger         Logger
}

// Validator partitions a turn's entities into valid values, errors with
// suggestions and missing required slots.
type Validator struct {
	lookup   *LookupTable
	maxSugg  int
	minSim   float64
	messages Messages
	log      Logger
}

// NewValidator builds a validator over an immutable lookup table. A nil table
// leaves every slot unrestricted.
func NewValidator(lookup *LookupTable, opts ValidatorOptions) *Validator {
	if lookup == nil {
		lookup = EmptyLookupTable()
	}
	if opts.MaxSuggestions <= 0 {
		opts.MaxSuggestions = DefaultMaxSuggestions
	}
	if opts.MinSimilarity <= 0 {
		opts.MinSimilarity = DefaultMinSimilarity
	}
	return &Validator{
		lookup:   lookup,
		maxSugg:  opts.MaxSuggestions,
		minSim:   opts.MinSimilarity,
		messages: opts.Messages.withDefaults(),
		log:      orNop(opts.Logger),
	}
}

// Validate checks entities against the required slots of intent and reports
// the outcome through d (which may be nil). Messages are sent in processing
// order: one per rejected value, then a single confirmation listing the
// accepted values. An internal fault is logged and yields a Result with no
// valid entities, no errors and every required slot missing.
func (v *Validator) Validate(d Dispatcher, intent string, required []string, entities []RawEntity) (res Result) {
	required = uniqueSlots(required)
	defer func() {
		if r := recover(); r != nil {
			v.log.Error("validation aborted",
				"intent", intent,
				"entities", entities,
				"panic", r,
				"stack", string(debug.Stack()))
			res = Result{Valid: []ValidatedEntity{}, Errors: []ValidationError{}, Missing: required, Failed: true}
		}
	}()

	res = v.partition(intent, required, entities)
	if d != nil {
		v.report(d, intent, res)
	}
	return res
}

func (v *Validator) partition(intent string, required []string, entities []RawEntity) Result {
	res := Result{
		Valid:   []ValidatedEntity{},
		Errors:  []ValidationError{},
		Missing: []string{},
	}
	requiredSet := make(map[string]struct{}, len(required))
	for _, slot := range required {
		requiredSet[slot] = struct{}{}
	}
	for _, e := range entities {
		if _, ok := requiredSet[e.Entity]; !ok {
			v.log.Debug("entity ignored, slot not required", "intent", intent, "entity", e.Entity, "value", e.Value)
		}
	}

	seen := make(map[ValidatedEntity]struct{})
	for _, slot := range required {
		accepted := false
		matched := 0
		for _, e := range entities {
			if e.Entity != slot {
				continue
			}
			matched++
			if strings.TrimSpace(e.Value) == "" {
				v.log.Debug("entity skipped, empty value", "slot", slot)
				continue
			}
			if !v.lookup.Restricted(slot) || v.lookup.Contains(slot, e.Value) {
				accepted = true
				key := ValidatedEntity{Slot: slot, Value: e.Value}
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				res.Valid = append(res.Valid, key)
				v.log.Debug("entity accepted", "slot", slot, "value", e.Value, "restricted", v.lookup.Restricted(slot))
				continue
			}
			suggestions := Suggest(e.Value, v.lookup.ValuesFor(slot), v.maxSugg, v.minSim)
			res.Errors = append(res.Errors, ValidationError{
				OriginalValue: e.Value,
				Slot:          slot,
				Suggestions:   suggestions,
			})
			v.log.Info("entity rejected", "intent", intent, "slot", slot, "value", e.Value, "suggestions", suggestions)
		}
		if matched == 0 {
			v.log.Debug("no entities for slot", "slot", slot)
		}
		if !accepted {
			res.Missing = append(res.Missing, slot)
		}
	}
	return res
}

func (v *Validator) report(d Dispatcher, intent string, res Result) {
	for _, e := range res.Errors {
		if len(e.Suggestions) > 0 {
			d.Utter(render(v.messages.Suggestion,
				"value", e.OriginalValue,
				"slot", e.Slot,
				"suggestion", e.Suggestions[0]))
			continue
		}
		d.Utter(render(v.messages.NoSuggestion,
			"value", e.OriginalValue,
			"slot", e.Slot))
	}
	if len(res.Valid) > 0 {
		d.Utter(render(v.messages.Searching,
			"intent", humanizeIntent(intent),
			"entities", describeEntities(res.Valid)))
	}
}

func uniqueSlots(required []string) []string {
	seen := make(map[string]struct{}, len(required))
	out := make([]string, 0, len(required))
	for _, slot := range required {
		if slot == "" {
			continue
		}
		if _, ok := seen[slot]; ok {
			continue
		}
		seen[slot] = struct{}{}
		out = append(out, slot)
	}
	return out
}
