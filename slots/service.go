package slots

import (
	"context"
	"errors"
	"runtime/debug"
)

// Recorder receives a summary of every handled turn.
type Recorder interface {
	RecordTurn(res TurnResult)
}

type nopRecorder struct{}

func (nopRecorder) RecordTurn(TurnResult) {}

// Service runs one user turn through validation, completion guidance and the
// pending-request state machine.
type Service struct {
	cfg       Config
	lookup    *LookupTable
	intents   *IntentRegistry
	validator *Validator
	guide     *Guide
	tracker   *PendingTracker
	log       Logger
	recorder  Recorder
}

// NewService wires the engine. lookup and intents are shared read-only.
func NewService(cfg Config, lookup *LookupTable, intents *IntentRegistry, log Logger, rec Recorder) (*Service, error) {
	if intents == nil {
		return nil, errors.New("intent registry is required")
	}
	if lookup == nil {
		lookup = EmptyLookupTable()
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log = orNop(log)
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Service{
		cfg:     cfg,
		lookup:  lookup,
		intents: intents,
		validator: NewValidator(lookup, ValidatorOptions{
			MaxSuggestions: cfg.MaxSuggestions,
			MinSimilarity:  cfg.MinSimilarity,
			Messages:       cfg.Messages,
			Logger:         log,
		}),
		guide:    NewGuide(cfg.Messages, log),
		tracker:  NewPendingTracker(cfg.Messages, log),
		log:      log,
		recorder: rec,
	}, nil
}

// Config returns a copy of the configuration.
func (s *Service) Config() Config { return s.cfg }

// Lookup returns the shared lookup table.
func (s *Service) Lookup() *LookupTable { return s.lookup }

// Intents returns the shared intent registry.
func (s *Service) Intents() *IntentRegistry { return s.intents }

// PendingSlot is the name of the slot carrying the pending flag.
func (s *Service) PendingSlot() string { return s.cfg.PendingSlot }

// HandleTurn processes one turn synchronously. A fault anywhere in the turn is
// logged and answered with an apology; no slot mutations are returned then.
func (s *Service) HandleTurn(ctx context.Context, turn Turn) (out TurnResult) {
	category := s.intents.Category(turn.Intent)
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("turn failed",
				"conversation_id", turn.ConversationID,
				"intent", turn.Intent,
				"text", turn.Text,
				"entities", turn.Entities,
				"panic", r,
				"stack", string(debug.Stack()))
			out = TurnResult{
				Category:   category,
				Messages:   []string{s.cfg.Messages.Apology},
				Events:     []SlotEvent{},
				Transition: Transition{From: turn.Pending, To: turn.Pending},
				Failed:     true,
			}
		}
		s.recorder.RecordTurn(out)
	}()

	d := &CollectingDispatcher{}
	switch category {
	case CategorySearch:
		out = s.handleSearch(d, turn)
	case CategoryAffirmation, CategoryDenial, CategoryAcknowledgment:
		out = s.handleConfirmation(d, turn, category)
	default:
		s.log.Debug("turn outside validation scope", "intent", turn.Intent)
		out = TurnResult{Transition: Transition{From: turn.Pending, To: turn.Pending}}
	}
	out.Category = category
	out.Messages = append([]string{}, d.Messages...)
	if out.Events == nil {
		out.Events = []SlotEvent{}
	}
	s.log.Debug("turn handled",
		"conversation_id", turn.ConversationID,
		"intent", turn.Intent,
		"category", string(category),
		"messages", len(out.Messages),
		"pending", out.Transition.To.String())
	return out
}

func (s *Service) handleSearch(d Dispatcher, turn Turn) TurnResult {
	required := s.intents.RequiredSlots(turn.Intent)
	validation := &CollectingDispatcher{}
	res := s.validator.Validate(validation, turn.Intent, required, turn.Entities)
	if res.Failed {
		s.log.Warn("validation failed, falling back to guidance", "intent", turn.Intent, "text", turn.Text)
	}

	tr := s.tracker.Step(d, turn.Pending, CategorySearch, len(res.Valid))
	for _, msg := range validation.Messages {
		d.Utter(msg)
	}
	if ShouldGuide(s.cfg.RequireAll, res) {
		s.guide.Prompt(d, res.Missing)
	}

	events := make([]SlotEvent, 0, len(res.Valid)+1)
	for _, slot := range res.ValidSlots() {
		events = append(events, SlotEvent{Slot: slot, Value: nil})
	}
	if tr.To == StatePending && len(res.Valid) > 0 {
		events = append(events, SlotEvent{Slot: s.cfg.PendingSlot, Value: tr.To.SlotValue()})
	}
	return TurnResult{
		Events:     events,
		Validation: &res,
		Transition: tr,
	}
}

func (s *Service) handleConfirmation(d Dispatcher, turn Turn, category Category) TurnResult {
	tr := s.tracker.Step(d, turn.Pending, category, 0)
	if tr.FallThrough {
		s.tracker.Acknowledge(d, category)
	}
	var events []SlotEvent
	if tr.Changed() {
		events = append(events, SlotEvent{Slot: s.cfg.PendingSlot, Value: tr.To.SlotValue()})
	}
	return TurnResult{
		Events:     events,
		Revert:     tr.Revert,
		Transition: tr,
	}
}
