package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"yashubustudio/slotguide/slots"
)

var _ slots.Recorder = (*Recorder)(nil)

func TestRecordTurnCountsValidation(t *testing.T) {
	r := New()
	r.RecordTurn(slots.TurnResult{
		Category: slots.CategorySearch,
		Validation: &slots.Result{
			Valid: []slots.ValidatedEntity{{Slot: "categoria", Value: "vacunas"}},
			Errors: []slots.ValidationError{
				{OriginalValue: "bayr", Slot: "proveedor", Suggestions: []string{"bayer"}},
				{OriginalValue: "xyz", Slot: "proveedor"},
			},
			Missing: []string{"proveedor"},
		},
		Transition: slots.Transition{From: slots.StateNone, To: slots.StatePending},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(r.turns.WithLabelValues("search", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.accepted.WithLabelValues("categoria")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rejected.WithLabelValues("proveedor", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rejected.WithLabelValues("proveedor", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.missing.WithLabelValues("proveedor")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.transitions.WithLabelValues("opened")))
}

func TestRecordTurnTransitions(t *testing.T) {
	r := New()
	r.RecordTurn(slots.TurnResult{Category: slots.CategoryDenial, Transition: slots.Transition{From: slots.StatePending, Revert: true}})
	r.RecordTurn(slots.TurnResult{Category: slots.CategoryAffirmation, Transition: slots.Transition{From: slots.StatePending, Completed: true}})
	r.RecordTurn(slots.TurnResult{Category: slots.CategoryAffirmation, Transition: slots.Transition{FallThrough: true}})
	r.RecordTurn(slots.TurnResult{Category: slots.CategoryAffirmation, Failed: true})

	assert.Equal(t, 1.0, testutil.ToFloat64(r.transitions.WithLabelValues("reverted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.transitions.WithLabelValues("completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.transitions.WithLabelValues("fall_through")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.turns.WithLabelValues("affirmation", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.turns.WithLabelValues("affirmation", "failed")))
}

func TestObserveRequest(t *testing.T) {
	r := New()
	r.ObserveRequest("/webhook", "200", 0.01)
	r.ObserveRequest("/webhook", "200", 0.02)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.httpRequests.WithLabelValues("/webhook", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.httpLatency))
}
