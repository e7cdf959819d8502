package slots

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type turnLog struct {
	turns []TurnResult
}

func (r *turnLog) RecordTurn(res TurnResult) { r.turns = append(r.turns, res) }

func newTestService(t *testing.T, cfg Config, log Logger, rec Recorder) *Service {
	t.Helper()
	svc, err := NewService(cfg, scenarioLookup(), MustDefaultIntentRegistry(), log, rec)
	require.NoError(t, err)
	return svc
}

func TestHandleTurnSearchSetsPending(t *testing.T) {
	rec := &turnLog{}
	svc := newTestService(t, Config{}, nil, rec)

	out := svc.HandleTurn(context.Background(), Turn{
		ConversationID: "c1",
		Intent:         "buscar_producto",
		Entities: []RawEntity{
			{Entity: "categoria", Value: "Vacunas"},
			{Entity: "proveedor", Value: "Bayer"},
		},
	})

	assert.Equal(t, CategorySearch, out.Category)
	assert.Equal(t, []string{"Buscando buscar producto con -> categoria: Vacunas, proveedor: Bayer"}, out.Messages)
	assert.Equal(t, []SlotEvent{
		{Slot: "categoria", Value: nil},
		{Slot: "proveedor", Value: nil},
		{Slot: DefaultPendingSlot, Value: true},
	}, out.Events)
	require.NotNil(t, out.Validation)
	assert.Equal(t, []string{"producto", "ingrediente_activo"}, out.Validation.Missing)
	assert.Equal(t, StatePending, out.Transition.To)
	assert.False(t, out.Revert)
	require.Len(t, rec.turns, 1)
	assert.Equal(t, out, rec.turns[0])
}

func TestHandleTurnSearchSupersedesPending(t *testing.T) {
	svc := newTestService(t, Config{}, nil, nil)

	out := svc.HandleTurn(context.Background(), Turn{
		Intent:   "buscar_oferta",
		Pending:  StatePending,
		Entities: []RawEntity{{Entity: "categoria", Value: "antibioticos"}},
	})

	assert.Equal(t, []string{
		DefaultMessages().Superseded,
		"Buscando buscar oferta con -> categoria: antibioticos",
	}, out.Messages)
	assert.True(t, out.Transition.Superseded)
	assert.Equal(t, StatePending, out.Transition.To)
	assert.Equal(t, []SlotEvent{
		{Slot: "categoria", Value: nil},
		{Slot: DefaultPendingSlot, Value: true},
	}, out.Events)
}

func TestHandleTurnSearchWithoutValidEntitiesGuides(t *testing.T) {
	svc := newTestService(t, Config{}, nil, nil)

	out := svc.HandleTurn(context.Background(), Turn{
		Intent:   "buscar_oferta",
		Pending:  StatePending,
		Entities: []RawEntity{{Entity: "categoria", Value: "vacuna"}},
	})

	assert.Equal(t, []string{
		"'vacuna' no existe en 'categoria'. ¿Quisiste decir 'vacunas'?",
		"Por favor provee alguno de los siguientes valores: producto, categoria, proveedor",
	}, out.Messages)
	assert.Empty(t, out.Events)
	assert.NotNil(t, out.Events)
	assert.Equal(t, StatePending, out.Transition.To)
	assert.False(t, out.Transition.Superseded)
}

func TestHandleTurnRequireAllPromptsForRemainder(t *testing.T) {
	intents, err := NewIntentRegistry([]IntentSpec{
		{Name: "buscar_producto", Entities: []string{"categoria", "proveedor"}},
	})
	require.NoError(t, err)
	svc, err := NewService(Config{RequireAll: true}, scenarioLookup(), intents, nil, nil)
	require.NoError(t, err)

	out := svc.HandleTurn(context.Background(), Turn{
		Intent:   "buscar_producto",
		Entities: []RawEntity{{Entity: "categoria", Value: "vacunas"}},
	})

	assert.Equal(t, []string{
		"Buscando buscar producto con -> categoria: vacunas",
		"Por favor indica el valor para 'proveedor'",
	}, out.Messages)
}

func TestHandleTurnConfirmationCompletesPending(t *testing.T) {
	svc := newTestService(t, Config{}, nil, nil)

	for _, intent := range []string{"afirmar", "agradecimiento"} {
		out := svc.HandleTurn(context.Background(), Turn{Intent: intent, Pending: StatePending})
		assert.Equal(t, []string{DefaultMessages().Completed}, out.Messages, intent)
		assert.Equal(t, []SlotEvent{{Slot: DefaultPendingSlot, Value: nil}}, out.Events, intent)
		assert.Equal(t, StateNone, out.Transition.To, intent)
		assert.False(t, out.Revert, intent)
	}
}

func TestHandleTurnDenialRevertsUtterance(t *testing.T) {
	svc := newTestService(t, Config{PendingSlot: "pedido"}, nil, nil)

	out := svc.HandleTurn(context.Background(), Turn{Intent: "denegar", Pending: StatePending})

	assert.Equal(t, CategoryDenial, out.Category)
	assert.True(t, out.Revert)
	assert.Equal(t, []string{DefaultMessages().DenialClarify}, out.Messages)
	assert.Equal(t, []SlotEvent{{Slot: "pedido", Value: nil}}, out.Events)
}

func TestHandleTurnConfirmationWithoutPendingAcknowledges(t *testing.T) {
	svc := newTestService(t, Config{}, nil, nil)

	cases := map[string]string{
		"afirmar":        DefaultMessages().AckAffirm,
		"denegar":        DefaultMessages().AckDeny,
		"agradecimiento": DefaultMessages().AckThanks,
	}
	for intent, want := range cases {
		out := svc.HandleTurn(context.Background(), Turn{Intent: intent})
		assert.Equal(t, []string{want}, out.Messages, intent)
		assert.Empty(t, out.Events, intent)
		assert.False(t, out.Revert, intent)
		assert.True(t, out.Transition.FallThrough, intent)
	}
}

func TestHandleTurnOutOfScopeIntent(t *testing.T) {
	svc := newTestService(t, Config{}, nil, nil)

	out := svc.HandleTurn(context.Background(), Turn{Intent: "saludo", Pending: StatePending})

	assert.Equal(t, CategoryOther, out.Category)
	assert.Empty(t, out.Messages)
	assert.Empty(t, out.Events)
	assert.Equal(t, StatePending, out.Transition.To)
}

func TestHandleTurnFaultYieldsApology(t *testing.T) {
	rec := &turnLog{}
	log := &panickyLogger{}
	svc := newTestService(t, Config{}, log, rec)

	out := svc.HandleTurn(context.Background(), Turn{Intent: "afirmar", Pending: StatePending})

	assert.True(t, out.Failed)
	assert.Equal(t, []string{DefaultMessages().Apology}, out.Messages)
	assert.Empty(t, out.Events)
	assert.Equal(t, StatePending, out.Transition.To)
	assert.Equal(t, 1, log.errors)
	require.Len(t, rec.turns, 1)
	assert.True(t, rec.turns[0].Failed)
}

func TestNewServiceValidates(t *testing.T) {
	_, err := NewService(Config{}, nil, nil, nil, nil)
	assert.Error(t, err)

	_, err = NewService(Config{MinSimilarity: 2}, nil, MustDefaultIntentRegistry(), nil, nil)
	assert.Error(t, err)

	svc, err := NewService(Config{}, nil, MustDefaultIntentRegistry(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultPendingSlot, svc.PendingSlot())
	assert.Equal(t, 0, svc.Lookup().Len())
}
