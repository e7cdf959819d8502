package slots

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuideMessage(t *testing.T) {
	g := NewGuide(Messages{}, nil)

	_, ok := g.Message(nil)
	assert.False(t, ok)

	msg, ok := g.Message([]string{"proveedor"})
	assert.True(t, ok)
	assert.Equal(t, "Por favor indica el valor para 'proveedor'", msg)

	msg, ok = g.Message([]string{"producto", "categoria", "proveedor"})
	assert.True(t, ok)
	assert.Equal(t, "Por favor provee alguno de los siguientes valores: producto, categoria, proveedor", msg)
}

func TestGuidePromptUsesCustomCatalog(t *testing.T) {
	log := &recordingLogger{}
	g := NewGuide(Messages{MissingOne: "Falta {slot}"}, log)
	d := &CollectingDispatcher{}

	assert.False(t, g.Prompt(d, []string{}))
	assert.True(t, g.Prompt(d, []string{"dosis"}))
	assert.True(t, g.Prompt(d, []string{"dosis", "producto"}))

	assert.Equal(t, []string{
		"Falta dosis",
		"Por favor provee alguno de los siguientes valores: dosis, producto",
	}, d.Messages)
	assert.Len(t, log.infos, 2)
}

func TestShouldGuide(t *testing.T) {
	partial := Result{
		Valid:   []ValidatedEntity{{Slot: "categoria", Value: "vacunas"}},
		Missing: []string{"proveedor"},
	}
	empty := Result{Missing: []string{"categoria"}}
	complete := Result{Valid: []ValidatedEntity{{Slot: "categoria", Value: "vacunas"}}}

	assert.False(t, ShouldGuide(false, partial))
	assert.True(t, ShouldGuide(true, partial))
	assert.True(t, ShouldGuide(false, empty))
	assert.True(t, ShouldGuide(true, empty))
	assert.False(t, ShouldGuide(true, complete))
	assert.True(t, ShouldGuide(false, Result{}))
}

func TestValidateThenGuideMissingSlot(t *testing.T) {
	v := NewValidator(scenarioLookup(), ValidatorOptions{})
	g := NewGuide(Messages{}, nil)
	d := &CollectingDispatcher{}

	res := v.Validate(d, "buscar_producto", []string{"categoria", "proveedor"}, []RawEntity{
		{Entity: "categoria", Value: "vacunas"},
	})
	if ShouldGuide(true, res) {
		g.Prompt(d, res.Missing)
	}

	assert.Equal(t, []string{
		"Buscando buscar producto con -> categoria: vacunas",
		"Por favor indica el valor para 'proveedor'",
	}, d.Messages)
}
