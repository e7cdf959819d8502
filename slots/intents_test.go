package slots

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIntentRegistry(t *testing.T) {
	r := MustDefaultIntentRegistry()

	assert.Equal(t, []string{"producto", "categoria", "proveedor", "ingrediente_activo"}, r.RequiredSlots("buscar_producto"))
	assert.Equal(t, CategorySearch, r.Category("buscar_oferta"))
	assert.Equal(t, CategorySearch, r.Category("completar_pedido"))
	assert.Equal(t, CategoryAffirmation, r.Category("afirmar"))
	assert.Equal(t, CategoryDenial, r.Category("denegar"))
	assert.Equal(t, CategoryAcknowledgment, r.Category("agradecimiento"))
	assert.Equal(t, ActionSearch, r.Action("buscar_producto"))
	assert.Equal(t, ActionConfirm, r.Action("denegar"))
	assert.Empty(t, r.RequiredSlots("afirmar"))
	assert.Equal(t, []string{ActionSearch, ActionConfirm}, r.Actions())
}

func TestIntentRegistryClassifiesUnknownByName(t *testing.T) {
	r := MustDefaultIntentRegistry()

	assert.Equal(t, CategorySearch, r.Category("consultar_stock"))
	assert.Equal(t, CategorySearch, r.Category("modificar_busqueda"))
	assert.Equal(t, CategoryOther, r.Category("saludo"))
	assert.Nil(t, r.RequiredSlots("consultar_stock"))
	assert.Equal(t, ActionSearch, r.Action("consultar_stock"))
	assert.Equal(t, "", r.Action("saludo"))
}

func TestRequiredSlotsReturnsCopy(t *testing.T) {
	r := MustDefaultIntentRegistry()
	slots := r.RequiredSlots("buscar_oferta")
	slots[0] = "mutated"
	assert.Equal(t, "producto", r.RequiredSlots("buscar_oferta")[0])
}

func TestParseIntents(t *testing.T) {
	r, err := ParseIntents([]byte(`
intents:
  - name: consultar_precio
    entities: [producto]
  - name: saludo
  - name: gracias_totales
    grupo: agradecimiento
  - name: ver_catalogo
    category: busqueda
    action: action_catalogo
    entities: [categoria]
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"consultar_precio", "saludo", "gracias_totales", "ver_catalogo"}, r.Intents())
	assert.Equal(t, []string{"producto"}, r.RequiredSlots("consultar_precio"))
	assert.Equal(t, []string{}, r.RequiredSlots("saludo"))
	assert.Equal(t, CategoryAcknowledgment, r.Category("gracias_totales"))
	assert.Equal(t, ActionConfirm, r.Action("gracias_totales"))
	assert.Equal(t, CategorySearch, r.Category("ver_catalogo"))
	assert.Equal(t, "action_catalogo", r.Action("ver_catalogo"))
	assert.Contains(t, r.Actions(), "action_catalogo")
}

func TestParseIntentsRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"no list":      "other: 1\n",
		"missing name": "intents:\n  - entities: [producto]\n",
		"bad category": "intents:\n  - name: x\n    category: despedida\n",
		"bad yaml":     "intents: [\n",
	}
	for name, doc := range cases {
		_, err := ParseIntents([]byte(doc))
		assert.Error(t, err, name)
	}
}

func TestLoadIntents(t *testing.T) {
	log := &recordingLogger{}
	r, err := LoadIntents(filepath.Join(t.TempDir(), "absent.yml"), log)
	require.NoError(t, err)
	assert.Equal(t, CategorySearch, r.Category("buscar_producto"))
	assert.Len(t, log.warns, 1)

	dir := t.TempDir()
	bad := writeFile(t, dir, "intents.yml", "intents:\n  - entities: []\n")
	_, err = LoadIntents(bad, nil)
	require.Error(t, err)
	assert.True(t, IsLoadError(err))

	good := writeFile(t, dir, "ok.yml", "intents:\n  - name: buscar_vacuna\n    entities: [producto]\n")
	r, err = LoadIntents(good, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"buscar_vacuna"}, r.Intents())
}
