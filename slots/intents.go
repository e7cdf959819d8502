package slots

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ActionSearch is the action name served for search intents.
	ActionSearch = "action_busqueda_situacion"
	// ActionConfirm is the action name served for affirmation, denial and thanks.
	ActionConfirm = "action_conf_neg_agradecer"
	// DefaultSearchIntent stands in for a turn whose classifier gave no intent.
	DefaultSearchIntent = "buscar_producto"
)

// IntentSpec is one entry of the intents configuration.
type IntentSpec struct {
	Name     string   `yaml:"name"`
	Entities []string `yaml:"entities"`
	Action   string   `yaml:"action,omitempty"`
	Category string   `yaml:"category,omitempty"`
	// Group is the legacy spelling of Category.
	Group string `yaml:"grupo,omitempty"`
}

type intentsDocument struct {
	Intents *[]IntentSpec `yaml:"intents"`
}

type intentEntry struct {
	spec     IntentSpec
	category Category
	action   string
}

// IntentRegistry maps intent names to required slots, actions and categories.
// It is immutable after construction.
type IntentRegistry struct {
	intents map[string]intentEntry
	order   []string
}

// DefaultIntents is the registry used when no configuration asset exists.
func DefaultIntents() []IntentSpec {
	return []IntentSpec{
		{Name: "buscar_producto", Entities: []string{"producto", "categoria", "proveedor", "ingrediente_activo"}},
		{Name: "buscar_oferta", Entities: []string{"producto", "categoria", "proveedor"}},
		{Name: "completar_pedido", Entities: []string{"producto", "categoria", "proveedor", "ingrediente_activo"}},
		{Name: "afirmar"},
		{Name: "denegar"},
		{Name: "agradecimiento"},
	}
}

// NewIntentRegistry validates specs and builds a registry.
func NewIntentRegistry(specs []IntentSpec) (*IntentRegistry, error) {
	r := &IntentRegistry{intents: make(map[string]intentEntry, len(specs))}
	for i, spec := range specs {
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			return nil, fmt.Errorf("intent #%d: missing name", i+1)
		}
		spec.Name = name
		if spec.Entities == nil {
			spec.Entities = []string{}
		}
		label := spec.Category
		if label == "" {
			label = spec.Group
		}
		category := classifyIntentName(name)
		if strings.TrimSpace(label) != "" {
			c, err := ParseCategory(label)
			if err != nil {
				return nil, fmt.Errorf("intent %s: %w", name, err)
			}
			category = c
		}
		action := strings.TrimSpace(spec.Action)
		if action == "" {
			action = defaultAction(category)
		}
		if _, dup := r.intents[name]; !dup {
			r.order = append(r.order, name)
		}
		r.intents[name] = intentEntry{spec: spec, category: category, action: action}
	}
	return r, nil
}

// MustDefaultIntentRegistry returns the built-in registry.
func MustDefaultIntentRegistry() *IntentRegistry {
	r, err := NewIntentRegistry(DefaultIntents())
	if err != nil {
		panic(err)
	}
	return r
}

// ParseIntents decodes an intents document: a top-level "intents" list whose
// items need a name; entities and action are optional.
func ParseIntents(data []byte) (*IntentRegistry, error) {
	var doc intentsDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if doc.Intents == nil {
		return nil, errors.New("missing 'intents' list")
	}
	return NewIntentRegistry(*doc.Intents)
}

// LoadIntents reads the intents asset. A missing file falls back to the
// built-in registry with a warning; invalid content is a *LoadError.
func LoadIntents(path string, log Logger) (*IntentRegistry, error) {
	log = orNop(log)
	data, err := readAsset(path)
	if err != nil {
		if errors.Is(err, ErrMissingAsset) {
			log.Warn("intents asset missing, using built-in intents", "path", path)
			return MustDefaultIntentRegistry(), nil
		}
		return nil, &LoadError{Asset: "intents", Path: path, Err: err}
	}
	reg, err := ParseIntents(data)
	if err != nil {
		return nil, &LoadError{Asset: "intents", Path: path, Err: err}
	}
	log.Info("intents loaded", "path", path, "intents", len(reg.order))
	return reg, nil
}

// RequiredSlots returns a copy of the slots intent asks for.
func (r *IntentRegistry) RequiredSlots(intent string) []string {
	e, ok := r.intents[intent]
	if !ok {
		return nil
	}
	out := make([]string, len(e.spec.Entities))
	copy(out, e.spec.Entities)
	return out
}

// Category classifies intent. Configured categories win; unknown intents are
// classified by name.
func (r *IntentRegistry) Category(intent string) Category {
	if e, ok := r.intents[intent]; ok {
		return e.category
	}
	return classifyIntentName(intent)
}

// Action returns the action that handles intent, or "" if none.
func (r *IntentRegistry) Action(intent string) string {
	if e, ok := r.intents[intent]; ok {
		return e.action
	}
	return defaultAction(classifyIntentName(intent))
}

// Actions returns every action name referenced by the registry, sorted.
func (r *IntentRegistry) Actions() []string {
	set := map[string]struct{}{ActionSearch: {}, ActionConfirm: {}}
	for _, e := range r.intents {
		if e.action != "" {
			set[e.action] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Intents returns the configured intent names in file order.
func (r *IntentRegistry) Intents() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func classifyIntentName(name string) Category {
	switch name {
	case "completar_pedido", "modificar_busqueda":
		return CategorySearch
	case "afirmar", "confirmar":
		return CategoryAffirmation
	case "denegar", "negar":
		return CategoryDenial
	case "agradecimiento", "agradecer":
		return CategoryAcknowledgment
	}
	if strings.HasPrefix(name, "buscar_") || strings.HasPrefix(name, "consultar_") {
		return CategorySearch
	}
	return CategoryOther
}

func defaultAction(c Category) string {
	switch c {
	case CategorySearch:
		return ActionSearch
	case CategoryAffirmation, CategoryDenial, CategoryAcknowledgment:
		return ActionConfirm
	default:
		return ""
	}
}
