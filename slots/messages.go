package slots

import (
	"strings"
)

// Messages holds the user-facing texts. Placeholders in braces are replaced
// when a message is rendered: {value} {slot} {suggestion} {intent}
// {entities} {slots}.
type Messages struct {
	Suggestion    string `yaml:"suggestion"`
	NoSuggestion  string `yaml:"no_suggestion"`
	Searching     string `yaml:"searching"`
	MissingOne    string `yaml:"missing_one"`
	MissingMany   string `yaml:"missing_many"`
	Superseded    string `yaml:"superseded"`
	Completed     string `yaml:"completed"`
	DenialClarify string `yaml:"denial_clarify"`
	Apology       string `yaml:"apology"`
	AckAffirm     string `yaml:"ack_affirm"`
	AckDeny       string `yaml:"ack_deny"`
	AckThanks     string `yaml:"ack_thanks"`
}

// DefaultMessages returns the built-in Spanish catalog.
func DefaultMessages() Messages {
	return Messages{
		Suggestion:    "'{value}' no existe en '{slot}'. ¿Quisiste decir '{suggestion}'?",
		NoSuggestion:  "'{value}' no existe en '{slot}' y no encontré sugerencias.",
		Searching:     "Buscando {intent} con -> {entities}",
		MissingOne:    "Por favor indica el valor para '{slot}'",
		MissingMany:   "Por favor provee alguno de los siguientes valores: {slots}",
		Superseded:    "Doy por completado tu pedido anterior y empiezo una nueva búsqueda.",
		Completed:     "¡Perfecto! Tu pedido quedó completado.",
		DenialClarify: "Entendido. ¿Puedes escribir el nombre correcto o usar otros criterios de búsqueda?",
		Apology:       "Disculpa, hubo un error procesando tu mensaje. ¿Puedes intentar nuevamente?",
		AckAffirm:     "Perfecto. ¿En qué puedo ayudarte hoy?",
		AckDeny:       "No hay problema. ¿Hay algo más en lo que pueda asistirte?",
		AckThanks:     "¡De nada! Siempre estoy aquí para ayudarte.",
	}
}

// withDefaults fills empty entries from the built-in catalog.
func (m Messages) withDefaults() Messages {
	d := DefaultMessages()
	pick := func(v, fallback string) string {
		if strings.TrimSpace(v) == "" {
			return fallback
		}
		return v
	}
	return Messages{
		Suggestion:    pick(m.Suggestion, d.Suggestion),
		NoSuggestion:  pick(m.NoSuggestion, d.NoSuggestion),
		Searching:     pick(m.Searching, d.Searching),
		MissingOne:    pick(m.MissingOne, d.MissingOne),
		MissingMany:   pick(m.MissingMany, d.MissingMany),
		Superseded:    pick(m.Superseded, d.Superseded),
		Completed:     pick(m.Completed, d.Completed),
		DenialClarify: pick(m.DenialClarify, d.DenialClarify),
		Apology:       pick(m.Apology, d.Apology),
		AckAffirm:     pick(m.AckAffirm, d.AckAffirm),
		AckDeny:       pick(m.AckDeny, d.AckDeny),
		AckThanks:     pick(m.AckThanks, d.AckThanks),
	}
}

// render substitutes placeholders given as key, value pairs.
func render(template string, kv ...string) string {
	pairs := make([]string, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		pairs = append(pairs, "{"+kv[i]+"}", kv[i+1])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// humanizeIntent turns "buscar_producto" into "buscar producto".
func humanizeIntent(intent string) string {
	return strings.ReplaceAll(intent, "_", " ")
}

func describeEntities(entities []ValidatedEntity) string {
	parts := make([]string, len(entities))
	for i, e := range entities {
		parts[i] = e.Slot + ": " + e.Value
	}
	return strings.Join(parts, ", ")
}
