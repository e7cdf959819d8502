package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"yashubustudio/slotguide/slots"
)

type validateOptions struct {
	intent   string
	entities []string
	pending  bool
}

// validateReport is the YAML document printed by the validate command.
type validateReport struct {
	Intent   string            `yaml:"intent"`
	Category string            `yaml:"category"`
	Messages []string          `yaml:"messages"`
	Events   []map[string]any  `yaml:"events"`
	Revert   bool              `yaml:"revert,omitempty"`
	Pending  string            `yaml:"pending"`
	Valid    []string          `yaml:"valid,omitempty"`
	Errors   []validateFailure `yaml:"errors,omitempty"`
	Missing  []string          `yaml:"missing,omitempty"`
	Failed   bool              `yaml:"failed,omitempty"`
}

type validateFailure struct {
	Value       string   `yaml:"value"`
	Slot        string   `yaml:"slot"`
	Suggestions []string `yaml:"suggestions"`
}

func newValidateCmd(root *rootOptions) *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run one turn through the engine and print the outcome",
		Example: `  slotguide-cli validate --intent buscar_producto --entity categoria=vacuna
  slotguide-cli validate --intent afirmar --pending`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := loadEngine(root)
			if err != nil {
				return err
			}
			entities, err := parseEntityArgs(opts.entities)
			if err != nil {
				return err
			}
			svc, err := slots.NewService(eng.cfg, eng.lookup, eng.intents, eng.log, nil)
			if err != nil {
				return err
			}
			turn := slots.Turn{
				ConversationID: "cli",
				Intent:         strings.TrimSpace(opts.intent),
				Entities:       entities,
			}
			if opts.pending {
				turn.Pending = slots.StatePending
			}
			out := svc.HandleTurn(context.Background(), turn)
			return writeYAML(cmd.OutOrStdout(), buildReport(turn.Intent, out))
		},
	}
	cmd.Flags().StringVarP(&opts.intent, "intent", "i", "", "intent name")
	cmd.Flags().StringArrayVarP(&opts.entities, "entity", "e", nil, "entity as slot=value (repeatable)")
	cmd.Flags().BoolVar(&opts.pending, "pending", false, "start with a pending request")
	_ = cmd.MarkFlagRequired("intent")
	return cmd
}

func parseEntityArgs(args []string) ([]slots.RawEntity, error) {
	out := make([]slots.RawEntity, 0, len(args))
	for _, arg := range args {
		slot, value, ok := strings.Cut(arg, "=")
		slot = strings.TrimSpace(slot)
		if !ok || slot == "" {
			return nil, fmt.Errorf("invalid --entity %q: expected slot=value", arg)
		}
		out = append(out, slots.RawEntity{Entity: slot, Value: value})
	}
	return out, nil
}

func buildReport(intent string, out slots.TurnResult) validateReport {
	r := validateReport{
		Intent:   intent,
		Category: string(out.Category),
		Messages: out.Messages,
		Events:   make([]map[string]any, 0, len(out.Events)),
		Revert:   out.Revert,
		Pending:  out.Transition.To.String(),
		Failed:   out.Failed,
	}
	for _, e := range out.Events {
		r.Events = append(r.Events, map[string]any{"slot": e.Slot, "value": e.Value})
	}
	if v := out.Validation; v != nil {
		for _, e := range v.Valid {
			r.Valid = append(r.Valid, e.Slot+"="+e.Value)
		}
		for _, e := range v.Errors {
			r.Errors = append(r.Errors, validateFailure{Value: e.OriginalValue, Slot: e.Slot, Suggestions: e.Suggestions})
		}
		r.Missing = v.Missing
	}
	return r
}
