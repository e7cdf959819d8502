package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"yashubustudio/slotguide/slots"
)

func newSuggestCmd(root *rootOptions) *cobra.Command {
	var (
		slot     string
		limit    int
		minScore float64
	)
	cmd := &cobra.Command{
		Use:   "suggest --slot SLOT VALUE",
		Short: "Show the closest canonical values for VALUE with their scores",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := loadEngine(root)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("limit") {
				limit = eng.cfg.MaxSuggestions
			}
			if !cmd.Flags().Changed("min") {
				minScore = eng.cfg.MinSimilarity
			}
			candidates := eng.lookup.ValuesFor(slot)
			if len(candidates) == 0 {
				return fmt.Errorf("slot %q has no lookup values", slot)
			}
			value := strings.Join(args, " ")
			w := cmd.OutOrStdout()
			if eng.lookup.Contains(slot, value) {
				fmt.Fprintf(w, "'%s' is a valid %s\n", value, slot)
				return nil
			}
			matches := slots.Rank(value, candidates, limit, minScore)
			if len(matches) == 0 {
				fmt.Fprintln(w, "no suggestions")
				return nil
			}
			for _, m := range matches {
				fmt.Fprintf(w, "%.3f\t%s\n", m.Score, m.Value)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&slot, "slot", "s", "", "slot whose lookup values are searched")
	cmd.Flags().IntVar(&limit, "limit", slots.DefaultMaxSuggestions, "maximum suggestions")
	cmd.Flags().Float64Var(&minScore, "min", slots.DefaultMinSimilarity, "minimum similarity in (0, 1]")
	_ = cmd.MarkFlagRequired("slot")
	return cmd
}
