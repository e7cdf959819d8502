package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type slotSummary struct {
	Slot   string `yaml:"slot"`
	Values int    `yaml:"values"`
}

func newLookupCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup [slot]",
		Short: "List lookup slots, or the canonical values of one slot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := loadEngine(root)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				summary := make([]slotSummary, 0, eng.lookup.Len())
				for _, slot := range eng.lookup.Slots() {
					summary = append(summary, slotSummary{Slot: slot, Values: len(eng.lookup.ValuesFor(slot))})
				}
				return writeYAML(cmd.OutOrStdout(), summary)
			}
			slot := args[0]
			if !eng.lookup.Restricted(slot) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: unrestricted\n", slot)
				return nil
			}
			for _, v := range eng.lookup.ValuesFor(slot) {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
}
