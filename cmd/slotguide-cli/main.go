package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"yashubustudio/slotguide/internal/logger"
	"yashubustudio/slotguide/slots"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "slotguide-cli:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "slotguide-cli",
		Short:         "Inspect lookup tables and try turns against the slot validator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to slotguide.yml (default ./slotguide.yml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log engine decisions to stderr")

	cmd.AddCommand(
		newValidateCmd(opts),
		newLookupCmd(opts),
		newSuggestCmd(opts),
		newInitCmd(),
	)
	return cmd
}

// engine bundles what the subcommands load from configuration.
type engine struct {
	cfg     slots.Config
	lookup  *slots.LookupTable
	intents *slots.IntentRegistry
	log     slots.Logger
}

func loadEngine(opts *rootOptions) (*engine, error) {
	cfg, err := slots.LoadConfig(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	var log slots.Logger = slots.NopLogger{}
	if opts.verbose {
		l, err := logger.New("dev", false)
		if err != nil {
			return nil, err
		}
		log = l
	}
	lookup, intents, err := slots.LoadAssets(cfg, log)
	if err != nil {
		return nil, err
	}
	return &engine{cfg: cfg, lookup: lookup, intents: intents, log: log}, nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return enc.Close()
}
