package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"yashubustudio/slotguide/slots"
)

const exampleLookup = `version: "3.1"
nlu:
  - lookup: categoria
    examples: |
      - vacunas
      - antibioticos
      - antiparasitarios
      - vitaminas
  - lookup: proveedor
    examples: |
      - Bayer
      - Zoetis
      - Boehringer Ingelheim
`

func newInitCmd() *cobra.Command {
	var (
		dir   string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write default slotguide.yml, intents_config.yml and an example lookup table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeScaffold(cmd.OutOrStdout(), dir, force)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "target directory")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	return cmd
}

func writeScaffold(w io.Writer, dir string, force bool) error {
	dir = filepath.Clean(strings.TrimSpace(dir))
	if err := ensureDir(dir); err != nil {
		return err
	}

	cfg := slots.DefaultConfig()
	intentsData, err := yaml.Marshal(map[string][]slots.IntentSpec{"intents": slots.DefaultIntents()})
	if err != nil {
		return fmt.Errorf("encode intents: %w", err)
	}

	files := []struct {
		name  string
		write func(path string) error
	}{
		{"slotguide.yml", func(path string) error { return slots.SaveConfig(path, cfg) }},
		{cfg.IntentsPath, writeBytes(intentsData)},
		{cfg.LookupPath, writeBytes([]byte(exampleLookup))},
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		written, err := ensureFile(path, force, f.write)
		if err != nil {
			return err
		}
		if written {
			fmt.Fprintln(w, "wrote", path)
		} else {
			fmt.Fprintln(w, "kept", path)
		}
	}
	return nil
}

func ensureDir(p string) error {
	if p == "" || p == "." {
		return nil
	}
	if err := os.MkdirAll(p, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", p, err)
	}
	return nil
}

func writeBytes(data []byte) func(path string) error {
	return func(path string) error {
		if err := ensureDir(filepath.Dir(path)); err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		return nil
	}
}

// ensureFile calls write for path unless the file exists and force is unset.
// It reports whether the file was written.
func ensureFile(path string, force bool, write func(path string) error) (bool, error) {
	clean := filepath.Clean(path)
	if _, err := os.Stat(clean); err == nil {
		if !force {
			return false, nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat %s: %w", clean, err)
	}
	if err := write(clean); err != nil {
		return false, err
	}
	return true, nil
}
