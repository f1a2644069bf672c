package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fifotax/fifotax/internal/config"
)

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a starter fifotax.yaml and prices.yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir)
		},
	}

	return cmd
}

func runInit(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	configPath := filepath.Join(dir, "fifotax.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}
	if err := config.Save(configPath, config.Default()); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	pricesContent := "# Fiat-equivalent prices for swap outputs, one entry per asset and date.\n" +
		"prices: []\n"
	if err := os.WriteFile(filepath.Join(dir, "prices.yaml"), []byte(pricesContent), 0o644); err != nil {
		return fmt.Errorf("writing prices file: %w", err)
	}

	fmt.Printf("Initialized fifotax project at %s\n", dir)
	return nil
}
