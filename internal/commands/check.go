package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fifotax/fifotax/internal/engine"
)

func newCheckCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Parse and validate the configured sources without writing a report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fifotax.yaml", "path to the config file")

	return cmd
}

func runCheck(configPath string) error {
	p, err := loadPipeline(configPath)
	if err != nil {
		return err
	}

	assets := engine.AssetSet(p.txs)
	slog.Info("parsed asset symbols", "assets", assets)

	fmt.Printf("OK: %d transactions across %d asset(s)\n", len(p.txs), len(assets))
	return nil
}
