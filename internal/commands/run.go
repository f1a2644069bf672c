package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fifotax/fifotax/internal/config"
	"github.com/fifotax/fifotax/internal/engine"
	"github.com/fifotax/fifotax/internal/importer"
	"github.com/fifotax/fifotax/internal/model"
	"github.com/fifotax/fifotax/internal/prices"
	"github.com/fifotax/fifotax/internal/report"
)

func newRunCommand() *cobra.Command {
	var configPath string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Ingest the configured sources and write the FIFO report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(configPath, outputPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fifotax.yaml", "path to the config file")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "override the configured output path")

	return cmd
}

// pipeline is everything up to and including stream validation, shared by
// run and check.
type pipeline struct {
	cfg        *config.Config
	classifier *model.Classifier
	table      *prices.Table
	txs        []model.Transaction
}

func loadPipeline(configPath string) (*pipeline, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	fiat := make([]model.Asset, len(cfg.Reporting.FiatAssets))
	for i, s := range cfg.Reporting.FiatAssets {
		fiat[i] = model.ParseAsset(s)
	}
	classifier := model.NewClassifier(model.ParseAsset(cfg.Reporting.Currency), fiat)

	sources := make([]importer.Source, len(cfg.Sources))
	for i, s := range cfg.Sources {
		sources[i] = importer.Source{
			Path:     s.Path,
			Sheet:    s.Sheet,
			StartRow: s.StartRow,
			Format:   s.Format,
		}
	}

	txs, err := importer.DefaultRegistry().ParseAll(sources)
	if err != nil {
		return nil, err
	}
	slog.Info("parsed transactions", "count", len(txs), "sources", len(sources))

	table := prices.NewTable(nil)
	if cfg.PriceFile != "" {
		table, err = prices.Load(cfg.PriceFile)
		if err != nil {
			return nil, err
		}
	}

	if missing := table.MissingPrices(txs, classifier); len(missing) > 0 {
		for _, m := range missing {
			slog.Error("missing price", "asset", m.Asset, "date", m.Date.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("missing prices for %d swap valuation(s)", len(missing))
	}

	state, err := engine.ValidateStream(txs, classifier)
	if err != nil {
		return nil, err
	}
	slog.Info("stream validated", "assets", len(state))

	return &pipeline{cfg: cfg, classifier: classifier, table: table, txs: txs}, nil
}

func runReport(configPath, outputOverride string) error {
	p, err := loadPipeline(configPath)
	if err != nil {
		return err
	}

	rep, err := engine.New(p.classifier, p.table).Run(p.txs)
	if err != nil {
		return err
	}

	rows := rep.Finalize()
	for _, summary := range report.Summarize(rows) {
		slog.Info(summary.String())
	}

	output := p.cfg.Reporting.Output
	if outputOverride != "" {
		output = outputOverride
	}

	// The file is created only after the whole run succeeded.
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()

	if err := report.WriteCSV(f, rows, p.cfg.Delimiter()); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	fmt.Printf("Report with %d rows written to %s\n", len(rows), output)
	return nil
}
