package commands

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ozcodx/mailprocessor/internal/analyze"
	"github.com/ozcodx/mailprocessor/internal/classify"
	"github.com/ozcodx/mailprocessor/internal/config"
	"github.com/ozcodx/mailprocessor/internal/extract"
	"github.com/ozcodx/mailprocessor/internal/hierarchy"
	"github.com/ozcodx/mailprocessor/internal/mail"
	"github.com/ozcodx/mailprocessor/internal/report"
	"github.com/ozcodx/mailprocessor/internal/sheet"
)

func newProcessCommand() *cobra.Command {
	var (
		configPath string
		noEmail    bool
		debug      bool
		excel      bool
		output     string
	)

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Fetch statements and generate financial reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if output != "" {
				cfg.Report.OutputFolder = output
			}
			if excel {
				cfg.Report.Excel = true
			}

			logCfg := zap.NewProductionConfig()
			if debug {
				logCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
			}
			logger, err := logCfg.Build()
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			defer logger.Sync() //nolint:errcheck // stderr sync failure is harmless

			return runProcess(cfg, logger, noEmail, debug)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", config.DefaultFile, "config file path")
	cmd.Flags().BoolVar(&noEmail, "no-email", false, "skip mail download, use existing files")
	cmd.Flags().BoolVar(&debug, "debug", false, "verbose logging; re-download all mail")
	cmd.Flags().BoolVar(&excel, "excel", false, "also export an Excel workbook per file")
	cmd.Flags().StringVar(&output, "output", "", "reports folder (overrides config)")

	return cmd
}

func runProcess(cfg *config.Config, logger *zap.Logger, noEmail, debug bool) error {
	if !noEmail {
		fetcher := mail.NewFetcher(cfg.Mail, logger)
		if debug {
			if err := fetcher.ClearLog(); err != nil {
				return err
			}
		}
		downloaded, err := fetcher.Download()
		if err != nil {
			return err
		}
		fmt.Printf("Downloaded %d attachment(s)\n", len(downloaded))
	}

	registry := sheet.DefaultRegistry()
	files, err := sheet.Scan(registry, cfg.Mail.DownloadFolder)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No files to process.")
		return nil
	}

	table := sheet.NewTable(cfg.Parser.HeaderMarker, cfg.Parser.FallbackHeaderRow, logger)
	classifier := classify.New(cfg.Rules(), cfg.Classifier.Ruleset)
	extractor := extract.New(table, classifier, logger)

	processed := 0
	for _, name := range files {
		if err := processFile(cfg, registry, extractor, name); err != nil {
			// A malformed file never aborts the batch.
			logger.Warn("skipping file", zap.String("file", name), zap.Error(err))
			continue
		}
		processed++
	}

	fmt.Printf("Processed %d of %d file(s)\n", processed, len(files))
	return nil
}

func processFile(cfg *config.Config, registry *sheet.Registry, extractor *extract.Extractor, name string) error {
	path := filepath.Join(cfg.Mail.DownloadFolder, name)
	grid, err := registry.Load(path)
	if err != nil {
		return err
	}

	records, err := extractor.Records(grid)
	if errors.Is(err, extract.ErrNoRecords) || errors.Is(err, sheet.ErrInsufficientColumns) {
		fmt.Printf("%s: nothing to report (%v)\n", name, err)
		return nil
	}
	if err != nil {
		return err
	}

	resolver := hierarchy.Resolve(records)
	result := analyze.Aggregate(records, resolver, cfg.Aggregation.Policy)

	prefix := "informe_" + strings.TrimSuffix(name, filepath.Ext(name))
	now := time.Now()

	text := report.Text(records, resolver, result, cfg.Aggregation.Policy)
	textPath, err := report.WriteText(cfg.Report.OutputFolder, prefix, now, text)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d record(s), report %s\n", name, len(records), textPath)

	if cfg.Report.Excel {
		excelPath, err := report.WriteExcel(cfg.Report.OutputFolder, prefix, now, records, result)
		if err != nil {
			return err
		}
		fmt.Printf("%s: workbook %s\n", name, excelPath)
	}
	return nil
}
