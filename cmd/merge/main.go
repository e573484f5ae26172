// Command merge is the Fantalink roster reconciliation CLI.
//
// Usage:
//
//	fantalink-merge enrich --stats database.csv --target Quotazioni_2025_26.csv
//	fantalink-merge enrich --stats voti_2024_25.csv --target listone.csv --schema ratings --mode if-missing --by-team
//	fantalink-merge scrape --out stats_serie_a.csv
//	fantalink-merge rename --file database.csv
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fantalink/fantalink-data/internal/config"
	"github.com/fantalink/fantalink-data/internal/csvio"
	"github.com/fantalink/fantalink-data/internal/enrich"
	"github.com/fantalink/fantalink-data/internal/match"
	"github.com/fantalink/fantalink-data/internal/roster"
	"github.com/fantalink/fantalink-data/internal/scrape"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "fantalink-merge",
		Short: "Fantalink roster reconciliation CLI",
	}

	root.AddCommand(enrichCmd())
	root.AddCommand(scrapeCmd())
	root.AddCommand(renameCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// enrich command
// --------------------------------------------------------------------------

func enrichCmd() *cobra.Command {
	var (
		statsPath   string
		targetPath  string
		statsDelim  string
		targetDelim string
		schemaName  string
		modeName    string
		byTeam      bool
		outPrefix   string
	)
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Merge season statistics into a quotation roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config) error {
				schema, err := schemaByName(schemaName)
				if err != nil {
					return err
				}
				mode, err := modeByName(modeName)
				if err != nil {
					return err
				}
				sd, err := delimOr(statsDelim, cfg.StatsDelimiter)
				if err != nil {
					return err
				}
				td, err := delimOr(targetDelim, cfg.TargetDelimiter)
				if err != nil {
					return err
				}

				start := time.Now()

				stats, err := csvio.Read(statsPath, sd)
				if err != nil {
					return fmt.Errorf("read stats source: %w", err)
				}
				ix := match.BuildIndex(stats.Rows, match.BuildOptions{
					Schema:      schema,
					RequireTeam: byTeam,
				}, logger)

				target, err := csvio.Read(targetPath, td)
				if err != nil {
					return fmt.Errorf("read target roster: %w", err)
				}

				rows, result := enrich.Enrich(target.Rows, ix, enrich.Options{
					Schema: schema,
					Mode:   mode,
				}, logger)

				out := &csvio.Table{Columns: target.Columns, Rows: rows}
				if mode != enrich.ExistingOnly {
					out.EnsureColumns(schema...)
				}

				path, err := csvio.WriteTimestamped(cfg.OutputDir, outPrefix, out, td)
				if err != nil {
					return fmt.Errorf("write output: %w", err)
				}

				logger.Info("Enrich finished",
					"output", path,
					"duration", time.Since(start).Round(time.Millisecond),
					"summary", result.Summary())
				for _, e := range result.Errors {
					logger.Error("enrich error", "error", e)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&statsPath, "stats", "", "Statistics source CSV (required)")
	cmd.Flags().StringVar(&targetPath, "target", "", "Target roster CSV to enrich (required)")
	cmd.Flags().StringVar(&statsDelim, "stats-delim", "", "Stats delimiter (default from STATS_DELIMITER, ',')")
	cmd.Flags().StringVar(&targetDelim, "target-delim", "", "Target delimiter (default from TARGET_DELIMITER, ';')")
	cmd.Flags().StringVar(&schemaName, "schema", "totals", "Statistics schema: totals or ratings")
	cmd.Flags().StringVar(&modeName, "mode", "always", "Merge mode: always, if-missing, or existing-only")
	cmd.Flags().BoolVar(&byTeam, "by-team", false, "Require team context in the stats source and match team-first")
	cmd.Flags().StringVar(&outPrefix, "prefix", "quotazioni_enriched", "Output file prefix")
	cmd.MarkFlagRequired("stats")
	cmd.MarkFlagRequired("target")
	return cmd
}

// --------------------------------------------------------------------------
// scrape command
// --------------------------------------------------------------------------

func scrapeCmd() *cobra.Command {
	var (
		url     string
		tableID string
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Fetch season player statistics from FBref",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config) error {
				if url == "" {
					url = cfg.ScrapeURL
				}
				if tableID == "" {
					tableID = cfg.ScrapeTableID
				}

				client := scrape.NewClient(cfg.ScrapeUserAgent, cfg.ScrapePerMinute, cfg.ScrapeTimeout, logger)
				start := time.Now()

				raw, err := client.FetchTable(ctx, url, tableID)
				if err != nil {
					return fmt.Errorf("fetch stats table: %w", err)
				}

				table := scrape.ToStatsTable(raw)
				if err := csvio.Write(outPath, table, cfg.StatsDelimiter); err != nil {
					return fmt.Errorf("write stats file: %w", err)
				}

				logger.Info("Scrape finished",
					"output", outPath, "rows", len(table.Rows),
					"duration", time.Since(start).Round(time.Millisecond))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "Stats page URL (default from SCRAPE_URL)")
	cmd.Flags().StringVar(&tableID, "table-id", "", "HTML table id (default from SCRAPE_TABLE_ID)")
	cmd.Flags().StringVar(&outPath, "out", "database.csv", "Output CSV path")
	return cmd
}

// --------------------------------------------------------------------------
// rename command
// --------------------------------------------------------------------------

func renameCmd() *cobra.Command {
	var (
		filePath string
		delim    string
	)
	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rewrite exporter column keys to display headers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config) error {
				d, err := delimOr(delim, cfg.TargetDelimiter)
				if err != nil {
					return err
				}

				table, err := csvio.Read(filePath, d)
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
				table.RenameColumns(roster.DisplayHeaders)
				if err := csvio.Write(filePath, table, d); err != nil {
					return fmt.Errorf("rewrite file: %w", err)
				}

				logger.Info("Rename finished", "file", filePath, "rows", len(table.Rows))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&filePath, "file", "", "CSV file to rewrite in place (required)")
	cmd.Flags().StringVar(&delim, "delim", "", "Delimiter (default from TARGET_DELIMITER, ';')")
	cmd.MarkFlagRequired("file")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// run handles config loading and context cancellation.
func run(fn func(ctx context.Context, cfg *config.Config) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	return fn(ctx, cfg)
}

func schemaByName(name string) (roster.Schema, error) {
	switch name {
	case "totals":
		return roster.SeasonTotals, nil
	case "ratings":
		return roster.MatchRatings, nil
	default:
		return nil, fmt.Errorf("unknown schema %q (want totals or ratings)", name)
	}
}

func modeByName(name string) (enrich.Mode, error) {
	switch name {
	case "always":
		return enrich.Always, nil
	case "if-missing":
		return enrich.IfMissing, nil
	case "existing-only":
		return enrich.ExistingOnly, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want always, if-missing, or existing-only)", name)
	}
}

func delimOr(flag string, fallback rune) (rune, error) {
	if flag == "" {
		return fallback, nil
	}
	runes := []rune(flag)
	if len(runes) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", flag)
	}
	return runes[0], nil
}
