package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/awaistahir/smart-wash/internal/config"
	"github.com/awaistahir/smart-wash/internal/dataset"
	"github.com/awaistahir/smart-wash/internal/engine"
	"github.com/awaistahir/smart-wash/internal/store"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	jsonOutput bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "smart-wash",
		Short: "SmartWash - Find a quiet time to use the laundry room",
		Long: `SmartWash reads the laundry room's historical usage log and tells you
whether now, or a few hours from now, is a good time to start a wash.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.smartwash/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of text")

	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(hoursCmd())
	rootCmd.AddCommand(periodsCmd())
	rootCmd.AddCommand(finishCmd())
	rootCmd.AddCommand(datasetCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, config.NewLogger(cfg.Logging), nil
}

// buildReport loads the configured dataset and evaluates the given offset key
func buildReport(ctx context.Context, when string) (*engine.Report, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}

	offset, err := engine.ParseOffset(when)
	if err != nil {
		return nil, fmt.Errorf("%w (choose one of %s)", err, offsetKeys())
	}

	loader, closeFn, err := dataset.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	records, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	return engine.BuildReport(records, time.Now(), offset, cfg.Laundry.CycleDuration())
}

func offsetKeys() string {
	keys := make([]string, 0, len(engine.Offsets))
	for _, o := range engine.Offsets {
		keys = append(keys, o.Key)
	}
	return strings.Join(keys, ", ")
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func checkCmd() *cobra.Command {
	var when string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether a time is good for a wash",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := buildReport(cmd.Context(), when)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(map[string]interface{}{
					"current_hour":   report.CurrentHour,
					"offset":         report.Offset,
					"recommendation": report.Recommendation,
					"panel":          report.Panel,
				})
			}

			printPanel(report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&when, "when", "w", "now", "when to wash: "+offsetKeys())

	return cmd
}

func printPanel(report *engine.Report) {
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	red := color.New(color.FgRed, color.Bold)

	panel := report.Panel

	cyan.Printf("Now %02d:%02d, checking %s\n", report.CurrentHour, report.Now.Minute(), strings.ToLower(report.Offset.Label))

	switch report.Recommendation.Verdict {
	case engine.VerdictOK:
		green.Printf("✓ %s\n", panel.Headline)
	case engine.VerdictCongested:
		red.Printf("✗ %s\n", panel.Headline)
	default:
		yellow.Printf("! %s\n", panel.Headline)
	}

	if panel.CongestionPct != "" {
		fmt.Printf("  Congestion: %s\n", panel.CongestionPct)
	}
	if panel.WaitText != "" {
		fmt.Printf("  Wait:       %s\n", panel.WaitText)
	}
	fmt.Printf("  Status:     %s\n", panel.StatusLabel)
	if panel.Suggestion != "" {
		yellow.Printf("  %s\n", panel.Suggestion)
	}
	if panel.Celebrate {
		green.Println("  A very quiet hour. Enjoy an empty laundry room!")
	}
}

func hoursCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hours",
		Short: "Show the congestion score for every service hour",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := buildReport(cmd.Context(), "")
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(report.Stats)
			}

			if len(report.Stats) == 0 {
				fmt.Println("No hourly usage data")
				return nil
			}

			fmt.Printf("%-6s %10s %10s %8s  %s\n", "HOUR", "SCORE", "AVG USE", "SAMPLES", "")
			fmt.Println("------------------------------------------------------------")

			for _, s := range report.Stats {
				bar := strings.Repeat("█", s.Score/5)
				c := color.New(color.FgGreen)
				if s.Score >= engine.CongestedThreshold {
					c = color.New(color.FgRed)
				}
				fmt.Printf("%02d:00 %10d%% %10.1f %8d  ", s.Hour, s.Score, s.AvgUsage, s.Samples)
				c.Println(bar)
			}

			return nil
		},
	}
}

func periodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "periods",
		Short: "Summarize the morning, lunch, evening and closing periods",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := buildReport(cmd.Context(), "")
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(report.Periods)
			}

			for _, p := range report.Periods {
				c := color.New(color.FgGreen, color.Bold)
				switch p.Level {
				case engine.LevelModerate:
					c = color.New(color.FgYellow, color.Bold)
				case engine.LevelBusy:
					c = color.New(color.FgRed, color.Bold)
				}
				fmt.Printf("%-16s %02d:00-%02d:59  %3d%%  ", p.Name, p.Start, p.End, p.AvgScore)
				c.Println(p.Level)
			}

			return nil
		},
	}
}

func finishCmd() *cobra.Command {
	var minutes int

	cmd := &cobra.Command{
		Use:   "finish",
		Short: "Show when a wash started now will be done",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}

			cycle := cfg.Laundry.CycleDuration()
			if minutes > 0 {
				cycle = time.Duration(minutes) * time.Minute
			}

			completion := engine.Completion(time.Now(), cycle)

			if jsonOutput {
				return printJSON(map[string]interface{}{
					"time":          completion.String(),
					"cycle_minutes": int(cycle / time.Minute),
				})
			}

			color.New(color.FgCyan, color.Bold).Printf("Your laundry will be done at %s\n", completion)
			fmt.Printf("  (about %d minutes from now)\n", int(cycle/time.Minute))
			return nil
		},
	}

	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "cycle length in minutes (default from config)")

	return cmd
}

func datasetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Manage the historical usage table",
	}

	cmd.AddCommand(datasetImportCmd())
	cmd.AddCommand(datasetShowCmd())

	return cmd
}

func datasetImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <csv>",
		Short: "Import a usage CSV into the SQLite store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			records, err := dataset.NewCSVSource(args[0], cfg.Dataset.SkipRows).Load(cmd.Context())
			if err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0755); err != nil {
				return fmt.Errorf("creating store directory: %w", err)
			}

			st, err := store.NewStore(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.ReplaceRecords(cmd.Context(), records); err != nil {
				return err
			}

			logger.Info().Str("file", args[0]).Int("records", len(records)).Msg("Dataset imported")

			color.New(color.FgGreen, color.Bold).Printf("✓ Imported %d records\n", len(records))
			fmt.Printf("Database: %s\n", cfg.Store.Path)
			if cfg.Dataset.Source != "sqlite" {
				fmt.Println("\nSet dataset.source to sqlite to serve from the store")
			}

			return nil
		},
	}
}

func datasetShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the configured dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			loader, closeFn, err := dataset.Open(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeFn()

			records, err := loader.Load(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(records)
			}

			location := cfg.Dataset.Path
			if cfg.Dataset.Source == "sqlite" {
				location = cfg.Store.Path
			}
			color.New(color.FgCyan, color.Bold).Printf("%s dataset %s: %d records\n", cfg.Dataset.Source, location, len(records))

			fmt.Printf("%-6s %12s  %s\n", "HOUR", "USAGE", "CONGESTION")
			fmt.Println("------------------------------------")
			for _, r := range records {
				fmt.Printf("%-6d %12d  %s\n", r.Hour, r.UsageCount, r.Congestion)
			}

			return nil
		},
	}
}
