package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecomwatch/competitor-alerts/internal/config"
	"github.com/ecomwatch/competitor-alerts/pkg/logger"
)

var runRotate bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one detection cycle and exit",
	Long: "Diffs the current snapshots against the previous generation, dispatches\n" +
		"deduplicated alerts, and exits. Intended to be invoked by the scrape\n" +
		"pipeline after new snapshot files are in place.",
	RunE: runDetect,
}

func init() {
	runCmd.Flags().BoolVar(&runRotate, "rotate", false, "rotate snapshots after a successful run")
	rootCmd.AddCommand(runCmd)
}

func runDetect(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx := context.Background()
	s, err := buildStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer s.Close()

	notifier, err := buildNotifier(cfg, log)
	if err != nil {
		return err
	}

	eng := buildEngine(cfg, s, notifier, log)

	summary, err := eng.RunDetection(ctx)
	if err != nil {
		return fmt.Errorf("detection run: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(),
		"dispatched %d alerts (%d price drops, %d review candidates, %d suppressed, %d send failures)\n",
		summary.Dispatched,
		summary.PriceDropCandidates,
		summary.ReviewCandidates,
		summary.Suppressed,
		summary.SendFailures,
	)

	if runRotate {
		if err := eng.Rotate(); err != nil {
			return fmt.Errorf("rotating snapshots: %w", err)
		}
	}

	return nil
}
