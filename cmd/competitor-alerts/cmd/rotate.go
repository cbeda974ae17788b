package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecomwatch/competitor-alerts/internal/config"
	"github.com/ecomwatch/competitor-alerts/pkg/logger"
)

var rotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Rotate the snapshot window",
	Long: "Copies each current snapshot over its previous counterpart, establishing\n" +
		"the diff baseline for the next scrape cycle. Run after the day's\n" +
		"snapshots have been detected against.",
	RunE: runRotateCmd,
}

func init() {
	rootCmd.AddCommand(rotateCmd)
}

func runRotateCmd(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	s, err := buildStore(context.Background(), cfg, log)
	if err != nil {
		return err
	}
	defer s.Close()

	notifier, err := buildNotifier(cfg, log)
	if err != nil {
		return err
	}

	return buildEngine(cfg, s, notifier, log).Rotate()
}
