package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ecomwatch/competitor-alerts/internal/api/client"
)

var triggerCmd = &cobra.Command{
	Use:   "trigger",
	Short: "Trigger operations on a running server",
}

var triggerDetectionCmd = &cobra.Command{
	Use:   "detection",
	Short: "Run a detection cycle on the server",
	RunE:  runTriggerDetection,
}

var triggerRotationCmd = &cobra.Command{
	Use:   "rotation",
	Short: "Rotate the server's snapshot window",
	RunE:  runTriggerRotation,
}

func init() {
	triggerCmd.AddCommand(triggerDetectionCmd)
	triggerCmd.AddCommand(triggerRotationCmd)
	rootCmd.AddCommand(triggerCmd)
}

func runTriggerDetection(cmd *cobra.Command, _ []string) error {
	c := client.New(viper.GetString("server"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	summary, err := c.TriggerDetection(ctx)
	if err != nil {
		return err
	}

	if jsonOutput() {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	fmt.Fprintf(cmd.OutOrStdout(),
		"dispatched %d alerts (%d price drops, %d review candidates, %d suppressed, %d send failures)\n",
		summary.Dispatched,
		summary.PriceDropCandidates,
		summary.ReviewCandidates,
		summary.Suppressed,
		summary.SendFailures,
	)
	return nil
}

func runTriggerRotation(cmd *cobra.Command, _ []string) error {
	c := client.New(viper.GetString("server"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.RotateSnapshots(ctx); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "snapshots rotated")
	return nil
}
