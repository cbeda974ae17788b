package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ecomwatch/competitor-alerts/internal/api/client"
	domain "github.com/ecomwatch/competitor-alerts/pkg/types"
)

var feedLimit int

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Show recent notifications from a running server",
	RunE:  runFeed,
}

func init() {
	feedCmd.Flags().IntVar(&feedLimit, "limit", 0, "maximum entries to fetch (0 = server default)")
	rootCmd.AddCommand(feedCmd)
}

func runFeed(_ *cobra.Command, _ []string) error {
	c := client.New(viper.GetString("server"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	entries, err := c.ListNotifications(ctx, feedLimit)
	if err != nil {
		return err
	}

	if jsonOutput() {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	printFeedTable(entries)
	return nil
}

func printFeedTable(entries []domain.LogEntry) {
	if len(entries) == 0 {
		fmt.Println("No notifications yet.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tTYPE\tMESSAGE\tID")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Kind,
			e.Message,
			e.EventID,
		)
	}
	w.Flush()
}
