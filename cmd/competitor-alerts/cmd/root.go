// Package cmd implements the CLI commands for competitor-alerts.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "competitor-alerts",
	Short: "Detect competitor price drops and negative reviews",
	Long: "competitor-alerts diffs scraped product and review snapshots against\n" +
		"the previous scrape cycle, deduplicates what it finds against the\n" +
		"notification log, and dispatches alerts for new price drops and\n" +
		"negative reviews.",
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().
		String("server", "http://localhost:8080", "API server URL (client commands)")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")

	cobra.CheckErr(viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server")))
	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))
}

func initConfig() {
	viper.SetEnvPrefix("CALERTS")
	viper.AutomaticEnv()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
