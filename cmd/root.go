// Package cmd implements the Report core CLI using cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "report-core",
	Short: "Report core - network telescope packet analytics engine",
	Long: `Report core ingests tagged packet observations from an external capture/
tagging pipeline and produces interval-bucketed traffic metrics: byte and
packet totals, unique source/destination IP counts, and unique source-ASN
counts, broken out by protocol, port, ICMP type/code, and geo/ASN tag
classes.`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and runs it. Called
// once from main.main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "/etc/report-core/config.yml",
		"config file path")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
}

func exitWithError(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	os.Exit(1)
}
