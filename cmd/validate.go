package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nettelescope/reportcore/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a Report core configuration file",
	Long: `Validate loads and checks a configuration file without starting the
pipeline — useful for pre-checking configuration before deploying.`,
	Run: func(cmd *cobra.Command, args []string) {
		runValidateCommand()
	},
}

func runValidateCommand() {
	cfg, err := config.Load(configFile)
	if err != nil {
		exitWithError("INVALID", err)
	}

	fmt.Printf("VALID: %d tracker(s), %d processor(s), %ds interval, sink=%s\n",
		cfg.TrackerCount, cfg.ProcessorCount, cfg.IntervalSeconds, cfg.Sink.Type)
}
