package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nettelescope/reportcore/internal/config"
	"github.com/nettelescope/reportcore/internal/ingest"
	"github.com/nettelescope/reportcore/internal/log"
	"github.com/nettelescope/reportcore/internal/report"
)

var inputFile string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the Report core against a tagged-observation stream",
	Long: `Run starts the Processor/Tracker/Merger pipeline and reads
line-delimited JSON packet observations from the given input (or stdin),
as produced by an upstream capture/tagging process.`,
	Run: func(cmd *cobra.Command, args []string) {
		runRunCommand()
	},
}

func init() {
	runCmd.Flags().StringVarP(&inputFile, "input", "i", "",
		"observation input file (line-delimited JSON); defaults to stdin")
}

func runRunCommand() {
	cfg, err := config.Load(configFile)
	if err != nil {
		exitWithError("failed to load config", err)
	}

	if err := log.Init(cfg.Log); err != nil {
		exitWithError("failed to initialize logging", err)
	}

	rpt, err := report.New(cfg)
	if err != nil {
		exitWithError("failed to build report core", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.GetLogger().Info("shutdown signal received")
		cancel()
	}()

	runDone := make(chan error, 1)
	go func() { runDone <- rpt.Run(ctx) }()

	src := os.Stdin
	if inputFile != "" {
		f, err := os.Open(inputFile)
		if err != nil {
			exitWithError(fmt.Sprintf("failed to open input %s", inputFile), err)
		}
		defer f.Close()
		src = f
	}

	n, err := ingest.ReadLines(src, rpt.NewFeed())
	if err != nil {
		log.GetLogger().WithError(err).Error("ingest stopped early")
	}
	log.GetLogger().WithField("observations", n).Info("ingest finished, shutting down")
	cancel()

	if err := <-runDone; err != nil {
		exitWithError("report core exited with error", err)
	}
}
