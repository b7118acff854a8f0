package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"slicesim/internal/config"
	"slicesim/internal/sim"
)

var (
	replayInput string
	replaySpeed float64
	replayTUI   bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a snapshot log file",
	Long:  "replay feeds aggregate snapshots from a JSONL log file back through the output writers.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		var writer sim.SnapshotWriter
		if replayTUI {
			tw := sim.NewTUIWriter()
			defer tw.Close()
			writer = tw
		} else {
			writer = sim.NewColorStdoutWriter(config.Default())
		}
		return sim.ReplayLogFile(replayInput, writer, replaySpeed)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to snapshot log file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVar(&replayTUI, "tui", false, "Render replay in a terminal dashboard")
	replayCmd.MarkFlagRequired("input")
}
