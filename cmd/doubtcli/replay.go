package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"idoubtit-lite/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay [spec.json]",
	Short: "Generate a replay tape from a scripted round spec",
	Long: `Replay reads a round spec JSON file, runs it against a fresh engine
and prints the resulting event tape. The tape is deterministic: the same
spec always yields the same tape.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read spec: %w", err)
		}
		var spec replay.RoundSpec
		if err := json.Unmarshal(data, &spec); err != nil {
			return fmt.Errorf("parse spec: %w", err)
		}

		tape, err := replay.GenerateReplayTape(spec)
		if err != nil {
			return err
		}

		var out any = tape
		if wire, _ := cmd.Flags().GetBool("wire"); wire {
			out = replay.ToWireReplayTape(tape)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().Bool("wire", false, "Emit the compact wire form instead of the decoded tape")
}
