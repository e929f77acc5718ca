package main

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "doubtcli",
	Short: "Play I Doubt It against NPC opponents in the terminal",
	Long: `doubtcli runs rounds of I Doubt It (also known as Cheat or Bullshit)
in the terminal. Play against NPC opponents, batch-simulate NPC-only
rounds, or turn a scripted round spec into a replay tape.`,
}
