package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tunnel-runner/internal/games/tunnel"
	tunnelcore "github.com/vovakirdan/tunnel-runner/internal/games/tunnel/core"
)

var modesCmd = &cobra.Command{
	Use:     "modes",
	Aliases: []string{"list"},
	Short:   "List all modes",
	Long:    `Shows every mode with the game ID its scores are stored under.`,
	Run:     runModes,
}

func runModes(_ *cobra.Command, _ []string) {
	fmt.Println("Available modes:")
	fmt.Println()

	fmt.Printf("  %-10s  %-16s  %s\n", "Mode", "ID", "Difficulty")
	fmt.Printf("  %-10s  %-16s  %s\n", "----", "--", "----------")

	for _, m := range tunnelcore.Modes {
		fmt.Printf("  %-10s  %-16s  %s\n", m, tunnel.GameID(m), tunnel.PresetFor(tunnel.Config(), m))
	}

	fmt.Println()
	fmt.Println("Run 'tunnel play <mode>' to play.")
}
