package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tunnel-runner/internal/games/tunnel"
	"github.com/vovakirdan/tunnel-runner/internal/platform/tui"
	"github.com/vovakirdan/tunnel-runner/internal/registry"
)

var flagAutopilot bool

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode",
	Long: `Start a run in the given mode (classic when omitted).

Controls:
  A/Left         - Turn left one lane
  D/Right        - Turn right one lane
  Space/W/Up     - Flip to the opposite side
  P              - Pause
  R              - Restart (after a crash)
  B/Esc          - Back (when paused or crashed)
  Ctrl+S         - Screenshot
  Q/Ctrl+C       - Quit

Modes:
  classic   - Gentle start, fresh seed every run
  daily     - One shared seed per UTC day
  hardcore  - Starts near full difficulty, combo decays fast

Examples:
  tunnel play
  tunnel play daily
  tunnel play hardcore --seed 42
  tunnel play --autopilot
  tunnel play --config ./my-tunnel.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagAutopilot, "autopilot", false, "Let the bot drive (runs are not recorded)")
}

func runPlay(_ *cobra.Command, args []string) {
	mode, err := modeArg(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'tunnel modes' to see available modes.")
		os.Exit(1)
	}

	game, err := registry.Create(tunnel.GameID(mode))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	cfg := runtimeConfig()
	cfg.Autopilot = flagAutopilot

	// Continue without storage if it cannot be opened
	store := openStore()

	_, runErr := tui.Run(game, store, cfg)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
