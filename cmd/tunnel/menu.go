package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tunnel-runner/internal/core"
	"github.com/vovakirdan/tunnel-runner/internal/platform/tui"
	"github.com/vovakirdan/tunnel-runner/internal/registry"
	"github.com/vovakirdan/tunnel-runner/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a mode picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a mode.
After a run ends, B or Esc returns you to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select mode
  Tab          - Scoreboard
  V            - Replay browser
  Q            - Quit

Examples:
  tunnel menu
  tunnel menu --fps 30
  tunnel menu --db ./scores.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	store := openStore()
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	cfg := runtimeConfig()

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}

		// Update config with any size changes
		cfg = menuResult.Config

		switch {
		case menuResult.Quit:
			return

		case menuResult.WantsScoreboard:
			chosen, goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if chosen != 0 {
				goBack = watchReplay(store, cfg, chosen)
			}
			if !goBack {
				return
			}

		case menuResult.WantsReplays:
			if !browseReplays(store, cfg) {
				return
			}

		case menuResult.GameID != "":
			game, err := registry.Create(menuResult.GameID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
				continue
			}

			runCfg := cfg
			runCfg.Autopilot = menuResult.Autopilot
			back, runErr := tui.Run(game, store, runCfg)
			if runErr != nil {
				fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
				return
			}
			if !back {
				return
			}

		default:
			return
		}
	}
}

// browseReplays runs the replay browser and plays the chosen replay.
// It returns false when the user quit instead of going back.
func browseReplays(store *storage.Store, cfg core.RuntimeConfig) bool {
	if store == nil {
		fmt.Fprintln(os.Stderr, "Replays need the scores database")
		return true
	}

	chosen, goBack, err := tui.RunReplayBrowser(store, cfg.ScreenW, cfg.ScreenH)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return false
	}
	if chosen == 0 {
		return goBack
	}
	return watchReplay(store, cfg, chosen)
}

// watchReplay plays back a stored replay.
// It returns false when the user quit instead of going back.
func watchReplay(store *storage.Store, cfg core.RuntimeConfig, id int64) bool {
	game, err := tui.WatchGame(store, id)
	if err != nil {
		logger.Error("cannot load replay", "id", id, "error", err)
		return true
	}

	back, err := tui.Run(game, store, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running replay: %v\n", err)
		return false
	}
	return back
}
