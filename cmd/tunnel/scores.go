package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vovakirdan/tunnel-runner/internal/games/tunnel"
	"github.com/vovakirdan/tunnel-runner/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores for a mode",
	Long: `Display the top high scores for the specified mode (classic when omitted).

Examples:
  tunnel scores
  tunnel scores daily
  tunnel scores hardcore --limit 25
  tunnel scores classic --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete every score and replay of the mode")
}

func runScores(_ *cobra.Command, args []string) {
	mode, err := modeArg(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'tunnel modes' to see available modes.")
		os.Exit(1)
	}
	gameID := tunnel.GameID(mode)
	title := tunnel.New(mode).Title()

	// Open score storage
	store, err := storage.Open(viper.GetString("db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearScores(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			return
		}
		fmt.Printf("Cleared scores and replays for %s\n", title)
		return
	}

	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}

	// Display scores
	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'tunnel play %s' to set the first high score!\n", mode)
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-8s  %-8s  %-5s  %-8s  %-6s  %-12s  %s\n", "Rank", "Score", "Dist", "Combo", "Seed", "Replay", "Player", "Date")
	fmt.Printf("  %-4s  %-8s  %-8s  %-5s  %-8s  %-6s  %-12s  %s\n", "----", "-----", "----", "-----", "----", "------", "------", "----")

	for i, entry := range scores {
		player := entry.Player
		if player == "" {
			player = "local"
		}
		replay := "-"
		if entry.ReplayID != 0 {
			replay = fmt.Sprintf("#%d", entry.ReplayID)
		}
		fmt.Printf("  %-4d  %-8d  %-8.0f  %-5d  %08x  %-6s  %-12s  %s\n",
			i+1, entry.Score, entry.Distance, entry.BestCombo, entry.Seed, replay, player, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if best, err := store.BestReplay(gameID); err == nil {
		fmt.Printf("Best replay: #%d (watch with 'tunnel replay watch --id %d')\n", best.ID, best.ID)
	}
}
