package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vovakirdan/tunnel-runner/internal/games/tunnel"
	tunnelcore "github.com/vovakirdan/tunnel-runner/internal/games/tunnel/core"
	"github.com/vovakirdan/tunnel-runner/internal/platform/tui"
	"github.com/vovakirdan/tunnel-runner/internal/storage"
)

var (
	flagReplayID     int64
	flagReplayJSON   bool
	flagReplayOut    string
	flagReplayPlayer string
	flagReplayForce  bool
	flagReplayTicks  uint64
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Verify, watch, export and import replays",
	Long: `Work with recorded runs.

A replay source is one of:
  --id N       - a replay stored in the database
  <file>       - a replay JSON file
  <code>       - a share code printed by 'tunnel replay export'

Examples:
  tunnel replay verify --id 12
  tunnel replay verify run.json
  tunnel replay watch eyJ2IjoxLC...
  tunnel replay export 12
  tunnel replay export 12 --json --out run.json
  tunnel replay import eyJ2IjoxLC... --player ada`,
}

var replayVerifyCmd = &cobra.Command{
	Use:   "verify [file|code]",
	Short: "Re-simulate a replay and check its recorded result",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReplayVerify,
}

var replayWatchCmd = &cobra.Command{
	Use:   "watch [file|code]",
	Short: "Play a replay back in the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReplayWatch,
}

var replayExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Print a stored replay as a share code or JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplayExport,
}

var replayImportCmd = &cobra.Command{
	Use:   "import <file|code>",
	Short: "Verify a replay and store it",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplayImport,
}

func init() {
	for _, c := range []*cobra.Command{replayVerifyCmd, replayWatchCmd} {
		c.Flags().Int64Var(&flagReplayID, "id", 0, "Stored replay ID")
	}
	for _, c := range []*cobra.Command{replayVerifyCmd, replayImportCmd} {
		c.Flags().Uint64Var(&flagReplayTicks, "max-ticks", 60*60*60, "Tick limit for re-simulation")
	}
	replayExportCmd.Flags().BoolVar(&flagReplayJSON, "json", false, "Print JSON instead of a share code")
	replayExportCmd.Flags().StringVar(&flagReplayOut, "out", "", "Write to this file instead of stdout")
	replayImportCmd.Flags().StringVar(&flagReplayPlayer, "player", "", "Player name to store the replay under")
	replayImportCmd.Flags().BoolVar(&flagReplayForce, "force", false, "Store the replay even if it does not verify")

	replayCmd.AddCommand(replayVerifyCmd)
	replayCmd.AddCommand(replayWatchCmd)
	replayCmd.AddCommand(replayExportCmd)
	replayCmd.AddCommand(replayImportCmd)
}

// decodeSource reads a replay from a file path or a share code.
func decodeSource(arg string) (tunnelcore.Replay, error) {
	if data, err := os.ReadFile(arg); err == nil {
		return tunnelcore.DecodeReplay(data)
	} else if !errors.Is(err, os.ErrNotExist) {
		return tunnelcore.Replay{}, err
	}
	return tunnelcore.DecodeShareCode(arg)
}

// loadReplay resolves the replay source of verify and watch.
func loadReplay(args []string) (tunnelcore.Replay, error) {
	switch {
	case flagReplayID != 0:
		store, err := storage.Open(viper.GetString("db"))
		if err != nil {
			return tunnelcore.Replay{}, err
		}
		defer store.Close()

		entry, err := store.Replay(flagReplayID)
		if err != nil {
			return tunnelcore.Replay{}, fmt.Errorf("replay %d: %w", flagReplayID, err)
		}
		return tunnelcore.DecodeReplay(entry.Data)

	case len(args) == 1:
		return decodeSource(args[0])

	default:
		return tunnelcore.Replay{}, errors.New("give a replay file, a share code or --id")
	}
}

func runReplayVerify(_ *cobra.Command, args []string) error {
	r, err := loadReplay(args)
	if err != nil {
		return err
	}

	res, err := tunnel.VerifyReplay(tunnel.Config(), r, flagReplayTicks)
	if err != nil {
		return err
	}

	fmt.Printf("Mode %s, seed %d, %d turns\n", r.Mode, r.Seed, len(r.Inputs))
	fmt.Printf("  %-10s  %-10s  %s\n", "", "Recorded", "Simulated")
	fmt.Printf("  %-10s  %-10d  %d\n", "Score", r.Score, res.Score)
	fmt.Printf("  %-10s  %-10.1f  %.1f\n", "Distance", r.Distance, res.Distance)
	fmt.Printf("  %-10s  %-10d  %d\n", "Combo", r.BestCombo, res.BestCombo)
	fmt.Println()

	if !res.OK() {
		for _, m := range res.Mismatches {
			logger.Error("mismatch", "detail", m)
		}
		return fmt.Errorf("replay does not verify after %d ticks", res.Ticks)
	}
	fmt.Printf("OK (%d ticks)\n", res.Ticks)
	return nil
}

func runReplayWatch(_ *cobra.Command, args []string) error {
	r, err := loadReplay(args)
	if err != nil {
		return err
	}

	// Watching never stores anything, so no database is needed
	_, err = tui.Run(tunnel.NewWatch(r), nil, runtimeConfig())
	return err
}

func runReplayExport(_ *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid replay ID %q", args[0])
	}

	store, err := storage.Open(viper.GetString("db"))
	if err != nil {
		return err
	}
	defer store.Close()

	entry, err := store.Replay(id)
	if err != nil {
		return fmt.Errorf("replay %d: %w", id, err)
	}
	r, err := tunnelcore.DecodeReplay(entry.Data)
	if err != nil {
		return err
	}

	var out []byte
	if flagReplayJSON {
		if out, err = r.Encode(); err != nil {
			return err
		}
	} else {
		code, err := tunnelcore.EncodeShareCode(r)
		if err != nil {
			return err
		}
		out = []byte(code)
	}

	if flagReplayOut != "" {
		return os.WriteFile(flagReplayOut, out, 0o644)
	}
	fmt.Println(string(out))
	return nil
}

func runReplayImport(_ *cobra.Command, args []string) error {
	r, err := decodeSource(args[0])
	if err != nil {
		return err
	}

	res, err := tunnel.VerifyReplay(tunnel.Config(), r, flagReplayTicks)
	if err != nil {
		return err
	}
	if !res.OK() {
		for _, m := range res.Mismatches {
			logger.Warn("mismatch", "detail", m)
		}
		if !flagReplayForce {
			return errors.New("replay does not verify; use --force to store it anyway")
		}
	}

	data, err := r.Encode()
	if err != nil {
		return err
	}

	store, err := storage.Open(viper.GetString("db"))
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.SaveReplay(storage.ReplayEntry{
		GameID:    tunnel.GameID(r.Mode),
		Player:    flagReplayPlayer,
		Mode:      r.Mode.String(),
		Seed:      r.Seed,
		Score:     r.Score,
		Distance:  r.Distance,
		BestCombo: r.BestCombo,
		Data:      data,
	})
	if err != nil {
		return err
	}

	logger.Info("replay imported", "id", id, "mode", r.Mode, "score", r.Score, "verified", res.OK())
	return nil
}
