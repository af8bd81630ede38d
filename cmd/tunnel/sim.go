package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vovakirdan/tunnel-runner/internal/games/tunnel"
	tunnelcore "github.com/vovakirdan/tunnel-runner/internal/games/tunnel/core"
	"github.com/vovakirdan/tunnel-runner/internal/storage"
)

var (
	flagSimRuns      int
	flagSimTicks     uint64
	flagSimLookahead int
	flagSimOut       string
	flagSimSave      bool
)

var simCmd = &cobra.Command{
	Use:   "sim [mode]",
	Short: "Run the autopilot headless",
	Long: `Run one or more autopilot runs without a screen and report the results.

Run i uses seed+i (daily runs all share the day's seed). With --seed 0 the
base seed comes from the clock. The digest line identifies the final world
state and is stable across machines for the same seed, mode and config.

Examples:
  tunnel sim
  tunnel sim hardcore --seed 42 --runs 20
  tunnel sim daily --out today.json
  tunnel sim --runs 5 --save`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimRuns, "runs", 1, "Number of runs")
	simCmd.Flags().Uint64Var(&flagSimTicks, "ticks", 60*60*10, "Tick limit per run")
	simCmd.Flags().IntVar(&flagSimLookahead, "lookahead", 6, "Rings the autopilot looks ahead")
	simCmd.Flags().StringVar(&flagSimOut, "out", "", "Write the best run's replay JSON to this file")
	simCmd.Flags().BoolVar(&flagSimSave, "save", false, "Store each run's replay in the database")
}

func runSim(_ *cobra.Command, args []string) error {
	mode, err := modeArg(args)
	if err != nil {
		return err
	}
	if flagSimRuns < 1 {
		return fmt.Errorf("--runs must be at least 1")
	}

	now := time.Now()
	base := viper.GetUint32("seed")
	switch {
	case mode == tunnelcore.ModeDaily:
		base = tunnelcore.DailySeed(now)
	case base == 0:
		ns := now.UnixNano()
		base = tunnelcore.HashSeed(uint32(ns), uint32(ns>>32))
	}

	var store *storage.Store
	if flagSimSave {
		store, err = storage.Open(viper.GetString("db"))
		if err != nil {
			return err
		}
		defer store.Close()
	}

	cfg := tunnel.Config()
	var best tunnel.SimResult
	totalScore, deaths := 0, 0

	for i := 0; i < flagSimRuns; i++ {
		seed := base
		if mode != tunnelcore.ModeDaily {
			seed = base + uint32(i)
		}

		res, err := tunnel.Simulate(cfg, mode, seed, flagSimLookahead, flagSimTicks, now.UnixMilli())
		if err != nil {
			return err
		}

		r := res.Replay
		logger.Info("run finished",
			"mode", mode,
			"seed", seed,
			"ticks", res.Ticks,
			"died", res.Died,
			"score", r.Score,
			"distance", fmt.Sprintf("%.1f", r.Distance),
			"combo", r.BestCombo,
			"turns", len(r.Inputs),
		)
		logger.Debug("final state", "seed", seed, "digest", fmt.Sprintf("%x", res.Digest))

		totalScore += r.Score
		if res.Died {
			deaths++
		}
		if i == 0 || r.Score > best.Replay.Score {
			best = res
		}

		if store != nil {
			if err := saveSimRun(store, r); err != nil {
				return err
			}
		}
	}

	fmt.Printf("Runs: %d  Crashes: %d  Mean score: %d  Best: %d (seed %d)\n",
		flagSimRuns, deaths, totalScore/flagSimRuns, best.Replay.Score, best.Replay.Seed)

	if flagSimOut != "" {
		data, err := best.Replay.Encode()
		if err != nil {
			return err
		}
		if err := os.WriteFile(flagSimOut, data, 0o644); err != nil {
			return err
		}
		logger.Info("replay written", "path", flagSimOut)
	}
	return nil
}

// saveSimRun stores a bot replay without ranking it on the leaderboard.
func saveSimRun(store *storage.Store, r tunnelcore.Replay) error {
	data, err := r.Encode()
	if err != nil {
		return err
	}
	_, err = store.SaveReplay(storage.ReplayEntry{
		GameID:    tunnel.GameID(r.Mode),
		Player:    "autopilot",
		Mode:      r.Mode.String(),
		Seed:      r.Seed,
		Score:     r.Score,
		Distance:  r.Distance,
		BestCombo: r.BestCombo,
		Data:      data,
	})
	return err
}
