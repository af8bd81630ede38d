// tunnel is a terminal tunnel runner with seeded rings, replays and a shared leaderboard.
//
// Usage:
//
//	tunnel modes                  - List available modes
//	tunnel play [mode]            - Play a mode (classic, daily, hardcore)
//	tunnel menu                   - Start menu to pick modes interactively
//	tunnel sim [mode]             - Run the autopilot headless
//	tunnel replay <subcommand>    - Verify, watch, export or import replays
//	tunnel scores [mode]          - Show high scores for a mode
//	tunnel serve                  - Start SSH server for remote play
//	tunnel config                 - Print the effective tunnel config
//
// Global flags (also read from TUNNEL_* environment variables):
//
//	--fps <rate>       - Set frame rate (default: 60)
//	--seed <value>     - Set RNG seed for reproducible runs
//	--db <path>        - Set database path (default: ~/.tunnel/scores.db)
//	--config <path>    - Use a custom tunnel config YAML
//	--log-level <lvl>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/vovakirdan/tunnel-runner/internal/config"
	"github.com/vovakirdan/tunnel-runner/internal/core"
	"github.com/vovakirdan/tunnel-runner/internal/games/tunnel"
	tunnelcore "github.com/vovakirdan/tunnel-runner/internal/games/tunnel/core"
	"github.com/vovakirdan/tunnel-runner/internal/storage"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "tunnel"})

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tunnel",
	Short: "Tunnel runner - dodge through a seeded tunnel in your terminal",
	Long: `Tunnel runner is a terminal game: steer around a rotating tunnel,
slip through the open lanes and chain near misses for combo.

Every run is seeded, so a run can be replayed and verified exactly.

Available commands:
  modes    - Show all modes
  play     - Play a mode directly
  menu     - Interactive mode picker
  sim      - Headless autopilot runs
  replay   - Verify, watch, export and import replays
  scores   - View high scores
  serve    - Start SSH server for remote play
  config   - Print the effective config

Examples:
  tunnel play
  tunnel play hardcore --seed 42
  tunnel menu
  tunnel sim daily --runs 10
  tunnel serve --ssh :2222`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.Int("fps", 60, "Frame rate (frames per second)")
	pf.Uint32("seed", 0, "RNG seed (0 = random based on time)")
	pf.String("db", "~/.tunnel/scores.db", "Path to scores database")
	pf.String("config", "", "Path to custom tunnel config YAML")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")

	viper.SetEnvPrefix("TUNNEL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.BindPFlags(pf); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// loadSettings applies the log level and installs the tunnel config for new games.
func loadSettings(_ *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	cfg, err := config.LoadTunnel(viper.GetString("config"))
	if err != nil {
		return err
	}
	tunnel.SetConfig(cfg)
	logger.Debug("config loaded", "path", viper.GetString("config"), "stages", len(cfg.Stages))
	return nil
}

// runtimeConfig builds the runtime config from the terminal size and global flags.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = viper.GetInt("fps")
	cfg.Seed = viper.GetUint32("seed")
	return cfg
}

// openStore opens the scores database; failure only loses persistence.
func openStore() *storage.Store {
	store, err := storage.Open(viper.GetString("db"))
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		return nil
	}
	return store
}

// modeArg parses an optional mode argument. It accepts mode names and game IDs.
func modeArg(args []string) (tunnelcore.Mode, error) {
	if len(args) == 0 {
		return tunnelcore.ModeClassic, nil
	}
	if m, ok := tunnel.ModeForID(args[0]); ok {
		return m, nil
	}
	return tunnelcore.ParseMode(args[0])
}
