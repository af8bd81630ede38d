package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vovakirdan/tunnel-runner/internal/platform/tui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tunnel SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own session with the mode picker menu.
Scores and replays are stored per-server (all users share the same leaderboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.tunnel/host_key

Settings can also come from TUNNEL_SSH, TUNNEL_HOST_KEY and TUNNEL_IDLE_TIMEOUT.

Examples:
  tunnel serve                           # Listen on :23234 with auto-generated key
  tunnel serve --ssh :2222               # Listen on port 2222
  tunnel serve --host-key ./my_host_key  # Use specific host key
  tunnel serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

func init() {
	defaults := tui.DefaultSSHServerConfig()
	serveCmd.Flags().String("ssh", defaults.Address, "SSH server address (host:port)")
	serveCmd.Flags().String("host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().Int("idle-timeout", int(defaults.IdleTimeout/time.Minute), "Idle timeout in minutes before disconnecting")

	for _, name := range []string{"ssh", "host-key", "idle-timeout"} {
		if err := viper.BindPFlag(name, serveCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := tui.SSHServerConfig{
		Address:     viper.GetString("ssh"),
		HostKeyPath: viper.GetString("host-key"),
		DBPath:      viper.GetString("db"),
		TickRate:    viper.GetInt("fps"),
		IdleTimeout: time.Duration(viper.GetInt("idle-timeout")) * time.Minute,
	}

	server, err := tui.NewSSHServer(cfg, logger.WithPrefix("tunnel-ssh"))
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting tunnel SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
