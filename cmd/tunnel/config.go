package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tunnel-runner/internal/config"
	"github.com/vovakirdan/tunnel-runner/internal/games/tunnel"
)

var flagConfigDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective tunnel config",
	Long: `Print the tunnel config new runs use, as YAML.

The config is searched in this order:
  --config <path>
  ~/.tunnel/configs/tunnel.yaml
  ./configs/tunnel.yaml
  built-in defaults

Examples:
  tunnel config
  tunnel config --defaults > ~/.tunnel/configs/tunnel.yaml
  tunnel config --config ./my-tunnel.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigDefaults, "defaults", false, "Print the built-in defaults instead")
}

func runConfig(_ *cobra.Command, _ []string) error {
	if flagConfigDefaults {
		_, err := os.Stdout.Write(config.GetDefaultYAML())
		return err
	}

	out, err := yaml.Marshal(tunnel.Config())
	if err != nil {
		return fmt.Errorf("config: cannot encode: %w", err)
	}
	_, err = os.Stdout.Write(out)
	return err
}
