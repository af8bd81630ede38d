package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadTunnel loads the tunnel configuration.
// Search order: customPath -> ~/.tunnel/configs/tunnel.yaml -> ./configs/tunnel.yaml -> embedded default
func LoadTunnel(customPath string) (TunnelConfig, error) {
	var cfg TunnelConfig

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: cannot read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: cannot parse %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("%s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("tunnel.yaml"); userCfgPath != "" {
		if cfg, ok := tryLoad(userCfgPath); ok {
			return cfg, nil
		}
	}

	// Try local configs directory
	if cfg, ok := tryLoad(filepath.Join("configs", "tunnel.yaml")); ok {
		return cfg, nil
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultTunnelYAML, &cfg); err != nil || cfg.Validate() != nil {
		return DefaultTunnelConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// tryLoad reads an optional config file; unreadable or invalid files are skipped.
func tryLoad(path string) (TunnelConfig, bool) {
	var cfg TunnelConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, false
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false
	}
	if err := cfg.Validate(); err != nil {
		return cfg, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tunnel", "configs", filename)
}

// ApplyTunnelPreset modifies the config based on a difficulty preset.
// Difficulty fields the config already sets are left alone.
func ApplyTunnelPreset(cfg *TunnelConfig, preset DifficultyPreset) {
	if cfg.Difficulty.Enabled == nil {
		enabled := !IsFixedPreset(preset)
		cfg.Difficulty.Enabled = &enabled
	}
	if cfg.Difficulty.InitialLevel == nil {
		level := InitialLevelForPreset(preset)
		cfg.Difficulty.InitialLevel = &level
	}

	// Presets also tune warm-up length and combo decay
	switch preset {
	case DifficultyEasy:
		cfg.Rings.WarmupRings = max(cfg.Rings.WarmupRings, 5)
	case DifficultyHard:
		cfg.Rings.WarmupRings = min(cfg.Rings.WarmupRings, 2)
		cfg.Physics.ComboDecay = max(cfg.Physics.ComboDecay, 1)
	}
}
