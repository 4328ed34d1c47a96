// Config loading for the quanta CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend  = "backend"
	cfgKeyShots    = "shots"
	cfgKeyDataDir  = "data_dir"
	cfgKeyHWID     = "hardware.identifier"
	cfgKeyHWURL    = "hardware.base_url"
	cfgKeyHWKey    = "hardware.api_key"
	cfgKeyHWQubits = "hardware.max_qubits"
	cfgKeyHWPoll   = "hardware.poll_interval"

	defaultBackendID = "statevector-sim"
	defaultShots     = 1024
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# Quanta CLI configuration

# Default execution backend
backend: statevector-sim

# Default shot count per run
shots: 1024

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Remote hardware backend (optional). Registered when base_url is set.
# hardware:
#   identifier: device
#   base_url: https://quantum.example.com/api
#   api_key: ""
#   max_qubits: 5
#   poll_interval: 500ms
`

// cliSettings holds the resolved configuration shared by subcommands.
type cliSettings struct {
	Backend string
	Shots   int
	DataDir string

	HardwareID      string
	HardwareURL     string
	HardwareKey     string
	HardwareQubits  int
	HardwarePoll    time.Duration
	HardwareEnabled bool
}

// loadConfig reads config.yaml from the config directory using Viper. It
// creates the directory and a default config.yaml on first run; a missing
// config.yaml is not an error.
func loadConfig(configDir string) (*cliSettings, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackendID)
	v.SetDefault(cfgKeyShots, defaultShots)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return &cliSettings{
		Backend:         v.GetString(cfgKeyBackend),
		Shots:           v.GetInt(cfgKeyShots),
		DataDir:         v.GetString(cfgKeyDataDir),
		HardwareID:      v.GetString(cfgKeyHWID),
		HardwareURL:     v.GetString(cfgKeyHWURL),
		HardwareKey:     v.GetString(cfgKeyHWKey),
		HardwareQubits:  v.GetInt(cfgKeyHWQubits),
		HardwarePoll:    v.GetDuration(cfgKeyHWPoll),
		HardwareEnabled: v.GetString(cfgKeyHWURL) != "",
	}, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
