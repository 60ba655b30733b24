// Package config handles configuration and the .twinforge directory.
// Every directory the demo is launched from gets a .twinforge/ folder
// holding config.yaml and the session journal.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// TwinforgeDir is the dot-directory created in the working directory.
	TwinforgeDir = ".twinforge"

	configFileName = "config.yaml"
	logsDirName    = "logs"

	defaultTickInterval = time.Second
)

const defaultConfigYAML = `# twinforge configuration
version: 1

# Milliseconds between demo ticks. The demo clock always advances one
# second per tick; lowering this plays the story faster.
tick_millis: 1000

# Start playing as soon as the dashboard opens.
autoplay: true

# Write a session journal under .twinforge/logs.
journal: true

# Optional path to a scenario file overriding the built-in one.
# scenario: ./my-scenario.yaml
`

// FileConfig models config.yaml.
type FileConfig struct {
	Version    int    `yaml:"version"`
	TickMillis int    `yaml:"tick_millis"`
	Autoplay   bool   `yaml:"autoplay"`
	Journal    bool   `yaml:"journal"`
	Scenario   string `yaml:"scenario,omitempty"`
}

// Config is the resolved runtime configuration.
type Config struct {
	// WorkDir is where twinforge was launched from.
	WorkDir string
	// StateDir is WorkDir/.twinforge.
	StateDir string

	TickInterval time.Duration
	Autoplay     bool
	Journal      bool
	ScenarioPath string
}

// Init creates the .twinforge directory structure, writing a commented
// default config on first run.
func Init(workDir string) error {
	stateDir := filepath.Join(workDir, TwinforgeDir)
	if err := os.MkdirAll(filepath.Join(stateDir, logsDirName), 0o755); err != nil {
		return fmt.Errorf("config: create %s: %w", stateDir, err)
	}
	configPath := filepath.Join(stateDir, configFileName)
	if _, err := os.Stat(configPath); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: stat %s: %w", configPath, err)
		}
		if err := os.WriteFile(configPath, []byte(defaultConfigYAML), 0o644); err != nil {
			return fmt.Errorf("config: write default config: %w", err)
		}
	}
	return nil
}

// Load resolves the configuration for workDir. A missing config file is not
// an error; defaults apply.
func Load(workDir string) (*Config, error) {
	stateDir := filepath.Join(workDir, TwinforgeDir)
	cfg := &Config{
		WorkDir:      workDir,
		StateDir:     stateDir,
		TickInterval: defaultTickInterval,
		Autoplay:     true,
		Journal:      true,
	}
	data, err := os.ReadFile(filepath.Join(stateDir, configFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read config.yaml: %w", err)
	}
	var file FileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("config: parse config.yaml: %w", err)
	}
	cfg.apply(file)
	return cfg, nil
}

func (c *Config) apply(file FileConfig) {
	if file.TickMillis > 0 {
		c.TickInterval = time.Duration(file.TickMillis) * time.Millisecond
	}
	c.Autoplay = file.Autoplay
	c.Journal = file.Journal
	if file.Scenario != "" {
		path := file.Scenario
		if !filepath.IsAbs(path) {
			path = filepath.Join(c.WorkDir, path)
		}
		c.ScenarioPath = path
	}
}

// JournalPath returns the session journal location for this config.
func (c *Config) JournalPath() string {
	return filepath.Join(c.StateDir, logsDirName, "session.log")
}
