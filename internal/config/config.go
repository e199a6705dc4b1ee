// Package config loads the FIDD CLI configuration file stored at
// ~/.fidd/config.yaml. The same directory holds the session files and the
// log file, so Dir is exported for the rest of the program.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigDir is the directory under the user's home for CLI state.
const DefaultConfigDir = ".fidd"

// DefaultConfigFile is the config file name within the config directory.
const DefaultConfigFile = "config.yaml"

// DefaultAPIURL is the production backend, used when nothing else is set.
const DefaultAPIURL = "https://api.fidd.app"

// EnvAPIURL overrides the configured API URL when set.
const EnvAPIURL = "FIDD_API_URL"

// Config represents the contents of ~/.fidd/config.yaml.
type Config struct {
	APIURL string `yaml:"api_url"`
	CSVDir string `yaml:"csv_dir,omitempty"` // where invitation exports land; default is the working directory
}

// Dir returns the path to the FIDD state directory (~/.fidd).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}
	return filepath.Join(home, DefaultConfigDir), nil
}

// Load reads the config file, falling back to defaults when it doesn't
// exist. Precedence for the API URL: env var > config file > default.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	cfg, err := loadFile(filepath.Join(dir, DefaultConfigFile))
	if err != nil {
		return nil, err
	}
	if env := os.Getenv(EnvAPIURL); env != "" {
		cfg.APIURL = env
	}
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{APIURL: DefaultAPIURL}, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	return &cfg, nil
}
