// Copyright 2026 Repovault, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides configuration management for repovault with
// support for multiple configuration sources and a well-defined precedence
// order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file
//  4. Built-in defaults
//
// Configuration files are YAML and discovered in standard locations. The
// api_endpoint setting supports GitHub Enterprise deployments.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configurable behavior of a backup run.
type Config struct {
	// GitHub contains API endpoint settings.
	GitHub GitHubConfig `yaml:"github"`

	// Defaults contains default run settings.
	Defaults DefaultsConfig `yaml:"defaults"`

	// Log contains logging settings.
	Log LogConfig `yaml:"log"`
}

// GitHubConfig contains GitHub-specific settings.
type GitHubConfig struct {
	// APIEndpoint is the base URL of the GitHub REST API. Override this
	// for GitHub Enterprise; empty means api.github.com.
	APIEndpoint string `yaml:"api_endpoint"`
}

// DefaultsConfig contains default values for backup operations.
type DefaultsConfig struct {
	// Destination is the default backup destination directory.
	Destination string `yaml:"destination"`

	// PageSize is the number of items requested per listing page.
	// GitHub caps this at 100, which is also the default: fewer, larger
	// pages keep the request count down.
	PageSize int `yaml:"page_size"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `yaml:"level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Destination: ".",
			PageSize:    100,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the given file, or from standard locations
// when configPath is empty:
//   - .repovault.yaml (current directory)
//   - .repovault.yml (current directory)
//   - ~/.repovault/config.yaml
//
// Environment variables are applied after the config file, allowing runtime
// overrides. Returns an error if an explicitly specified config file cannot
// be loaded, but succeeds with defaults when no file is found.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		defaultPaths := []string{
			".repovault.yaml",
			".repovault.yml",
			filepath.Join(os.Getenv("HOME"), ".repovault", "config.yaml"),
		}
		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Defaults.PageSize < 1 || c.Defaults.PageSize > 100 {
		return fmt.Errorf("page_size must be between 1 and 100, got %d", c.Defaults.PageSize)
	}
	if c.Defaults.Destination == "" {
		return fmt.Errorf("destination must not be empty")
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if endpoint := os.Getenv("GITHUB_API_ENDPOINT"); endpoint != "" {
		cfg.GitHub.APIEndpoint = endpoint
	}
	if pageSize := os.Getenv("REPOVAULT_PAGE_SIZE"); pageSize != "" {
		if size, err := strconv.Atoi(strings.TrimSpace(pageSize)); err == nil && size > 0 {
			cfg.Defaults.PageSize = size
		}
	}
	if level := os.Getenv("REPOVAULT_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
}
