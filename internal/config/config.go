// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "voteaudit.config"

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

const (
	DefaultBlockRangeStart = 0
	DefaultBlockRangeEnd   = 1000
	DefaultOutputFormat    = "json"
	DefaultSubunitsPerUnit = 1_000_000
)

var (
	ErrInvalidBlockRange   = errors.New("block range start must be lower than end")
	ErrInvalidOutputFormat = errors.New("unknown output format")
	ErrInvalidSubunits     = errors.New("subunits per unit must be positive")
)

type Config struct {
	Block0Path      string `yaml:"block0Path"      envconfig:"block0"`
	LogsPath        string `yaml:"logsPath"        envconfig:"logs"`
	ArchivePath     string `yaml:"archivePath"                        split_words:"true"`
	OutputPath      string `yaml:"outputPath"      envconfig:"output"`
	OutputFormat    string `yaml:"outputFormat"                       split_words:"true"`
	MetricsFile     string `yaml:"metricsFile"                        split_words:"true"`
	TotalRewards    uint64 `yaml:"totalRewards"                       split_words:"true"`
	SubunitsPerUnit uint64 `yaml:"subunitsPerUnit"                    split_words:"true"`
	BlockRangeStart uint32 `yaml:"blockRangeStart"                    split_words:"true"`
	BlockRangeEnd   uint32 `yaml:"blockRangeEnd"                      split_words:"true"`
}

// Validate checks the values that every command relies on
func (c *Config) Validate() error {
	if c.BlockRangeStart >= c.BlockRangeEnd {
		return fmt.Errorf(
			"%w: %d..%d",
			ErrInvalidBlockRange,
			c.BlockRangeStart,
			c.BlockRangeEnd,
		)
	}
	switch strings.ToLower(c.OutputFormat) {
	case "json", "yaml":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOutputFormat, c.OutputFormat)
	}
	if c.SubunitsPerUnit == 0 {
		return ErrInvalidSubunits
	}
	return nil
}

var globalConfig = &Config{
	Block0Path:      "block0.yaml",
	LogsPath:        "",
	ArchivePath:     "",
	OutputPath:      "",
	OutputFormat:    DefaultOutputFormat,
	MetricsFile:     "",
	TotalRewards:    0,
	SubunitsPerUnit: DefaultSubunitsPerUnit,
	BlockRangeStart: DefaultBlockRangeStart,
	BlockRangeEnd:   DefaultBlockRangeEnd,
}

func LoadConfig(configFile string) (*Config, error) {
	// Load config file as YAML if provided
	if configFile == "" {
		// Check for config file in this path: ~/.voteaudit/voteaudit.yaml
		if homeDir, err := os.UserHomeDir(); err == nil {
			userPath := filepath.Join(homeDir, ".voteaudit", "voteaudit.yaml")
			if _, err := os.Stat(userPath); err == nil {
				configFile = userPath
			}
		}

		// Try to check for /etc/voteaudit/voteaudit.yaml if still not found
		if configFile == "" {
			systemPath := "/etc/voteaudit/voteaudit.yaml"
			if _, err := os.Stat(systemPath); err == nil {
				configFile = systemPath
			}
		}
	}

	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		err = yaml.Unmarshal(buf, globalConfig)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	// Process environment variables
	err := envconfig.Process("voteaudit", globalConfig)
	if err != nil {
		return nil, fmt.Errorf("error processing environment: %+w", err)
	}
	if err := globalConfig.Validate(); err != nil {
		return nil, err
	}
	return globalConfig, nil
}

func GetConfig() *Config {
	return globalConfig
}
