package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fazecat/signalpilot/internal/strategy"
	"github.com/fazecat/signalpilot/internal/types"
)

type Config struct {
	Market struct {
		StartAnalysis string `yaml:"start_analysis"`
		EndAnalysis   string `yaml:"end_analysis"`
		Timezone      string `yaml:"timezone"`
	} `yaml:"market"`

	Fetch struct {
		Interval string `yaml:"interval"`
		Period   string `yaml:"period"`
	} `yaml:"fetch"`

	LongTerm struct {
		Enabled           bool   `yaml:"enabled"`
		Interval          string `yaml:"interval"`
		Period            string `yaml:"period"`
		RequireTrendMatch bool   `yaml:"require_trend_match"`
	} `yaml:"long_term"`

	Entry struct {
		Rules     map[string][]string `yaml:"rules"`
		Mode      string              `yaml:"mode"`
		Threshold float64             `yaml:"threshold"`
	} `yaml:"entry"`

	Pending struct {
		StaleAfterDays int `yaml:"stale_after_days"`
	} `yaml:"pending"`

	Paths struct {
		Watchlist      string `yaml:"watchlist"`
		PendingEntries string `yaml:"pending_entries"`
		Trades         string `yaml:"trades"`
		Predictions    string `yaml:"predictions"`
		HistoryDir     string `yaml:"history_dir"`
		LogFile        string `yaml:"log_file"`
	} `yaml:"paths"`

	Discord struct {
		Enabled  bool   `yaml:"enabled"`
		Username string `yaml:"username"`
	} `yaml:"discord"`
}

// Default returns the built-in configuration, used when no config.yaml
// is found. The entry rule lists and thresholds here are the fixed
// scheme the scorer documents; edits are tuning decisions.
func Default() *Config {
	cfg := &Config{}
	cfg.Market.StartAnalysis = "09:35"
	cfg.Market.EndAnalysis = "10:00"
	cfg.Market.Timezone = "Local"

	cfg.Fetch.Interval = "5m"
	cfg.Fetch.Period = "1d"

	cfg.LongTerm.Enabled = true
	cfg.LongTerm.Interval = "1h"
	cfg.LongTerm.Period = "7d"
	cfg.LongTerm.RequireTrendMatch = true

	cfg.Entry.Rules = map[string][]string{
		"Bullish": {"ema_bullish", "vwap_above", "macd_positive", "rsi_bullish", "volume_spike"},
		"Bearish": {"ema_bearish", "vwap_below", "macd_negative", "rsi_bearish", "volume_spike"},
	}
	cfg.Entry.Mode = string(strategy.ModeScoring)
	cfg.Entry.Threshold = 0.8

	cfg.Pending.StaleAfterDays = 2

	cfg.Paths.Watchlist = "data/stocks.csv"
	cfg.Paths.PendingEntries = "output/logs/pending_entries.csv"
	cfg.Paths.Trades = "output/logs/trades.csv"
	cfg.Paths.Predictions = "output/logs/predictions.csv"
	cfg.Paths.HistoryDir = "data/history"
	cfg.Paths.LogFile = "output/logs/signalpilot.log"

	cfg.Discord.Enabled = true
	cfg.Discord.Username = "signalpilot"

	return cfg
}

// LoadConfig looks for config.yaml in a few likely locations and falls
// back to Default when none exists. Secrets stay in the environment
// (.env), never in the yaml file.
func LoadConfig() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	possiblePaths := []string{
		"config.yaml",
		filepath.Join(cwd, "config.yaml"),
		filepath.Join("internal", "config", "config.yaml"),
	}

	var data []byte
	found := false
	for _, path := range possiblePaths {
		data, err = os.ReadFile(path)
		if err == nil {
			found = true
			break
		}
	}

	if !found {
		return Default(), nil
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot act on.
func (c *Config) Validate() error {
	switch strategy.MatchMode(c.Entry.Mode) {
	case strategy.ModeScoring:
		if c.Entry.Threshold <= 0 || c.Entry.Threshold > 1 {
			return fmt.Errorf("scoring threshold %v out of range (0,1]", c.Entry.Threshold)
		}
	case strategy.ModeCount:
		if c.Entry.Threshold < 1 {
			return fmt.Errorf("count threshold %v must be at least 1", c.Entry.Threshold)
		}
	default:
		return fmt.Errorf("unknown entry mode %q", c.Entry.Mode)
	}
	if c.Pending.StaleAfterDays <= 0 {
		return fmt.Errorf("stale_after_days must be positive")
	}
	return nil
}

// RuleConfig converts the yaml entry section into the value object the
// engine takes.
func (c *Config) RuleConfig() strategy.RuleConfig {
	rules := make(map[types.Bias][]string, len(c.Entry.Rules))
	for bias, list := range c.Entry.Rules {
		rules[types.Bias(bias)] = list
	}
	return strategy.RuleConfig{
		Rules:     rules,
		Mode:      strategy.MatchMode(c.Entry.Mode),
		Threshold: c.Entry.Threshold,
	}
}
