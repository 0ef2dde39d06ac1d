// Package config provides configuration management for the analytics engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Account    AccountConfig    `mapstructure:"account"`
	Decision   DecisionConfig   `mapstructure:"decision"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Storage    StorageConfig    `mapstructure:"storage"`
}

// AccountConfig holds account and sizing configuration.
type AccountConfig struct {
	Size              float64 `mapstructure:"size"`
	MaxRiskPerTrade   float64 `mapstructure:"max_risk_per_trade"`
	LotSize           int     `mapstructure:"lot_size"`
	RiskFreeRate      float64 `mapstructure:"risk_free_rate"`
	KellySafetyFactor float64 `mapstructure:"kelly_safety_factor"`
}

// DecisionConfig holds the decision gate thresholds.
type DecisionConfig struct {
	VolEdgeThreshold float64 `mapstructure:"vol_edge_threshold"`
	MinTradeScore    int     `mapstructure:"min_trade_score"`
	MinRiskReward    float64 `mapstructure:"min_risk_reward"`
	MaxRiskOfRuin    float64 `mapstructure:"max_risk_of_ruin"`
}

// SimulationConfig holds Monte Carlo defaults.
type SimulationConfig struct {
	NumSimulations int     `mapstructure:"num_simulations"`
	NumTrades      int     `mapstructure:"num_trades"`
	Seed           int64   `mapstructure:"seed"`
	RuinThreshold  float64 `mapstructure:"ruin_threshold"`
}

// StorageConfig holds decision log storage configuration.
type StorageConfig struct {
	DatabasePath string `mapstructure:"database_path"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/options-lab"
	}
	return filepath.Join(home, ".config", "options-lab")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Size:              100000,
			MaxRiskPerTrade:   0.10,
			LotSize:           50,
			RiskFreeRate:      0.065,
			KellySafetyFactor: 0.25,
		},
		Decision: DecisionConfig{
			VolEdgeThreshold: 0.15,
			MinTradeScore:    60,
			MinRiskReward:    1.5,
			MaxRiskOfRuin:    0.20,
		},
		Simulation: SimulationConfig{
			NumSimulations: 1000,
			NumTrades:      200,
			Seed:           1,
			RuinThreshold:  0.50,
		},
		Storage: StorageConfig{
			DatabasePath: filepath.Join(DefaultConfigDir(), "decisions.db"),
		},
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing
// config file falls back to the defaults.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
	} else if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPTLAB_ACCOUNT_SIZE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Account.Size = f
		}
	}
	if v := os.Getenv("OPTLAB_MAX_RISK_PER_TRADE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Account.MaxRiskPerTrade = f
		}
	}
	if v := os.Getenv("OPTLAB_MIN_TRADE_SCORE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Decision.MinTradeScore = n
		}
	}
	if v := os.Getenv("OPTLAB_DATABASE_PATH"); v != "" {
		cfg.Storage.DatabasePath = v
	}
}

// Validate checks configuration values.
func (c *Config) Validate() error {
	if c.Account.Size <= 0 {
		return fmt.Errorf("account.size must be positive, got %v", c.Account.Size)
	}
	if c.Account.MaxRiskPerTrade <= 0 || c.Account.MaxRiskPerTrade > 0.10 {
		return fmt.Errorf("account.max_risk_per_trade must be in (0, 0.10], got %v", c.Account.MaxRiskPerTrade)
	}
	if c.Account.LotSize <= 0 {
		return fmt.Errorf("account.lot_size must be positive, got %d", c.Account.LotSize)
	}
	if c.Account.KellySafetyFactor <= 0 || c.Account.KellySafetyFactor > 1 {
		return fmt.Errorf("account.kelly_safety_factor must be in (0, 1], got %v", c.Account.KellySafetyFactor)
	}
	if c.Decision.MinTradeScore < 0 || c.Decision.MinTradeScore > 100 {
		return fmt.Errorf("decision.min_trade_score must be in [0, 100], got %d", c.Decision.MinTradeScore)
	}
	if c.Decision.MinRiskReward < 0 {
		return fmt.Errorf("decision.min_risk_reward must be non-negative, got %v", c.Decision.MinRiskReward)
	}
	if c.Decision.MaxRiskOfRuin <= 0 || c.Decision.MaxRiskOfRuin > 1 {
		return fmt.Errorf("decision.max_risk_of_ruin must be in (0, 1], got %v", c.Decision.MaxRiskOfRuin)
	}
	if c.Simulation.NumSimulations <= 0 {
		return fmt.Errorf("simulation.num_simulations must be positive, got %d", c.Simulation.NumSimulations)
	}
	if c.Simulation.NumTrades <= 0 {
		return fmt.Errorf("simulation.num_trades must be positive, got %d", c.Simulation.NumTrades)
	}
	if c.Simulation.RuinThreshold <= 0 || c.Simulation.RuinThreshold >= 1 {
		return fmt.Errorf("simulation.ruin_threshold must be in (0, 1), got %v", c.Simulation.RuinThreshold)
	}
	return nil
}
