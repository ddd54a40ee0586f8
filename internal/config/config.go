package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"CrashLadder/internal/ladder"
)

// TierConfig is one declarative ladder step as it appears in YAML.
type TierConfig struct {
	Divisor  int64   `yaml:"divisor"`
	Attempts int     `yaml:"attempts"`
	Target   float64 `yaml:"target"`
	Defense  *struct {
		LowTarget   float64 `yaml:"low_target"`
		LowFraction float64 `yaml:"low_fraction"`
	} `yaml:"defense"`
}

// Config holds all application configuration.
type Config struct {
	Threshold     float64 `yaml:"threshold"`
	TriggerLength int     `yaml:"trigger_length"`
	Ladder        struct {
		Tiers []TierConfig `yaml:"tiers"`
	} `yaml:"ladder"`
	Bankroll struct {
		InitialBalance float64 `yaml:"initial_balance"`
		BustPolicy     string  `yaml:"bust_policy"` // "reset" or "halt"
		ResetBalance   float64 `yaml:"reset_balance"`
		StateFile      string  `yaml:"state_file"`
	} `yaml:"bankroll"`
	Withdrawal struct {
		Mode           string  `yaml:"mode"` // "off", "outcomes", "daily"
		PeriodOutcomes int64   `yaml:"period_outcomes"`
		DailyCron      string  `yaml:"daily_cron"`
		Kind           string  `yaml:"kind"` // "proportional" or "fixed"
		Fraction       float64 `yaml:"fraction"`
		Amount         float64 `yaml:"amount"`
	} `yaml:"withdrawal"`
	Feed struct {
		Source    string `yaml:"source"` // "csv" or "synthetic"
		CSVPath   string `yaml:"csv_path"`
		Synthetic struct {
			Seed      int64         `yaml:"seed"`
			Count     int64         `yaml:"count"`
			HouseEdge float64       `yaml:"house_edge"`
			Interval  time.Duration `yaml:"interval"` // >0 paces rounds in wall-clock time
		} `yaml:"synthetic"`
	} `yaml:"feed"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	LogLevel string `yaml:"log_level"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("INITIAL_BALANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Bankroll.InitialBalance = f
		}
	}
	if v := os.Getenv("TRIGGER_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TriggerLength = n
		}
	}
	if v := os.Getenv("FEED_SOURCE"); v != "" {
		cfg.Feed.Source = v
	}
	if v := os.Getenv("CSV_PATH"); v != "" {
		cfg.Feed.CSVPath = v
	}
	if v := os.Getenv("FEED_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Feed.Synthetic.Seed = n
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Threshold == 0 {
		c.Threshold = 1.99
	}
	if c.TriggerLength == 0 {
		c.TriggerLength = 5
	}
	if len(c.Ladder.Tiers) == 0 {
		c.Ladder.Tiers = []TierConfig{
			{Divisor: 3, Attempts: 2, Target: 1.99},
			{Divisor: 511, Attempts: 9, Target: 2.0},
		}
	}
	if c.Bankroll.InitialBalance == 0 {
		c.Bankroll.InitialBalance = 1000
	}
	if c.Bankroll.BustPolicy == "" {
		c.Bankroll.BustPolicy = "reset"
	}
	if c.Bankroll.ResetBalance == 0 {
		c.Bankroll.ResetBalance = c.Bankroll.InitialBalance
	}
	if c.Withdrawal.Mode == "" {
		c.Withdrawal.Mode = "outcomes"
	}
	if c.Withdrawal.PeriodOutcomes == 0 {
		c.Withdrawal.PeriodOutcomes = 1000
	}
	if c.Withdrawal.DailyCron == "" {
		c.Withdrawal.DailyCron = "0 0 0 * * *"
	}
	if c.Withdrawal.Kind == "" {
		c.Withdrawal.Kind = "proportional"
	}
	if c.Withdrawal.Fraction == 0 && c.Withdrawal.Kind == "proportional" {
		c.Withdrawal.Fraction = 0.5
	}
	if c.Feed.Source == "" {
		c.Feed.Source = "synthetic"
	}
	if c.Feed.Synthetic.Count == 0 {
		c.Feed.Synthetic.Count = 100000
	}
	if c.Feed.Synthetic.Seed == 0 {
		c.Feed.Synthetic.Seed = 1
	}
	if c.Feed.Synthetic.HouseEdge == 0 {
		c.Feed.Synthetic.HouseEdge = 0.03
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// BuildLadder constructs the validated tier ladder from configuration.
func (c *Config) BuildLadder() (*ladder.Ladder, error) {
	tiers := make([]ladder.TierSpec, 0, len(c.Ladder.Tiers))
	for _, t := range c.Ladder.Tiers {
		spec := ladder.TierSpec{
			Divisor:  t.Divisor,
			Attempts: t.Attempts,
			Target:   t.Target,
		}
		if t.Defense != nil {
			spec.LowTarget = t.Defense.LowTarget
			spec.LowFraction = t.Defense.LowFraction
		}
		tiers = append(tiers, spec)
	}
	return ladder.New(tiers)
}

// Validate checks every field and fails fast before any outcome is processed.
func (c *Config) Validate() error {
	if c.Threshold <= 1 {
		return fmt.Errorf("threshold %.4f must exceed 1", c.Threshold)
	}
	if c.TriggerLength < 1 {
		return fmt.Errorf("trigger_length %d must be at least 1", c.TriggerLength)
	}
	if _, err := c.BuildLadder(); err != nil {
		return err
	}
	if c.Bankroll.InitialBalance <= 0 {
		return fmt.Errorf("bankroll.initial_balance must be positive")
	}
	switch c.Bankroll.BustPolicy {
	case "reset", "halt":
	default:
		return fmt.Errorf("bankroll.bust_policy %q must be \"reset\" or \"halt\"", c.Bankroll.BustPolicy)
	}
	if c.Bankroll.ResetBalance <= 0 {
		return fmt.Errorf("bankroll.reset_balance must be positive")
	}
	switch c.Withdrawal.Mode {
	case "off", "outcomes", "daily":
	default:
		return fmt.Errorf("withdrawal.mode %q must be \"off\", \"outcomes\" or \"daily\"", c.Withdrawal.Mode)
	}
	switch c.Withdrawal.Kind {
	case "proportional":
		if c.Withdrawal.Fraction < 0 || c.Withdrawal.Fraction > 1 {
			return fmt.Errorf("withdrawal.fraction %.4f must be inside [0,1]", c.Withdrawal.Fraction)
		}
	case "fixed":
		if c.Withdrawal.Amount <= 0 {
			return fmt.Errorf("withdrawal.amount must be positive in fixed mode")
		}
	default:
		return fmt.Errorf("withdrawal.kind %q must be \"proportional\" or \"fixed\"", c.Withdrawal.Kind)
	}
	if c.Withdrawal.Mode == "outcomes" && c.Withdrawal.PeriodOutcomes < 1 {
		return fmt.Errorf("withdrawal.period_outcomes %d must be at least 1", c.Withdrawal.PeriodOutcomes)
	}
	switch c.Feed.Source {
	case "csv":
		if c.Feed.CSVPath == "" {
			return fmt.Errorf("feed.csv_path is required for the csv source")
		}
	case "synthetic":
		if c.Feed.Synthetic.HouseEdge < 0 || c.Feed.Synthetic.HouseEdge >= 1 {
			return fmt.Errorf("feed.synthetic.house_edge %.4f must be inside [0,1)", c.Feed.Synthetic.HouseEdge)
		}
		if c.Feed.Synthetic.Count < 1 {
			return fmt.Errorf("feed.synthetic.count must be positive")
		}
	default:
		return fmt.Errorf("feed.source %q must be \"csv\" or \"synthetic\"", c.Feed.Source)
	}
	return nil
}
