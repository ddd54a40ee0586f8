package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Threshold != 1.99 {
		t.Errorf("threshold = %v, want 1.99", cfg.Threshold)
	}
	if cfg.TriggerLength != 5 {
		t.Errorf("trigger_length = %d, want 5", cfg.TriggerLength)
	}
	if len(cfg.Ladder.Tiers) != 2 || cfg.Ladder.Tiers[1].Divisor != 511 {
		t.Errorf("default ladder = %+v, want [3/2, 511/9]", cfg.Ladder.Tiers)
	}
	if cfg.Bankroll.InitialBalance != 1000 || cfg.Bankroll.BustPolicy != "reset" {
		t.Errorf("bankroll defaults = %+v", cfg.Bankroll)
	}
	if cfg.Bankroll.ResetBalance != 1000 {
		t.Errorf("reset_balance = %v, want to follow initial_balance", cfg.Bankroll.ResetBalance)
	}
	if cfg.Withdrawal.Mode != "outcomes" || cfg.Withdrawal.PeriodOutcomes != 1000 {
		t.Errorf("withdrawal defaults = %+v", cfg.Withdrawal)
	}
	if cfg.Feed.Source != "synthetic" || cfg.Feed.Synthetic.Count != 100000 {
		t.Errorf("feed defaults = %+v", cfg.Feed)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
threshold: 2.5
trigger_length: 3
ladder:
  tiers:
    - divisor: 7
      attempts: 3
      target: 2.1
bankroll:
  initial_balance: 5000
  bust_policy: halt
withdrawal:
  mode: daily
  daily_cron: "0 30 4 * * *"
  kind: fixed
  amount: 250
feed:
  source: csv
  csv_path: rounds.csv
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Threshold != 2.5 || cfg.TriggerLength != 3 {
		t.Errorf("trigger = %v/%d, want 2.5/3", cfg.Threshold, cfg.TriggerLength)
	}
	if len(cfg.Ladder.Tiers) != 1 || cfg.Ladder.Tiers[0].Divisor != 7 {
		t.Errorf("ladder = %+v", cfg.Ladder.Tiers)
	}
	if cfg.Bankroll.BustPolicy != "halt" || cfg.Bankroll.ResetBalance != 5000 {
		t.Errorf("bankroll = %+v", cfg.Bankroll)
	}
	if cfg.Withdrawal.Kind != "fixed" || cfg.Withdrawal.Amount != 250 {
		t.Errorf("withdrawal = %+v", cfg.Withdrawal)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("INITIAL_BALANCE", "2500")
	t.Setenv("TRIGGER_LENGTH", "7")
	t.Setenv("FEED_SEED", "99")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Bankroll.InitialBalance != 2500 {
		t.Errorf("initial_balance = %v, want 2500", cfg.Bankroll.InitialBalance)
	}
	if cfg.TriggerLength != 7 {
		t.Errorf("trigger_length = %d, want 7", cfg.TriggerLength)
	}
	if cfg.Feed.Synthetic.Seed != 99 {
		t.Errorf("seed = %d, want 99", cfg.Feed.Synthetic.Seed)
	}
}

func TestValidateRejections(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		cfg.applyDefaults()
		return cfg
	}
	cases := []struct {
		name    string
		mutate  func(*Config)
		errPart string
	}{
		{"threshold at 1", func(c *Config) { c.Threshold = 1.0 }, "threshold"},
		{"zero trigger", func(c *Config) { c.TriggerLength = -1 }, "trigger_length"},
		{"divisor mismatch", func(c *Config) {
			c.Ladder.Tiers = []TierConfig{{Divisor: 4, Attempts: 2, Target: 2.0}}
		}, "divisor"},
		{"bad bust policy", func(c *Config) { c.Bankroll.BustPolicy = "retry" }, "bust_policy"},
		{"negative reset", func(c *Config) { c.Bankroll.ResetBalance = -5 }, "reset_balance"},
		{"bad withdrawal mode", func(c *Config) { c.Withdrawal.Mode = "weekly" }, "withdrawal.mode"},
		{"fraction above 1", func(c *Config) { c.Withdrawal.Fraction = 1.5 }, "fraction"},
		{"fixed without amount", func(c *Config) { c.Withdrawal.Kind = "fixed" }, "amount"},
		{"zero period", func(c *Config) { c.Withdrawal.PeriodOutcomes = -1 }, "period_outcomes"},
		{"csv without path", func(c *Config) { c.Feed.Source = "csv" }, "csv_path"},
		{"house edge at 1", func(c *Config) { c.Feed.Synthetic.HouseEdge = 1.0 }, "house_edge"},
		{"unknown source", func(c *Config) { c.Feed.Source = "live" }, "feed.source"},
	}
	for _, tc := range cases {
		cfg := base()
		tc.mutate(cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: Validate passed, want error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.errPart) {
			t.Errorf("%s: error %q does not mention %q", tc.name, err, tc.errPart)
		}
	}
}

func TestBuildLadderDefense(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.Ladder.Tiers = []TierConfig{
		{Divisor: 1, Attempts: 1, Target: 2.0},
		{Divisor: 3, Attempts: 2, Target: 2.8, Defense: &struct {
			LowTarget   float64 `yaml:"low_target"`
			LowFraction float64 `yaml:"low_fraction"`
		}{LowTarget: 1.6, LowFraction: 0.625}},
		{Divisor: 7, Attempts: 3, Target: 2.0},
	}
	lad, err := cfg.BuildLadder()
	if err != nil {
		t.Fatalf("BuildLadder: %v", err)
	}
	tier, err := lad.TierFor(2)
	if err != nil {
		t.Fatalf("TierFor: %v", err)
	}
	if !tier.Defensive() || tier.LowTarget != 1.6 {
		t.Errorf("tier 2 = %+v, want defensive with low_target 1.6", tier)
	}
}
