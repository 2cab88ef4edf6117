package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Database struct {
		SQLitePath  string `yaml:"sqlite_path"`
		TemplateCSV string `yaml:"template_csv"`
	} `yaml:"database"`
	Simulation struct {
		StartDate          string  `yaml:"start_date"` // YYYY-MM-DD
		MaxDays            int     `yaml:"max_days"`   // <=0 means the full historical range
		DisplayDays        int     `yaml:"display_days"`
		InitialFund        float64 `yaml:"initial_fund"`
		InitialBankBalance float64 `yaml:"initial_bank_balance"`
		FundIncreaseRatio  float64 `yaml:"fund_increase_ratio"`
		FundDecreaseRatio  float64 `yaml:"fund_decrease_ratio"`
		CompanyList        []int   `yaml:"company_list"`   // empty means all companies
		CompanyNumber      int     `yaml:"company_number"` // <=0 means no cap
		KeepSameStartDate  bool    `yaml:"keep_same_start_date"`
		KeepSameCompanies  bool    `yaml:"keep_same_companies"`
		Seed               int64   `yaml:"seed"` // 0 means time-based
	} `yaml:"simulation"`
	Recorder struct {
		HistoryDir string `yaml:"history_dir"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"recorder"`
	Benchmark struct {
		Cron   string `yaml:"cron"`
		Policy string `yaml:"policy"`
	} `yaml:"benchmark"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
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
	if v := os.Getenv("STOCKGYM_DB"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("STOCKGYM_TEMPLATES"); v != "" {
		cfg.Database.TemplateCSV = v
	}
	if v := os.Getenv("STOCKGYM_START_DATE"); v != "" {
		cfg.Simulation.StartDate = v
	}
	if v := os.Getenv("STOCKGYM_INITIAL_FUND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Simulation.InitialFund = f
		}
	}
	if v := os.Getenv("STOCKGYM_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Simulation.Seed = n
		}
	}
	if v := os.Getenv("STOCKGYM_HISTORY_DIR"); v != "" {
		cfg.Recorder.HistoryDir = v
	}
	if v := os.Getenv("STOCKGYM_RECORDER_DB"); v != "" {
		cfg.Recorder.SQLitePath = v
	}
	if v := os.Getenv("STOCKGYM_BENCHMARK_CRON"); v != "" {
		cfg.Benchmark.Cron = v
	}

	// Defaults
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stocks.db"
	}
	if cfg.Database.TemplateCSV == "" {
		cfg.Database.TemplateCSV = "data/daily_stock_price.csv"
	}
	if cfg.Simulation.DisplayDays == 0 {
		cfg.Simulation.DisplayDays = 20
	}
	if cfg.Simulation.InitialFund == 0 {
		cfg.Simulation.InitialFund = 100000
	}
	if cfg.Simulation.FundIncreaseRatio == 0 {
		cfg.Simulation.FundIncreaseRatio = 2.00
	}
	if cfg.Simulation.FundDecreaseRatio == 0 {
		cfg.Simulation.FundDecreaseRatio = 0.20
	}
	if cfg.Recorder.HistoryDir == "" {
		cfg.Recorder.HistoryDir = "simulations"
	}
	if cfg.Benchmark.Cron == "" {
		cfg.Benchmark.Cron = "0 0 1 * * *"
	}
	if cfg.Benchmark.Policy == "" {
		cfg.Benchmark.Policy = "hold"
	}

	return cfg, nil
}

// Validate checks that all required fields are consistent.
func (c *Config) Validate() error {
	if c.Database.SQLitePath == "" {
		return fmt.Errorf("database.sqlite_path is required")
	}
	if c.Database.TemplateCSV == "" {
		return fmt.Errorf("database.template_csv is required")
	}
	if c.Simulation.InitialFund <= 0 {
		return fmt.Errorf("simulation.initial_fund must be positive")
	}
	if c.Simulation.InitialBankBalance < 0 {
		return fmt.Errorf("simulation.initial_bank_balance must not be negative")
	}
	if c.Simulation.FundDecreaseRatio < 0 || c.Simulation.FundDecreaseRatio >= 1 {
		return fmt.Errorf("simulation.fund_decrease_ratio must be in [0,1)")
	}
	if c.Simulation.FundIncreaseRatio <= 1 {
		return fmt.Errorf("simulation.fund_increase_ratio must exceed 1")
	}
	return nil
}
