package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr         string        `yaml:"addr"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"server"`
	DataSource struct {
		Provider    string `yaml:"provider"` // yahoo, alpaca, polygon or mock
		Start       string `yaml:"start"`
		End         string `yaml:"end"`
		ProbeSymbol string `yaml:"probe_symbol"`
	} `yaml:"data_source"`
	Alpaca struct {
		APIKey    string `yaml:"api_key"`
		APISecret string `yaml:"api_secret"`
		Feed      string `yaml:"feed"`
	} `yaml:"alpaca"`
	Polygon struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"polygon"`
	Signal struct {
		SpikeThreshold float64 `yaml:"spike_threshold"`
		LookbackDays   int     `yaml:"lookback_days"`
		CooldownDays   int     `yaml:"cooldown_days"`
	} `yaml:"signal"`
	Schedule struct {
		ProbeCron string `yaml:"probe_cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
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
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Addr = v
	} else if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Addr = ":" + v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("DATA_START"); v != "" {
		cfg.DataSource.Start = v
	}
	if v := os.Getenv("DATA_END"); v != "" {
		cfg.DataSource.End = v
	}
	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("ALPACA_SECRET_KEY"); v != "" {
		cfg.Alpaca.APISecret = v
	}
	if v := os.Getenv("POLYGON_API_KEY"); v != "" {
		cfg.Polygon.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SPIKE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Signal.SpikeThreshold = f
		}
	}
	if v := os.Getenv("COOLDOWN_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Signal.CooldownDays = n
		}
	}
	if v := os.Getenv("CRON_PROBE"); v != "" {
		cfg.Schedule.ProbeCron = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.DataSource.Start == "" {
		cfg.DataSource.Start = "2013-01-01"
	}
	if cfg.DataSource.End == "" {
		cfg.DataSource.End = "2023-12-13"
	}
	if cfg.DataSource.ProbeSymbol == "" {
		cfg.DataSource.ProbeSymbol = "SPY"
	}
	if cfg.Alpaca.Feed == "" {
		cfg.Alpaca.Feed = "iex"
	}
	if cfg.Signal.SpikeThreshold == 0 {
		cfg.Signal.SpikeThreshold = 0.05
	}
	if cfg.Signal.LookbackDays == 0 {
		cfg.Signal.LookbackDays = 180
	}
	if cfg.Signal.CooldownDays == 0 {
		cfg.Signal.CooldownDays = 3
	}
	if cfg.Schedule.ProbeCron == "" {
		cfg.Schedule.ProbeCron = "0 */15 * * * *"
	}

	return cfg, nil
}

// Range parses the configured inclusive date range.
func (c *Config) Range() (start, end time.Time, err error) {
	start, err = time.Parse(dateLayout, c.DataSource.Start)
	if err != nil {
		return start, end, fmt.Errorf("data_source.start: %w", err)
	}
	end, err = time.Parse(dateLayout, c.DataSource.End)
	if err != nil {
		return start, end, fmt.Errorf("data_source.end: %w", err)
	}
	return start, end, nil
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "alpaca":
		if c.Alpaca.APIKey == "" || c.Alpaca.APISecret == "" {
			return fmt.Errorf("alpaca.api_key and alpaca.api_secret are required for the alpaca provider")
		}
	case "polygon":
		if c.Polygon.APIKey == "" {
			return fmt.Errorf("polygon.api_key is required for the polygon provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not one of yahoo, alpaca, polygon, mock", c.DataSource.Provider)
	}
	start, end, err := c.Range()
	if err != nil {
		return err
	}
	if !start.Before(end) {
		return fmt.Errorf("data_source.start must be before data_source.end")
	}
	if c.Signal.SpikeThreshold <= 0 {
		return fmt.Errorf("signal.spike_threshold must be positive")
	}
	if c.Signal.LookbackDays < 1 {
		return fmt.Errorf("signal.lookback_days must be at least 1")
	}
	if c.Signal.CooldownDays < 1 {
		return fmt.Errorf("signal.cooldown_days must be at least 1")
	}
	return nil
}
