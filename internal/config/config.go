// Package config loads server and simulation settings from defaults, an
// optional YAML file and COVIDSIM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"covidsim/internal/domain/city"
	"covidsim/internal/domain/epidemic"
	"covidsim/internal/logging"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Simulation SimulationConfig `yaml:"simulation"`
	Storage    StorageConfig    `yaml:"storage"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// CORSOrigin is sent as Access-Control-Allow-Origin; empty allows any.
	CORSOrigin string `yaml:"cors_origin"`
}

type SimulationConfig struct {
	PeopleCount      int     `yaml:"people_count"`
	InfectedFraction float64 `yaml:"infected_fraction"`
	TickMS           int     `yaml:"tick_ms"`
	MaxCatchUpTicks  int     `yaml:"max_catchup_ticks"`
	// Seed fixes the RNG; zero means seed from the clock.
	Seed int64 `yaml:"seed"`
}

type StorageConfig struct {
	DSN           string `yaml:"dsn"`
	MigrationsDir string `yaml:"migrations_dir"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Simulation: SimulationConfig{
			PeopleCount:      epidemic.DefaultPeopleCount,
			InfectedFraction: epidemic.DefaultInfectedFraction,
			TickMS:           1000,
			MaxCatchUpTicks:  10,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load applies the file at path (when non-empty) over the defaults, then the
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		cfg = fileCfg
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	sim := c.Simulation
	if sim.PeopleCount < 0 {
		return fmt.Errorf("%w: people_count must be >= 0", ErrInvalidConfig)
	}
	if capacity := city.HouseAmount * city.MaxPeopleInHouse; sim.PeopleCount > capacity {
		return fmt.Errorf("%w: people_count %d exceeds housing capacity %d", ErrInvalidConfig, sim.PeopleCount, capacity)
	}
	if sim.InfectedFraction < 0 || sim.InfectedFraction > 1 {
		return fmt.Errorf("%w: infected_fraction must be within [0,1]", ErrInvalidConfig)
	}
	if sim.TickMS <= 0 {
		return fmt.Errorf("%w: tick_ms must be > 0", ErrInvalidConfig)
	}
	if sim.MaxCatchUpTicks <= 0 {
		return fmt.Errorf("%w: max_catchup_ticks must be > 0", ErrInvalidConfig)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server addr is required", ErrInvalidConfig)
	}
	if !logging.KnownLevel(c.Logging.Level) {
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Logging.Level)
	}
	return nil
}

func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Simulation.TickMS) * time.Millisecond
}

func (c *Config) Population() epidemic.PopulationConfig {
	return epidemic.PopulationConfig{
		PeopleCount:      c.Simulation.PeopleCount,
		InfectedFraction: c.Simulation.InfectedFraction,
	}
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("COVIDSIM_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("COVIDSIM_CORS_ORIGIN"); v != "" {
		cfg.Server.CORSOrigin = v
	}
	if err := intEnv("COVIDSIM_PEOPLE_COUNT", &cfg.Simulation.PeopleCount); err != nil {
		return err
	}
	if v := os.Getenv("COVIDSIM_INFECTED_FRACTION"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: COVIDSIM_INFECTED_FRACTION: %v", ErrInvalidConfig, err)
		}
		cfg.Simulation.InfectedFraction = f
	}
	if err := intEnv("COVIDSIM_TICK_MS", &cfg.Simulation.TickMS); err != nil {
		return err
	}
	if err := intEnv("COVIDSIM_MAX_CATCHUP_TICKS", &cfg.Simulation.MaxCatchUpTicks); err != nil {
		return err
	}
	if v := os.Getenv("COVIDSIM_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: COVIDSIM_SEED: %v", ErrInvalidConfig, err)
		}
		cfg.Simulation.Seed = n
	}
	if v := os.Getenv("COVIDSIM_DB_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("COVIDSIM_MIGRATIONS_DIR"); v != "" {
		cfg.Storage.MigrationsDir = v
	}
	if v := os.Getenv("COVIDSIM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	return nil
}

func intEnv(name string, dst *int) error {
	raw := os.Getenv(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, name, err)
	}
	*dst = n
	return nil
}
