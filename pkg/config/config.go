package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Port         int      `yaml:"port"`
	ReadTimeout  Duration `yaml:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout"`
	IdleTimeout  Duration `yaml:"idle_timeout"`
}

// AnalysisConfig holds impact-analyzer settings.
type AnalysisConfig struct {
	// Workers is the fan-out width of the all-pairs loop; 0 means one per CPU.
	Workers int `yaml:"workers"`
	// MaxNodes caps the visible node count accepted for an analysis; the
	// pair loop is quadratic, so this bounds worst-case run time.
	MaxNodes int `yaml:"max_nodes"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Log      LogConfig      `yaml:"log"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  Duration(15 * time.Second),
			WriteTimeout: Duration(60 * time.Second),
			IdleTimeout:  Duration(60 * time.Second),
		},
		Analysis: AnalysisConfig{
			Workers:  0,
			MaxNodes: 2000,
		},
		Log: LogConfig{
			Level: "INFO",
		},
	}
}

// Load reads a YAML config file over the defaults, then applies environment
// overrides, then validates.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv layers LINKSCOPE_* environment variables over the file values.
func applyEnv(cfg *Config) {
	if v := os.Getenv("LINKSCOPE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LINKSCOPE_WORKERS"); v != "" {
		if workers, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.Workers = workers
		}
	}
	if v := os.Getenv("LINKSCOPE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Validate checks the configuration, collecting every problem rather than
// stopping at the first.
func (c Config) Validate() error {
	return NewValidator("Config").
		RangeInt("Server.Port", c.Server.Port, 1, 65535).
		MinDuration("Server.ReadTimeout", c.Server.ReadTimeout.Std(), time.Second).
		MinDuration("Server.WriteTimeout", c.Server.WriteTimeout.Std(), time.Second).
		MinDuration("Server.IdleTimeout", c.Server.IdleTimeout.Std(), time.Second).
		NonNegative("Analysis.Workers", c.Analysis.Workers).
		Positive("Analysis.MaxNodes", c.Analysis.MaxNodes).
		OneOf("Log.Level", c.Log.Level, "DEBUG", "INFO", "WARN", "ERROR").
		Err()
}
