package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "WEB_CLONER_CONFIG"

type Config struct {
	// Remote clone service
	Service struct {
		BaseURL        string `toml:"base_url" validate:"required,url"`
		RequestTimeout int    `toml:"request_timeout" validate:"min=1"` // seconds
	} `toml:"service"`

	// Status polling
	Poll struct {
		IntervalMS     int `toml:"interval_ms" validate:"min=1"`
		MaxAttempts    int `toml:"max_attempts" validate:"min=0"`    // 0 = unbounded
		TimeoutSeconds int `toml:"timeout_seconds" validate:"min=0"` // 0 = no deadline
	} `toml:"poll"`

	// Where downloads are written
	Output struct {
		Dir string `toml:"dir" validate:"required"`
	} `toml:"output"`

	// Local browser preview server
	Preview struct {
		Host string `toml:"host" validate:"required,hostname|ip"`
		Port int    `toml:"port" validate:"min=0,max=65535"`
	} `toml:"preview"`

	// Development stub of the clone service
	Stub struct {
		Host        string `toml:"host" validate:"required,hostname|ip"`
		Port        int    `toml:"port" validate:"min=1,max=65535"`
		StepDelayMS int    `toml:"step_delay_ms" validate:"min=0"`
	} `toml:"stub"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Service.BaseURL = "http://localhost:8000"
	cfg.Service.RequestTimeout = 30
	cfg.Poll.IntervalMS = 1000
	cfg.Poll.MaxAttempts = 600
	cfg.Poll.TimeoutSeconds = 0
	cfg.Output.Dir = "."
	cfg.Preview.Host = "127.0.0.1"
	cfg.Preview.Port = 8090
	cfg.Stub.Host = "0.0.0.0"
	cfg.Stub.Port = 8000
	cfg.Stub.StepDelayMS = 800
	return cfg
}

// RequestTimeout returns the per-request timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Service.RequestTimeout) * time.Second
}

// PollInterval returns the delay between two status requests.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Poll.IntervalMS) * time.Millisecond
}

// PollTimeout returns the overall polling deadline, zero when unset.
func (c *Config) PollTimeout() time.Duration {
	return time.Duration(c.Poll.TimeoutSeconds) * time.Second
}

// StepDelay returns how long the stub spends in each stage.
func (c *Config) StepDelay() time.Duration {
	return time.Duration(c.Stub.StepDelayMS) * time.Millisecond
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return expandHome(p)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	configDir := filepath.Join(homeDir, ".config", "web-cloner")
	return filepath.Join(configDir, "config.toml"), nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return strings.Replace(path, "~", homeDir, 1), nil
}

// Load reads configuration from ~/.config/web-cloner/config.toml
// Creates the file with defaults if it doesn't exist
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := Save(cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		applyEnv(cfg)
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	mergeDefaults(&cfg)
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeDefaults fills zero values with defaults. Poll max_attempts and
// timeout_seconds keep zero since it means unbounded.
func mergeDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.Service.BaseURL == "" {
		cfg.Service.BaseURL = def.Service.BaseURL
	}
	if cfg.Service.RequestTimeout == 0 {
		cfg.Service.RequestTimeout = def.Service.RequestTimeout
	}
	if cfg.Poll.IntervalMS == 0 {
		cfg.Poll.IntervalMS = def.Poll.IntervalMS
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = def.Output.Dir
	}
	if cfg.Preview.Host == "" {
		cfg.Preview.Host = def.Preview.Host
	}
	if cfg.Preview.Port == 0 {
		cfg.Preview.Port = def.Preview.Port
	}
	if cfg.Stub.Host == "" {
		cfg.Stub.Host = def.Stub.Host
	}
	if cfg.Stub.Port == 0 {
		cfg.Stub.Port = def.Stub.Port
	}
}

// applyEnv overrides values from the environment (useful for Docker)
func applyEnv(cfg *Config) {
	if baseURL := os.Getenv("CLONER_BASE_URL"); baseURL != "" {
		cfg.Service.BaseURL = baseURL
	}
	if dir := os.Getenv("CLONER_OUTPUT_DIR"); dir != "" {
		cfg.Output.Dir = dir
	}
}

// Save writes the configuration to the config file
func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Set sets a single value addressed as section.key=value
// (e.g. "service.base_url=http://localhost:8000") and validates the result.
func (c *Config) Set(setStr string) error {
	parts := strings.SplitN(setStr, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid format: expected 'section.key=value'")
	}

	keyPath := strings.Split(parts[0], ".")
	value := parts[1]

	if len(keyPath) != 2 {
		return fmt.Errorf("invalid key format: expected 'section.key'")
	}

	section := keyPath[0]
	key := keyPath[1]

	intValue := func(name string) (int, error) {
		var n int
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
			return 0, fmt.Errorf("invalid %s value: %s", name, value)
		}
		return n, nil
	}

	var err error
	switch section {
	case "service":
		switch key {
		case "base_url":
			c.Service.BaseURL = value
		case "request_timeout":
			c.Service.RequestTimeout, err = intValue(key)
		default:
			return fmt.Errorf("unknown service key: %s", key)
		}
	case "poll":
		switch key {
		case "interval_ms":
			c.Poll.IntervalMS, err = intValue(key)
		case "max_attempts":
			c.Poll.MaxAttempts, err = intValue(key)
		case "timeout_seconds":
			c.Poll.TimeoutSeconds, err = intValue(key)
		default:
			return fmt.Errorf("unknown poll key: %s", key)
		}
	case "output":
		switch key {
		case "dir":
			c.Output.Dir = value
		default:
			return fmt.Errorf("unknown output key: %s", key)
		}
	case "preview":
		switch key {
		case "host":
			c.Preview.Host = value
		case "port":
			c.Preview.Port, err = intValue(key)
		default:
			return fmt.Errorf("unknown preview key: %s", key)
		}
	case "stub":
		switch key {
		case "host":
			c.Stub.Host = value
		case "port":
			c.Stub.Port, err = intValue(key)
		case "step_delay_ms":
			c.Stub.StepDelayMS, err = intValue(key)
		default:
			return fmt.Errorf("unknown stub key: %s", key)
		}
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
	if err != nil {
		return err
	}

	return c.Validate()
}
