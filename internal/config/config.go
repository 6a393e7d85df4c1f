package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/fragmede/hnstories/internal/api"
)

const envPrefix = "HNSTORIES_"

type Config struct {
	BaseURL        string        `yaml:"base_url"`
	UserAgent      string        `yaml:"user_agent"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RunTimeout     time.Duration `yaml:"run_timeout"`
	MaxConcurrent  int           `yaml:"max_concurrent"`
	Amount         int           `yaml:"amount"`
	Categories     []string      `yaml:"categories"`
	FailFast       bool          `yaml:"fail_fast"`
	LogLevel       string        `yaml:"log_level"`
}

func Default() Config {
	return Config{
		BaseURL:        api.DefaultBaseURL,
		UserAgent:      api.DefaultUserAgent,
		RequestTimeout: api.DefaultRequestTimeout,
		RunTimeout:     60 * time.Second,
		MaxConcurrent:  api.DefaultMaxConcurrent,
		Amount:         10,
		LogLevel:       "info",
	}
}

// Load returns the defaults overlaid with the YAML file at path (if path is
// non-empty), then with HNSTORIES_* variables from the environment. A .env
// file in the working directory is read first and never overrides variables
// that are already set.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		expanded := os.ExpandEnv(string(raw))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config yaml: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(envPrefix + "BASE_URL"); ok {
		c.BaseURL = v
	}
	if v, ok := lookup(envPrefix + "USER_AGENT"); ok {
		c.UserAgent = v
	}
	if v, ok := lookup(envPrefix + "LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(envPrefix + "REQUEST_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sREQUEST_TIMEOUT: %w", envPrefix, err)
		}
		c.RequestTimeout = d
	}
	if v, ok := lookup(envPrefix + "RUN_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sRUN_TIMEOUT: %w", envPrefix, err)
		}
		c.RunTimeout = d
	}
	if v, ok := lookup(envPrefix + "MAX_CONCURRENT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sMAX_CONCURRENT: %w", envPrefix, err)
		}
		c.MaxConcurrent = n
	}
	if v, ok := lookup(envPrefix + "AMOUNT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sAMOUNT: %w", envPrefix, err)
		}
		c.Amount = n
	}
	if v, ok := lookup(envPrefix + "FAIL_FAST"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sFAIL_FAST: %w", envPrefix, err)
		}
		c.FailFast = b
	}
	return nil
}

// Validate checks the values that cannot be used as given.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base_url must be set")
	}
	if c.MaxConcurrent < 1 {
		return fmt.Errorf("max_concurrent must be at least 1, got %d", c.MaxConcurrent)
	}
	if c.Amount < 0 {
		return fmt.Errorf("amount must not be negative, got %d", c.Amount)
	}
	if c.RequestTimeout < 0 || c.RunTimeout < 0 {
		return errors.New("timeouts must not be negative")
	}
	for _, name := range c.Categories {
		if _, err := api.ParseCategory(name); err != nil {
			return err
		}
	}
	return nil
}

// ListCategories returns the configured categories, or api.DisplayOrder when
// none are configured.
func (c Config) ListCategories() ([]api.Category, error) {
	if len(c.Categories) == 0 {
		return api.DisplayOrder, nil
	}
	cats := make([]api.Category, 0, len(c.Categories))
	for _, name := range c.Categories {
		cat, err := api.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}
	return cats, nil
}
