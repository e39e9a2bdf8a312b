// Package config resolves settings from defaults, an optional YAML file
// (CONFIG_FILE) and environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env            string           `yaml:"env"`
	HTTPAddr       string           `yaml:"http_addr"`
	DataDir        string           `yaml:"data_dir"`
	AllowedOrigins []string         `yaml:"allowed_origins"`
	DatabaseURL    string           `yaml:"database_url"`
	AutoMigrate    bool             `yaml:"auto_migrate"`
	OpenRouter     OpenRouterConfig `yaml:"openrouter"`
	External       ExternalConfig   `yaml:"external"`
}

type OpenRouterConfig struct {
	APIKey         string  `yaml:"api_key"`
	BaseURL        string  `yaml:"base_url"`
	PrimaryModel   string  `yaml:"primary_model"`
	FallbackModel  string  `yaml:"fallback_model"`
	Temperature    float64 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

func (c OpenRouterConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type ExternalConfig struct {
	Target         string `yaml:"target"`
	BaseURL        string `yaml:"base_url"`
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	DefaultAPIKey  string `yaml:"default_api_key"`
	Username       string `yaml:"username"`
}

func (c ExternalConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Default holds every non-secret default. Secrets have none.
func Default() Config {
	return Config{
		Env:            "dev",
		HTTPAddr:       "0.0.0.0:8000",
		DataDir:        "./pb_data",
		AllowedOrigins: []string{"http://localhost:3000"},
		AutoMigrate:    true,
		OpenRouter: OpenRouterConfig{
			BaseURL:        "https://openrouter.ai/api/v1",
			PrimaryModel:   "openai/gpt-3.5-turbo",
			FallbackModel:  "anthropic/claude-3-haiku",
			Temperature:    0.8,
			MaxTokens:      280,
			TimeoutSeconds: 30,
		},
		External: ExternalConfig{
			Target:         "clone",
			BaseURL:        "https://twitterclone-server-2xz2.onrender.com",
			Endpoint:       "/post_tweet",
			TimeoutSeconds: 10,
			Username:       "prantik",
		},
	}
}

func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Env, "APP_ENV")
	setString(&cfg.HTTPAddr, "HTTP_ADDR")
	setString(&cfg.DataDir, "PB_DATA_DIR")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	if v, ok := os.LookupEnv("ALLOWED_ORIGINS"); ok {
		cfg.AllowedOrigins = splitList(v)
	}

	setString(&cfg.OpenRouter.APIKey, "OPENROUTER_API_KEY")
	setString(&cfg.OpenRouter.BaseURL, "OPENROUTER_BASE_URL")
	setString(&cfg.OpenRouter.PrimaryModel, "OPENROUTER_PRIMARY_MODEL")
	setString(&cfg.OpenRouter.FallbackModel, "OPENROUTER_FALLBACK_MODEL")

	setString(&cfg.External.Target, "EXTERNAL_TARGET")
	setString(&cfg.External.BaseURL, "EXTERNAL_API_BASE_URL")
	setString(&cfg.External.Endpoint, "EXTERNAL_API_ENDPOINT")
	setString(&cfg.External.DefaultAPIKey, "DEFAULT_EXTERNAL_API_KEY")
	setString(&cfg.External.Username, "EXTERNAL_USERNAME")

	return errors.Join(
		setBool(&cfg.AutoMigrate, "DB_MIGRATE"),
		setFloat(&cfg.OpenRouter.Temperature, "OPENROUTER_TEMPERATURE"),
		setInt(&cfg.OpenRouter.MaxTokens, "OPENROUTER_MAX_TOKENS"),
		setInt(&cfg.OpenRouter.TimeoutSeconds, "OPENROUTER_TIMEOUT"),
		setInt(&cfg.External.TimeoutSeconds, "EXTERNAL_API_TIMEOUT"),
	)
}

func (c Config) Validate() error {
	var errs []error
	if c.External.DefaultAPIKey == "" {
		errs = append(errs, errors.New("DEFAULT_EXTERNAL_API_KEY is required"))
	}
	if c.External.Target != "clone" && c.External.Target != "twitter" {
		errs = append(errs, fmt.Errorf("EXTERNAL_TARGET must be clone or twitter, got %q", c.External.Target))
	}
	if c.External.Target == "clone" && c.External.BaseURL == "" {
		errs = append(errs, errors.New("EXTERNAL_API_BASE_URL is required"))
	}
	if c.External.TimeoutSeconds <= 0 {
		errs = append(errs, errors.New("EXTERNAL_API_TIMEOUT must be positive"))
	}
	if c.OpenRouter.TimeoutSeconds <= 0 {
		errs = append(errs, errors.New("OPENROUTER_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// GeneratorEnabled reports whether a model provider key was supplied.
func (c Config) GeneratorEnabled() bool {
	return c.OpenRouter.APIKey != ""
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

func setBool(dst *bool, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
