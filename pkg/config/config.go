package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/travigo/nextbus/pkg/tfl"
	"github.com/travigo/nextbus/pkg/util"
	"gopkg.in/yaml.v3"
)

// CacheTTL is how long a successful fetch is served before TfL is asked again
const CacheTTL = 10 * time.Second

type Config struct {
	StopID  string `yaml:"stop_id" validate:"required"`
	AppID   string `yaml:"app_id"`
	AppKey  string `yaml:"app_key"`
	BaseURL string `yaml:"base_url" validate:"required,url"`

	CacheTTL time.Duration `yaml:"-"`
}

// Load builds the configuration from an optional YAML file overlaid with the
// TFL_* environment variables. The result is validated and never changes afterwards.
func Load(path string) (*Config, error) {
	cfg := &Config{
		BaseURL: tfl.DefaultBaseURL,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	env := util.GetEnvironmentVariables()

	if env["TFL_STOP_ID"] != "" {
		cfg.StopID = env["TFL_STOP_ID"]
	}
	if env["TFL_APP_ID"] != "" {
		cfg.AppID = env["TFL_APP_ID"]
	}
	if env["TFL_APP_KEY"] != "" {
		cfg.AppKey = env["TFL_APP_KEY"]
	}
	if env["TFL_API_BASE"] != "" {
		cfg.BaseURL = env["TFL_API_BASE"]
	}

	cfg.CacheTTL = CacheTTL

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration (TFL_STOP_ID must be set to a TfL StopPoint id): %w", err)
	}

	return cfg, nil
}
