package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jusunglee/ptv-mcp-go/internal/apperr"
	"github.com/jusunglee/ptv-mcp-go/pkg/ptv"
)

type PTVConfig struct {
	DevID      string        `yaml:"dev_id" validate:"required"`
	DevKey     string        `yaml:"dev_key" validate:"required"`
	BaseURL    string        `yaml:"base_url" validate:"required,url"`
	APIVersion string        `yaml:"api_version" validate:"required"`
	Timeout    time.Duration `yaml:"timeout" validate:"gt=0"`
}

type ServerConfig struct {
	Listen string `yaml:"listen" validate:"required"`
}

type LogConfig struct {
	Format string `yaml:"format" validate:"omitempty,oneof=JSON CONSOLE"`
	Debug  bool   `yaml:"debug"`
}

type AppConfig struct {
	PTV    PTVConfig    `yaml:"ptv"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// Environment variables read by Load
const (
	EnvDevID      = "PTV_DEV_ID"
	EnvDevKey     = "PTV_DEV_KEY"
	EnvBaseURL    = "PTV_BASE_URL"
	EnvAPIVersion = "PTV_API_VERSION"
	EnvTimeout    = "PTV_TIMEOUT"
	EnvListen     = "PTV_LISTEN"
	EnvLogFormat  = "PTV_LOG_FORMAT"
	EnvDebug      = "PTV_DEBUG"
)

const DefaultListen = ":8080"

// Default returns the configuration used before the file and environment are applied
func Default() AppConfig {
	defaults := ptv.DefaultConfig()
	return AppConfig{
		PTV: PTVConfig{
			BaseURL:    defaults.BaseURL,
			APIVersion: defaults.APIVersion,
			Timeout:    defaults.Timeout,
		},
		Server: ServerConfig{Listen: DefaultListen},
	}
}

// Load builds the configuration from defaults, then the YAML file at path (if any), then the environment
// Missing credentials or invalid values come back as a config error
func Load(path string) (AppConfig, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (AppConfig, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return AppConfig{}, &apperr.Error{Kind: apperr.KindConfig, Op: "config", Message: "reading " + path, Err: err}
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return AppConfig{}, &apperr.Error{Kind: apperr.KindConfig, Op: "config", Message: "parsing " + path, Err: err}
		}
	}

	if err := applyEnv(&cfg, lookup); err != nil {
		return AppConfig{}, err
	}

	if err := Validate(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig, lookup func(string) (string, bool)) error {
	set := func(key string, target *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*target = strings.TrimSpace(v)
		}
	}

	set(EnvDevID, &cfg.PTV.DevID)
	set(EnvDevKey, &cfg.PTV.DevKey)
	set(EnvBaseURL, &cfg.PTV.BaseURL)
	set(EnvAPIVersion, &cfg.PTV.APIVersion)
	set(EnvListen, &cfg.Server.Listen)
	set(EnvLogFormat, &cfg.Log.Format)
	cfg.Log.Format = strings.ToUpper(cfg.Log.Format)

	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return apperr.Config("%s: invalid duration %q", EnvTimeout, v)
		}
		cfg.PTV.Timeout = d
	}

	if v, ok := lookup(EnvDebug); ok {
		cfg.Log.Debug = strings.EqualFold(v, "YES") || strings.EqualFold(v, "true") || v == "1"
	}
	return nil
}

// Validate checks cfg, naming the environment variable to set for missing credentials
func Validate(cfg AppConfig) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperr.Config("%v", err)
	}

	fe := fieldErrs[0]
	switch fe.StructNamespace() {
	case "AppConfig.PTV.DevID", "AppConfig.PTV.DevKey":
		return apperr.Config("PTV API credentials are required. Set %s and %s "+
			"(get them from https://www.vic.gov.au/public-transport-timetable-api)", EnvDevID, EnvDevKey)
	}
	return apperr.Config("%s failed %s validation", fe.Namespace(), describeTag(fe))
}

func describeTag(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
}

// Client converts the upstream section into a ptv.Config
func (c AppConfig) Client() ptv.Config {
	return ptv.Config{
		DevID:      c.PTV.DevID,
		DevKey:     c.PTV.DevKey,
		BaseURL:    c.PTV.BaseURL,
		APIVersion: c.PTV.APIVersion,
		Timeout:    c.PTV.Timeout,
	}
}
