// Package config loads the tracker configuration from a YAML or JSON
// file, with environment overrides layered on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the full tracker configuration.
type Config struct {
	Analysis AnalysisConfig `json:"analysis"`
	Sources  SourcesConfig  `json:"sources"`
	Metrics  MetricsConfig  `json:"metrics"`
	Notify   NotifyConfig   `json:"notify"`
	Logging  LoggingConfig  `json:"logging"`
}

// Load reads the config file, applies RT_-prefixed environment
// overrides (RT_NOTIFY__SMTP__HOST maps to notify.smtp.host) and the
// legacy SMTP_* variables, then validates. A .env file next to the
// working directory is loaded first so credentials can stay out of the
// config file.
func Load(path string) (*Config, error) {
	// Missing .env is the normal case; real environments set vars
	// directly.
	_ = godotenv.Load()

	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("RT_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "rt_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Analysis.SetDefaults()
	cfg.Sources.SetDefaults()
	cfg.Notify.SetDefaults()
	cfg.Logging.SetDefaults()
	cfg.Notify.applySMTPEnv(os.Getenv)
	if err := cfg.Analysis.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Sources.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Metrics.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
