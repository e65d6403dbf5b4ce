package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the auditmd configuration.
type Config struct {
	Provider       string        `mapstructure:"provider" yaml:"provider"`
	Model          string        `mapstructure:"model" yaml:"model"`
	Checklist      string        `mapstructure:"checklist" yaml:"checklist"`
	Format         string        `mapstructure:"format" yaml:"format"`
	FailOn         string        `mapstructure:"failOn" yaml:"failOn"`
	MaxFindings    int           `mapstructure:"maxFindings" yaml:"maxFindings"`
	Include        []string      `mapstructure:"include" yaml:"include"`
	Exclude        []string      `mapstructure:"exclude" yaml:"exclude"`
	MaxFileBytes   int           `mapstructure:"maxFileBytes" yaml:"maxFileBytes"`
	MaxBundleBytes int           `mapstructure:"maxBundleBytes" yaml:"maxBundleBytes"`
	Cache          CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Privacy        PrivacyConfig `mapstructure:"privacy" yaml:"privacy"`
	Logging        LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	Dir        string `mapstructure:"dir" yaml:"dir,omitempty"`
	TTLSeconds int    `mapstructure:"ttlSeconds" yaml:"ttlSeconds"`
}

// PrivacyConfig controls privacy/redaction behavior.
type PrivacyConfig struct {
	RedactSecrets bool     `mapstructure:"redactSecrets" yaml:"redactSecrets"`
	RedactPaths   []string `mapstructure:"redactPaths" yaml:"redactPaths,omitempty"`
}

// LoggingConfig controls diagnostic log output.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Provider:       "anthropic",
		Model:          "claude-sonnet-4-20250514",
		Checklist:      "accessibility",
		Format:         "text",
		FailOn:         "none",
		MaxFindings:    50,
		Include:        []string{"**/*"},
		Exclude:        []string{"vendor/**", "node_modules/**", "**/*.gen.go", "**/dist/**"},
		MaxFileBytes:   200000,
		MaxBundleBytes: 500000,
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 86400,
		},
		Privacy: PrivacyConfig{
			RedactSecrets: true,
			RedactPaths:   []string{"**/.env", "**/*secrets*"},
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

func defaultValues() map[string]any {
	d := Default()
	return map[string]any{
		"provider":              d.Provider,
		"model":                 d.Model,
		"checklist":             d.Checklist,
		"format":                d.Format,
		"failOn":                d.FailOn,
		"maxFindings":           d.MaxFindings,
		"include":               d.Include,
		"exclude":               d.Exclude,
		"maxFileBytes":          d.MaxFileBytes,
		"maxBundleBytes":        d.MaxBundleBytes,
		"cache.enabled":         d.Cache.Enabled,
		"cache.ttlSeconds":      d.Cache.TTLSeconds,
		"privacy.redactSecrets": d.Privacy.RedactSecrets,
		"privacy.redactPaths":   d.Privacy.RedactPaths,
		"logging.level":         d.Logging.Level,
		"logging.format":        d.Logging.Format,
	}
}

// ConfigDir returns the platform-appropriate config directory for auditmd.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "auditmd"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "auditmd"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "auditmd"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "auditmd"), nil
	default:
		return filepath.Join(home, ".config", "auditmd"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
// filePath, when non-empty, replaces the default config file location.
func Load(filePath string, overrides map[string]string) (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if filePath != "" {
		v.SetConfigFile(filePath)
	} else if dir, err := ConfigDir(); err == nil {
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix("AUDITMD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range defaultValues() {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file in the default search path is fine.
		// An explicitly named file must exist.
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if filePath != "" || !notFound {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, decodeHook); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	if err := applyOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func applyOverrides(cfg *Config, overrides map[string]string) error {
	for key, value := range overrides {
		if value == "" {
			continue
		}
		if err := SetField(cfg, key, value); err != nil {
			return err
		}
	}
	return nil
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "provider":
		cfg.Provider = value
	case "model":
		cfg.Model = value
	case "checklist":
		cfg.Checklist = value
	case "format":
		cfg.Format = value
	case "failOn":
		cfg.FailOn = value
	case "maxFindings":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxFindings must be an integer: %w", err)
		}
		cfg.MaxFindings = n
	case "maxFileBytes":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxFileBytes must be an integer: %w", err)
		}
		cfg.MaxFileBytes = n
	case "maxBundleBytes":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxBundleBytes must be an integer: %w", err)
		}
		cfg.MaxBundleBytes = n
	case "include":
		cfg.Include = splitList(value)
	case "exclude":
		cfg.Exclude = splitList(value)
	case "cache.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("cache.enabled must be a boolean: %w", err)
		}
		cfg.Cache.Enabled = b
	case "cache.dir":
		cfg.Cache.Dir = value
	case "cache.ttlSeconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("cache.ttlSeconds must be an integer: %w", err)
		}
		cfg.Cache.TTLSeconds = n
	case "privacy.redactSecrets":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("privacy.redactSecrets must be a boolean: %w", err)
		}
		cfg.Privacy.RedactSecrets = b
	case "logging.level":
		cfg.Logging.Level = value
	case "logging.format":
		cfg.Logging.Format = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
