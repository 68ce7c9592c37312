package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Config represents the unprompted configuration.
type Config struct {
	Provider string `json:"provider"`
	// Endpoint is the chat-completion server; empty means the provider's
	// default (http://localhost:11434 for ollama).
	Endpoint        string        `json:"endpoint,omitempty"`
	Model           string        `json:"model"`
	LightModel      string        `json:"lightModel"`
	UseLight        bool          `json:"useLight"`
	Language        string        `json:"language,omitempty"`
	Shell           string        `json:"shell"`
	Format          string        `json:"format"`
	TrustedPrefixes []string      `json:"trustedPrefixes"`
	Expand          bool          `json:"expand"`
	Verbose         bool          `json:"verbose"`
	Cache           CacheConfig   `json:"cache"`
	Privacy         PrivacyConfig `json:"privacy"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled    bool   `json:"enabled"`
	Dir        string `json:"dir,omitempty"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// PrivacyConfig controls redaction behavior.
type PrivacyConfig struct {
	RedactSecrets bool `json:"redactSecrets"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Provider:        "ollama",
		Model:           "gemma3:12b",
		LightModel:      "gemma3:4b",
		Shell:           "sh",
		Format:          "text",
		TrustedPrefixes: []string{"%bob", "%%bob"},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 86400,
		},
		Privacy: PrivacyConfig{
			RedactSecrets: true,
		},
	}
}

// ActiveModel returns the light model when UseLight is set and the primary
// model otherwise.
func (c Config) ActiveModel() string {
	if c.UseLight && c.LightModel != "" {
		return c.LightModel
	}
	return c.Model
}

// Formats splits the comma-separated Format.
func (c Config) Formats() []string {
	return SplitList(c.Format)
}

// ConfigDir returns the platform-appropriate config directory for unprompted.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "unprompted"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "unprompted"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "unprompted"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "unprompted"), nil
	default:
		return filepath.Join(home, ".config", "unprompted"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile returns the defaults overlaid with the config file. Keys absent
// from the file keep their default; a missing file yields Default().
func LoadFile() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
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
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func mergeEnv(cfg *Config) error {
	if v := os.Getenv("UNPROMPTED_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("UNPROMPTED_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("UNPROMPTED_LIGHT_MODEL"); v != "" {
		cfg.LightModel = v
	}
	if v := os.Getenv("UNPROMPTED_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("UNPROMPTED_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("UNPROMPTED_TRUST"); v != "" {
		cfg.TrustedPrefixes = SplitList(v)
	}
	if v := os.Getenv("UNPROMPTED_VERBOSE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("UNPROMPTED_VERBOSE must be a boolean: %w", err)
		}
		cfg.Verbose = b
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	if overrides == nil {
		return nil
	}
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
	case "endpoint":
		cfg.Endpoint = value
	case "model":
		cfg.Model = value
	case "lightModel":
		cfg.LightModel = value
	case "useLight":
		return setBool(&cfg.UseLight, key, value)
	case "language":
		cfg.Language = value
	case "shell":
		cfg.Shell = value
	case "format":
		cfg.Format = value
	case "trustedPrefixes":
		cfg.TrustedPrefixes = SplitList(value)
	case "expand":
		return setBool(&cfg.Expand, key, value)
	case "verbose":
		return setBool(&cfg.Verbose, key, value)
	case "cache.enabled":
		return setBool(&cfg.Cache.Enabled, key, value)
	case "cache.dir":
		cfg.Cache.Dir = value
	case "cache.ttlSeconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("cache.ttlSeconds must be an integer: %w", err)
		}
		cfg.Cache.TTLSeconds = n
	case "privacy.redactSecrets":
		return setBool(&cfg.Privacy.RedactSecrets, key, value)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func setBool(dst *bool, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	*dst = b
	return nil
}

// SplitList splits a comma-separated list, trimming spaces and dropping
// empty entries.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
