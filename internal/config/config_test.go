package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// clearEnv unsets every variable mergeEnv reads for the duration of t.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"UNPROMPTED_PROVIDER", "UNPROMPTED_MODEL", "UNPROMPTED_LIGHT_MODEL",
		"UNPROMPTED_ENDPOINT", "UNPROMPTED_FORMAT", "UNPROMPTED_TRUST", "UNPROMPTED_VERBOSE",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Provider != "ollama" {
		t.Errorf("Default provider = %q, want %q", cfg.Provider, "ollama")
	}
	if cfg.Model != "gemma3:12b" {
		t.Errorf("Default model = %q, want %q", cfg.Model, "gemma3:12b")
	}
	if cfg.LightModel != "gemma3:4b" {
		t.Errorf("Default lightModel = %q, want %q", cfg.LightModel, "gemma3:4b")
	}
	if cfg.Format != "text" {
		t.Errorf("Default format = %q, want %q", cfg.Format, "text")
	}
	if !reflect.DeepEqual(cfg.TrustedPrefixes, []string{"%bob", "%%bob"}) {
		t.Errorf("Default trustedPrefixes = %v", cfg.TrustedPrefixes)
	}
	if !cfg.Privacy.RedactSecrets {
		t.Error("Default redactSecrets should be true")
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTLSeconds != 86400 {
		t.Errorf("Default cache = %+v", cfg.Cache)
	}
}

func TestActiveModel(t *testing.T) {
	cfg := Default()
	if cfg.ActiveModel() != "gemma3:12b" {
		t.Errorf("ActiveModel = %q", cfg.ActiveModel())
	}
	cfg.UseLight = true
	if cfg.ActiveModel() != "gemma3:4b" {
		t.Errorf("ActiveModel with light = %q", cfg.ActiveModel())
	}
	cfg.LightModel = ""
	if cfg.ActiveModel() != "gemma3:12b" {
		t.Errorf("ActiveModel without light model = %q", cfg.ActiveModel())
	}
}

func TestMergeEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("UNPROMPTED_PROVIDER", "openai")
	t.Setenv("UNPROMPTED_MODEL", "gpt-4o")
	t.Setenv("UNPROMPTED_LIGHT_MODEL", "gpt-4o-mini")
	t.Setenv("UNPROMPTED_ENDPOINT", "http://gpu-box:11434")
	t.Setenv("UNPROMPTED_FORMAT", "text,html")
	t.Setenv("UNPROMPTED_TRUST", "%bob, !")
	t.Setenv("UNPROMPTED_VERBOSE", "true")

	cfg := Default()
	if err := mergeEnv(&cfg); err != nil {
		t.Fatalf("mergeEnv error: %v", err)
	}

	if cfg.Provider != "openai" {
		t.Errorf("Provider = %q, want %q", cfg.Provider, "openai")
	}
	if cfg.Model != "gpt-4o" {
		t.Errorf("Model = %q, want %q", cfg.Model, "gpt-4o")
	}
	if cfg.LightModel != "gpt-4o-mini" {
		t.Errorf("LightModel = %q, want %q", cfg.LightModel, "gpt-4o-mini")
	}
	if cfg.Endpoint != "http://gpu-box:11434" {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
	if !reflect.DeepEqual(cfg.Formats(), []string{"text", "html"}) {
		t.Errorf("Formats = %v", cfg.Formats())
	}
	if !reflect.DeepEqual(cfg.TrustedPrefixes, []string{"%bob", "!"}) {
		t.Errorf("TrustedPrefixes = %v", cfg.TrustedPrefixes)
	}
	if !cfg.Verbose {
		t.Error("Verbose should be true")
	}
}

func TestMergeEnv_InvalidVerbose(t *testing.T) {
	clearEnv(t)
	t.Setenv("UNPROMPTED_VERBOSE", "loud")

	cfg := Default()
	if err := mergeEnv(&cfg); err == nil {
		t.Error("Expected error for invalid UNPROMPTED_VERBOSE")
	}
}

func TestMergeOverrides(t *testing.T) {
	cfg := Default()
	overrides := map[string]string{
		"provider":              "openai",
		"model":                 "gpt-4o",
		"useLight":              "true",
		"format":                "json",
		"privacy.redactSecrets": "false",
		"shell":                 "",
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		t.Fatalf("mergeOverrides error: %v", err)
	}

	if cfg.Provider != "openai" {
		t.Errorf("Provider = %q, want %q", cfg.Provider, "openai")
	}
	if cfg.Model != "gpt-4o" {
		t.Errorf("Model = %q, want %q", cfg.Model, "gpt-4o")
	}
	if !cfg.UseLight {
		t.Error("UseLight should be true")
	}
	if cfg.Privacy.RedactSecrets {
		t.Error("RedactSecrets should be false")
	}
	if cfg.Shell != "sh" {
		t.Errorf("empty override changed Shell to %q", cfg.Shell)
	}
}

func TestMergeOverrides_Nil(t *testing.T) {
	cfg := Default()
	if err := mergeOverrides(&cfg, nil); err != nil {
		t.Fatalf("mergeOverrides error: %v", err)
	}
	if cfg.Provider != "ollama" {
		t.Errorf("Provider changed with nil overrides")
	}
}

func TestSetField(t *testing.T) {
	cfg := Default()

	tests := []struct {
		key   string
		value string
	}{
		{"provider", "openai"},
		{"endpoint", "http://localhost:1234"},
		{"model", "llava"},
		{"lightModel", "moondream"},
		{"useLight", "true"},
		{"language", "python"},
		{"shell", "bash"},
		{"format", "html"},
		{"trustedPrefixes", "%ai,%%ai"},
		{"expand", "true"},
		{"verbose", "1"},
		{"cache.enabled", "false"},
		{"cache.dir", "/tmp/cache"},
		{"cache.ttlSeconds", "60"},
		{"privacy.redactSecrets", "false"},
	}

	for _, tt := range tests {
		if err := SetField(&cfg, tt.key, tt.value); err != nil {
			t.Errorf("SetField(%q, %q) error: %v", tt.key, tt.value, err)
		}
	}

	if cfg.Endpoint != "http://localhost:1234" {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
	if cfg.ActiveModel() != "moondream" {
		t.Errorf("ActiveModel = %q, want %q", cfg.ActiveModel(), "moondream")
	}
	if !reflect.DeepEqual(cfg.TrustedPrefixes, []string{"%ai", "%%ai"}) {
		t.Errorf("TrustedPrefixes = %v", cfg.TrustedPrefixes)
	}
	if !cfg.Expand || !cfg.Verbose {
		t.Error("Expand and Verbose should be true")
	}
	if cfg.Cache.Enabled || cfg.Cache.TTLSeconds != 60 || cfg.Cache.Dir != "/tmp/cache" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Privacy.RedactSecrets {
		t.Error("RedactSecrets should be false")
	}
}

func TestSetField_UnknownKey(t *testing.T) {
	cfg := Default()
	err := SetField(&cfg, "nonexistent", "value")
	if err == nil {
		t.Error("Expected error for unknown key")
	}
}

func TestSetField_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"cache.ttlSeconds", "notanumber"},
		{"useLight", "maybe"},
		{"privacy.redactSecrets", "nope"},
	}
	for _, tt := range tests {
		cfg := Default()
		if err := SetField(&cfg, tt.key, tt.value); err == nil {
			t.Errorf("SetField(%q, %q): expected error", tt.key, tt.value)
		}
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"text", []string{"text"}},
		{" text , html ,, json", []string{"text", "html", "json"}},
	}
	for _, tt := range tests {
		if got := SplitList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConfigPrecedence(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	clearEnv(t)

	cfg := Default()
	cfg.Provider = "lmstudio"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := Load(nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Provider != "lmstudio" {
		t.Errorf("After file, Provider = %q, want %q", loaded.Provider, "lmstudio")
	}

	t.Setenv("UNPROMPTED_PROVIDER", "openai")
	loaded, err = Load(nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Provider != "openai" {
		t.Errorf("After env, Provider = %q, want %q", loaded.Provider, "openai")
	}

	loaded, err = Load(map[string]string{"provider": "ollama"})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Provider != "ollama" {
		t.Errorf("After override, Provider = %q, want %q", loaded.Provider, "ollama")
	}
}

func TestLoadFile_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := filepath.Join(dir, "unprompted", "config.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	data := `{"model": "llava:13b", "privacy": {"redactSecrets": false}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if cfg.Model != "llava:13b" {
		t.Errorf("Model = %q, want %q", cfg.Model, "llava:13b")
	}
	if cfg.Privacy.RedactSecrets {
		t.Error("RedactSecrets should be false when the file sets it")
	}
	if cfg.Provider != "ollama" || !cfg.Cache.Enabled {
		t.Errorf("keys absent from the file should keep defaults: %+v", cfg)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := filepath.Join(dir, "unprompted", "config.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(); err == nil {
		t.Error("Expected error for invalid config file")
	}
}

func TestConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/xdg-test/unprompted" {
		t.Errorf("ConfigDir = %q, want %q", dir, "/tmp/xdg-test/unprompted")
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath error: %v", err)
	}
	if path != "/tmp/xdg-test/unprompted/config.json" {
		t.Errorf("ConfigPath = %q, want %q", path, "/tmp/xdg-test/unprompted/config.json")
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Provider = "openai"
	cfg.Model = "gpt-4o"
	cfg.Cache.TTLSeconds = 25

	if err := Save(cfg); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if !reflect.DeepEqual(loaded, cfg) {
		t.Errorf("loaded = %+v, want %+v", loaded, cfg)
	}
}

func TestLoadFile_NoFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("missing file should yield defaults, got %+v", cfg)
	}
}
