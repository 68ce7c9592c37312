package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dshills/unprompted/internal/config"
	"github.com/spf13/cobra"
)

type configKey struct {
	Name    string
	Example string
	Help    string
}

// configKeys are the keys accepted by "config set", in the order they are
// listed.
var configKeys = []configKey{
	{"provider", "ollama", "Model provider (ollama, lmstudio, openai, anthropic, gemini)"},
	{"endpoint", "http://localhost:11434", "Chat-completion server URL"},
	{"model", "gemma3:12b", "Default critique model"},
	{"lightModel", "gemma3:4b", "Model used with --light"},
	{"useLight", "false", "Always use the light model"},
	{"language", "python", "Language tag for code in prompts"},
	{"shell", "sh", "Shell that runs each cell"},
	{"format", "text,json", "Output formats, comma-separated"},
	{"trustedPrefixes", "%bob,%%time", "Cell prefixes that are never critiqued"},
	{"expand", "false", "Show full critiques even when nothing is required"},
	{"verbose", "false", "Log progress to stderr"},
	{"cache.enabled", "true", "Cache critiques on disk"},
	{"cache.dir", "/tmp/unprompted", "Cache directory (empty for the default)"},
	{"cache.ttlSeconds", "86400", "Cache entry lifetime, 0 keeps entries forever"},
	{"privacy.redactSecrets", "true", "Scrub secrets before sending cells"},
}

func configKeyNames() []string {
	names := make([]string, len(configKeys))
	for i, k := range configKeys {
		names[i] = k.Name
	}
	return names
}

func printConfigKeys(w io.Writer) {
	for _, k := range configKeys {
		fmt.Fprintf(w, "%-22s %s (e.g. %s)\n", k.Name, k.Help, k.Example)
	}
}

var flagConfigForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage unprompted configuration",
	Long: "Settings are read from the config file, then UNPROMPTED_* environment " +
		"variables, then command-line flags; later sources win.",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !flagConfigForce {
			fmt.Fprintf(os.Stderr, "Config file already exists at %s (use --force to overwrite)\n", path)
			return nil
		}
		if err := config.Save(config.Default()); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Config file created at %s\n", path)
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the keys accepted by config set",
	Run: func(cmd *cobra.Command, args []string) {
		printConfigKeys(os.Stdout)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one key in the config file",
	Long:  "Set one key of the config file. Keys: " + strings.Join(configKeyNames(), ", ") + ".",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		// The file alone, so environment overrides are not persisted.
		cfg, err := config.LoadFile()
		if err != nil {
			return err
		}
		if err := config.SetField(&cfg, args[0], args[1]); err != nil {
			return fmt.Errorf("%w (see 'unprompted config keys')", err)
		}
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Set %s = %s\n", args[0], args[1])
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
	configInitCmd.Flags().BoolVar(&flagConfigForce, "force", false, "Overwrite an existing config file")
}
