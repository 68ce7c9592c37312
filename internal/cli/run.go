package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dshills/unprompted/internal/cache"
	"github.com/dshills/unprompted/internal/config"
	"github.com/dshills/unprompted/internal/critique"
	"github.com/dshills/unprompted/internal/kernel"
	"github.com/dshills/unprompted/internal/logging"
	"github.com/dshills/unprompted/internal/observer"
	"github.com/dshills/unprompted/internal/output"
	"github.com/dshills/unprompted/internal/providers"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Shared model flags
var (
	flagProvider string
	flagModel    string
	flagLight    bool
	flagEndpoint string
	flagLanguage string
	flagNoRedact bool
	flagNoCache  bool
)

// Run flags
var (
	flagFormat string
	flagOut    string
	flagTrust  string
	flagShell  string
	flagExpand bool
	flagPlain  bool

	flagSARIFActionOnly bool
)

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagProvider, "provider", "", "Model provider (ollama, lmstudio, openai, anthropic, gemini)")
	cmd.Flags().StringVar(&flagModel, "model", "", "Model name")
	cmd.Flags().BoolVar(&flagLight, "light", false, "Use the light model")
	cmd.Flags().StringVar(&flagEndpoint, "endpoint", "", "Chat-completion server URL")
	cmd.Flags().StringVar(&flagLanguage, "language", "", "Language of the cells, used to tag code in prompts")
	cmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Do not read or write cached critiques")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagProvider != "" {
		m["provider"] = flagProvider
	}
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagLight {
		m["useLight"] = "true"
	}
	if flagEndpoint != "" {
		m["endpoint"] = flagEndpoint
	}
	if flagLanguage != "" {
		m["language"] = flagLanguage
	}
	if flagNoRedact {
		m["privacy.redactSecrets"] = "false"
	}
	if flagNoCache {
		m["cache.enabled"] = "false"
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagTrust != "" {
		m["trustedPrefixes"] = flagTrust
	}
	if flagShell != "" {
		m["shell"] = flagShell
	}
	if flagExpand {
		m["expand"] = "true"
	}
	if flagVerbose {
		m["verbose"] = "true"
	}
	return m
}

// newCritic builds the critique client for cfg.
func newCritic(cfg config.Config) (*critique.Critic, error) {
	if !cfg.Privacy.RedactSecrets {
		fmt.Fprintln(os.Stderr, "WARNING: secret redaction is disabled")
	}
	reviewer, err := providers.New(cfg.Provider, cfg.Endpoint, cfg.ActiveModel())
	if err != nil {
		return nil, err
	}
	c, err := cache.New(cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	logger.Debug("critic ready",
		zap.String("provider", reviewer.Name()),
		zap.String("model", reviewer.Model()),
		zap.Bool("cache", c.Enabled()),
	)
	return critique.New(reviewer, critique.Options{
		Language: cfg.Language,
		Redact:   cfg.Privacy.RedactSecrets,
		Cache:    c,
		Logger:   logger,
	}), nil
}

// signalContext is canceled on interrupt so the notebook stops before its
// next cell.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt)
}

var runCmd = &cobra.Command{
	Use:   "run <notebook>",
	Short: "Run a notebook and critique every cell",
	Long: "Run executes the cells of a YAML or .ipynb notebook in order. The first cell " +
		"gets a greeting; every following cell is sent, with its outputs, to the model " +
		"and the critique is shown right after the cell.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nb, err := kernel.Load(args[0])
		if err != nil {
			fail(err)
			return nil
		}

		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		if cfg.Language == "" {
			cfg.Language = nb.Language
		}
		if cfg.Verbose && !flagVerbose {
			// verbose set in the config file or environment
			l, err := logging.New(true)
			if err != nil {
				return err
			}
			logger = l
		}

		critic, err := newCritic(cfg)
		if err != nil {
			fail(err)
			return nil
		}

		surface, err := output.Open(cfg.Formats(), flagOut, output.Options{
			Version:  version,
			Language: cfg.Language,
			Notebook: nb.Path,
			Expand:   cfg.Expand,
			Plain:    flagPlain,

			SARIFActionOnly: flagSARIFActionOnly,
		})
		if err != nil {
			return err
		}

		ctx, cancel := signalContext(cmd)
		defer cancel()

		runErr := runNotebook(ctx, nb, cfg, critic, surface)
		if err := surface.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		if runErr != nil {
			// The kernel already reported each failure on stderr.
			logger.Debug("notebook finished with errors", zap.Error(runErr))
			if providers.IsAuthError(runErr) {
				exitCode = ExitAuthError
			} else {
				exitCode = ExitRuntimeError
			}
		}
		return nil
	},
}

// runNotebook wires the kernel, the cell announcer and the observer to
// surface and runs every cell of nb.
func runNotebook(ctx context.Context, nb *kernel.Notebook, cfg config.Config, critic observer.Critic, surface output.Surface) error {
	streams := output.Streams(surface)
	k := kernel.New(streams, kernel.ShellRunner{Shell: cfg.Shell}, logger)
	k.Register(output.NewCellHooks(surface))
	k.Register(observer.New(streams, critic, surface, observer.Options{
		TrustedPrefixes: cfg.TrustedPrefixes,
		Version:         version,
		Verbose:         cfg.Verbose,
		Logger:          logger,
	}))

	logger.Debug("running notebook",
		zap.String("path", nb.Path),
		zap.Int("cells", len(nb.Cells)),
		zap.String("language", cfg.Language),
	)
	return k.Run(ctx, nb)
}

func init() {
	addModelFlags(runCmd)
	runCmd.Flags().StringVar(&flagFormat, "format", "", "Output formats, comma-separated (text, html, json, markdown, sarif)")
	runCmd.Flags().StringVar(&flagOut, "out", "", "Output file path for report formats (default: stdout)")
	runCmd.Flags().StringVar(&flagTrust, "trust", "", "Cell prefixes that are never critiqued (comma-separated)")
	runCmd.Flags().StringVar(&flagShell, "shell", "", "Shell that runs each cell")
	runCmd.Flags().BoolVar(&flagExpand, "expand", false, "Show the full critique even when no action is required")
	runCmd.Flags().BoolVar(&flagPlain, "plain", false, "Disable colors and styling")
	runCmd.Flags().BoolVar(&flagSARIFActionOnly, "sarif-action-only", false, "Only report critiques that need action in SARIF output")
}
