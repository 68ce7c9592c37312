package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dshills/unprompted/internal/config"
	"github.com/dshills/unprompted/internal/providers"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Provider and model management",
}

type modelInfo struct {
	Provider string
	Models   []string
}

// knownModels are vision-capable models that work as reviewers.
var knownModels = []modelInfo{
	{
		Provider: "ollama",
		Models: []string{
			"gemma3:12b",
			"gemma3:4b",
			"gemma3:27b",
			"llama3.2-vision",
			"qwen2.5vl",
		},
	},
	{
		Provider: "lmstudio",
		Models: []string{
			"google/gemma-3-12b",
			"google/gemma-3-4b",
		},
	},
	{
		Provider: "openai",
		Models: []string{
			"gpt-4.1-mini",
			"gpt-4o",
		},
	},
	{
		Provider: "anthropic",
		Models: []string{
			"claude-sonnet-4-5",
			"claude-haiku-4-5",
		},
	},
	{
		Provider: "gemini",
		Models: []string{
			"gemini-2.5-flash",
			"gemini-2.5-pro",
		},
	},
}

var flagInstalled bool

func printKnownModels(w io.Writer) {
	for _, info := range knownModels {
		fmt.Fprintf(w, "%s:\n", info.Provider)
		for _, m := range info.Models {
			fmt.Fprintf(w, "  - %s\n", m)
		}
		fmt.Fprintln(w)
	}
}

func printLocalModels(w io.Writer, models []providers.LocalModel) {
	if len(models) == 0 {
		fmt.Fprintln(w, "No models installed.")
		return
	}
	for _, m := range models {
		size := fmt.Sprintf("%.1f GB", float64(m.Size)/1e9)
		if m.ParameterSize != "" {
			size = m.ParameterSize + ", " + size
		}
		fmt.Fprintf(w, "  - %s (%s)\n", m.Name, size)
	}
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known or installed models",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !flagInstalled {
			printKnownModels(os.Stdout)
			return nil
		}

		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		models, err := providers.ListLocalModels(ctx, http.DefaultClient, cfg.Endpoint)
		if err != nil {
			fail(err)
			return nil
		}
		printLocalModels(os.Stdout, models)
		return nil
	},
}

var modelsDoctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the configured model is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Checking %s (%s)...\n", cfg.Provider, cfg.ActiveModel())

		p, err := providers.New(cfg.Provider, cfg.Endpoint, cfg.ActiveModel())
		if err != nil {
			fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
			exitCode = ExitAuthError
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		_, err = p.Review(ctx, providers.ReviewRequest{
			Messages: []providers.Message{
				{Role: providers.RoleSystem, Content: "Respond with exactly: ok"},
				{Role: providers.RoleUser, Content: "ping"},
			},
			MaxTokens: 10,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
			if providers.IsAuthError(err) {
				exitCode = ExitAuthError
			} else {
				exitCode = ExitRuntimeError
			}
			return nil
		}

		fmt.Fprintf(os.Stdout, "OK: %s is configured and responding\n", cfg.Provider)
		return nil
	},
}

func init() {
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsDoctorCmd)
	modelsListCmd.Flags().BoolVar(&flagInstalled, "installed", false, "Query the server for installed models")
	modelsListCmd.Flags().StringVar(&flagEndpoint, "endpoint", "", "Ollama server URL")
	modelsDoctorCmd.Flags().StringVar(&flagProvider, "provider", "", "Provider to check")
	modelsDoctorCmd.Flags().StringVar(&flagModel, "model", "", "Model to check")
	modelsDoctorCmd.Flags().BoolVar(&flagLight, "light", false, "Check the light model")
	modelsDoctorCmd.Flags().StringVar(&flagEndpoint, "endpoint", "", "Chat-completion server URL")
}
