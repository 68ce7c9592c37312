package cli

import (
	"fmt"
	"os"

	"github.com/dshills/unprompted/internal/logging"
	"github.com/dshills/unprompted/internal/providers"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = "0.1.0"

// Exit codes
const (
	ExitSuccess      = 0
	ExitUsageError   = 2
	ExitAuthError    = 3
	ExitRuntimeError = 4
)

var (
	flagVerbose bool
	logger      = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "unprompted",
	Short: "Unsolicited feedback on every notebook cell",
	Long: "unprompted runs a notebook cell by cell and, after each one, asks a local " +
		"vision-language model to critique the code and everything it printed or displayed.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(flagVerbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log captured items and debug details to stderr")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

// fail reports err on stderr and records the matching exit code.
func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if providers.IsAuthError(err) {
		exitCode = ExitAuthError
		return
	}
	exitCode = ExitRuntimeError
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print unprompted version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "unprompted version %s\n", version)
	},
}
