package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/unprompted/internal/chat"
	"github.com/dshills/unprompted/internal/config"
	"github.com/dshills/unprompted/internal/critique"
	"github.com/dshills/unprompted/internal/output"
	"github.com/dshills/unprompted/internal/present"
	"github.com/spf13/cobra"
)

var flagChatFrom string

// historyFromRecords turns the critiques of a JSON-lines report into
// alternating user and assistant turns. Banners carry no exchange and are
// skipped.
func historyFromRecords(records []output.Record, language string) []string {
	var history []string
	for _, r := range records {
		if r.Kind != present.KindCritique {
			continue
		}
		outputs := strings.Join(r.Outputs, "")
		if r.Images > 0 {
			outputs += fmt.Sprintf("\n(%d image(s) not shown)", r.Images)
		}
		history = append(history, critique.FormatTurn(language, r.Source, outputs), r.Markdown)
	}
	return history
}

func loadHistory(path, language string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening report: %w", err)
	}
	defer f.Close()
	records, err := output.ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return historyFromRecords(records, language), nil
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask follow-up questions in an interactive panel",
	Long: "Chat opens a terminal panel for questions to the reviewer. With --from, the " +
		"critiques of a JSON-lines report seed the conversation.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}

		var opts chat.Options
		if flagChatFrom != "" {
			opts.History, err = loadHistory(flagChatFrom, cfg.Language)
			if err != nil {
				fail(err)
				return nil
			}
			opts.Title = "unprompted chat: " + filepath.Base(flagChatFrom)
		}

		critic, err := newCritic(cfg)
		if err != nil {
			fail(err)
			return nil
		}

		ctx, cancel := signalContext(cmd)
		defer cancel()

		if _, err := chat.Run(ctx, critic, opts); err != nil {
			fail(err)
		}
		return nil
	},
}

func init() {
	addModelFlags(chatCmd)
	chatCmd.Flags().StringVar(&flagChatFrom, "from", "", "JSON-lines report whose critiques seed the conversation")
}
