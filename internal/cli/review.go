package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/unprompted/internal/capture"
	"github.com/dshills/unprompted/internal/config"
	"github.com/dshills/unprompted/internal/output"
	"github.com/dshills/unprompted/internal/present"
	"github.com/spf13/cobra"
)

var (
	flagCodeFile    string
	flagOutputsFile string
	flagImages      []string
)

// reviewItems builds the captured items of a single snippet: the text
// outputs first, then each image in flag order.
func reviewItems(outputsFile string, images []string) ([]capture.Item, error) {
	var items []capture.Item
	if outputsFile != "" {
		data, err := os.ReadFile(outputsFile)
		if err != nil {
			return nil, fmt.Errorf("reading outputs: %w", err)
		}
		if len(data) > 0 {
			items = append(items, capture.Text(string(data)))
		}
	}
	for _, path := range images {
		img, err := readImage(path)
		if err != nil {
			return nil, err
		}
		items = append(items, capture.Classify(img))
	}
	return items, nil
}

func readImage(path string) (capture.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return capture.Image{}, fmt.Errorf("reading image: %w", err)
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return capture.Image{}, fmt.Errorf("%s is not an image (%s)", path, mime)
	}
	return capture.Image{MIME: mime, Data: data, Name: filepath.Base(path)}, nil
}

func readCode(path string, stdin io.Reader) (string, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading code: %w", err)
	}
	code := string(data)
	if strings.TrimSpace(code) == "" {
		return "", fmt.Errorf("no code to review")
	}
	return code, nil
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Critique a single snippet and its outputs",
	Long: "Review sends one piece of code, read from --code or stdin, together with " +
		"its text outputs and images to the model and prints the critique.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}

		code, err := readCode(flagCodeFile, cmd.InOrStdin())
		if err != nil {
			fail(err)
			return nil
		}
		items, err := reviewItems(flagOutputsFile, flagImages)
		if err != nil {
			fail(err)
			return nil
		}

		critic, err := newCritic(cfg)
		if err != nil {
			fail(err)
			return nil
		}

		ctx, cancel := signalContext(cmd)
		defer cancel()

		text, err := critic.Critique(ctx, code, items)
		if err != nil {
			fail(err)
			return nil
		}

		term, err := output.NewTerminal(os.Stdout, os.Stderr, output.TerminalOptions{
			Expand: true,
			Plain:  flagPlain,
		})
		if err != nil {
			return err
		}
		if err := term.Render(present.Critique(text)); err != nil {
			fail(err)
		}
		return nil
	},
}

func init() {
	addModelFlags(reviewCmd)
	reviewCmd.Flags().StringVar(&flagCodeFile, "code", "", "File holding the code to review (default: stdin)")
	reviewCmd.Flags().StringVar(&flagOutputsFile, "outputs", "", "File holding the text the code printed")
	reviewCmd.Flags().StringArrayVar(&flagImages, "image", nil, "Image the code displayed (repeatable)")
	reviewCmd.Flags().BoolVar(&flagPlain, "plain", false, "Disable colors and styling")
}
