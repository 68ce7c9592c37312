package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/dshills/unprompted/internal/capture"
	"github.com/dshills/unprompted/internal/present"
)

// TerminalOptions configures a Terminal.
type TerminalOptions struct {
	// Expand prints the body of critiques that need no action.
	Expand bool
	// Plain disables colors and styling.
	Plain bool
	// Width is the word-wrap width for critique bodies; 0 means 80.
	Width int
}

type terminalStyles struct {
	prompt  lipgloss.Style
	source  lipgloss.Style
	muted   lipgloss.Style
	action  lipgloss.Style
	success lipgloss.Style
	body    lipgloss.Style
}

func newTerminalStyles(plain bool) terminalStyles {
	if plain {
		s := lipgloss.NewStyle()
		return terminalStyles{prompt: s, source: s, muted: s, action: s, success: s, body: s}
	}
	return terminalStyles{
		prompt: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7C3AED")).
			Bold(true),
		source: lipgloss.NewStyle().
			PaddingLeft(2).
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#6B7280")),
		muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Italic(true),
		action: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true),
		success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true),
		body: lipgloss.NewStyle().
			PaddingLeft(2),
	}
}

// Terminal shows cells and feedback on a terminal. Critiques that need no
// action are collapsed to their headline unless Expand is set.
type Terminal struct {
	out    io.Writer
	errOut io.Writer
	md     *glamour.TermRenderer
	styles terminalStyles
	expand bool
}

// NewTerminal creates a Terminal writing to out and errOut.
func NewTerminal(out, errOut io.Writer, opts TerminalOptions) (*Terminal, error) {
	width := opts.Width
	if width <= 0 {
		width = 80
	}
	style := glamour.WithAutoStyle()
	if opts.Plain {
		style = glamour.WithStylePath("notty")
	}
	md, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}
	return &Terminal{
		out:    out,
		errOut: errOut,
		md:     md,
		styles: newTerminalStyles(opts.Plain),
		expand: opts.Expand,
	}, nil
}

func (t *Terminal) Stdout() io.Writer { return t.out }
func (t *Terminal) Stderr() io.Writer { return t.errOut }

// Display prints images as a one-line placeholder, errors on stderr and
// everything else as text.
func (t *Terminal) Display(v any) error {
	it := capture.Classify(v)
	var err error
	switch it.Kind {
	case capture.KindImage:
		_, err = fmt.Fprintln(t.out, t.styles.muted.Render(it.String()))
	case capture.KindError:
		_, err = fmt.Fprintln(t.errOut, it.String())
	default:
		_, err = io.WriteString(t.out, withNewline(it.String()))
	}
	return err
}

func (t *Terminal) BeginCell(n int, source string) error {
	ew := &errWriter{w: t.out}
	ew.printf("\n%s\n", t.styles.prompt.Render(fmt.Sprintf("In [%d]:", n)))
	ew.println(t.styles.source.Render(strings.TrimRight(source, "\n")))
	return ew.err
}

func (t *Terminal) Render(b present.Block) error {
	ew := &errWriter{w: t.out}
	if b.Kind == present.KindBanner {
		ew.println(t.styles.muted.Render(b.Summary))
		return ew.err
	}

	headline := t.styles.success
	if b.ActionRequired {
		headline = t.styles.action
	}
	ew.println(headline.Render(b.Summary))

	if !b.ActionRequired && !t.expand {
		return ew.err
	}
	body, err := t.md.Render(b.Markdown)
	if err != nil {
		body = b.Markdown
	}
	ew.println(t.styles.body.Render(strings.TrimRight(body, "\n")))
	return ew.err
}

func (t *Terminal) Close() error { return nil }

func withNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
