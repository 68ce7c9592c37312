package output

import (
	"io"
	"strings"

	"github.com/dshills/unprompted/internal/payload"
	"github.com/dshills/unprompted/internal/present"
)

// Markdown records a session and writes it on Close as a Markdown document
// with one collapsible section per critique.
type Markdown struct {
	w        io.Writer
	language string
	rec      transcript
}

// NewMarkdown creates a Markdown surface; language tags the code fences.
func NewMarkdown(w io.Writer, language string) *Markdown {
	return &Markdown{w: w, language: language}
}

func (m *Markdown) Stdout() io.Writer { return streamWriter{t: &m.rec, stream: streamStdout} }
func (m *Markdown) Stderr() io.Writer { return streamWriter{t: &m.rec, stream: streamStderr} }

func (m *Markdown) Display(v any) error {
	m.rec.display(v)
	return nil
}

func (m *Markdown) BeginCell(n int, source string) error {
	m.rec.begin(n, source)
	return nil
}

func (m *Markdown) Render(b present.Block) error {
	m.rec.render(b)
	return nil
}

// Close writes the document.
func (m *Markdown) Close() error {
	ew := &errWriter{w: m.w}

	var cells, action, good int
	for _, c := range m.rec.cells {
		if c.Number > 0 {
			cells++
		}
		for _, b := range c.Blocks {
			if b.Kind != present.KindCritique {
				continue
			}
			if b.ActionRequired {
				action++
			} else {
				good++
			}
		}
	}

	ew.printf("## unprompted review\n\n")
	ew.printf("| Cells | Action required | All good |\n")
	ew.printf("|-------|-----------------|----------|\n")
	ew.printf("| %d | %d | %d |\n\n", cells, action, good)

	lang := fenceLang(m.language)
	for _, c := range m.rec.cells {
		if c.Number > 0 {
			ew.printf("### In [%d]\n\n", c.Number)
			ew.printf("```%s\n%s\n```\n\n", lang, strings.TrimRight(c.Source, "\n"))
		}

		for _, o := range c.Outputs {
			if o.Image != nil {
				uri := payload.Attachment{MIME: o.Image.MIME, Data: o.Image.Data}.DataURI()
				ew.printf("![%s](%s)\n\n", o.Image.Name, uri)
				continue
			}
			ew.printf("```\n%s\n```\n\n", strings.TrimRight(o.Text, "\n"))
		}

		for _, b := range c.Blocks {
			if b.Kind == present.KindBanner {
				ew.printf("> %s\n\n", b.Summary)
				continue
			}
			icon := ":white_check_mark:"
			if b.ActionRequired {
				icon = ":warning:"
			}
			ew.printf("<details>\n<summary>%s %s</summary>\n\n", icon, b.Summary)
			ew.printf("%s\n\n", b.Markdown)
			ew.printf("</details>\n\n")
		}

		if c.Number > 0 {
			ew.printf("---\n\n")
		}
	}
	return ew.err
}

func fenceLang(language string) string {
	langMap := map[string]string{
		"sh":         "bash",
		"shell":      "bash",
		"bash":       "bash",
		"python":     "python",
		"python3":    "python",
		"r":          "r",
		"julia":      "julia",
		"javascript": "javascript",
		"typescript": "typescript",
		"go":         "go",
		"sql":        "sql",
	}
	if lang, ok := langMap[strings.ToLower(language)]; ok {
		return lang
	}
	return language
}
