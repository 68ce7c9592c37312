package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/unprompted/internal/capture"
	"github.com/dshills/unprompted/internal/present"
)

// Supported formats.
const (
	FormatText     = "text"
	FormatHTML     = "html"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatSARIF    = "sarif"
)

// Surface is where a session's cells, their outputs and the feedback on
// them are shown.
type Surface interface {
	// Stdout and Stderr receive the cell's stream writes.
	Stdout() io.Writer
	Stderr() io.Writer
	// Display shows a rich value such as an image.
	Display(v any) error
	// BeginCell marks the start of cell n.
	BeginCell(n int, source string) error
	// Render shows a feedback block for the current cell.
	Render(b present.Block) error
	// Close flushes anything buffered.
	Close() error
}

// Streams returns fresh capture streams that write through s.
func Streams(s Surface) *capture.Streams {
	return &capture.Streams{
		Stdout: s.Stdout(),
		Stderr: s.Stderr(),
		Display: func(vs ...any) error {
			var errs []error
			for _, v := range vs {
				if err := s.Display(v); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	}
}

// Options configures the surfaces built by Open.
type Options struct {
	Version  string
	Language string
	// Notebook is the path SARIF results point at.
	Notebook string
	// Expand shows the body of critiques that need no action.
	Expand bool
	// Plain disables colors and styling in the terminal.
	Plain bool
	Width int
	// SARIFActionOnly limits SARIF results to critiques that need action.
	SARIFActionOnly bool
}

// Open builds the surface for formats. "text" writes to the process
// streams. Every other format writes a file: out itself when it is the only
// file format, or out with the format's extension when there are several.
// With an empty out, a single file format goes to stdout instead of text.
func Open(formats []string, out string, opts Options) (Surface, error) {
	if len(formats) == 0 {
		formats = []string{FormatText}
	}

	var text bool
	var files []string
	seen := make(map[string]bool)
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "md" {
			f = FormatMarkdown
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		switch f {
		case FormatText:
			text = true
		case FormatHTML, FormatJSON, FormatMarkdown, FormatSARIF:
			files = append(files, f)
		default:
			return nil, fmt.Errorf("unsupported output format: %s", f)
		}
	}
	if out == "" && len(files) > 0 && (text || len(files) > 1) {
		return nil, fmt.Errorf("--out is required when writing %s alongside other formats", strings.Join(files, ", "))
	}

	var surfaces []Surface
	cleanup := func() {
		for _, s := range surfaces {
			s.Close()
		}
	}

	if text {
		t, err := NewTerminal(os.Stdout, os.Stderr, TerminalOptions{
			Expand: opts.Expand,
			Plain:  opts.Plain,
			Width:  opts.Width,
		})
		if err != nil {
			return nil, err
		}
		surfaces = append(surfaces, t)
	}

	for _, f := range files {
		var w io.WriteCloser = nopCloser{os.Stdout}
		if out != "" {
			path := out
			if len(files) > 1 {
				path = strings.TrimSuffix(out, filepath.Ext(out)) + extension(f)
			}
			file, err := os.Create(path)
			if err != nil {
				cleanup()
				return nil, fmt.Errorf("creating output file: %w", err)
			}
			w = file
		}
		surfaces = append(surfaces, newFileSurface(f, w, opts))
	}

	if len(surfaces) == 1 {
		return surfaces[0], nil
	}
	return NewMulti(surfaces...), nil
}

func extension(format string) string {
	switch format {
	case FormatHTML:
		return ".html"
	case FormatJSON:
		return ".jsonl"
	case FormatMarkdown:
		return ".md"
	case FormatSARIF:
		return ".sarif"
	default:
		return "." + format
	}
}

func newFileSurface(format string, w io.WriteCloser, opts Options) Surface {
	var s Surface
	switch format {
	case FormatHTML:
		s = NewHTMLReport(w, opts.Version)
	case FormatJSON:
		s = NewJSONLines(w)
	case FormatSARIF:
		s = NewSARIF(w, opts.Version, opts.Notebook, opts.SARIFActionOnly)
	default:
		s = NewMarkdown(w, opts.Language)
	}
	return &fileSurface{Surface: s, f: w}
}

// fileSurface closes the underlying file after the surface is flushed.
type fileSurface struct {
	Surface
	f io.Closer
}

func (s *fileSurface) Close() error {
	return errors.Join(s.Surface.Close(), s.f.Close())
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
