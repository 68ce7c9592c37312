package output

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/dshills/unprompted/internal/payload"
	"github.com/dshills/unprompted/internal/present"
	"github.com/google/uuid"
)

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="unprompted-session" content="{{.Session}}">
<title>unprompted report</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 960px; margin: 2rem auto; padding: 0 1rem; }
.prompt { color: #7c3aed; font-weight: bold; margin-top: 2rem; }
pre { background: #f6f8fa; padding: .5rem; overflow-x: auto; }
pre.stderr, pre.error { background: #fdecea; }
details { border-left: 3px solid #10b981; padding-left: .75rem; margin: .5rem 0; }
.action details { border-color: #f59e0b; }
img { max-width: 100%; }
footer { color: #6b7280; font-size: small; margin-top: 3rem; }
</style>
</head>
<body>
{{range .Cells}}<section class="cell" id="cell-{{.Number}}">
{{if .Number}}<div class="prompt">In [{{.Number}}]:</div>
<pre class="source"><code>{{.Source}}</code></pre>
{{end}}{{range .Outputs}}{{if .Image}}<img alt="{{.Name}}" src="{{.Src}}">
{{else}}<pre class="{{.Class}}">{{.Text}}</pre>
{{end}}{{end}}{{range .Blocks}}{{if .Action}}<div class="action">{{.HTML}}</div>{{else}}<div>{{.HTML}}</div>{{end}}
{{end}}</section>
{{end}}<footer>unprompted {{.Version}} &middot; session {{.Session}} &middot; {{.Generated}}</footer>
</body>
</html>
`))

type htmlOutput struct {
	Image bool
	Name  string
	Src   template.URL
	Class string
	Text  string
}

type htmlBlock struct {
	Action bool
	HTML   template.HTML
}

type htmlCell struct {
	Number  int
	Source  string
	Outputs []htmlOutput
	Blocks  []htmlBlock
}

type htmlReport struct {
	Session   string
	Version   string
	Generated string
	Cells     []htmlCell
}

// HTMLReport records a session and writes it as a standalone HTML page on
// Close. Images are inlined as data URIs.
type HTMLReport struct {
	w       io.Writer
	version string
	session string
	rec     transcript
	now     func() time.Time
}

// NewHTMLReport creates a report that is written to w on Close.
func NewHTMLReport(w io.Writer, version string) *HTMLReport {
	return &HTMLReport{
		w:       w,
		version: version,
		session: uuid.NewString(),
		now:     time.Now,
	}
}

// Session returns the report's session ID.
func (r *HTMLReport) Session() string { return r.session }

func (r *HTMLReport) Stdout() io.Writer { return streamWriter{t: &r.rec, stream: streamStdout} }
func (r *HTMLReport) Stderr() io.Writer { return streamWriter{t: &r.rec, stream: streamStderr} }

func (r *HTMLReport) Display(v any) error {
	r.rec.display(v)
	return nil
}

func (r *HTMLReport) BeginCell(n int, source string) error {
	r.rec.begin(n, source)
	return nil
}

func (r *HTMLReport) Render(b present.Block) error {
	r.rec.render(b)
	return nil
}

// Close writes the report.
func (r *HTMLReport) Close() error {
	data := htmlReport{
		Session:   r.session,
		Version:   r.version,
		Generated: r.now().UTC().Format(time.RFC3339),
	}
	for _, c := range r.rec.cells {
		hc := htmlCell{Number: c.Number, Source: c.Source}
		for _, o := range c.Outputs {
			ho := htmlOutput{Class: o.Stream, Text: o.Text}
			if o.Error {
				ho.Class = "error"
			}
			if o.Image != nil {
				ho.Image = true
				ho.Name = o.Image.Name
				ho.Src = template.URL(payload.Attachment{MIME: o.Image.MIME, Data: o.Image.Data}.DataURI())
			}
			hc.Outputs = append(hc.Outputs, ho)
		}
		for _, b := range c.Blocks {
			hc.Blocks = append(hc.Blocks, htmlBlock{Action: b.ActionRequired, HTML: template.HTML(b.HTML)})
		}
		data.Cells = append(data.Cells, hc)
	}

	if err := reportTemplate.Execute(r.w, data); err != nil {
		return fmt.Errorf("writing HTML report: %w", err)
	}
	return nil
}
