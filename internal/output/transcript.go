package output

import (
	"github.com/dshills/unprompted/internal/capture"
	"github.com/dshills/unprompted/internal/present"
)

// Output streams recorded in a transcript.
const (
	streamStdout  = "stdout"
	streamStderr  = "stderr"
	streamDisplay = "display"
)

type outputRecord struct {
	Stream string
	Text   string
	Image  *capture.Image
	Error  bool
}

type cellRecord struct {
	Number  int
	Source  string
	Outputs []outputRecord
	Blocks  []present.Block
}

// transcript keeps every cell of a session for surfaces that write a report
// at the end. Writes before the first BeginCell go to a cell numbered 0.
type transcript struct {
	cells []*cellRecord
}

func (t *transcript) begin(n int, source string) *cellRecord {
	c := &cellRecord{Number: n, Source: source}
	t.cells = append(t.cells, c)
	return c
}

func (t *transcript) current() *cellRecord {
	if len(t.cells) == 0 {
		return t.begin(0, "")
	}
	return t.cells[len(t.cells)-1]
}

// write appends stream text, merging it with the previous output when that
// came from the same stream.
func (t *transcript) write(stream, text string) {
	c := t.current()
	if n := len(c.Outputs); n > 0 {
		last := &c.Outputs[n-1]
		if last.Stream == stream && last.Image == nil && !last.Error {
			last.Text += text
			return
		}
	}
	c.Outputs = append(c.Outputs, outputRecord{Stream: stream, Text: text})
}

func (t *transcript) display(v any) {
	it := capture.Classify(v)
	c := t.current()
	rec := outputRecord{Stream: streamDisplay, Text: it.String()}
	switch it.Kind {
	case capture.KindImage:
		rec.Image = it.Image
	case capture.KindError:
		rec.Error = true
	}
	c.Outputs = append(c.Outputs, rec)
}

func (t *transcript) render(b present.Block) *cellRecord {
	c := t.current()
	c.Blocks = append(c.Blocks, b)
	return c
}

type streamWriter struct {
	t      *transcript
	stream string
}

func (w streamWriter) Write(p []byte) (int, error) {
	w.t.write(w.stream, string(p))
	return len(p), nil
}
