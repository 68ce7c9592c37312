package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dshills/unprompted/internal/present"
	"github.com/google/uuid"
)

// Record is one line written by JSONLines.
type Record struct {
	Session        string    `json:"session"`
	Cell           int       `json:"cell"`
	Source         string    `json:"source,omitempty"`
	Outputs        []string  `json:"outputs,omitempty"`
	Images         int       `json:"images,omitempty"`
	Kind           string    `json:"kind"`
	Summary        string    `json:"summary"`
	Markdown       string    `json:"markdown"`
	ActionRequired bool      `json:"action_required"`
	Time           time.Time `json:"time"`
}

// JSONLines writes one JSON object per rendered block. Cell output is not
// echoed; it is carried in the record of the block that follows it.
type JSONLines struct {
	enc     *json.Encoder
	session string
	rec     transcript
	now     func() time.Time
}

// NewJSONLines creates a JSONLines surface writing to w.
func NewJSONLines(w io.Writer) *JSONLines {
	return &JSONLines{
		enc:     json.NewEncoder(w),
		session: uuid.NewString(),
		now:     time.Now,
	}
}

func (j *JSONLines) Stdout() io.Writer { return streamWriter{t: &j.rec, stream: streamStdout} }
func (j *JSONLines) Stderr() io.Writer { return streamWriter{t: &j.rec, stream: streamStderr} }

func (j *JSONLines) Display(v any) error {
	j.rec.display(v)
	return nil
}

func (j *JSONLines) BeginCell(n int, source string) error {
	j.rec.begin(n, source)
	return nil
}

func (j *JSONLines) Render(b present.Block) error {
	c := j.rec.render(b)
	r := Record{
		Session:        j.session,
		Cell:           c.Number,
		Source:         c.Source,
		Kind:           b.Kind,
		Summary:        b.Summary,
		Markdown:       b.Markdown,
		ActionRequired: b.ActionRequired,
		Time:           j.now().UTC(),
	}
	for _, o := range c.Outputs {
		if o.Image != nil {
			r.Images++
			continue
		}
		r.Outputs = append(r.Outputs, o.Text)
	}
	if err := j.enc.Encode(r); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	return nil
}

func (j *JSONLines) Close() error { return nil }

// ReadRecords decodes a stream written by JSONLines.
func ReadRecords(r io.Reader) ([]Record, error) {
	var records []Record
	dec := json.NewDecoder(r)
	for {
		var rec Record
		err := dec.Decode(&rec)
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading record %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
}
