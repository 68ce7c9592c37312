package payload

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dshills/unprompted/internal/capture"
)

// Attachment is an image sent alongside the prompt text.
type Attachment struct {
	MIME string
	Data []byte
}

// DataURI returns the attachment as a self-contained data: URI.
func (a Attachment) DataURI() string {
	mime := a.MIME
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}

// Payload is the assembled form of a capture buffer. Texts[i] holds the
// placeholder "[imgN]" where the N-th image appeared, and Images[N-1] is that
// image.
type Payload struct {
	Texts  []string
	Images []Attachment
}

// Placeholder returns the token standing in for the n-th (1-based) image.
func Placeholder(n int) string {
	return fmt.Sprintf("[img%d]", n)
}

// Assemble converts items into a Payload, preserving order.
func Assemble(items []capture.Item) Payload {
	var p Payload
	for _, it := range items {
		if it.Kind == capture.KindImage && it.Image != nil {
			p.Images = append(p.Images, Attachment{MIME: it.Image.MIME, Data: it.Image.Data})
			p.Texts = append(p.Texts, Placeholder(len(p.Images)))
			continue
		}
		p.Texts = append(p.Texts, it.String())
	}
	return p
}

// Outputs joins the text fragments the way they appear in the prompt.
func (p Payload) Outputs() string {
	return strings.Join(p.Texts, "\n")
}
