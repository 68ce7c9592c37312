package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// Kind identifies what a captured item holds.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindError Kind = "error"
	KindValue Kind = "value"
)

// Image is an encoded picture, such as a rendered chart.
type Image struct {
	MIME string
	Data []byte
	Name string
}

// Imager is implemented by values that know how to render themselves as an
// image (plots, figures, diagrams).
type Imager interface {
	Image() (Image, error)
}

// Item is a single captured output of a cell.
type Item struct {
	Kind  Kind
	Text  string
	Image *Image
	Err   error
}

// String returns the textual representation used in prompts and logs.
func (it Item) String() string {
	switch it.Kind {
	case KindImage:
		if it.Image == nil {
			return "[image]"
		}
		return fmt.Sprintf("[%s image, %d bytes]", it.Image.MIME, len(it.Image.Data))
	case KindError:
		if it.Err == nil {
			return it.Text
		}
		return it.Err.Error()
	default:
		return it.Text
	}
}

// Text builds a text item.
func Text(s string) Item {
	return Item{Kind: KindText, Text: s}
}

// Classify turns an arbitrary captured value into an Item.
func Classify(v any) Item {
	switch x := v.(type) {
	case Item:
		return x
	case string:
		return Text(x)
	case []byte:
		return Text(string(x))
	case Image:
		img := x
		return Item{Kind: KindImage, Image: &img}
	case *Image:
		if x == nil {
			return Item{Kind: KindValue, Text: "<nil>"}
		}
		img := *x
		return Item{Kind: KindImage, Image: &img}
	case Imager:
		img, err := x.Image()
		if err != nil {
			return Item{Kind: KindError, Err: fmt.Errorf("rendering image: %w", err)}
		}
		return Item{Kind: KindImage, Image: &img}
	case image.Image:
		var buf bytes.Buffer
		if err := png.Encode(&buf, x); err != nil {
			return Item{Kind: KindError, Err: fmt.Errorf("encoding png: %w", err)}
		}
		return Item{Kind: KindImage, Image: &Image{MIME: "image/png", Data: buf.Bytes()}}
	case error:
		return Item{Kind: KindError, Text: x.Error(), Err: x}
	case fmt.Stringer:
		return Item{Kind: KindValue, Text: x.String()}
	default:
		return Item{Kind: KindValue, Text: fmt.Sprint(v)}
	}
}
