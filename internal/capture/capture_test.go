package capture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"io"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterceptor_PassThroughAndFilter(t *testing.T) {
	var orig bytes.Buffer
	var buf Buffer
	w := NewInterceptor(&orig, &buf)

	writes := []string{"hello", "", "\n", "world\n", "\n\n", " "}
	for _, s := range writes {
		n, err := w.Write([]byte(s))
		require.NoError(t, err)
		assert.Equal(t, len(s), n)
	}

	assert.Equal(t, "hello\nworld\n\n\n ", orig.String())

	var got []string
	for _, it := range buf.Items() {
		require.Equal(t, KindText, it.Kind)
		got = append(got, it.Text)
	}
	assert.Equal(t, []string{"hello", "world\n", "\n\n", " "}, got)
	assert.Same(t, &orig, w.Original())
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("closed") }

func TestInterceptor_PropagatesWriteError(t *testing.T) {
	var buf Buffer
	w := NewInterceptor(failingWriter{}, &buf)
	_, err := w.Write([]byte("x"))
	assert.EqualError(t, err, "closed")
	assert.Equal(t, 1, buf.Len())
}

func funcPointer(f DisplayFunc) uintptr {
	return reflect.ValueOf(f).Pointer()
}

func TestStreams_InterceptRestore(t *testing.T) {
	var out, errOut bytes.Buffer
	var shown []any
	display := DisplayFunc(func(vs ...any) error {
		shown = append(shown, vs...)
		return nil
	})
	s := &Streams{Stdout: &out, Stderr: &errOut, Display: display}

	var buf Buffer
	restore := s.Intercept(&buf)
	assert.NotEqual(t, io.Writer(&out), s.Stdout)

	io.WriteString(s.Stdout, "to stdout")
	io.WriteString(s.Stderr, "to stderr")
	require.NoError(t, s.Display(42, "shown"))

	restore()
	restore()

	assert.Equal(t, io.Writer(&out), s.Stdout)
	assert.Equal(t, io.Writer(&errOut), s.Stderr)
	assert.Equal(t, funcPointer(display), funcPointer(s.Display))

	assert.Equal(t, "to stdout", out.String())
	assert.Equal(t, "to stderr", errOut.String())
	assert.Equal(t, []any{42, "shown"}, shown)

	items := buf.Items()
	require.Len(t, items, 4)
	assert.Equal(t, "to stdout", items[0].Text)
	assert.Equal(t, "to stderr", items[1].Text)
	assert.Equal(t, KindValue, items[2].Kind)
	assert.Equal(t, "42", items[2].Text)
	assert.Equal(t, KindText, items[3].Kind)
}

func TestStreams_CaptureRestoresOnError(t *testing.T) {
	var out bytes.Buffer
	s := &Streams{Stdout: &out, Stderr: &out}
	var buf Buffer

	err := s.Capture(&buf, func() error {
		io.WriteString(s.Stdout, "partial")
		return errors.New("cell failed")
	})
	assert.EqualError(t, err, "cell failed")
	assert.Equal(t, io.Writer(&out), s.Stdout)
	assert.Nil(t, s.Display)
	assert.Equal(t, 1, buf.Len())
}

func TestStreams_CaptureRestoresOnPanic(t *testing.T) {
	var out bytes.Buffer
	s := &Streams{Stdout: &out, Stderr: &out}
	var buf Buffer

	assert.Panics(t, func() {
		_ = s.Capture(&buf, func() error {
			panic("boom")
		})
	})
	assert.Equal(t, io.Writer(&out), s.Stdout)
	assert.Equal(t, io.Writer(&out), s.Stderr)
}

func TestStreams_DisplayWithoutOriginal(t *testing.T) {
	s := &Streams{Stdout: io.Discard, Stderr: io.Discard}
	var buf Buffer
	restore := s.Intercept(&buf)
	defer restore()

	require.NoError(t, s.Display("only captured"))
	assert.Equal(t, 1, buf.Len())
}

type chart struct{ err error }

func (c chart) Image() (Image, error) {
	if c.err != nil {
		return Image{}, c.err
	}
	return Image{MIME: "image/png", Data: []byte{1, 2, 3}}, nil
}

type named string

func (n named) String() string { return "named:" + string(n) }

func TestClassify(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(0, 0, 2, 2))
	rgba.Set(0, 0, color.White)

	tests := []struct {
		name string
		in   any
		kind Kind
		text string
	}{
		{"string", "abc", KindText, "abc"},
		{"bytes", []byte("raw"), KindText, "raw"},
		{"int", 7, KindValue, "7"},
		{"stringer", named("x"), KindValue, "named:x"},
		{"error", errors.New("bad"), KindError, "bad"},
		{"image value", Image{MIME: "image/jpeg", Data: []byte{9}}, KindImage, "[image/jpeg image, 1 bytes]"},
		{"imager", chart{}, KindImage, "[image/png image, 3 bytes]"},
		{"imager failure", chart{err: errors.New("no backend")}, KindError, "rendering image: no backend"},
		{"nil image pointer", (*Image)(nil), KindValue, "<nil>"},
		{"item passthrough", Text("kept"), KindText, "kept"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := Classify(tt.in)
			assert.Equal(t, tt.kind, it.Kind)
			assert.Equal(t, tt.text, it.String())
		})
	}

	t.Run("stdlib image is encoded as png", func(t *testing.T) {
		it := Classify(rgba)
		require.Equal(t, KindImage, it.Kind)
		assert.Equal(t, "image/png", it.Image.MIME)
		assert.True(t, bytes.HasPrefix(it.Image.Data, []byte("\x89PNG")))
	})
}

func TestBuffer_ResetAndCopy(t *testing.T) {
	var buf Buffer
	buf.Append("a")
	items := buf.Items()
	items[0].Text = "mutated"
	assert.Equal(t, "a", buf.Items()[0].Text)

	buf.Reset()
	assert.Equal(t, 0, buf.Len())
	assert.Empty(t, buf.Items())
}
