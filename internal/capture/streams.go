package capture

import (
	"io"
)

// DisplayFunc renders rich objects on the host's output surface.
type DisplayFunc func(vs ...any) error

// Interceptor tees writes into a Buffer and on to the original writer.
type Interceptor struct {
	orig io.Writer
	buf  *Buffer
}

// NewInterceptor wraps orig so that every write is also recorded in buf.
func NewInterceptor(orig io.Writer, buf *Buffer) *Interceptor {
	return &Interceptor{orig: orig, buf: buf}
}

// Write records p unless it is empty or a bare newline, then forwards it
// unmodified.
func (i *Interceptor) Write(p []byte) (int, error) {
	if s := string(p); s != "" && s != "\n" {
		i.buf.Append(s)
	}
	return i.orig.Write(p)
}

// Original returns the wrapped writer.
func (i *Interceptor) Original() io.Writer {
	return i.orig
}

// Streams is the set of outputs a cell writes through.
type Streams struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Display DisplayFunc
}

// Intercept installs interceptors on s that append into buf. The returned
// function puts the original stdout, stderr and display function back; it is
// safe to call more than once.
func (s *Streams) Intercept(buf *Buffer) (restore func()) {
	orig := *s

	s.Stdout = NewInterceptor(orig.Stdout, buf)
	s.Stderr = NewInterceptor(orig.Stderr, buf)
	s.Display = func(vs ...any) error {
		for _, v := range vs {
			buf.Append(v)
		}
		if orig.Display == nil {
			return nil
		}
		return orig.Display(vs...)
	}

	restored := false
	return func() {
		if restored {
			return
		}
		restored = true
		*s = orig
	}
}

// Capture runs fn with interceptors installed and restores s when fn
// returns or panics.
func (s *Streams) Capture(buf *Buffer, fn func() error) error {
	restore := s.Intercept(buf)
	defer restore()
	return fn()
}
