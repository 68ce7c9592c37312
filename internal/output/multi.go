package output

import (
	"context"
	"errors"
	"io"

	"github.com/dshills/unprompted/internal/kernel"
	"github.com/dshills/unprompted/internal/present"
)

// Multi fans every call out to several surfaces.
type Multi struct {
	surfaces []Surface
	stdout   io.Writer
	stderr   io.Writer
}

// NewMulti creates a surface that writes to all of surfaces in order.
func NewMulti(surfaces ...Surface) *Multi {
	outs := make([]io.Writer, len(surfaces))
	errs := make([]io.Writer, len(surfaces))
	for i, s := range surfaces {
		outs[i] = s.Stdout()
		errs[i] = s.Stderr()
	}
	return &Multi{
		surfaces: surfaces,
		stdout:   io.MultiWriter(outs...),
		stderr:   io.MultiWriter(errs...),
	}
}

func (m *Multi) Stdout() io.Writer { return m.stdout }
func (m *Multi) Stderr() io.Writer { return m.stderr }

func (m *Multi) Display(v any) error {
	return m.each(func(s Surface) error { return s.Display(v) })
}

func (m *Multi) BeginCell(n int, source string) error {
	return m.each(func(s Surface) error { return s.BeginCell(n, source) })
}

func (m *Multi) Render(b present.Block) error {
	return m.each(func(s Surface) error { return s.Render(b) })
}

func (m *Multi) Close() error {
	return m.each(Surface.Close)
}

func (m *Multi) each(fn func(Surface) error) error {
	var errs []error
	for _, s := range m.surfaces {
		if err := fn(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CellHooks announces each cell on s. Register it ahead of the observer so
// the cell header precedes its output.
type CellHooks struct {
	s   Surface
	n   int
	err error
}

var _ kernel.Hooks = (*CellHooks)(nil)

// NewCellHooks returns hooks that call s.BeginCell for every cell.
func NewCellHooks(s Surface) *CellHooks {
	return &CellHooks{s: s}
}

func (h *CellHooks) PreExecute()  {}
func (h *CellHooks) PostExecute() {}

func (h *CellHooks) PreRunCell(info kernel.CellInfo) {
	h.n++
	h.err = h.s.BeginCell(h.n, info.RawCell)
}

// PostRunCell reports a failed BeginCell for the same cell.
func (h *CellHooks) PostRunCell(ctx context.Context, res kernel.ExecutionResult) error {
	err := h.err
	h.err = nil
	return err
}
