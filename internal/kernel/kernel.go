package kernel

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/unprompted/internal/capture"
	"go.uber.org/zap"
)

// Kernel runs cells one at a time and fires lifecycle events around each.
type Kernel struct {
	streams *capture.Streams
	runner  Runner
	hooks   []Hooks
	count   int
	logger  *zap.Logger
}

// New creates a Kernel whose cells write through streams.
func New(streams *capture.Streams, runner Runner, logger *zap.Logger) *Kernel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Kernel{streams: streams, runner: runner, logger: logger}
}

// Register adds h to the hooks fired for every cell. Hooks fire in
// registration order except PostExecute, which unwinds in reverse.
func (k *Kernel) Register(h Hooks) {
	k.hooks = append(k.hooks, h)
}

// Streams returns the streams cells write through.
func (k *Kernel) Streams() *capture.Streams {
	return k.streams
}

// ExecutionCount returns the number of cells run so far.
func (k *Kernel) ExecutionCount() int {
	return k.count
}

// RunCell executes one cell. Hooks fire in the order PreExecute, PreRunCell,
// (run), PostExecute, PostRunCell. PostExecute fires in reverse registration
// order, even when the runner panics. A cell error is written to stderr
// before PostRunCell. A non-nil result is displayed after PostExecute, so observers
// see it through PostRunCell rather than as a captured display. The
// returned error joins the PostRunCell failures; a failing cell is reported
// through the result, not the error.
func (k *Kernel) RunCell(ctx context.Context, cell Cell) (ExecutionResult, error) {
	k.count++
	info := CellInfo{RawCell: cell.Source, StoreHistory: true, CellID: cell.ID}
	res := ExecutionResult{ExecutionCount: k.count, Info: info}

	for _, h := range k.hooks {
		h.PreExecute()
	}
	for _, h := range k.hooks {
		h.PreRunCell(info)
	}

	k.execute(ctx, cell, &res)
	if res.Result != nil && k.streams.Display != nil {
		if err := k.streams.Display(res.Result); err != nil {
			k.logger.Warn("displaying cell result failed", zap.String("cell", cell.ID), zap.Error(err))
		}
	}

	for _, cellErr := range []error{res.ErrorBeforeExec, res.ErrorInExec} {
		if cellErr != nil {
			k.logger.Debug("cell failed", zap.String("cell", cell.ID), zap.Error(cellErr))
			fmt.Fprintln(k.streams.Stderr, cellErr)
		}
	}

	var errs []error
	for _, h := range k.hooks {
		if err := h.PostRunCell(ctx, res); err != nil {
			errs = append(errs, err)
		}
	}
	return res, errors.Join(errs...)
}

func (k *Kernel) execute(ctx context.Context, cell Cell, res *ExecutionResult) {
	defer func() {
		if r := recover(); r != nil {
			res.Result = nil
			res.ErrorInExec = fmt.Errorf("cell %s panicked: %v", cell.ID, r)
		}
		// Reverse order so nested stream interceptors unwind.
		for i := len(k.hooks) - 1; i >= 0; i-- {
			k.hooks[i].PostExecute()
		}
	}()

	if strings.TrimSpace(cell.Source) == "" {
		res.ErrorBeforeExec = ErrEmptyCell
		return
	}
	res.Result, res.ErrorInExec = k.runner.Run(ctx, cell, k.streams)
}

// Run executes every cell of nb in order. A failing cell does not stop the
// notebook; all errors are returned joined once the last cell has run.
func (k *Kernel) Run(ctx context.Context, nb *Notebook) error {
	var errs []error
	for _, cell := range nb.Cells {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		res, err := k.RunCell(ctx, cell)
		for _, cellErr := range []error{res.ErrorBeforeExec, res.ErrorInExec} {
			if cellErr != nil {
				errs = append(errs, cellErr)
			}
		}
		if err != nil {
			k.logger.Warn("post-run hook failed", zap.String("cell", cell.ID), zap.Error(err))
			fmt.Fprintf(k.streams.Stderr, "unprompted: %v\n", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
