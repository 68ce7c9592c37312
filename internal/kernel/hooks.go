package kernel

import (
	"context"
)

// CellInfo describes a cell about to run.
type CellInfo struct {
	RawCell      string
	StoreHistory bool
	Silent       bool
	CellID       string
}

// ExecutionResult describes a finished cell.
type ExecutionResult struct {
	ExecutionCount  int
	ErrorBeforeExec error
	ErrorInExec     error
	Result          any
	Info            CellInfo
}

// Success reports whether the cell ran without error.
func (r ExecutionResult) Success() bool {
	return r.ErrorBeforeExec == nil && r.ErrorInExec == nil
}

// Hooks receives the kernel's lifecycle events.
type Hooks interface {
	PreExecute()
	PreRunCell(info CellInfo)
	PostExecute()
	PostRunCell(ctx context.Context, result ExecutionResult) error
}
