// Package kernel is a small notebook host: it loads notebooks, executes their
// cells one at a time and fires lifecycle events around each cell.
//
// For every cell the kernel fires, in order, PreExecute, PreRunCell, runs the
// cell, PostExecute and PostRunCell on every registered [Hooks]. PostExecute
// is fired from a deferred call in reverse registration order, so it runs
// even when the cell fails or panics and nested stream interceptors come
// off in the order they went on. A failed cell's error is written to stderr
// before PostRunCell, which always sees the outputs already restored.
//
// Cells run through a [Runner]. [ShellRunner] executes each cell with sh and
// displays the image files the cell drops into $UNPROMPTED_DISPLAY.
package kernel
