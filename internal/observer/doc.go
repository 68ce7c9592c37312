// Package observer critiques every cell a kernel runs.
//
// An Observer registers as kernel hooks. Before a cell runs it tees the
// kernel's stdout, stderr and display function into a fresh capture buffer;
// after the cell it puts the originals back, adds the cell's result and
// error to the buffer, and asks a Critic to review the cell. The critique is
// handed to a Renderer as a collapsible block.
//
// The first cell of a session only gets an introductory banner. Cells whose
// source starts with a trusted prefix are never critiqued.
package observer
