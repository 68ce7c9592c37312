// Package logging builds the zap loggers used across unprompted.
//
// Logs go to stderr with the console encoder, so they never mix with cell
// output or report files on stdout. Warnings and errors are always shown;
// verbose mode lowers the level to debug.
package logging
