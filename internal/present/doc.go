// Package present turns a critique into what the notebook shows: a one-line
// headline and a collapsible block with the full critique as HTML.
//
// The headline is the neutral glyph unless the critique contains the
// ACTION REQUIRED marker, in which case it is the bullet before the last one.
// Markdown is converted with blackfriday.
package present
