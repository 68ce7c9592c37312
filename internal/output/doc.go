// Package output shows a notebook session: cell sources, their outputs and
// the feedback on them.
//
// Every destination is a [Surface]. Five formats are supported:
//   - text: styled terminal output (default)
//   - html: standalone HTML report with inline images
//   - json: one JSON object per feedback block
//   - markdown: transcript with collapsible feedback sections
//   - sarif: SARIF v2.1.0 for upload to code-scanning tools
//
// Use [Open] to build the surface for a list of formats, [Streams] to bind
// it to a kernel, and [NewCellHooks] to have it announce each cell.
package output
