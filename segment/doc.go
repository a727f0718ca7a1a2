// Package segment clusters a page's raw positioned text elements into
// logical blocks and assigns a reading order.
//
// Detection runs in three passes: elements are grouped into lines by
// vertical-band overlap, the page is split into column bands by vertical
// whitespace gap analysis, and lines are grouped into blocks wherever the
// vertical gap between consecutive lines stays below a multiple of the
// median line height. Reading order is a column-aware sweep: column bands
// left to right, blocks top to bottom within a band, elements left to
// right within a line. Identical positions keep the original stream order.
//
// Every non-degenerate element of the page ends up in exactly one block.
// Degenerate (zero-area) elements are excluded and recorded as anomalies.
package segment
