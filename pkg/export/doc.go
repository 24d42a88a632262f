// Package export renders the core engines' results for host consumption:
// an SVG floor plan for a layout solve, and JSON serialization for any
// of the layout, transport, or optim result types.
package export
