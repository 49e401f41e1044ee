// Package editor holds the coordinate types of the editor surface that
// textlen reports to: 1-based line/column positions and ranges built from
// them. Nothing here knows about packed lengths; internal/length converts
// to and from these types at the boundary.
package editor
