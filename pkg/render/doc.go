// Package render provides visualization output for computed layouts.
//
// # Overview
//
// Two renderers consume the engine's output:
//
//   - [sld] draws the positioned single-line diagram as SVG, using the
//     authoritative position map and standard SLD glyphs (busbars as
//     horizontal bars, transformers as twin circles, switches as squares).
//   - [dot] emits the topology as Graphviz DOT for debugging role
//     assignment, with in-process SVG rendering.
//
// Both renderers are deterministic: identical input produces identical
// bytes, so artifacts can be diffed across runs.
package render
