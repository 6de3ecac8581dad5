// Package render turns resolution results and tag indices into output.
//
// # Install Lists
//
// [Write] encodes a resolved install list in one of the [Formats]:
//
//   - text: one pip specifier per line
//   - requirements: a requirements.txt with a header naming the tags
//   - json, yaml, toml: a [Document] with the tags, packages and warnings
//
// # Tag Graphs
//
// [ToDOT] draws the tag → package relation of an index as a Graphviz
// digraph: tags are ellipses, packages are boxes labelled with their
// specifier, and packages with conflicting constraints are shaded.
// [RenderSVG] lays the DOT out with Graphviz.
//
//	dot := render.ToDOT(idx, render.GraphOptions{Tags: []string{"core"}})
//	svg, err := render.RenderSVG(ctx, dot)
package render
