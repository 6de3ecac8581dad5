package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"

	"github.com/goccy/go-graphviz"

	errs "github.com/hiroksarker/jina/pkg/errors"
	"github.com/hiroksarker/jina/pkg/manifest"
)

// GraphOptions configures tag graph rendering.
type GraphOptions struct {
	// Tags limits the graph to these tags. Empty or "all" means every
	// declared tag.
	Tags []string
}

// ToDOT converts the tag → package relation of idx to Graphviz DOT.
// Tags appear in declaration order and packages in manifest order, so the
// output is stable for a given manifest.
func ToDOT(idx *manifest.Index, opts GraphOptions) string {
	tags := idx.Tags()
	if len(opts.Tags) > 0 && !slices.Contains(opts.Tags, errs.ReservedTag) {
		tags = slices.DeleteFunc(tags, func(t string) bool { return !slices.Contains(opts.Tags, t) })
	}

	conflicted := make(map[string]bool)
	for _, c := range idx.Conflicts() {
		conflicted[c.Package] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	for _, t := range tags {
		fmt.Fprintf(&buf, "  %q [shape=ellipse, fillcolor=lightblue, label=%q];\n", tagNode(t), t)
	}

	for _, name := range idx.Names() {
		if slices.ContainsFunc(idx.TagsOf(name), func(t string) bool { return slices.Contains(tags, t) }) {
			fmt.Fprintf(&buf, "  %q [%s];\n", name, pkgAttrs(idx, name, conflicted[name]))
		}
	}

	buf.WriteString("\n")
	for _, t := range tags {
		for _, name := range idx.Packages(t) {
			fmt.Fprintf(&buf, "  %q -> %q;\n", tagNode(t), name)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func tagNode(tag string) string { return "tag:" + tag }

func pkgAttrs(idx *manifest.Index, name string, conflict bool) string {
	label := name
	for _, c := range idx.Constraints(name) {
		if c != "" {
			label += "\n" + c
		}
	}
	attrs := fmt.Sprintf("label=%q", label)
	if conflict {
		attrs += ", fillcolor=\"#f4cccc\", color=\"#cc0000\""
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing starts at the
// origin and scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
