package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/hiroksarker/jina/pkg/manifest"
)

func TestToDOT(t *testing.T) {
	idx, err := manifest.Load(sample)
	if err != nil {
		t.Fatal(err)
	}
	dot := ToDOT(idx, GraphOptions{})

	for _, want := range []string{
		`"tag:core" [shape=ellipse`,
		`"tag:core" -> "numpy";`,
		`"tag:http" -> "uvicorn";`,
		`"tag:devel" -> "aiohttp";`,
		`label="protobuf\n>=3.13.0"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s\n%s", want, dot)
		}
	}

	aiohttp := lineWith(dot, `  "aiohttp" [`)
	if !strings.Contains(aiohttp, "#cc0000") {
		t.Errorf("conflicted package should be highlighted: %s", aiohttp)
	}
	numpy := lineWith(dot, `  "numpy" [`)
	if strings.Contains(numpy, "#cc0000") {
		t.Errorf("numpy should not be highlighted: %s", numpy)
	}
}

func TestToDOTFilter(t *testing.T) {
	idx, err := manifest.Load(sample)
	if err != nil {
		t.Fatal(err)
	}

	dot := ToDOT(idx, GraphOptions{Tags: []string{"core"}})
	if strings.Contains(dot, "tag:http") || strings.Contains(dot, `"uvicorn"`) {
		t.Errorf("filtered graph should only contain core:\n%s", dot)
	}
	if !strings.Contains(dot, `"tag:core" -> "protobuf";`) {
		t.Errorf("filtered graph missing core edge:\n%s", dot)
	}

	if ToDOT(idx, GraphOptions{Tags: []string{"all"}}) != ToDOT(idx, GraphOptions{}) {
		t.Error(`"all" filter should match the unfiltered graph`)
	}
}

func TestToDOTPackageNodes(t *testing.T) {
	idx, err := manifest.Load(sample + "black:\n")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		tags    []string
		present []string
		absent  []string
	}{
		{[]string{"http", "test"}, []string{"uvicorn", "aiohttp"}, []string{"numpy", "protobuf", "black"}},
		{[]string{"devel"}, []string{"aiohttp"}, []string{"numpy", "uvicorn"}},
		{nil, []string{"numpy", "protobuf", "uvicorn", "aiohttp"}, []string{"black"}},
	}
	for _, tt := range tests {
		dot := ToDOT(idx, GraphOptions{Tags: tt.tags})
		for _, name := range tt.present {
			if n := strings.Count(dot, "  \""+name+"\" ["); n != 1 {
				t.Errorf("tags %v: %s declared %d times, want 1\n%s", tt.tags, name, n, dot)
			}
		}
		for _, name := range tt.absent {
			if strings.Contains(dot, "  \""+name+"\" [") {
				t.Errorf("tags %v: %s should have no node\n%s", tt.tags, name, dot)
			}
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.50 200.00" xmlns="x"><g/></svg>`)
	out := normalizeViewBox(in)
	if !bytes.Contains(out, []byte(`viewBox="0 0 100.50 200.00" width="100" height="200"`)) {
		t.Errorf("unexpected root element: %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if !bytes.Equal(normalizeViewBox(plain), plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering in short mode")
	}
	idx, err := manifest.Load(sample)
	if err != nil {
		t.Fatal(err)
	}
	svg, err := RenderSVG(context.Background(), ToDOT(idx, GraphOptions{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("numpy")) {
		t.Errorf("unexpected SVG output: %.200s", svg)
	}
}

func lineWith(s, prefix string) string {
	for _, l := range strings.Split(s, "\n") {
		if strings.HasPrefix(l, prefix) {
			return l
		}
	}
	return ""
}
