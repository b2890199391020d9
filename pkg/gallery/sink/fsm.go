package sink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/itsuki/garden/pkg/gallery"
)

// MaxDiagramImages bounds the state count of [NavigatorDOT].
const MaxDiagramImages = 32

// NavigatorDOT describes the lightbox state machine for a gallery of n images
// in Graphviz DOT. Each focused index is a state alongside "inactive"; edges
// are labeled with the event and the key that triggers it. When focused is a
// valid index that state is highlighted.
func NavigatorDOT(n, focused int) string {
	if n < 0 {
		n = 0
	}
	if n > MaxDiagramImages {
		n = MaxDiagramImages
	}

	var buf bytes.Buffer
	buf.WriteString("digraph lightbox {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	inactive := "inactive"
	if focused == gallery.Inactive || focused >= n {
		fmt.Fprintf(&buf, "  %q [shape=doublecircle, fillcolor=lightpink];\n", inactive)
	} else {
		fmt.Fprintf(&buf, "  %q [shape=doublecircle, fillcolor=lightgrey];\n", inactive)
	}
	for i := 0; i < n; i++ {
		attrs := fmt.Sprintf("label=%q", fmt.Sprintf("%d / %d", i+1, n))
		if i == focused {
			attrs += ", fillcolor=lightpink"
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", state(i), attrs)
	}

	buf.WriteString("\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", inactive, state(i), fmt.Sprintf("%s(%d)", gallery.EventActivate, i))
		fmt.Fprintf(&buf, "  %q -> %q [label=%q, style=dashed];\n", state(i), inactive, gallery.EventDismiss.String()+" / Esc")
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", state(i), state((i+1)%n), gallery.EventNext.String()+" / →")
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", state(i), state((i-1+n)%n), gallery.EventPrevious.String()+" / ←")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func state(i int) string { return fmt.Sprintf("s%d", i) }

// RenderDOT renders a DOT graph to SVG using Graphviz.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
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
	return buf.Bytes(), nil
}
