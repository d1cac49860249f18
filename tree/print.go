package tree

import (
	"fmt"
	"io"
	"strings"
)

// PrintTo writes a box-drawing rendition of the tree, for debugging and
// golden tests.
func (t *LayoutTree) PrintTo(w io.Writer) {
	t.printNode(w, t.root, "", "")
}

func (t *LayoutTree) printNode(w io.Writer, id NodeId, firstPrefix, restPrefix string) {
	fmt.Fprintf(w, "%s%s\n", firstPrefix, t.describe(id))
	children := t.Children(id)
	for i, child := range children {
		if i == len(children)-1 {
			t.printNode(w, child, restPrefix+"└─ ", restPrefix+"   ")
		} else {
			t.printNode(w, child, restPrefix+"├─ ", restPrefix+"│  ")
		}
	}
}

func (t *LayoutTree) describe(id NodeId) string {
	node := t.Node(id)
	var b strings.Builder
	if node.IsLeaf() {
		switch node.leaf {
		case LeafText:
			fmt.Fprintf(&b, "Text %q", node.Text)
		case LeafReplaced:
			fmt.Fprintf(&b, "Replaced %v×%v", node.IntrinsicSize.Width, node.IntrinsicSize.Height)
		}
	} else {
		switch node.container {
		case ContainerViewport:
			b.WriteString("Viewport")
		case ContainerBlock:
			b.WriteString("Block")
		case ContainerInline:
			b.WriteString("Inline")
		}
	}
	if pseudo := node.Style.Pseudo.String(); pseudo != "" {
		b.WriteString(" " + pseudo)
	}
	return b.String()
}
