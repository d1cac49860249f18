// Package htmlbox builds a layout tree from an HTML document: a minimal
// front end mapping elements to boxes through per-tag display defaults
// plus inline style attributes. There is no stylesheet cascade.
package htmlbox

import (
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/emilio/nglayoutng/geometry"
	"github.com/emilio/nglayoutng/style"
	"github.com/emilio/nglayoutng/tree"
)

// defaultDisplay maps tag names to their display default. Tags not listed
// default to inline.
var defaultDisplay = map[string]style.Display{
	"html": style.DisplayBlock, "body": style.DisplayBlock,
	"div": style.DisplayBlock, "p": style.DisplayBlock,
	"h1": style.DisplayBlock, "h2": style.DisplayBlock,
	"h3": style.DisplayBlock, "h4": style.DisplayBlock,
	"h5": style.DisplayBlock, "h6": style.DisplayBlock,
	"ul": style.DisplayBlock, "ol": style.DisplayBlock,
	"li": style.DisplayBlock, "blockquote": style.DisplayBlock,
	"pre": style.DisplayBlock, "hr": style.DisplayBlock,
	"header": style.DisplayBlock, "footer": style.DisplayBlock,
	"main": style.DisplayBlock, "nav": style.DisplayBlock,
	"section": style.DisplayBlock, "article": style.DisplayBlock,
	"aside": style.DisplayBlock, "figure": style.DisplayBlock,

	"head": style.DisplayNone, "title": style.DisplayNone,
	"meta": style.DisplayNone, "link": style.DisplayNone,
	"script": style.DisplayNone, "style": style.DisplayNone,
}

// replacedDefault is the intrinsic size of a replaced element with no
// width or height attributes.
const replacedDefault = 150

// Build parses the document in r and returns its layout tree under a
// viewport of the given size.
func Build(r io.Reader, viewport geometry.PhysicalSize) (*tree.LayoutTree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	b := &builder{tree: tree.NewLayoutTree(viewport)}
	root := b.tree.Root()
	b.insertChildren(doc, root, b.tree.Node(root).Style, tree.NodeId{})
	return b.tree, nil
}

type builder struct {
	tree *tree.LayoutTree
}

// insertChildren builds boxes for n's DOM children inside parent, starting
// after prev, and returns the last box built at this level.
func (b *builder) insertChildren(n *html.Node, parent tree.NodeId, parentStyle *style.ComputedStyle, prev tree.NodeId) tree.NodeId {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		prev = b.insertNode(c, parent, parentStyle, prev)
	}
	return prev
}

func (b *builder) insertNode(c *html.Node, parent tree.NodeId, parentStyle *style.ComputedStyle, prev tree.NodeId) tree.NodeId {
	switch c.Type {
	case html.TextNode:
		// Inter-element white-space never generates a box.
		if strings.TrimSpace(c.Data) == "" && parentStyle.WhiteSpace.CollapsesSpaces() {
			return prev
		}
		st := style.Inherit(parentStyle)
		return b.tree.Insert(tree.NewTextLeaf(st, c.Data), tree.InsertionPoint{Parent: parent, PrevSibling: prev})
	case html.ElementNode:
		st := b.styleFor(c, parentStyle)
		switch st.Display {
		case style.DisplayNone:
			return prev
		case style.DisplayContents:
			// No box of its own; the children join the parent's, styled
			// as if the element were there.
			return b.insertChildren(c, parent, st, prev)
		}
		if c.Data == "img" {
			leaf := tree.NewReplacedLeaf(st, replacedSize(c))
			return b.tree.Insert(leaf, tree.InsertionPoint{Parent: parent, PrevSibling: prev})
		}
		kind := tree.ContainerBlock
		if st.Display.IsInlineInside() {
			kind = tree.ContainerInline
		}
		id := b.tree.Insert(tree.NewContainer(st, kind), tree.InsertionPoint{Parent: parent, PrevSibling: prev})
		b.insertChildren(c, id, st, tree.NodeId{})
		return id
	}
	return prev
}

func (b *builder) styleFor(c *html.Node, parentStyle *style.ComputedStyle) *style.ComputedStyle {
	st := style.Inherit(parentStyle)
	if display, ok := defaultDisplay[c.Data]; ok {
		st.Display = display
	}
	if c.Data == "pre" {
		st.WhiteSpace = style.WhiteSpacePre
	}
	if src := attr(c, "style"); src != "" {
		applyDeclarations(st, src)
	}
	isRoot := c.Parent != nil && c.Parent.Type == html.DocumentNode
	st.Finish(isRoot)
	return st
}

func replacedSize(c *html.Node) geometry.PhysicalSize {
	size := geometry.PhysicalSize{
		Width:  geometry.AuFromPx(replacedDefault),
		Height: geometry.AuFromPx(replacedDefault),
	}
	if w, err := strconv.Atoi(attr(c, "width")); err == nil && w >= 0 {
		size.Width = geometry.AuFromPx(float32(w))
	}
	if h, err := strconv.Atoi(attr(c, "height")); err == nil && h >= 0 {
		size.Height = geometry.AuFromPx(float32(h))
	}
	return size
}

func attr(c *html.Node, name string) string {
	for _, a := range c.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
