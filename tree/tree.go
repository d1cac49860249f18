// Package tree implements the layout tree: an arena-backed box tree kept in
// sync with the CSS box generation rules as callers insert and detach boxes.
//
// Callers describe where a box would go in element-tree terms; insertion
// rewrites that position into the legal one, synthesizing anonymous boxes
// and splitting inlines as required. See builder.go.
package tree

import (
	"github.com/emilio/nglayoutng/arena"
	"github.com/emilio/nglayoutng/geometry"
	"github.com/emilio/nglayoutng/style"
)

// NodeId identifies a node of a LayoutTree. The zero NodeId is "none".
type NodeId = arena.Handle

// LeafKind discriminates the leaf node variants.
type LeafKind uint8

const (
	// LeafText is a run of text.
	LeafText LeafKind = iota
	// LeafReplaced is a replaced element with an intrinsic size.
	LeafReplaced
)

// ContainerKind discriminates the container node variants.
type ContainerKind uint8

const (
	// ContainerBlock is a block container box.
	ContainerBlock ContainerKind = iota
	// ContainerInline is an inline box.
	ContainerInline
	// ContainerViewport is the root of the tree.
	ContainerViewport
)

// LayoutNode is one box of the layout tree. Siblings and children are
// linked by NodeId so that nodes can move without copying subtrees.
type LayoutNode struct {
	Style *style.ComputedStyle

	Parent      NodeId
	PrevSibling NodeId
	NextSibling NodeId

	// PrevIBSibling and NextIBSibling chain the pieces of a split inline:
	// the inline, the block wrapper hoisted out of it, and its
	// continuation, in document order.
	PrevIBSibling NodeId
	NextIBSibling NodeId

	firstChild NodeId
	lastChild  NodeId

	isContainer bool
	leaf        LeafKind
	container   ContainerKind

	// Text is the content of a LeafText node.
	Text string
	// IntrinsicSize is the fallback size of a LeafReplaced node.
	IntrinsicSize geometry.PhysicalSize
}

// NewTextLeaf returns a detached text node.
func NewTextLeaf(s *style.ComputedStyle, text string) LayoutNode {
	return LayoutNode{Style: s, leaf: LeafText, Text: text}
}

// NewReplacedLeaf returns a detached replaced node.
func NewReplacedLeaf(s *style.ComputedStyle, size geometry.PhysicalSize) LayoutNode {
	return LayoutNode{Style: s, leaf: LeafReplaced, IntrinsicSize: size}
}

// NewContainer returns a detached container node.
func NewContainer(s *style.ComputedStyle, kind ContainerKind) LayoutNode {
	return LayoutNode{Style: s, isContainer: true, container: kind}
}

// IsContainer reports whether the node can have children.
func (n *LayoutNode) IsContainer() bool { return n.isContainer }

// IsLeaf reports whether the node is a text or replaced leaf.
func (n *LayoutNode) IsLeaf() bool { return !n.isContainer }

// LeafKind returns the leaf variant. Only valid on leaves.
func (n *LayoutNode) LeafKind() LeafKind { return n.leaf }

// ContainerKind returns the container variant. Only valid on containers.
func (n *LayoutNode) ContainerKind() ContainerKind { return n.container }

// FirstChild returns the first child, or none.
func (n *LayoutNode) FirstChild() NodeId { return n.firstChild }

// LastChild returns the last child, or none.
func (n *LayoutNode) LastChild() NodeId { return n.lastChild }

// IsInline reports whether the node is an inline box.
func (n *LayoutNode) IsInline() bool {
	return n.isContainer && n.container == ContainerInline
}

// IsBlockContainer reports whether the node is a block container (including
// the viewport).
func (n *LayoutNode) IsBlockContainer() bool {
	return n.isContainer && (n.container == ContainerBlock || n.container == ContainerViewport)
}

// IsAnonymous reports whether the box was synthesized by the builder.
func (n *LayoutNode) IsAnonymous() bool { return n.Style.IsAnonymous() }

// IsInFlow reports whether the box participates in its parent's flow.
func (n *LayoutNode) IsInFlow() bool {
	return !n.Style.IsOutOfFlow() && !n.Style.IsFloating()
}

// InsertionPoint addresses a position among the children of Parent: right
// after PrevSibling, or first if PrevSibling is none.
type InsertionPoint struct {
	Parent      NodeId
	PrevSibling NodeId
}

// LayoutTree owns the nodes of one layout tree. The root is always a
// viewport box sized by the caller.
type LayoutTree struct {
	nodes arena.Arena[LayoutNode]
	root  NodeId
}

// NewLayoutTree returns a tree holding only a viewport root of the given
// size.
func NewLayoutTree(viewport geometry.PhysicalSize) *LayoutTree {
	t := &LayoutTree{}
	t.root = t.alloc(NewContainer(style.ForViewport(viewport), ContainerViewport))
	return t
}

// Root returns the viewport node.
func (t *LayoutTree) Root() NodeId { return t.root }

// Get returns the node of id, or arena.ErrStaleHandle if it was destroyed.
func (t *LayoutTree) Get(id NodeId) (*LayoutNode, error) {
	return t.nodes.Get(id)
}

// Node returns the node of id, panicking if it was destroyed. Use it for
// ids whose liveness is a structural invariant.
func (t *LayoutTree) Node(id NodeId) *LayoutNode {
	return t.nodes.Must(id)
}

// Len returns the number of live nodes, anonymous boxes included.
func (t *LayoutTree) Len() int { return t.nodes.Len() }

// Children returns the children of id in order.
func (t *LayoutTree) Children(id NodeId) []NodeId {
	var children []NodeId
	for child := t.Node(id).firstChild; !child.IsNone(); child = t.Node(child).NextSibling {
		children = append(children, child)
	}
	return children
}

// EstablishesInlineContext reports whether the in-flow children of the
// given block container are inline-level.
func (t *LayoutTree) EstablishesInlineContext(id NodeId) bool {
	return t.establishesIFC(id)
}

// Insert places node at the position described by ip, rewritten to a legal
// one per the box generation rules, and returns the new node's id.
func (t *LayoutTree) Insert(node LayoutNode, ip InsertionPoint) NodeId {
	if !node.Parent.IsNone() || !node.PrevSibling.IsNone() || !node.NextSibling.IsNone() {
		panic("inserting an attached node")
	}
	legal := t.insertionPointFor(&node, ip)
	id := t.alloc(node)
	t.insertUnchecked(id, legal)
	return id
}

// InsertDetached reattaches a previously detached node at ip, with the
// same legalization as Insert.
func (t *LayoutTree) InsertDetached(id NodeId, ip InsertionPoint) {
	node := t.Node(id)
	if !node.Parent.IsNone() {
		panic("inserting an attached node")
	}
	legal := t.insertionPointFor(node, ip)
	t.insertUnchecked(id, legal)
}

// Detach removes id from the tree, keeping its subtree alive, and returns
// an insertion point that restores its logical position. Anonymous boxes
// left behind are cleaned up, so the returned point may address a different
// parent than the one id was under.
func (t *LayoutTree) Detach(id NodeId) InsertionPoint {
	parent := t.Node(id).Parent
	ip := t.detachUnchecked(id)
	return t.cleanupAfterDetach(parent, ip)
}

// Destroy detaches id if needed and frees its whole subtree.
func (t *LayoutTree) Destroy(id NodeId) {
	if id == t.root {
		panic("destroying the viewport")
	}
	parent := t.Node(id).Parent
	t.destroyUnchecked(id)
	if !parent.IsNone() {
		t.cleanupAfterDetach(parent, InsertionPoint{})
	}
}

func (t *LayoutTree) alloc(node LayoutNode) NodeId {
	if node.Style == nil {
		panic("layout node without a style")
	}
	return t.nodes.Allocate(node)
}

// insertUnchecked links a detached node at ip, with no legality rewriting.
func (t *LayoutTree) insertUnchecked(id NodeId, ip InsertionPoint) {
	node := t.Node(id)
	if !node.Parent.IsNone() {
		panic("node already attached")
	}
	parent := t.Node(ip.Parent)
	if !parent.isContainer {
		panic("inserting under a leaf")
	}

	var next NodeId
	if ip.PrevSibling.IsNone() {
		next = parent.firstChild
		parent.firstChild = id
	} else {
		prev := t.Node(ip.PrevSibling)
		if prev.Parent != ip.Parent {
			panic("insertion point previous sibling under a different parent")
		}
		next = prev.NextSibling
		prev.NextSibling = id
	}
	if next.IsNone() {
		parent.lastChild = id
	} else {
		t.Node(next).PrevSibling = id
	}
	node.Parent = ip.Parent
	node.PrevSibling = ip.PrevSibling
	node.NextSibling = next
}

// detachUnchecked unlinks id from its parent, with no anonymous-box
// cleanup, and returns the position it was removed from.
func (t *LayoutTree) detachUnchecked(id NodeId) InsertionPoint {
	node := t.Node(id)
	parent, prev, next := node.Parent, node.PrevSibling, node.NextSibling
	if parent.IsNone() {
		panic("detaching a parentless node")
	}
	if prev.IsNone() {
		t.Node(parent).firstChild = next
	} else {
		t.Node(prev).NextSibling = next
	}
	if next.IsNone() {
		t.Node(parent).lastChild = prev
	} else {
		t.Node(next).PrevSibling = prev
	}
	node.Parent, node.PrevSibling, node.NextSibling = NodeId{}, NodeId{}, NodeId{}
	return InsertionPoint{Parent: parent, PrevSibling: prev}
}

// destroyUnchecked frees id and its subtree, with no cleanup of the
// surrounding anonymous boxes.
func (t *LayoutTree) destroyUnchecked(id NodeId) {
	if !t.Node(id).Parent.IsNone() {
		t.detachUnchecked(id)
	}
	child := t.Node(id).firstChild
	for !child.IsNone() {
		next := t.Node(child).NextSibling
		t.Node(child).Parent = NodeId{}
		t.Node(child).PrevSibling = NodeId{}
		t.Node(child).NextSibling = NodeId{}
		t.destroyUnchecked(child)
		child = next
	}
	t.unlinkIBChain(id)
	t.nodes.Deallocate(id)
}

// moveChildrenTo reattaches the children of from that follow after (all of
// them if after is none) to the end of to, preserving order.
func (t *LayoutTree) moveChildrenTo(from, to, after NodeId) {
	var child NodeId
	if after.IsNone() {
		child = t.Node(from).firstChild
	} else {
		child = t.Node(after).NextSibling
	}
	for !child.IsNone() {
		next := t.Node(child).NextSibling
		t.detachUnchecked(child)
		t.insertUnchecked(child, InsertionPoint{Parent: to, PrevSibling: t.Node(to).lastChild})
		child = next
	}
}

// linkIBChain splices wrapper and continuation right after inline in its
// ib-sibling chain.
func (t *LayoutTree) linkIBChain(inline, wrapper, continuation NodeId) {
	oldNext := t.Node(inline).NextIBSibling
	t.Node(inline).NextIBSibling = wrapper
	t.Node(wrapper).PrevIBSibling = inline
	t.Node(wrapper).NextIBSibling = continuation
	t.Node(continuation).PrevIBSibling = wrapper
	t.Node(continuation).NextIBSibling = oldNext
	if !oldNext.IsNone() {
		t.Node(oldNext).PrevIBSibling = continuation
	}
}

// unlinkIBChain removes id from its ib-sibling chain, if any.
func (t *LayoutTree) unlinkIBChain(id NodeId) {
	node := t.Node(id)
	prev, next := node.PrevIBSibling, node.NextIBSibling
	if !prev.IsNone() {
		t.Node(prev).NextIBSibling = next
	}
	if !next.IsNone() {
		t.Node(next).PrevIBSibling = prev
	}
	node.PrevIBSibling, node.NextIBSibling = NodeId{}, NodeId{}
}
