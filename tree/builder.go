package tree

import "github.com/emilio/nglayoutng/style"

// This file implements box generation: rewriting a requested insertion
// point into a legal one, synthesizing anonymous wrappers so that every
// block container only has block-level or only inline-level in-flow
// children, and splitting inlines that get block-level children.

// insertionPointFor rewrites ip into a legal position for node, mutating
// the tree (wrappers, splits) as needed.
func (t *LayoutTree) insertionPointFor(node *LayoutNode, ip InsertionPoint) InsertionPoint {
	parent := t.Node(ip.Parent)
	if !parent.isContainer {
		panic("inserting under a leaf")
	}
	if redirected, ok := t.redirectAcrossSplit(node, ip); ok {
		return t.insertionPointFor(node, redirected)
	}
	// Out-of-flow boxes don't participate in inline/block homogeneity;
	// they only need a structurally valid position.
	if node.Style.IsOutOfFlow() {
		return t.legalizeInsertionPoint(ip)
	}
	if parent.IsInline() {
		return t.inlineInsideInsertion(node, ip)
	}
	return t.blockInsideInsertion(node, ip)
}

// legalizeInsertionPoint walks ip.PrevSibling up through anonymous
// wrappers until it is a direct child of ip.Parent. The given position must
// be reachable that way, anything else is a caller bug.
func (t *LayoutTree) legalizeInsertionPoint(ip InsertionPoint) InsertionPoint {
	if ip.PrevSibling.IsNone() {
		return ip
	}
	prev := ip.PrevSibling
	for {
		parent := t.Node(prev).Parent
		if parent == ip.Parent {
			break
		}
		if parent.IsNone() {
			panic("insertion point prev sibling not under the insertion parent")
		}
		pseudo := t.Node(parent).Style.Pseudo
		if pseudo != style.PseudoInlineWrapper && pseudo != style.PseudoBlockWrapper {
			panic("insertion point prev sibling buried in a non-anonymous box")
		}
		prev = parent
	}
	return InsertionPoint{Parent: ip.Parent, PrevSibling: prev}
}

// redirectAcrossSplit rewrites an insertion point whose prev sibling was
// hoisted out of ip.Parent by an earlier split: callers keep addressing
// the original inline, but the sibling now lives further down its
// ib-sibling chain. Block-level content joins the chain piece holding the
// sibling; inline-level content following a hoisted block opens the
// continuation after its wrapper.
func (t *LayoutTree) redirectAcrossSplit(node *LayoutNode, ip InsertionPoint) (InsertionPoint, bool) {
	prev := ip.PrevSibling
	if prev.IsNone() || t.Node(ip.Parent).NextIBSibling.IsNone() {
		return InsertionPoint{}, false
	}
	for {
		parent := t.Node(prev).Parent
		if parent.IsNone() || parent == ip.Parent {
			return InsertionPoint{}, false
		}
		if t.onIBChain(ip.Parent, parent) {
			if t.Node(parent).Style.Pseudo == style.PseudoBlockWrapper &&
				!node.Style.Display.IsBlockOutside() {
				return InsertionPoint{Parent: t.Node(parent).NextIBSibling}, true
			}
			return InsertionPoint{Parent: parent, PrevSibling: prev}, true
		}
		prev = parent
	}
}

// onIBChain reports whether id is a piece of the ib-sibling chain after
// from.
func (t *LayoutTree) onIBChain(from, id NodeId) bool {
	for link := t.Node(from).NextIBSibling; !link.IsNone(); link = t.Node(link).NextIBSibling {
		if link == id {
			return true
		}
	}
	return false
}

// establishesIFC reports whether the in-flow children of a block container
// are inline-level. It assumes homogeneity, checking the first in-flow
// child only.
func (t *LayoutTree) establishesIFC(id NodeId) bool {
	for child := t.Node(id).firstChild; !child.IsNone(); child = t.Node(child).NextSibling {
		if !t.Node(child).IsInFlow() {
			continue
		}
		return t.Node(child).Style.Display.IsInlineOutside()
	}
	return false
}

// blockInsideInsertion handles insertion into a block container.
func (t *LayoutTree) blockInsideInsertion(node *LayoutNode, ip InsertionPoint) InsertionPoint {
	parent := t.Node(ip.Parent)
	if !parent.IsBlockContainer() {
		panic("block insertion into a non block container")
	}
	hasChildren := !parent.firstChild.IsNone()
	ifc := hasChildren && t.establishesIFC(ip.Parent)
	// An empty container takes anything, and a matching level needs no
	// wrapper.
	if !hasChildren || ifc == node.Style.Display.IsInlineOutside() {
		return t.legalizeInsertionPoint(ip)
	}
	if ifc {
		// A block-level box landing among inline content: wrap the
		// surrounding inlines in anonymous blocks.
		return t.wrapInlinesInAnonBlocks(t.legalizeInsertionPoint(ip))
	}
	// An inline-level box landing among blocks: reuse a neighboring
	// anonymous wrapper if there is one.
	if legal, ok := t.findWrapperForInlineInsertion(ip); ok {
		return legal
	}
	return t.createWrapperForInlineInsertion(t.legalizeInsertionPoint(ip))
}

// wrapInlinesInAnonBlocks splits the inline children of ip.Parent at ip
// into up to two anonymous blocks, leaving a block-legal gap at the
// returned point.
func (t *LayoutTree) wrapInlinesInAnonBlocks(ip InsertionPoint) InsertionPoint {
	parentStyle := t.Node(ip.Parent).Style

	var hasTrailing bool
	if ip.PrevSibling.IsNone() {
		hasTrailing = !t.Node(ip.Parent).firstChild.IsNone()
	} else {
		hasTrailing = !t.Node(ip.PrevSibling).NextSibling.IsNone()
	}
	var trailing NodeId
	if hasTrailing {
		trailing = t.alloc(NewContainer(style.ForInlineWrapper(parentStyle), ContainerBlock))
		t.moveChildrenTo(ip.Parent, trailing, ip.PrevSibling)
	}

	if ip.PrevSibling.IsNone() {
		// Everything went to the trailing wrapper; the new box leads.
		if hasTrailing {
			t.insertUnchecked(trailing, InsertionPoint{Parent: ip.Parent})
		}
		return InsertionPoint{Parent: ip.Parent}
	}

	heading := t.alloc(NewContainer(style.ForInlineWrapper(parentStyle), ContainerBlock))
	t.moveChildrenTo(ip.Parent, heading, NodeId{})
	t.insertUnchecked(heading, InsertionPoint{Parent: ip.Parent})
	if hasTrailing {
		t.insertUnchecked(trailing, InsertionPoint{Parent: ip.Parent, PrevSibling: heading})
	}
	return InsertionPoint{Parent: ip.Parent, PrevSibling: heading}
}

// findWrapperForInlineInsertion looks for an existing anonymous inline
// wrapper the insertion can join: the one holding ip.PrevSibling, or the
// one right after the legalized position.
func (t *LayoutTree) findWrapperForInlineInsertion(ip InsertionPoint) (InsertionPoint, bool) {
	if !ip.PrevSibling.IsNone() {
		parent := t.Node(ip.PrevSibling).Parent
		if t.isInlineWrapper(parent) {
			if t.Node(parent).Parent != ip.Parent {
				panic("inline wrapper under an unexpected parent")
			}
			return InsertionPoint{Parent: parent, PrevSibling: ip.PrevSibling}, true
		}
	}
	legal := t.legalizeInsertionPoint(ip)
	var next NodeId
	if legal.PrevSibling.IsNone() {
		next = t.Node(legal.Parent).firstChild
	} else {
		next = t.Node(legal.PrevSibling).NextSibling
	}
	if !next.IsNone() && t.isInlineWrapper(next) {
		return InsertionPoint{Parent: next}, true
	}
	return InsertionPoint{}, false
}

// createWrapperForInlineInsertion inserts a fresh anonymous inline wrapper
// at the (already legalized) position and points inside it.
func (t *LayoutTree) createWrapperForInlineInsertion(legal InsertionPoint) InsertionPoint {
	parentStyle := t.Node(legal.Parent).Style
	wrapper := t.alloc(NewContainer(style.ForInlineWrapper(parentStyle), ContainerBlock))
	t.insertUnchecked(wrapper, legal)
	return InsertionPoint{Parent: wrapper}
}

func (t *LayoutTree) isInlineWrapper(id NodeId) bool {
	if id.IsNone() {
		return false
	}
	return t.Node(id).Style.Pseudo == style.PseudoInlineWrapper
}

// inlineInsideInsertion handles insertion into an inline box.
func (t *LayoutTree) inlineInsideInsertion(node *LayoutNode, ip InsertionPoint) InsertionPoint {
	if !t.Node(ip.Parent).IsInline() {
		panic("inline insertion into a non inline box")
	}
	if !node.Style.Display.IsBlockOutside() {
		return t.legalizeInsertionPoint(ip)
	}
	return t.splitInlineForBlock(ip)
}

// splitInlineForBlock performs the {inline, wrapper, continuation} split of
// ip.Parent: children after ip move to a fresh continuation, and a block
// wrapper is hoisted out right after the inline. Inserting the wrapper
// recurses through every enclosing inline, so a deeply nested block splits
// each level once. Returns the position for the block, inside the
// innermost wrapper.
func (t *LayoutTree) splitInlineForBlock(ip InsertionPoint) InsertionPoint {
	inline := ip.Parent
	inlineStyle := t.Node(inline).Style

	continuation := t.alloc(NewContainer(style.ForContinuation(inlineStyle), ContainerInline))
	t.moveChildrenTo(inline, continuation, ip.PrevSibling)

	wrapper := t.alloc(NewContainer(style.ForBlockWrapper(inlineStyle), ContainerBlock))
	wrapperNode := t.Node(wrapper)
	outer := InsertionPoint{Parent: t.Node(inline).Parent, PrevSibling: inline}
	wrapperIP := t.insertionPointFor(wrapperNode, outer)
	t.insertUnchecked(wrapper, wrapperIP)

	contNode := t.Node(continuation)
	contIP := t.insertionPointFor(contNode, InsertionPoint{
		Parent:      t.Node(wrapper).Parent,
		PrevSibling: wrapper,
	})
	t.insertUnchecked(continuation, contIP)

	t.linkIBChain(inline, wrapper, continuation)
	return InsertionPoint{Parent: wrapper}
}

// cleanupAfterDetach collapses anonymous boxes a detach left behind:
// emptied wrappers are removed, a split whose wrapper emptied is merged
// back, and adjacent inline wrappers fuse. Returns ip, or a replacement
// when the box it addressed went away.
func (t *LayoutTree) cleanupAfterDetach(parent NodeId, ip InsertionPoint) InsertionPoint {
	p, err := t.Get(parent)
	if err != nil || !p.IsAnonymous() || !p.firstChild.IsNone() {
		return ip
	}
	switch p.Style.Pseudo {
	case style.PseudoInlineWrapper:
		outerParent, outerPrev := p.Parent, p.PrevSibling
		next := p.NextSibling
		t.destroyUnchecked(parent)
		if ip.Parent == parent {
			ip = InsertionPoint{Parent: outerParent, PrevSibling: outerPrev}
		}
		t.mergeAdjacentInlineWrappers(outerPrev, next)
		// The enclosing box may have emptied in turn.
		return t.cleanupAfterDetach(outerParent, ip)

	case style.PseudoBlockWrapper:
		return t.unsplitInline(parent, ip)

	case style.PseudoInlineContinuation:
		// An emptied continuation stays; it still marks the split until
		// the wrapper goes away.
		return ip
	}
	return ip
}

// mergeAdjacentInlineWrappers fuses two inline wrappers that became
// neighbors, restoring the invariant that wrappers are separated by
// block-level boxes.
func (t *LayoutTree) mergeAdjacentInlineWrappers(prev, next NodeId) {
	if !t.isInlineWrapper(prev) || !t.isInlineWrapper(next) {
		return
	}
	if t.Node(prev).NextSibling != next {
		return
	}
	t.moveChildrenTo(next, prev, NodeId{})
	t.destroyUnchecked(next)
}

// unsplitInline undoes an {inline, wrapper, continuation} split whose
// wrapper emptied: the continuation's children move back to the inline,
// the chain is spliced, and both anonymous boxes are destroyed.
func (t *LayoutTree) unsplitInline(wrapper NodeId, ip InsertionPoint) InsertionPoint {
	w := t.Node(wrapper)
	inline, continuation := w.PrevIBSibling, w.NextIBSibling
	if inline.IsNone() || continuation.IsNone() {
		panic("block wrapper outside of an ib chain")
	}
	replacement := InsertionPoint{Parent: inline, PrevSibling: t.Node(inline).lastChild}

	t.moveChildrenTo(continuation, inline, NodeId{})
	contParent := t.Node(continuation).Parent
	t.destroyUnchecked(continuation)
	wrapperParent := t.Node(wrapper).Parent
	outerPrev := t.Node(wrapper).PrevSibling
	wrapperNext := t.Node(wrapper).NextSibling
	t.destroyUnchecked(wrapper)

	t.mergeAdjacentInlineWrappers(outerPrev, wrapperNext)
	if contParent != wrapperParent {
		t.cleanupAfterDetach(contParent, InsertionPoint{})
	}

	if ip.Parent == wrapper || ip.Parent == continuation {
		ip = replacement
	}
	return t.cleanupAfterDetach(wrapperParent, ip)
}
