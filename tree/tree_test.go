package tree

import (
	"testing"

	"github.com/emilio/nglayoutng/geometry"
	"github.com/emilio/nglayoutng/style"
	tu "github.com/emilio/nglayoutng/utils/testutils"
)

func newTestTree() *LayoutTree {
	return NewLayoutTree(geometry.PhysicalSize{
		Width:  geometry.AuFromPx(800),
		Height: geometry.AuFromPx(600),
	})
}

func blockStyle() *style.ComputedStyle {
	s := style.New()
	s.Display = style.DisplayBlock
	s.OriginalDisplay = style.DisplayBlock
	return s
}

func inlineStyle() *style.ComputedStyle {
	return style.New()
}

func absStyle() *style.ComputedStyle {
	s := blockStyle()
	s.Position = style.PositionAbsolute
	return s
}

func (t *LayoutTree) mustConsistent(test *testing.T) {
	test.Helper()
	if err := t.CheckConsistency(); err != nil {
		test.Fatal(err)
	}
}

func pseudoOf(t *LayoutTree, id NodeId) style.Pseudo {
	return t.Node(id).Style.Pseudo
}

func TestInlineSiblingsNeedNoWrapper(t *testing.T) {
	tree := newTestTree()
	a := tree.Insert(NewContainer(blockStyle(), ContainerBlock), InsertionPoint{Parent: tree.Root()})
	b := tree.Insert(NewContainer(inlineStyle(), ContainerInline), InsertionPoint{Parent: a})
	c := tree.Insert(NewContainer(inlineStyle(), ContainerInline), InsertionPoint{Parent: a, PrevSibling: b})

	tu.AssertEqual(t, tree.Children(a), []NodeId{b, c}, "children")
	tu.AssertEqual(t, tree.Node(b).IsAnonymous(), false, "b")
	tu.AssertEqual(t, tree.Node(c).IsAnonymous(), false, "c")
	tree.mustConsistent(t)
}

func TestBlockAfterInlineWrapsIt(t *testing.T) {
	tree := newTestTree()
	a := tree.Insert(NewContainer(blockStyle(), ContainerBlock), InsertionPoint{Parent: tree.Root()})
	b := tree.Insert(NewContainer(inlineStyle(), ContainerInline), InsertionPoint{Parent: a})
	d := tree.Insert(NewContainer(blockStyle(), ContainerBlock), InsertionPoint{Parent: a, PrevSibling: b})

	children := tree.Children(a)
	tu.AssertEqual(t, len(children), 2, "children of a")
	wrapper := children[0]
	tu.AssertEqual(t, pseudoOf(tree, wrapper), style.PseudoInlineWrapper, "wrapper")
	tu.AssertEqual(t, tree.Children(wrapper), []NodeId{b}, "wrapped inline")
	tu.AssertEqual(t, children[1], d, "block")
	tree.mustConsistent(t)
}

func TestBlockBeforeInlineWrapsIt(t *testing.T) {
	tree := newTestTree()
	a := tree.Insert(NewContainer(blockStyle(), ContainerBlock), InsertionPoint{Parent: tree.Root()})
	b := tree.Insert(NewContainer(inlineStyle(), ContainerInline), InsertionPoint{Parent: a})
	d := tree.Insert(NewContainer(blockStyle(), ContainerBlock), InsertionPoint{Parent: a})

	children := tree.Children(a)
	tu.AssertEqual(t, len(children), 2, "children of a")
	tu.AssertEqual(t, children[0], d, "block leads")
	tu.AssertEqual(t, pseudoOf(tree, children[1]), style.PseudoInlineWrapper, "wrapper")
	tu.AssertEqual(t, tree.Children(children[1]), []NodeId{b}, "wrapped inline")
	tree.mustConsistent(t)
}

func TestWrapperIsReused(t *testing.T) {
	tree := newTestTree()
	a := tree.Insert(NewContainer(blockStyle(), ContainerBlock), InsertionPoint{Parent: tree.Root()})
	b := tree.Insert(NewContainer(inlineStyle(), ContainerInline), InsertionPoint{Parent: a})
	tree.Insert(NewContainer(blockStyle(), ContainerBlock), InsertionPoint{Parent: a, PrevSibling: b})

	// The insertion point names b, which now lives inside the wrapper; the
	// wrapper is joined, not duplicated.
	x := tree.Insert(NewContainer(inlineStyle(), ContainerInline), InsertionPoint{Parent: a, PrevSibling: b})
	wrapper := tree.Children(a)[0]
	tu.AssertEqual(t, tree.Children(wrapper), []NodeId{b, x}, "reused wrapper")

	wrapperCount := 0
	for _, child := range tree.Children(a) {
		if pseudoOf(tree, child) == style.PseudoInlineWrapper {
			wrapperCount++
		}
	}
	tu.AssertEqual(t, wrapperCount, 1, "wrapper count")
	tree.mustConsistent(t)
}

func TestIBSplit(t *testing.T) {
	tree := newTestTree()
	a := tree.Insert(NewContainer(blockStyle(), ContainerBlock), InsertionPoint{Parent: tree.Root()})
	b := tree.Insert(NewContainer(inlineStyle(), ContainerInline), InsertionPoint{Parent: a})
	x := tree.Insert(NewTextLeaf(inlineStyle(), "x"), InsertionPoint{Parent: b})
	tree.Insert(NewTextLeaf(inlineStyle(), "y"), InsertionPoint{Parent: b, PrevSibling: x})

	e := tree.Insert(NewContainer(blockStyle(), ContainerBlock), InsertionPoint{Parent: b, PrevSibling: x})

	children := tree.Children(a)
	tu.AssertEqual(t, len(children), 3, "children of a")
	heading, wrapper, trailing := children[0], children[1], children[2]
	tu.AssertEqual(t, pseudoOf(tree, heading), style.PseudoInlineWrapper, "heading")
	tu.AssertEqual(t, pseudoOf(tree, wrapper), style.PseudoBlockWrapper, "wrapper")
	tu.AssertEqual(t, pseudoOf(tree, trailing), style.PseudoInlineWrapper, "trailing")

	tu.AssertEqual(t, tree.Children(heading), []NodeId{b}, "inline stays first")
	tu.AssertEqual(t, tree.Children(wrapper), []NodeId{e}, "block hoisted")

	cont := tree.Children(trailing)[0]
	tu.AssertEqual(t, pseudoOf(tree, cont), style.PseudoInlineContinuation, "continuation")
	tu.AssertEqual(t, tree.Node(tree.Children(cont)[0]).Text, "y", "continuation content")
	tu.AssertEqual(t, tree.Children(b), []NodeId{x}, "inline keeps the head")

	// The split pieces are chained in document order.
	tu.AssertEqual(t, tree.Node(b).NextIBSibling, wrapper, "inline chains to wrapper")
	tu.AssertEqual(t, tree.Node(wrapper).NextIBSibling, cont, "wrapper chains to continuation")
	tu.AssertEqual(t, tree.Node(cont).PrevIBSibling, wrapper, "back link")
	tree.mustConsistent(t)
}

func TestIBSplitMultiLevel(t *testing.T) {
	tree := newTestTree()
	a := tree.Insert(NewContainer(blockStyle(), ContainerBlock), InsertionPoint{Parent: tree.Root()})
	i1 := tree.Insert(NewContainer(inlineStyle(), ContainerInline), InsertionPoint{Parent: a})
	i2 := tree.Insert(NewContainer(inlineStyle(), ContainerInline), InsertionPoint{Parent: i1})
	x := tree.Insert(NewTextLeaf(inlineStyle(), "x"), InsertionPoint{Parent: i2})

	e := tree.Insert(NewContainer(blockStyle(), ContainerBlock), InsertionPoint{Parent: i2, PrevSibling: x})

	// Each enclosing inline splits once; the block ends up in the
	// innermost wrapper.
	children := tree.Children(a)
	tu.AssertEqual(t, len(children), 3, "children of a")
	heading, w1 := children[0], children[1]
	tu.AssertEqual(t, pseudoOf(tree, heading), style.PseudoInlineWrapper, "heading")
	tu.AssertEqual(t, tree.Children(heading), []NodeId{i1}, "outer inline")
	tu.AssertEqual(t, pseudoOf(tree, w1), style.PseudoBlockWrapper, "outer wrapper")

	w2 := tree.Children(w1)[0]
	tu.AssertEqual(t, pseudoOf(tree, w2), style.PseudoBlockWrapper, "inner wrapper")
	tu.AssertEqual(t, tree.Children(w2), []NodeId{e}, "block")

	tu.AssertEqual(t, tree.Node(i1).NextIBSibling, w1, "outer chain")
	tu.AssertEqual(t, tree.Node(i2).NextIBSibling, w2, "inner chain")
	tu.AssertEqual(t, pseudoOf(tree, tree.Node(w1).NextIBSibling), style.PseudoInlineContinuation, "outer continuation")
	tu.AssertEqual(t, pseudoOf(tree, tree.Node(w2).NextIBSibling), style.PseudoInlineContinuation, "inner continuation")
	tree.mustConsistent(t)
}

func TestInsertAfterHoistedBlockGoesToContinuation(t *testing.T) {
	tree := newTestTree()
	a := tree.Insert(NewContainer(blockStyle(), ContainerBlock), InsertionPoint{Parent: tree.Root()})
	b := tree.Insert(NewContainer(inlineStyle(), ContainerInline), InsertionPoint{Parent: a})
	x := tree.Insert(NewTextLeaf(inlineStyle(), "x"), InsertionPoint{Parent: b})
	e := tree.Insert(NewContainer(blockStyle(), ContainerBlock), InsertionPoint{Parent: b, PrevSibling: x})

	// Content following the hoisted block keeps addressing b; it lands in
	// the continuation, not in b itself.
	y := tree.Insert(NewTextLeaf(inlineStyle(), "y"), InsertionPoint{Parent: b, PrevSibling: e})
	cont := tree.Node(tree.Node(b).NextIBSibling).NextIBSibling
	tu.AssertEqual(t, pseudoOf(tree, cont), style.PseudoInlineContinuation, "continuation")
	tu.AssertEqual(t, tree.Children(cont), []NodeId{y}, "continuation content")

	// A later sibling named relative to y follows it there.
	z := tree.Insert(NewTextLeaf(inlineStyle(), "z"), InsertionPoint{Parent: b, PrevSibling: y})
	tu.AssertEqual(t, tree.Children(cont), []NodeId{y, z}, "document order")
	tu.AssertEqual(t, tree.Children(b), []NodeId{x}, "head untouched")
	tree.mustConsistent(t)
}

func TestSecondBlockJoinsTheWrapper(t *testing.T) {
	tree := newTestTree()
	a := tree.Insert(NewContainer(blockStyle(), ContainerBlock), InsertionPoint{Parent: tree.Root()})
	b := tree.Insert(NewContainer(inlineStyle(), ContainerInline), InsertionPoint{Parent: a})
	x := tree.Insert(NewTextLeaf(inlineStyle(), "x"), InsertionPoint{Parent: b})
	e := tree.Insert(NewContainer(blockStyle(), ContainerBlock), InsertionPoint{Parent: b, PrevSibling: x})

	// A second block right after the first shares its wrapper instead of
	// splitting again.
	f := tree.Insert(NewContainer(blockStyle(), ContainerBlock), InsertionPoint{Parent: b, PrevSibling: e})
	wrapper := tree.Node(b).NextIBSibling
	tu.AssertEqual(t, pseudoOf(tree, wrapper), style.PseudoBlockWrapper, "wrapper")
	tu.AssertEqual(t, tree.Children(wrapper), []NodeId{e, f}, "blocks share the wrapper")
	tree.mustConsistent(t)
}

func TestOutOfFlowBoxesAreExempt(t *testing.T) {
	tree := newTestTree()
	a := tree.Insert(NewContainer(blockStyle(), ContainerBlock), InsertionPoint{Parent: tree.Root()})
	b := tree.Insert(NewContainer(inlineStyle(), ContainerInline), InsertionPoint{Parent: a})
	p := tree.Insert(NewContainer(absStyle(), ContainerBlock), InsertionPoint{Parent: a, PrevSibling: b})

	// No wrapper: the abs-pos block sits right next to the inline.
	tu.AssertEqual(t, tree.Children(a), []NodeId{b, p}, "children")
	tree.mustConsistent(t)
}

func TestDetachReinsertRestores(t *testing.T) {
	tree := newTestTree()
	a := tree.Insert(NewContainer(blockStyle(), ContainerBlock), InsertionPoint{Parent: tree.Root()})
	b := tree.Insert(NewContainer(blockStyle(), ContainerBlock), InsertionPoint{Parent: a})
	c := tree.Insert(NewContainer(blockStyle(), ContainerBlock), InsertionPoint{Parent: a, PrevSibling: b})
	d := tree.Insert(NewContainer(blockStyle(), ContainerBlock), InsertionPoint{Parent: a, PrevSibling: c})

	ip := tree.Detach(c)
	tu.AssertEqual(t, tree.Children(a), []NodeId{b, d}, "after detach")
	tu.AssertEqual(t, ip, InsertionPoint{Parent: a, PrevSibling: b}, "returned point")

	tree.InsertDetached(c, ip)
	tu.AssertEqual(t, tree.Children(a), []NodeId{b, c, d}, "restored")
	tree.mustConsistent(t)
}

func TestDetachCleansUpSplit(t *testing.T) {
	tree := newTestTree()
	a := tree.Insert(NewContainer(blockStyle(), ContainerBlock), InsertionPoint{Parent: tree.Root()})
	b := tree.Insert(NewContainer(inlineStyle(), ContainerInline), InsertionPoint{Parent: a})
	x := tree.Insert(NewTextLeaf(inlineStyle(), "x"), InsertionPoint{Parent: b})
	tree.Insert(NewTextLeaf(inlineStyle(), "y"), InsertionPoint{Parent: b, PrevSibling: x})
	e := tree.Insert(NewContainer(blockStyle(), ContainerBlock), InsertionPoint{Parent: b, PrevSibling: x})

	before := tree.Len()
	ip := tree.Detach(e)

	// The split is undone: wrapper and continuation are gone, the inline
	// has its children back.
	children := tree.Children(a)
	tu.AssertEqual(t, len(children), 1, "children of a")
	tu.AssertEqual(t, tree.Children(children[0]), []NodeId{b}, "inline back in one piece")
	tu.AssertEqual(t, tree.Node(b).NextIBSibling.IsNone(), true, "chain cleared")
	texts := tree.Children(b)
	tu.AssertEqual(t, len(texts), 2, "inline children")
	tu.AssertEqual(t, tree.Node(texts[0]).Text, "x", "head text")
	tu.AssertEqual(t, tree.Node(texts[1]).Text, "y", "merged text")
	tu.AssertEqual(t, tree.Len() < before, true, "anonymous boxes freed")
	tree.mustConsistent(t)

	// Reinserting at the returned point splits again.
	tree.InsertDetached(e, ip)
	tu.AssertEqual(t, len(tree.Children(a)), 3, "split again")
	tree.mustConsistent(t)
}

func TestDetachLastInlineCleansWrapper(t *testing.T) {
	tree := newTestTree()
	a := tree.Insert(NewContainer(blockStyle(), ContainerBlock), InsertionPoint{Parent: tree.Root()})
	b := tree.Insert(NewContainer(inlineStyle(), ContainerInline), InsertionPoint{Parent: a})
	d := tree.Insert(NewContainer(blockStyle(), ContainerBlock), InsertionPoint{Parent: a, PrevSibling: b})

	tree.Detach(b)
	tu.AssertEqual(t, tree.Children(a), []NodeId{d}, "empty wrapper removed")
	tree.mustConsistent(t)
}

func TestDestroyFreesSubtree(t *testing.T) {
	tree := newTestTree()
	a := tree.Insert(NewContainer(blockStyle(), ContainerBlock), InsertionPoint{Parent: tree.Root()})
	b := tree.Insert(NewContainer(inlineStyle(), ContainerInline), InsertionPoint{Parent: a})
	tree.Insert(NewTextLeaf(inlineStyle(), "x"), InsertionPoint{Parent: b})

	tu.AssertEqual(t, tree.Len(), 4, "before destroy")
	tree.Destroy(b)
	tu.AssertEqual(t, tree.Len(), 2, "after destroy")
	_, err := tree.Get(b)
	tu.AssertEqual(t, err != nil, true, "stale id")
	tree.mustConsistent(t)
}

func TestCheckerCatchesMixedChildren(t *testing.T) {
	tree := newTestTree()
	a := tree.Insert(NewContainer(blockStyle(), ContainerBlock), InsertionPoint{Parent: tree.Root()})
	// Bypass legalization to build an illegal sibling list.
	inline := tree.alloc(NewContainer(inlineStyle(), ContainerInline))
	tree.insertUnchecked(inline, InsertionPoint{Parent: a})
	block := tree.alloc(NewContainer(blockStyle(), ContainerBlock))
	tree.insertUnchecked(block, InsertionPoint{Parent: a, PrevSibling: inline})

	tu.AssertEqual(t, tree.CheckConsistency() != nil, true, "mixed children rejected")
}
