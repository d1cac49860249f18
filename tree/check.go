package tree

import (
	"fmt"

	"github.com/emilio/nglayoutng/style"
)

// CheckConsistency walks the whole tree and verifies its structural
// invariants, returning the first violation found. It is O(n) and meant
// for tests and debug builds.
func (t *LayoutTree) CheckConsistency() error {
	return t.checkSubtree(t.root)
}

func (t *LayoutTree) checkSubtree(id NodeId) error {
	node, err := t.Get(id)
	if err != nil {
		return fmt.Errorf("node %v: %w", id, err)
	}
	if node.IsLeaf() {
		if !node.firstChild.IsNone() || !node.lastChild.IsNone() {
			return fmt.Errorf("leaf %v has children", id)
		}
		return nil
	}

	if err := t.checkChildLinks(id); err != nil {
		return err
	}
	if err := t.checkChildLevels(id); err != nil {
		return err
	}
	if err := t.checkIBChains(id); err != nil {
		return err
	}
	for child := node.firstChild; !child.IsNone(); child = t.Node(child).NextSibling {
		if err := t.checkSubtree(child); err != nil {
			return err
		}
	}
	return nil
}

// checkChildLinks verifies the sibling list against parent/prev/next links
// and the lastChild shortcut.
func (t *LayoutTree) checkChildLinks(id NodeId) error {
	node := t.Node(id)
	var prev NodeId
	for child := node.firstChild; !child.IsNone(); child = t.Node(child).NextSibling {
		c := t.Node(child)
		if c.Parent != id {
			return fmt.Errorf("child %v of %v has parent %v", child, id, c.Parent)
		}
		if c.PrevSibling != prev {
			return fmt.Errorf("child %v of %v has prev %v, want %v", child, id, c.PrevSibling, prev)
		}
		prev = child
	}
	if node.lastChild != prev {
		return fmt.Errorf("node %v has last child %v, want %v", id, node.lastChild, prev)
	}
	return nil
}

// checkChildLevels verifies child homogeneity: the in-flow children of a
// block container are either all inline-level or all block-level, an
// inline only has inline-level in-flow children, and no two anonymous
// inline wrappers are adjacent.
func (t *LayoutTree) checkChildLevels(id NodeId) error {
	node := t.Node(id)
	sawInline, sawBlock := false, false
	prevWasInlineWrapper := false
	for child := node.firstChild; !child.IsNone(); child = t.Node(child).NextSibling {
		c := t.Node(child)
		isWrapper := c.Style.Pseudo == style.PseudoInlineWrapper
		if isWrapper && prevWasInlineWrapper {
			return fmt.Errorf("adjacent anonymous inline wrappers under %v", id)
		}
		prevWasInlineWrapper = isWrapper
		if !c.IsInFlow() {
			continue
		}
		if c.Style.Display.IsInlineOutside() {
			sawInline = true
		} else {
			sawBlock = true
		}
		if node.IsInline() && !c.Style.Display.IsInlineOutside() {
			return fmt.Errorf("inline %v has block-level child %v", id, child)
		}
	}
	if sawInline && sawBlock {
		return fmt.Errorf("node %v mixes inline-level and block-level children", id)
	}
	return nil
}

// checkIBChains verifies that each split child chains through a block
// wrapper to a continuation, with consistent back links.
func (t *LayoutTree) checkIBChains(id NodeId) error {
	for child := t.Node(id).firstChild; !child.IsNone(); child = t.Node(child).NextSibling {
		c := t.Node(child)
		next := c.NextIBSibling
		if next.IsNone() {
			if c.Style.Pseudo == style.PseudoBlockWrapper {
				return fmt.Errorf("block wrapper %v ends its ib chain", child)
			}
			continue
		}
		if t.Node(next).PrevIBSibling != child {
			return fmt.Errorf("ib chain back link broken at %v", next)
		}
		if c.Style.Pseudo == style.PseudoNone || c.Style.Pseudo == style.PseudoInlineContinuation {
			// A split inline chains to its block wrapper.
			if t.Node(next).Style.Pseudo != style.PseudoBlockWrapper {
				return fmt.Errorf("split inline %v chains to a non-wrapper", child)
			}
		}
		if c.Style.Pseudo == style.PseudoBlockWrapper {
			if t.Node(next).Style.Pseudo != style.PseudoInlineContinuation {
				return fmt.Errorf("block wrapper %v chains to a non-continuation", child)
			}
		}
	}
	return nil
}
