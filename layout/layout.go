// Package layout implements flow layout over a tree.LayoutTree: block
// formatting contexts stack block-level fragments, inline formatting
// contexts break shaped text into line fragments.
//
// The output is an immutable fragment tree. Features outside the supported
// flow subset fail with an error wrapping ErrUnsupported rather than
// producing wrong geometry.
package layout

import (
	"errors"

	"github.com/emilio/nglayoutng/fragment"
	"github.com/emilio/nglayoutng/geometry"
	"github.com/emilio/nglayoutng/logger"
	"github.com/emilio/nglayoutng/text"
	"github.com/emilio/nglayoutng/tree"
)

// ErrUnsupported is wrapped by every error reporting a box that needs a
// layout feature outside the supported subset.
var ErrUnsupported = errors.New("layout: unsupported feature")

// AvailableSize is the space offered to a box, per logical axis. Either
// axis may be indefinite.
type AvailableSize struct {
	Inline, Block geometry.MaybeAu
}

// ConstraintSpace carries the inputs a box's layout depends on besides its
// own style and children.
type ConstraintSpace struct {
	AvailableSize AvailableSize

	// PercentageResolutionInline is the containing block's content-box
	// inline size, the basis for percentage inline sizes, margins and
	// paddings.
	PercentageResolutionInline geometry.Au
	// PercentageResolutionBlock is the basis for percentage block sizes.
	// When indefinite, percentage block sizes behave as auto.
	PercentageResolutionBlock geometry.MaybeAu

	// ContainingWritingMode is the writing mode the available size is
	// expressed in.
	ContainingWritingMode geometry.WritingMode
}

// LayoutContext ties a layout tree to the shaper used for its text.
type LayoutContext struct {
	Tree   *tree.LayoutTree
	Shaper text.Shaper
}

// NewLayoutContext returns a context for t. A nil shaper defaults to
// text.FixedShaper, which needs no fonts.
func NewLayoutContext(t *tree.LayoutTree, shaper text.Shaper) *LayoutContext {
	if shaper == nil {
		shaper = text.FixedShaper{}
	}
	return &LayoutContext{Tree: t, Shaper: shaper}
}

// Layout lays out the whole tree and returns the viewport's fragment.
func (c *LayoutContext) Layout() (*fragment.Fragment, error) {
	logger.ProgressLogger.Printf("laying out %d boxes", c.Tree.Len())

	root := c.Tree.Root()
	st := c.Tree.Node(root).Style
	size := st.Size()
	// The viewport style always carries definite lengths.
	viewport := geometry.Size{
		Inline: size.Inline.Value.Resolve(0),
		Block:  size.Block.Value.Resolve(0),
	}
	space := ConstraintSpace{
		AvailableSize: AvailableSize{
			Inline: geometry.SomeAu(viewport.Inline),
			Block:  geometry.SomeAu(viewport.Block),
		},
		PercentageResolutionInline: viewport.Inline,
		PercentageResolutionBlock:  geometry.SomeAu(viewport.Block),
		ContainingWritingMode:      st.WritingMode,
	}
	return c.layoutBlockContainer(root, &space)
}
