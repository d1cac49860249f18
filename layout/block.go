package layout

import (
	"fmt"

	"github.com/emilio/nglayoutng/fragment"
	"github.com/emilio/nglayoutng/geometry"
	"github.com/emilio/nglayoutng/style"
	"github.com/emilio/nglayoutng/tree"
)

// resolveMargins returns the used margins against the given inline basis.
// Auto margins resolve to zero.
func resolveMargins(st *style.ComputedStyle, basis geometry.Au) geometry.Margin {
	m := st.Margin()
	used := func(v style.LengthPercentageOrAuto) geometry.Au {
		if v.Auto {
			return 0
		}
		return v.Value.Resolve(basis)
	}
	return geometry.Margin{
		BlockStart:  used(m.BlockStart),
		BlockEnd:    used(m.BlockEnd),
		InlineStart: used(m.InlineStart),
		InlineEnd:   used(m.InlineEnd),
	}
}

// resolvePadding returns the used paddings against the given inline basis.
func resolvePadding(st *style.ComputedStyle, basis geometry.Au) geometry.Margin {
	p := st.Padding()
	return geometry.Margin{
		BlockStart:  p.BlockStart.Resolve(basis),
		BlockEnd:    p.BlockEnd.Resolve(basis),
		InlineStart: p.InlineStart.Resolve(basis),
		InlineEnd:   p.InlineEnd.Resolve(basis),
	}
}

// usedBorderBoxSize resolves a sizing value to a border-box length, or
// indefinite for auto and for percentages against an indefinite basis.
func usedBorderBoxSize(v style.SizeValue, basis geometry.MaybeAu, bp geometry.Au, sizing style.BoxSizing) (geometry.MaybeAu, error) {
	if !v.IsValue {
		if v.Keyword == style.SizeAuto {
			return geometry.Indefinite, nil
		}
		return geometry.Indefinite, fmt.Errorf("%w: intrinsic size keywords", ErrUnsupported)
	}
	if v.Value.HasPercentage && basis.IsNone() {
		return geometry.Indefinite, nil
	}
	used := v.Value.Resolve(basis.V())
	if sizing == style.BoxSizingContentBox {
		used += bp
	}
	return geometry.SomeAu(used), nil
}

// resolveInlineSize computes the used border-box inline size. Auto fills
// the available space minus margins.
func resolveInlineSize(st *style.ComputedStyle, space *ConstraintSpace, bp, margins geometry.Au) (geometry.Au, error) {
	basis := geometry.SomeAu(space.PercentageResolutionInline)
	used, err := usedBorderBoxSize(st.Size().Inline, basis, bp, st.BoxSizing)
	if err != nil {
		return 0, err
	}
	inline := used.V()
	if used.IsNone() {
		if space.AvailableSize.Inline.IsNone() {
			return 0, fmt.Errorf("%w: shrink-to-fit inline sizing", ErrUnsupported)
		}
		inline = space.AvailableSize.Inline.V() - margins
		if inline < bp {
			inline = bp
		}
	}
	min, err := usedBorderBoxSize(st.MinSize().Inline, basis, bp, st.BoxSizing)
	if err != nil {
		return 0, err
	}
	max, err := usedBorderBoxSize(st.MaxSize().Inline, basis, bp, st.BoxSizing)
	if err != nil {
		return 0, err
	}
	if !max.IsNone() {
		inline = geometry.MinAu(inline, max.V())
	}
	if !min.IsNone() {
		inline = geometry.MaxAu(inline, min.V())
	}
	return inline, nil
}

// resolveBlockSize computes the used border-box block size from the
// specified size, falling back to the content.
func resolveBlockSize(st *style.ComputedStyle, space *ConstraintSpace, bp geometry.Au, contentBlock geometry.Au, specified geometry.MaybeAu) (geometry.Au, error) {
	block := contentBlock + bp
	if !specified.IsNone() {
		block = specified.V()
	}
	min, err := usedBorderBoxSize(st.MinSize().Block, space.PercentageResolutionBlock, bp, st.BoxSizing)
	if err != nil {
		return 0, err
	}
	max, err := usedBorderBoxSize(st.MaxSize().Block, space.PercentageResolutionBlock, bp, st.BoxSizing)
	if err != nil {
		return 0, err
	}
	if !max.IsNone() {
		block = geometry.MinAu(block, max.V())
	}
	if !min.IsNone() {
		block = geometry.MaxAu(block, min.V())
	}
	return block, nil
}

// layoutBlockContainer lays out one block container and everything under
// it, returning its fragment. The fragment's children carry offsets from
// its border-box origin.
func (c *LayoutContext) layoutBlockContainer(id tree.NodeId, space *ConstraintSpace) (*fragment.Fragment, error) {
	node := c.Tree.Node(id)
	st := node.Style
	if st.WritingMode.IsVertical() != space.ContainingWritingMode.IsVertical() {
		return nil, fmt.Errorf("%w: orthogonal flows", ErrUnsupported)
	}

	basis := space.PercentageResolutionInline
	bp := st.BorderWidths().Add(resolvePadding(st, basis))
	margin := resolveMargins(st, basis)

	inlineSize, err := resolveInlineSize(st, space, bp.InlineStartEnd(), margin.InlineStartEnd())
	if err != nil {
		return nil, err
	}
	contentInline := geometry.MaxAu(inlineSize-bp.InlineStartEnd(), 0)

	specifiedBlock, err := usedBorderBoxSize(st.Size().Block, space.PercentageResolutionBlock, bp.BlockStartEnd(), st.BoxSizing)
	if err != nil {
		return nil, err
	}

	childSpace := ConstraintSpace{
		AvailableSize:              AvailableSize{Inline: geometry.SomeAu(contentInline)},
		PercentageResolutionInline: contentInline,
		ContainingWritingMode:      st.WritingMode,
	}
	if !specifiedBlock.IsNone() {
		contentBlock := geometry.MaxAu(specifiedBlock.V()-bp.BlockStartEnd(), 0)
		childSpace.AvailableSize.Block = geometry.SomeAu(contentBlock)
		childSpace.PercentageResolutionBlock = geometry.SomeAu(contentBlock)
	} else if !space.AvailableSize.Block.IsNone() {
		avail := geometry.MaxAu(space.AvailableSize.Block.V()-bp.BlockStartEnd(), 0)
		childSpace.AvailableSize.Block = geometry.SomeAu(avail)
	}

	var children []fragment.Child
	var contentBlock geometry.Au
	switch {
	case node.FirstChild().IsNone():
		// Nothing to lay out.
	case c.Tree.EstablishesInlineContext(id):
		children, contentBlock, err = c.layoutInlineChildren(id, &childSpace)
		if err != nil {
			return nil, err
		}
		origin := geometry.Point{I: bp.InlineStart, B: bp.BlockStart}
		for i := range children {
			children[i].Offset = children[i].Offset.Add(origin)
		}
	default:
		children, contentBlock, err = c.layoutBlockChildren(id, &childSpace, bp, contentInline)
		if err != nil {
			return nil, err
		}
	}

	blockSize, err := resolveBlockSize(st, space, bp.BlockStartEnd(), contentBlock, specifiedBlock)
	if err != nil {
		return nil, err
	}

	return &fragment.Fragment{
		Size:     geometry.Size{Inline: inlineSize, Block: blockSize},
		Style:    st,
		Kind:     fragment.KindBox,
		Children: children,
	}, nil
}

// layoutBlockChildren stacks the block-level children of id along the
// block axis and returns their fragments plus the content block size.
func (c *LayoutContext) layoutBlockChildren(id tree.NodeId, childSpace *ConstraintSpace, bp geometry.Margin, contentInline geometry.Au) ([]fragment.Child, geometry.Au, error) {
	st := c.Tree.Node(id).Style
	var children []fragment.Child
	blockOffset := bp.BlockStart
	var prevMarginEnd geometry.Au
	first := true
	for _, child := range c.Tree.Children(id) {
		cn := c.Tree.Node(child)
		if !cn.IsInFlow() {
			if cn.Style.IsFloating() {
				return nil, 0, fmt.Errorf("%w: float placement", ErrUnsupported)
			}
			return nil, 0, fmt.Errorf("%w: out-of-flow static positions", ErrUnsupported)
		}
		if cn.IsLeaf() {
			return nil, 0, fmt.Errorf("%w: block-level replaced sizing", ErrUnsupported)
		}
		childMargin := resolveMargins(cn.Style, contentInline)
		if !first && prevMarginEnd != 0 && childMargin.BlockStart != 0 {
			return nil, 0, fmt.Errorf("%w: margin collapsing", ErrUnsupported)
		}
		frag, err := c.layoutBlockContainer(child, childSpace)
		if err != nil {
			return nil, 0, err
		}
		blockOffset += childMargin.BlockStart
		children = append(children, fragment.Child{
			Offset:   geometry.Point{I: bp.InlineStart + childMargin.InlineStart, B: blockOffset},
			Fragment: frag,
		})
		blockOffset += frag.Size.ConvertTo(cn.Style.WritingMode, st.WritingMode).Block
		blockOffset += childMargin.BlockEnd
		prevMarginEnd = childMargin.BlockEnd
		first = false
	}
	return children, blockOffset - bp.BlockStart, nil
}

// layoutInlineChildren lays out the inline formatting context rooted at id
// and returns its line fragments, with offsets from the content origin,
// plus the content block size.
func (c *LayoutContext) layoutInlineChildren(id tree.NodeId, space *ConstraintSpace) ([]fragment.Child, geometry.Au, error) {
	ifc, err := newInlineFormattingContext(c, id)
	if err != nil {
		return nil, 0, err
	}
	return ifc.layout(space)
}
