package style

import "github.com/emilio/nglayoutng/geometry"

// ComputedStyle is an immutable snapshot of the computed values a box needs
// for flow layout. Physical properties are stored physically and mapped to
// logical sides on demand.
type ComputedStyle struct {
	Pseudo Pseudo

	WritingMode geometry.WritingMode
	Direction   geometry.Direction

	Display Display
	// OriginalDisplay is the display value before blockification.
	OriginalDisplay Display
	Position        Position
	Float           Float
	BoxSizing       BoxSizing
	WhiteSpace      WhiteSpace

	Width, Height       SizeValue
	MinWidth, MinHeight SizeValue
	MaxWidth, MaxHeight SizeValue

	PaddingTop, PaddingRight, PaddingBottom, PaddingLeft LengthPercentage
	MarginTop, MarginRight, MarginBottom, MarginLeft     LengthPercentageOrAuto

	BorderTopWidth, BorderRightWidth   geometry.Au
	BorderBottomWidth, BorderLeftWidth geometry.Au

	FontFamily []string
	FontSize   geometry.Au
	FontWeight int
	FontStyle  FontStyle
}

// LogicalLP holds a length-percentage per logical side.
type LogicalLP struct {
	BlockStart, BlockEnd, InlineStart, InlineEnd LengthPercentage
}

// LogicalLPAuto holds a length-percentage-or-auto per logical side.
type LogicalLPAuto struct {
	BlockStart, BlockEnd, InlineStart, InlineEnd LengthPercentageOrAuto
}

// LogicalSize holds a sizing value per logical axis.
type LogicalSize struct {
	Inline, Block SizeValue
}

// IsFloating reports whether the box is floated.
func (c *ComputedStyle) IsFloating() bool { return c.Float != FloatNone }

// IsOutOfFlow reports whether the box is absolutely positioned.
func (c *ComputedStyle) IsOutOfFlow() bool { return c.Position.IsOutOfFlow() }

// IsAnonymous reports whether the style belongs to a synthesized box.
func (c *ComputedStyle) IsAnonymous() bool { return c.Pseudo.IsAnonymous() }

// Size returns the preferred size per logical axis.
func (c *ComputedStyle) Size() LogicalSize {
	inline, block := geometry.LogicalAxes(c.WritingMode, c.Width, c.Height)
	return LogicalSize{Inline: inline, Block: block}
}

// MinSize returns the minimum size per logical axis.
func (c *ComputedStyle) MinSize() LogicalSize {
	inline, block := geometry.LogicalAxes(c.WritingMode, c.MinWidth, c.MinHeight)
	return LogicalSize{Inline: inline, Block: block}
}

// MaxSize returns the maximum size per logical axis.
func (c *ComputedStyle) MaxSize() LogicalSize {
	inline, block := geometry.LogicalAxes(c.WritingMode, c.MaxWidth, c.MaxHeight)
	return LogicalSize{Inline: inline, Block: block}
}

// Padding returns the padding per logical side.
func (c *ComputedStyle) Padding() LogicalLP {
	bs, be, is, ie := geometry.LogicalSides(c.WritingMode, c.Direction,
		c.PaddingTop, c.PaddingRight, c.PaddingBottom, c.PaddingLeft)
	return LogicalLP{BlockStart: bs, BlockEnd: be, InlineStart: is, InlineEnd: ie}
}

// Margin returns the margin per logical side.
func (c *ComputedStyle) Margin() LogicalLPAuto {
	bs, be, is, ie := geometry.LogicalSides(c.WritingMode, c.Direction,
		c.MarginTop, c.MarginRight, c.MarginBottom, c.MarginLeft)
	return LogicalLPAuto{BlockStart: bs, BlockEnd: be, InlineStart: is, InlineEnd: ie}
}

// BorderWidths returns the border widths per logical side.
func (c *ComputedStyle) BorderWidths() geometry.Margin {
	bs, be, is, ie := geometry.LogicalSides(c.WritingMode, c.Direction,
		c.BorderTopWidth, c.BorderRightWidth, c.BorderBottomWidth, c.BorderLeftWidth)
	return geometry.Margin{BlockStart: bs, BlockEnd: be, InlineStart: is, InlineEnd: ie}
}

// Initial returns the initial style: an in-flow horizontal ltr inline box
// with a 16px sans-serif font.
func Initial() *ComputedStyle {
	return &ComputedStyle{
		Display:         DisplayInline,
		OriginalDisplay: DisplayInline,
		Width:           SizeFromKeyword(SizeAuto),
		Height:          SizeFromKeyword(SizeAuto),
		MinWidth:        SizeFromKeyword(SizeAuto),
		MinHeight:       SizeFromKeyword(SizeAuto),
		MaxWidth:        SizeFromKeyword(SizeAuto),
		MaxHeight:       SizeFromKeyword(SizeAuto),
		MarginTop:       AutoValue(),
		MarginRight:     AutoValue(),
		MarginBottom:    AutoValue(),
		MarginLeft:      AutoValue(),
		FontFamily:      []string{"sans-serif"},
		FontSize:        geometry.AuFromPx(16),
		FontWeight:      400,
	}
}

// New returns the initial style with margins zeroed, the usual base for the
// front end (the initial value of margin is 0, not auto).
func New() *ComputedStyle {
	c := Initial()
	c.MarginTop = LengthOrAuto(Length(0))
	c.MarginRight = LengthOrAuto(Length(0))
	c.MarginBottom = LengthOrAuto(Length(0))
	c.MarginLeft = LengthOrAuto(Length(0))
	return c
}

// Inherit returns a style inheriting the inherited properties of parent and
// resetting the rest.
func Inherit(parent *ComputedStyle) *ComputedStyle {
	c := New()
	c.WritingMode = parent.WritingMode
	c.Direction = parent.Direction
	c.WhiteSpace = parent.WhiteSpace
	c.FontFamily = parent.FontFamily
	c.FontSize = parent.FontSize
	c.FontWeight = parent.FontWeight
	c.FontStyle = parent.FontStyle
	return c
}

// Finish fixes the style up after cascading: floated, out-of-flow and root
// boxes get a block-level display.
func (c *ComputedStyle) Finish(isRoot bool) {
	c.OriginalDisplay = c.Display
	if c.IsFloating() || c.IsOutOfFlow() || isRoot {
		c.Display = c.Display.Blockify()
	}
}

// ForViewport returns the style of the root viewport box.
func ForViewport(size geometry.PhysicalSize) *ComputedStyle {
	c := New()
	c.Pseudo = PseudoViewport
	c.Display = DisplayBlock
	c.OriginalDisplay = DisplayBlock
	c.Width = SizeFromLength(Length(size.Width))
	c.Height = SizeFromLength(Length(size.Height))
	return c
}

// ForInlineWrapper returns the style of an anonymous block wrapping a run
// of inlines inside parent.
func ForInlineWrapper(parent *ComputedStyle) *ComputedStyle {
	c := Inherit(parent)
	c.Pseudo = PseudoInlineWrapper
	c.Display = DisplayBlock
	c.OriginalDisplay = DisplayBlock
	return c
}

// ForBlockWrapper returns the style of the anonymous block hoisting a
// block-level child out of the given inline.
func ForBlockWrapper(inline *ComputedStyle) *ComputedStyle {
	c := Inherit(inline)
	c.Pseudo = PseudoBlockWrapper
	c.Display = DisplayBlock
	c.OriginalDisplay = DisplayBlock
	return c
}

// ForContinuation returns the style of the inline continuation of the given
// split inline. It shares everything with the original but the pseudo tag.
func ForContinuation(inline *ComputedStyle) *ComputedStyle {
	clone := *inline
	clone.Pseudo = PseudoInlineContinuation
	return &clone
}
