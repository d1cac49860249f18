package geometry

// WritingMode is the computed writing-mode of a box, which fixes the
// orientation of the inline and block axes.
type WritingMode uint8

const (
	HorizontalTB WritingMode = iota
	VerticalRL
	VerticalLR
	SidewaysRL
	SidewaysLR
)

// IsVertical reports whether the inline axis runs vertically.
func (w WritingMode) IsVertical() bool { return w != HorizontalTB }

func (w WritingMode) String() string {
	switch w {
	case HorizontalTB:
		return "horizontal-tb"
	case VerticalRL:
		return "vertical-rl"
	case VerticalLR:
		return "vertical-lr"
	case SidewaysRL:
		return "sideways-rl"
	case SidewaysLR:
		return "sideways-lr"
	}
	return "<unknown writing mode>"
}

// Direction is the computed inline base direction.
type Direction uint8

const (
	LTR Direction = iota
	RTL
)

func (d Direction) String() string {
	if d == RTL {
		return "rtl"
	}
	return "ltr"
}

// Size is a logical size: an extent on the inline axis and one on the block
// axis, relative to a writing mode kept by the owner.
type Size struct {
	Inline, Block Au
}

// ToPhysical maps the logical size to physical width and height under wm.
func (s Size) ToPhysical(wm WritingMode) PhysicalSize {
	if wm.IsVertical() {
		return PhysicalSize{Width: s.Block, Height: s.Inline}
	}
	return PhysicalSize{Width: s.Inline, Height: s.Block}
}

// ConvertTo reinterprets the size from one writing mode to another, swapping
// axes when their orientation differs.
func (s Size) ConvertTo(from, to WritingMode) Size {
	if from.IsVertical() == to.IsVertical() {
		return s
	}
	return Size{Inline: s.Block, Block: s.Inline}
}

// Point is a logical offset from a containing origin.
type Point struct {
	I, B Au
}

// Add returns the point translated by o.
func (p Point) Add(o Point) Point {
	return Point{I: p.I + o.I, B: p.B + o.B}
}

// Margin holds one value per logical side. It is used for margins, borders
// and paddings alike.
type Margin struct {
	BlockStart, BlockEnd, InlineStart, InlineEnd Au
}

// InlineStartEnd returns the sum of the two inline-axis sides.
func (m Margin) InlineStartEnd() Au { return m.InlineStart + m.InlineEnd }

// BlockStartEnd returns the sum of the two block-axis sides.
func (m Margin) BlockStartEnd() Au { return m.BlockStart + m.BlockEnd }

// Add returns the side-wise sum of the two sets of sides.
func (m Margin) Add(o Margin) Margin {
	return Margin{
		BlockStart:  m.BlockStart + o.BlockStart,
		BlockEnd:    m.BlockEnd + o.BlockEnd,
		InlineStart: m.InlineStart + o.InlineStart,
		InlineEnd:   m.InlineEnd + o.InlineEnd,
	}
}

// PhysicalSize is a size in physical width/height terms.
type PhysicalSize struct {
	Width, Height Au
}

// ToLogical maps the physical size to logical axes under wm.
func (s PhysicalSize) ToLogical(wm WritingMode) Size {
	if wm.IsVertical() {
		return Size{Inline: s.Height, Block: s.Width}
	}
	return Size{Inline: s.Width, Block: s.Height}
}

// LogicalSides maps physical top/right/bottom/left values to logical sides
// under the given writing mode and direction.
func LogicalSides[T any](wm WritingMode, dir Direction, top, right, bottom, left T) (blockStart, blockEnd, inlineStart, inlineEnd T) {
	switch wm {
	case HorizontalTB:
		blockStart, blockEnd = top, bottom
		if dir == RTL {
			inlineStart, inlineEnd = right, left
		} else {
			inlineStart, inlineEnd = left, right
		}
	case VerticalRL, SidewaysRL:
		blockStart, blockEnd = right, left
		if dir == RTL {
			inlineStart, inlineEnd = bottom, top
		} else {
			inlineStart, inlineEnd = top, bottom
		}
	case VerticalLR, SidewaysLR:
		blockStart, blockEnd = left, right
		if dir == RTL {
			inlineStart, inlineEnd = bottom, top
		} else {
			inlineStart, inlineEnd = top, bottom
		}
	}
	return blockStart, blockEnd, inlineStart, inlineEnd
}

// LogicalAxes maps physical width/height values to inline/block values under
// the given writing mode.
func LogicalAxes[T any](wm WritingMode, width, height T) (inline, block T) {
	if wm.IsVertical() {
		return height, width
	}
	return width, height
}
