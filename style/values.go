// Package style defines the computed style snapshot consumed by the box
// builder and the layout algorithms, and the small value types it is made
// of. Styles are plain data; how they are computed is up to the caller.
package style

import (
	"github.com/emilio/nglayoutng/geometry"
	"github.com/emilio/nglayoutng/utils"
)

// Display is the computed display value. Only flow layout values are
// representable.
type Display uint8

const (
	DisplayInline Display = iota
	DisplayBlock
	DisplayFlowRoot
	DisplayInlineBlock
	DisplayNone
	DisplayContents
)

// IsBlockOutside reports whether the box is block-level in its parent.
func (d Display) IsBlockOutside() bool {
	return d == DisplayBlock || d == DisplayFlowRoot
}

// IsInlineOutside reports whether the box is inline-level in its parent.
func (d Display) IsInlineOutside() bool {
	return d == DisplayInline || d == DisplayInlineBlock
}

// IsInlineInside reports whether the box lays its children out as inline
// content of the surrounding inline formatting context.
func (d Display) IsInlineInside() bool { return d == DisplayInline }

// Blockify returns the block-level counterpart of d, used when a box is
// floated, out of flow, or the root.
func (d Display) Blockify() Display {
	switch d {
	case DisplayInline:
		return DisplayBlock
	case DisplayInlineBlock:
		return DisplayFlowRoot
	}
	return d
}

func (d Display) String() string {
	switch d {
	case DisplayInline:
		return "inline"
	case DisplayBlock:
		return "block"
	case DisplayFlowRoot:
		return "flow-root"
	case DisplayInlineBlock:
		return "inline-block"
	case DisplayNone:
		return "none"
	case DisplayContents:
		return "contents"
	}
	return "<unknown display>"
}

// Position is the computed position value.
type Position uint8

const (
	PositionStatic Position = iota
	PositionRelative
	PositionSticky
	PositionAbsolute
	PositionFixed
)

// IsOutOfFlow reports whether the value takes the box out of the flow.
func (p Position) IsOutOfFlow() bool {
	return p == PositionAbsolute || p == PositionFixed
}

// Float is the computed float value.
type Float uint8

const (
	FloatNone Float = iota
	FloatLeft
	FloatRight
)

// WhiteSpace is the computed white-space value.
type WhiteSpace uint8

const (
	WhiteSpaceNormal WhiteSpace = iota
	WhiteSpaceNowrap
	WhiteSpacePre
	WhiteSpacePreWrap
	WhiteSpacePreLine
)

// CollapsesSpaces reports whether runs of spaces and tabs collapse.
func (w WhiteSpace) CollapsesSpaces() bool {
	switch w {
	case WhiteSpaceNormal, WhiteSpaceNowrap, WhiteSpacePreLine:
		return true
	}
	return false
}

// CollapsesNewlines reports whether segment breaks collapse like spaces.
func (w WhiteSpace) CollapsesNewlines() bool {
	return w == WhiteSpaceNormal || w == WhiteSpaceNowrap
}

// Wraps reports whether soft wrap opportunities may break lines.
func (w WhiteSpace) Wraps() bool {
	switch w {
	case WhiteSpaceNormal, WhiteSpacePreWrap, WhiteSpacePreLine:
		return true
	}
	return false
}

// BoxSizing is the computed box-sizing value.
type BoxSizing uint8

const (
	BoxSizingContentBox BoxSizing = iota
	BoxSizingBorderBox
)

// FontStyle is the computed font-style value.
type FontStyle uint8

const (
	FontStyleNormal FontStyle = iota
	FontStyleItalic
	FontStyleOblique
)

// Pseudo tags a style as belonging to a pseudo-element or to one of the
// anonymous boxes the builder synthesizes.
type Pseudo uint8

const (
	// PseudoNone marks a style owned by an actual element.
	PseudoNone Pseudo = iota
	PseudoBefore
	PseudoAfter
	// PseudoViewport is the style of the root viewport box.
	PseudoViewport
	// PseudoInlineWrapper is the anonymous block wrapping a run of inline
	// boxes that has block-level siblings.
	PseudoInlineWrapper
	// PseudoBlockWrapper is the anonymous block hoisting a block-level box
	// out of an inline, in an {inline, wrapper, continuation} split.
	PseudoBlockWrapper
	// PseudoInlineContinuation is the anonymous inline holding the content
	// that followed the split point of an inline.
	PseudoInlineContinuation
)

// IsAnonymous reports whether the style belongs to a box with no element of
// its own.
func (p Pseudo) IsAnonymous() bool {
	switch p {
	case PseudoViewport, PseudoInlineWrapper, PseudoBlockWrapper, PseudoInlineContinuation:
		return true
	}
	return false
}

func (p Pseudo) String() string {
	switch p {
	case PseudoNone:
		return ""
	case PseudoBefore:
		return "::before"
	case PseudoAfter:
		return "::after"
	case PseudoViewport:
		return "(viewport)"
	case PseudoInlineWrapper:
		return "(anonymous inline wrapper)"
	case PseudoBlockWrapper:
		return "(anonymous block wrapper)"
	case PseudoInlineContinuation:
		return "(inline continuation)"
	}
	return "<unknown pseudo>"
}

// LengthPercentage is a fixed length plus an optional percentage, resolved
// against a basis provided at layout time.
type LengthPercentage struct {
	Fixed         geometry.Au
	Percentage    utils.Fl
	HasPercentage bool
}

// Length returns a pure fixed-length value.
func Length(v geometry.Au) LengthPercentage {
	return LengthPercentage{Fixed: v}
}

// Percent returns a pure percentage value, with v in [0, 1].
func Percent(v utils.Fl) LengthPercentage {
	return LengthPercentage{Percentage: v, HasPercentage: true}
}

// Resolve computes the used value against the given percentage basis.
func (lp LengthPercentage) Resolve(basis geometry.Au) geometry.Au {
	used := lp.Fixed
	if lp.HasPercentage {
		used += geometry.Au(utils.Fl(basis) * lp.Percentage)
	}
	return used
}

// IsZero reports whether the value resolves to zero against any basis.
func (lp LengthPercentage) IsZero() bool {
	return lp.Fixed == 0 && (!lp.HasPercentage || lp.Percentage == 0)
}

// LengthPercentageOrAuto is a length-percentage or the auto keyword.
type LengthPercentageOrAuto struct {
	Value LengthPercentage
	Auto  bool
}

// AutoValue returns the auto keyword.
func AutoValue() LengthPercentageOrAuto {
	return LengthPercentageOrAuto{Auto: true}
}

// LengthOrAuto wraps a definite length-percentage.
func LengthOrAuto(lp LengthPercentage) LengthPercentageOrAuto {
	return LengthPercentageOrAuto{Value: lp}
}

// SizeKeyword is a keyword value of a sizing property.
type SizeKeyword uint8

const (
	SizeAuto SizeKeyword = iota
	SizeMinContent
	SizeMaxContent
)

// SizeValue is the computed value of width/height and their min/max
// variants: either a keyword or a length-percentage.
type SizeValue struct {
	Keyword SizeKeyword
	Value   LengthPercentage
	IsValue bool
}

// SizeFromKeyword returns a keyword size.
func SizeFromKeyword(k SizeKeyword) SizeValue { return SizeValue{Keyword: k} }

// SizeFromLength returns a definite size.
func SizeFromLength(lp LengthPercentage) SizeValue {
	return SizeValue{Value: lp, IsValue: true}
}

// IsAuto reports whether the size is the auto keyword.
func (s SizeValue) IsAuto() bool { return !s.IsValue && s.Keyword == SizeAuto }
