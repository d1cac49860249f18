// Package fragment defines the immutable output of layout: a tree of
// positioned fragments.
package fragment

import (
	"github.com/emilio/nglayoutng/geometry"
	"github.com/emilio/nglayoutng/style"
)

// Kind discriminates the fragment variants.
type Kind uint8

const (
	// KindBox is the fragment of a block or inline box.
	KindBox Kind = iota
	// KindLine is one line of an inline formatting context.
	KindLine
	// KindText is a run of text on a line.
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "Box"
	case KindLine:
		return "Line"
	case KindText:
		return "Text"
	}
	return "<unknown fragment kind>"
}

// Fragment is one node of the fragment tree. Fragments are immutable once
// layout returns them.
type Fragment struct {
	// Size is the border-box size, in the writing mode of Style.
	Size  geometry.Size
	Style *style.ComputedStyle
	Kind  Kind
	// Text is the text shown by a KindText fragment.
	Text     string
	Children []Child
}

// Child is a fragment positioned in its parent.
type Child struct {
	// Offset is the logical offset from the parent's border-box origin,
	// in the parent's writing mode.
	Offset   geometry.Point
	Fragment *Fragment
}
