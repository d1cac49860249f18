// Package text provides the shaping collaborator of the layout code: it
// turns runs of text plus a style into positioned glyphs, behind a small
// interface so that engines can be swapped.
package text

import (
	"github.com/emilio/nglayoutng/geometry"
	"github.com/emilio/nglayoutng/style"
)

// Glyph is one shaped glyph of a run.
type Glyph struct {
	// GID is the glyph index in the font.
	GID uint32
	// Cluster is the byte offset in the source text this glyph maps back
	// to. Clusters are monotonic for left-to-right runs.
	Cluster int
	// Advance is the inline-axis advance.
	Advance geometry.Au
}

// Shaper shapes a run of text with the font described by the style.
type Shaper interface {
	Shape(text string, style *style.ComputedStyle) ([]Glyph, error)
}

// FixedShaper is a Shaper assigning every rune the same advance, with one
// glyph per rune. It needs no fonts, which makes layout output fully
// deterministic; tests and the dumper use it.
type FixedShaper struct {
	// Advance is the advance of each rune. Zero means one em (the style's
	// font size).
	Advance geometry.Au
}

func (f FixedShaper) Shape(text string, st *style.ComputedStyle) ([]Glyph, error) {
	advance := f.Advance
	if advance == 0 {
		advance = st.FontSize
	}
	var glyphs []Glyph
	for offset, r := range text {
		glyphs = append(glyphs, Glyph{GID: uint32(r), Cluster: offset, Advance: advance})
	}
	return glyphs, nil
}
