package text

import (
	"testing"

	"github.com/emilio/nglayoutng/geometry"
	"github.com/emilio/nglayoutng/style"
	tu "github.com/emilio/nglayoutng/utils/testutils"
)

func TestFixedShaper(t *testing.T) {
	st := style.New()
	glyphs, err := FixedShaper{Advance: geometry.AuFromPx(10)}.Shape("héllo", st)
	tu.AssertNoErr(t, err)
	tu.AssertEqual(t, len(glyphs), 5, "glyph count")
	// Clusters are byte offsets; é is two bytes long.
	tu.AssertEqual(t, glyphs[2].Cluster, 3, "cluster after multi-byte rune")
	for _, g := range glyphs {
		tu.AssertEqual(t, g.Advance, geometry.AuFromPx(10), "advance")
	}
}

func TestFixedShaperDefaultsToFontSize(t *testing.T) {
	st := style.New()
	st.FontSize = geometry.AuFromPx(20)
	glyphs, err := FixedShaper{}.Shape("a", st)
	tu.AssertNoErr(t, err)
	tu.AssertEqual(t, glyphs[0].Advance, geometry.AuFromPx(20), "em advance")
}

func TestFamilyKey(t *testing.T) {
	tu.AssertEqual(t, familyKey("  Deja Vu Sans "), "deja vu sans", "normalization")
}

func TestShapeWithoutFontsErrors(t *testing.T) {
	fc := NewFontConfigurationHarfbuzz()
	_, err := fc.Shape("x", style.New())
	tu.AssertEqual(t, err != nil, true, "no registered face")
}
