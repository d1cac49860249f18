package text

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/benoitkugler/textlayout/fonts/truetype"
	"github.com/benoitkugler/textlayout/harfbuzz"
	"github.com/benoitkugler/textlayout/language"
	"golang.org/x/image/math/fixed"

	"github.com/emilio/nglayoutng/geometry"
	"github.com/emilio/nglayoutng/style"
	"github.com/emilio/nglayoutng/utils"
)

// FontConfigurationHarfbuzz is a Shaper backed by harfbuzz over explicitly
// registered font files. There is no system font discovery: callers
// register each face under a family name, and lookup walks the style's
// font-family list, falling back to the first registered face.
type FontConfigurationHarfbuzz struct {
	faces    map[string]*truetype.Font
	fallback *truetype.Font

	// Sized harfbuzz fonts are cached per face and size, since building
	// one walks the font tables.
	cache map[sizedFontKey]*harfbuzz.Font

	lang language.Language
}

type sizedFontKey struct {
	face *truetype.Font
	size geometry.Au
}

func NewFontConfigurationHarfbuzz() *FontConfigurationHarfbuzz {
	return &FontConfigurationHarfbuzz{
		faces: make(map[string]*truetype.Font),
		cache: make(map[sizedFontKey]*harfbuzz.Font),
		lang:  language.NewLanguage("en"),
	}
}

// AddFontFace registers the given font file content under family.
// The first registered face is also the fallback for unknown families.
func (f *FontConfigurationHarfbuzz) AddFontFace(family string, content []byte) error {
	face, err := truetype.Parse(bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("loading font for family %q: %w", family, err)
	}
	f.faces[familyKey(family)] = face
	if f.fallback == nil {
		f.fallback = face
	}
	return nil
}

func familyKey(family string) string {
	return strings.ToLower(strings.TrimSpace(family))
}

func (f *FontConfigurationHarfbuzz) fontFor(st *style.ComputedStyle) (*harfbuzz.Font, error) {
	var face *truetype.Font
	for _, family := range st.FontFamily {
		if match, ok := f.faces[familyKey(family)]; ok {
			face = match
			break
		}
	}
	if face == nil {
		face = f.fallback
	}
	if face == nil {
		return nil, fmt.Errorf("no font face registered for families %v", st.FontFamily)
	}

	key := sizedFontKey{face: face, size: st.FontSize}
	if font, ok := f.cache[key]; ok {
		return font, nil
	}
	font := harfbuzz.NewFont(face)
	// Scale so that shaped positions come out in 26.6 pixel units.
	scale := int32(fixed.Int26_6(st.FontSize.Px() * 64))
	font.XScale, font.YScale = scale, scale
	f.cache[key] = font
	return font, nil
}

func (f *FontConfigurationHarfbuzz) Shape(text string, st *style.ComputedStyle) ([]Glyph, error) {
	font, err := f.fontFor(st)
	if err != nil {
		return nil, err
	}

	runes := []rune(text)
	// Map the rune-indexed clusters harfbuzz reports back to byte offsets.
	byteOffsets := make([]int, len(runes))
	offset := 0
	for i, r := range runes {
		byteOffsets[i] = offset
		offset += len(string(r))
	}

	buf := harfbuzz.NewBuffer()
	buf.AddRunes(runes, 0, len(runes))
	buf.Props.Direction = harfbuzz.LeftToRight
	buf.Props.Language = f.lang
	buf.GuessSegmentProperties()
	buf.Shape(font, nil)

	glyphs := make([]Glyph, len(buf.Info))
	for i, info := range buf.Info {
		advance := fixed.Int26_6(buf.Pos[i].XAdvance)
		glyphs[i] = Glyph{
			GID:     uint32(info.Glyph),
			Cluster: byteOffsets[info.Cluster],
			Advance: geometry.AuFromPx(utils.Fl(advance) / 64),
		}
	}
	return glyphs, nil
}
