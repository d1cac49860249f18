package layout

import (
	"testing"

	"github.com/emilio/nglayoutng/fragment"
	"github.com/emilio/nglayoutng/geometry"
	"github.com/emilio/nglayoutng/style"
	"github.com/emilio/nglayoutng/text"
	"github.com/emilio/nglayoutng/tree"
	tu "github.com/emilio/nglayoutng/utils/testutils"
)

// tenPx lays the tree out with a fixed ten pixel advance per rune, so
// expected positions can be computed by counting characters.
func tenPx(t *testing.T, lt *tree.LayoutTree) *fragment.Fragment {
	t.Helper()
	frag, err := NewLayoutContext(lt, text.FixedShaper{Advance: px(10)}).Layout()
	tu.AssertNoErr(t, err)
	return frag
}

func lineTexts(lines []fragment.Child) []string {
	texts := make([]string, len(lines))
	for i, line := range lines {
		texts[i] = ""
		var walk func(f *fragment.Fragment)
		walk = func(f *fragment.Fragment) {
			texts[i] += f.Text
			for _, c := range f.Children {
				walk(c.Fragment)
			}
		}
		walk(line.Fragment)
	}
	return texts
}

func TestBreaksAtLastFittingOpportunity(t *testing.T) {
	lt := newTestTree(50, 600)
	lt.Insert(tree.NewTextLeaf(inlineStyle(), "aaa bbb ccc"), tree.InsertionPoint{Parent: lt.Root()})

	frag := tenPx(t, lt)
	tu.AssertEqual(t, lineTexts(frag.Children), []string{"aaa ", "bbb ", "ccc"}, "line texts")
	tu.AssertEqual(t, frag.Children[0].Fragment.Size, geometry.Size{Inline: px(50), Block: px(16)}, "line size")
	tu.AssertEqual(t, frag.Children[1].Offset, geometry.Point{B: px(16)}, "second line offset")
	tu.AssertEqual(t, frag.Children[2].Offset, geometry.Point{B: px(32)}, "third line offset")
}

func TestEverythingFitsOnOneLine(t *testing.T) {
	lt := newTestTree(800, 600)
	lt.Insert(tree.NewTextLeaf(inlineStyle(), "aaa bbb"), tree.InsertionPoint{Parent: lt.Root()})

	frag := tenPx(t, lt)
	tu.AssertEqual(t, len(frag.Children), 1, "lines")
	line := frag.Children[0].Fragment
	tu.AssertEqual(t, line.Children[0].Fragment.Size.Inline, px(70), "text advance")
}

func TestUnbreakableWordOverflows(t *testing.T) {
	lt := newTestTree(50, 600)
	lt.Insert(tree.NewTextLeaf(inlineStyle(), "aaaaaaa"), tree.InsertionPoint{Parent: lt.Root()})

	frag := tenPx(t, lt)
	tu.AssertEqual(t, len(frag.Children), 1, "a single overflowing line")
	line := frag.Children[0].Fragment
	tu.AssertEqual(t, line.Size.Inline, px(50), "line is sized to the available space")
	tu.AssertEqual(t, line.Children[0].Fragment.Size.Inline, px(70), "the text sticks out")
}

func TestOverflowingWordStartsItsOwnLine(t *testing.T) {
	lt := newTestTree(50, 600)
	lt.Insert(tree.NewTextLeaf(inlineStyle(), "aa bbbbbbb cc"), tree.InsertionPoint{Parent: lt.Root()})

	frag := tenPx(t, lt)
	tu.AssertEqual(t, lineTexts(frag.Children), []string{"aa ", "bbbbbbb ", "cc"}, "overflow placement")
}

func TestNowrapNeverBreaks(t *testing.T) {
	lt := newTestTree(50, 600)
	st := inlineStyle()
	st.WhiteSpace = style.WhiteSpaceNowrap
	lt.Insert(tree.NewTextLeaf(st, "aaa bbb ccc"), tree.InsertionPoint{Parent: lt.Root()})

	frag := tenPx(t, lt)
	tu.AssertEqual(t, len(frag.Children), 1, "lines")
}

func TestInlineBoxSpansLines(t *testing.T) {
	lt := newTestTree(50, 600)
	span := lt.Insert(tree.NewContainer(inlineStyle(), tree.ContainerInline), tree.InsertionPoint{Parent: lt.Root()})
	lt.Insert(tree.NewTextLeaf(inlineStyle(), "aaa bbb"), tree.InsertionPoint{Parent: span})

	frag := tenPx(t, lt)
	tu.AssertEqual(t, len(frag.Children), 2, "lines")
	for i, want := range []string{"aaa ", "bbb"} {
		line := frag.Children[i].Fragment
		tu.AssertEqual(t, len(line.Children), 1, "one box per line")
		box := line.Children[0].Fragment
		tu.AssertEqual(t, box.Kind, fragment.KindBox, "box fragment")
		tu.AssertEqual(t, box.Children[0].Fragment.Text, want, "box content")
	}
}

func TestInlineBoxEdges(t *testing.T) {
	lt := newTestTree(800, 600)
	st := inlineStyle()
	st.PaddingLeft = style.Length(px(5))
	st.PaddingRight = style.Length(px(5))
	st.MarginLeft = style.LengthOrAuto(style.Length(px(3)))
	span := lt.Insert(tree.NewContainer(st, tree.ContainerInline), tree.InsertionPoint{Parent: lt.Root()})
	lt.Insert(tree.NewTextLeaf(inlineStyle(), "aa"), tree.InsertionPoint{Parent: span})

	frag := tenPx(t, lt)
	line := frag.Children[0].Fragment
	box := line.Children[0].Fragment
	tu.AssertEqual(t, line.Children[0].Offset, geometry.Point{I: px(3)}, "margin offsets the box")
	tu.AssertEqual(t, box.Size.Inline, px(30), "padding widens the box")
	tu.AssertEqual(t, box.Children[0].Offset, geometry.Point{I: px(5)}, "text after the start inset")
}

func TestLinesInsideAnonymousWrapper(t *testing.T) {
	lt := newTestTree(800, 600)
	s := blockStyle()
	s.Height = style.SizeFromLength(style.Length(px(100)))
	block := lt.Insert(tree.NewContainer(s, tree.ContainerBlock), tree.InsertionPoint{Parent: lt.Root()})
	lt.Insert(tree.NewTextLeaf(inlineStyle(), "hi"), tree.InsertionPoint{Parent: lt.Root(), PrevSibling: block})

	frag := tenPx(t, lt)
	tu.AssertEqual(t, len(frag.Children), 2, "block plus wrapper")
	wrapper := frag.Children[1].Fragment
	tu.AssertEqual(t, wrapper.Style.Pseudo, style.PseudoInlineWrapper, "anonymous wrapper")
	tu.AssertEqual(t, wrapper.Size.Block, px(16), "wrapper wraps its line")
	tu.AssertEqual(t, wrapper.Children[0].Fragment.Kind, fragment.KindLine, "line inside")
}

func TestAtomicInlinesUnsupported(t *testing.T) {
	lt := newTestTree(800, 600)
	st := style.New()
	st.Display = style.DisplayInlineBlock
	st.OriginalDisplay = style.DisplayInlineBlock
	lt.Insert(tree.NewContainer(st, tree.ContainerBlock), tree.InsertionPoint{Parent: lt.Root()})
	lt.Insert(tree.NewTextLeaf(inlineStyle(), "x"), tree.InsertionPoint{Parent: lt.Root()})

	_, err := NewLayoutContext(lt, nil).Layout()
	tu.AssertEqual(t, err != nil, true, "atomic inline")
}
