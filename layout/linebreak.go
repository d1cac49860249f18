package layout

import (
	"fmt"
	"strings"

	"github.com/benoitkugler/textprocessing/pango"

	"github.com/emilio/nglayoutng/fragment"
	"github.com/emilio/nglayoutng/geometry"
	"github.com/emilio/nglayoutng/style"
	"github.com/emilio/nglayoutng/text"
	"github.com/emilio/nglayoutng/tree"
)

// openBox is one entry of the line breaker's stack of inline boxes the
// current position is inside of. A box flushed mid-line reopens on the
// next line with atStart cleared, so its start edge is paid only once.
type openBox struct {
	node  tree.NodeId
	style *style.ComputedStyle

	children []fragment.Child
	// advance is the content inline size accumulated on this line.
	advance  geometry.Au
	maxBlock geometry.Au
	// atStart is set until a fragment of the box lands on a line.
	atStart bool

	// Resolved inline-axis edges. Insets are border plus padding.
	startMargin, startInset geometry.Au
	endMargin, endInset     geometry.Au
}

// contentOrigin is the inline offset of the box's content from its
// fragment origin on the current line.
func (b *openBox) contentOrigin() geometry.Au {
	if b.atStart {
		return b.startInset
	}
	return 0
}

// runEvent is an inline box boundary inside a shaped run, fired while the
// run's text is placed.
type runEvent struct {
	at   int
	open bool
	node tree.NodeId
}

// runPiece maps a byte range of a shaped run back to the text node it
// came from.
type runPiece struct {
	node       tree.NodeId
	start, end int
}

// shapedRun is a maximal sequence of items shaped as one piece: text runs
// plus any inline box boundaries with zero inline-axis edges between
// them.
type shapedRun struct {
	text   string
	glyphs []text.Glyph
	// breaks are the byte offsets a line may end at, sorted.
	breaks []int
	pieces []runPiece
	events []runEvent
	// items is how many inline items the run consumed.
	items int

	nextEvent int
	nextPiece int
}

// measure returns the advance of the run's [from, to) byte range.
func (r *shapedRun) measure(from, to int) geometry.Au {
	var total geometry.Au
	for _, g := range r.glyphs {
		if g.Cluster >= from && g.Cluster < to {
			total += g.Advance
		}
	}
	return total
}

// lineBreaker walks the flattened inline items and greedily packs them
// into lines. Inline boxes are kept on an explicit stack rather than
// recursed into, since a box may span any number of lines.
type lineBreaker struct {
	ifc       *InlineFormattingContext
	space     *ConstraintSpace
	rootStyle *style.ComputedStyle

	open        []openBox
	lines       []fragment.Child
	lineAdvance geometry.Au
	blockOffset geometry.Au
	pos         int
}

func (lb *lineBreaker) run() ([]fragment.Child, geometry.Au, error) {
	lb.open = []openBox{{style: lb.rootStyle, atStart: true}}
	items := lb.ifc.items
	for lb.pos < len(items) {
		item := &items[lb.pos]
		switch item.kind {
		case itemTagOpen:
			lb.openTag(item.node)
			lb.pos++
		case itemTagClose:
			lb.closeTag()
			lb.pos++
		case itemAtomic:
			return nil, 0, fmt.Errorf("%w: atomic inline layout", ErrUnsupported)
		case itemReplaced:
			return nil, 0, fmt.Errorf("%w: inline replaced sizing", ErrUnsupported)
		case itemText:
			if err := lb.layoutTextRun(); err != nil {
				return nil, 0, err
			}
		}
	}
	lb.flushLine()
	if len(lb.open) != 1 {
		panic("unbalanced inline box tags")
	}
	return lb.lines, lb.blockOffset, nil
}

func (lb *lineBreaker) openTag(node tree.NodeId) {
	st := lb.ifc.ctx.Tree.Node(node).Style
	basis := lb.space.PercentageResolutionInline
	margin := resolveMargins(st, basis)
	padding := resolvePadding(st, basis)
	border := st.BorderWidths()
	box := openBox{
		node:        node,
		style:       st,
		atStart:     true,
		startMargin: margin.InlineStart,
		startInset:  border.InlineStart + padding.InlineStart,
		endMargin:   margin.InlineEnd,
		endInset:    border.InlineEnd + padding.InlineEnd,
	}
	lb.open = append(lb.open, box)
	lb.lineAdvance += box.startMargin + box.startInset
}

func (lb *lineBreaker) closeTag() {
	box := lb.open[len(lb.open)-1]
	lb.open = lb.open[:len(lb.open)-1]
	lb.emitBox(box, true)
	lb.lineAdvance += box.endMargin + box.endInset
}

// emitBox turns an open box into a fragment on the current line, inside
// the next box up the stack. final distinguishes a real close from a
// flush at the end of a line, which omits the end edge.
func (lb *lineBreaker) emitBox(box openBox, final bool) {
	inline := box.advance
	if box.atStart {
		inline += box.startInset
	}
	if final {
		inline += box.endInset
	}
	block := geometry.MaxAu(box.maxBlock, box.style.FontSize)
	frag := &fragment.Fragment{
		Size:     geometry.Size{Inline: inline, Block: block},
		Style:    box.style,
		Kind:     fragment.KindBox,
		Children: box.children,
	}
	parent := &lb.open[len(lb.open)-1]
	offset := geometry.Point{I: parent.contentOrigin() + parent.advance}
	if box.atStart {
		offset.I += box.startMargin
	}
	parent.children = append(parent.children, fragment.Child{Offset: offset, Fragment: frag})
	parent.advance += inline
	if box.atStart {
		parent.advance += box.startMargin
	}
	if final {
		parent.advance += box.endMargin
	}
	if block > parent.maxBlock {
		parent.maxBlock = block
	}
}

// appendText places a text fragment at the current position of the
// innermost open box.
func (lb *lineBreaker) appendText(frag *fragment.Fragment, advance geometry.Au) {
	top := &lb.open[len(lb.open)-1]
	top.children = append(top.children, fragment.Child{
		Offset:   geometry.Point{I: top.contentOrigin() + top.advance},
		Fragment: frag,
	})
	top.advance += advance
	if frag.Size.Block > top.maxBlock {
		top.maxBlock = frag.Size.Block
	}
	lb.lineAdvance += advance
}

// lineHasContent reports whether flushing now would produce a non-empty
// line.
func (lb *lineBreaker) lineHasContent() bool {
	if lb.lineAdvance != 0 || len(lb.open[0].children) > 0 {
		return true
	}
	for i := 1; i < len(lb.open); i++ {
		if len(lb.open[i].children) > 0 || lb.open[i].advance != 0 {
			return true
		}
	}
	return false
}

// flushLine closes the current line: every open box is flushed without
// its end edge and reopened fresh for the next line.
func (lb *lineBreaker) flushLine() {
	if !lb.lineHasContent() {
		return
	}
	var reopen []openBox
	for len(lb.open) > 1 {
		box := lb.open[len(lb.open)-1]
		lb.open = lb.open[:len(lb.open)-1]
		lb.emitBox(box, false)
		reopen = append(reopen, box)
	}

	root := lb.open[0]
	lineInline := lb.lineAdvance
	if !lb.space.AvailableSize.Inline.IsNone() {
		lineInline = lb.space.AvailableSize.Inline.V()
	}
	lineBlock := geometry.MaxAu(root.maxBlock, lb.rootStyle.FontSize)
	line := &fragment.Fragment{
		Size:     geometry.Size{Inline: lineInline, Block: lineBlock},
		Style:    lb.rootStyle,
		Kind:     fragment.KindLine,
		Children: root.children,
	}
	lb.lines = append(lb.lines, fragment.Child{
		Offset:   geometry.Point{B: lb.blockOffset},
		Fragment: line,
	})
	lb.blockOffset += lineBlock

	lb.open[0] = openBox{style: lb.rootStyle}
	for i := len(reopen) - 1; i >= 0; i-- {
		b := reopen[i]
		lb.open = append(lb.open, openBox{
			node:        b.node,
			style:       b.style,
			startMargin: b.startMargin,
			startInset:  b.startInset,
			endMargin:   b.endMargin,
			endInset:    b.endInset,
		})
	}
	lb.lineAdvance = 0
}

// remaining returns how much inline space is left on the current line,
// and whether the available size is definite at all.
func (lb *lineBreaker) remaining() (geometry.Au, bool) {
	avail := lb.space.AvailableSize.Inline
	if avail.IsNone() {
		return 0, false
	}
	return avail.V() - lb.lineAdvance, true
}

// layoutTextRun shapes the maximal run starting at the cursor and places
// it, breaking lines as needed.
func (lb *lineBreaker) layoutTextRun() error {
	run, err := lb.collectRun()
	if err != nil {
		return err
	}
	if len(run.text) == 0 {
		lb.placeSlice(run, 0, 0)
		lb.pos += run.items
		return nil
	}

	pos := 0
	for pos < len(run.text) {
		remaining, definite := lb.remaining()
		if !definite || run.measure(pos, len(run.text)) <= remaining {
			lb.placeSlice(run, pos, len(run.text))
			break
		}

		// Break at the last opportunity that still fits.
		fit := -1
		for _, b := range run.breaks {
			if b <= pos {
				continue
			}
			if run.measure(pos, b) > remaining {
				break
			}
			fit = b
		}
		if fit == -1 {
			if lb.lineHasContent() {
				// Maybe it fits on a fresh line.
				lb.flushLine()
				continue
			}
			// Nothing fits even on an empty line: overflow up to the
			// first opportunity, or the whole run.
			fit = len(run.text)
			for _, b := range run.breaks {
				if b > pos {
					fit = b
					break
				}
			}
		}
		lb.placeSlice(run, pos, fit)
		pos = fit
		if pos < len(run.text) {
			lb.flushLine()
		}
	}
	lb.pos += run.items
	return nil
}

// canContinueRun reports whether crossing the given inline box boundary
// keeps the current run shapeable as one piece: same writing mode and
// font, and nothing to draw at the boundary.
func canContinueRun(run, st *style.ComputedStyle, opening bool) bool {
	if st.WritingMode != run.WritingMode || st.FontSize != run.FontSize {
		return false
	}
	if !sameFamilies(st.FontFamily, run.FontFamily) {
		return false
	}
	margin, padding, border := st.Margin(), st.Padding(), st.BorderWidths()
	if opening {
		return marginIsZero(margin.InlineStart) && padding.InlineStart.IsZero() && border.InlineStart == 0
	}
	return marginIsZero(margin.InlineEnd) && padding.InlineEnd.IsZero() && border.InlineEnd == 0
}

func marginIsZero(v style.LengthPercentageOrAuto) bool {
	return v.Auto || v.Value.IsZero()
}

func sameFamilies(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// collectRun gathers items from the cursor into one shaped run. The run
// ends at the first boundary that cannot be crossed; that item is left
// for the main loop.
func (lb *lineBreaker) collectRun() (*shapedRun, error) {
	t := lb.ifc.ctx.Tree
	items := lb.ifc.items
	runStyle := t.Node(items[lb.pos].node).Style
	run := &shapedRun{}
	var b strings.Builder

	i := lb.pos
loop:
	for ; i < len(items); i++ {
		item := &items[i]
		switch item.kind {
		case itemText:
			run.pieces = append(run.pieces, runPiece{
				node:  item.node,
				start: b.Len(),
				end:   b.Len() + len(item.text),
			})
			b.WriteString(item.text)
		case itemTagOpen:
			if !canContinueRun(runStyle, t.Node(item.node).Style, true) {
				break loop
			}
			run.events = append(run.events, runEvent{at: b.Len(), open: true, node: item.node})
		case itemTagClose:
			if !canContinueRun(runStyle, t.Node(item.node).Style, false) {
				break loop
			}
			run.events = append(run.events, runEvent{at: b.Len(), open: false})
		default:
			break loop
		}
	}
	run.items = i - lb.pos
	run.text = b.String()

	if len(run.text) > 0 {
		glyphs, err := lb.ifc.ctx.Shaper.Shape(run.text, runStyle)
		if err != nil {
			return nil, err
		}
		run.glyphs = glyphs
		if runStyle.WhiteSpace.Wraps() {
			run.breaks = breakOpportunities(run.text)
		}
	}
	return run, nil
}

// breakOpportunities returns the byte offsets of the soft wrap
// opportunities inside s, excluding the run start.
func breakOpportunities(s string) []int {
	runes := []rune(s)
	if len(runes) == 0 {
		return nil
	}
	attrs := pango.ComputeCharacterAttributes(runes, -1)
	var offsets []int
	byteOffset := 0
	for i, r := range runes {
		if i > 0 && attrs[i].IsLineBreak() {
			offsets = append(offsets, byteOffset)
		}
		byteOffset += len(string(r))
	}
	return offsets
}

// placeSlice places the [from, to) byte range of run on the current line,
// firing the box boundaries inside it and emitting one text fragment per
// originating node.
func (lb *lineBreaker) placeSlice(run *shapedRun, from, to int) {
	t := lb.ifc.ctx.Tree
	pos := from
	for {
		for run.nextEvent < len(run.events) {
			ev := run.events[run.nextEvent]
			if ev.at > pos {
				break
			}
			// A box opening right at a line break belongs on the next
			// line.
			if ev.open && ev.at == to && to < len(run.text) {
				break
			}
			run.nextEvent++
			if ev.open {
				lb.openTag(ev.node)
			} else {
				lb.closeTag()
			}
		}
		if pos >= to {
			return
		}

		end := to
		if run.nextEvent < len(run.events) && run.events[run.nextEvent].at < end {
			end = run.events[run.nextEvent].at
		}
		for run.nextPiece < len(run.pieces) && run.pieces[run.nextPiece].end <= pos {
			run.nextPiece++
		}
		piece := run.pieces[run.nextPiece]
		if piece.end < end {
			end = piece.end
		}

		advance := run.measure(pos, end)
		st := t.Node(piece.node).Style
		frag := &fragment.Fragment{
			Size:  geometry.Size{Inline: advance, Block: st.FontSize},
			Style: st,
			Kind:  fragment.KindText,
			Text:  run.text[pos:end],
		}
		lb.appendText(frag, advance)
		pos = end
	}
}
