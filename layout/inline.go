package layout

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/emilio/nglayoutng/fragment"
	"github.com/emilio/nglayoutng/geometry"
	"github.com/emilio/nglayoutng/tree"
)

// zwsp is the zero-width space, which suppresses the space a collapsed
// segment break would otherwise produce.
const zwsp = '\u200b'

// objectReplacement stands in for an atomic or replaced box in the
// collapsing state.
const objectReplacement = '\ufffc'

type inlineItemKind uint8

const (
	// itemText is a run of text, already white-space collapsed.
	itemText inlineItemKind = iota
	// itemTagOpen marks the start of an inline box's content.
	itemTagOpen
	// itemTagClose marks the end of an inline box's content.
	itemTagClose
	// itemAtomic is an inline-block or other atomic inline.
	itemAtomic
	// itemReplaced is an inline replaced box.
	itemReplaced
)

// inlineItem is one entry of the flattened form of an inline formatting
// context: the inline subtree turned into a sequence of text runs
// bracketed by open and close tags.
type inlineItem struct {
	kind inlineItemKind
	node tree.NodeId
	text string
}

// InlineFormattingContext lays out the inline-level children of one block
// container into line fragments.
type InlineFormattingContext struct {
	ctx   *LayoutContext
	root  tree.NodeId
	items []inlineItem
}

func newInlineFormattingContext(c *LayoutContext, root tree.NodeId) (*InlineFormattingContext, error) {
	ifc := &InlineFormattingContext{ctx: c, root: root}
	if c.Tree.Node(root).Style.Direction == geometry.RTL {
		return nil, fmt.Errorf("%w: bidi reordering", ErrUnsupported)
	}
	state := collapseState{afterBreak: true}
	if err := ifc.collect(root, &state); err != nil {
		return nil, err
	}
	return ifc, nil
}

func (ifc *InlineFormattingContext) layout(space *ConstraintSpace) ([]fragment.Child, geometry.Au, error) {
	lb := &lineBreaker{
		ifc:       ifc,
		space:     space,
		rootStyle: ifc.ctx.Tree.Node(ifc.root).Style,
	}
	return lb.run()
}

// collect flattens the inline subtree under parent into items, collapsing
// white-space as it goes.
func (ifc *InlineFormattingContext) collect(parent tree.NodeId, state *collapseState) error {
	t := ifc.ctx.Tree
	for _, child := range t.Children(parent) {
		node := t.Node(child)
		if !node.IsInFlow() {
			if node.Style.IsFloating() {
				return fmt.Errorf("%w: float placement", ErrUnsupported)
			}
			return fmt.Errorf("%w: out-of-flow static positions", ErrUnsupported)
		}
		if node.Style.Direction == geometry.RTL {
			return fmt.Errorf("%w: bidi reordering", ErrUnsupported)
		}
		switch {
		case node.IsLeaf() && node.LeafKind() == tree.LeafText:
			idx := len(ifc.items)
			ifc.items = append(ifc.items, inlineItem{kind: itemText, node: child})
			if ws := node.Style.WhiteSpace; ws.CollapsesSpaces() {
				ifc.items[idx].text = ifc.collapseText(idx, node.Text, state, ws.CollapsesNewlines())
			} else {
				ifc.items[idx].text = node.Text
				ifc.observePreserved(node.Text, state)
			}
		case node.IsLeaf():
			ifc.flushPending(len(ifc.items), nil, state, objectReplacement)
			state.afterBreak = false
			state.last = objectReplacement
			ifc.items = append(ifc.items, inlineItem{kind: itemReplaced, node: child})
		case node.IsInline():
			ifc.items = append(ifc.items, inlineItem{kind: itemTagOpen, node: child})
			if err := ifc.collect(child, state); err != nil {
				return err
			}
			ifc.items = append(ifc.items, inlineItem{kind: itemTagClose, node: child})
		default:
			ifc.flushPending(len(ifc.items), nil, state, objectReplacement)
			state.afterBreak = false
			state.last = objectReplacement
			ifc.items = append(ifc.items, inlineItem{kind: itemAtomic, node: child})
		}
	}
	return nil
}

type pendingKind uint8

const (
	pendingNone pendingKind = iota
	// pendingSpace is a run of collapsible spaces awaiting its collapsed
	// space, emitted once the next character is known to follow.
	pendingSpace
	// pendingBreak is a run containing a segment break; the segment break
	// transformation decides what it becomes.
	pendingBreak
)

// collapseState threads the white-space collapsing state across items, so
// that runs of collapsible white-space collapse across node boundaries.
type collapseState struct {
	// afterBreak starts true so that white-space at the very start of the
	// context is removed.
	afterBreak bool
	pending    pendingKind
	// pendingIdx is the item the pending white-space came from.
	pendingIdx int
	// last is the last character emitted, for the segment break
	// transformation's context checks.
	last rune
}

// collapseText rewrites a collapsible text item per the white-space
// collapsing rules and returns the result. idx is the item's position in
// ifc.items; a pending space inherited from an earlier item is flushed
// into that earlier item.
func (ifc *InlineFormattingContext) collapseText(idx int, text string, state *collapseState, collapseNewlines bool) string {
	var b strings.Builder
	for _, c := range text {
		switch c {
		case ' ', '\t':
			if state.afterBreak || state.pending == pendingBreak {
				continue
			}
			if state.pending == pendingNone {
				state.pendingIdx = idx
			}
			state.pending = pendingSpace
		case '\n', '\r':
			if !collapseNewlines {
				// The newline stays; collapsible spaces before it are
				// removed.
				state.pending = pendingNone
				state.afterBreak = true
				b.WriteRune('\n')
				state.last = '\n'
				continue
			}
			if state.afterBreak {
				continue
			}
			if state.pending == pendingNone {
				state.pendingIdx = idx
			}
			state.pending = pendingBreak
		default:
			ifc.flushPending(idx, &b, state, c)
			state.afterBreak = false
			b.WriteRune(c)
			state.last = c
		}
	}
	return b.String()
}

// flushPending emits the collapsed form of any pending white-space, now
// that the character following it is known. The space lands in the item
// the white-space came from: the current builder when that is item idx,
// the earlier item's text otherwise.
func (ifc *InlineFormattingContext) flushPending(idx int, b *strings.Builder, state *collapseState, next rune) {
	pending := state.pending
	state.pending = pendingNone
	switch pending {
	case pendingNone:
		return
	case pendingBreak:
		// A collapsed segment break disappears next to a zero-width space
		// or between space-discarding East Asian characters.
		if next == zwsp || state.last == zwsp {
			return
		}
		if isSpaceDiscarding(state.last) && isSpaceDiscarding(next) {
			return
		}
	}
	if b != nil && state.pendingIdx == idx {
		b.WriteByte(' ')
	} else {
		ifc.items[state.pendingIdx].text += " "
	}
}

// observePreserved updates the collapsing state across a text item whose
// white-space is preserved.
func (ifc *InlineFormattingContext) observePreserved(text string, state *collapseState) {
	if text == "" {
		return
	}
	first, _ := utf8.DecodeRuneInString(text)
	ifc.flushPending(-1, nil, state, first)
	last, _ := utf8.DecodeLastRuneInString(text)
	state.last = last
	state.afterBreak = last == '\n'
}

// spaceDiscardingRanges approximates the set of East Asian characters a
// collapsed segment break disappears between, per the segment break
// transformation rules.
var spaceDiscardingRanges = [...][2]rune{
	{0x2E80, 0x303E},   // CJK radicals through CJK symbols and punctuation
	{0x3041, 0x30FF},   // hiragana and katakana
	{0x3400, 0x4DBF},   // CJK extension A
	{0x4E00, 0x9FFF},   // CJK unified ideographs
	{0xF900, 0xFAFF},   // CJK compatibility ideographs
	{0xFF01, 0xFF60},   // fullwidth forms
	{0x20000, 0x2FA1F}, // CJK extensions B and beyond
}

func isSpaceDiscarding(c rune) bool {
	for _, r := range spaceDiscardingRanges {
		if c >= r[0] && c <= r[1] {
			return true
		}
	}
	return false
}
