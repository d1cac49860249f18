package fragment

import (
	"fmt"
	"io"

	"github.com/emilio/nglayoutng/style"
)

// PrintTo writes an indented description of the fragment tree, for debugging
// and golden tests.
func (f *Fragment) PrintTo(w io.Writer) {
	f.printTo(w, "", "")
}

func (f *Fragment) printTo(w io.Writer, offset, indent string) {
	desc := fmt.Sprintf("%s %v×%v", f.Kind, f.Size.Inline, f.Size.Block)
	if f.Kind == KindText {
		desc += fmt.Sprintf(" %q", f.Text)
	}
	if f.Style != nil && f.Style.Pseudo != style.PseudoNone {
		desc += " " + f.Style.Pseudo.String()
	}
	if offset != "" {
		desc += " at " + offset
	}
	fmt.Fprintf(w, "%s%s\n", indent, desc)
	for _, child := range f.Children {
		at := fmt.Sprintf("(%v, %v)", child.Offset.I, child.Offset.B)
		child.Fragment.printTo(w, at, indent+"  ")
	}
}
