// Package geometry provides the length type and the writing-mode aware
// logical geometry used by the layout code.
package geometry

import (
	"fmt"

	"github.com/emilio/nglayoutng/utils"
)

// Au is a length in app units, with 60 app units per CSS pixel.
type Au int32

// AuPerPx is the number of app units per CSS pixel.
const AuPerPx = 60

// AuFromPx converts a CSS pixel value to app units, rounding to the nearest
// unit.
func AuFromPx(px utils.Fl) Au {
	if px < 0 {
		return -AuFromPx(-px)
	}
	return Au(px*AuPerPx + 0.5)
}

// Px returns the length in CSS pixels.
func (a Au) Px() utils.Fl {
	return utils.Fl(a) / AuPerPx
}

func (a Au) String() string {
	return fmt.Sprintf("%gpx", a.Px())
}

// MaxAu returns the larger of the two lengths.
func MaxAu(a, b Au) Au {
	if a > b {
		return a
	}
	return b
}

// MinAu returns the smaller of the two lengths.
func MinAu(a, b Au) Au {
	if a < b {
		return a
	}
	return b
}

// Clamp returns a clamped to the [min, max] range.
func (a Au) Clamp(min, max Au) Au {
	return MaxAu(min, MinAu(max, a))
}

// MaybeAu is an optional length, used for available sizes which may be
// indefinite.
type MaybeAu struct {
	value Au
	valid bool
}

// SomeAu returns a definite length.
func SomeAu(v Au) MaybeAu { return MaybeAu{value: v, valid: true} }

// Indefinite is the absent length. It is the zero MaybeAu.
var Indefinite = MaybeAu{}

// IsNone reports whether the length is indefinite.
func (m MaybeAu) IsNone() bool { return !m.valid }

// V returns the definite length, or zero if indefinite.
func (m MaybeAu) V() Au { return m.value }

func (m MaybeAu) String() string {
	if m.IsNone() {
		return "<indefinite>"
	}
	return m.value.String()
}
