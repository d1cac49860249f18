// Package utils provides some shared helpers used across the module.
package utils

// Fl is an alias for the float type used when converting
// app units to and from CSS pixel values.
type Fl = float32
