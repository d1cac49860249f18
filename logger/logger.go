// Package logger provides two log.Logger to be used by the other packages.
// They default to printing to stdout, but may be redirected or silenced.
package logger

import (
	"io"
	"log"
	"os"
)

// WarningLogger reports recoverable oddities found while building or laying
// out a tree, such as unsupported style values.
var WarningLogger = log.New(os.Stdout, "nglayoutng.warning: ", log.Lmsgprefix)

// ProgressLogger reports the coarse steps of a layout pass.
var ProgressLogger = log.New(os.Stdout, "nglayoutng.progress: ", log.Lmsgprefix)

// Silence discards the output of the given loggers.
func Silence(loggers ...*log.Logger) {
	for _, logger := range loggers {
		logger.SetOutput(io.Discard)
	}
}
