package main

import (
	"fmt"
	"os"
)

// logger writes progress messages to stderr when true and
// discards them when false, so predictions and trees on stdout
// stay parseable.
type logger bool

func (l logger) Logf(format string, a ...interface{}) {
	if !l {
		return
	}
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprintln(os.Stderr)
}
