// Package render turns a snapshot.Snapshot into either an ASCII tree or
// streaming JSON, per spec.md §4.5.
package render

import (
	"io"

	"github.com/mattn/go-isatty"
)

// Format selects the output encoding.
type Format uint8

const (
	// FormatTree renders the ASCII connector tree.
	FormatTree Format = iota
	// FormatJSON renders streaming JSON.
	FormatJSON
)

// ColorMode selects when ANSI color escapes are emitted in tree format.
type ColorMode uint8

const (
	// ColorAuto emits color only when the output stream is a terminal.
	ColorAuto ColorMode = iota
	// ColorAlways always emits color.
	ColorAlways
	// ColorNever never emits color. JSON format behaves as ColorNever
	// unconditionally, regardless of what's configured here.
	ColorNever
)

// Options configures one render call.
type Options struct {
	Format Format
	Color  ColorMode
	// MaxDisplayDepth truncates output without affecting the underlying
	// Snapshot; a negative value means unlimited.
	MaxDisplayDepth int
}

// colorEnabled resolves the configured ColorMode against w, consulting
// isatty only for ColorAuto.
func colorEnabled(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		type fder interface{ Fd() uintptr }
		f, ok := w.(fder)
		if !ok {
			return false
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
}
