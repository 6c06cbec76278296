package main

import (
	"testing"

	"github.com/winux-core/ptree/internal/ptree/render"
)

func TestParseFormat(t *testing.T) {
	cases := map[string]render.Format{
		"tree": render.FormatTree,
		"Tree": render.FormatTree,
		"":     render.FormatTree,
		"json": render.FormatJSON,
		"JSON": render.FormatJSON,
	}
	for input, want := range cases {
		got, err := parseFormat(input)
		if err != nil {
			t.Errorf("parseFormat(%q): %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("parseFormat(%q) = %v, want %v", input, got, want)
		}
	}

	if _, err := parseFormat("yaml"); err == nil {
		t.Error(`parseFormat("yaml") should return an error`)
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]render.ColorMode{
		"auto":   render.ColorAuto,
		"":       render.ColorAuto,
		"always": render.ColorAlways,
		"never":  render.ColorNever,
		"NEVER":  render.ColorNever,
	}
	for input, want := range cases {
		got, err := parseColor(input)
		if err != nil {
			t.Errorf("parseColor(%q): %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("parseColor(%q) = %v, want %v", input, got, want)
		}
	}

	if _, err := parseColor("rainbow"); err == nil {
		t.Error(`parseColor("rainbow") should return an error`)
	}
}

func TestResolveRootExplicit(t *testing.T) {
	saved := flags.root
	defer func() { flags.root = saved }()

	flags.root = "/explicit/path"
	got, err := resolveRoot()
	if err != nil {
		t.Fatalf("resolveRoot: %v", err)
	}
	if got != "/explicit/path" {
		t.Errorf("resolveRoot() = %q, want %q", got, "/explicit/path")
	}
}
