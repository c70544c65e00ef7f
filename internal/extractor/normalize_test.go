package extractor

import (
	"strings"
	"testing"
	"unicode"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"a", "a"},
		{"  a  ", "a"},
		{"a \t\n b", "a b"},
		{"\n\nparameter   int\tW = 8,\n", "parameter int W = 8,"},
		{"/* clock\n   input */\n  input clk;", "/* clock input */ input clk;"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeWhitespaceProperties(t *testing.T) {
	inputs := []string{
		" \t\r\n ",
		"a  b",
		"\v lead and trail \f",
		"many    inner\n\n\nbreaks\t\there",
		"already normal",
	}

	for _, in := range inputs {
		once := Normalize(in)
		if Normalize(once) != once {
			t.Fatalf("Normalize not idempotent for %q: %q then %q", in, once, Normalize(once))
		}
		if once != strings.TrimFunc(once, unicode.IsSpace) {
			t.Fatalf("Normalize(%q) = %q has leading or trailing whitespace", in, once)
		}
		prevSpace := false
		for _, r := range once {
			isSpace := unicode.IsSpace(r)
			if isSpace && prevSpace {
				t.Fatalf("Normalize(%q) = %q has adjacent whitespace", in, once)
			}
			prevSpace = isSpace
		}
	}
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"W", "W"},
		{"W,", "W"},
		{"clk;", "clk"},
		{"a);", "a"},
		{",", ""},
	}

	for _, tt := range tests {
		if got := cleanName(tt.in); got != tt.want {
			t.Fatalf("cleanName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
