package target

import (
	"errors"
	"testing"
)

func TestParseFullyQualified(t *testing.T) {
	got, err := Parse("//foo/bar:baz")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Address{Package: "foo/bar", Task: "baz"}
	if got != want {
		t.Errorf("Parse = %+v, want %+v", got, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"//foo/bar", ErrMissingTask},
		{":baz", ErrMissingPackage},
		{"foo/bar:baz", ErrPackageNotAbsolute},
	}
	for _, tt := range tests {
		_, err := Parse(tt.in)
		if !errors.Is(err, tt.want) {
			t.Errorf("Parse(%q) error = %v, want %v", tt.in, err, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	a := Address{Package: "foo/bar", Task: "baz"}
	if got := a.String(); got != "//foo/bar:baz" {
		t.Errorf("String = %q, want %q", got, "//foo/bar:baz")
	}
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{"//foo:bar", "//a/b/c:test", "//pkg:rust_crate"} {
		a, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if a.String() != s {
			t.Errorf("round trip %q -> %q", s, a.String())
		}
	}
}
