package cargo

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestManifestPath(t *testing.T) {
	c := New(filepath.Join("some", "crate"))
	want := filepath.Join("some", "crate", "Cargo.toml")
	if got := c.ManifestPath(); got != want {
		t.Errorf("ManifestPath = %q, want %q", got, want)
	}
}

func TestTestArgs(t *testing.T) {
	c := New("crate")
	c.Jobs(1)

	want := []string{"test", "--manifest-path", filepath.Join("crate", "Cargo.toml"), "--jobs=1", "--color=always"}
	if got := c.testArgs(); !reflect.DeepEqual(got, want) {
		t.Errorf("testArgs = %v, want %v", got, want)
	}
}

func TestTestArgsDefaults(t *testing.T) {
	c := New("crate")
	c.Color("")

	want := []string{"test", "--manifest-path", filepath.Join("crate", "Cargo.toml")}
	if got := c.testArgs(); !reflect.DeepEqual(got, want) {
		t.Errorf("testArgs = %v, want %v", got, want)
	}
}
