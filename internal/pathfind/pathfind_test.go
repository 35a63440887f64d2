package pathfind

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindFolder_Found(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "projects", "shared-data")
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatal(err)
	}

	f := Finder{Roots: []string{root}}
	got, ok := f.FindFolder("shared-data")
	if !ok {
		t.Fatalf("folder not found under %s", root)
	}
	if want := ReplaceHome(target); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestFindFolder_Miss(t *testing.T) {
	root := t.TempDir()
	f := Finder{Roots: []string{root}}
	if got, ok := f.FindFolder("does-not-exist"); ok {
		t.Fatalf("unexpected hit: %s", got)
	}
}

func TestFindFolder_VisitLimit(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 20; i++ {
		if err := os.MkdirAll(filepath.Join(root, "d", string(rune('a'+i))), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	// Target sorts last, so a tiny limit stops the walk before reaching it.
	if err := os.MkdirAll(filepath.Join(root, "zzz", "needle"), 0o755); err != nil {
		t.Fatal(err)
	}

	f := Finder{Roots: []string{root}, VisitLimit: 3}
	if got, ok := f.FindFolder("needle"); ok {
		t.Fatalf("visit limit not enforced, found %s", got)
	}

	f = Finder{Roots: []string{root}}
	if _, ok := f.FindFolder("needle"); !ok {
		t.Fatalf("default limit should find the folder")
	}
}

func TestReplaceHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory in test environment")
	}
	got := ReplaceHome(filepath.Join(home, "work", "data"))
	want := filepath.Join("$HOME", "work", "data")
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if ReplaceHome("/srv/data") != "/srv/data" {
		t.Fatalf("paths outside home must be untouched")
	}
}
