package system

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWorkersIsPositive(t *testing.T) {
	if n := Workers(1920 * 1080 * 4); n < 1 {
		t.Fatalf("Workers = %d", n)
	}
	if n := Workers(0); n < 1 {
		t.Fatalf("Workers without frame size = %d", n)
	}
}

func TestFindLatestSVG(t *testing.T) {
	dir := t.TempDir()

	older := filepath.Join(dir, "a.svg")
	newer := filepath.Join(dir, "b.svg")
	decoy := filepath.Join(dir, "c.txt")
	for _, p := range []string{older, newer, decoy} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatal(err)
	}

	got, err := FindLatestSVG(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != newer {
		t.Errorf("FindLatestSVG = %s, want %s", got, newer)
	}
}

func TestFindLatestSVGEmptyDir(t *testing.T) {
	if _, err := FindLatestSVG(t.TempDir()); err == nil {
		t.Error("expected error for empty directory")
	}
}

func TestFramePoolRoundTrip(t *testing.T) {
	a := GetFrame(64, 48)
	if a.Rect.Dx() != 64 || a.Rect.Dy() != 48 {
		t.Fatalf("frame bounds = %v", a.Rect)
	}
	PutFrame(a)

	b := GetFrame(64, 48)
	if b.Rect.Dx() != 64 || b.Rect.Dy() != 48 {
		t.Fatalf("recycled frame bounds = %v", b.Rect)
	}
	PutFrame(b)

	PutFrame(nil)
}
