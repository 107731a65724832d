package upscale

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultOutputFor(t *testing.T) {
	cases := []struct {
		path   string
		suffix string
		want   string
	}{
		{filepath.Join("d", "img.png"), "-upscaled", filepath.Join("d", "img-upscaled.png")},
		{filepath.Join("d", "img.PNG"), "-upscaled", filepath.Join("d", "img-upscaled.PNG")},
		{filepath.Join("d", "img"), "-upscaled", filepath.Join("d", "img-upscaled.jpg")},
		{"img.png", "_X", "img_X.png"},
		{filepath.Join("d", ".config"), "-upscaled", filepath.Join("d", ".config-upscaled.jpg")},
		{filepath.Join("a", "b", "photo.jpeg"), "-hi", filepath.Join("a", "b", "photo-hi.jpeg")},
	}
	for _, c := range cases {
		got := DefaultOutputFor(c.path, c.suffix)
		if got != c.want {
			t.Errorf("DefaultOutputFor(%q, %q) = %q, want %q", c.path, c.suffix, got, c.want)
		}
	}
}

func TestDefaultOutputForKeepsParent(t *testing.T) {
	in := filepath.Join("some", "deep", "dir", "x.bmp")
	out := DefaultOutputFor(in, "-upscaled")
	if filepath.Dir(out) != filepath.Dir(in) {
		t.Errorf("parent changed: %q -> %q", in, out)
	}
}

func TestNormalizePathAbsolute(t *testing.T) {
	got := NormalizePath(filepath.Join("no", "such", "file.png"))
	if !filepath.IsAbs(got) {
		t.Errorf("expected absolute path, got %q", got)
	}
	if filepath.Base(got) != "file.png" {
		t.Errorf("base name changed: %q", got)
	}
}

func TestNormalizePathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got := NormalizePath("~/pictures/cat.png")
	want := filepath.Join(home, "pictures", "cat.png")
	if got != want {
		t.Errorf("NormalizePath(~/...) = %q, want %q", got, want)
	}
}

func TestNormalizePathExisting(t *testing.T) {
	dir := t.TempDir()
	got := NormalizePath(dir)
	if _, err := os.Stat(got); err != nil {
		t.Errorf("normalized existing dir does not exist: %q", got)
	}
}
