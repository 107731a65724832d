package upscale

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// fakeModel upscales by allocating a blank raster of the scaled dimensions.
// It records how often it was invoked so tests can assert the skip rules.
type fakeModel struct {
	scale int
	calls int
}

func (m *fakeModel) Scale() int { return m.scale }

func (m *fakeModel) Upscale(img image.Image) (image.Image, error) {
	m.calls++
	b := img.Bounds()
	return image.NewRGBA(image.Rect(0, 0, b.Dx()*m.scale, b.Dy()*m.scale)), nil
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(40 * x), G: uint8(40 * y), B: 90, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestUpscaleRequiresModel(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, 2, 2)

	err := Upscale(Job{Input: in, Output: filepath.Join(dir, "out.png"), Scale: 2})
	if !errors.Is(err, ErrNoModel) {
		t.Fatalf("expected ErrNoModel, got %v", err)
	}
}

func TestUpscaleMissingInput(t *testing.T) {
	dir := t.TempDir()
	err := Upscale(Job{
		Input:  filepath.Join(dir, "nope.png"),
		Output: filepath.Join(dir, "out.png"),
		Scale:  2,
		Model:  &fakeModel{scale: 2},
	})
	if err == nil {
		t.Fatal("expected error for missing input")
	}
}

func TestUpscaleWritesOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writePNG(t, in, 3, 3)

	m := &fakeModel{scale: 2}
	if err := Upscale(Job{Input: in, Output: out, Scale: 2, Model: m}); err != nil {
		t.Fatal(err)
	}
	if m.calls != 1 {
		t.Errorf("model invoked %d times, want 1", m.calls)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 6 || b.Dy() != 6 {
		t.Errorf("output is %dx%d, want 6x6", b.Dx(), b.Dy())
	}
}

func TestUpscaleRejectsUnknownOutputFormat(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.xyz")
	writePNG(t, in, 2, 2)

	err := Upscale(Job{Input: in, Output: out, Scale: 2, Model: &fakeModel{scale: 2}})
	if err == nil {
		t.Fatal("expected unsupported-format error")
	}
	if _, statErr := os.Stat(out); statErr == nil {
		t.Error("output file created despite encode error")
	}
}
