package upscale

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrNoModel is returned when a Job carries no loaded model. The invoker
// never silently falls back to a default model.
var ErrNoModel = errors.New("model instance is required; load the model once and attach it to the job")

// Job is one unit of work: upscale Input by Scale using Model and write the
// result to Output. Jobs are built by the Runner and consumed exactly once.
type Job struct {
	Input   string
	Output  string
	Scale   int
	Model   Model
	Quality int
}

// Upscale decodes the job's input image, converts it to a 3-channel RGB
// raster, invokes the model and encodes the result at the output path. An
// existing file at the output path is overwritten; callers that want
// skip-if-exists semantics check before building the job.
func Upscale(job Job) error {
	if job.Model == nil {
		return ErrNoModel
	}

	info, err := os.Stat(job.Input)
	if err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("input file not found: %s", job.Input)
	}

	src, err := decodeImage(job.Input)
	if err != nil {
		return err
	}

	dst, err := job.Model.Upscale(toRGB(src))
	if err != nil {
		return err
	}

	return encodeImage(job.Output, dst, job.Quality)
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// toRGB redraws img onto an RGBA raster anchored at the origin, giving the
// model a single fixed color representation to work with.
func toRGB(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func encodeImage(path string, img image.Image, quality int) error {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".bmp", ".tiff", ".tif", ".webp":
	default:
		return fmt.Errorf("unsupported output format: %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if quality <= 0 {
		quality = jpeg.DefaultQuality
	}

	switch ext {
	case ".png":
		err = png.Encode(f, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: quality})
	case ".bmp":
		err = bmp.Encode(f, img)
	case ".tiff", ".tif":
		err = tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	case ".webp":
		err = nativewebp.Encode(f, img, nil)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
