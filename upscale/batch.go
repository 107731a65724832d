package upscale

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultSuffix marks generated high-resolution outputs and flags inputs
// that were already processed.
const DefaultSuffix = "-upscaled"

// supportedExts is the set of extensions eligible for directory-mode
// discovery, matched case-insensitively.
var supportedExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
	".bmp":  {},
	".tiff": {},
}

// Runner drives a whole run: it decides between single-file and directory
// mode, applies the skip rules, and feeds jobs to the invoker. The model is
// loaded by the caller, once, before Run.
type Runner struct {
	Model   Model
	Scale   int
	Suffix  string
	Output  string // explicit --output; empty means derive per file
	Quality int
	Log     zerolog.Logger
}

// Run processes the input path. Errors returned here are fatal to the run;
// per-file errors in directory mode are logged and swallowed.
func (r *Runner) Run(input string) error {
	path := NormalizePath(input)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("input file not found or is not a file: %s", input)
	}
	if info.IsDir() {
		return r.runDir(path)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("input file not found or is not a file: %s", input)
	}
	return r.runFile(path)
}

func (r *Runner) runFile(path string) error {
	if r.alreadyUpscaled(path) {
		r.Log.Info().Str("path", path).Msg("skipping, already upscaled")
		return nil
	}

	out := r.Output
	if out == "" {
		out = DefaultOutputFor(path, r.suffix())
	}
	if exists(out) {
		r.Log.Info().Str("path", out).Msg("skipping, target exists")
		return nil
	}

	if err := Upscale(r.job(path, out)); err != nil {
		return fmt.Errorf("upscaling %s: %w", path, err)
	}
	r.Log.Info().Str("path", out).Msg("saved upscaled image")
	return nil
}

func (r *Runner) runDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("directory not found: %s", dir)
	}

	// Immediate children only, supported extensions only. Sorted so batch
	// order does not depend on the filesystem.
	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if _, ok := supportedExts[strings.ToLower(filepath.Ext(e.Name()))]; ok {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		return fmt.Errorf("no supported image files found in: %s", dir)
	}

	outDir := dir
	if r.Output != "" {
		outDir = NormalizePath(r.Output)
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("cannot create output directory: %w", err)
		}
	}

	for _, name := range names {
		src := filepath.Join(dir, name)
		if r.alreadyUpscaled(src) {
			r.Log.Info().Str("path", src).Msg("skipping, already upscaled")
			continue
		}

		out := filepath.Join(outDir, DefaultOutputFor(name, r.suffix()))
		if exists(out) {
			r.Log.Info().Str("path", out).Msg("skipping, target exists")
			continue
		}

		// A failure here is this file's problem, not the batch's.
		if err := Upscale(r.job(src, out)); err != nil {
			r.Log.Error().Err(err).Str("file", name).Msg("error processing file")
			continue
		}
		r.Log.Info().Str("path", out).Msg("saved upscaled image")
	}
	return nil
}

// alreadyUpscaled reports whether the file name carries the upscale suffix.
// The stem is a substring of the base name, so a single check covers both.
func (r *Runner) alreadyUpscaled(path string) bool {
	return strings.Contains(filepath.Base(path), r.suffix())
}

func (r *Runner) suffix() string {
	if r.Suffix == "" {
		return DefaultSuffix
	}
	return r.Suffix
}

func (r *Runner) job(input, output string) Job {
	return Job{
		Input:   input,
		Output:  output,
		Scale:   r.Scale,
		Model:   r.Model,
		Quality: r.Quality,
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
