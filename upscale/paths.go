package upscale

import (
	"os"
	"path/filepath"
	"strings"
)

// NormalizePath expands a leading "~" to the user's home directory and, when
// the filesystem allows it, resolves the path to an absolute symlink-free
// form. Paths that cannot be resolved (typically because they do not exist
// yet) come back in their expanded form; the function never fails.
func NormalizePath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// DefaultOutputFor derives the default output path for an input file: same
// parent directory, filename = stem + suffix + extension. Inputs without an
// extension get ".jpg". Pure path math, no I/O.
func DefaultOutputFor(path, suffix string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == base {
		// Dotfiles like ".config" have no extension, only a stem.
		ext = ""
	}
	stem := strings.TrimSuffix(base, ext)
	if ext == "" {
		ext = ".jpg"
	}
	return filepath.Join(filepath.Dir(path), stem+suffix+ext)
}
