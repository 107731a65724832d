package upscale

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nfnt/resize"
)

// Hub resolves pretrained model weights. Weight files are JSON layer arrays
// published under a fully-qualified reference; they are fetched once and
// cached on disk, so only the first run for a given model and scale touches
// the network.
type Hub struct {
	baseURL  string
	cacheDir string
	client   *http.Client
}

// NewHub returns a Hub using the configured base URL and cache directory.
func NewHub(cfg *Config) *Hub {
	return &Hub{
		baseURL:  strings.TrimRight(cfg.HubBaseURL, "/"),
		cacheDir: cfg.CacheDir,
		client:   &http.Client{Timeout: 5 * time.Minute},
	}
}

// Load maps a short model identifier and scale factor to a ready-to-invoke
// Model. The short identifier selects the family constructor; the
// fully-qualified reference names the pretrained weights. Scale must be 2, 3
// or 4.
func (h *Hub) Load(short, full string, scale int) (Model, error) {
	if scale < 2 || scale > 4 {
		return nil, fmt.Errorf("scale must be 2, 3 or 4, got %d", scale)
	}
	build, ok := families[short]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedModel, short)
	}
	return build(h, full, scale)
}

func (h *Hub) pretrained(family, ref string, scale int, kernel resize.InterpolationFunction) (Model, error) {
	layers, err := h.weights(ref, scale)
	if err != nil {
		return nil, fmt.Errorf("load %s weights for %s: %w", family, ref, err)
	}
	return &srModel{
		family: family,
		scale:  scale,
		kernel: kernel,
		net:    &network{layers: layers},
	}, nil
}

// weights returns the parsed layer stack for ref at the given scale, fetching
// it into the cache when missing.
func (h *Hub) weights(ref string, scale int) ([]layerSpec, error) {
	name := fmt.Sprintf("model_%dx.json", scale)
	local := filepath.Join(h.cacheDir, filepath.FromSlash(ref), name)

	if _, err := os.Stat(local); err != nil {
		url := fmt.Sprintf("%s/%s/resolve/main/%s", h.baseURL, ref, name)
		if err := h.fetch(url, local); err != nil {
			return nil, err
		}
	}

	raw, err := os.ReadFile(local)
	if err != nil {
		return nil, err
	}
	var layers []layerSpec
	if err := json.Unmarshal(raw, &layers); err != nil {
		return nil, fmt.Errorf("parse %s: %w", local, err)
	}
	return layers, nil
}

// fetch downloads url into dest, writing through a temp file so a partial
// download never poisons the cache.
func (h *Hub) fetch(url, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	resp, err := h.client.Get(url)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}
