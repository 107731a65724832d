package upscale

import (
	"image/jpeg"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings that are not part of the CLI surface.
// Everything has a working default; a .env file or the environment can
// override each value.
type Config struct {
	// HubBaseURL is the base URL pretrained weight files are fetched from.
	HubBaseURL string
	// CacheDir is where fetched weight files are kept between runs.
	CacheDir string
	// JPEGQuality is used when encoding .jpg/.jpeg outputs.
	JPEGQuality int
}

// LoadConfig reads configuration from the environment, consulting a .env
// file when one is present.
func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		HubBaseURL:  getEnv("SI_RESIZE_HUB", "https://huggingface.co"),
		CacheDir:    os.Getenv("SI_RESIZE_CACHE"),
		JPEGQuality: getEnvInt("SI_RESIZE_JPEG_QUALITY", jpeg.DefaultQuality),
	}

	if cfg.CacheDir == "" {
		if base, err := os.UserCacheDir(); err == nil {
			cfg.CacheDir = filepath.Join(base, "si-resize")
		} else {
			cfg.CacheDir = ".si-resize"
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
