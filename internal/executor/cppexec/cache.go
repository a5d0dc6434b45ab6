package cppexec

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// sidecar records the original source and flags alongside a cached
// shared object (§6 "Persisted caches": "sidecar file recording the
// original source and flags").
type sidecar struct {
	Source     string   `json:"source"`
	Flags      []string `json:"flags"`
	Toolchain  string   `json:"toolchain_fingerprint"`
	DetectedOf []string `json:"detected_libraries"`
}

// artifactCache is a directory of one shared-object per (block-id,
// content-hash, toolchain-fingerprint) triple (§4.7, §6). New builds one
// over the configured CacheDir on every call, so every Executor using that
// directory shares it; the cache takes no lock, and New's lookup, compile
// and store are not serialized against other Executors.
type artifactCache struct {
	dir string
}

func newArtifactCache(dir string) (*artifactCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cppexec: creating cache dir: %w", err)
	}
	return &artifactCache{dir: dir}, nil
}

func (c *artifactCache) entryPaths(blockID, hash string) (soPath, sidecarPath string) {
	base := filepath.Join(c.dir, blockID+"-"+hash)
	return base + ".so", base + ".json"
}

// Lookup returns the cached shared-object path if present, or "" if a
// fresh compile is required.
func (c *artifactCache) Lookup(blockID, hash string) string {
	soPath, _ := c.entryPaths(blockID, hash)
	if _, err := os.Stat(soPath); err != nil {
		return ""
	}
	return soPath
}

// Store writes a freshly compiled object's sidecar metadata; the object
// itself is written directly to soPath by the compile step.
func (c *artifactCache) Store(blockID, hash string, meta sidecar) error {
	_, sidecarPath := c.entryPaths(blockID, hash)
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("cppexec: encoding cache sidecar: %w", err)
	}
	return os.WriteFile(sidecarPath, data, 0o644)
}
