package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry captures metadata alongside a cached extraction response.
type Entry struct {
	SourceName string    `json:"source_name"`
	SavedAt    time.Time `json:"saved_at"`
}

// ExtractionCache stores extraction-service responses on disk as
// <key>.meta.json and <key>.body where key is sha256 of the source file
// bytes, so a re-extraction of unchanged content skips the network. It is a
// simple, deterministic cache; no eviction policy beyond Purge.
type ExtractionCache struct {
	Dir string
}

func (c *ExtractionCache) ensureDir() error {
	if c == nil || c.Dir == "" {
		return errors.New("cache dir not configured")
	}
	return os.MkdirAll(c.Dir, 0o755)
}

// Key returns the cache key for source content.
func (c *ExtractionCache) Key(source []byte) string {
	h := sha256.Sum256(source)
	return hex.EncodeToString(h[:])
}

func (c *ExtractionCache) metaPath(key string) string { return filepath.Join(c.Dir, key+".meta.json") }
func (c *ExtractionCache) bodyPath(key string) string { return filepath.Join(c.Dir, key+".body") }

// Load returns the cached response body for a key, if present.
func (c *ExtractionCache) Load(_ context.Context, key string) ([]byte, error) {
	if err := c.ensureDir(); err != nil {
		return nil, err
	}
	return os.ReadFile(c.bodyPath(key))
}

// Save stores a response body and its metadata to disk. The meta file is
// written last via rename so a partially written entry is never observed.
func (c *ExtractionCache) Save(_ context.Context, key string, sourceName string, body []byte) error {
	if err := c.ensureDir(); err != nil {
		return err
	}
	if err := os.WriteFile(c.bodyPath(key), body, 0o644); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	meta := Entry{SourceName: sourceName, SavedAt: time.Now().UTC()}
	tmp := c.metaPath(key) + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create meta: %w", err)
	}
	if err := json.NewEncoder(f).Encode(&meta); err != nil {
		f.Close()
		return fmt.Errorf("encode meta: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, c.metaPath(key))
}

// Purge removes entries older than maxAge. A zero maxAge disables purging.
func (c *ExtractionCache) Purge(_ context.Context, maxAge time.Duration) error {
	if maxAge <= 0 {
		return nil
	}
	if err := c.ensureDir(); err != nil {
		return err
	}
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		return err
	}
	cutoff := time.Now().UTC().Add(-maxAge)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".meta.json") {
			continue
		}
		key := strings.TrimSuffix(e.Name(), ".meta.json")
		b, err := os.ReadFile(c.metaPath(key))
		if err != nil {
			continue
		}
		var meta Entry
		if err := json.Unmarshal(b, &meta); err != nil || meta.SavedAt.Before(cutoff) {
			os.Remove(c.metaPath(key))
			os.Remove(c.bodyPath(key))
		}
	}
	return nil
}
