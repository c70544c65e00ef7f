package generator

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/robert-at-pretension-io/svdoc/internal/policy"
)

const cacheIndexVersion = 1

// cacheEntry remembers what one input produced the last time it was rendered
type cacheEntry struct {
	ContentHash string             `json:"content_hash"`
	Fingerprint string             `json:"fingerprint"`
	Module      string             `json:"module"`
	Output      string             `json:"output"`
	Violations  []policy.Violation `json:"violations,omitempty"`
}

type cacheIndex struct {
	Version int                   `json:"version"`
	Entries map[string]cacheEntry `json:"entries"`
}

// outputCache skips inputs whose content and render settings are unchanged
// and whose output file still exists.
type outputCache struct {
	dir         string
	fingerprint string
	mu          sync.Mutex
	index       cacheIndex
}

func newOutputCache(dir, fingerprint string) *outputCache {
	return &outputCache{
		dir:         dir,
		fingerprint: fingerprint,
		index: cacheIndex{
			Version: cacheIndexVersion,
			Entries: make(map[string]cacheEntry),
		},
	}
}

func (c *outputCache) indexPath() string {
	return filepath.Join(c.dir, "index.json")
}

func (c *outputCache) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.indexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read cache index: %w", err)
	}
	var idx cacheIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return fmt.Errorf("parse cache index: %w", err)
	}
	if idx.Version != cacheIndexVersion {
		// Reset on version mismatch
		return nil
	}
	if idx.Entries == nil {
		idx.Entries = make(map[string]cacheEntry)
	}
	c.index = idx
	return nil
}

func (c *outputCache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.MarshalIndent(c.index, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache index: %w", err)
	}
	return writeFileAtomic(c.indexPath(), data)
}

// Get returns the entry for filePath if it is still valid
func (c *outputCache) Get(filePath, contentHash string) (cacheEntry, bool) {
	c.mu.Lock()
	entry, ok := c.index.Entries[filePath]
	c.mu.Unlock()
	if !ok || entry.ContentHash != contentHash || entry.Fingerprint != c.fingerprint {
		return cacheEntry{}, false
	}
	if _, err := os.Stat(entry.Output); err != nil {
		return cacheEntry{}, false
	}
	return entry, true
}

func (c *outputCache) Put(filePath string, entry cacheEntry) {
	entry.Fingerprint = c.fingerprint
	c.mu.Lock()
	c.index.Entries[filePath] = entry
	c.mu.Unlock()
}

func (c *outputCache) Delete(filePath string) {
	c.mu.Lock()
	delete(c.index.Entries, filePath)
	c.mu.Unlock()
}

func hashBytes(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
