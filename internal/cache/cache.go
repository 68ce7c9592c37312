package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Key identifies one critique request.
type Key struct {
	Provider string
	Model    string
	// Request is the serialized message list sent to the model.
	Request string
}

// Hash returns the hex SHA-256 of the key, used as the entry file name.
func (k Key) Hash() string {
	h := sha256.New()
	for _, part := range []string{k.Provider, k.Model, k.Request} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Entry is a stored critique.
type Entry struct {
	Provider  string    `json:"provider"`
	Model     string    `json:"model"`
	Critique  string    `json:"critique"`
	CreatedAt time.Time `json:"createdAt"`
}

// Cache stores critiques on disk, one JSON file per request.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
	now     func() time.Time
}

// New creates a Cache. An empty dir means the default cache directory; a
// ttlSeconds of zero or less keeps entries forever.
func New(enabled bool, dir string, ttlSeconds int) (*Cache, error) {
	if !enabled {
		return &Cache{now: time.Now}, nil
	}
	if dir == "" {
		d, err := defaultCacheDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Cache{
		dir:     dir,
		ttl:     time.Duration(ttlSeconds) * time.Second,
		enabled: true,
		now:     time.Now,
	}, nil
}

// Get returns the critique stored for key. Expired entries are removed and
// reported as a miss.
func (c *Cache) Get(key Key) (string, bool) {
	if !c.enabled {
		return "", false
	}
	path := c.entryPath(key)
	entry, err := readEntry(path)
	if err != nil {
		return "", false
	}
	if c.expired(entry) {
		os.Remove(path)
		return "", false
	}
	return entry.Critique, true
}

// Put stores critique under key.
func (c *Cache) Put(key Key, critique string) error {
	if !c.enabled {
		return nil
	}
	data, err := json.Marshal(Entry{
		Provider:  key.Provider,
		Model:     key.Model,
		Critique:  critique,
		CreatedAt: c.now(),
	})
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}
	return os.WriteFile(c.entryPath(key), data, 0o644)
}

// Clear removes every entry and reports how many were removed.
func (c *Cache) Clear() (int, error) {
	return c.remove(func(string) bool { return true })
}

// Prune removes expired and unreadable entries and reports how many were
// removed.
func (c *Cache) Prune() (int, error) {
	return c.remove(func(path string) bool {
		entry, err := readEntry(path)
		return err != nil || c.expired(entry)
	})
}

func (c *Cache) remove(match func(path string) bool) (int, error) {
	paths, err := c.entries()
	if err != nil {
		return 0, err
	}
	var removed int
	for _, path := range paths {
		if !match(path) {
			continue
		}
		if err := os.Remove(path); err == nil {
			removed++
		}
	}
	return removed, nil
}

// Stats describes the cache contents.
type Stats struct {
	Dir        string         `json:"dir"`
	Entries    int            `json:"entries"`
	TotalBytes int64          `json:"totalBytes"`
	Expired    int            `json:"expired"`
	Models     map[string]int `json:"models,omitempty"`
}

// GetStats counts the entries, their size, how many have expired, and how
// many each provider/model pair produced.
func (c *Cache) GetStats() (Stats, error) {
	stats := Stats{Dir: c.dir}
	paths, err := c.entries()
	if err != nil {
		return stats, err
	}
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		stats.Entries++
		stats.TotalBytes += info.Size()

		entry, err := readEntry(path)
		if err != nil {
			continue
		}
		if c.expired(entry) {
			stats.Expired++
		}
		if stats.Models == nil {
			stats.Models = make(map[string]int)
		}
		stats.Models[entry.Provider+"/"+entry.Model]++
	}
	return stats, nil
}

// Dir returns the cache directory path.
func (c *Cache) Dir() string {
	return c.dir
}

// Enabled returns whether caching is enabled.
func (c *Cache) Enabled() bool {
	return c.enabled
}

func (c *Cache) expired(e Entry) bool {
	return c.ttl > 0 && c.now().Sub(e.CreatedAt) > c.ttl
}

func (c *Cache) entries() ([]string, error) {
	if !c.enabled || c.dir == "" {
		return nil, nil
	}
	des, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cache directory: %w", err)
	}
	var paths []string
	for _, e := range des {
		if e.Type().IsRegular() && filepath.Ext(e.Name()) == ".json" {
			paths = append(paths, filepath.Join(c.dir, e.Name()))
		}
	}
	return paths, nil
}

func (c *Cache) entryPath(key Key) string {
	return filepath.Join(c.dir, key.Hash()+".json")
}

func readEntry(path string) (Entry, error) {
	var entry Entry
	data, err := os.ReadFile(path)
	if err != nil {
		return entry, err
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		return entry, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return entry, nil
}

func defaultCacheDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "unprompted"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Caches", "unprompted"), nil
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "unprompted", "cache"), nil
		}
		return filepath.Join(home, "AppData", "Local", "unprompted", "cache"), nil
	default:
		return filepath.Join(home, ".cache", "unprompted"), nil
	}
}
