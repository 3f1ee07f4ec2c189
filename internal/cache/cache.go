// Package cache provides response caches for API calls.
//
// Two backends implement the same Get/Set contract: JSON files on disk and
// Redis. Entries expire after a TTL (default 5 minutes). COLOMBIA_NO_CACHE=1
// disables every backend.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const DefaultTTL = 5 * time.Minute

// Backend names accepted by New.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Store is a byte cache keyed by request identity.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Clear(ctx context.Context) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend  string
	TTL      time.Duration
	Dir      string // file backend; empty uses DefaultDir
	RedisURL string // redis backend, e.g. redis://localhost:6379/0
}

// New creates the Store named by opts.Backend.
func New(opts Options) (Store, error) {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendFile:
		dir := opts.Dir
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, fmt.Errorf("resolve cache dir: %w", err)
			}
			dir = d
		}
		return NewFileStore(dir, ttl), nil
	case BackendRedis:
		return NewRedisStore(opts.RedisURL, ttl)
	default:
		return nil, fmt.Errorf("invalid cache backend %q: must be file or redis", opts.Backend)
	}
}

type entry struct {
	CachedAt time.Time       `json:"cached_at"`
	Key      string          `json:"key"`
	Body     json.RawMessage `json:"body"`
}

// FileStore keeps one JSON file per key under dir.
type FileStore struct {
	dir string
	ttl time.Duration
}

// NewFileStore creates a FileStore. A non-positive ttl uses DefaultTTL.
func NewFileStore(dir string, ttl time.Duration) *FileStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &FileStore{dir: dir, ttl: ttl}
}

// Dir returns the directory entries are written to.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(key string) string {
	hash := sha1.Sum([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(hash[:])+".json")
}

// Get returns the cached body for key. Returns false on miss (no file, expired,
// corrupt, key collision or disabled).
func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool) {
	if disabled() {
		return nil, false
	}
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false
	}
	if e.Key != key || time.Since(e.CachedAt) > s.ttl {
		return nil, false
	}
	return e.Body, true
}

// Set writes value under key. Silently no-ops on error or when disabled.
// value must be valid JSON.
func (s *FileStore) Set(_ context.Context, key string, value []byte) {
	if disabled() {
		return
	}
	data, err := json.Marshal(entry{
		CachedAt: time.Now(),
		Key:      key,
		Body:     json.RawMessage(value),
	})
	if err != nil {
		slog.Debug("cache encode failed", "key", key, "error", err)
		return
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return
	}

	path := s.path(key)
	tmp, err := os.CreateTemp(s.dir, ".entry-*.tmp")
	if err != nil {
		return
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
	}
}

// Clear removes every entry written by this store.
func (s *FileStore) Clear(_ context.Context) error {
	return ClearAll(s.dir)
}

// Close is a no-op for files.
func (s *FileStore) Close() error {
	return nil
}

// ClearAll removes all cache files from the directory.
// For safety, it only removes files matching this project's cache filename scheme.
func ClearAll(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !isCacheFilename(e.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// DefaultDir returns "$XDG_CACHE_HOME/colombia-cli" or the platform equivalent.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "colombia-cli"), nil
}

func disabled() bool {
	return os.Getenv("COLOMBIA_NO_CACHE") != ""
}

func isCacheFilename(name string) bool {
	// Expected: "<40hex>.json"
	if filepath.Ext(name) != ".json" {
		return false
	}
	base := strings.TrimSuffix(name, ".json")
	return len(base) == 40 && isHex(base)
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		default:
			return false
		}
	}
	return true
}
