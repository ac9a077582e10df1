// Package cache is the durable response store. Accepted results are
// written one JSON record per fingerprint under the cache directory,
// fronted by an in-memory LRU hot tier. Entries evaluated under an
// older registry version stay on disk for audit but are never served.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gzhole/genguard/internal/score"
)

// schemaVersion is bumped whenever the record layout changes. Records
// with an unknown schema degrade to a miss, never an error.
const schemaVersion = 1

// hotSize bounds the in-memory tier.
const hotSize = 512

// ErrPinned is returned by Put when an existing entry is pinned and the
// overwrite is refused.
var ErrPinned = errors.New("cache entry is pinned")

// Entry is one cached, previously accepted result.
type Entry struct {
	Fingerprint     string       `json:"fingerprint"`
	RegistryVersion string       `json:"registry_version"`
	Code            string       `json:"code"`
	Result          score.Result `json:"result"`
	CreatedAt       time.Time    `json:"created_at"`
	Pinned          bool         `json:"pinned,omitempty"`
}

type record struct {
	Schema int   `json:"schema"`
	Entry  Entry `json:"entry"`
}

// Stats summarizes the on-disk store against a registry version.
type Stats struct {
	Total int
	Stale int
}

// Store is safe for concurrent use. Writes are serialized per
// fingerprint; distinct fingerprints never block each other.
type Store struct {
	dir   string
	hot   *lru.Cache[string, Entry]
	locks [64]sync.Mutex
}

// Open creates the cache directory if needed and returns a store.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	hot, err := lru.New[string, Entry](hotSize)
	if err != nil {
		return nil, err
	}
	return &Store{dir: dir, hot: hot}, nil
}

// Get returns the entry for fingerprint, or ok=false on a miss. A miss
// covers three cases that callers treat identically: no record, a
// record evaluated under a registry version other than currentVersion
// (stale), and any read or decode failure. The cache never blocks a
// request on its own health.
func (s *Store) Get(fingerprint, currentVersion string) (Entry, bool) {
	if e, ok := s.hot.Get(fingerprint); ok {
		if e.RegistryVersion == currentVersion {
			return e, true
		}
		return Entry{}, false // stale; keep the record for audit
	}

	data, err := os.ReadFile(s.path(fingerprint))
	if err != nil {
		return Entry{}, false
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil || rec.Schema != schemaVersion {
		return Entry{}, false
	}

	s.hot.Add(fingerprint, rec.Entry)
	if rec.Entry.RegistryVersion != currentVersion {
		return Entry{}, false
	}
	return rec.Entry, true
}

// Put stores the entry durably, overwriting any previous record for the
// same fingerprint unless that record is pinned. The write lands via a
// temp file, fsync, and rename, so a crash after Put returns never
// loses the entry.
func (s *Store) Put(e Entry) error {
	lock := &s.locks[s.stripe(e.Fingerprint)]
	lock.Lock()
	defer lock.Unlock()

	if prev, ok := s.peek(e.Fingerprint); ok && prev.Pinned {
		return fmt.Errorf("put %s: %w", e.Fingerprint[:12], ErrPinned)
	}

	data, err := json.Marshal(record{Schema: schemaVersion, Entry: e})
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	if err := s.writeDurable(s.path(e.Fingerprint), data); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}

	s.hot.Add(e.Fingerprint, e)
	return nil
}

// Scan reports how many records exist and how many are stale relative
// to currentVersion. Unreadable records count as stale.
func (s *Store) Scan(currentVersion string) (Stats, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return Stats{}, err
	}

	var st Stats
	for _, de := range entries {
		if de.IsDir() || filepath.Ext(de.Name()) != ".json" {
			continue
		}
		st.Total++

		data, err := os.ReadFile(filepath.Join(s.dir, de.Name()))
		if err != nil {
			st.Stale++
			continue
		}
		var rec record
		if err := json.Unmarshal(data, &rec); err != nil ||
			rec.Schema != schemaVersion ||
			rec.Entry.RegistryVersion != currentVersion {
			st.Stale++
		}
	}
	return st, nil
}

// peek reads an existing record without version filtering.
func (s *Store) peek(fingerprint string) (Entry, bool) {
	if e, ok := s.hot.Get(fingerprint); ok {
		return e, true
	}
	data, err := os.ReadFile(s.path(fingerprint))
	if err != nil {
		return Entry{}, false
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Entry{}, false
	}
	return rec.Entry, true
}

func (s *Store) writeDurable(path string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".put-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (s *Store) path(fingerprint string) string {
	return filepath.Join(s.dir, fingerprint+".json")
}

func (s *Store) stripe(fingerprint string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(fingerprint))
	return h.Sum32() % uint32(len(s.locks))
}
