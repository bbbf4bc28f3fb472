package bookmark

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

// FileName is the bookmarks document inside the data directory.
const FileName = "bookmarks.json"

// Locator resolves data file locations.
type Locator interface {
	// FindDataFile returns the first existing file with the given name.
	FindDataFile(name string) (string, bool)
	// PlaceDataFile returns the path a new data file should be written to,
	// creating its parent directory.
	PlaceDataFile(name string) (string, error)
}

// Store maps bookmark keys to entries. Persistence is explicit: nothing is
// written until Save is called.
type Store struct {
	loc     Locator
	path    string
	entries map[string]Entry
}

// Load reads the bookmarks document. A missing or zero-byte document yields
// an empty store.
func Load(loc Locator) (*Store, error) {
	s := &Store{loc: loc, entries: map[string]Entry{}}
	path, ok := loc.FindDataFile(FileName)
	if !ok {
		return s, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read bookmarks: %w", err)
	}
	s.path = path
	if len(b) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(b, &s.entries); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	if s.entries == nil {
		s.entries = map[string]Entry{}
	}
	return s, nil
}

// Path returns the document the store was loaded from, or "" when none existed.
func (s *Store) Path() string { return s.path }

// Insert adds or replaces the entry at key. See NewEntry for rawArgs.
func (s *Store) Insert(key, addr string, rawArgs ...string) {
	s.entries[key] = NewEntry(addr, rawArgs...)
}

// Put adds or replaces the entry at key.
func (s *Store) Put(key string, e Entry) {
	s.entries[key] = e
}

// Get looks up key without removing it.
func (s *Store) Get(key string) (Entry, bool) {
	e, ok := s.entries[key]
	return e, ok
}

// Remove takes the entry at key out of the store.
func (s *Store) Remove(key string) (Entry, bool) {
	e, ok := s.entries[key]
	if !ok {
		return Entry{}, false
	}
	delete(s.entries, key)
	return e, true
}

func (s *Store) Len() int { return len(s.entries) }

// Keys returns all keys in lexicographic order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entries returns a copy of the mapping.
func (s *Store) Entries() map[string]Entry {
	out := make(map[string]Entry, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// Save rewrites the whole document. The existing document is reused when
// there is one; otherwise a new one is placed in the data home. Nothing is
// written if any bookmark fails Validate.
func (s *Store) Save() error {
	for _, key := range s.Keys() {
		if err := Validate(key, s.entries[key]); err != nil {
			return err
		}
	}
	path, ok := s.loc.FindDataFile(FileName)
	if !ok {
		var err error
		path, err = s.loc.PlaceDataFile(FileName)
		if err != nil {
			return fmt.Errorf("place bookmarks: %w", err)
		}
	}
	b, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return err
	}
	if err := writeFileAtomic(path, b, 0o600); err != nil {
		return fmt.Errorf("write bookmarks: %w", err)
	}
	s.path = path
	return nil
}

func (s *Store) String() string {
	return s.Format(s.Keys())
}

// Format renders the given keys one per line as "key -> entry", keys
// right-aligned to the widest one. Keys not in the store are skipped.
func (s *Store) Format(keys []string) string {
	width := 0
	for _, k := range keys {
		if _, ok := s.entries[k]; !ok {
			continue
		}
		if n := utf8.RuneCountInString(k); n > width {
			width = n
		}
	}
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		e, ok := s.entries[k]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%*s -> %s", width, k, e))
	}
	return strings.Join(lines, "\n")
}

// writeFileAtomic replaces path through a temp file in the same directory.
// A symlinked path is resolved first so the link target is what changes.
func writeFileAtomic(path string, b []byte, perm os.FileMode) error {
	if real, err := filepath.EvalSymlinks(path); err == nil {
		path = real
	}
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(b); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Chmod(perm); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
