// Package journal keeps an append-only log of bookmark changes and connections.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/treykane/sshmark/internal/appconfig"
)

const fileName = "journal.jsonl"

// Action names what happened to a bookmark.
type Action string

const (
	ActionAdded       Action = "added"
	ActionOverwritten Action = "overwritten"
	ActionRemoved     Action = "removed"
	ActionConnected   Action = "connected"
	ActionImported    Action = "imported"
)

// Event is one record persisted to journal.jsonl.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Key       string    `json:"key"`
	Action    Action    `json:"action"`
	Addr      string    `json:"addr,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// Query controls event filtering and bounded reads.
type Query struct {
	Key    string
	Action Action
	Since  time.Time
	Limit  int
}

// Store provides append/read access to the journal. A disabled store
// accepts appends and drops them.
type Store struct {
	paths    appconfig.Paths
	disabled bool
}

func NewStore(p appconfig.Paths, enabled bool) *Store {
	return &Store{paths: p, disabled: !enabled}
}

// Append writes a single event as one JSON line.
func (s *Store) Append(evt Event) error {
	if s.disabled {
		return nil
	}
	path, err := s.paths.PlaceDataFile(fileName)
	if err != nil {
		return err
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(b, '\n')); err != nil {
		return err
	}
	return nil
}

// Read returns events in append order, filtered by query, keeping only the
// last Limit matches when Limit is positive.
func (s *Store) Read(q Query) ([]Event, error) {
	path, ok := s.paths.FindDataFile(fileName)
	if !ok {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var out []Event
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var evt Event
		if err := json.Unmarshal([]byte(line), &evt); err != nil {
			continue
		}
		if !matches(evt, q) {
			continue
		}
		out = append(out, evt)
		if q.Limit > 0 && len(out) > q.Limit {
			out = out[len(out)-q.Limit:]
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan journal: %w", err)
	}
	return out, nil
}

func matches(evt Event, q Query) bool {
	if q.Key != "" && evt.Key != q.Key {
		return false
	}
	if q.Action != "" && evt.Action != q.Action {
		return false
	}
	if !q.Since.IsZero() && evt.Timestamp.Before(q.Since) {
		return false
	}
	return true
}
