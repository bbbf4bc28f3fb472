// Package history records when each bookmark was last connected to.
package history

import (
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/treykane/sshmark/internal/appconfig"
)

const fileName = "history.json"

type store struct {
	LastUsed map[string]int64 `json:"last_used"`
}

// Touch records a connection to key.
func Touch(p appconfig.Paths, key string) error {
	st, err := load(p)
	if err != nil {
		return err
	}
	st.LastUsed[key] = time.Now().Unix()
	return save(p, st)
}

// Forget drops key from the history. Missing keys are ignored.
func Forget(p appconfig.Paths, key string) error {
	st, err := load(p)
	if err != nil {
		return err
	}
	if _, ok := st.LastUsed[key]; !ok {
		return nil
	}
	delete(st.LastUsed, key)
	return save(p, st)
}

// LastUsed returns last connection timestamps by key.
func LastUsed(p appconfig.Paths) (map[string]int64, error) {
	st, err := load(p)
	if err != nil {
		return nil, err
	}
	return st.LastUsed, nil
}

// SortKeysRecent returns a new slice sorted by recent use (desc), then key.
func SortKeysRecent(keys []string, lastUsed map[string]int64) []string {
	out := append([]string(nil), keys...)
	sort.Slice(out, func(i, j int) bool {
		ti := lastUsed[out[i]]
		tj := lastUsed[out[j]]
		if ti != tj {
			return ti > tj
		}
		return out[i] < out[j]
	})
	return out
}

func load(p appconfig.Paths) (store, error) {
	path, ok := p.FindDataFile(fileName)
	if !ok {
		return store{LastUsed: map[string]int64{}}, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store{LastUsed: map[string]int64{}}, nil
		}
		return store{}, err
	}
	var st store
	if err := json.Unmarshal(b, &st); err != nil {
		return store{LastUsed: map[string]int64{}}, nil
	}
	if st.LastUsed == nil {
		st.LastUsed = map[string]int64{}
	}
	return st, nil
}

func save(p appconfig.Paths, st store) error {
	path, err := p.PlaceDataFile(fileName)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
