// Package sshconfig reads host definitions out of an OpenSSH client config.
package sshconfig

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/kevinburke/ssh_config"
	"github.com/treykane/sshmark/internal/model"
	"github.com/treykane/sshmark/internal/util"
)

type ImportResult struct {
	Hosts    []model.HostEntry
	Warnings []string
}

// DefaultPath returns ~/.ssh/config.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".ssh", "config"), nil
}

// ImportFile decodes the config at path. Include directives are not followed.
func ImportFile(path string) (ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Import(f)
}

// Import returns one HostEntry per concrete alias, sorted by alias. Wildcard
// and negated patterns are skipped; their directives still apply to the
// aliases they match.
func Import(r io.Reader) (ImportResult, error) {
	cfg, err := ssh_config.Decode(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("parse ssh config: %w", err)
	}

	var res ImportResult
	seen := map[string]bool{}
	for _, host := range cfg.Hosts {
		for _, pat := range host.Patterns {
			alias := pat.String()
			if !isConcrete(alias) || !host.Matches(alias) || seen[alias] {
				continue
			}
			seen[alias] = true
			entry, warnings := resolve(cfg, alias)
			res.Hosts = append(res.Hosts, entry)
			res.Warnings = append(res.Warnings, warnings...)
		}
	}
	sort.Slice(res.Hosts, func(i, j int) bool { return res.Hosts[i].Alias < res.Hosts[j].Alias })
	return res, nil
}

func resolve(cfg *ssh_config.Config, alias string) (model.HostEntry, []string) {
	var warnings []string
	get := func(key string) string {
		v, err := cfg.Get(alias, key)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %s: %v", alias, key, err))
			return ""
		}
		return strings.TrimSpace(v)
	}

	entry := model.HostEntry{
		Alias:        alias,
		HostName:     get("HostName"),
		User:         get("User"),
		IdentityFile: get("IdentityFile"),
		ProxyJump:    get("ProxyJump"),
	}
	if raw := get("Port"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err == nil {
			err = util.ValidatePort(port)
		}
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: ignoring port %q: %v", alias, raw, err))
		} else {
			entry.Port = port
		}
	}
	return entry, warnings
}

func isConcrete(pattern string) bool {
	return pattern != "" && !strings.ContainsAny(pattern, "*?") && !strings.HasPrefix(pattern, "!")
}
