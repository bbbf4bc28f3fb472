// Package doctor runs local diagnostics for sshmark.
package doctor

import (
	"errors"
	"sort"

	"github.com/treykane/sshmark/internal/appconfig"
	"github.com/treykane/sshmark/internal/bookmark"
	"github.com/treykane/sshmark/internal/launch"
	"github.com/treykane/sshmark/internal/security"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type Issue struct {
	Severity       Severity `json:"severity"`
	Check          string   `json:"check"`
	Target         string   `json:"target"`
	Message        string   `json:"message"`
	Recommendation string   `json:"recommendation"`
}

type Report struct {
	Issues []Issue `json:"issues"`
	// ExposedFiles is set when another user can write a config or data file.
	ExposedFiles bool `json:"exposed_files"`
}

// Run checks the client binary, the bookmarks document, every stored entry
// and the permissions of local files.
func Run(p appconfig.Paths) Report {
	var issues []Issue

	if err := launch.EnsureClient(); err != nil {
		issues = append(issues, Issue{
			Severity:       SeverityHigh,
			Check:          "client-binary",
			Target:         "PATH",
			Message:        err.Error(),
			Recommendation: "install the OpenSSH client and ensure `ssh` is on PATH",
		})
	}

	store, err := bookmark.Load(p)
	if err != nil {
		target := bookmark.FileName
		var de *bookmark.DecodeError
		if errors.As(err, &de) {
			target = de.Path
		}
		issues = append(issues, Issue{
			Severity:       SeverityHigh,
			Check:          "bookmarks-decode",
			Target:         target,
			Message:        err.Error(),
			Recommendation: "fix or remove the bookmarks document; it must be a JSON object of key -> {addr, args}",
		})
	} else {
		issues = append(issues, entryIssues(store)...)
	}

	audit := security.RunLocalAudit(p)
	for _, f := range audit.Findings {
		issues = append(issues, Issue{
			Severity:       Severity(f.Severity),
			Check:          "permissions",
			Target:         f.Target,
			Message:        f.Message,
			Recommendation: f.Recommendation,
		})
	}

	sort.Slice(issues, func(i, j int) bool {
		ri := severityRank(issues[i].Severity)
		rj := severityRank(issues[j].Severity)
		if ri != rj {
			return ri > rj
		}
		if issues[i].Check != issues[j].Check {
			return issues[i].Check < issues[j].Check
		}
		if issues[i].Target != issues[j].Target {
			return issues[i].Target < issues[j].Target
		}
		return issues[i].Message < issues[j].Message
	})
	return Report{Issues: issues, ExposedFiles: audit.HasHigh()}
}

func entryIssues(store *bookmark.Store) []Issue {
	var issues []Issue
	for _, key := range store.Keys() {
		e, _ := store.Get(key)
		if _, err := e.Argv(); err != nil {
			issues = append(issues, Issue{
				Severity:       SeverityMedium,
				Check:          "entry-argv",
				Target:         key,
				Message:        err.Error(),
				Recommendation: "re-add the bookmark without NUL bytes",
			})
		}
		if e.Addr == "" {
			issues = append(issues, Issue{
				Severity:       SeverityLow,
				Check:          "entry-address",
				Target:         key,
				Message:        "bookmark has an empty address",
				Recommendation: "re-add the bookmark with a user@host address",
			})
		}
	}
	return issues
}

func severityRank(s Severity) int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	default:
		return 1
	}
}
