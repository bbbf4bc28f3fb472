// Package security audits the permissions of sshmark's local files.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/treykane/sshmark/internal/appconfig"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type Finding struct {
	Severity       Severity `json:"severity"`
	Target         string   `json:"target"`
	Message        string   `json:"message"`
	Recommendation string   `json:"recommendation"`
}

type AuditReport struct {
	Findings []Finding `json:"findings"`
}

func (r AuditReport) HasHigh() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityHigh {
			return true
		}
	}
	return false
}

// DataFiles are the files sshmark keeps in its data directory.
var DataFiles = []string{"bookmarks.json", "history.json", "journal.jsonl"}

// RunLocalAudit inspects the config and data directories. Missing paths are
// not findings.
func RunLocalAudit(p appconfig.Paths) AuditReport {
	var findings []Finding

	if cfgDir, err := appconfig.ConfigDir(); err == nil {
		checkPathPerm(&findings, cfgDir, 0o700, false)
		checkPathPerm(&findings, filepath.Join(cfgDir, "config.yaml"), 0o600, true)
	}
	checkPathPerm(&findings, p.DataHome, 0o700, false)
	for _, name := range DataFiles {
		if path, ok := p.FindDataFile(name); ok {
			checkPathPerm(&findings, path, 0o600, true)
		}
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Severity != findings[j].Severity {
			return severityRank(findings[i].Severity) > severityRank(findings[j].Severity)
		}
		if findings[i].Target != findings[j].Target {
			return findings[i].Target < findings[j].Target
		}
		return findings[i].Message < findings[j].Message
	})
	return AuditReport{Findings: findings}
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

func checkPathPerm(findings *[]Finding, path string, max os.FileMode, isFile bool) {
	if path == "" {
		return
	}
	st, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		*findings = append(*findings, Finding{
			Severity:       SeverityLow,
			Target:         path,
			Message:        fmt.Sprintf("unable to inspect permissions: %v", err),
			Recommendation: "verify path and permissions manually",
		})
		return
	}
	mode := st.Mode().Perm()
	if mode&^max == 0 {
		return
	}
	kind := "directory"
	if isFile {
		kind = "file"
	}
	sev := SeverityMedium
	if mode&0o002 != 0 {
		sev = SeverityHigh
	}
	*findings = append(*findings, Finding{
		Severity:       sev,
		Target:         path,
		Message:        fmt.Sprintf("%s permissions are too broad (%#o)", kind, mode),
		Recommendation: fmt.Sprintf("restrict permissions to %#o or tighter", max),
	})
}
