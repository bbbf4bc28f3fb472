//go:build !unix

package launch

import (
	"context"

	"github.com/treykane/sshmark/internal/bookmark"
)

// Exec has no process replacement to use on this platform, so it runs the
// client as a child instead. The caller must exit right after Exec returns;
// a non-zero child exit comes back as *ExitStatus.
func (s System) Exec(argv bookmark.Argv) error {
	return s.Spawn(context.Background(), argv)
}
