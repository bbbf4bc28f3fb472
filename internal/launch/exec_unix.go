//go:build unix

package launch

import (
	"fmt"
	"os"

	"github.com/treykane/sshmark/internal/bookmark"
	"golang.org/x/sys/unix"
)

// Exec replaces the current process image with the client. On success it
// never returns.
func (System) Exec(argv bookmark.Argv) error {
	path, err := lookPath()
	if err != nil {
		return err
	}
	if err := unix.Exec(path, Command(argv), os.Environ()); err != nil {
		return fmt.Errorf("exec %s: %w", path, err)
	}
	return nil
}
