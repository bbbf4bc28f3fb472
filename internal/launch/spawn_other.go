//go:build !unix

package launch

import (
	"context"
	"os"
	"os/exec"

	"github.com/treykane/sshmark/internal/bookmark"
)

// Spawn runs the client as a child sharing this process's stdio and waits
// for it to exit.
func (System) Spawn(ctx context.Context, argv bookmark.Argv) error {
	path, err := lookPath()
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, path, argv...)
	cmd.Args[0] = ClientName
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return waitStatus(cmd.Run())
}
