//go:build unix

package launch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
	"github.com/treykane/sshmark/internal/bookmark"
	"golang.org/x/term"
)

// Spawn runs the client as a child attached to a pseudo terminal and waits
// for it to exit. When stdin is not a terminal the child inherits stdio.
func (System) Spawn(ctx context.Context, argv bookmark.Argv) error {
	path, err := lookPath()
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, path, argv...)
	cmd.Args[0] = ClientName

	stdin := int(os.Stdin.Fd())
	if !term.IsTerminal(stdin) {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return waitStatus(cmd.Run())
	}

	f, err := pty.Start(cmd)
	if err != nil {
		return err
	}
	defer f.Close()

	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	go func() {
		for range winch {
			if err := pty.InheritSize(os.Stdin, f); err != nil {
				slog.Debug("pty resize failed", "error", err)
			}
		}
	}()
	winch <- syscall.SIGWINCH
	defer func() {
		signal.Stop(winch)
		close(winch)
	}()

	if old, err := term.MakeRaw(stdin); err == nil {
		defer func() { _ = term.Restore(stdin, old) }()
	} else {
		slog.Debug("raw mode unavailable", "error", err)
	}

	go func() {
		_, _ = io.Copy(f, os.Stdin)
	}()
	_, _ = io.Copy(os.Stdout, f)

	return waitStatus(cmd.Wait())
}
