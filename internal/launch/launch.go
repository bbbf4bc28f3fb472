// Package launch hands the terminal over to the system ssh client.
//
// sshmark never speaks the SSH protocol. It resolves the "ssh" binary on
// PATH and either replaces the current process with it (Exec) or runs it as
// a child and waits (Spawn). Arguments are always passed as an argv vector,
// never through a shell, and every element has already been checked for
// embedded NUL bytes by bookmark.Entry.Argv.
package launch

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/treykane/sshmark/internal/bookmark"
)

// ClientName is the login client executable, looked up on PATH.
const ClientName = "ssh"

// Launcher starts the login client with a bookmark's argument vector.
type Launcher interface {
	// Exec replaces the current process. It only returns on failure.
	Exec(argv bookmark.Argv) error
	// Spawn runs the client as a child process and waits for it.
	Spawn(ctx context.Context, argv bookmark.Argv) error
}

// System launches the real client binary.
type System struct{}

// New returns the launcher used by the CLI.
func New() System { return System{} }

// ExitStatus is returned when a spawned client exits non-zero. Callers
// should exit with Code without printing anything further.
type ExitStatus struct {
	Code int
}

func (e *ExitStatus) Error() string {
	return fmt.Sprintf("%s exited with status %d", ClientName, e.Code)
}

// EnsureClient checks that the client binary is available on PATH.
func EnsureClient() error {
	if _, err := exec.LookPath(ClientName); err != nil {
		return fmt.Errorf("%s binary not found in PATH", ClientName)
	}
	return nil
}

// Command returns the full process argv: the client name in the
// program-name slot followed by the bookmark's arguments.
func Command(argv bookmark.Argv) []string {
	out := make([]string, 0, len(argv)+1)
	out = append(out, ClientName)
	return append(out, argv...)
}

func lookPath() (string, error) {
	path, err := exec.LookPath(ClientName)
	if err != nil {
		return "", fmt.Errorf("command not found: %s: %w", ClientName, err)
	}
	return path, nil
}

func waitStatus(err error) error {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		code := ee.ExitCode()
		if code < 0 {
			code = 1
		}
		return &ExitStatus{Code: code}
	}
	return err
}
