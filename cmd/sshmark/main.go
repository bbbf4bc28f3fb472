// Package main is the entry point for the sshmark binary.
//
// sshmark keeps short keys for ssh logins:
//
//	sshmark add db bob@10.0.0.9 "-p 2222"  # store a bookmark
//	sshmark db                             # exec ssh -p 2222 bob@10.0.0.9
//	sshmark list                           # show all bookmarks
//	sshmark rm db                          # delete it
//
// The command tree lives in internal/cli; this file only reports errors.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/treykane/sshmark/internal/cli"
	"github.com/treykane/sshmark/internal/launch"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// A spawned ssh already reported its own failure.
		var st *launch.ExitStatus
		if errors.As(err, &st) {
			os.Exit(st.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
